package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "distill",
		Short:         "Chat distiller (distill): turn ChatGPT share links into clean transcripts",
		Long:          "distill fetches a public ChatGPT share page, recovers the conversation embedded in it, and writes the visible user/assistant transcript as JSON, YAML or text. Transcripts can be archived and stored per chat.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline stages to stderr")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if verbose {
			app.logLevel.SetLevel(zapcore.DebugLevel)
		}
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		_ = app.logger.Sync()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newFetchCmd(app),
		newArchiveCmd(app),
		newListCmd(app),
	)

	return rootCmd
}
