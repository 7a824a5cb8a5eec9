package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/chat-distiller/internal/application"
	"github.com/bnema/chat-distiller/internal/domain"
)

func newArchiveCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Build and merge conversation archives",
	}

	cmd.AddCommand(
		newArchiveBuildCmd(app),
		newArchiveMergeCmd(app),
	)

	return cmd
}

func newArchiveBuildCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "build <messages.json>",
		Short: "Build a versioned archive from a messages JSON array (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return withExitCode(exitArchive, err)
			}

			archive, err := app.service.BuildArchive(application.BuildArchiveCommand{Messages: raw})
			if err != nil {
				return err
			}

			return writeArchive(cmd, output, archive)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", stdioPath, "Output file for the archive (- for stdout)")

	return cmd
}

func newArchiveMergeCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "merge <first.json> <second.json>",
		Short: "Merge two archives, first archive's messages first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := readInput(cmd, args[0])
			if err != nil {
				return withExitCode(exitArchive, err)
			}
			second, err := readInput(cmd, args[1])
			if err != nil {
				return withExitCode(exitArchive, err)
			}

			archive, err := app.service.MergeArchives(application.MergeArchivesCommand{First: first, Second: second})
			if err != nil {
				return err
			}

			return writeArchive(cmd, output, archive)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", stdioPath, "Output file for the merged archive (- for stdout)")

	return cmd
}

func writeArchive(cmd *cobra.Command, output string, archive domain.Archive) error {
	data, err := encodeJSON(archive)
	if err != nil {
		return withExitCode(exitArchive, fmt.Errorf("encode archive: %w", err))
	}

	return writeOutput(cmd, output, data)
}
