package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/chat-distiller/internal/adapters/render/summary"
	"github.com/bnema/chat-distiller/internal/application"
	"github.com/bnema/chat-distiller/internal/domain"
)

type fetchOptions struct {
	url        string
	htmlPath   string
	output     string
	format     string
	tail       int
	debugHTML  string
	store      bool
	useBrowser bool
	quiet      bool
}

func newFetchCmd(app *app) *cobra.Command {
	opts := fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch [share-url]",
		Short: "Distill a ChatGPT share link into a transcript",
		Example: `  distill fetch https://chatgpt.com/share/<id>
  distill fetch --url https://chatgpt.com/share/<id> --output - --format text
  distill fetch --html saved.html --output transcript.yaml --format yaml
  distill fetch https://chatgpt.com/share/<id> --tail 4 --store`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if opts.url != "" && opts.url != args[0] {
					return withExitCode(exitUsage, errors.New("share url given both as argument and --url"))
				}
				opts.url = args[0]
			}
			return runFetch(cmd, app, opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "Public ChatGPT share URL")
	cmd.Flags().StringVar(&opts.htmlPath, "html", "", "Read the share page from a saved HTML file instead of fetching it")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "messages.json", "Output file for the messages (- for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(formatJSON), "Output format: json, yaml or text")
	cmd.Flags().IntVar(&opts.tail, "tail", -1, "Keep only the last N messages")
	cmd.Flags().StringVar(&opts.debugHTML, "debug-html", "", "Write the fetched page to this file when extraction fails")
	cmd.Flags().BoolVar(&opts.store, "store", false, "Archive the transcript in the chat data directory")
	cmd.Flags().BoolVar(&opts.useBrowser, "browser", false, "Render the page in headless Chrome instead of a plain HTTP request")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not print the summary")

	return cmd
}

func runFetch(cmd *cobra.Command, app *app, opts fetchOptions) error {
	if opts.url == "" && opts.htmlPath == "" {
		return withExitCode(exitUsage, errors.New("a share url or --html file is required"))
	}
	if cmd.Flags().Changed("tail") && opts.tail < 0 {
		return withExitCode(exitUsage, fmt.Errorf("--tail must be >= 0, got %d", opts.tail))
	}
	if opts.store && opts.url == "" {
		return withExitCode(exitUsage, errors.New("--store needs the share url to identify the chat"))
	}
	format, err := parseOutputFormat(opts.format)
	if err != nil {
		return withExitCode(exitUsage, err)
	}

	command := application.DistillCommand{URL: opts.url, Tail: opts.tail}
	if opts.htmlPath != "" {
		page, err := readInput(cmd, opts.htmlPath)
		if err != nil {
			return withExitCode(exitUsage, err)
		}
		if len(page) == 0 {
			return fmt.Errorf("%w: %s is empty", domain.ErrExtraction, opts.htmlPath)
		}
		command.HTML = string(page)
	}

	transcript, err := distill(cmd, app.serviceFor(opts.useBrowser), command)
	if err != nil {
		return debugCapture(cmd, opts.debugHTML, err)
	}

	data, err := encodeMessages(transcript.Messages, format)
	if err != nil {
		return withExitCode(exitOutput, fmt.Errorf("encode messages: %w", err))
	}
	if err := writeOutput(cmd, opts.output, data); err != nil {
		return err
	}

	var stored *application.StoreResult
	if opts.store {
		result, err := app.service.Store(cmd.Context(), transcript)
		if err != nil {
			return err
		}
		stored = &result
	}

	if opts.quiet {
		return nil
	}

	rendered, err := app.distillRenderer(summary.Distill{
		Transcript: transcript,
		Output:     opts.output,
		Stored:     stored,
	}, summary.RenderOptions{Now: app.now()})
	if err != nil {
		return fmt.Errorf("render summary: %w", err)
	}

	// Keep stdout clean when it carries the messages.
	summaryOut := cmd.OutOrStdout()
	if opts.output == stdioPath {
		summaryOut = cmd.ErrOrStderr()
	}
	_, err = fmt.Fprintln(summaryOut, rendered)
	return err
}

// distill runs the service, behind a spinner when the page has to be fetched.
func distill(cmd *cobra.Command, service *application.Service, command application.DistillCommand) (application.Transcript, error) {
	if command.HTML != "" {
		return service.Distill(cmd.Context(), command)
	}

	var transcript application.Transcript
	err := runFetchSpinner(contextOf(cmd), cmd.ErrOrStderr(), "Fetching share page...", func(ctx context.Context) error {
		var err error
		transcript, err = service.Distill(ctx, command)
		return err
	})

	return transcript, err
}

// debugCapture saves the page of an extraction failure when path is set.
func debugCapture(cmd *cobra.Command, path string, err error) error {
	var pageErr *application.PageError
	if path == "" || !errors.As(err, &pageErr) {
		return err
	}

	if writeErr := os.WriteFile(path, []byte(pageErr.HTML), 0o644); writeErr != nil {
		return errors.Join(err, fmt.Errorf("write debug html: %w", writeErr))
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "wrote fetched page to %s\n", path)

	return err
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
