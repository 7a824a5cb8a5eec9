package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bnema/chat-distiller/internal/domain"
)

const stdioPath = "-"

type outputFormat string

const (
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
	formatText outputFormat = "text"
)

func parseOutputFormat(raw string) (outputFormat, error) {
	switch f := outputFormat(raw); f {
	case formatJSON, formatYAML, formatText:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json, yaml or text)", raw)
	}
}

func encodeMessages(messages []domain.Message, format outputFormat) ([]byte, error) {
	if messages == nil {
		messages = []domain.Message{}
	}

	switch format {
	case formatYAML:
		return yaml.Marshal(messages)
	case formatText:
		return []byte(domain.SerializeTranscript(messages) + "\n"), nil
	default:
		return encodeJSON(messages)
	}
}

// encodeJSON writes v as indented JSON without escaping <, > and &.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writeOutput writes data to path, or to the command's stdout for "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == stdioPath {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return withExitCode(exitOutput, fmt.Errorf("write output: %w", err))
		}
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return withExitCode(exitOutput, fmt.Errorf("create output directory: %w", err))
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return withExitCode(exitOutput, fmt.Errorf("write output: %w", err))
	}

	return nil
}

// readInput reads path, or the command's stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdioPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return data, nil
}
