package cmd

import (
	"errors"

	"github.com/bnema/chat-distiller/internal/domain"
)

const (
	exitGeneric    = 1
	exitUsage      = 2
	exitExtraction = 3
	exitRebuild    = 4
	exitOutput     = 5
	exitArchive    = 6
)

// exitError pins the process exit code of err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var pinned *exitError
	if errors.As(err, &pinned) {
		return pinned.code
	}

	switch {
	case errors.Is(err, domain.ErrInvalidShareURL), errors.Is(err, domain.ErrFetch):
		return exitUsage
	case errors.Is(err, domain.ErrExtraction):
		return exitExtraction
	case errors.Is(err, domain.ErrRebuild):
		return exitRebuild
	case errors.Is(err, domain.ErrStorage):
		return exitOutput
	case errors.Is(err, domain.ErrArchive):
		return exitArchive
	default:
		return exitGeneric
	}
}
