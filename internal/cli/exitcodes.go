package cli

import (
	"errors"

	"github.com/yaklabco/mdview/internal/configloader"
)

// Exit codes for mdview, following sysexits.h where one applies.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFailure is returned for errors with no more specific code.
	ExitFailure = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeForError maps an error returned by a command to a process exit code.
func ExitCodeForError(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrInvalidRange), errors.Is(err, ErrInvalidPoint):
		return ExitInvalidUsage
	case errors.As(err, &validationErr), errors.Is(err, ErrConfigLoad):
		return ExitConfigError
	case errors.Is(err, ErrReadInput):
		return ExitIOError
	default:
		return ExitFailure
	}
}
