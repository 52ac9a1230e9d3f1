package cli

import (
	"errors"

	"github.com/yaklabco/syntree/pkg/runner"
)

// Exit codes for syntree.
const (
	// ExitSuccess indicates every file parsed without error elements.
	ExitSuccess = 0

	// ExitSyntaxErrors indicates at least one tree holds error elements.
	ExitSyntaxErrors = 1

	// ExitParseFailures indicates at least one file produced no tree.
	ExitParseFailures = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrSyntaxErrors is returned when parsed trees hold error elements.
	ErrSyntaxErrors = errors.New("syntax errors found")

	// ErrParseFailures is returned when some files could not be parsed.
	ErrParseFailures = errors.New("some files could not be parsed")
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitInternalError
}

// ExitCodeFromResult determines the exit code of a parse run. Failed files
// take precedence over syntax errors.
func ExitCodeFromResult(result *runner.Result) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasFailures():
		return ExitParseFailures
	case result.HasSyntaxErrors():
		return ExitSyntaxErrors
	default:
		return ExitSuccess
	}
}

// resultError turns the exit code of a run into a command error.
func resultError(result *runner.Result) error {
	switch code := ExitCodeFromResult(result); code {
	case ExitParseFailures:
		return &ExitError{Code: code, Err: ErrParseFailures}
	case ExitSyntaxErrors:
		return &ExitError{Code: code, Err: ErrSyntaxErrors}
	default:
		return nil
	}
}

// syntaxError reports count error elements of a single tree.
func syntaxError(count int) error {
	if count == 0 {
		return nil
	}
	return &ExitError{Code: ExitSyntaxErrors, Err: ErrSyntaxErrors}
}
