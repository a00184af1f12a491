package cli

import (
	"errors"
	"fmt"

	"github.com/ppiankov/causelist/internal/model"
)

// Process exit codes
const (
	ExitFound        = 0 // Case is on the cause list
	ExitNotFound     = 1 // Checked, case not listed
	ExitInvalidInput = 2 // Bad query or date; nothing written
	ExitFailure      = 3 // Configuration or persistence failure
)

// ExitError carries a process exit code. Silent errors are not printed.
type ExitError struct {
	Code   int
	Err    error
	Silent bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an Execute error to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitFound
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, model.ErrInvalidQueryKind) || errors.Is(err, model.ErrInvalidDate) {
		return ExitInvalidInput
	}
	return ExitFailure
}

// ShouldPrint reports whether main should print err
func ShouldPrint(err error) bool {
	if err == nil {
		return false
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return !exitErr.Silent
	}
	return true
}
