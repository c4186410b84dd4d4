package cmd

import (
	"errors"
	"fmt"

	"github.com/heaths/gitlab-compare/internal/gitlab"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitAuth  = 2
	ExitAPI   = 3
	ExitUsage = 64
)

// UsageError reports invalid or missing arguments, detected before any request is made.
type UsageError struct {
	err error
}

func (e *UsageError) Error() string {
	return e.err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.err
}

func usageErrorf(format string, args ...interface{}) error {
	return &UsageError{err: fmt.Errorf(format, args...)}
}

func flagError(cmd *cobra.Command, err error) error {
	return &UsageError{err: err}
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var usageErr *UsageError
	var authErr *gitlab.AuthError
	var apiErr *gitlab.APIError
	switch {
	case errors.As(err, &usageErr):
		return ExitUsage
	case errors.As(err, &authErr):
		return ExitAuth
	case errors.As(err, &apiErr):
		return ExitAPI
	default:
		return ExitError
	}
}

// Message returns a single line describing err and its category.
func Message(err error) string {
	switch ExitCode(err) {
	case ExitUsage:
		return fmt.Sprintf("usage error: %v (see --help)", err)
	case ExitAuth:
		return fmt.Sprintf("authentication error: %v", err)
	case ExitAPI:
		return fmt.Sprintf("GitLab API error: %v", err)
	default:
		return fmt.Sprintf("unexpected error: %v", err)
	}
}
