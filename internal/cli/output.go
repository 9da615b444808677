package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/comalice/hsmx/internal/primitives"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // One or more evaluations failed
	ExitCommandError = 2 // Command error (bad config, journal not found, etc.)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Errors that are not an
// ExitError map to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// StepOutput is the JSON form of one evaluated event.
type StepOutput struct {
	Event   string             `json:"event"`
	Active  []string           `json:"active"`
	Results primitives.Results `json:"results,omitempty"`
	Error   string             `json:"error,omitempty"`
}

func writeStep(w io.Writer, format string, step StepOutput) error {
	if format == "json" {
		return json.NewEncoder(w).Encode(step)
	}
	if step.Error != "" {
		_, err := fmt.Fprintf(w, "%s -> %s (error: %s)\n", step.Event, path(step.Active), step.Error)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s -> %s\n", step.Event, path(step.Active)); err != nil {
		return err
	}
	for _, r := range step.Results {
		if _, err := fmt.Fprintf(w, "  %s[%d] %v\n", r.Source, r.Index, r.Value); err != nil {
			return err
		}
	}
	return nil
}

func path(active []string) string {
	if len(active) == 0 {
		return "(none)"
	}
	return strings.Join(active, "/")
}
