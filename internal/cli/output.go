package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/wpvol/internal/engine"
	"github.com/roach88/wpvol/internal/plan"
	"github.com/roach88/wpvol/internal/streamprops"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Request failed (out of range, unparseable state file, etc.)
	ExitCommandError = 2 // Command error (bad flags, missing files)
)

// Error codes reported in CLI output.
const (
	ErrCodeGeneric         = "E001" // Generic/unknown error
	ErrCodeIO              = "E002" // State file missing, unreadable or unwritable
	ErrCodeMalformedLine   = "E003" // State file line does not follow the grammar
	ErrCodeUnknownCategory = "E004" // State file selector has an unknown category
	ErrCodeOutOfRange      = "E005" // Volume outside [0.0, 1.0]
	ErrCodeInvalidPlan     = "E006" // Plan failed YAML decoding or schema validation
	ErrCodeUsage           = "E007" // Invalid arguments
	ErrCodeHistory         = "E008" // History database error
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
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

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
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

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E002", etc.
	Kind    string      `json:"kind,omitempty"`    // streamprops.ErrorKind when known
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs data in JSON mode, or text in text mode.
func (f *OutputFormatter) Success(data interface{}, text string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	_, err := fmt.Fprintln(f.Writer, text)
	return err
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(cliErr CLIError) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &cliErr,
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", cliErr.Code, cliErr.Message)
	if cliErr.Details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", cliErr.Details)
	}
	return nil
}

// Fail reports err through the formatter and returns the ExitError the
// command should return.
func (f *OutputFormatter) Fail(err error) error {
	cliErr, exitCode := classify(err)
	_ = f.Error(cliErr)
	return WrapExitError(exitCode, cliErr.Code, err)
}

// classify maps an error to its CLI code and exit code.
func classify(err error) (CLIError, int) {
	cliErr := CLIError{Message: err.Error()}
	if kind := streamprops.KindOf(err); kind != streamprops.KindOther {
		cliErr.Kind = string(kind)
	}

	var ve *plan.ValidationError
	switch {
	case errors.Is(err, streamprops.ErrOutOfRange):
		cliErr.Code = ErrCodeOutOfRange
		return cliErr, ExitFailure
	case errors.Is(err, streamprops.ErrUnknownCategory):
		cliErr.Code = ErrCodeUnknownCategory
		return cliErr, ExitFailure
	case errors.Is(err, streamprops.ErrMalformedLine):
		cliErr.Code = ErrCodeMalformedLine
		return cliErr, ExitFailure
	case errors.As(err, &ve):
		cliErr.Code = ErrCodeInvalidPlan
		if len(ve.Details) > 1 {
			cliErr.Details = ve.Details
		}
		return cliErr, ExitCommandError
	case errors.Is(err, engine.ErrEmptyAppName):
		cliErr.Code = ErrCodeUsage
		return cliErr, ExitCommandError
	case errors.Is(err, errHistory):
		cliErr.Code = ErrCodeHistory
		return cliErr, ExitCommandError
	case streamprops.KindOf(err) == streamprops.KindIO:
		cliErr.Code = ErrCodeIO
		return cliErr, ExitCommandError
	}

	cliErr.Code = ErrCodeGeneric
	return cliErr, ExitFailure
}
