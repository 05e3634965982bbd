package streamprops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Sentinel errors for errors.Is checks.
var (
	ErrOutOfRange      = errors.New("volume out of range")
	ErrMalformedLine   = errors.New("malformed line")
	ErrUnknownCategory = errors.New("unknown category")
)

// ErrorKind classifies errors surfaced to callers.
type ErrorKind string

const (
	KindOutOfRange      ErrorKind = "OutOfRange"
	KindMalformedLine   ErrorKind = "MalformedLine"
	KindUnknownCategory ErrorKind = "UnknownCategory"
	KindIO              ErrorKind = "IO"
	KindOther           ErrorKind = "Other"
)

// OutOfRangeError reports a volume outside [0.0, 1.0].
type OutOfRangeError struct {
	Volume float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("volume must be between 0.0 and 1.0, got %v", e.Volume)
}

// Is matches ErrOutOfRange.
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// MalformedLineError reports a data line that does not follow the grammar.
type MalformedLineError struct {
	Line   int    // 1-based line number in the input
	Text   string // offending line, trimmed
	Reason string
	Err    error // underlying decode error, if any
}

func (e *MalformedLineError) Error() string {
	msg := fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying decode error.
func (e *MalformedLineError) Unwrap() error {
	return e.Err
}

// Is matches ErrMalformedLine.
func (e *MalformedLineError) Is(target error) bool {
	return target == ErrMalformedLine
}

// UnknownCategoryError reports a category label outside the recognized set.
type UnknownCategoryError struct {
	Label    string
	Selector string // full selector, set by the parser
	Line     int
}

func (e *UnknownCategoryError) Error() string {
	if e.Selector != "" {
		return fmt.Sprintf("line %d: unknown selector %q", e.Line, e.Selector)
	}
	return fmt.Sprintf("unknown category %q", e.Label)
}

// Is matches ErrUnknownCategory.
func (e *UnknownCategoryError) Is(target error) bool {
	return target == ErrUnknownCategory
}

// KindOf classifies err. It returns "" for nil.
// Uses errors.Is so wrapped errors classify correctly.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrOutOfRange):
		return KindOutOfRange
	case errors.Is(err, ErrUnknownCategory):
		return KindUnknownCategory
	case errors.Is(err, ErrMalformedLine):
		return KindMalformedLine
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return KindIO
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return KindIO
	}
	return KindOther
}
