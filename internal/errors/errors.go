// Package errors defines the closed set of failure codes used across the engine.
// A template that is simply not on screen is never an error: codes cover
// startup resource acquisition and failures that are logged and degraded to
// not-found at the component boundary.
package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Code classifies an AppError.
type Code int

const (
	CodeUnknown Code = iota
	CodeInvalidArgument
	CodeUnavailable
	CodeConfigInvalid
	CodeTemplateDirInvalid
	CodeTemplateDirUnreadable
	CodeDecodeFailed
	CodeInvalidImage
	CodeNeedleTooLarge
	CodeBackendFailed
	CodeCaptureFailed
	codeCount
)

var codeNames = [codeCount]string{
	CodeUnknown:               "UNKNOWN",
	CodeInvalidArgument:       "INVALID_ARGUMENT",
	CodeUnavailable:           "UNAVAILABLE",
	CodeConfigInvalid:         "CONFIG_INVALID",
	CodeTemplateDirInvalid:    "TEMPLATE_DIR_INVALID",
	CodeTemplateDirUnreadable: "TEMPLATE_DIR_UNREADABLE",
	CodeDecodeFailed:          "DECODE_FAILED",
	CodeInvalidImage:          "INVALID_IMAGE",
	CodeNeedleTooLarge:        "NEEDLE_TOO_LARGE",
	CodeBackendFailed:         "BACKEND_FAILED",
	CodeCaptureFailed:         "CAPTURE_FAILED",
}

func (c Code) String() string {
	if c >= 0 && c < codeCount {
		return codeNames[c]
	}
	return fmt.Sprintf("CODE(%d)", int(c))
}

// Retryable reports whether a failure with this code may succeed when the
// same call is repeated: a busy display or a backend that is shedding load.
func (c Code) Retryable() bool {
	return c == CodeUnavailable || c == CodeCaptureFailed
}

// AppError is a coded error with optional string metadata and cause.
type AppError struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

// Error renders "[CODE] message {k=v ...}: cause" with metadata keys sorted.
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(e.Code.String())
	b.WriteString("] ")
	b.WriteString(e.Message)

	if len(e.Metadata) > 0 {
		keys := make([]string, 0, len(e.Metadata))
		for k := range e.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%s=%s", k, e.Metadata[k])
		}
		b.WriteByte('}')
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error { return e.Cause }

// Is matches another *AppError with the same code, so a bare
// New(code, "") works as a sentinel for errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// New returns an AppError without a cause.
func New(code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

// Newf is New with a format string.
func Newf(code Code, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap returns an AppError caused by err.
func Wrap(err error, code Code, msg string) *AppError {
	return &AppError{Code: code, Message: msg, Cause: err}
}

// WithMetadata sets key to value and returns e for chaining.
func (e *AppError) WithMetadata(key, value string) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string, 2)
	}
	e.Metadata[key] = value
	return e
}

// CodeOf returns the code of the outermost AppError in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var ae *AppError
	if stderrors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// IsCode reports whether the outermost AppError in err's chain has code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// IsRetryable reports whether err carries a retryable code.
func IsRetryable(err error) bool {
	return err != nil && CodeOf(err).Retryable()
}
