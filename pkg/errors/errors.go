// Package errors defines the coded errors shared by the CLI and the API.
//
// Every failure a user can act on carries a [Code]. The HTTP server turns
// the code's [Kind] into a status and the CLI turns it into an exit status,
// so both surfaces agree on what went wrong:
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
//	errors.Is(err, errors.ErrCodeInvalidFormat) // true
//	errors.KindOf(err)                          // errors.KindInput
//
// Errors from other packages join in by implementing [Coder]; the
// parameter validator does this so a rejected parameter set is an input
// error without importing this package's concrete type.
package errors

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Code is a stable machine-readable error identifier. It appears in API
// responses and must not change once published.
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidParameter Code = "INVALID_PARAMETER"
	ErrCodeInvalidGeometry  Code = "INVALID_GEOMETRY"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeInvalidSheet     Code = "INVALID_SHEET"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Kind groups codes by who has to act on them.
type Kind int

const (
	KindInternal    Kind = iota // A bug or an environment failure
	KindInput                   // The caller sent something unusable
	KindNotFound                // A named file or record does not exist
	KindLimited                 // Retry later
	KindTimeout                 // The work did not finish in time
	KindUnsupported             // The feature is not configured
)

var kinds = map[Code]Kind{
	ErrCodeInvalidInput:     KindInput,
	ErrCodeInvalidParameter: KindInput,
	ErrCodeInvalidGeometry:  KindInput,
	ErrCodeInvalidFormat:    KindInput,
	ErrCodeInvalidPath:      KindInput,
	ErrCodeInvalidSheet:     KindInput,
	ErrCodeNotFound:         KindNotFound,
	ErrCodeFileNotFound:     KindNotFound,
	ErrCodeRateLimited:      KindLimited,
	ErrCodeTimeout:          KindTimeout,
	ErrCodeUnsupported:      KindUnsupported,
}

// Kind returns the group c belongs to. Unknown codes are internal.
func (c Code) Kind() Kind {
	return kinds[c]
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an *Error whose cause is err.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// Coder is implemented by errors that carry a code without being an *Error.
type Coder interface {
	error
	Code() Code
}

// GetCode returns the code of the outermost coded error in err's chain,
// or "" when there is none.
func GetCode(err error) Code {
	for ; err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		if c, ok := err.(Coder); ok {
			return c.Code()
		}
	}
	return ""
}

// Is reports whether err's code is code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// KindOf returns the kind of err's code. Uncoded errors are internal.
func KindOf(err error) Kind {
	return GetCode(err).Kind()
}

// UserMessage returns the message of the first *Error in err's chain
// without its code prefix, or err.Error() when there is none.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// RateLimitedError asks the caller to come back after RetryAfter.
type RateLimitedError struct {
	RetryAfter time.Duration
	Message    string
}

// RateLimited returns a RateLimitedError with the given wait and message.
func RateLimited(after time.Duration, msg string) *RateLimitedError {
	return &RateLimitedError{RetryAfter: after, Message: msg}
}

func (e *RateLimitedError) Error() string {
	if s := e.RetrySeconds(); s > 0 {
		return fmt.Sprintf("rate limited: retry after %ds", s)
	}
	return "rate limited"
}

func (e *RateLimitedError) Code() Code { return ErrCodeRateLimited }

// RetrySeconds is RetryAfter rounded up to whole seconds, the unit of the
// Retry-After header.
func (e *RateLimitedError) RetrySeconds() int {
	if e.RetryAfter <= 0 {
		return 0
	}
	return int(math.Ceil(e.RetryAfter.Seconds()))
}
