package errs

import (
	"strings"

	"github.com/pkg/errors"
)

// Error kinds. Code is the generic kind; Detail holds the domain specific
// variant (e.g. USER_NOT_FOUND) when one could be derived.
const (
	CodeNotFound        = "NOT_FOUND"
	CodeAmbiguousResult = "AMBIGUOUS_RESULT"
	CodeAlreadyExists   = "ALREADY_EXISTS"
	CodeBadRequest      = "BAD_REQUEST"
	CodeStorage         = "STORAGE_ERROR"
)

// Sentinels for errors.Is. They match any *Error with the same Code.
var (
	ErrNotFound        = &Error{Code: CodeNotFound}
	ErrAmbiguousResult = &Error{Code: CodeAmbiguousResult}
	ErrAlreadyExists   = &Error{Code: CodeAlreadyExists}
	ErrBadRequest      = &Error{Code: CodeBadRequest}
	ErrStorage         = &Error{Code: CodeStorage}
)

// FieldError represents a column-level problem reported by the database,
// typically a NOT NULL violation.
//
//	{ "field": "email", "error": "is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Error is the application error type.
//
// Override tells the presentation layer whether Message was written for
// humans and can be shown as-is, or whether a generic text should be used.
type Error struct {
	Code     string       `json:"code"`
	Detail   string       `json:"detail,omitempty"`
	Message  string       `json:"message"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors,omitempty"`

	cause error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying driver error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error of the same kind. A target without
// a Code matches any *Error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// WithCause returns a copy of e wrapping cause. The cause is annotated with a
// stack trace so zerolog's Stack() can print where it was converted.
func (e *Error) WithCause(cause error) *Error {
	c := *e
	if cause != nil {
		c.cause = errors.WithStack(cause)
	}
	return &c
}

// CodeOf returns the Code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// MakeUpperCaseWithUnderscores converts "Already Exists" into "ALREADY_EXISTS".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
