package errs

// NewNotFoundError reports that a lookup by key matched no row.
//
// detail is an optional domain code such as USER_NOT_FOUND.
func NewNotFoundError(message string, override bool, detail *string) *Error {
	return &Error{
		Code:     CodeNotFound,
		Detail:   deref(detail),
		Message:  message,
		Override: override,
	}
}

// NewAmbiguousResultError reports that a single-row lookup matched more than one row.
func NewAmbiguousResultError(message string, detail *string) *Error {
	return &Error{
		Code:     CodeAmbiguousResult,
		Detail:   deref(detail),
		Message:  message,
		Override: true,
	}
}

// NewAlreadyExistsError reports a unique or primary key violation.
func NewAlreadyExistsError(message string, override bool, detail *string) *Error {
	return &Error{
		Code:     CodeAlreadyExists,
		Detail:   deref(detail),
		Message:  message,
		Override: override,
	}
}

// NewBadRequestError reports any other constraint the database rejected the
// input for (foreign key, not null, check).
func NewBadRequestError(message string, override bool, detail *string, errors []FieldError) *Error {
	return &Error{
		Code:     CodeBadRequest,
		Detail:   deref(detail),
		Message:  message,
		Override: override,
		Errors:   errors,
	}
}

// NewStorageError wraps a failure the application cannot classify: lost
// connections, timeouts, unknown SQLSTATEs.
//
// The message is the driver's own text, so it is not marked for override.
func NewStorageError(cause error) *Error {
	message := "storage error"
	if cause != nil {
		message = cause.Error()
	}
	return (&Error{
		Code:    CodeStorage,
		Message: message,
	}).WithCause(cause)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
