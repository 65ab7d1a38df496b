// Package errs defines the application's error types.
//
// Every failure that crosses the repository boundary is an *Error carrying
// a machine-friendly Code (NOT_FOUND, ALREADY_EXISTS, ...) and a message
// that is safe to show on the console. The original driver error stays
// reachable through errors.Unwrap for logging.
package errs
