// Package sqlerr specifically handles database driver errors.
//
// It parses cryptic SQLSTATE codes from the PostgreSQL driver and converts
// them into application errors (e.g. turning a primary key violation into
// an ALREADY_EXISTS error with a readable message).
package sqlerr
