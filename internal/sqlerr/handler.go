package sqlerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/usercrud/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError converts a raw *pgconn.PgError into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// generateErrorCode builds a domain code of the form <ENTITY>_<ACTION>.
//
//	users + "ALREADY_EXISTS" => USER_ALREADY_EXISTS
func generateErrorCode(tableName, action string) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := errs.MakeUpperCaseWithUnderscores(tableName)
	// naive singularization, good enough for "users"
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func actionFor(code Code) string {
	switch code {
	case ForeignKeyViolation:
		return "NOT_FOUND"
	case UniqueViolation:
		return "ALREADY_EXISTS"
	case NotNullViolation:
		return "REQUIRED"
	case CheckViolation:
		return "INVALID"
	default:
		return "ERROR"
	}
}

// formatUserFriendlyMessage produces a console-safe message for a constraint violation.
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		// "identifier" is replaced by the column name when it can be inferred.
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName infers an entity name from table/column data.
//
//  1. a column ending in "_id" names the referenced entity ("user_id" -> "User")
//  2. otherwise the singularized table name
//  3. otherwise "record"
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case into Title Case ("first_name" -> "First Name").
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

var constraintColumnRegex = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// extractColumnForUniqueViolation infers the column from a constraint name.
//
// Supported conventions:
//
//	unique_users_email -> email
//	users_email_key    -> email
//	users_pkey         -> id
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasSuffix(constraintName, "_pkey") {
		return "id"
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := constraintColumnRegex.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// HandleError converts a low-level database error into an *errs.Error.
//
// table names the relation the failed statement targeted; it is used for
// messages when the driver error does not carry one (e.g. no rows).
//
//   - *errs.Error: returned unchanged
//   - *pgconn.PgError: constraint violations become ALREADY_EXISTS or
//     BAD_REQUEST, anything else STORAGE_ERROR
//   - pgx.ErrNoRows: NOT_FOUND
//   - pgx.ErrTooManyRows: AMBIGUOUS_RESULT
//   - everything else: STORAGE_ERROR carrying the driver message
func HandleError(err error, table string) error {
	if err == nil {
		return nil
	}

	var appErr *errs.Error
	if errors.As(err, &appErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		if sqlErr.TableName == "" {
			sqlErr.TableName = table
		}

		errorCode := generateErrorCode(sqlErr.TableName, actionFor(sqlErr.Code))
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case UniqueViolation:
			columnName := extractColumnForUniqueViolation(sqlErr.ConstraintName)
			if columnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
			}
			return errs.NewAlreadyExistsError(userMessage, true, &errorCode).WithCause(sqlErr)

		case ForeignKeyViolation, CheckViolation:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil).WithCause(sqlErr)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors).WithCause(sqlErr)

		default:
			return errs.NewStorageError(sqlErr)
		}
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		code := generateErrorCode(table, "NOT_FOUND")
		return errs.NewNotFoundError(fmt.Sprintf("%s not found", getEntityName(table, "")), true, &code).WithCause(err)

	case errors.Is(err, pgx.ErrTooManyRows):
		code := generateErrorCode(table, "AMBIGUOUS_RESULT")
		return errs.NewAmbiguousResultError(fmt.Sprintf("more than one %s matched", strings.ToLower(getEntityName(table, ""))), &code).WithCause(err)
	}

	return errs.NewStorageError(err)
}
