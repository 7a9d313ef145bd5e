// Package errors defines the application error taxonomy. Every failure
// surfaced to a caller maps onto one of these values, each carrying an HTTP
// status and a stable business code.
package errors

import (
	"net/http"

	"classroom/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Duplicate-credential errors. Username and email are checked separately,
	// so each carries its own message.
	ErrUsernameTaken = NewBaseError(
		http.StatusConflict,
		"USERNAME_TAKEN",
		"Username already exists.",
		"",
	)

	ErrEmailTaken = NewBaseError(
		http.StatusConflict,
		"EMAIL_TAKEN",
		"Email already registered.",
		"",
	)

	ErrCourseNameTaken = NewBaseError(
		http.StatusConflict,
		"COURSE_NAME_TAKEN",
		"Course name exists.",
		"",
	)

	ErrGroupNameTaken = NewBaseError(
		http.StatusConflict,
		"GROUP_NAME_TAKEN",
		"Group name exists.",
		"",
	)

	// Not-found errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"User does not exist.",
		"",
	)

	ErrCourseNotFound = NewBaseError(
		http.StatusNotFound,
		"COURSE_NOT_FOUND",
		"Course does not exist.",
		"",
	)

	ErrAssignmentNotFound = NewBaseError(
		http.StatusNotFound,
		"ASSIGNMENT_NOT_FOUND",
		"Assignment does not exist.",
		"",
	)

	ErrAnalyzerNotFound = NewBaseError(
		http.StatusNotFound,
		"ANALYZER_NOT_FOUND",
		"Analyzer does not exist.",
		"",
	)

	ErrReportNotFound = NewBaseError(
		http.StatusNotFound,
		"REPORT_NOT_FOUND",
		"Localization report does not exist.",
		"",
	)

	ErrStudentsNotFound = NewBaseError(
		http.StatusNotFound,
		"STUDENTS_NOT_FOUND",
		"Some students are not found.",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found.",
		"",
	)

	// Invalid-credential errors
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid password.",
		"",
	)

	ErrNotAuthenticated = NewBaseError(
		http.StatusUnauthorized,
		"NOT_AUTHENTICATED",
		"Not currently logged in!",
		"",
	)

	// Token errors
	ErrInvalidToken = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_TOKEN",
		"Invalid or expired token.",
		"",
	)

	ErrRefreshCookieMissing = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_COOKIE_MISSING",
		"No refresh token found! Please login!",
		"",
	)

	ErrSessionNotFound = NewBaseError(
		http.StatusUnauthorized,
		"SESSION_NOT_FOUND",
		"Refresh token expired or does not exist! Please login!",
		"",
	)

	// Authorization errors
	ErrPermissionDenied = NewBaseError(
		http.StatusForbidden,
		"PERMISSION_DENIED",
		"User does not have permission.",
		"",
	)

	ErrNotInstructor = NewBaseError(
		http.StatusUnprocessableEntity,
		"NOT_INSTRUCTOR",
		"User is not a teacher!",
		"",
	)

	// Group / enrollment conflicts
	ErrGroupAlreadyAssigned = NewBaseError(
		http.StatusConflict,
		"GROUP_ALREADY_ASSIGNED",
		"Some group is assigned.",
		"",
	)

	// Validation / general errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed.",
		"",
	)

	ErrAnalyzerWriteFailed = NewBaseError(
		http.StatusInternalServerError,
		"ANALYZER_WRITE_FAILED",
		"Cannot write analyzer.",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error.",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed."
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
