// internal/model/error.go
package model

import "errors"

// Application sentinel errors. Every failure that reaches a handler wraps one of these.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInternalServer  = errors.New("internal server error")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("resource conflict") // unique violations
)

// Error codes carried in ErrorDetail.Code
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidBody     = "INVALID_REQUEST_BODY"
	CodeInvalidParam    = "INVALID_URL_PARAM"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeCourseNotFound  = "COURSE_NOT_FOUND"
	CodeLessonNotFound  = "LESSON_NOT_FOUND"
	CodeNotEnrolled     = "NOT_ENROLLED"
	CodeAlreadyEnrolled = "ALREADY_ENROLLED"
	CodeEmailTaken      = "EMAIL_ALREADY_EXISTS"
	CodeInvalidLogin    = "INVALID_CREDENTIALS"
	CodeRegistration    = "REGISTRATION_DISABLED"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// ErrorDetail is the body of an API error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse wraps ErrorDetail as {"error": {...}}.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// AppError pairs a client-facing detail with the sentinel that decides the status code.
type AppError struct {
	Detail ErrorDetail
	Err    error
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{Code: code, Message: message, Field: field},
		Err:    err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Detail.Message + ": " + e.Err.Error()
	}
	return e.Detail.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
