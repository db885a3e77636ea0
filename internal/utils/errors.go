package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/proyectoiso/recetario/internal/constants"
)

// Custom error types for the application
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden access")
	ErrBadRequest         = errors.New("invalid request")
	ErrInternalServer     = errors.New("internal server error")
	ErrValidation         = errors.New("validation error")
	ErrDuplicate          = errors.New("duplicate resource")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// AppError represents an application error with additional context.
// Code is written to the codigo_error field of the response envelope.
type AppError struct {
	Err        error  // The underlying error
	StatusCode int    // HTTP status code
	Code       string // Machine-readable error code
	Message    string // User-friendly error message
	DevInfo    string // Additional information for developers, never sent to clients
	Field      string // Field related to the error (for validation errors)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the given error, status code, error code and message
func New(err error, statusCode int, code, message string) *AppError {
	return &AppError{
		Err:        err,
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// NewValidationError creates a new validation error for a specific field
func NewValidationError(field, message string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		StatusCode: http.StatusBadRequest,
		Code:       constants.CodeValidation,
		Message:    message,
		Field:      field,
	}
}

// NewRuleError creates a validation error carrying a specific error code,
// such as PASSWORD_INVALIDO or COMENTARIO_VACIO
func NewRuleError(code, message string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		StatusCode: http.StatusBadRequest,
		Code:       code,
		Message:    message,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		StatusCode: http.StatusBadRequest,
		Code:       constants.CodeValidation,
		Message:    message,
	}
}

// NewNotAuthenticatedError is returned when a registered session is required.
// It is a 400 rather than a 401 because the frontend treats 401 as a transport failure.
func NewNotAuthenticatedError() *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		StatusCode: http.StatusBadRequest,
		Code:       constants.CodeNotAuthenticated,
		Message:    constants.MsgNotAuthenticated,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(code, message string) *AppError {
	if code == "" {
		code = constants.CodeNotFound
	}
	if message == "" {
		message = constants.MsgNotFound
	}
	return &AppError{
		Err:        ErrNotFound,
		StatusCode: http.StatusNotFound,
		Code:       code,
		Message:    message,
	}
}

// NewRecipeNotFoundError creates the not found error used for every unresolved recipe reference
func NewRecipeNotFoundError(ref string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		StatusCode: http.StatusNotFound,
		Code:       constants.CodeRecipeNotFound,
		Message:    constants.MsgRecipeNotFound,
		DevInfo:    ref,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = constants.MsgForbidden
	}
	return &AppError{
		Err:        ErrForbidden,
		StatusCode: http.StatusForbidden,
		Code:       constants.CodeForbidden,
		Message:    message,
	}
}

// NewInternalServerError creates a new internal server error
func NewInternalServerError(err error) *AppError {
	devInfo := ""
	if err != nil {
		devInfo = err.Error()
	}
	return &AppError{
		Err:        ErrInternalServer,
		StatusCode: http.StatusInternalServerError,
		Code:       constants.CodeInternalError,
		Message:    constants.MsgInternalServerError,
		DevInfo:    devInfo,
	}
}

// NewSaveError is returned when a store could not be persisted
func NewSaveError(err error) *AppError {
	appErr := NewInternalServerError(err)
	appErr.Code = constants.CodeSaveFailed
	appErr.Message = constants.MsgSaveFailed
	return appErr
}

// NewDuplicateEmailError is returned when an account with the email already exists
func NewDuplicateEmailError(email string) *AppError {
	return &AppError{
		Err:        ErrDuplicate,
		StatusCode: http.StatusBadRequest,
		Code:       constants.CodeDuplicateEmail,
		Message:    constants.MsgDuplicateEmail,
		Field:      "email",
		DevInfo:    email,
	}
}

// NewInvalidCredentialsError creates a new invalid credentials error
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Err:        ErrInvalidCredentials,
		StatusCode: http.StatusBadRequest,
		Code:       constants.CodeInvalidCredentials,
		Message:    constants.MsgInvalidCredentials,
	}
}

// NewInvalidTokenError creates a new invalid token error
func NewInvalidTokenError() *AppError {
	appErr := NewNotAuthenticatedError()
	appErr.Err = ErrInvalidToken
	return appErr
}

// ParseError attempts to parse various types of errors into an AppError
func ParseError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewNotFoundError("", "")
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return NewNotAuthenticatedError()
	case errors.Is(err, ErrForbidden):
		return NewForbiddenError("")
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrValidation):
		return NewBadRequestError(constants.MsgValidation)
	case errors.Is(err, ErrInvalidCredentials):
		return NewInvalidCredentialsError()
	}

	return NewInternalServerError(err)
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode == http.StatusNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// HasCode reports whether err is an AppError carrying the given error code
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// StatusCode returns the HTTP status code for an error
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
