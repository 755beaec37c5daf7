package errors

import (
	"fmt"
	"net/http"
)

// Common application errors
var (
	ErrInvalidPassword  = NewInvalidPasswordError("")
	ErrEmailAlreadyUsed = NewAlreadyUsedError("email", "email is already in use")
	ErrLoginAlreadyUsed = NewAlreadyUsedError("login", "login name already used")
	ErrEmailNotFound    = NewEmailNotFoundError()
	ErrBadCredentials   = NewUnauthorizedError("bad credentials")
	ErrUserNotActivated = NewUnauthorizedError("user was not activated")
)

// InvalidPasswordError signals a password that fails the length policy
// or does not match the stored credential.
type InvalidPasswordError struct {
	Message string
}

// NewInvalidPasswordError creates a new invalid password error
func NewInvalidPasswordError(message string) *InvalidPasswordError {
	return &InvalidPasswordError{Message: message}
}

// Error implements the error interface
func (e *InvalidPasswordError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("invalid password: %s", e.Message)
	}
	return "invalid password"
}

// HTTPStatus returns the HTTP status for this error
func (e *InvalidPasswordError) HTTPStatus() int {
	return http.StatusBadRequest
}

// AlreadyUsedError signals a unique field (login, email) that is already taken.
type AlreadyUsedError struct {
	Field   string
	Message string
}

// NewAlreadyUsedError creates a new already used error
func NewAlreadyUsedError(field, message string) *AlreadyUsedError {
	return &AlreadyUsedError{Field: field, Message: message}
}

// Error implements the error interface
func (e *AlreadyUsedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already used", e.Field)
}

// HTTPStatus returns the HTTP status for this error
func (e *AlreadyUsedError) HTTPStatus() int {
	return http.StatusBadRequest
}

// EmailNotFoundError signals a password reset request for an unregistered email.
type EmailNotFoundError struct{}

// NewEmailNotFoundError creates a new email not found error
func NewEmailNotFoundError() *EmailNotFoundError {
	return &EmailNotFoundError{}
}

// Error implements the error interface
func (e *EmailNotFoundError) Error() string {
	return "email address not registered"
}

// HTTPStatus returns the HTTP status for this error
func (e *EmailNotFoundError) HTTPStatus() int {
	return http.StatusBadRequest
}

// UnauthorizedError signals failed authentication.
type UnauthorizedError struct {
	Message string
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// Error implements the error interface
func (e *UnauthorizedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// HTTPStatus returns the HTTP status for this error
func (e *UnauthorizedError) HTTPStatus() int {
	return http.StatusUnauthorized
}

// InternalServerError represents a server-side failure with context,
// e.g. an unknown activation key or an unresolvable login.
type InternalServerError struct {
	Message string
	Err     error
}

// NewInternalServerError creates a new internal server error
func NewInternalServerError(message string, err error) *InternalServerError {
	return &InternalServerError{Message: message, Err: err}
}

// Error implements the error interface
func (e *InternalServerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalServerError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *InternalServerError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// HTTPStatuser interface for errors that carry an HTTP status
type HTTPStatuser interface {
	HTTPStatus() int
}
