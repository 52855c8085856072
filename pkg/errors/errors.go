package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Errno values returned to API consumers in the "errno" field.
const (
	OK         = 0
	DBERR      = 4001
	NODATA     = 4002
	DATAEXIST  = 4003
	DATAERR    = 4004
	SESSIONERR = 4101
	PARAMERR   = 4103
	ROLEERR    = 4105
	REQERR     = 4201
	THIRDERR   = 4301
	SERVERERR  = 4500
)

// AppError provides a structured error that can be rendered to API consumers.
type AppError struct {
	Errno      int    `json:"errno"`
	Message    string `json:"errmsg"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}

	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As compatibility.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// WithInternal returns a copy of the AppError with an attached internal error.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Internal = err
	return &cpy
}

// WithMessage returns a copy of the AppError carrying a different client message.
func (e *AppError) WithMessage(message string) *AppError {
	if e == nil {
		return nil
	}

	cpy := *e
	cpy.Message = message
	return &cpy
}

// Common errors exposed to the rest of the application.
var (
	ErrDatabase = &AppError{
		Errno:      DBERR,
		Message:    "Database error",
		StatusCode: http.StatusInternalServerError,
	}

	ErrNoData = &AppError{
		Errno:      NODATA,
		Message:    "No data",
		StatusCode: http.StatusNotFound,
	}

	ErrDataExists = &AppError{
		Errno:      DATAEXIST,
		Message:    "Data already exists",
		StatusCode: http.StatusConflict,
	}

	ErrInvalidData = &AppError{
		Errno:      DATAERR,
		Message:    "Invalid data",
		StatusCode: http.StatusBadRequest,
	}

	ErrSession = &AppError{
		Errno:      SESSIONERR,
		Message:    "User not logged in",
		StatusCode: http.StatusUnauthorized,
	}

	ErrBadParam = &AppError{
		Errno:      PARAMERR,
		Message:    "Invalid parameters",
		StatusCode: http.StatusBadRequest,
	}

	ErrForbidden = &AppError{
		Errno:      ROLEERR,
		Message:    "Permission denied",
		StatusCode: http.StatusForbidden,
	}

	ErrRequest = &AppError{
		Errno:      REQERR,
		Message:    "Request not allowed",
		StatusCode: http.StatusMethodNotAllowed,
	}

	ErrThirdParty = &AppError{
		Errno:      THIRDERR,
		Message:    "Third-party service error",
		StatusCode: http.StatusBadGateway,
	}

	ErrInternalServer = &AppError{
		Errno:      SERVERERR,
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
	}
)

// New builds a new application error with the provided metadata.
func New(errno int, message string, statusCode int) *AppError {
	return &AppError{
		Errno:      errno,
		Message:    message,
		StatusCode: statusCode,
	}
}

// FromError converts a generic error into an AppError, defaulting to ErrInternalServer.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return ErrInternalServer.WithInternal(err)
}

// NewBadParam wraps parameter errors with a helpful message.
func NewBadParam(message string) *AppError {
	return ErrBadParam.WithMessage(message)
}
