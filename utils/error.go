package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorKind classifies a service failure for the HTTP boundary.
type ErrorKind string

const (
	KindNotFound              ErrorKind = "notFound"
	KindForbidden             ErrorKind = "forbidden"
	KindConflict              ErrorKind = "conflict"
	KindInvalidState          ErrorKind = "invalidState"
	KindValidationFailed      ErrorKind = "validationFailed"
	KindDependencyUnavailable ErrorKind = "dependencyUnavailable"
)

// ServiceError is the error type services return across the handler boundary.
type ServiceError struct {
	Kind    ErrorKind
	Message string
}

func (e *ServiceError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func NewNotFoundError(msg string) error {
	return &ServiceError{Kind: KindNotFound, Message: msg}
}

func NewForbiddenError(msg string) error {
	return &ServiceError{Kind: KindForbidden, Message: msg}
}

func NewConflictError(msg string) error {
	return &ServiceError{Kind: KindConflict, Message: msg}
}

func NewInvalidStateError(msg string) error {
	return &ServiceError{Kind: KindInvalidState, Message: msg}
}

func NewValidationError(msg string) error {
	return &ServiceError{Kind: KindValidationFailed, Message: msg}
}

func NewDependencyError(msg string) error {
	return &ServiceError{Kind: KindDependencyUnavailable, Message: msg}
}

// ErrorKindOf extracts the kind from an error chain, or "" for plain errors.
func ErrorKindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

var kindStatus = map[ErrorKind]int{
	KindNotFound:              http.StatusNotFound,
	KindForbidden:             http.StatusForbidden,
	KindConflict:              http.StatusConflict,
	KindInvalidState:          http.StatusUnprocessableEntity,
	KindValidationFailed:      http.StatusBadRequest,
	KindDependencyUnavailable: http.StatusServiceUnavailable,
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// RespondError maps a service error to its HTTP status and writes the response.
func RespondError(c *gin.Context, err error) {
	var se *ServiceError
	if errors.As(err, &se) {
		status, ok := kindStatus[se.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		JSONError(c, status, se.Message, "")
		return
	}
	JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
}
