package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Error codes returned in response bodies.
const (
	CodeFileTooLarge      = "FILE_TOO_LARGE"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeNotFound          = "NOT_FOUND"
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotReady          = "NOT_READY"
	CodeInternal          = "INTERNAL_ERROR"
)

// ErrResumeNotFound indicates the resume does not exist
type ErrResumeNotFound struct {
	ID uuid.UUID
}

func (e *ErrResumeNotFound) Error() string {
	return fmt.Sprintf("resume not found: %s", e.ID)
}

// ErrFileTooLarge indicates the upload exceeds the size limit
type ErrFileTooLarge struct {
	Size  int64
	Limit int64
}

func (e *ErrFileTooLarge) Error() string {
	return fmt.Sprintf("file size %d exceeds limit of %d bytes", e.Size, e.Limit)
}

// ErrUnsupportedFormat indicates the file extension is not allowed
type ErrUnsupportedFormat struct {
	Format string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Format)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotReady indicates the resume has not finished processing
type ErrNotReady struct {
	ID     uuid.UUID
	Status string
}

func (e *ErrNotReady) Error() string {
	return fmt.Sprintf("resume %s is not ready (status: %s)", e.ID, e.Status)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrResumeNotFound:
		return http.StatusNotFound
	case *ErrFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case *ErrUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrNotReady:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorCode returns the machine-readable code for an error
func errorCode(err error) string {
	switch err.(type) {
	case *ErrResumeNotFound:
		return CodeNotFound
	case *ErrFileTooLarge:
		return CodeFileTooLarge
	case *ErrUnsupportedFormat:
		return CodeUnsupportedFormat
	case *ErrValidation:
		return CodeValidation
	case *ErrNotReady:
		return CodeNotReady
	default:
		return CodeInternal
	}
}
