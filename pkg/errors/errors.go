// Package errors provides structured error types for the patio designer.
//
// Every failure the render pipeline can produce carries a machine-readable
// Code so the CLI and the HTTP shell can report it consistently:
//
//   - INVALID_CALIBRATION: reference door pixel height is not positive
//   - INVALID_DIMENSIONS: patio or image dimensions are not positive and finite
//   - INVALID_DOOR_COUNT: door count is outside the supported range
//   - CODEC_ERROR: the input could not be decoded or the output encoded
//   - UNSUPPORTED_OPTION: an enclosure type, frame color or format is unknown
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDoorCount, "door count %d out of range", n)
//	if errors.Is(err, errors.ErrCodeInvalidDoorCount) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCodec, origErr, "failed to decode image")
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Request validation errors
	ErrCodeInvalidCalibration Code = "INVALID_CALIBRATION"
	ErrCodeInvalidDimensions  Code = "INVALID_DIMENSIONS"
	ErrCodeInvalidDoorCount   Code = "INVALID_DOOR_COUNT"
	ErrCodeUnsupportedOption  Code = "UNSUPPORTED_OPTION"
	ErrCodeInvalidInput       Code = "INVALID_INPUT"

	// Image codec errors
	ErrCodeCodec Code = "CODEC_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error code to the status the HTTP shell responds with.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidCalibration, ErrCodeInvalidDimensions, ErrCodeInvalidDoorCount,
		ErrCodeUnsupportedOption, ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeCodec:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
