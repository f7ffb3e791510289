/*
Package errs provides the custom error type and application-level error codes.

CustomError implements the standard error interface and carries a business
code, a client-friendly message, and an HTTP status for handlers that answer
over plain HTTP.
*/
package errs

import (
	"fmt"
	"net/http"
	"strings"

	"provchat/internal/pkg/logx"
)

// CustomError is the error structure used throughout the application.
type CustomError struct {
	// Code is the business error code (see error_codes.go).
	Code int

	// Message is the client-friendly error description.
	Message string

	// Status is the HTTP status code for this error when answered over HTTP.
	Status int
}

// Error implements the error interface.
func (e CustomError) Error() string {
	return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// NewError builds a *CustomError from a predefined code. Optional details are
// applied printf-style to message templates that contain placeholders. An
// unrecognized code falls back to ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	template, ok := errorMap[code]
	if !ok {
		logx.Error(
			fmt.Errorf("unknown error code %d requested", code),
			"Unknown error code requested",
			"requested_code", code,
		)

		unknown := errorMap[ErrUnknown]
		return &unknown
	}

	customErr := template

	if customErr.Status == 0 {
		customErr.Status = http.StatusOK
	}

	if len(details) > 0 {
		if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		} else if originalErr, ok := details[0].(error); ok && code == ErrUnknown {
			logx.Error(originalErr, "Handling ErrUnknown with underlying error")
		} else {
			logx.Warn("Details provided for error without placeholders. Details ignored.",
				"code", code)
		}
	}

	return &customErr
}
