package errors

import (
	"fmt"
	"net/http"
)

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

// Error codes
const (
	// Success
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer = 1000
	ErrNotFound       = 1002

	// Request errors (1100-1199)
	ErrValidation       = 1100
	ErrMethodNotAllowed = 1101
	ErrRequestTooLarge  = 1102
)

// codeMap maps error codes to their details
var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	ErrInternalServer: {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrNotFound:       {ErrNotFound, http.StatusNotFound, "Resource not found"},

	ErrValidation:       {ErrValidation, http.StatusUnprocessableEntity, "Request validation failed"},
	ErrMethodNotAllowed: {ErrMethodNotAllowed, http.StatusMethodNotAllowed, "Method not allowed"},
	ErrRequestTooLarge:  {ErrRequestTooLarge, http.StatusRequestEntityTooLarge, "Request body too large"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// IsClientError checks if the code represents a client error (4xx)
func IsClientError(code int) bool {
	status := GetHTTPStatus(code)
	return status >= 400 && status < 500
}

// FormatError formats an error message with code
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
