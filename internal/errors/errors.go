package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuth covers bad credentials, a bad admin passkey and identity-service failures.
	ErrAuth = errors.New("authentication failed")
	// ErrInference is returned when the model call fails or its output has no JSON object.
	ErrInference = errors.New("crop analysis failed")
	// ErrPersistence is returned when the record store cannot be read or written.
	ErrPersistence = errors.New("record store unavailable")
	// ErrInvalidInput is returned when a required form field is empty.
	ErrInvalidInput = errors.New("required field missing")
	// ErrForbidden is returned when a non-admin session requests an admin view.
	ErrForbidden = errors.New("admin access required")
	// ErrNoAnalysis is returned when a report is requested before any analysis ran.
	ErrNoAnalysis = errors.New("no analysis available")
	// ErrInvalidPasskey is the ErrAuth case of an Admin login with the wrong passkey.
	// Callers see the same message as for bad credentials.
	ErrInvalidPasskey = fmt.Errorf("%w: invalid admin passkey", ErrAuth)
)

// User-facing messages. Detail stays in the logs.
const (
	MsgAuthFailed        = "Authentication failed."
	MsgAccountCreated    = "Account created."
	MsgRegisterFailed    = "Registration failed."
	MsgInferenceFailed   = "AI failed. Check token or model."
	MsgPersistenceFailed = "Could not reach the record store."
	MsgLoginNotRecorded  = "Signed in, but this login could not be recorded."
	MsgQueryNotRecorded  = "Analysis complete, but it could not be saved to history."
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors with generic messages.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	case errors.Is(err, ErrAuth):
		return NewHTTPError(http.StatusUnauthorized, MsgAuthFailed, "AUTH_FAILED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrNoAnalysis):
		return NewHTTPError(http.StatusNotFound, ErrNoAnalysis.Error(), "NO_ANALYSIS")
	case errors.Is(err, ErrInference):
		return NewHTTPError(http.StatusBadGateway, MsgInferenceFailed, "INFERENCE_FAILED")
	case errors.Is(err, ErrPersistence):
		return NewHTTPError(http.StatusServiceUnavailable, MsgPersistenceFailed, "PERSISTENCE_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// UserMessage returns the short message the shell shows for err.
func UserMessage(err error) string {
	return MapErrorToHTTP(err).Message
}
