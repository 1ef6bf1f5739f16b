package apiclient

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Machine-readable error codes carried by APIError.
const (
	CodeNetworkError        = "NETWORK_ERROR"
	CodeUnknownError        = "UNKNOWN_ERROR"
	CodeAuthenticationError = "AUTHENTICATION_ERROR"
	CodeCancelled           = "CANCELLED"
)

// APIError is the one normalized failure shape every request error maps
// into before it reaches a caller.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Status  int    `json:"status,omitempty"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (code=%s status=%d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("%s (code=%s)", e.Message, e.Code)
}

// IsAuthentication reports whether the error is a final authentication
// failure: a 401 that survived (or could not attempt) a token refresh.
func (e *APIError) IsAuthentication() bool {
	return e.Code == CodeAuthenticationError
}

func newNetworkError(err error) *APIError {
	return &APIError{
		Message: "Network error - please check your connection",
		Code:    CodeNetworkError,
		Details: err.Error(),
	}
}

func newAuthenticationError(status int) *APIError {
	return &APIError{
		Message: "Authentication failed",
		Code:    CodeAuthenticationError,
		Status:  status,
	}
}

func newCancelledError(err error) *APIError {
	return &APIError{
		Message: "Request cancelled",
		Code:    CodeCancelled,
		Details: err.Error(),
	}
}

// errorFromResponse maps a non-2xx response into an APIError, preferring
// the server-provided message and code when the body carries them.
func errorFromResponse(status int, body []byte) *APIError {
	apiErr := &APIError{
		Message: fmt.Sprintf("HTTP Error %d", status),
		Code:    strconv.Itoa(status),
		Status:  status,
	}

	var payload map[string]any
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		if message, ok := payload["message"].(string); ok && message != "" {
			apiErr.Message = message
		}
		if code, ok := payload["code"].(string); ok && code != "" {
			apiErr.Code = code
		}
		apiErr.Details = payload
	} else if len(body) > 0 {
		apiErr.Details = string(body)
	}
	return apiErr
}
