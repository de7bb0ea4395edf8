package v1

import (
	"encoding/json"
	"errors"
	"strings"
)

const genericErrorMessage = "Something went wrong. Please try again."

// ErrAuthRequired is returned before any network call when no token is stored.
var ErrAuthRequired = errors.New("no authentication token available")

// AuthRequiredError names the operation that was refused. It matches ErrAuthRequired with errors.Is.
type AuthRequiredError struct {
	Operation string
}

func (e *AuthRequiredError) Error() string {
	if e.Operation == "" {
		return ErrAuthRequired.Error()
	}
	return e.Operation + ": " + ErrAuthRequired.Error()
}

func (e *AuthRequiredError) Is(target error) bool {
	return target == ErrAuthRequired
}

// APIError is any failed backend call. StatusCode is 0 when the request never got a response.
// Message is always non-empty and safe to show to the user.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// AsAPIError is a shorthand for errors.As with *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// errorMessage picks the message for a failed response: the {"error": "..."} field, DRF's
// {"detail": "..."}, then the raw body text, then fallback, then a generic message.
func errorMessage(body []byte, fallback string) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if msg := strings.TrimSpace(parsed.Error); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(parsed.Detail); msg != "" {
			return msg
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && !looksLikeJSON(text) {
		return text
	}
	if fallback != "" {
		return fallback
	}
	return genericErrorMessage
}

// A JSON body without an "error" field is not a useful message on its own.
func looksLikeJSON(s string) bool {
	return (strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")) && json.Valid([]byte(s))
}
