package roblox

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotLoggedIn is returned when the account endpoint answers without a user.
var ErrNotLoggedIn = errors.New("roblox: not logged in")

// tokenFailureReasons are the 403 reason phrases that mean the anti-forgery
// token was missing or stale.
var tokenFailureReasons = []string{
	"XSRF Token Validation Failed",
	"Token Validation Failed",
}

// StatusError is a non-2xx response from the API.
type StatusError struct {
	StatusCode int
	Reason     string
	Body       []byte
}

func (e *StatusError) Error() string {
	if e == nil {
		return ""
	}
	body := strings.TrimSpace(string(e.Body))
	if len(body) > 200 {
		body = body[:197] + "..."
	}
	if body == "" {
		return fmt.Sprintf("roblox: HTTP %d %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("roblox: HTTP %d %s: %s", e.StatusCode, e.Reason, body)
}

// TokenRejected reports whether the server refused the anti-forgery token.
func (e *StatusError) TokenRejected() bool {
	if e == nil || e.StatusCode != http.StatusForbidden {
		return false
	}
	for _, reason := range tokenFailureReasons {
		if strings.EqualFold(e.Reason, reason) {
			return true
		}
	}
	return false
}

// NetworkError wraps a transport failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("roblox: network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError is a response body that could not be decoded.
type DecodeError struct {
	Status int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("roblox: failed to decode response (status=%d): %v", e.Status, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UploadError is a classified upload failure. Raw holds whatever the server
// or transport produced, for diagnostics.
type UploadError struct {
	Category Category
	Message  string
	Raw      any
}

func (e *UploadError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap exposes Raw when it is itself an error.
func (e *UploadError) Unwrap() error {
	if e == nil {
		return nil
	}
	if err, ok := e.Raw.(error); ok {
		return err
	}
	return nil
}
