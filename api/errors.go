package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is returned after a 401; the token is already cleared.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx answer from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func newError(status int, body []byte) *Error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := http.StatusText(status)
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			msg = payload.Error
		} else if payload.Message != "" {
			msg = payload.Message
		}
	}
	return &Error{Status: status, Message: msg}
}

// StatusOf returns the HTTP status behind err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	return 0
}
