package ranking

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse marks a 2xx body that does not match the expected shape.
var ErrMalformedResponse = errors.New("malformed ranking response")

// StatusError reports a non-success HTTP status from the ranking service.
type StatusError struct {
	StatusCode int
	// Message is the service's "error" field when it sent one.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ranking service status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ranking service status %d", e.StatusCode)
}

func newStatusError(status int, body []byte) *StatusError {
	var payload struct {
		Error string `json:"error"`
	}
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		msg = strings.TrimSpace(payload.Error)
	}
	return &StatusError{StatusCode: status, Message: msg}
}
