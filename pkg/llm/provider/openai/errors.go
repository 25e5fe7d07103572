package openai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMalformedResponse is returned when a 2xx response body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed completion response")

	// ErrNoChoices is returned when the provider answers without any completion choice.
	ErrNoChoices = errors.New("completion response has no choices")
)

// StatusError is returned by Client.Complete when the provider answers with a
// non-2xx status. Type, Code and Message are taken from the provider's error
// envelope and are empty when the body carried none.
type StatusError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("openai: unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("openai: status %d: %s", e.StatusCode, e.Message)
}

// HasMessage reports whether the provider supplied a structured error message.
func (e *StatusError) HasMessage() bool {
	return e.Message != ""
}

// parseStatusError builds a StatusError from a non-2xx response body. Bodies
// that are not an error envelope yield a StatusError without a message.
func parseStatusError(status int, payload []byte) *StatusError {
	se := &StatusError{StatusCode: status}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil || len(envelope.Error) == 0 {
		return se
	}

	var body openaiErrorBody
	if err := json.Unmarshal(envelope.Error, &body); err == nil {
		se.Message = body.Message
		se.Type = body.Type
		if body.Code != nil {
			se.Code = fmt.Sprint(body.Code)
		}
		return se
	}

	// Some compatible servers send {"error": "text"}.
	var text string
	if err := json.Unmarshal(envelope.Error, &text); err == nil {
		se.Message = text
	}
	return se
}
