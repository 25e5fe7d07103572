// Package chat defines the request and response contract between the helpdesk
// widget and the gateway.
package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Request is a single support chat request from the widget.
type Request struct {
	// Message is the customer's free-text message. Required.
	Message string `json:"message"`

	// TicketContext optionally describes the helpdesk ticket being worked on.
	TicketContext *TicketContext `json:"ticketContext,omitempty"`

	// OrderContext optionally describes the shop order the ticket is about.
	OrderContext *OrderContext `json:"orderContext,omitempty"`

	// Language selects the prompt template. Empty means the base language.
	Language string `json:"language,omitempty"`
}

// TicketContext holds the ticket fields injected into the system prompt.
type TicketContext struct {
	Subject        Text `json:"subject,omitempty"`
	Description    Text `json:"description,omitempty"`
	RequesterEmail Text `json:"requesterEmail,omitempty"`

	// Email is the key older widget builds send instead of requesterEmail.
	Email Text `json:"email,omitempty"`
}

// Requester returns the requester email, preferring requesterEmail over the
// legacy email key.
func (t *TicketContext) Requester() Text {
	if !t.RequesterEmail.IsBlank() {
		return t.RequesterEmail
	}
	return t.Email
}

// OrderContext holds the order fields injected into the system prompt.
type OrderContext struct {
	OrderName    Text `json:"orderName,omitempty"`
	CustomerName Text `json:"customerName,omitempty"`
	OrderStatus  Text `json:"orderStatus,omitempty"`
	TotalPrice   Text `json:"totalPrice,omitempty"`
}

// Text is an optional context value. Widgets are not consistent about types
// (totalPrice arrives as a number from some shops), so Text accepts a JSON
// string, number, boolean or null.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*t = Text(fmt.Sprintf("%t", b))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("context value must be a string or number: %w", err)
		}
		*t = Text(n.String())
	}

	return nil
}

// IsBlank reports whether the value is empty or only whitespace.
func (t Text) IsBlank() bool {
	return strings.TrimSpace(string(t)) == ""
}

// Response is the gateway's normalized outcome for one request.
type Response struct {
	Success      bool
	ResponseText string
	ErrorMessage string
}

// SuccessBody is the HTTP body returned on success.
type SuccessBody struct {
	Response string `json:"response"`
	Success  bool   `json:"success"`
}

// ClientErrorBody is the HTTP body returned for invalid requests.
type ClientErrorBody struct {
	Message string `json:"message"`
}

// ServerErrorBody is the HTTP body returned for configuration and provider
// failures. Error carries a short classification, never a provider payload.
type ServerErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
