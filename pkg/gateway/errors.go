package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/papercomputeco/chatgate/pkg/llm/provider/openai"
	"github.com/papercomputeco/chatgate/pkg/locale"
)

// Kind classifies why a chat exchange failed.
type Kind string

const (
	// KindInvalidRequest means required input was missing. No provider call was made.
	KindInvalidRequest Kind = "invalid_request"

	// KindConfiguration means the gateway has no provider credential.
	KindConfiguration Kind = "configuration"

	// KindProviderAuth means the provider rejected the credential.
	KindProviderAuth Kind = "provider_auth"

	// KindProviderRateLimit means the provider answered 429.
	KindProviderRateLimit Kind = "provider_rate_limit"

	// KindProviderOther covers every other provider-side failure.
	KindProviderOther Kind = "provider_other"

	// KindTransport means the provider could not be reached in time.
	KindTransport Kind = "transport"
)

const (
	messageRequired      = "Message is required"
	credentialNotDefined = "OpenAI API key not configured. Please set OPENAI_API_KEY environment variable."
)

// Error is a classified chat failure. Message is safe to show to the widget
// user; Cause is for logs only.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Status returns the HTTP status the failure maps to.
func (e *Error) Status() int {
	if e.Kind == KindInvalidRequest {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// classify maps a provider call failure to the taxonomy, using msgs for the
// user-facing text. Only the provider's structured error message is ever
// forwarded; raw bodies never reach the caller.
func classify(err error, msgs locale.ErrorMessages) *Error {
	var se *openai.StatusError
	switch {
	case errors.As(err, &se):
		switch {
		case se.StatusCode == http.StatusUnauthorized:
			return &Error{Kind: KindProviderAuth, Message: msgs.Auth, Cause: err}
		case se.StatusCode == http.StatusTooManyRequests:
			return &Error{Kind: KindProviderRateLimit, Message: msgs.RateLimit, Cause: err}
		case se.HasMessage():
			return &Error{Kind: KindProviderOther, Message: msgs.ProviderPrefix + ": " + se.Message, Cause: err}
		default:
			return &Error{Kind: KindProviderOther, Message: msgs.Generic, Cause: err}
		}
	case errors.Is(err, openai.ErrNoChoices), errors.Is(err, openai.ErrMalformedResponse):
		return &Error{Kind: KindProviderOther, Message: msgs.Generic, Cause: err}
	default:
		// Network failures, provider timeouts and caller disconnects.
		return &Error{Kind: KindTransport, Message: msgs.Generic, Cause: err}
	}
}
