package gateway

import (
	"time"

	"github.com/papercomputeco/chatgate/pkg/chat"
	"github.com/papercomputeco/chatgate/pkg/llm"
)

// Stage is the position of one request in the exchange state machine:
// RECEIVED → VALIDATED → PROMPT_BUILT → CALLED → SUCCEEDED | FAILED.
type Stage string

const (
	StageReceived    Stage = "RECEIVED"
	StageValidated   Stage = "VALIDATED"
	StagePromptBuilt Stage = "PROMPT_BUILT"
	StageCalled      Stage = "CALLED"
	StageSucceeded   Stage = "SUCCEEDED"
	StageFailed      Stage = "FAILED"
)

// OutcomeSuccess is the outcome label of a successful exchange.
const OutcomeSuccess = "success"

// Result describes one finished chat exchange.
type Result struct {
	// Stage is StageSucceeded or StageFailed.
	Stage Stage

	// Language is the code of the template actually used, after fallback.
	// Empty when the request failed validation.
	Language string

	// Text is the first completion choice. Empty on failure.
	Text string

	// Model that produced the answer, or the configured model on failure.
	Model string

	// Usage as reported by the provider, if any.
	Usage *llm.Usage

	// Duration of the whole exchange.
	Duration time.Duration

	// Err is set when Stage is StageFailed.
	Err *Error
}

// Outcome returns OutcomeSuccess or the failure kind.
func (r *Result) Outcome() string {
	if r.Err != nil {
		return string(r.Err.Kind)
	}
	return OutcomeSuccess
}

// Response converts the result into the widget-facing response.
func (r *Result) Response() chat.Response {
	if r.Err != nil {
		return chat.Response{ErrorMessage: r.Err.Message}
	}
	return chat.Response{Success: true, ResponseText: r.Text}
}
