// Package usage records the outcome of each chat exchange. Records never
// contain message or prompt text.
package usage

import (
	"context"
	"errors"
	"time"
)

// ErrNilRecord is returned when a nil record is stored.
var ErrNilRecord = errors.New("nil usage record")

// Record is the outcome of a single /chatgpt exchange.
type Record struct {
	ID               string    `json:"id"`
	RequestID        string    `json:"request_id,omitempty"`
	Language         string    `json:"language,omitempty"`
	Outcome          string    `json:"outcome"` // "success" or the failure kind
	HTTPStatus       int       `json:"http_status"`
	Model            string    `json:"model,omitempty"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	DurationMs       int64     `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// OutcomeSummary aggregates the records sharing one outcome.
type OutcomeSummary struct {
	Outcome          string  `json:"outcome"`
	Count            int64   `json:"count"`
	PromptTokens     int64   `json:"prompt_tokens"`
	CompletionTokens int64   `json:"completion_tokens"`
	AvgDurationMs    float64 `json:"avg_duration_ms"`
}

// Summary aggregates all records created at or after Since.
type Summary struct {
	Since    time.Time        `json:"since"`
	Outcomes []OutcomeSummary `json:"outcomes"` // sorted by outcome
}

// Total returns the number of summarized exchanges.
func (s *Summary) Total() int64 {
	var n int64
	for _, o := range s.Outcomes {
		n += o.Count
	}
	return n
}

// Tokens returns the prompt and completion token totals.
func (s *Summary) Tokens() (prompt, completion int64) {
	for _, o := range s.Outcomes {
		prompt += o.PromptTokens
		completion += o.CompletionTokens
	}
	return prompt, completion
}

// Store persists usage records.
type Store interface {
	// Put stores a record. Records are append-only; storing an ID twice is an error.
	Put(ctx context.Context, rec *Record) error

	// Summary aggregates records created at or after since, grouped by outcome.
	Summary(ctx context.Context, since time.Time) (*Summary, error)

	// Close releases the store's resources.
	Close() error
}
