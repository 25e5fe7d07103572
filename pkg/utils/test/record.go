package testutils

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/chatgate/pkg/usage"
)

// NewTestRecord creates a usage record for the given outcome.
func NewTestRecord(outcome string, createdAt time.Time) *usage.Record {
	status := 200
	if outcome != "success" {
		status = 500
	}

	return &usage.Record{
		ID:               uuid.NewString(),
		RequestID:        "req-" + outcome,
		Language:         "de",
		Outcome:          outcome,
		HTTPStatus:       status,
		Model:            "gpt-3.5-turbo",
		PromptTokens:     100,
		CompletionTokens: 20,
		DurationMs:       500,
		CreatedAt:        createdAt,
	}
}
