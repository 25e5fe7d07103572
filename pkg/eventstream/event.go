package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/chatgate/pkg/usage"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeExchangeCompleted is emitted after a chat exchange finished,
	// successfully or not.
	EventTypeExchangeCompleted = "chatgate.exchange.completed"
)

// ExchangeEvent is a transport-neutral event payload for a finished exchange.
// It carries the usage record only; message text never leaves the gateway.
type ExchangeEvent struct {
	SchemaVersion int          `json:"schema_version"`
	EventType     string       `json:"event_type"`
	EventID       string       `json:"event_id"`
	EmittedAt     time.Time    `json:"emitted_at"`
	Source        EventSource  `json:"source"`
	Exchange      usage.Record `json:"exchange"`
}

// EventSource identifies where the exchange was handled.
type EventSource struct {
	Service  string `json:"service"`
	Provider string `json:"provider"`
}

// NewExchangeEvent wraps rec in a fresh event.
func NewExchangeEvent(source EventSource, rec usage.Record) *ExchangeEvent {
	return &ExchangeEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeExchangeCompleted,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		Exchange:      rec,
	}
}
