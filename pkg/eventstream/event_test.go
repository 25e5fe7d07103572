package eventstream_test

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatgate/pkg/eventstream"
	"github.com/papercomputeco/chatgate/pkg/usage"
)

var _ = Describe("Event", func() {
	var rec usage.Record

	BeforeEach(func() {
		rec = usage.Record{
			ID:               "0b6f6c1e-8a61-4a59-a7a3-1f0f7a6c9a10",
			RequestID:        "req-1",
			Language:         "en-us",
			Outcome:          "success",
			HTTPStatus:       200,
			Model:            "gpt-3.5-turbo",
			PromptTokens:     120,
			CompletionTokens: 30,
			DurationMs:       850,
			CreatedAt:        time.Unix(1735689600, 0).UTC(),
		}
	})

	It("marshals ExchangeEvent with expected top-level keys", func() {
		event := eventstream.NewExchangeEvent(eventstream.EventSource{Service: "chatgate", Provider: "openai"}, rec)

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(payload, &got)).To(Succeed())

		Expect(got).To(HaveKey("schema_version"))
		Expect(got).To(HaveKey("event_type"))
		Expect(got).To(HaveKey("event_id"))
		Expect(got).To(HaveKey("emitted_at"))
		Expect(got).To(HaveKey("source"))
		Expect(got).To(HaveKey("exchange"))

		exchange := got["exchange"].(map[string]any)
		Expect(exchange["outcome"]).To(Equal("success"))
		Expect(exchange).NotTo(HaveKey("message"))
	})

	It("assigns a fresh uuid per event", func() {
		a := eventstream.NewExchangeEvent(eventstream.EventSource{}, rec)
		b := eventstream.NewExchangeEvent(eventstream.EventSource{}, rec)

		_, err := uuid.Parse(a.EventID)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.EventID).NotTo(Equal(b.EventID))
		Expect(a.EmittedAt.Location()).To(Equal(time.UTC))
	})

	It("defines stable event constants", func() {
		Expect(eventstream.SchemaVersionV1).To(BeNumerically(">", 0))
		Expect(eventstream.EventTypeExchangeCompleted).To(Equal("chatgate.exchange.completed"))
	})

	It("provides ErrNilExchangeEvent for nil payload validation", func() {
		Expect(eventstream.ErrNilExchangeEvent).To(MatchError("nil exchange event"))
	})
})
