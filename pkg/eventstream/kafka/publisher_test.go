package kafka

import (
	"context"
	"encoding/json"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/chatgate/pkg/eventstream"
	"github.com/papercomputeco/chatgate/pkg/usage"
)

type fakeWriter struct {
	messages []kafkago.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

var _ = Describe("Publisher", func() {
	var (
		writer *fakeWriter
		pub    *Publisher
	)

	BeforeEach(func() {
		writer = &fakeWriter{}
		pub = newPublisher(writer)
	})

	Describe("NewPublisher", func() {
		It("requires brokers", func() {
			_, err := NewPublisher(Config{Topic: "exchanges"})
			Expect(err).To(MatchError(ContainSubstring("broker")))
		})

		It("requires a topic", func() {
			_, err := NewPublisher(Config{Brokers: []string{"localhost:9092"}})
			Expect(err).To(MatchError(ContainSubstring("topic")))
		})

		It("creates a publisher without dialing", func() {
			p, err := NewPublisher(Config{Brokers: []string{"localhost:9092"}, Topic: "exchanges"})
			Expect(err).NotTo(HaveOccurred())
			Expect(p).NotTo(BeNil())
		})
	})

	It("writes the event as JSON keyed by exchange id", func() {
		event := eventstream.NewExchangeEvent(
			eventstream.EventSource{Service: "chatgate", Provider: "openai"},
			usage.Record{ID: "rec-1", Outcome: "success", HTTPStatus: 200},
		)

		Expect(pub.PublishExchange(context.Background(), event)).To(Succeed())
		Expect(writer.messages).To(HaveLen(1))

		msg := writer.messages[0]
		Expect(string(msg.Key)).To(Equal("rec-1"))
		Expect(msg.Headers).To(ContainElement(kafkago.Header{Key: "event_type", Value: []byte(eventstream.EventTypeExchangeCompleted)}))

		var decoded eventstream.ExchangeEvent
		Expect(json.Unmarshal(msg.Value, &decoded)).To(Succeed())
		Expect(decoded.EventID).To(Equal(event.EventID))
		Expect(decoded.Exchange.Outcome).To(Equal("success"))
	})

	It("rejects nil events", func() {
		Expect(pub.PublishExchange(context.Background(), nil)).To(MatchError(eventstream.ErrNilExchangeEvent))
		Expect(writer.messages).To(BeEmpty())
	})

	It("wraps write failures", func() {
		writer.err = errors.New("leader not available")
		err := pub.PublishExchange(context.Background(), eventstream.NewExchangeEvent(eventstream.EventSource{}, usage.Record{ID: "x"}))
		Expect(err).To(MatchError(ContainSubstring("leader not available")))
	})

	It("closes the writer", func() {
		Expect(pub.Close()).To(Succeed())
		Expect(writer.closed).To(BeTrue())
	})
})
