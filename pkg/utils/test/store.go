package testutils

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatgate/pkg/usage"
)

// DescribeStore registers the behavior every usage.Store must have.
// newStore is called before each test; the returned store is closed after it.
func DescribeStore(newStore func() usage.Store) {
	Describe("usage.Store behavior", func() {
		var (
			store usage.Store
			ctx   context.Context
			now   time.Time
		)

		BeforeEach(func() {
			ctx = context.Background()
			now = time.Now().UTC().Truncate(time.Second)
			store = nil
			store = newStore()
		})

		AfterEach(func() {
			if store != nil {
				Expect(store.Close()).To(Succeed())
			}
		})

		It("rejects nil records", func() {
			Expect(store.Put(ctx, nil)).To(MatchError(usage.ErrNilRecord))
		})

		It("rejects duplicate ids", func() {
			rec := NewTestRecord("success", now)
			Expect(store.Put(ctx, rec)).To(Succeed())
			Expect(store.Put(ctx, rec)).NotTo(Succeed())
		})

		It("returns an empty summary for an empty store", func() {
			summary, err := store.Summary(ctx, now.Add(-time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Outcomes).To(BeEmpty())
			Expect(summary.Total()).To(BeZero())
		})

		It("summarizes records by outcome", func() {
			Expect(store.Put(ctx, NewTestRecord("success", now))).To(Succeed())
			Expect(store.Put(ctx, NewTestRecord("success", now))).To(Succeed())
			Expect(store.Put(ctx, NewTestRecord("provider_rate_limit", now))).To(Succeed())

			summary, err := store.Summary(ctx, now.Add(-time.Minute))
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Total()).To(Equal(int64(3)))
			Expect(summary.Outcomes).To(HaveLen(2))

			Expect(summary.Outcomes[0].Outcome).To(Equal("provider_rate_limit"))
			Expect(summary.Outcomes[0].Count).To(Equal(int64(1)))

			Expect(summary.Outcomes[1].Outcome).To(Equal("success"))
			Expect(summary.Outcomes[1].Count).To(Equal(int64(2)))
			Expect(summary.Outcomes[1].PromptTokens).To(Equal(int64(200)))
			Expect(summary.Outcomes[1].CompletionTokens).To(Equal(int64(40)))
			Expect(summary.Outcomes[1].AvgDurationMs).To(BeNumerically("~", 500, 0.01))

			prompt, completion := summary.Tokens()
			Expect(prompt).To(Equal(int64(300)))
			Expect(completion).To(Equal(int64(60)))
		})

		It("excludes records created before since", func() {
			Expect(store.Put(ctx, NewTestRecord("success", now.Add(-48*time.Hour)))).To(Succeed())
			Expect(store.Put(ctx, NewTestRecord("transport", now))).To(Succeed())

			summary, err := store.Summary(ctx, now.Add(-24*time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Outcomes).To(HaveLen(1))
			Expect(summary.Outcomes[0].Outcome).To(Equal("transport"))
		})
	})
}
