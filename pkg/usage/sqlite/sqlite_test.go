package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatgate/pkg/usage"
	"github.com/papercomputeco/chatgate/pkg/usage/sqlite"
	testutils "github.com/papercomputeco/chatgate/pkg/utils/test"
)

var _ = Describe("Store", func() {
	testutils.DescribeStore(func() usage.Store {
		s, err := sqlite.NewStore(context.Background(), ":memory:")
		Expect(err).NotTo(HaveOccurred())
		return s
	})

	Describe("NewStore", func() {
		It("creates a file database and keeps records across reopen", func() {
			ctx := context.Background()
			dbPath := filepath.Join(GinkgoT().TempDir(), "usage.db")

			s, err := sqlite.NewStore(ctx, dbPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Put(ctx, testutils.NewTestRecord("success", time.Now().UTC()))).To(Succeed())
			Expect(s.Close()).To(Succeed())

			_, err = os.Stat(dbPath)
			Expect(err).NotTo(HaveOccurred())

			s, err = sqlite.NewStore(ctx, dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			summary, err := s.Summary(ctx, time.Now().Add(-time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Total()).To(Equal(int64(1)))
		})
	})
})
