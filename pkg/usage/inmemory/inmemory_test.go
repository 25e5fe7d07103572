package inmemory_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatgate/pkg/usage"
	"github.com/papercomputeco/chatgate/pkg/usage/inmemory"
	testutils "github.com/papercomputeco/chatgate/pkg/utils/test"
)

var _ = Describe("Store", func() {
	testutils.DescribeStore(func() usage.Store {
		return inmemory.NewStore()
	})

	It("counts stored records", func() {
		s := inmemory.NewStore()
		Expect(s.Put(context.Background(), testutils.NewTestRecord("success", time.Now()))).To(Succeed())
		Expect(s.Len()).To(Equal(1))
	})
})
