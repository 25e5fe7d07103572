package templatescmder

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatgate/pkg/locale"
)

var _ = Describe("templates command", func() {
	var (
		tmpDir string
		out    bytes.Buffer
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "templates-cmd-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, tmpDir)
		out.Reset()
	})

	execute := func(args ...string) error {
		cmd := NewTemplatesCmd()
		cmd.PersistentFlags().String("config-dir", tmpDir, "")
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	Describe("list", func() {
		It("lists the built-in languages", func() {
			Expect(execute("list")).To(Succeed())
			Expect(out.String()).To(ContainSubstring("de"))
			Expect(out.String()).To(ContainSubstring("en-us"))
			Expect(out.String()).To(ContainSubstring("base language: de"))
		})
	})

	Describe("check", func() {
		It("accepts the built-in templates", func() {
			Expect(execute("check")).To(Succeed())
		})

		It("reports an incomplete template file", func() {
			path := filepath.Join(tmpDir, "broken.toml")
			Expect(os.WriteFile(path, []byte(`[[template]]
code = "de"
name = "Deutsch"
system_prompt = "Du bist ein Assistent."
`), 0o600)).To(Succeed())

			err := execute("check", path)
			Expect(err).To(MatchError(ContainSubstring("invalid language templates")))
		})
	})

	Describe("preview", func() {
		It("renders the prompt with the given context", func() {
			Expect(execute("preview", "-L", "en-us", "--subject", "Late delivery", "--order", "#1042")).To(Succeed())

			templates, err := locale.Builtin()
			Expect(err).NotTo(HaveOccurred())
			catalog, err := locale.NewCatalog(templates, locale.DefaultBaseLanguage)
			Expect(err).NotTo(HaveOccurred())
			en := catalog.Resolve("en-us")

			Expect(out.String()).To(ContainSubstring("- Subject: Late delivery"))
			Expect(out.String()).To(ContainSubstring("#1042"))
			Expect(out.String()).To(ContainSubstring(en.Directive))
		})

		It("warns about an unsupported language and falls back", func() {
			Expect(execute("preview", "-L", "xx")).To(Succeed())
			Expect(out.String()).To(ContainSubstring(`unsupported language "xx", using de`))
		})

		It("reads a widget request body", func() {
			path := filepath.Join(tmpDir, "request.json")
			Expect(os.WriteFile(path, []byte(`{"message": "Hi", "language": "en-us", "orderContext": {"totalPrice": 49.9}}`), 0o600)).To(Succeed())

			Expect(execute("preview", "--request", path)).To(Succeed())
			Expect(out.String()).To(ContainSubstring("49.9"))
		})
	})
})
