package prompt_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatgate/pkg/chat"
	"github.com/papercomputeco/chatgate/pkg/locale"
	"github.com/papercomputeco/chatgate/pkg/prompt"
)

var _ = Describe("Render", func() {
	var catalog *locale.Catalog

	BeforeEach(func() {
		templates, err := locale.Builtin()
		Expect(err).NotTo(HaveOccurred())
		catalog, err = locale.NewCatalog(templates, locale.DefaultBaseLanguage)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("with only a message", func() {
		It("renders the base prompt followed by the directive", func() {
			req := &chat.Request{Message: "Hello"}
			tmpl := catalog.Resolve(req.Language)

			out := prompt.Render(tmpl, req)
			Expect(out).To(Equal(tmpl.SystemPrompt + "\n\n" + tmpl.Directive))
			Expect(out).NotTo(ContainSubstring(tmpl.Labels.TicketSectionTitle))
			Expect(out).NotTo(ContainSubstring(tmpl.Labels.OrderSectionTitle))
		})
	})

	Context("with partial ticket context", func() {
		It("shows the subject and marks missing fields as not available", func() {
			req := &chat.Request{
				Message:       "Help",
				Language:      "en-us",
				TicketContext: &chat.TicketContext{Subject: "Lost item"},
			}

			out := prompt.Render(catalog.Resolve(req.Language), req)
			Expect(out).To(ContainSubstring("Ticket context:\n" +
				"- Subject: Lost item\n" +
				"- Description: Not available\n" +
				"- Customer email: Not available"))
			Expect(out).NotTo(ContainSubstring("Order context"))
		})
	})

	Context("with ticket and order context", func() {
		var req *chat.Request

		BeforeEach(func() {
			req = &chat.Request{
				Message:  "Wo ist meine Bestellung?",
				Language: "de",
				TicketContext: &chat.TicketContext{
					Subject:        "Lieferung",
					Description:    "Paket fehlt",
					RequesterEmail: "kunde@example.com",
				},
				OrderContext: &chat.OrderContext{
					OrderName:    "#1042",
					CustomerName: "Erika Mustermann",
					OrderStatus:  "fulfilled",
					TotalPrice:   "49.90",
				},
			}
		})

		It("renders sections in order: base, ticket, order, directive", func() {
			tmpl := catalog.Resolve("de")
			out := prompt.Render(tmpl, req)

			base := strings.Index(out, tmpl.SystemPrompt)
			ticket := strings.Index(out, "Ticket-Kontext:")
			order := strings.Index(out, "Bestellungs-Kontext:")
			directive := strings.Index(out, tmpl.Directive)

			Expect(base).To(Equal(0))
			Expect(ticket).To(BeNumerically(">", base))
			Expect(order).To(BeNumerically(">", ticket))
			Expect(directive).To(BeNumerically(">", order))
			Expect(out).To(HaveSuffix(tmpl.Directive))
		})

		It("uses localized labels", func() {
			out := prompt.Render(catalog.Resolve("de"), req)
			Expect(out).To(ContainSubstring("- Betreff: Lieferung"))
			Expect(out).To(ContainSubstring("- Kunden-E-Mail: kunde@example.com"))
			Expect(out).To(ContainSubstring("- Bestellnummer: #1042"))
			Expect(out).To(ContainSubstring("- Gesamtbetrag: 49.90"))
		})

		It("is idempotent", func() {
			tmpl := catalog.Resolve(req.Language)
			Expect(prompt.Render(tmpl, req)).To(Equal(prompt.Render(tmpl, req)))
		})
	})

	Context("with an order context of empty fields", func() {
		It("renders every order line as not available", func() {
			req := &chat.Request{Message: "Hi", Language: "fr", OrderContext: &chat.OrderContext{}}
			out := prompt.Render(catalog.Resolve("fr"), req)
			Expect(strings.Count(out, "Non disponible")).To(Equal(4))
		})
	})

	It("falls back to the legacy email key", func() {
		req := &chat.Request{
			Message:       "Hi",
			Language:      "en-us",
			TicketContext: &chat.TicketContext{Email: "old@example.com"},
		}
		Expect(prompt.Render(catalog.Resolve("en-us"), req)).To(ContainSubstring("- Customer email: old@example.com"))
	})

	It("keeps each context field on a single line", func() {
		req := &chat.Request{
			Message:       "Hi",
			Language:      "en-us",
			TicketContext: &chat.TicketContext{Description: "line one\n\nline two"},
		}
		Expect(prompt.Render(catalog.Resolve("en-us"), req)).To(ContainSubstring("- Description: line one line two\n"))
	})

	It("always appends the directive, even for an unsupported language", func() {
		req := &chat.Request{Message: "Hi", Language: "xx-unknown"}
		out := prompt.Render(catalog.Resolve(req.Language), req)
		Expect(out).To(HaveSuffix(catalog.Base().Directive))
	})
})
