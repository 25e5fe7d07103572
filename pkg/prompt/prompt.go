// Package prompt assembles the system prompt sent to the completion provider.
package prompt

import (
	"strings"

	"github.com/papercomputeco/chatgate/pkg/chat"
	"github.com/papercomputeco/chatgate/pkg/locale"
)

// sectionSeparator separates the base prompt, context sections and directive.
const sectionSeparator = "\n\n"

// Render builds the system prompt for req from tmpl. The output is, in order:
// the base prompt, the ticket section (if req has ticket context), the order
// section (if req has order context) and the language directive, which is
// always present. Rendering is deterministic: the same inputs always produce
// the same prompt.
func Render(tmpl locale.Template, req *chat.Request) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(tmpl.SystemPrompt))

	labels := tmpl.Labels

	if req != nil && req.TicketContext != nil {
		tc := req.TicketContext
		writeSection(&b, labels, labels.TicketSectionTitle, []line{
			{labels.Subject, tc.Subject},
			{labels.Description, tc.Description},
			{labels.Email, tc.Requester()},
		})
	}

	if req != nil && req.OrderContext != nil {
		oc := req.OrderContext
		writeSection(&b, labels, labels.OrderSectionTitle, []line{
			{labels.OrderNumber, oc.OrderName},
			{labels.CustomerName, oc.CustomerName},
			{labels.OrderStatus, oc.OrderStatus},
			{labels.TotalPrice, oc.TotalPrice},
		})
	}

	b.WriteString(sectionSeparator)
	b.WriteString(strings.TrimSpace(tmpl.Directive))

	return b.String()
}

type line struct {
	label string
	value chat.Text
}

func writeSection(b *strings.Builder, labels locale.Labels, title string, lines []line) {
	b.WriteString(sectionSeparator)
	b.WriteString(title)
	b.WriteString(":")

	for _, l := range lines {
		// One field per line: collapse any embedded newlines and runs of space.
		value := strings.Join(strings.Fields(string(l.value)), " ")
		if value == "" {
			value = labels.NotAvailable
		}

		b.WriteString("\n- ")
		b.WriteString(l.label)
		b.WriteString(": ")
		b.WriteString(value)
	}
}
