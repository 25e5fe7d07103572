package templatescmder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/chatgate/pkg/chat"
	"github.com/papercomputeco/chatgate/pkg/cliui"
	"github.com/papercomputeco/chatgate/pkg/prompt"
)

const previewLongDesc string = `Render the system prompt the gateway would send for a request.

Build the request from flags, or pass a widget request body with --request.
Nothing is sent to the provider.

Examples:
  chatgate templates preview --language en-us --subject "Late delivery"
  chatgate templates preview -L fr --order "#1042" --status fulfilled
  chatgate templates preview --request ./request.json --render`

const previewShortDesc string = "Render the system prompt for a request"

type previewCommander struct {
	src *source

	requestFile string
	render      bool

	language    string
	subject     string
	description string
	email       string
	orderName   string
	customer    string
	status      string
	total       string
}

func newPreviewCmd(src *source) *cobra.Command {
	cmder := &previewCommander{src: src}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: previewShortDesc,
		Long:  previewLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&cmder.requestFile, "request", "", "Path to a JSON widget request body")
	cmd.Flags().BoolVar(&cmder.render, "render", false, "Render the prompt as markdown")
	cmd.Flags().StringVarP(&cmder.language, "language", "L", "", "Language code (default: base language)")
	cmd.Flags().StringVar(&cmder.subject, "subject", "", "Ticket subject")
	cmd.Flags().StringVar(&cmder.description, "description", "", "Ticket description")
	cmd.Flags().StringVar(&cmder.email, "email", "", "Requester email")
	cmd.Flags().StringVar(&cmder.orderName, "order", "", "Order number")
	cmd.Flags().StringVar(&cmder.customer, "customer", "", "Customer name")
	cmd.Flags().StringVar(&cmder.status, "status", "", "Order status")
	cmd.Flags().StringVar(&cmder.total, "total", "", "Order total price")

	return cmd
}

func (c *previewCommander) run(w io.Writer) error {
	catalog, err := c.src.catalog()
	if err != nil {
		return err
	}

	req, err := c.request()
	if err != nil {
		return err
	}

	tmpl := catalog.Resolve(req.Language)
	if _, ok := catalog.Lookup(req.Language); !ok && req.Language != "" {
		fmt.Fprintf(w, "  %s unsupported language %q, using %s\n\n",
			cliui.WarnStyle.Render("!"), req.Language, tmpl.Code)
	}

	out := prompt.Render(tmpl, req)
	if c.render {
		rendered, err := cliui.RenderMarkdown(out)
		if err == nil {
			out = rendered
		}
	}

	_, err = fmt.Fprintln(w, out)
	return err
}

// request builds the chat request from --request or the context flags.
func (c *previewCommander) request() (*chat.Request, error) {
	if c.requestFile != "" {
		data, err := os.ReadFile(c.requestFile)
		if err != nil {
			return nil, fmt.Errorf("reading request: %w", err)
		}

		req := &chat.Request{}
		if err := json.Unmarshal(data, req); err != nil {
			return nil, fmt.Errorf("parsing request: %w", err)
		}
		return req, nil
	}

	req := &chat.Request{Language: c.language}

	if c.subject != "" || c.description != "" || c.email != "" {
		req.TicketContext = &chat.TicketContext{
			Subject:        chat.Text(c.subject),
			Description:    chat.Text(c.description),
			RequesterEmail: chat.Text(c.email),
		}
	}

	if c.orderName != "" || c.customer != "" || c.status != "" || c.total != "" {
		req.OrderContext = &chat.OrderContext{
			OrderName:    chat.Text(c.orderName),
			CustomerName: chat.Text(c.customer),
			OrderStatus:  chat.Text(c.status),
			TotalPrice:   chat.Text(c.total),
		}
	}

	return req, nil
}
