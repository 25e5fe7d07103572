package templatescmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/chatgate/pkg/cliui"
	"github.com/papercomputeco/chatgate/pkg/utils"
)

const listLongDesc string = `List the languages the gateway can answer in.

Shows each template's code, aliases, and the start of its base prompt. The
base language, used for unknown or missing language codes, is marked.

Examples:
  chatgate templates list
  chatgate templates list --templates ./templates.toml`

const listShortDesc string = "List supported languages"

const promptPreviewLen = 60

func newListCmd(src *source) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.OutOrStdout(), src)
		},
	}
}

func runList(w io.Writer, src *source) error {
	catalog, err := src.catalog()
	if err != nil {
		return err
	}

	base := catalog.Base().Code

	fmt.Fprintf(w, "\n  %s\n\n", cliui.HeaderStyle.Render("Prompt templates"))
	for _, code := range catalog.Codes() {
		t, _ := catalog.Lookup(code)

		marker := " "
		if code == base {
			marker = cliui.SuccessMark
		}

		fmt.Fprintf(w, "  %s %s  %s\n", marker, cliui.NameStyle.Render(code), t.Name)
		if len(t.Aliases) > 0 {
			fmt.Fprintf(w, "      %s %s\n", cliui.KeyStyle.Render("aliases:"), strings.Join(t.Aliases, ", "))
		}
		fmt.Fprintf(w, "      %s\n", cliui.DimStyle.Render(utils.Truncate(utils.OneLine(t.SystemPrompt), promptPreviewLen)))
	}

	fmt.Fprintf(w, "\n  %s base language: %s\n\n", cliui.SuccessMark, base)
	return nil
}
