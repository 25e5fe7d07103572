package templatescmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/chatgate/pkg/cliui"
)

const checkLongDesc string = `Validate a prompt template file.

Reports every incomplete template, malformed or duplicate language code, and
a missing base language at once. Exits non-zero when the file is invalid.

Examples:
  chatgate templates check ./templates.toml
  chatgate templates check ./templates.toml --base-language en-us`

const checkShortDesc string = "Validate a prompt template file"

func newCheckCmd(src *source) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: checkShortDesc,
		Long:  checkLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				src.path = args[0]
			}
			return runCheck(cmd.OutOrStdout(), src)
		},
	}
}

func runCheck(w io.Writer, src *source) error {
	name := src.path
	if name == "" {
		name = "built-in templates"
	}

	var languages int
	err := cliui.Step(w, "Validating "+name, func() error {
		catalog, err := src.catalog()
		if err != nil {
			return err
		}
		languages = len(catalog.Codes())
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "  %s %d languages, base %s\n\n",
		cliui.SuccessMark, languages, cliui.NameStyle.Render(src.base))
	return nil
}
