// Package templatescmder provides the templates command for inspecting the
// localized prompt template matrix.
package templatescmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/chatgate/pkg/config"
	"github.com/papercomputeco/chatgate/pkg/locale"
)

const templatesLongDesc string = `Inspect the localized prompt templates.

By default the built-in template matrix is used. Point --templates (or the
gateway.templates_path config key) at a TOML file to use your own.

Use subcommands to list, validate, or preview templates:
  chatgate templates list                List supported languages
  chatgate templates check <file>        Validate a template file
  chatgate templates preview -L en-us    Render the system prompt for a request`

const templatesShortDesc string = "Inspect the localized prompt templates"

// source locates the template matrix for the subcommands.
type source struct {
	path string
	base string
}

func NewTemplatesCmd() *cobra.Command {
	src := &source{}

	cmd := &cobra.Command{
		Use:   "templates",
		Short: templatesShortDesc,
		Long:  templatesLongDesc,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("templates") {
				src.path = cfg.Gateway.TemplatesPath
			}
			if !cmd.Flags().Changed("base-language") {
				src.base = cfg.Gateway.BaseLanguage
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&src.path, "templates", "t", "", "Path to a TOML prompt template matrix (default: built-in)")
	cmd.PersistentFlags().StringVar(&src.base, "base-language", locale.DefaultBaseLanguage, "Base language code")

	cmd.AddCommand(newListCmd(src))
	cmd.AddCommand(newCheckCmd(src))
	cmd.AddCommand(newPreviewCmd(src))

	return cmd
}

func (s *source) catalog() (*locale.Catalog, error) {
	catalog, err := locale.NewCatalogFromFile(s.path, s.base)
	if err != nil {
		return nil, fmt.Errorf("loading prompt templates: %w", err)
	}
	return catalog, nil
}
