// Package initcmder provides the init command for initializing a local
// .chatgate directory in the current working directory.
package initcmder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/chatgate/pkg/cliui"
	"github.com/papercomputeco/chatgate/pkg/config"
	"github.com/papercomputeco/chatgate/pkg/dotdir"
	"github.com/papercomputeco/chatgate/pkg/locale"
)

const templatesFile = "templates.toml"

const initLongDesc string = `Initialize a new .chatgate/ directory in the current working directory.

Creates a local .chatgate/ directory that takes precedence over the default
~/.chatgate/ directory, and writes a config.toml with default values unless
one already exists.

With --templates the built-in prompt template matrix is copied to
.chatgate/templates.toml and gateway.templates_path is pointed at it, so the
prompts can be edited without rebuilding.

Examples:
  chatgate init
  chatgate init --templates`

const initShortDesc string = "Initialize a local .chatgate/ directory"

type initCommander struct {
	templates bool
	out       io.Writer
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.out = cmd.OutOrStdout()
			return cmder.run()
		},
	}

	cmd.Flags().BoolVar(&cmder.templates, "templates", false, "Copy the built-in prompt templates into .chatgate/")

	return cmd
}

func (c *initCommander) run() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dotdir.DirName)

	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		fmt.Fprintf(c.out, "Already initialized: %s\n", dir)
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating .chatgate directory: %w", err)
		}
		fmt.Fprintf(c.out, "Initialized .chatgate directory: %s\n", dir)
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if c.templates {
		path := filepath.Join(dir, templatesFile)
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(c.out, "  %s %s already exists, leaving it alone\n", cliui.WarnStyle.Render("!"), path)
		} else {
			if err := os.WriteFile(path, locale.BuiltinTOML(), 0o644); err != nil {
				return fmt.Errorf("writing templates: %w", err)
			}
			fmt.Fprintf(c.out, "  %s Wrote %s\n", cliui.SuccessMark, path)
		}
		cfg.Gateway.TemplatesPath = path
	} else if cfger.Exists() {
		return nil
	}

	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "  %s Wrote %s\n", cliui.SuccessMark, cfger.GetTarget())

	return nil
}
