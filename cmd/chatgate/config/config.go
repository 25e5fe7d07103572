// Package configcmder provides the config command for managing persistent
// chatgate configuration stored in the .chatgate/ directory.
package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/chatgate/pkg/cliui"
	"github.com/papercomputeco/chatgate/pkg/config"
)

const configLongDesc string = `Manage persistent chatgate configuration.

Configuration is stored as config.toml in the .chatgate/ directory and provides
default values for "chatgate serve". Flags and CHATGATE_* environment variables
always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  server.listen, server.allowed_origins, server.allowed_origin_patterns,
  provider.name, provider.base_url, provider.model, provider.max_tokens,
  provider.temperature, provider.timeout,
  gateway.base_language, gateway.templates_path,
  storage.sqlite_path, storage.postgres_dsn,
  events.provider, events.brokers, events.topic

Use subcommands to get, set, or list configuration values:
  chatgate config set <key> <value>    Set a configuration value
  chatgate config get <key>            Get a configuration value
  chatgate config list                 List all configuration values

Examples:
  chatgate config set provider.model gpt-4o
  chatgate config set server.allowed_origins https://shop.example.com,https://help.example.com
  chatgate config get server.listen
  chatgate config list`

const configShortDesc string = "Manage persistent chatgate configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func printTarget(w io.Writer, cfger *config.Configer) {
	if cfger.Exists() {
		fmt.Fprintf(w, "\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(cfger.GetTarget()),
		)
		return
	}
	fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
}
