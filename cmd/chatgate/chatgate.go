// Package chatgatecmder is the root chatgate command.
package chatgatecmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/chatgate/cmd/chatgate/auth"
	configcmder "github.com/papercomputeco/chatgate/cmd/chatgate/config"
	initcmder "github.com/papercomputeco/chatgate/cmd/chatgate/init"
	servecmder "github.com/papercomputeco/chatgate/cmd/chatgate/serve"
	templatescmder "github.com/papercomputeco/chatgate/cmd/chatgate/templates"
	usagecmder "github.com/papercomputeco/chatgate/cmd/chatgate/usage"
	versioncmder "github.com/papercomputeco/chatgate/cmd/version"
)

const chatgateLongDesc string = `chatgate is a support chat gateway between a helpdesk widget and an
OpenAI-compatible completion API.

It builds a localized system prompt from the customer's message and the
ticket and order context, calls the provider and returns a normalized answer.

Get started:
  chatgate init                 Create a local .chatgate/ directory
  chatgate auth openai          Store the provider API key
  chatgate serve                Run the gateway
  chatgate templates list       Show the supported languages`

const chatgateShortDesc string = "chatgate - support chat gateway"

func NewChatgateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "chatgate",
		Short:        chatgateShortDesc,
		Long:         chatgateLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to the .chatgate/ config directory")

	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(templatescmder.NewTemplatesCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(usagecmder.NewUsageCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
