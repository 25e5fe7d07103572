package config

import (
	"github.com/papercomputeco/chatgate/pkg/gateway"
	"github.com/papercomputeco/chatgate/pkg/llm/provider/openai"
	"github.com/papercomputeco/chatgate/pkg/locale"
)

const (
	defaultListen = ":3001"

	// EventsProviderNone disables event publishing.
	EventsProviderNone = "none"

	// EventsProviderKafka publishes exchange events to Kafka.
	EventsProviderKafka = "kafka"

	defaultEventsTopic = "chatgate.exchanges"
)

var (
	defaultAllowedOrigins = []string{
		"http://localhost:3000",
		"http://localhost:3001",
	}

	defaultAllowedOriginPatterns = []string{
		"https://*.zendesk.com",
		"https://*.apps.zdusercontent.com",
	}
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	temperature := gateway.DefaultTemperature

	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen:                defaultListen,
			AllowedOrigins:        append([]string(nil), defaultAllowedOrigins...),
			AllowedOriginPatterns: append([]string(nil), defaultAllowedOriginPatterns...),
		},
		Provider: ProviderConfig{
			Name:        openai.ProviderName,
			BaseURL:     openai.DefaultBaseURL,
			Model:       gateway.DefaultModel,
			MaxTokens:   gateway.DefaultMaxTokens,
			Temperature: &temperature,
			Timeout:     gateway.DefaultTimeout.String(),
		},
		Gateway: GatewayConfig{
			BaseLanguage: locale.DefaultBaseLanguage,
		},
		Events: EventsConfig{
			Provider: EventsProviderNone,
			Topic:    defaultEventsTopic,
		},
	}
}
