package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config represents the persistent chatgate configuration stored as
// config.toml in the .chatgate/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version  int            `toml:"version"`
	Server   ServerConfig   `toml:"server"`
	Provider ProviderConfig `toml:"provider"`
	Gateway  GatewayConfig  `toml:"gateway"`
	Storage  StorageConfig  `toml:"storage"`
	Events   EventsConfig   `toml:"events"`
}

// ServerConfig holds the inbound HTTP settings.
type ServerConfig struct {
	Listen                string   `toml:"listen,omitempty"`
	AllowedOrigins        []string `toml:"allowed_origins,omitempty"`
	AllowedOriginPatterns []string `toml:"allowed_origin_patterns,omitempty"`
}

// ProviderConfig holds the completion provider settings. The API key is not
// part of the config; see the credentials package.
type ProviderConfig struct {
	Name        string   `toml:"name,omitempty"`
	BaseURL     string   `toml:"base_url,omitempty"`
	Model       string   `toml:"model,omitempty"`
	MaxTokens   int      `toml:"max_tokens,omitempty"`
	Temperature *float64 `toml:"temperature,omitempty"`

	// Timeout is a Go duration string such as "60s".
	Timeout string `toml:"timeout,omitempty"`
}

// GatewayConfig holds prompt template settings.
type GatewayConfig struct {
	BaseLanguage string `toml:"base_language,omitempty"`

	// TemplatesPath points to a TOML template matrix replacing the built-in one.
	TemplatesPath string `toml:"templates_path,omitempty"`
}

// StorageConfig selects the usage ledger. PostgresDSN wins over SQLitePath;
// with neither set the ledger is kept in memory.
type StorageConfig struct {
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// EventsConfig selects the exchange event publisher.
type EventsConfig struct {
	Provider string   `toml:"provider,omitempty"`
	Brokers  []string `toml:"brokers,omitempty"`
	Topic    string   `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.listen": {
		get: func(c *Config) string { return c.Server.Listen },
		set: func(c *Config, v string) error { c.Server.Listen = v; return nil },
	},
	"server.allowed_origins": {
		get: func(c *Config) string { return strings.Join(c.Server.AllowedOrigins, ",") },
		set: func(c *Config, v string) error { c.Server.AllowedOrigins = SplitList(v); return nil },
	},
	"server.allowed_origin_patterns": {
		get: func(c *Config) string { return strings.Join(c.Server.AllowedOriginPatterns, ",") },
		set: func(c *Config, v string) error { c.Server.AllowedOriginPatterns = SplitList(v); return nil },
	},
	"provider.name": {
		get: func(c *Config) string { return c.Provider.Name },
		set: func(c *Config, v string) error { c.Provider.Name = v; return nil },
	},
	"provider.base_url": {
		get: func(c *Config) string { return c.Provider.BaseURL },
		set: func(c *Config, v string) error { c.Provider.BaseURL = v; return nil },
	},
	"provider.model": {
		get: func(c *Config) string { return c.Provider.Model },
		set: func(c *Config, v string) error { c.Provider.Model = v; return nil },
	},
	"provider.max_tokens": {
		get: func(c *Config) string {
			if c.Provider.MaxTokens == 0 {
				return ""
			}
			return strconv.Itoa(c.Provider.MaxTokens)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for provider.max_tokens: %w", err)
			}
			c.Provider.MaxTokens = n
			return nil
		},
	},
	"provider.temperature": {
		get: func(c *Config) string {
			if c.Provider.Temperature == nil {
				return ""
			}
			return strconv.FormatFloat(*c.Provider.Temperature, 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for provider.temperature: %w", err)
			}
			c.Provider.Temperature = &f
			return nil
		},
	},
	"provider.timeout": {
		get: func(c *Config) string { return c.Provider.Timeout },
		set: func(c *Config, v string) error { c.Provider.Timeout = v; return nil },
	},
	"gateway.base_language": {
		get: func(c *Config) string { return c.Gateway.BaseLanguage },
		set: func(c *Config, v string) error { c.Gateway.BaseLanguage = v; return nil },
	},
	"gateway.templates_path": {
		get: func(c *Config) string { return c.Gateway.TemplatesPath },
		set: func(c *Config, v string) error { c.Gateway.TemplatesPath = v; return nil },
	},
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"storage.postgres_dsn": {
		get: func(c *Config) string { return c.Storage.PostgresDSN },
		set: func(c *Config, v string) error { c.Storage.PostgresDSN = v; return nil },
	},
	"events.provider": {
		get: func(c *Config) string { return c.Events.Provider },
		set: func(c *Config, v string) error { c.Events.Provider = v; return nil },
	},
	"events.brokers": {
		get: func(c *Config) string { return strings.Join(c.Events.Brokers, ",") },
		set: func(c *Config, v string) error { c.Events.Brokers = SplitList(v); return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
}

// orderedKeys lists configKeys in TOML section order.
var orderedKeys = []string{
	"server.listen",
	"server.allowed_origins",
	"server.allowed_origin_patterns",
	"provider.name",
	"provider.base_url",
	"provider.model",
	"provider.max_tokens",
	"provider.temperature",
	"provider.timeout",
	"gateway.base_language",
	"gateway.templates_path",
	"storage.sqlite_path",
	"storage.postgres_dsn",
	"events.provider",
	"events.brokers",
	"events.topic",
}

// SplitList splits comma or whitespace separated values, dropping empties.
func SplitList(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, f := range strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		}) {
			out = append(out, f)
		}
	}
	return out
}
