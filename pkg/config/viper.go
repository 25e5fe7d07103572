package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/papercomputeco/chatgate/pkg/dotdir"
)

const envPrefix = "CHATGATE"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the CHATGATE_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (CHATGATE_SERVER_LISTEN, PORT, CHATGATE_PROVIDER_MODEL, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}
	v.AddConfigPath(target)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: CHATGATE_SERVER_LISTEN, CHATGATE_STORAGE_SQLITE_PATH, etc.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Hosting platforms hand the port over as PORT.
	_ = v.BindEnv("server.listen", envPrefix+"_SERVER_LISTEN", "PORT")

	return v, nil
}

// LoadDotEnv loads KEY=value pairs from the given files (default ".env")
// into the process environment. Variables that are already set win, and a
// missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// FromViper builds a Config from the merged viper state.
func FromViper(v *viper.Viper) (*Config, error) {
	temperature := v.GetFloat64("provider.temperature")

	cfg := &Config{
		Version: v.GetInt("version"),
		Server: ServerConfig{
			Listen:                normalizeListen(v.GetString("server.listen")),
			AllowedOrigins:        SplitList(v.GetStringSlice("server.allowed_origins")...),
			AllowedOriginPatterns: SplitList(v.GetStringSlice("server.allowed_origin_patterns")...),
		},
		Provider: ProviderConfig{
			Name:        v.GetString("provider.name"),
			BaseURL:     v.GetString("provider.base_url"),
			Model:       v.GetString("provider.model"),
			MaxTokens:   v.GetInt("provider.max_tokens"),
			Temperature: &temperature,
			Timeout:     v.GetString("provider.timeout"),
		},
		Gateway: GatewayConfig{
			BaseLanguage:  v.GetString("gateway.base_language"),
			TemplatesPath: v.GetString("gateway.templates_path"),
		},
		Storage: StorageConfig{
			SQLitePath:  v.GetString("storage.sqlite_path"),
			PostgresDSN: v.GetString("storage.postgres_dsn"),
		},
		Events: EventsConfig{
			Provider: v.GetString("events.provider"),
			Brokers:  SplitList(v.GetStringSlice("events.brokers")...),
			Topic:    v.GetString("events.topic"),
		},
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// normalizeListen turns a bare port such as "8080" into ":8080".
func normalizeListen(listen string) string {
	listen = strings.TrimSpace(listen)
	if listen != "" && !strings.Contains(listen, ":") {
		return ":" + listen
	}
	return listen
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Server
	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.allowed_origin_patterns", d.Server.AllowedOriginPatterns)

	// Provider
	v.SetDefault("provider.name", d.Provider.Name)
	v.SetDefault("provider.base_url", d.Provider.BaseURL)
	v.SetDefault("provider.model", d.Provider.Model)
	v.SetDefault("provider.max_tokens", d.Provider.MaxTokens)
	v.SetDefault("provider.temperature", *d.Provider.Temperature)
	v.SetDefault("provider.timeout", d.Provider.Timeout)

	// Gateway
	v.SetDefault("gateway.base_language", d.Gateway.BaseLanguage)
	v.SetDefault("gateway.templates_path", d.Gateway.TemplatesPath)

	// Storage
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)
	v.SetDefault("storage.postgres_dsn", d.Storage.PostgresDSN)

	// Events
	v.SetDefault("events.provider", d.Events.Provider)
	v.SetDefault("events.brokers", d.Events.Brokers)
	v.SetDefault("events.topic", d.Events.Topic)
}
