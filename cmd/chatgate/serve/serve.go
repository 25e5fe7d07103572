// Package servecmder provides the serve command that runs the gateway.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/papercomputeco/chatgate/pkg/config"
	"github.com/papercomputeco/chatgate/pkg/credentials"
	"github.com/papercomputeco/chatgate/pkg/eventstream"
	"github.com/papercomputeco/chatgate/pkg/eventstream/kafka"
	"github.com/papercomputeco/chatgate/pkg/eventstream/nop"
	"github.com/papercomputeco/chatgate/pkg/gateway"
	"github.com/papercomputeco/chatgate/pkg/llm/provider/openai"
	"github.com/papercomputeco/chatgate/pkg/locale"
	"github.com/papercomputeco/chatgate/pkg/logger"
	usageutils "github.com/papercomputeco/chatgate/pkg/usage/utils"
	"github.com/papercomputeco/chatgate/pkg/utils"
	"github.com/papercomputeco/chatgate/server"
	"github.com/papercomputeco/chatgate/server/worker"
)

// serviceName identifies this gateway in exchange events.
const serviceName = "chatgate"

type serveCommander struct {
	configDir string
	debug     bool
	pretty    bool
	jsonLogs  bool
	logFile   string
	envFile   string

	listen         string
	model          string
	baseURL        string
	maxTokens      uint
	timeout        string
	templates      string
	baseLanguage   string
	sqlitePath     string
	postgresDSN    string
	eventsProvider string
	eventsTopic    string

	viper  *viper.Viper
	logger *slog.Logger
}

const serveLongDesc string = `Run the chat gateway.

Serves POST /chatgpt for the helpdesk widget plus the GET / and GET /test
liveness endpoints. Settings come from, in order of precedence: flags,
CHATGATE_* environment variables (PORT sets the listen port), config.toml in
the .chatgate/ directory, and built-in defaults. A .env file in the working
directory is loaded first.

The provider API key is read from OPENAI_API_KEY, or from the key stored with
"chatgate auth openai". Without a key the gateway still starts, and every chat
request is answered with a configuration error.

Examples:
  chatgate serve
  chatgate serve --listen :8080 --model gpt-4o-mini
  chatgate serve --sqlite ./usage.db --pretty`

const serveShortDesc string = "Run the chat gateway"

var serveFlagKeys = []string{
	config.FlagListen,
	config.FlagModel,
	config.FlagBaseURL,
	config.FlagMaxTokens,
	config.FlagTimeout,
	config.FlagTemplates,
	config.FlagBaseLanguage,
	config.FlagSQLite,
	config.FlagPostgresDSN,
	config.FlagEventsProvider,
	config.FlagEventsTopic,
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(cmder.envFile); err != nil {
				return err
			}

			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.ServeFlags, serveFlagKeys)
			cmder.viper = v
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return cmder.run(ctx)
		},
	}

	config.AddStringFlag(cmd, config.ServeFlags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagBaseURL, &cmder.baseURL)
	config.AddUintFlag(cmd, config.ServeFlags, config.FlagMaxTokens, &cmder.maxTokens)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagTimeout, &cmder.timeout)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagTemplates, &cmder.templates)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagBaseLanguage, &cmder.baseLanguage)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagPostgresDSN, &cmder.postgresDSN)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagEventsProvider, &cmder.eventsProvider)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagEventsTopic, &cmder.eventsTopic)

	cmd.Flags().BoolVar(&cmder.pretty, "pretty", false, "Colorized human-friendly logs")
	cmd.Flags().BoolVar(&cmder.jsonLogs, "json", false, "JSON logs")
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")
	cmd.Flags().StringVar(&cmder.envFile, "env-file", ".env", "dotenv file loaded before reading configuration")

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	cfg, err := config.FromViper(c.viper)
	if err != nil {
		return err
	}

	closeLog, err := c.initLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	catalog, err := locale.NewCatalogFromFile(cfg.Gateway.TemplatesPath, cfg.Gateway.BaseLanguage)
	if err != nil {
		return fmt.Errorf("loading prompt templates: %w", err)
	}
	c.logger.Info("loaded prompt templates",
		"languages", catalog.Codes(),
		"base_language", catalog.Base().Code,
		"custom", cfg.Gateway.TemplatesPath != "",
	)

	apiKey, err := c.resolveAPIKey(cfg.Provider.Name)
	if err != nil {
		return err
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return err
	}

	client := openai.New(openai.Options{
		BaseURL:   cfg.Provider.BaseURL,
		APIKey:    apiKey,
		UserAgent: serviceName + "/" + utils.Version,
	})

	svc := gateway.New(gateway.Config{
		Model:       cfg.Provider.Model,
		MaxTokens:   cfg.Provider.MaxTokens,
		Temperature: *cfg.Provider.Temperature,
		Timeout:     timeout,
	}, catalog, client, c.logger)

	store, err := usageutils.NewStore(ctx, &usageutils.NewStoreOpts{
		PostgresDSN: cfg.Storage.PostgresDSN,
		SQLitePath:  cfg.Storage.SQLitePath,
		Logger:      c.logger,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	publisher, err := c.newPublisher(cfg.Events)
	if err != nil {
		return err
	}
	defer publisher.Close()

	pool, err := worker.NewPool(&worker.Config{
		Store:     store,
		Publisher: publisher,
		Source:    eventstream.EventSource{Service: serviceName, Provider: client.Name()},
		Logger:    c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Close()

	srv, err := server.New(server.Config{
		ListenAddr:            cfg.Server.Listen,
		AllowedOrigins:        cfg.Server.AllowedOrigins,
		AllowedOriginPatterns: cfg.Server.AllowedOriginPatterns,
	}, svc, pool, c.logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	c.logger.Info("chat gateway configured",
		"provider", client.Name(),
		"model", cfg.Provider.Model,
		"max_tokens", cfg.Provider.MaxTokens,
		"timeout", timeout,
		"events", cfg.Events.Provider,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Run(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		c.logger.Info("shutting down chat gateway")
		return srv.Shutdown()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// initLogger builds the console logger and, with --log-file, tees JSON logs
// into that file. The returned func closes the file.
func (c *serveCommander) initLogger() (func(), error) {
	console := logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(c.pretty),
		logger.WithJSON(c.jsonLogs),
	)

	if c.logFile == "" {
		c.logger = console
		return func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	file := logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(true),
		logger.WithWriter(f),
	)
	c.logger = logger.Multi(console, file)

	return func() { _ = f.Close() }, nil
}

// resolveAPIKey looks up the provider key. A missing key is logged, not
// fatal: the gateway answers each request with a configuration error.
func (c *serveCommander) resolveAPIKey(provider string) (string, error) {
	mgr, err := credentials.NewManager(c.configDir)
	if err != nil {
		return "", fmt.Errorf("loading credentials: %w", err)
	}

	key, source, err := mgr.Resolve(provider)
	if err != nil {
		return "", fmt.Errorf("loading credentials: %w", err)
	}

	if source == credentials.SourceNone {
		c.logger.Warn("no provider API key configured; chat requests will fail",
			"provider", provider,
			"env", credentials.EnvVarForProvider(provider),
		)
		return "", nil
	}

	c.logger.Info("provider API key loaded", "provider", provider, "source", string(source))
	return key, nil
}

func (c *serveCommander) newPublisher(cfg config.EventsConfig) (eventstream.Publisher, error) {
	switch cfg.Provider {
	case config.EventsProviderKafka:
		p, err := kafka.NewPublisher(kafka.Config{
			Brokers: cfg.Brokers,
			Topic:   cfg.Topic,
		})
		if err != nil {
			return nil, fmt.Errorf("creating kafka publisher: %w", err)
		}
		c.logger.Info("publishing exchange events to kafka", "brokers", cfg.Brokers, "topic", cfg.Topic)
		return p, nil
	default:
		return nop.NewPublisher(), nil
	}
}
