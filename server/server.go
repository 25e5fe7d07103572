package server

import (
	"errors"
	"log/slog"
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/papercomputeco/chatgate/pkg/gateway"
	"github.com/papercomputeco/chatgate/pkg/logger"
	"github.com/papercomputeco/chatgate/server/worker"
)

const (
	// bodyLimit caps request bodies; widget payloads are a few KB.
	bodyLimit = 1 << 20

	corsMaxAge = 86400
)

// Recorder accepts exchange outcomes for asynchronous persistence.
// *worker.Pool implements it.
type Recorder interface {
	Enqueue(job worker.Job) bool
}

// Server is the gateway's HTTP server.
type Server struct {
	config   Config
	gateway  *gateway.Service
	origins  *OriginPolicy
	recorder Recorder
	logger   *slog.Logger
	app      *fiber.App
}

// New creates the HTTP server. recorder may be nil to disable outcome recording.
func New(config Config, svc *gateway.Service, recorder Recorder, log *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, errors.New("server requires a gateway service")
	}

	origins, err := NewOriginPolicy(config.AllowedOrigins, config.AllowedOriginPatterns)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.Nop()
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
	})

	s := &Server{
		config:   config,
		gateway:  svc,
		origins:  origins,
		recorder: recorder,
		logger:   log,
		app:      app,
	}

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(compress.New())
	app.Use(s.originGuard)
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins.Origins(), ","),
		AllowOriginsFunc: origins.Allowed,
		AllowMethods:     strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions}, ","),
		AllowHeaders:     "Content-Type, Authorization, X-Requested-With, Accept, Origin",
		ExposeHeaders:    fiber.HeaderXRequestID,
		MaxAge:           corsMaxAge,
	}))

	app.Get("/", s.handleLiveness)
	app.Get("/test", s.handleLiveness)
	app.Post("/chatgpt", s.handleChat)

	return s, nil
}

// Run starts the server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting chat gateway",
		"listen", s.config.ListenAddr,
		"allowed_origins", len(s.config.AllowedOrigins),
		"allowed_origin_patterns", len(s.config.AllowedOriginPatterns),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener starts the server using the provided listener.
func (s *Server) RunWithListener(listener net.Listener) error {
	s.logger.Info("starting chat gateway", "listen", listener.Addr().String())
	return s.app.Listener(listener)
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
