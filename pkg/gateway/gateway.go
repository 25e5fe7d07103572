// Package gateway turns a support chat request into a single completion call
// and normalizes the outcome.
package gateway

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/papercomputeco/chatgate/pkg/chat"
	"github.com/papercomputeco/chatgate/pkg/llm"
	"github.com/papercomputeco/chatgate/pkg/locale"
	"github.com/papercomputeco/chatgate/pkg/logger"
	"github.com/papercomputeco/chatgate/pkg/prompt"
)

// Completion defaults. They are operator settings and never change per request.
const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultMaxTokens   = 500
	DefaultTemperature = 0.7
	DefaultTimeout     = 60 * time.Second
)

// Config holds the completion parameters used for every request.
type Config struct {
	Model       string
	MaxTokens   int
	Temperature float64

	// Timeout bounds the provider call.
	Timeout time.Duration
}

// DefaultConfig returns the documented completion defaults.
func DefaultConfig() Config {
	return Config{
		Model:       DefaultModel,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		Timeout:     DefaultTimeout,
	}
}

// Completer sends one chat completion request to the provider.
type Completer interface {
	Complete(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error)

	// HasCredential reports whether a provider credential is configured.
	HasCredential() bool
}

// Service runs chat exchanges. It holds only immutable state and is safe for
// concurrent use.
type Service struct {
	cfg       Config
	catalog   *locale.Catalog
	completer Completer
	logger    *slog.Logger
}

// New creates a Service. Zero Model, MaxTokens and Timeout take the defaults;
// Temperature is used as given.
func New(cfg Config, catalog *locale.Catalog, completer Completer, log *slog.Logger) *Service {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Service{
		cfg:       cfg,
		catalog:   catalog,
		completer: completer,
		logger:    log,
	}
}

// Config returns the effective completion settings.
func (s *Service) Config() Config {
	return s.cfg
}

// Chat runs one exchange. The returned Result is never nil, so callers can
// record failed exchanges too; on failure the error is a *Error equal to
// Result.Err.
func (s *Service) Chat(ctx context.Context, req *chat.Request) (*Result, error) {
	start := time.Now()
	res := &Result{Stage: StageReceived, Model: s.cfg.Model}

	fail := func(e *Error) (*Result, error) {
		res.Stage = StageFailed
		res.Err = e
		res.Duration = time.Since(start)

		attrs := []any{
			"kind", e.Kind,
			"language", res.Language,
			"duration", res.Duration,
		}
		if e.Cause != nil {
			attrs = append(attrs, "error", e.Cause)
		}
		if e.Kind == KindInvalidRequest {
			s.logger.Debug("chat request rejected", attrs...)
		} else {
			s.logger.Warn("chat exchange failed", attrs...)
		}
		return res, e
	}

	if req == nil || strings.TrimSpace(req.Message) == "" {
		return fail(&Error{Kind: KindInvalidRequest, Message: messageRequired})
	}
	res.Stage = StageValidated

	tmpl := s.catalog.Resolve(req.Language)
	res.Language = tmpl.Code

	if !s.completer.HasCredential() {
		return fail(&Error{Kind: KindConfiguration, Message: credentialNotDefined})
	}

	system := prompt.Render(tmpl, req)
	res.Stage = StagePromptBuilt

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	res.Stage = StageCalled
	s.logger.Debug("calling completion provider",
		"language", res.Language,
		"model", s.cfg.Model,
		"prompt_chars", len(system),
	)

	resp, err := s.completer.Complete(callCtx, s.completionRequest(system, req.Message))
	if err != nil {
		return fail(classify(err, tmpl.Errors))
	}

	res.Stage = StageSucceeded
	res.Text = resp.Message.GetText()
	res.Usage = resp.Usage
	if resp.Model != "" {
		res.Model = resp.Model
	}
	res.Duration = time.Since(start)

	s.logger.Debug("chat exchange succeeded",
		"language", res.Language,
		"model", res.Model,
		"duration", res.Duration,
	)

	return res, nil
}

func (s *Service) completionRequest(system, message string) *llm.ChatRequest {
	maxTokens := s.cfg.MaxTokens
	temperature := s.cfg.Temperature

	return &llm.ChatRequest{
		Model: s.cfg.Model,
		Messages: []llm.Message{
			llm.NewTextMessage(llm.RoleSystem, system),
			llm.NewTextMessage(llm.RoleUser, message),
		},
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}
}
