package server

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/papercomputeco/chatgate/pkg/chat"
	"github.com/papercomputeco/chatgate/pkg/gateway"
	"github.com/papercomputeco/chatgate/pkg/usage"
	"github.com/papercomputeco/chatgate/server/worker"
)

const (
	livenessMessage     = "ChatGPT Server is running!"
	invalidJSONMessage  = "Request body must be valid JSON"
	originDeniedMessage = "Origin not allowed"
	internalMessage     = "Internal server error"
)

// LivenessResponse is returned by GET / and GET /test.
type LivenessResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Origin    string    `json:"origin,omitempty"`
}

func (s *Server) handleLiveness(c *fiber.Ctx) error {
	return c.JSON(LivenessResponse{
		Message:   livenessMessage,
		Timestamp: time.Now().UTC(),
		Origin:    c.Get(fiber.HeaderOrigin),
	})
}

// originGuard rejects browser requests from origins outside the allow-list.
// Requests without an Origin header (curl, server-to-server) pass through.
func (s *Server) originGuard(c *fiber.Ctx) error {
	origin := c.Get(fiber.HeaderOrigin)
	if origin == "" || s.origins.Allowed(origin) {
		return c.Next()
	}

	s.logger.Warn("rejected request from disallowed origin",
		"origin", origin,
		"method", c.Method(),
		"path", c.Path(),
		"request_id", requestID(c),
	)
	return c.Status(fiber.StatusForbidden).JSON(chat.ClientErrorBody{Message: originDeniedMessage})
}

// handleChat runs one support chat exchange.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chat.Request
	if body := bytes.TrimSpace(c.Body()); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.logger.Debug("invalid chat request body",
				"request_id", requestID(c),
				"error", err,
			)
			return c.Status(fiber.StatusBadRequest).JSON(chat.ClientErrorBody{Message: invalidJSONMessage})
		}
	}

	res, err := s.gateway.Chat(c.UserContext(), &req)

	status := fiber.StatusOK
	var payload any = chat.SuccessBody{Response: res.Text, Success: true}
	if err != nil {
		ge, ok := gateway.AsError(err)
		if !ok {
			ge = &gateway.Error{Kind: gateway.KindTransport, Message: internalMessage, Cause: err}
		}
		status = ge.Status()
		if ge.Kind == gateway.KindInvalidRequest {
			payload = chat.ClientErrorBody{Message: ge.Message}
		} else {
			payload = chat.ServerErrorBody{Message: ge.Message, Error: string(ge.Kind)}
		}
	}

	s.logger.Info("chat exchange",
		"request_id", requestID(c),
		"language", res.Language,
		"stage", res.Stage,
		"outcome", res.Outcome(),
		"status", status,
		"duration", res.Duration,
	)
	s.record(c, res, status)

	return c.Status(status).JSON(payload)
}

// record hands the exchange outcome to the recorder without blocking.
func (s *Server) record(c *fiber.Ctx, res *gateway.Result, status int) {
	if s.recorder == nil {
		return
	}

	rec := usage.Record{
		ID:         uuid.NewString(),
		RequestID:  requestID(c),
		Language:   res.Language,
		Outcome:    res.Outcome(),
		HTTPStatus: status,
		Model:      res.Model,
		DurationMs: res.Duration.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if res.Usage != nil {
		rec.PromptTokens = res.Usage.PromptTokens
		rec.CompletionTokens = res.Usage.CompletionTokens
	}

	s.recorder.Enqueue(worker.Job{Record: rec})
}

func requestID(c *fiber.Ctx) string {
	return string(c.Response().Header.Peek(fiber.HeaderXRequestID))
}
