package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/chatgate/pkg/llm"
)

// MockCompleter is a test completion provider that records calls.
type MockCompleter struct {
	mu    sync.Mutex
	calls []*llm.ChatRequest

	// Credential is returned by HasCredential.
	Credential bool

	// Text is the assistant answer returned when Err and Fn are unset.
	Text string

	// Err is returned by Complete when set.
	Err error

	// Fn overrides Complete entirely when set.
	Fn func(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error)
}

// NewMockCompleter creates a credentialed completer answering text.
func NewMockCompleter(text string) *MockCompleter {
	return &MockCompleter{Credential: true, Text: text}
}

func (m *MockCompleter) Complete(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	fn, err, text := m.Fn, m.Err, m.Text
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	return &llm.ChatResponse{
		Model:   req.Model,
		Message: llm.NewTextMessage(llm.RoleAssistant, text),
		Usage:   &llm.Usage{PromptTokens: 90, CompletionTokens: 10, TotalTokens: 100},
	}, nil
}

func (m *MockCompleter) HasCredential() bool {
	return m.Credential
}

// Calls returns the requests received so far.
func (m *MockCompleter) Calls() []*llm.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*llm.ChatRequest(nil), m.calls...)
}
