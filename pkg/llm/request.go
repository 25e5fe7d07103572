package llm

// ChatRequest represents a provider-agnostic chat completion request.
// The gateway builds one per support chat exchange; the provider client
// translates it to the wire format.
type ChatRequest struct {
	// Model name (e.g., "gpt-3.5-turbo")
	Model string `json:"model"`

	// Conversation messages, system prompt first
	Messages []Message `json:"messages"`

	// Generation parameters
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}
