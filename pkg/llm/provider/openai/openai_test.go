package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatgate/pkg/llm"
	"github.com/papercomputeco/chatgate/pkg/llm/provider/openai"
)

const completionBody = `{
	"id": "chatcmpl-abc123",
	"object": "chat.completion",
	"created": 1677858242,
	"model": "gpt-3.5-turbo-0125",
	"choices": [
		{
			"index": 0,
			"message": {"role": "assistant", "content": "Ihre Bestellung ist unterwegs."},
			"finish_reason": "stop"
		}
	],
	"usage": {"prompt_tokens": 120, "completion_tokens": 12, "total_tokens": 132}
}`

func newChatRequest() *llm.ChatRequest {
	maxTokens := 500
	temperature := 0.7
	return &llm.ChatRequest{
		Model: "gpt-3.5-turbo",
		Messages: []llm.Message{
			llm.NewTextMessage(llm.RoleSystem, "You are a support assistant."),
			llm.NewTextMessage(llm.RoleUser, "Where is my order?"),
		},
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}
}

var _ = Describe("Client", func() {
	var (
		server  *httptest.Server
		handler http.HandlerFunc
		client  *openai.Client
	)

	BeforeEach(func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, completionBody)
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
		client = openai.New(openai.Options{BaseURL: server.URL + "/v1/", APIKey: "sk-test"})
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("HasCredential", func() {
		It("is true when an API key is configured", func() {
			Expect(client.HasCredential()).To(BeTrue())
		})

		It("is false for an empty or blank key", func() {
			Expect(openai.New(openai.Options{}).HasCredential()).To(BeFalse())
			Expect(openai.New(openai.Options{APIKey: "   "}).HasCredential()).To(BeFalse())
		})
	})

	Describe("Complete", func() {
		It("posts the completion request with a bearer token", func() {
			var (
				gotPath string
				gotAuth string
				gotBody map[string]any
			)
			handler = func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotAuth = r.Header.Get("Authorization")
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
				_, _ = io.WriteString(w, completionBody)
			}

			_, err := client.Complete(context.Background(), newChatRequest())
			Expect(err).NotTo(HaveOccurred())

			Expect(gotPath).To(Equal("/v1/chat/completions"))
			Expect(gotAuth).To(Equal("Bearer sk-test"))
			Expect(gotBody["model"]).To(Equal("gpt-3.5-turbo"))
			Expect(gotBody["max_tokens"]).To(BeNumerically("==", 500))
			Expect(gotBody["temperature"]).To(BeNumerically("==", 0.7))

			messages := gotBody["messages"].([]any)
			Expect(messages).To(HaveLen(2))
			Expect(messages[0]).To(HaveKeyWithValue("role", "system"))
			Expect(messages[0]).To(HaveKeyWithValue("content", "You are a support assistant."))
			Expect(messages[1]).To(HaveKeyWithValue("role", "user"))
			Expect(messages[1]).To(HaveKeyWithValue("content", "Where is my order?"))
		})

		It("sends the configured user agent", func() {
			var gotUA string
			handler = func(w http.ResponseWriter, r *http.Request) {
				gotUA = r.Header.Get("User-Agent")
				_, _ = io.WriteString(w, completionBody)
			}

			client = openai.New(openai.Options{BaseURL: server.URL + "/v1", APIKey: "sk-test", UserAgent: "chatgate/1.2.3"})
			_, err := client.Complete(context.Background(), newChatRequest())
			Expect(err).NotTo(HaveOccurred())
			Expect(gotUA).To(Equal("chatgate/1.2.3"))
		})

		It("returns the first choice text and usage", func() {
			resp, err := client.Complete(context.Background(), newChatRequest())
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Message.GetText()).To(Equal("Ihre Bestellung ist unterwegs."))
			Expect(resp.Usage).NotTo(BeNil())
			Expect(resp.Usage.PromptTokens).To(Equal(120))
			Expect(resp.Usage.CompletionTokens).To(Equal(12))
		})

		Context("when the provider rejects the request", func() {
			It("returns a StatusError carrying the error envelope", func() {
				handler = func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusUnauthorized)
					_, _ = io.WriteString(w, `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`)
				}

				_, err := client.Complete(context.Background(), newChatRequest())

				var se *openai.StatusError
				Expect(errors.As(err, &se)).To(BeTrue())
				Expect(se.StatusCode).To(Equal(http.StatusUnauthorized))
				Expect(se.Type).To(Equal("invalid_request_error"))
				Expect(se.Code).To(Equal("invalid_api_key"))
				Expect(se.Message).To(Equal("Incorrect API key provided"))
				Expect(se.HasMessage()).To(BeTrue())
			})

			It("accepts a plain string error", func() {
				handler = func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusBadRequest)
					_, _ = io.WriteString(w, `{"error": "model not found"}`)
				}

				_, err := client.Complete(context.Background(), newChatRequest())

				var se *openai.StatusError
				Expect(errors.As(err, &se)).To(BeTrue())
				Expect(se.Message).To(Equal("model not found"))
			})

			It("returns a StatusError without a message for non-JSON bodies", func() {
				handler = func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusTooManyRequests)
					_, _ = io.WriteString(w, "slow down")
				}

				_, err := client.Complete(context.Background(), newChatRequest())

				var se *openai.StatusError
				Expect(errors.As(err, &se)).To(BeTrue())
				Expect(se.StatusCode).To(Equal(http.StatusTooManyRequests))
				Expect(se.HasMessage()).To(BeFalse())
				Expect(se.Error()).NotTo(ContainSubstring("slow down"))
			})
		})

		It("returns ErrNoChoices for an empty choice list", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `{"id": "chatcmpl-1", "model": "gpt-3.5-turbo", "choices": []}`)
			}

			_, err := client.Complete(context.Background(), newChatRequest())
			Expect(err).To(MatchError(openai.ErrNoChoices))
		})

		It("returns ErrMalformedResponse for an undecodable 2xx body", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "<html>gateway</html>")
			}

			_, err := client.Complete(context.Background(), newChatRequest())
			Expect(errors.Is(err, openai.ErrMalformedResponse)).To(BeTrue())
		})

		It("honors the context deadline", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			}

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			_, err := client.Complete(ctx, newChatRequest())
			Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
		})
	})
})

var _ = Describe("ParseResponse", func() {
	It("parses the response correctly", func() {
		resp, err := openai.ParseResponse([]byte(completionBody))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Model).To(Equal("gpt-3.5-turbo-0125"))
		Expect(resp.Message.Role).To(Equal("assistant"))
		Expect(resp.StopReason).To(Equal("stop"))
		Expect(resp.CreatedAt.Unix()).To(Equal(int64(1677858242)))
		Expect(resp.Usage.TotalTokens).To(Equal(132))
	})

	It("joins segmented content parts", func() {
		resp, err := openai.ParseResponse([]byte(`{
			"model": "local",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": [
				{"type": "text", "text": "Hello, "},
				{"type": "text", "text": "world"}
			]}}]
		}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Message.GetText()).To(Equal("Hello, world"))
		Expect(resp.Usage).To(BeNil())
	})

	It("returns an error for invalid JSON", func() {
		_, err := openai.ParseResponse([]byte("not json"))
		Expect(err).To(MatchError(openai.ErrMalformedResponse))
	})
})
