package translation

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Groq serves an OpenAI-compatible API
const (
	GroqBaseURL      = "https://api.groq.com/openai/v1"
	DefaultGroqModel = "llama-3.3-70b-versatile"
)

// GroqBackend implements Backend against the Groq chat-completion API
type GroqBackend struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewGroqBackend creates a Groq backend. An empty model selects the
// default. The API key is checked at first use, not here.
func NewGroqBackend(apiKey, model string) *GroqBackend {
	if model == "" {
		model = DefaultGroqModel
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = GroqBaseURL

	return &GroqBackend{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(config),
	}
}

// Translate sends one chat-completion request and classifies any failure
func (b *GroqBackend) Translate(ctx context.Context, req Request) (*Result, error) {
	if b.apiKey == "" {
		return nil, &BackendError{
			Kind:    KindFatal,
			Message: "GROQ_API_KEY is not set. Add it to your .env file or environment",
		}
	}

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens: req.MaxTokens,
		// go-openai omits a zero temperature from the request body, so
		// the smallest nonzero value stands in for deterministic sampling
		Temperature: math.SmallestNonzeroFloat32,
	})
	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &BackendError{Kind: KindTransient, Message: "no completion returned"}
	}

	return &Result{
		Text:         strings.TrimSpace(resp.Choices[0].Message.Content),
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

// classifyError maps a go-openai error to a tagged BackendError. HTTP 429
// is a rate limit, 5xx is transient, other API statuses are fatal.
// Transport-level failures (timeouts, resets) are treated as transient.
func classifyError(err error) *BackendError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return &BackendError{Kind: KindRateLimit, Message: "rate limit exceeded", Err: err}
		case apiErr.HTTPStatusCode >= 500:
			return &BackendError{Kind: KindTransient, Message: "server error", Err: err}
		default:
			return &BackendError{Kind: KindFatal, Message: "API error", Err: err}
		}
	}

	if errors.Is(err, context.Canceled) {
		return &BackendError{Kind: KindFatal, Message: "request canceled", Err: err}
	}

	return &BackendError{Kind: KindTransient, Message: "request failed", Err: err}
}
