package llm

import (
	"context"
	"errors"
)

// Provider kinds
const (
	KindGemini     = "gemini"
	KindOpenRouter = "openrouter"
	KindOpenAI     = "openai"
)

var (
	// ErrUpstream wraps transport failures and non-success statuses from a provider
	ErrUpstream = errors.New("upstream model call failed")
	// ErrEmptyReply means the provider answered without any generated text
	ErrEmptyReply = errors.New("model returned an empty reply")
	// ErrUnknownModel means the model is not in the catalog
	ErrUnknownModel = errors.New("unknown model")
	// ErrNotConfigured means the model's provider has no API key
	ErrNotConfigured = errors.New("model provider is not configured")
)

// Provider is the interface for LLM backends. Both the OpenAI-compatible
// chat completion contract and the Gemini generateContent contract sit behind it.
type Provider interface {
	// Complete sends prompt as a single user message and returns the
	// trimmed text of the reply
	Complete(ctx context.Context, model, prompt string) (string, error)

	// Name returns the provider kind
	Name() string
}
