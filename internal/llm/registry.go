package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/KARTHIKEYASHARMA672/elctronic/internal/config"
)

// Model is a selectable model identifier bound to a provider kind
type Model struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
	Label    string `json:"label"`
}

// ModelInfo is a catalog entry with its availability
type ModelInfo struct {
	Model
	Available bool `json:"available"`
}

// DefaultModels is the fixed model list offered to users
var DefaultModels = []Model{
	{ID: "gemini-1.5-pro", Provider: KindGemini, Label: "Gemini 1.5 Pro"},
	{ID: "deepseek/deepseek-chat", Provider: KindOpenRouter, Label: "DeepSeek Chat (OpenRouter)"},
	{ID: "meta-llama/llama-3.3-70b-instruct", Provider: KindOpenRouter, Label: "Llama 3.3 70B (OpenRouter)"},
	{ID: "mistralai/mistral-7b-instruct", Provider: KindOpenRouter, Label: "Mistral 7B (OpenRouter)"},
	{ID: "gpt-4o-mini", Provider: KindOpenAI, Label: "GPT-4o mini (OpenAI)"},
}

// Registry maps catalog models to configured providers
type Registry struct {
	models       []Model
	providers    map[string]Provider
	defaultModel string
}

// NewRegistry creates a registry over the given catalog. defaultModel may be
// empty, in which case the first available model is the default.
func NewRegistry(models []Model, defaultModel string) *Registry {
	return &Registry{
		models:       models,
		providers:    make(map[string]Provider),
		defaultModel: defaultModel,
	}
}

// NewRegistryFromConfig registers a provider for every API key that is set
func NewRegistryFromConfig(ctx context.Context, cfg config.LLMConfig, httpClient *http.Client) (*Registry, error) {
	r := NewRegistry(DefaultModels, cfg.DefaultModel)

	if cfg.GoogleAPIKey != "" {
		gemini, err := NewGeminiClient(ctx, cfg.GoogleAPIKey, cfg.GeminiBaseURL, httpClient)
		if err != nil {
			return nil, err
		}
		r.Register(gemini)
	}
	if cfg.OpenRouterAPIKey != "" {
		r.Register(NewOpenAIClient(KindOpenRouter, cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, httpClient))
	}
	if cfg.OpenAIAPIKey != "" {
		r.Register(NewOpenAIClient(KindOpenAI, cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, httpClient))
	}

	if cfg.DefaultModel != "" {
		if _, ok := r.lookup(cfg.DefaultModel); !ok {
			return nil, fmt.Errorf("%w: DEFAULT_MODEL %q", ErrUnknownModel, cfg.DefaultModel)
		}
	}
	return r, nil
}

// Register adds or replaces the provider for p.Name()
func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Resolve returns the provider serving modelID. An empty modelID selects
// the default model.
func (r *Registry) Resolve(modelID string) (Provider, Model, error) {
	if modelID == "" {
		modelID = r.Default()
		if modelID == "" {
			return nil, Model{}, ErrNotConfigured
		}
	}

	m, ok := r.lookup(modelID)
	if !ok {
		return nil, Model{}, fmt.Errorf("%w: %s", ErrUnknownModel, modelID)
	}

	p, ok := r.providers[m.Provider]
	if !ok {
		return nil, m, fmt.Errorf("%w: %s needs the %s API key", ErrNotConfigured, m.ID, m.Provider)
	}
	return p, m, nil
}

// Models returns the catalog with availability flags
func (r *Registry) Models() []ModelInfo {
	out := make([]ModelInfo, 0, len(r.models))
	for _, m := range r.models {
		_, ok := r.providers[m.Provider]
		out = append(out, ModelInfo{Model: m, Available: ok})
	}
	return out
}

// Default returns the configured default model when its provider is
// registered, or else the first available one. It returns "" when no
// provider is registered.
func (r *Registry) Default() string {
	if m, ok := r.lookup(r.defaultModel); ok {
		if _, ok := r.providers[m.Provider]; ok {
			return m.ID
		}
	}
	for _, m := range r.models {
		if _, ok := r.providers[m.Provider]; ok {
			return m.ID
		}
	}
	return ""
}

// Configured reports whether any provider is registered
func (r *Registry) Configured() bool {
	return len(r.providers) > 0
}

func (r *Registry) lookup(id string) (Model, bool) {
	for _, m := range r.models {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}
