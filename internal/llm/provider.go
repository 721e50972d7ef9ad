// Package llm sends the combined project document and a task to a language model provider.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ProviderKind identifies one supported provider.
type ProviderKind string

const (
	ProviderOpenAI    ProviderKind = "openai"
	ProviderAnthropic ProviderKind = "anthropic"
	ProviderGemini    ProviderKind = "gemini"
	ProviderOllama    ProviderKind = "ollama"

	defaultRequestTimeout = 10 * time.Minute

	errorUnsupportedProviderFormat = "%w: %q"
)

var (
	// ErrUnsupportedProvider is returned for provider names outside the supported set.
	ErrUnsupportedProvider = errors.New("unsupported LLM provider")
	// ErrMissingAPIKey is returned when a provider that needs a key has none.
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrMissingModel is returned when no model can be determined.
	ErrMissingModel = errors.New("missing model")
	// ErrEmptyResponse is returned when a provider answers without any text.
	ErrEmptyResponse = errors.New("empty response from LLM provider")
)

// supportedProviders is ordered the way providers are offered during init.
var supportedProviders = []ProviderKind{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOllama}

// Generator produces a completion for a system and user prompt pair.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

type httpClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// ProviderOptions configures a Generator.
type ProviderOptions struct {
	Kind   ProviderKind
	Model  string
	APIKey string
	// BaseURL replaces the provider's public endpoint when set.
	BaseURL string
	// HTTPClient defaults to an http.Client with a generous timeout.
	HTTPClient httpClient
}

// SupportedProviders lists every provider in init order.
func SupportedProviders() []ProviderKind {
	return append([]ProviderKind(nil), supportedProviders...)
}

// ParseProviderKind normalizes name and checks it against the supported set.
func ParseProviderKind(name string) (ProviderKind, error) {
	candidate := ProviderKind(strings.ToLower(strings.TrimSpace(name)))
	for _, provider := range supportedProviders {
		if provider == candidate {
			return provider, nil
		}
	}
	return "", fmt.Errorf(errorUnsupportedProviderFormat, ErrUnsupportedProvider, name)
}

// RequiresAPIKey reports whether the provider authenticates with an API key.
func (kind ProviderKind) RequiresAPIKey() bool {
	return kind != ProviderOllama
}

// DisplayName returns the provider name with its first letter capitalized.
func (kind ProviderKind) DisplayName() string {
	if kind == "" {
		return ""
	}
	name := string(kind)
	return strings.ToUpper(name[:1]) + name[1:]
}

// NewGenerator returns the client for options.Kind.
func NewGenerator(options ProviderOptions) (Generator, error) {
	if strings.TrimSpace(options.Model) == "" {
		return nil, ErrMissingModel
	}
	if options.Kind.RequiresAPIKey() && strings.TrimSpace(options.APIKey) == "" {
		return nil, fmt.Errorf("%w for %s", ErrMissingAPIKey, options.Kind)
	}
	transport := newJSONTransport(options.HTTPClient)
	switch options.Kind {
	case ProviderOpenAI:
		return newOpenAIClient(transport, options), nil
	case ProviderAnthropic:
		return newAnthropicClient(transport, options), nil
	case ProviderGemini:
		return newGeminiClient(transport, options), nil
	case ProviderOllama:
		return newOllamaClient(transport, options), nil
	default:
		return nil, fmt.Errorf(errorUnsupportedProviderFormat, ErrUnsupportedProvider, options.Kind)
	}
}
