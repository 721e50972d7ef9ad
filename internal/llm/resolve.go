package llm

import (
	"fmt"
	"strings"

	"github.com/temirov/llmpack/internal/config"
)

// SettingsReader is the part of the settings store provider resolution needs.
type SettingsReader interface {
	GetSetting(key string) string
	APIKey(providerName string) string
}

// Selection is a fully resolved provider, model, and credential.
type Selection struct {
	Provider ProviderKind
	Model    string
	APIKey   string
}

// ResolveProvider decides which provider and model a query uses.
// The provider comes from overrideProvider or the stored setting. The model comes from
// overrideModel, else the stored model when the provider was not overridden to a different
// one, else the provider's default model.
func ResolveProvider(settings SettingsReader, overrideProvider string, overrideModel string) (Selection, error) {
	storedProvider := strings.TrimSpace(settings.GetSetting(config.SettingProvider))
	providerName := strings.TrimSpace(overrideProvider)
	if providerName == "" {
		providerName = storedProvider
	}
	provider, parseError := ParseProviderKind(providerName)
	if parseError != nil {
		return Selection{}, parseError
	}

	model := strings.TrimSpace(overrideModel)
	if model == "" && strings.EqualFold(storedProvider, string(provider)) {
		model = strings.TrimSpace(settings.GetSetting(config.SettingModel))
	}
	if model == "" {
		model = DefaultModelForProvider(provider)
	}
	if model == "" {
		return Selection{}, fmt.Errorf("%w for %s", ErrMissingModel, provider)
	}

	apiKey := strings.TrimSpace(settings.APIKey(string(provider)))
	if provider.RequiresAPIKey() && apiKey == "" {
		return Selection{}, fmt.Errorf("%w for %s: run 'llmpack init' or set %s", ErrMissingAPIKey, provider, config.APIKeyEnvironmentVariable(string(provider)))
	}
	return Selection{Provider: provider, Model: model, APIKey: apiKey}, nil
}
