package config

import (
	"errors"
	"strings"
)

// ErrIncompleteSelection is returned when an init selection lacks a provider or model.
var ErrIncompleteSelection = errors.New("provider and model are required")

// InitSelection carries the answers gathered by the interactive init command.
type InitSelection struct {
	Provider string
	Model    string
	// APIKey is stored only when non-empty so an existing key survives a re-run.
	APIKey   string
	Language string
}

// ApplyInitSelection persists the selection in a single write.
func (store *SettingsStore) ApplyInitSelection(selection InitSelection) error {
	provider := strings.ToLower(strings.TrimSpace(selection.Provider))
	model := strings.TrimSpace(selection.Model)
	if provider == "" || model == "" {
		return ErrIncompleteSelection
	}
	values := map[string]string{
		SettingProvider: provider,
		SettingModel:    model,
	}
	if language := strings.TrimSpace(selection.Language); language != "" {
		values[SettingLanguage] = language
	}
	if apiKey := strings.TrimSpace(selection.APIKey); apiKey != "" {
		values[apiKeySettingKey(provider)] = apiKey
	}
	return store.SetSettings(values)
}
