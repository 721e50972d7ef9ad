// Package config persists user settings for llmpack in a JSON file backed by viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/temirov/llmpack/internal/utils"
)

const (
	// SettingProvider names the selected LLM provider.
	SettingProvider = "llm_provider"
	// SettingModel names the selected model of that provider.
	SettingModel = "llm_model"
	// SettingLanguage is the language responses are requested in.
	SettingLanguage = "language"
	// SettingInstructionPrompt precedes the task in every query.
	SettingInstructionPrompt = "instruction_prompt"

	// DefaultProvider is used until the user selects another provider.
	DefaultProvider = "gemini"
	// DefaultModel is the default model of DefaultProvider.
	DefaultModel = "gemini-2.5-pro-preview-03-25"
	// DefaultLanguage is the default response language.
	DefaultLanguage = "en"
	// DefaultInstructionPrompt is the default instruction sent ahead of the task.
	DefaultInstructionPrompt = "Create a step-by-step work procedure for the following task:"

	// ConfigDirectoryEnvironmentVariable overrides the settings directory.
	ConfigDirectoryEnvironmentVariable = "LLMPACK_CONFIG_DIR"

	apiKeysSection          = "api_keys"
	apiKeyEnvironmentSuffix = "_API_KEY"
	settingsFileType        = "json"
	settingsDirectoryMode   = 0o700
	settingsFileMode        = 0o600
	userConfigDirectoryName = ".config"

	errorResolveHomeFormat      = "resolve home directory for settings: %w"
	errorCreateDirectoryFormat  = "create settings directory %s: %w"
	errorInspectSettingsFormat  = "inspect settings %s: %w"
	errorSettingsIsDirectory    = "settings path %s is a directory"
	errorWriteSettingsFormat    = "write settings to %s: %w"
	errorRestrictSettingsFormat = "restrict permissions of %s: %w"
	corruptSettingsWarning      = "Settings file is unreadable, restoring defaults"
	createdSettingsDebugMessage = "Created settings file with defaults"
)

// SupportedAPIKeyProviders lists the providers that have a stored API key slot.
var SupportedAPIKeyProviders = []string{"openai", "anthropic", "gemini", "ollama"}

// SupportedLanguages lists the response languages that can be selected.
var SupportedLanguages = []string{"en", "ja"}

// ErrEmptyProvider is returned when an API key operation names no provider.
var ErrEmptyProvider = errors.New("provider name is empty")

// LoadOptions controls where settings are read from.
type LoadOptions struct {
	// Directory holds the settings file; empty means DefaultSettingsDirectory.
	Directory string
	Logger    *zap.Logger
}

// SettingsStore is a flat key-value store of user settings persisted after every change.
type SettingsStore struct {
	filePath string
	reader   *viper.Viper
	logger   *zap.Logger
}

// DefaultSettingsDirectory returns $LLMPACK_CONFIG_DIR when set, otherwise ~/.config/llmpack.
func DefaultSettingsDirectory() (string, error) {
	if overrideDirectory := strings.TrimSpace(os.Getenv(ConfigDirectoryEnvironmentVariable)); overrideDirectory != "" {
		return overrideDirectory, nil
	}
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil {
		return "", fmt.Errorf(errorResolveHomeFormat, homeError)
	}
	return filepath.Join(homeDirectory, userConfigDirectoryName, utils.GlobalConfigDirectoryName), nil
}

// LoadSettings opens the settings file, creating it with defaults when it is missing
// and rewriting it with defaults when it cannot be parsed.
func LoadSettings(options LoadOptions) (*SettingsStore, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	settingsDirectory := options.Directory
	if settingsDirectory == "" {
		defaultDirectory, directoryError := DefaultSettingsDirectory()
		if directoryError != nil {
			return nil, directoryError
		}
		settingsDirectory = defaultDirectory
	}
	if mkdirError := os.MkdirAll(settingsDirectory, settingsDirectoryMode); mkdirError != nil {
		return nil, fmt.Errorf(errorCreateDirectoryFormat, settingsDirectory, mkdirError)
	}

	store := &SettingsStore{
		filePath: filepath.Join(settingsDirectory, utils.ConfigFileName),
		reader:   newSettingsReader(),
		logger:   logger,
	}

	fileInfo, statError := os.Stat(store.filePath)
	switch {
	case statError == nil && fileInfo.IsDir():
		return nil, fmt.Errorf(errorSettingsIsDirectory, store.filePath)
	case errors.Is(statError, os.ErrNotExist):
		if writeError := store.persist(); writeError != nil {
			return nil, writeError
		}
		logger.Debug(createdSettingsDebugMessage, zap.String("path", store.filePath))
		return store, nil
	case statError != nil:
		return nil, fmt.Errorf(errorInspectSettingsFormat, store.filePath, statError)
	}

	store.reader.SetConfigFile(store.filePath)
	if readError := store.reader.ReadInConfig(); readError != nil {
		logger.Warn(corruptSettingsWarning, zap.String("path", store.filePath), zap.Error(readError))
		store.reader = newSettingsReader()
		if writeError := store.persist(); writeError != nil {
			return nil, writeError
		}
	}
	return store, nil
}

func newSettingsReader() *viper.Viper {
	reader := viper.New()
	reader.SetConfigType(settingsFileType)
	reader.SetDefault(SettingProvider, DefaultProvider)
	reader.SetDefault(SettingModel, DefaultModel)
	reader.SetDefault(SettingLanguage, DefaultLanguage)
	reader.SetDefault(SettingInstructionPrompt, DefaultInstructionPrompt)
	for _, providerName := range SupportedAPIKeyProviders {
		reader.SetDefault(apiKeySettingKey(providerName), "")
	}
	return reader
}

// FilePath reports where the settings are persisted.
func (store *SettingsStore) FilePath() string {
	return store.filePath
}

// GetSetting returns the stored value of key or its default.
func (store *SettingsStore) GetSetting(key string) string {
	return store.reader.GetString(key)
}

// SetSetting stores value under key and writes the settings file.
func (store *SettingsStore) SetSetting(key string, value string) error {
	store.reader.Set(key, value)
	return store.persist()
}

// SetSettings stores several values and writes the settings file once.
func (store *SettingsStore) SetSettings(values map[string]string) error {
	for key, value := range values {
		store.reader.Set(key, value)
	}
	return store.persist()
}

// APIKey returns the key for providerName. The environment variable
// <PROVIDER>_API_KEY takes precedence over the stored key.
func (store *SettingsStore) APIKey(providerName string) string {
	normalizedProvider := strings.ToLower(strings.TrimSpace(providerName))
	if normalizedProvider == "" {
		return ""
	}
	if environmentKey := os.Getenv(APIKeyEnvironmentVariable(normalizedProvider)); environmentKey != "" {
		return environmentKey
	}
	return store.reader.GetString(apiKeySettingKey(normalizedProvider))
}

// SetAPIKey persists apiKey for providerName.
func (store *SettingsStore) SetAPIKey(providerName string, apiKey string) error {
	normalizedProvider := strings.ToLower(strings.TrimSpace(providerName))
	if normalizedProvider == "" {
		return ErrEmptyProvider
	}
	return store.SetSetting(apiKeySettingKey(normalizedProvider), apiKey)
}

// APIKeyEnvironmentVariable names the variable that overrides the stored key of providerName.
func APIKeyEnvironmentVariable(providerName string) string {
	return strings.ToUpper(providerName) + apiKeyEnvironmentSuffix
}

// IsSupportedLanguage reports whether language is one of SupportedLanguages.
func IsSupportedLanguage(language string) bool {
	for _, supportedLanguage := range SupportedLanguages {
		if supportedLanguage == language {
			return true
		}
	}
	return false
}

func apiKeySettingKey(providerName string) string {
	return apiKeysSection + "." + providerName
}

func (store *SettingsStore) persist() error {
	if writeError := store.reader.WriteConfigAs(store.filePath); writeError != nil {
		return fmt.Errorf(errorWriteSettingsFormat, store.filePath, writeError)
	}
	if chmodError := os.Chmod(store.filePath, settingsFileMode); chmodError != nil {
		return fmt.Errorf(errorRestrictSettingsFormat, store.filePath, chmodError)
	}
	return nil
}
