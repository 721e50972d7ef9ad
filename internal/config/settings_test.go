package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func loadTestSettings(testingHandle *testing.T, settingsDirectory string) *SettingsStore {
	testingHandle.Helper()
	store, loadError := LoadSettings(LoadOptions{Directory: settingsDirectory})
	require.NoError(testingHandle, loadError)
	return store
}

func readSettingsFile(testingHandle *testing.T, filePath string) map[string]any {
	testingHandle.Helper()
	fileBytes, readError := os.ReadFile(filePath)
	require.NoError(testingHandle, readError)
	decoded := map[string]any{}
	require.NoError(testingHandle, json.Unmarshal(fileBytes, &decoded))
	return decoded
}

func TestLoadSettingsCreatesFileWithDefaults(testingHandle *testing.T) {
	settingsDirectory := filepath.Join(testingHandle.TempDir(), "nested", "llmpack")
	store := loadTestSettings(testingHandle, settingsDirectory)

	assert.Equal(testingHandle, filepath.Join(settingsDirectory, "config.json"), store.FilePath())
	persisted := readSettingsFile(testingHandle, store.FilePath())
	assert.Equal(testingHandle, DefaultProvider, persisted[SettingProvider])
	assert.Equal(testingHandle, DefaultModel, persisted[SettingModel])
	assert.Equal(testingHandle, DefaultLanguage, persisted[SettingLanguage])
	assert.Equal(testingHandle, DefaultInstructionPrompt, persisted[SettingInstructionPrompt])

	fileInfo, statError := os.Stat(store.FilePath())
	require.NoError(testingHandle, statError)
	assert.Equal(testingHandle, os.FileMode(settingsFileMode), fileInfo.Mode().Perm())
}

func TestGetSettingFallsBackToDefaults(testingHandle *testing.T) {
	settingsDirectory := testingHandle.TempDir()
	require.NoError(testingHandle, os.WriteFile(filepath.Join(settingsDirectory, "config.json"), []byte(`{"language":"ja"}`), 0o600))

	store := loadTestSettings(testingHandle, settingsDirectory)
	assert.Equal(testingHandle, "ja", store.GetSetting(SettingLanguage))
	assert.Equal(testingHandle, DefaultProvider, store.GetSetting(SettingProvider))
	assert.Equal(testingHandle, "", store.GetSetting("unknown_key"))
}

func TestSetSettingPersistsAcrossLoads(testingHandle *testing.T) {
	settingsDirectory := testingHandle.TempDir()
	store := loadTestSettings(testingHandle, settingsDirectory)
	require.NoError(testingHandle, store.SetSetting(SettingModel, "gemini-2.5-flash"))

	reloaded := loadTestSettings(testingHandle, settingsDirectory)
	assert.Equal(testingHandle, "gemini-2.5-flash", reloaded.GetSetting(SettingModel))
	assert.Equal(testingHandle, DefaultLanguage, reloaded.GetSetting(SettingLanguage))
}

func TestLoadSettingsRestoresCorruptFile(testingHandle *testing.T) {
	settingsDirectory := testingHandle.TempDir()
	settingsPath := filepath.Join(settingsDirectory, "config.json")
	require.NoError(testingHandle, os.WriteFile(settingsPath, []byte("{not json"), 0o600))

	observedCore, observedLogs := observer.New(zap.WarnLevel)
	store, loadError := LoadSettings(LoadOptions{Directory: settingsDirectory, Logger: zap.New(observedCore)})
	require.NoError(testingHandle, loadError)

	assert.Equal(testingHandle, DefaultProvider, store.GetSetting(SettingProvider))
	assert.Equal(testingHandle, 1, observedLogs.FilterMessage(corruptSettingsWarning).Len())
	assert.Equal(testingHandle, DefaultProvider, readSettingsFile(testingHandle, settingsPath)[SettingProvider])
}

func TestLoadSettingsRejectsDirectoryPath(testingHandle *testing.T) {
	settingsDirectory := testingHandle.TempDir()
	require.NoError(testingHandle, os.Mkdir(filepath.Join(settingsDirectory, "config.json"), 0o755))
	_, loadError := LoadSettings(LoadOptions{Directory: settingsDirectory})
	assert.Error(testingHandle, loadError)
}

func TestAPIKeyEnvironmentOverride(testingHandle *testing.T) {
	testingHandle.Setenv("OPENAI_API_KEY", "")
	testingHandle.Setenv("ANTHROPIC_API_KEY", "from-environment")

	store := loadTestSettings(testingHandle, testingHandle.TempDir())
	require.NoError(testingHandle, store.SetAPIKey("OpenAI", "stored-openai"))
	require.NoError(testingHandle, store.SetAPIKey("anthropic", "stored-anthropic"))

	assert.Equal(testingHandle, "stored-openai", store.APIKey("openai"))
	assert.Equal(testingHandle, "from-environment", store.APIKey("anthropic"))
	assert.Equal(testingHandle, "", store.APIKey(""))

	persistedKeys, ok := readSettingsFile(testingHandle, store.FilePath())[apiKeysSection].(map[string]any)
	require.True(testingHandle, ok)
	assert.Equal(testingHandle, "stored-openai", persistedKeys["openai"])
}

func TestSetAPIKeyRejectsEmptyProvider(testingHandle *testing.T) {
	store := loadTestSettings(testingHandle, testingHandle.TempDir())
	assert.ErrorIs(testingHandle, store.SetAPIKey("  ", "key"), ErrEmptyProvider)
}

func TestAPIKeyEnvironmentVariable(testingHandle *testing.T) {
	testCases := map[string]string{
		"openai":    "OPENAI_API_KEY",
		"anthropic": "ANTHROPIC_API_KEY",
		"gemini":    "GEMINI_API_KEY",
		"ollama":    "OLLAMA_API_KEY",
	}
	for providerName, expected := range testCases {
		assert.Equal(testingHandle, expected, APIKeyEnvironmentVariable(providerName))
	}
}

func TestDefaultSettingsDirectoryHonorsOverride(testingHandle *testing.T) {
	overrideDirectory := testingHandle.TempDir()
	testingHandle.Setenv(ConfigDirectoryEnvironmentVariable, overrideDirectory)
	settingsDirectory, directoryError := DefaultSettingsDirectory()
	require.NoError(testingHandle, directoryError)
	assert.Equal(testingHandle, overrideDirectory, settingsDirectory)

	homeDirectory := testingHandle.TempDir()
	testingHandle.Setenv(ConfigDirectoryEnvironmentVariable, "")
	testingHandle.Setenv("HOME", homeDirectory)
	settingsDirectory, directoryError = DefaultSettingsDirectory()
	require.NoError(testingHandle, directoryError)
	assert.Equal(testingHandle, filepath.Join(homeDirectory, ".config", "llmpack"), settingsDirectory)
}

func TestIsSupportedLanguage(testingHandle *testing.T) {
	assert.True(testingHandle, IsSupportedLanguage("en"))
	assert.True(testingHandle, IsSupportedLanguage("ja"))
	assert.False(testingHandle, IsSupportedLanguage("fr"))
	assert.False(testingHandle, IsSupportedLanguage(""))
}
