package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/llmpack/internal/config"
	"github.com/temirov/llmpack/internal/llm"
)

const (
	initUse                    = "init"
	initShortDescription       = "Initialize LLMPack settings and API keys"
	setAPIKeyUse               = "set-api-key"
	setAPIKeyShortDescription  = "Set or update API key for an LLM provider"
	setModelUse                = "set-model"
	setModelShortDescription   = "Set or update the model for the current LLM provider"
	recommendedProviderSuffix  = " [recommended]"
	providerChoiceFormat       = "%d. %s%s\n"
	modelChoiceFormat          = "%d. %s - %s\n"
	defaultChoicePromptFormat  = "Enter choice (1-%d, default 1): "
	requiredChoicePromptFormat = "Enter choice (1-%d): "
	languagePrompt             = "Select language (en/ja, default en): "
	errorReadAnswerFormat      = "read answer: %w"
)

// apiKeyProviders are the providers offered by set-api-key.
var apiKeyProviders = []llm.ProviderKind{llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderGemini}

// createInitCommand returns the interactive init subcommand.
func (app *application) createInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return app.runInit()
		},
	}
}

// createSetAPIKeyCommand returns the interactive set-api-key subcommand.
func (app *application) createSetAPIKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   setAPIKeyUse,
		Short: setAPIKeyShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return app.runSetAPIKey()
		},
	}
}

// createSetModelCommand returns the interactive set-model subcommand.
func (app *application) createSetModelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   setModelUse,
		Short: setModelShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return app.runSetModel()
		},
	}
}

// runInit asks for provider, model, API key, and language, then saves all answers at once.
func (app *application) runInit() error {
	settings, settingsError := app.loadSettings()
	if settingsError != nil {
		return settingsError
	}

	app.println("LLMPack Initialization")
	app.println("Let's set up your LLM provider and API keys.")

	providers := llm.SupportedProviders()
	app.println("\nSelect LLM provider (default: Gemini recommended for large token capacity):")
	for providerIndex, provider := range providers {
		suffix := ""
		if provider == llm.ProviderGemini {
			suffix = recommendedProviderSuffix
		}
		app.printf(providerChoiceFormat, providerIndex+1, provider.DisplayName(), suffix)
	}
	providerIndex, validProvider, readError := app.prompter.readChoice(fmt.Sprintf(defaultChoicePromptFormat, len(providers)), len(providers), 0)
	if readError != nil {
		return fmt.Errorf(errorReadAnswerFormat, readError)
	}
	if !validProvider {
		providerIndex = 0
	}
	selection := config.InitSelection{Provider: string(providers[providerIndex])}
	selectedProvider := providers[providerIndex]
	app.succeed("LLM provider set to %s", selectedProvider.DisplayName())

	models := llm.ModelsForProvider(selectedProvider)
	app.println("\nSelect model:")
	app.printModels(models)
	modelIndex, validModel, readError := app.prompter.readChoice(fmt.Sprintf(defaultChoicePromptFormat, len(models)), len(models), 0)
	if readError != nil {
		return fmt.Errorf(errorReadAnswerFormat, readError)
	}
	if !validModel {
		modelIndex = 0
	}
	selection.Model = models[modelIndex].ID
	app.succeed("Model set to %s", selection.Model)

	if selectedProvider.RequiresAPIKey() {
		apiKey, keyError := app.askAPIKey(selectedProvider, "leave blank to use environment variable or skip")
		if keyError != nil {
			return keyError
		}
		selection.APIKey = apiKey
		environmentVariable := config.APIKeyEnvironmentVariable(string(selectedProvider))
		switch {
		case apiKey != "":
			app.succeed("API key for %s saved", selectedProvider.DisplayName())
		case os.Getenv(environmentVariable) != "":
			app.succeed("Using API key from environment variable %s", environmentVariable)
		default:
			app.printf("! API key for %s not provided. You can set it later with 'llmpack set-api-key'.\n", selectedProvider.DisplayName())
		}
	}

	languageAnswer, readError := app.prompter.readLine(languagePrompt)
	if readError != nil {
		return fmt.Errorf(errorReadAnswerFormat, readError)
	}
	selection.Language = strings.ToLower(strings.TrimSpace(languageAnswer))
	if !config.IsSupportedLanguage(selection.Language) {
		selection.Language = config.DefaultLanguage
	}

	if applyError := settings.ApplyInitSelection(selection); applyError != nil {
		return applyError
	}
	app.succeed("Language set to %s", selection.Language)
	app.println("")
	app.succeed("Initialization complete! You can now use 'llmpack query' to interact with the LLM.")
	return nil
}

// runSetAPIKey stores a new key for one provider.
func (app *application) runSetAPIKey() error {
	settings, settingsError := app.loadSettings()
	if settingsError != nil {
		return settingsError
	}

	app.println("Set API Key for LLM Provider")
	app.println("Select provider:")
	for providerIndex, provider := range apiKeyProviders {
		app.printf(providerChoiceFormat, providerIndex+1, provider.DisplayName(), "")
	}
	providerIndex, validProvider, readError := app.prompter.readChoice(fmt.Sprintf(requiredChoicePromptFormat, len(apiKeyProviders)), len(apiKeyProviders), -1)
	if readError != nil {
		return fmt.Errorf(errorReadAnswerFormat, readError)
	}
	if !validProvider {
		app.fail("Invalid provider selection")
		return nil
	}
	selectedProvider := apiKeyProviders[providerIndex]

	apiKey, keyError := app.askAPIKey(selectedProvider, "leave blank to use environment variable")
	if keyError != nil {
		return keyError
	}
	environmentVariable := config.APIKeyEnvironmentVariable(string(selectedProvider))
	switch {
	case apiKey != "":
		if setError := settings.SetAPIKey(string(selectedProvider), apiKey); setError != nil {
			return setError
		}
		app.succeed("API key for %s updated", selectedProvider.DisplayName())
	case os.Getenv(environmentVariable) != "":
		app.succeed("Using API key from environment variable %s", environmentVariable)
	default:
		app.fail("API key cannot be empty and no environment variable found")
	}
	return nil
}

// runSetModel selects a model of the stored provider.
func (app *application) runSetModel() error {
	settings, settingsError := app.loadSettings()
	if settingsError != nil {
		return settingsError
	}

	app.println("Set Model for LLM Provider")
	currentProvider, parseError := llm.ParseProviderKind(settings.GetSetting(config.SettingProvider))
	if parseError != nil {
		app.fail("No LLM provider set. Please run 'llmpack init' first.")
		return parseError
	}
	app.printf("Current provider: %s\n", currentProvider.DisplayName())

	models := llm.ModelsForProvider(currentProvider)
	app.println("\nAvailable models:")
	app.printModels(models)
	modelIndex, validModel, readError := app.prompter.readChoice(fmt.Sprintf(requiredChoicePromptFormat, len(models)), len(models), -1)
	if readError != nil {
		return fmt.Errorf(errorReadAnswerFormat, readError)
	}
	if !validModel {
		app.fail("Invalid selection")
		return nil
	}
	selectedModel := models[modelIndex].ID
	if setError := settings.SetSetting(config.SettingModel, selectedModel); setError != nil {
		return setError
	}
	app.succeed("Model set to %s", selectedModel)
	return nil
}

func (app *application) printModels(models []llm.Model) {
	for modelIndex, model := range models {
		app.printf(modelChoiceFormat, modelIndex+1, model.Name, model.Description)
	}
}

// askAPIKey announces an API key found in the environment and reads a new key without echo.
func (app *application) askAPIKey(provider llm.ProviderKind, blankHint string) (string, error) {
	environmentVariable := config.APIKeyEnvironmentVariable(string(provider))
	if os.Getenv(environmentVariable) != "" {
		app.succeed("API key found in environment variable %s", environmentVariable)
		app.println("You can leave the input blank to use the environment variable.")
	}
	apiKey, readError := app.prompter.readSecret(fmt.Sprintf("Enter API key for %s (%s): ", provider.DisplayName(), blankHint))
	if readError != nil {
		return "", fmt.Errorf(errorReadAnswerFormat, readError)
	}
	return strings.TrimSpace(apiKey), nil
}
