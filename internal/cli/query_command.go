package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/llmpack/internal/config"
	"github.com/temirov/llmpack/internal/llm"
	"github.com/temirov/llmpack/internal/services/clipboard"
	"github.com/temirov/llmpack/internal/utils"
)

const (
	queryUse              = "query [task]"
	queryShortDescription = "Query an LLM with a task"
	queryLongDescription  = `Combine the project in memory and send it, together with the task and the configured
instruction prompt, to the selected LLM provider. The answer is written to .llmpack_result,
printed, and copied to the clipboard. --model and --lang are saved as the new defaults.`
	queryUsageExample = `  # Ask the configured provider
  llmpack query "write unit tests for the parser"

  # Use a different provider for one query
  llmpack query --provider ollama "explain the build pipeline"

  # Answer in Japanese and save the result elsewhere
  llmpack query --lang ja -o plan.md "migrate to the new API"`

	providerFlagName           = "provider"
	providerFlagDescription    = "LLM provider to use (openai, anthropic, gemini, ollama)"
	modelFlagName              = "model"
	modelFlagDescription       = "LLM model to use; saved as the default"
	languageFlagName           = "lang"
	languageFlagDescription    = "language for the response (en, ja); saved as the default"
	directoryFlagName          = "directory"
	directoryFlagDescription   = "project directory to combine"
	queryOutputFlagDescription = "output file path for the query result"

	taskPrompt             = "Enter your task or question for the LLM: "
	queryResultLabel       = "query result"
	resultSavedFormat      = "Result saved to %s"
	responseHeading        = "\nLLM Response:\n"
	copiedResultMessage    = "Result copied to clipboard"
	resultFileMode         = 0o644
	errorUnsupportedLang   = "unsupported language %q: choose one of %s"
	errorSaveSettingFormat = "save %s: %w"
	errorWriteResultFormat = "write result to %s: %w"
	errorReadTaskFormat    = "read task: %w"
)

type queryOptions struct {
	provider    string
	model       string
	language    string
	output      string
	directory   string
	noClipboard bool
}

// createQueryCommand returns the query subcommand.
func (app *application) createQueryCommand() *cobra.Command {
	options := queryOptions{output: utils.DefaultResultFileName, directory: defaultDirectory}

	queryCommand := &cobra.Command{
		Use:     queryUse,
		Short:   queryShortDescription,
		Long:    queryLongDescription,
		Example: queryUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			task := ""
			if len(arguments) == 1 {
				task = arguments[0]
			}
			return app.runQuery(command.Context(), task, options)
		},
	}

	queryCommand.Flags().StringVar(&options.provider, providerFlagName, "", providerFlagDescription)
	queryCommand.Flags().StringVar(&options.model, modelFlagName, "", modelFlagDescription)
	queryCommand.Flags().StringVar(&options.language, languageFlagName, "", languageFlagDescription)
	queryCommand.Flags().StringVarP(&options.output, outputFlagName, outputFlagShorthand, utils.DefaultResultFileName, queryOutputFlagDescription)
	queryCommand.Flags().StringVar(&options.directory, directoryFlagName, defaultDirectory, directoryFlagDescription)
	registerBooleanFlag(queryCommand.Flags(), &options.noClipboard, noClipboardFlagName, false, noClipboardFlagDescription)
	return queryCommand
}

// runQuery resolves the provider, sends the task, and stores the answer.
func (app *application) runQuery(ctx context.Context, task string, options queryOptions) error {
	task = strings.TrimSpace(task)
	if task == "" {
		enteredTask, readError := app.prompter.readLine(taskPrompt)
		if readError != nil {
			return fmt.Errorf(errorReadTaskFormat, readError)
		}
		task = strings.TrimSpace(enteredTask)
	}
	if task == "" {
		app.fail("Task cannot be empty")
		return llm.ErrEmptyTask
	}

	settings, settingsError := app.loadSettings()
	if settingsError != nil {
		return settingsError
	}
	if persistError := persistQueryOverrides(settings, options); persistError != nil {
		return persistError
	}

	selection, resolveError := llm.ResolveProvider(settings, options.provider, options.model)
	if resolveError != nil {
		return resolveError
	}
	if selection.Provider.RequiresAPIKey() && os.Getenv(config.APIKeyEnvironmentVariable(string(selection.Provider))) != "" {
		app.logger.Info("Using API key from environment variable", zap.String("variable", config.APIKeyEnvironmentVariable(string(selection.Provider))))
	}
	app.logger.Info("Initializing provider", zap.String("provider", string(selection.Provider)), zap.String("model", selection.Model))

	generator, generatorError := llm.NewGenerator(llm.ProviderOptions{
		Kind:   selection.Provider,
		Model:  selection.Model,
		APIKey: selection.APIKey,
	})
	if generatorError != nil {
		return generatorError
	}

	queryResult, queryError := llm.RunQuery(ctx, generator, llm.QueryOptions{
		RootDirectory:     options.directory,
		Task:              task,
		Language:          settings.GetSetting(config.SettingLanguage),
		InstructionPrompt: settings.GetSetting(config.SettingInstructionPrompt),
		ExcludedPaths:     queryExcludedPaths(options),
		Provider:          selection.Provider,
		Logger:            app.logger,
	})
	if queryError != nil {
		app.fail("Failed to get response from LLM")
		return queryError
	}

	if writeError := os.WriteFile(options.output, []byte(queryResult.Response), resultFileMode); writeError != nil {
		return fmt.Errorf(errorWriteResultFormat, options.output, writeError)
	}
	app.succeed(resultSavedFormat, options.output)
	app.println(responseHeading)
	app.println(queryResult.Response)

	if !options.noClipboard {
		if copyError := clipboard.CopyWithReport(app.dependencies.Copier, queryResult.Response, queryResultLabel, app.logger); copyError != nil {
			app.fail(failedCopyMessage)
		} else {
			app.succeed(copiedResultMessage)
		}
	}
	return nil
}

// persistQueryOverrides saves --lang and --model before the query runs.
func persistQueryOverrides(settings *config.SettingsStore, options queryOptions) error {
	if language := strings.TrimSpace(options.language); language != "" {
		if !config.IsSupportedLanguage(language) {
			return fmt.Errorf(errorUnsupportedLang, language, strings.Join(config.SupportedLanguages, ", "))
		}
		if setError := settings.SetSetting(config.SettingLanguage, language); setError != nil {
			return fmt.Errorf(errorSaveSettingFormat, config.SettingLanguage, setError)
		}
	}
	if model := strings.TrimSpace(options.model); model != "" {
		if setError := settings.SetSetting(config.SettingModel, model); setError != nil {
			return fmt.Errorf(errorSaveSettingFormat, config.SettingModel, setError)
		}
	}
	return nil
}

// queryExcludedPaths keeps earlier llmpack output out of the document sent to the provider.
func queryExcludedPaths(options queryOptions) []string {
	candidates := []string{filepath.Join(options.directory, utils.DefaultOutputFileName), options.output}
	excludedPaths := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if absolutePath, absoluteError := filepath.Abs(candidate); absoluteError == nil {
			excludedPaths = append(excludedPaths, absolutePath)
		}
	}
	return excludedPaths
}
