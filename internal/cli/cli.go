// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/llmpack/internal/config"
	"github.com/temirov/llmpack/internal/services/clipboard"
	"github.com/temirov/llmpack/internal/tokenizer"
	"github.com/temirov/llmpack/internal/utils"
)

const (
	verboseFlagName        = "verbose"
	verboseFlagShorthand   = "v"
	verboseFlagDescription = "enable verbose output"
	versionFlagName        = "version"
	versionFlagDescription = "display application version"
	versionTemplate        = "llmpack version: %s\n"
	rootUse                = "llmpack"
	rootShortDescription   = "Combine project files into one document or query an LLM about them"
	rootLongDescription    = `llmpack walks a project, honours every .gitignore it finds, and writes a markdown
document holding the directory tree and the content of each source file.
Run without a subcommand to combine the current directory into .llmpack_files.md.
Use query to send the combined project and a task to the configured LLM provider.`
	rootUsageExample = `  # Combine the current directory and copy the document to the clipboard
  llmpack

  # Ask the configured provider for a plan
  llmpack query "add pagination to the users endpoint"

  # Configure provider, model, API key, and language
  llmpack init`

	successMarker = "✓"
	failureMarker = "✗"

	errorLoadSettingsFormat = "load settings: %w"
)

// errVersionRequested stops command execution after the version has been printed.
var errVersionRequested = errors.New("version requested")

// Dependencies lets callers replace the process-wide collaborators of the commands.
// Zero values select the real terminal, clipboard, settings directory, and logger.
type Dependencies struct {
	Input       io.Reader
	Output      io.Writer
	ErrorOutput io.Writer
	Copier      clipboard.Copier
	// SettingsDirectory holds config.json; empty means config.DefaultSettingsDirectory.
	SettingsDirectory string
	// Logger replaces the logger built from --verbose.
	Logger *zap.Logger
	// NewTokenCounter builds the counter used by --tokens.
	NewTokenCounter func(tokenizer.Config) (tokenizer.Counter, string, error)
}

// application carries the state shared by all commands of one invocation.
type application struct {
	dependencies Dependencies
	verbose      bool
	showVersion  bool
	logger       *zap.Logger
	prompter     *prompter
}

// Execute runs the llmpack application with process arguments.
func Execute(ctx context.Context) error {
	rootCommand := NewRootCommand(Dependencies{})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return executeRootCommand(ctx, rootCommand)
}

func executeRootCommand(ctx context.Context, rootCommand *cobra.Command) error {
	executionError := rootCommand.ExecuteContext(ctx)
	if errors.Is(executionError, errVersionRequested) {
		return nil
	}
	return executionError
}

// NewRootCommand builds the root Cobra command and its subcommands.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	if dependencies.Input == nil {
		dependencies.Input = os.Stdin
	}
	if dependencies.Output == nil {
		dependencies.Output = os.Stdout
	}
	if dependencies.ErrorOutput == nil {
		dependencies.ErrorOutput = os.Stderr
	}
	if dependencies.Copier == nil {
		dependencies.Copier = clipboard.NewService()
	}
	if dependencies.NewTokenCounter == nil {
		dependencies.NewTokenCounter = tokenizer.NewCounter
	}
	app := &application{dependencies: dependencies}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return app.prepare()
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return app.runCombine(command.Context(), defaultCombineOptions())
		},
	}
	rootCommand.SetIn(dependencies.Input)
	rootCommand.SetOut(dependencies.Output)
	rootCommand.SetErr(dependencies.ErrorOutput)
	rootCommand.PersistentFlags().BoolVarP(&app.verbose, verboseFlagName, verboseFlagShorthand, false, verboseFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&app.showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		app.createCombineCommand(),
		app.createQueryCommand(),
		app.createInitCommand(),
		app.createSetAPIKeyCommand(),
		app.createSetModelCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// prepare prints the version when requested and builds the logger.
func (app *application) prepare() error {
	if app.showVersion {
		app.printf(versionTemplate, utils.GetApplicationVersion())
		return errVersionRequested
	}
	if app.dependencies.Logger != nil {
		app.logger = app.dependencies.Logger
	} else {
		logger, loggerError := utils.NewApplicationLogger(app.verbose)
		if loggerError != nil {
			return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
		}
		app.logger = logger
	}
	app.prompter = newPrompter(app.dependencies.Input, app.dependencies.Output)
	return nil
}

func (app *application) loadSettings() (*config.SettingsStore, error) {
	store, loadError := config.LoadSettings(config.LoadOptions{
		Directory: app.dependencies.SettingsDirectory,
		Logger:    app.logger,
	})
	if loadError != nil {
		return nil, fmt.Errorf(errorLoadSettingsFormat, loadError)
	}
	return store, nil
}

func (app *application) printf(format string, arguments ...any) {
	fmt.Fprintf(app.dependencies.Output, format, arguments...)
}

func (app *application) println(line string) {
	fmt.Fprintln(app.dependencies.Output, line)
}

func (app *application) succeed(format string, arguments ...any) {
	app.printf(successMarker+" "+format+"\n", arguments...)
}

func (app *application) fail(format string, arguments ...any) {
	app.printf(failureMarker+" "+format+"\n", arguments...)
}
