package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/llmpack/internal/commands"
	"github.com/temirov/llmpack/internal/services/clipboard"
	"github.com/temirov/llmpack/internal/tokenizer"
	"github.com/temirov/llmpack/internal/utils"
)

const (
	combineUse              = "combine [directory]"
	combineShortDescription = "Combine code files into a single markdown document"
	combineLongDescription  = `Write the directory tree and every selected source file of a project to one markdown file.
Files and directories matched by any .gitignore are left out, as are node_modules, .venv, build, dist, Pods, and .git.
Files longer than 1000 lines are listed with a placeholder instead of their content.`
	combineUsageExample = `  # Combine the current directory
  llmpack combine

  # Prefix every file with an instruction and write elsewhere
  llmpack combine ./service -p "Review this code" -o review.md

  # Print a token estimate and keep the clipboard untouched
  llmpack combine --tokens --no-clipboard`

	prefixFlagName               = "prefix"
	prefixFlagShorthand          = "p"
	prefixFlagDescription        = "text to add at the beginning of the document and of each file"
	outputFlagName               = "output"
	outputFlagShorthand          = "o"
	combineOutputFlagDescription = "output file path"
	noClipboardFlagName          = "no-clipboard"
	noClipboardFlagDescription   = "disable copying to clipboard"
	tokensFlagName               = "tokens"
	tokensFlagDescription        = "print an estimated token count of the document"
	tokensModelFlagName          = "tokens-model"
	tokensModelFlagDescription   = "tokenizer model used for the token estimate"
	defaultTokenizerModelName    = "gpt-4o"
	defaultDirectory             = "."

	combinedDocumentLabel       = "combined document"
	createdDocumentFormat       = "Created %s"
	totalCharactersFormat       = "Total characters: %s\n"
	estimatedTokensFormat       = "Estimated tokens (%s): %s\n"
	copiedDocumentMessage       = "Content copied to clipboard"
	failedCopyMessage           = "Failed to copy to clipboard"
	warningTokenCountFormat     = "count tokens for %s: %w"
	errorReadCombinedFileFormat = "read %s for clipboard: %w"
)

type combineOptions struct {
	directory   string
	prefix      string
	output      string
	noClipboard bool
	tokens      bool
	tokensModel string
}

func defaultCombineOptions() combineOptions {
	return combineOptions{
		directory:   defaultDirectory,
		output:      utils.DefaultOutputFileName,
		tokensModel: defaultTokenizerModelName,
	}
}

// createCombineCommand returns the combine subcommand.
func (app *application) createCombineCommand() *cobra.Command {
	options := defaultCombineOptions()

	combineCommand := &cobra.Command{
		Use:     combineUse,
		Short:   combineShortDescription,
		Long:    combineLongDescription,
		Example: combineUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) == 1 {
				options.directory = arguments[0]
			}
			return app.runCombine(command.Context(), options)
		},
	}

	combineCommand.Flags().StringVarP(&options.prefix, prefixFlagName, prefixFlagShorthand, "", prefixFlagDescription)
	combineCommand.Flags().StringVarP(&options.output, outputFlagName, outputFlagShorthand, utils.DefaultOutputFileName, combineOutputFlagDescription)
	registerBooleanFlag(combineCommand.Flags(), &options.noClipboard, noClipboardFlagName, false, noClipboardFlagDescription)
	registerBooleanFlag(combineCommand.Flags(), &options.tokens, tokensFlagName, false, tokensFlagDescription)
	combineCommand.Flags().StringVar(&options.tokensModel, tokensModelFlagName, defaultTokenizerModelName, tokensModelFlagDescription)
	return combineCommand
}

// runCombine writes the document, copies it to the clipboard, and prints the summary.
func (app *application) runCombine(ctx context.Context, options combineOptions) error {
	result, combineError := commands.CombineToFile(ctx, options.output, commands.CombineOptions{
		RootDirectory: options.directory,
		Prefix:        options.prefix,
		Logger:        app.logger,
	})
	if combineError != nil {
		return combineError
	}
	app.logger.Debug("Combined project",
		zap.Int("files", result.IncludedFiles),
		zap.Int("skipped", result.SkippedFiles),
		zap.Int("gitignore_files", result.IgnoreScopes),
	)

	if !options.noClipboard {
		if copyError := app.copyFile(options.output); copyError != nil {
			app.fail(failedCopyMessage)
		} else {
			app.succeed(copiedDocumentMessage)
		}
	}

	app.succeed(createdDocumentFormat, options.output)
	app.printf(totalCharactersFormat, humanize.Comma(int64(result.CharacterCount)))

	if options.tokens {
		app.printTokenEstimate(options.output, options.tokensModel)
	}
	return nil
}

func (app *application) copyFile(filePath string) error {
	// #nosec G304
	documentBytes, readError := os.ReadFile(filePath)
	if readError != nil {
		app.logger.Warn(failedCopyMessage, zap.String("path", filePath), zap.Error(readError))
		return fmt.Errorf(errorReadCombinedFileFormat, filePath, readError)
	}
	return clipboard.CopyWithReport(app.dependencies.Copier, string(documentBytes), combinedDocumentLabel, app.logger)
}

// printTokenEstimate reports the token count of filePath. Failures are logged, never fatal.
func (app *application) printTokenEstimate(filePath string, model string) {
	counter, encodingName, counterError := app.dependencies.NewTokenCounter(tokenizer.Config{Model: model})
	if counterError != nil {
		app.logger.Warn("Token estimate unavailable", zap.Error(counterError))
		return
	}
	countResult, countError := tokenizer.CountFile(counter, filePath)
	if countError != nil {
		app.logger.Warn("Token estimate unavailable", zap.Error(fmt.Errorf(warningTokenCountFormat, filePath, countError)))
		return
	}
	if !countResult.Counted {
		app.logger.Warn("Token estimate unavailable for non UTF-8 document", zap.String("path", filePath))
		return
	}
	app.printf(estimatedTokensFormat, encodingName, humanize.Comma(int64(countResult.Tokens)))
}
