package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/llmpack/internal/commands"
)

const (
	systemPromptFormat = "You are a helpful AI assistant. Respond in %s."
	userPromptFormat   = "%s\n\n%s\n\nHere is the combined code from the project:\n\n%s"

	errorCombineProjectFormat = "combine project for query: %w"
	errorQueryProviderFormat  = "query %s: %w"
)

// ErrEmptyTask is returned when a query has no task text.
var ErrEmptyTask = errors.New("task cannot be empty")

// QueryOptions describes one query run.
type QueryOptions struct {
	RootDirectory     string
	Task              string
	Language          string
	InstructionPrompt string
	// ExcludedPaths are left out of the combined document.
	ExcludedPaths []string
	// Provider is only used in log and error messages.
	Provider ProviderKind
	Logger   *zap.Logger
}

// QueryResult carries the provider's answer and the size of the document sent with it.
type QueryResult struct {
	Response string
	Document commands.CombineResult
}

// BuildSystemPrompt asks for answers in language.
func BuildSystemPrompt(language string) string {
	return fmt.Sprintf(systemPromptFormat, language)
}

// BuildUserPrompt places the instruction, the task, and the combined document in one message.
func BuildUserPrompt(instructionPrompt string, task string, combinedDocument string) string {
	return fmt.Sprintf(userPromptFormat, instructionPrompt, task, combinedDocument)
}

// RunQuery combines the project in memory and sends it with the task to generator.
func RunQuery(ctx context.Context, generator Generator, options QueryOptions) (QueryResult, error) {
	task := strings.TrimSpace(options.Task)
	if task == "" {
		return QueryResult{}, ErrEmptyTask
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var documentBuilder strings.Builder
	combineResult, combineError := commands.Combine(ctx, &documentBuilder, commands.CombineOptions{
		RootDirectory: options.RootDirectory,
		ExcludedPaths: options.ExcludedPaths,
		Logger:        logger,
	})
	if combineError != nil {
		return QueryResult{}, fmt.Errorf(errorCombineProjectFormat, combineError)
	}

	logger.Info("Querying provider", zap.String("provider", string(options.Provider)), zap.Int("characters", combineResult.CharacterCount))
	response, generateError := generator.Generate(
		ctx,
		BuildSystemPrompt(options.Language),
		BuildUserPrompt(options.InstructionPrompt, task, documentBuilder.String()),
	)
	if generateError != nil {
		return QueryResult{Document: combineResult}, fmt.Errorf(errorQueryProviderFormat, options.Provider, generateError)
	}
	return QueryResult{Response: response, Document: combineResult}, nil
}
