package llm

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingGenerator struct {
	systemPrompt string
	userPrompt   string
	response     string
	err          error
}

func (generator *recordingGenerator) Generate(_ context.Context, systemPrompt string, userPrompt string) (string, error) {
	generator.systemPrompt = systemPrompt
	generator.userPrompt = userPrompt
	return generator.response, generator.err
}

func TestBuildPrompts(testingHandle *testing.T) {
	assert.Equal(testingHandle, "You are a helpful AI assistant. Respond in ja.", BuildSystemPrompt("ja"))
	assert.Equal(testingHandle,
		"Do this:\n\nfix the bug\n\nHere is the combined code from the project:\n\nDOC",
		BuildUserPrompt("Do this:", "fix the bug", "DOC"),
	)
}

func TestRunQuerySendsCombinedDocument(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	require.NoError(testingHandle, os.WriteFile(filepath.Join(rootDirectory, "main.py"), []byte("print('hi')\n"), 0o644))
	require.NoError(testingHandle, os.WriteFile(filepath.Join(rootDirectory, "old.md"), []byte("previous output\n"), 0o644))

	generator := &recordingGenerator{response: "step 1"}
	result, queryError := RunQuery(context.Background(), generator, QueryOptions{
		RootDirectory:     rootDirectory,
		Task:              "  explain  ",
		Language:          "en",
		InstructionPrompt: "Create a step-by-step work procedure for the following task:",
		ExcludedPaths:     []string{filepath.Join(rootDirectory, "old.md")},
		Provider:          ProviderGemini,
	})
	require.NoError(testingHandle, queryError)
	assert.Equal(testingHandle, "step 1", result.Response)
	assert.Equal(testingHandle, 1, result.Document.IncludedFiles)

	assert.Equal(testingHandle, "You are a helpful AI assistant. Respond in en.", generator.systemPrompt)
	expectedLead := "Create a step-by-step work procedure for the following task:\n\nexplain\n\nHere is the combined code from the project:\n\n"
	require.True(testingHandle, strings.HasPrefix(generator.userPrompt, expectedLead))
	document := strings.TrimPrefix(generator.userPrompt, expectedLead)
	assert.True(testingHandle, strings.HasPrefix(document, "\n# Directory Structure\n<content>\n└── ./\n"))
	assert.Contains(testingHandle, document, "\n\n# main.py\n<content>\nprint('hi')\n\n</content>\n")
	assert.NotContains(testingHandle, document, "previous output")
	assert.Equal(testingHandle, len([]rune(document)), result.Document.CharacterCount)
}

func TestRunQueryRejectsEmptyTask(testingHandle *testing.T) {
	generator := &recordingGenerator{}
	_, queryError := RunQuery(context.Background(), generator, QueryOptions{RootDirectory: testingHandle.TempDir(), Task: " \n"})
	assert.ErrorIs(testingHandle, queryError, ErrEmptyTask)
	assert.Empty(testingHandle, generator.userPrompt)
}

func TestRunQueryWrapsProviderFailure(testingHandle *testing.T) {
	providerFailure := errors.New("quota exceeded")
	generator := &recordingGenerator{err: providerFailure}
	_, queryError := RunQuery(context.Background(), generator, QueryOptions{
		RootDirectory: testingHandle.TempDir(),
		Task:          "task",
		Provider:      ProviderOpenAI,
	})
	assert.ErrorIs(testingHandle, queryError, providerFailure)
	assert.Contains(testingHandle, queryError.Error(), "openai")
}

func TestRunQueryFailsForMissingDirectory(testingHandle *testing.T) {
	generator := &recordingGenerator{}
	_, queryError := RunQuery(context.Background(), generator, QueryOptions{
		RootDirectory: filepath.Join(testingHandle.TempDir(), "missing"),
		Task:          "task",
	})
	assert.ErrorIs(testingHandle, queryError, os.ErrNotExist)
	assert.Empty(testingHandle, generator.userPrompt)
}
