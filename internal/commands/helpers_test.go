package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/llmpack/internal/gitignore"
)

// writeTestFile creates a file and any missing parent directories.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	require.NoError(testingHandle, os.MkdirAll(filepath.Dir(filePath), 0o755))
	require.NoError(testingHandle, os.WriteFile(filePath, []byte(content), 0o644))
}

// makeTestDirectory creates a directory and its parents.
func makeTestDirectory(testingHandle *testing.T, directoryPath string) {
	testingHandle.Helper()
	require.NoError(testingHandle, os.MkdirAll(directoryPath, 0o755))
}

// discoverStore loads the ignore scopes below rootDirectory.
func discoverStore(testingHandle *testing.T, rootDirectory string) *gitignore.Store {
	testingHandle.Helper()
	store, discoverError := gitignore.Discover(context.Background(), rootDirectory, nil)
	require.NoError(testingHandle, discoverError)
	return store
}

// numberedLines returns lineCount newline-terminated lines.
func numberedLines(lineCount int) string {
	var lineBuilder strings.Builder
	for lineIndex := 0; lineIndex < lineCount; lineIndex++ {
		lineBuilder.WriteString("line\n")
	}
	return lineBuilder.String()
}

// treeDocument wraps tree body lines in the directory structure envelope.
func treeDocument(bodyLines ...string) string {
	return "# Directory Structure\n<content>\n" + strings.Join(bodyLines, "\n") + "\n</content>\n"
}
