package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/llmpack/internal/commands"
	"github.com/temirov/llmpack/internal/gitignore"
)

func combineToString(testingHandle *testing.T, options commands.CombineOptions) (string, commands.CombineResult) {
	testingHandle.Helper()
	var documentBuilder strings.Builder
	result, combineError := commands.Combine(context.Background(), &documentBuilder, options)
	require.NoError(testingHandle, combineError)
	return documentBuilder.String(), result
}

func TestCombineEmptyProject(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()

	document, result := combineToString(testingHandle, commands.CombineOptions{RootDirectory: rootDirectory})

	expected := "\n" + treeDocument("└── ./") + "\n"
	assert.Equal(testingHandle, expected, document)
	assert.Equal(testingHandle, utf8.RuneCountInString(expected), result.CharacterCount)
	assert.Zero(testingHandle, result.IncludedFiles)
	assert.Zero(testingHandle, result.SkippedFiles)
}

func TestCombineDocumentLayoutWithPrefix(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "README.md"), "hello")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "a", "x.py"), "print(1)\n")

	document, result := combineToString(testingHandle, commands.CombineOptions{RootDirectory: rootDirectory, Prefix: "P"})

	expected := "P\n\n" +
		"\n" + treeDocument(
		"└── ./",
		"    ├── a/",
		"    │   └── x.py",
		"    └── README.md",
	) + "\n" +
		"# README.md\n<content>\nhello\n</content>\n" +
		"\n\n# README.md\n<content>\nP\n\nhello\n</content>\n" +
		"\n\n# a/x.py\n<content>\nP\n\nprint(1)\n\n</content>\n"
	assert.Equal(testingHandle, expected, document)
	assert.Equal(testingHandle, 2, result.IncludedFiles)
	assert.Equal(testingHandle, utf8.RuneCountInString(expected), result.CharacterCount)
}

func TestCombineManifestSections(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "package.json"), "{}")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "pyproject.toml"), "[project]")

	document, _ := combineToString(testingHandle, commands.CombineOptions{RootDirectory: rootDirectory})

	manifests := "\n\n# package.json\n<content>\n{}\n</content>\n" +
		"\n\n# pyproject.toml\n<content>\n[project]\n</content>\n"
	treeEnd := "</content>\n\n"
	require.Contains(testingHandle, document, treeEnd+manifests)
	assert.NotContains(testingHandle, document, "# README.md")
}

func TestCombineSkippedPlaceholder(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "b", "big.py"), numberedLines(1500))

	document, result := combineToString(testingHandle, commands.CombineOptions{RootDirectory: rootDirectory})

	assert.Contains(testingHandle, document, "\n\n# b/big.py\n<skipped - 1500 lines (exceeds 1000 line limit)>\n")
	assert.Contains(testingHandle, document, "        └── big.py\n")
	assert.Equal(testingHandle, 1, result.SkippedFiles)
	assert.Zero(testingHandle, result.IncludedFiles)
	assert.Equal(testingHandle, "<skipped - 1001 lines (exceeds 1000 line limit)>\n", commands.FormatSkippedEntry(1001, commands.MaxContentLines))
}

func TestCombineNodeModulesNeverAppears(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "node_modules", "lib", "index.js"), "exports.x = 1\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "main.js"), "run()\n")

	document, _ := combineToString(testingHandle, commands.CombineOptions{RootDirectory: rootDirectory})

	assert.NotContains(testingHandle, document, "node_modules")
	assert.NotContains(testingHandle, document, "index.js")
	assert.Contains(testingHandle, document, "# main.js\n")
}

// A negated file pattern does not revive a file below an ignored directory, so every
// file section has a matching tree line.
func TestCombineIgnoredDirectoryHidesNegatedFile(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, ".gitignore"), "logs/\n!logs/keep.py\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "logs", "keep.py"), "kept = True\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "app.py"), "run()\n")

	document, result := combineToString(testingHandle, commands.CombineOptions{RootDirectory: rootDirectory})

	assert.NotContains(testingHandle, document, "logs")
	assert.NotContains(testingHandle, document, "keep.py")
	assert.Contains(testingHandle, document, "\n\n# app.py\n<content>\nrun()\n\n</content>\n")
	assert.Equal(testingHandle, 1, result.IncludedFiles)
}

func TestCombineSelfIgnoringCacheDirectoryIsAbsent(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, ".mypy_cache", ".gitignore"), "*\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, ".mypy_cache", "3.12", "app.data.json"), "{}")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "app.py"), "run()\n")

	document, result := combineToString(testingHandle, commands.CombineOptions{RootDirectory: rootDirectory})

	assert.NotContains(testingHandle, document, ".mypy_cache")
	assert.NotContains(testingHandle, document, "app.data.json")
	assert.Equal(testingHandle, 1, result.IncludedFiles)
}

func TestCombineToFileMissingRootCreatesNoOutput(testingHandle *testing.T) {
	outputPath := filepath.Join(testingHandle.TempDir(), ".llmpack_files.md")

	_, combineError := commands.CombineToFile(context.Background(), outputPath, commands.CombineOptions{
		RootDirectory: filepath.Join(testingHandle.TempDir(), "missing"),
	})
	assert.ErrorIs(testingHandle, combineError, os.ErrNotExist)
	_, statError := os.Stat(outputPath)
	assert.ErrorIs(testingHandle, statError, os.ErrNotExist)
}

func TestCombineToFileRejectsFileRoot(testingHandle *testing.T) {
	rootFile := filepath.Join(testingHandle.TempDir(), "main.go")
	writeTestFile(testingHandle, rootFile, "package main\n")
	outputPath := filepath.Join(testingHandle.TempDir(), ".llmpack_files.md")

	_, combineError := commands.CombineToFile(context.Background(), outputPath, commands.CombineOptions{RootDirectory: rootFile})
	assert.ErrorIs(testingHandle, combineError, gitignore.ErrRootNotDirectory)
	_, statError := os.Stat(outputPath)
	assert.ErrorIs(testingHandle, statError, os.ErrNotExist)
}

func TestCombineWritesWindowsLineEndingsAsNewlines(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "app.py"), "a = 1\r\nb = 2\r\n")

	document, _ := combineToString(testingHandle, commands.CombineOptions{RootDirectory: rootDirectory})

	assert.Contains(testingHandle, document, "\n\n# app.py\n<content>\na = 1\nb = 2\n\n</content>\n")
	assert.NotContains(testingHandle, document, "\r")
}

func TestCombineRejectsMissingRoot(testingHandle *testing.T) {
	var documentBuilder strings.Builder
	_, combineError := commands.Combine(context.Background(), &documentBuilder, commands.CombineOptions{
		RootDirectory: filepath.Join(testingHandle.TempDir(), "missing"),
	})
	assert.ErrorIs(testingHandle, combineError, os.ErrNotExist)
}

func TestCombineToFileExcludesItsOwnOutput(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "main.go"), "package main\n")
	outputPath := filepath.Join(rootDirectory, ".llmpack_files.md")
	writeTestFile(testingHandle, outputPath, "stale document\n")

	result, combineError := commands.CombineToFile(context.Background(), outputPath, commands.CombineOptions{RootDirectory: rootDirectory})
	require.NoError(testingHandle, combineError)

	writtenBytes, readError := os.ReadFile(outputPath)
	require.NoError(testingHandle, readError)
	writtenDocument := string(writtenBytes)
	assert.NotContains(testingHandle, writtenDocument, "stale document")
	assert.NotContains(testingHandle, writtenDocument, "\n# .llmpack_files.md\n")
	assert.Contains(testingHandle, writtenDocument, "\n\n# main.go\n<content>\npackage main\n\n</content>\n")
	assert.Equal(testingHandle, utf8.RuneCount(writtenBytes), result.CharacterCount)
	assert.Equal(testingHandle, 1, result.IncludedFiles)
}
