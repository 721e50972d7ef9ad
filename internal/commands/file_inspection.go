package commands

import (
	"fmt"
	"os"

	"github.com/temirov/llmpack/internal/utils"
)

// FileEntry is one collected file of the combined document.
type FileEntry struct {
	// RelativePath is the slash separated path relative to the project root.
	RelativePath string
	LineCount    int
	// Content holds the file text; it is empty when Skipped is true.
	Content string
	// Skipped marks a file whose line count exceeds the content limit.
	Skipped bool
}

const errorReadFileFormat = "reading %s: %w"

// inspectFile reads path and applies the line limit.
func inspectFile(path string, relativePath string, maxLines int) (FileEntry, error) {
	fileBytes, readError := os.ReadFile(path)
	if readError != nil {
		return FileEntry{}, fmt.Errorf(errorReadFileFormat, path, readError)
	}
	fileText := utils.DecodeText(fileBytes)
	entry := FileEntry{
		RelativePath: relativePath,
		LineCount:    utils.CountLines(fileText),
	}
	if entry.LineCount > maxLines {
		entry.Skipped = true
		return entry, nil
	}
	entry.Content = fileText
	return entry, nil
}
