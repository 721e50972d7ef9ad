// Package utils contains general helper functions used across llmpack.
package utils

import (
	"path/filepath"
	"strings"
)

// File and directory names used across the project.
const (
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// GlobalConfigDirectoryName is the directory under the user configuration root holding settings.
	GlobalConfigDirectoryName = "llmpack"
	// ConfigFileName is the name of the settings file.
	ConfigFileName = "config.json"
	// DefaultOutputFileName is the document written by the combine command.
	DefaultOutputFileName = ".llmpack_files.md"
	// DefaultResultFileName is the file the query command writes the model answer to.
	DefaultResultFileName = ".llmpack_result"
)

const (
	selfRelativePath    = "."
	parentDirectoryStep = ".."
)

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return selfRelativePath
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// RelativeDescendantPath returns the slash separated path of candidatePath relative to rootPath
// and reports whether candidatePath lies inside rootPath. Both paths must be absolute.
// The root itself is a descendant with relative path ".".
func RelativeDescendantPath(candidatePath, rootPath string) (string, bool) {
	relativePath, relErr := filepath.Rel(filepath.Clean(rootPath), filepath.Clean(candidatePath))
	if relErr != nil {
		return "", false
	}
	if relativePath == parentDirectoryStep || strings.HasPrefix(relativePath, parentDirectoryStep+string(filepath.Separator)) {
		return "", false
	}
	if filepath.IsAbs(relativePath) {
		return "", false
	}
	return filepath.ToSlash(relativePath), true
}
