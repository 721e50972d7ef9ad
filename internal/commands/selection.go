// Package commands selects project files, renders the directory tree, and assembles the
// combined markdown document.
package commands

import (
	"io/fs"
	"os"
	"path/filepath"
)

// MaxContentLines is the largest number of lines a file may have and still have its content included.
const MaxContentLines = 1000

var structurallyExcludedDirectoryNames = map[string]struct{}{
	"node_modules": {},
	".venv":        {},
	"build":        {},
	"dist":         {},
	"Pods":         {},
	".git":         {},
}

var allowedExtensions = map[string]struct{}{
	// markup and web
	".html": {}, ".htm": {},
	".js": {}, ".jsx": {}, ".mjs": {}, ".cjs": {},
	".ts": {}, ".tsx": {}, ".d.ts": {},
	".svelte": {}, ".vue": {}, ".prisma": {},
	".css": {}, ".scss": {}, ".sass": {}, ".less": {},
	".py": {},
	// data and configuration
	".json": {}, ".yml": {}, ".yaml": {}, ".toml": {},
	// JVM and Android
	".java": {}, ".kt": {}, ".xml": {}, ".gradle": {},
	// native
	".c": {}, ".cpp": {}, ".cc": {}, ".h": {}, ".hpp": {}, ".cs": {},
	".php": {}, ".rb": {}, ".go": {}, ".rs": {}, ".dart": {},
	// documentation
	".md": {}, ".markdown": {}, ".rst": {},
	// database
	".sql": {}, ".graphql": {}, ".gql": {},
	// Apple platforms
	".swift": {}, ".m": {}, ".storyboard": {}, ".xib": {}, ".pbxproj": {}, ".plist": {},
}

// IsStructurallyExcluded reports whether a directory with this name is always hidden.
func IsStructurallyExcluded(directoryName string) bool {
	_, excluded := structurallyExcludedDirectoryNames[directoryName]
	return excluded
}

// HasAllowedExtension reports whether the file name's final extension is collected.
// The match is case-sensitive.
func HasAllowedExtension(fileName string) bool {
	_, allowed := allowedExtensions[filepath.Ext(fileName)]
	return allowed
}

type entryKind int

const (
	entryKindOther entryKind = iota
	entryKindDirectory
	entryKindLinkedDirectory
	entryKindFile
)

// classifyEntry resolves symbolic links so that links to regular files count as files.
// Links to directories are reported separately and are never descended into.
func classifyEntry(entryPath string, directoryEntry fs.DirEntry) entryKind {
	entryType := directoryEntry.Type()
	switch {
	case entryType.IsDir():
		return entryKindDirectory
	case entryType.IsRegular():
		return entryKindFile
	case entryType&fs.ModeSymlink != 0:
		targetInfo, statError := os.Stat(entryPath)
		if statError != nil {
			return entryKindOther
		}
		if targetInfo.IsDir() {
			return entryKindLinkedDirectory
		}
		if targetInfo.Mode().IsRegular() {
			return entryKindFile
		}
	}
	return entryKindOther
}
