package gitignore

import (
	"strings"

	gogitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/temirov/llmpack/internal/utils"
)

const (
	commentPrefix = "#"
	lineSeparator = "\n"
	pathSeparator = "/"
)

// Scope holds the patterns of one .gitignore file and the directory it governs.
type Scope struct {
	// Root is the absolute path of the directory containing the .gitignore file.
	Root string
	// Patterns lists the pattern lines in file order without comments or blank lines.
	Patterns []string

	matcher gogitignore.Matcher
}

// NewScope compiles patterns relative to root.
func NewScope(root string, patterns []string) Scope {
	compiledPatterns := make([]gogitignore.Pattern, 0, len(patterns))
	for _, patternLine := range patterns {
		compiledPatterns = append(compiledPatterns, gogitignore.ParsePattern(patternLine, nil))
	}
	return Scope{
		Root:     root,
		Patterns: append([]string(nil), patterns...),
		matcher:  gogitignore.NewMatcher(compiledPatterns),
	}
}

// ParsePatternLines splits .gitignore content into pattern lines, trimming whitespace and
// dropping comments and blank lines.
func ParsePatternLines(content string) []string {
	var patterns []string
	for _, rawLine := range strings.Split(content, lineSeparator) {
		trimmedLine := strings.TrimSpace(rawLine)
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		patterns = append(patterns, trimmedLine)
	}
	return patterns
}

// Excludes reports whether the scope's patterns hide absolutePath.
// Paths outside the scope root are never excluded and the patterns are not consulted for them.
// The root itself is tested as ".", so a .gitignore holding "*" hides its own directory.
func (scope Scope) Excludes(absolutePath string, isDirectory bool) bool {
	relativePath, isDescendant := utils.RelativeDescendantPath(absolutePath, scope.Root)
	if !isDescendant || scope.matcher == nil {
		return false
	}
	return scope.matcher.Match(strings.Split(relativePath, pathSeparator), isDirectory)
}

// depth counts the path separators of the scope root.
func (scope Scope) depth() int {
	return strings.Count(strings.ReplaceAll(scope.Root, `\`, pathSeparator), pathSeparator)
}
