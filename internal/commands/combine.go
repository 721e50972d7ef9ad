package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/temirov/llmpack/internal/gitignore"
	"github.com/temirov/llmpack/internal/utils"
)

const (
	sectionHeadingPrefix = "# "
	sectionSeparator     = "\n\n"
	skippedEntryFormat   = "<skipped - %d lines (exceeds %d line limit)>\n"

	errorCreateOutputFormat = "create output %s: %w"
	errorFlushOutputFormat  = "write output %s: %w"
	errorWriteDocument      = "write document: %w"
)

// projectManifestFiles are copied right after the tree when they exist at the root.
var projectManifestFiles = []string{"README.md", "package.json", "pyproject.toml"}

// CombineOptions configures one document assembly run.
type CombineOptions struct {
	RootDirectory string
	// Prefix is written at the top of the document and before every file's content.
	Prefix string
	// MaxLines is the content limit; zero means MaxContentLines.
	MaxLines int
	// ExcludedPaths lists absolute file paths that are never collected.
	ExcludedPaths []string
	Logger        *zap.Logger
}

// CombineResult summarizes a written document.
type CombineResult struct {
	CharacterCount int
	IncludedFiles  int
	SkippedFiles   int
	IgnoreScopes   int
}

// documentWriter counts the characters it writes and remembers the first write error.
type documentWriter struct {
	destination    io.Writer
	characterCount int
	writeError     error
}

func (writer *documentWriter) writeString(text string) {
	if writer.writeError != nil || text == "" {
		return
	}
	if _, writeError := io.WriteString(writer.destination, text); writeError != nil {
		writer.writeError = writeError
		return
	}
	writer.characterCount += utf8.RuneCountInString(text)
}

func (writer *documentWriter) writeSection(leadingSeparator string, heading string, body string) {
	writer.writeString(leadingSeparator + sectionHeadingPrefix + heading + newline)
	writer.writeString(ContentOpenMarker + newline + body + newline + ContentCloseMarker + newline)
}

// Combine discovers ignore scopes under options.RootDirectory and writes the combined
// document to destination: prefix, directory tree, project manifests, then every
// collected file in walk order.
func Combine(ctx context.Context, destination io.Writer, options CombineOptions) (CombineResult, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rootDirectory := options.RootDirectory
	if rootDirectory == "" {
		rootDirectory = rootDisplayName
	}
	absoluteRootDirectory, absolutePathError := filepath.Abs(rootDirectory)
	if absolutePathError != nil {
		return CombineResult{}, fmt.Errorf(errorAbsolutePathFormat, rootDirectory, absolutePathError)
	}

	store, discoverError := gitignore.Discover(ctx, absoluteRootDirectory, logger)
	if discoverError != nil {
		return CombineResult{}, discoverError
	}
	result := CombineResult{IgnoreScopes: store.Len()}

	logger.Info("Generating directory tree...")
	treeSection, treeError := NewTreeBuilder(store, logger).RenderTree(ctx, absoluteRootDirectory)
	if treeError != nil {
		return result, treeError
	}

	document := &documentWriter{destination: destination}
	if options.Prefix != "" {
		document.writeString(options.Prefix + sectionSeparator)
	}
	document.writeString(newline + treeSection + newline)

	for manifestIndex, manifestName := range projectManifestFiles {
		manifestText, manifestFound := readManifest(filepath.Join(absoluteRootDirectory, manifestName), logger)
		if !manifestFound {
			continue
		}
		leadingSeparator := sectionSeparator
		if manifestIndex == 0 {
			leadingSeparator = ""
		}
		document.writeSection(leadingSeparator, manifestName, manifestText)
	}

	logger.Info("Combining code files...")
	collector := &ContentCollector{
		Store:         store,
		Logger:        logger,
		MaxLines:      options.MaxLines,
		ExcludedPaths: options.ExcludedPaths,
	}
	maxLines := collector.MaxLines
	if maxLines <= 0 {
		maxLines = MaxContentLines
	}
	collectError := collector.CollectFiles(ctx, absoluteRootDirectory, func(entry FileEntry) error {
		if entry.Skipped {
			document.writeString(sectionSeparator + sectionHeadingPrefix + entry.RelativePath + newline)
			document.writeString(FormatSkippedEntry(entry.LineCount, maxLines))
			result.SkippedFiles++
			return document.writeError
		}
		body := entry.Content
		if options.Prefix != "" {
			body = options.Prefix + sectionSeparator + body
		}
		document.writeSection(sectionSeparator, entry.RelativePath, body)
		result.IncludedFiles++
		return document.writeError
	})
	result.CharacterCount = document.characterCount
	if document.writeError != nil {
		return result, fmt.Errorf(errorWriteDocument, document.writeError)
	}
	if collectError != nil {
		return result, collectError
	}
	return result, nil
}

// CombineToFile writes the combined document to outputPath through a single buffered writer.
// The output file itself is never collected. An unusable root fails before the output is
// created. On later failures the partially written document is kept.
func CombineToFile(ctx context.Context, outputPath string, options CombineOptions) (result CombineResult, err error) {
	if _, rootError := gitignore.ValidateRoot(options.RootDirectory); rootError != nil {
		return CombineResult{}, rootError
	}
	absoluteOutputPath, absolutePathError := filepath.Abs(outputPath)
	if absolutePathError != nil {
		return CombineResult{}, fmt.Errorf(errorAbsolutePathFormat, outputPath, absolutePathError)
	}
	// #nosec G304
	outputFile, createError := os.Create(absoluteOutputPath)
	if createError != nil {
		return CombineResult{}, fmt.Errorf(errorCreateOutputFormat, absoluteOutputPath, createError)
	}
	bufferedWriter := bufio.NewWriter(outputFile)
	defer func() {
		flushError := bufferedWriter.Flush()
		closeError := outputFile.Close()
		if err != nil {
			return
		}
		if flushError != nil {
			err = fmt.Errorf(errorFlushOutputFormat, absoluteOutputPath, flushError)
		} else if closeError != nil {
			err = fmt.Errorf(errorFlushOutputFormat, absoluteOutputPath, closeError)
		}
	}()

	options.ExcludedPaths = append(append([]string(nil), options.ExcludedPaths...), absoluteOutputPath)
	return Combine(ctx, bufferedWriter, options)
}

// readManifest returns the text of a root-level project file when it is a regular file.
func readManifest(manifestPath string, logger *zap.Logger) (string, bool) {
	manifestInfo, statError := os.Stat(manifestPath)
	if statError != nil || !manifestInfo.Mode().IsRegular() {
		return "", false
	}
	// #nosec G304
	manifestBytes, readError := os.ReadFile(manifestPath)
	if readError != nil {
		logger.Warn("Skipping unreadable project file", zap.String("path", manifestPath), zap.Error(readError))
		return "", false
	}
	return utils.DecodeText(manifestBytes), true
}

// FormatSkippedEntry renders the placeholder written instead of an oversized file's content.
func FormatSkippedEntry(lineCount int, maxLines int) string {
	return fmt.Sprintf(skippedEntryFormat, lineCount, maxLines)
}
