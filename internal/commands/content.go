package commands

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/llmpack/internal/gitignore"
	"github.com/temirov/llmpack/internal/utils"
)

// ContentCollector walks a project and reads every selected source file.
type ContentCollector struct {
	Store  *gitignore.Store
	Logger *zap.Logger
	// MaxLines is the content limit; zero means MaxContentLines.
	MaxLines int
	// ExcludedPaths lists absolute file paths that are never collected.
	ExcludedPaths []string
}

// FileVisitor receives collected files in walk order.
type FileVisitor func(entry FileEntry) error

// CollectFiles walks rootPath and hands every selected file to visit as soon as it is read.
// Structurally excluded and ignored directories are pruned without being entered, so a
// negated file pattern never revives a file below an ignored directory. Files that cannot be
// read are logged and skipped.
func (collector *ContentCollector) CollectFiles(ctx context.Context, rootPath string, visit FileVisitor) error {
	logger := collector.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxLines := collector.MaxLines
	if maxLines <= 0 {
		maxLines = MaxContentLines
	}
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)
	excludedPaths := make(map[string]struct{}, len(collector.ExcludedPaths))
	for _, excludedPath := range collector.ExcludedPaths {
		if absoluteExcludedPath, excludedError := filepath.Abs(excludedPath); excludedError == nil {
			excludedPaths[absoluteExcludedPath] = struct{}{}
		}
	}

	return filepath.WalkDir(cleanedRootPath, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if contextError := ctx.Err(); contextError != nil {
			return contextError
		}
		if accessError != nil {
			if walkedPath == cleanedRootPath {
				return accessError
			}
			logger.Warn("Skipping inaccessible path", zap.String("path", walkedPath), zap.Error(accessError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() {
			if walkedPath == cleanedRootPath {
				return nil
			}
			if IsStructurallyExcluded(directoryEntry.Name()) {
				return filepath.SkipDir
			}
			if collector.Store.IsIgnored(walkedPath, true) {
				logger.Debug("Ignoring directory", zap.String("path", walkedPath))
				return filepath.SkipDir
			}
			return nil
		}
		if !HasAllowedExtension(directoryEntry.Name()) || classifyEntry(walkedPath, directoryEntry) != entryKindFile {
			return nil
		}
		if _, excluded := excludedPaths[walkedPath]; excluded {
			return nil
		}
		if collector.Store.IsIgnored(walkedPath, false) {
			logger.Debug("Ignoring file", zap.String("path", walkedPath))
			return nil
		}

		entry, inspectError := inspectFile(walkedPath, utils.RelativePathOrSelf(walkedPath, cleanedRootPath), maxLines)
		if inspectError != nil {
			logger.Error("Error processing file", zap.String("path", walkedPath), zap.Error(inspectError))
			return nil
		}
		return visit(entry)
	})
}

// GetContentData collects every selected file under rootPath into a slice.
func (collector *ContentCollector) GetContentData(ctx context.Context, rootPath string) ([]FileEntry, error) {
	var fileEntries []FileEntry
	collectError := collector.CollectFiles(ctx, rootPath, func(entry FileEntry) error {
		fileEntries = append(fileEntries, entry)
		return nil
	})
	if collectError != nil {
		return nil, collectError
	}
	return fileEntries, nil
}
