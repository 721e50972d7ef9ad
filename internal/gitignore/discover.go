package gitignore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/llmpack/internal/utils"
)

// ErrRootNotDirectory indicates that the discovery root exists but is not a directory.
var ErrRootNotDirectory = errors.New("root is not a directory")

const (
	errorAbsoluteRootFormat = "resolve root %s: %w"
	errorStatRootFormat     = "stat root %s: %w"
	errorRootKindFormat     = "%s: %w"
	errorWalkRootFormat     = "discover %s files under %s: %w"
)

// ValidateRoot resolves rootDirectory to an absolute path and checks that it is a directory.
func ValidateRoot(rootDirectory string) (string, error) {
	absoluteRoot, absoluteError := filepath.Abs(rootDirectory)
	if absoluteError != nil {
		return "", fmt.Errorf(errorAbsoluteRootFormat, rootDirectory, absoluteError)
	}
	rootInfo, statError := os.Stat(absoluteRoot)
	if statError != nil {
		return "", fmt.Errorf(errorStatRootFormat, absoluteRoot, statError)
	}
	if !rootInfo.IsDir() {
		return "", fmt.Errorf(errorRootKindFormat, absoluteRoot, ErrRootNotDirectory)
	}
	return absoluteRoot, nil
}

// Discover walks every directory below rootDirectory, excluded directories included, and
// loads each .gitignore file it finds into a Scope. Unreadable files and directories are
// logged and skipped; only an unusable root or a cancelled context fails the discovery.
func Discover(ctx context.Context, rootDirectory string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	absoluteRoot, rootError := ValidateRoot(rootDirectory)
	if rootError != nil {
		return nil, rootError
	}

	var discoveredScopes []Scope
	walkError := filepath.WalkDir(absoluteRoot, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if contextError := ctx.Err(); contextError != nil {
			return contextError
		}
		if accessError != nil {
			if walkedPath == absoluteRoot {
				return accessError
			}
			logger.Warn("Skipping unreadable path during .gitignore discovery", zap.String("path", walkedPath), zap.Error(accessError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() || directoryEntry.Name() != utils.GitIgnoreFileName {
			return nil
		}
		if !directoryEntry.Type().IsRegular() && directoryEntry.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		fileContent, readError := os.ReadFile(walkedPath)
		if readError != nil {
			logger.Error("Error reading .gitignore", zap.String("path", walkedPath), zap.Error(readError))
			return nil
		}
		scopeRoot := filepath.Dir(walkedPath)
		discoveredScopes = append(discoveredScopes, NewScope(scopeRoot, ParsePatternLines(utils.DecodeText(fileContent))))
		logger.Debug("Loaded .gitignore", zap.String("path", walkedPath))
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(errorWalkRootFormat, utils.GitIgnoreFileName, absoluteRoot, walkError)
	}

	logger.Debug("Loaded .gitignore files", zap.Int("count", len(discoveredScopes)))
	return NewStore(discoveredScopes, logger), nil
}
