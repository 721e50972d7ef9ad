package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	// TreeHeading opens the directory structure section of the document.
	TreeHeading = "# Directory Structure"
	// ContentOpenMarker precedes every section body.
	ContentOpenMarker = "<content>"
	// ContentCloseMarker follows every section body.
	ContentCloseMarker = "</content>"

	rootDisplayName        = "."
	directorySuffix        = "/"
	middleConnector        = "├── "
	lastConnector          = "└── "
	middleContinuation     = "│   "
	lastContinuation       = "    "
	permissionDeniedMarker = "(Permission denied)"
	newline                = "\n"

	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorRenderTreeFormat is used when the traversal stops early.
	errorRenderTreeFormat = "rendering tree for %s: %w"
)

type treeChild struct {
	name        string
	path        string
	isDirectory bool
	descend     bool
}

// RenderTree returns the directory structure section for rootDirectoryPath, envelope included.
// The root is shown as "./". Directories precede files and each group is sorted by name.
func (treeBuilder *TreeBuilder) RenderTree(ctx context.Context, rootDirectoryPath string) (string, error) {
	absoluteRootDirPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}

	var treeBuffer strings.Builder
	treeBuffer.WriteString(TreeHeading + newline + ContentOpenMarker + newline)
	treeBuffer.WriteString(lastConnector + rootDisplayName + directorySuffix + newline)
	if renderError := treeBuilder.renderChildren(ctx, &treeBuffer, absoluteRootDirPath, lastContinuation); renderError != nil {
		return "", fmt.Errorf(errorRenderTreeFormat, rootDirectoryPath, renderError)
	}
	treeBuffer.WriteString(ContentCloseMarker + newline)
	return treeBuffer.String(), nil
}

// renderChildren writes the visible children of currentDirectoryPath, each line starting with prefix.
func (treeBuilder *TreeBuilder) renderChildren(ctx context.Context, treeBuffer *strings.Builder, currentDirectoryPath string, prefix string) error {
	if contextError := ctx.Err(); contextError != nil {
		return contextError
	}

	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		if errors.Is(readDirectoryError, fs.ErrPermission) {
			treeBuffer.WriteString(prefix + lastConnector + permissionDeniedMarker + newline)
			return nil
		}
		treeBuilder.Logger.Warn("Skipping unreadable directory", zap.String("directory", currentDirectoryPath), zap.Error(readDirectoryError))
		return nil
	}

	visibleChildren := treeBuilder.visibleChildren(currentDirectoryPath, directoryEntries)
	for childIndex, child := range visibleChildren {
		connector, continuation := middleConnector, middleContinuation
		if childIndex == len(visibleChildren)-1 {
			connector, continuation = lastConnector, lastContinuation
		}
		if !child.isDirectory {
			treeBuffer.WriteString(prefix + connector + child.name + newline)
			continue
		}
		treeBuffer.WriteString(prefix + connector + child.name + directorySuffix + newline)
		if !child.descend {
			continue
		}
		if childError := treeBuilder.renderChildren(ctx, treeBuffer, child.path, prefix+continuation); childError != nil {
			return childError
		}
	}
	return nil
}

// visibleChildren filters and orders the entries of one directory.
func (treeBuilder *TreeBuilder) visibleChildren(currentDirectoryPath string, directoryEntries []fs.DirEntry) []treeChild {
	var directories []treeChild
	var files []treeChild
	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		switch classifyEntry(childPath, directoryEntry) {
		case entryKindDirectory, entryKindLinkedDirectory:
			if IsStructurallyExcluded(directoryEntry.Name()) || treeBuilder.Store.IsIgnored(childPath, true) {
				continue
			}
			directories = append(directories, treeChild{
				name:        directoryEntry.Name(),
				path:        childPath,
				isDirectory: true,
				descend:     directoryEntry.IsDir(),
			})
		case entryKindFile:
			if treeBuilder.Store.IsIgnored(childPath, false) {
				continue
			}
			files = append(files, treeChild{name: directoryEntry.Name(), path: childPath})
		}
	}
	sortChildrenByName(directories)
	sortChildrenByName(files)
	return append(directories, files...)
}

func sortChildrenByName(children []treeChild) {
	sort.Slice(children, func(leftIndex, rightIndex int) bool {
		return children[leftIndex].name < children[rightIndex].name
	})
}
