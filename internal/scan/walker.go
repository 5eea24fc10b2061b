// Package scan performs the deterministic traversal of the scan root and the
// extension-based content selection.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/llmprimer/llmprimer/internal/ignore"
	"github.com/llmprimer/llmprimer/internal/types"
)

const (
	rootRelativePath = "."

	warningReadDirectoryFormat = "unable to read directory: %v"
	warningResolveLinkFormat   = "unable to resolve symbolic link: %v"

	errorAbsolutePathFormat     = "getting absolute path for %s: %w"
	errorRootMissingFormat      = "%w: %s"
	errorRootNotDirectoryFormat = "%w: %s is not a directory"
	errorReadRootFormat         = "reading root directory %s: %w"
)

// Walker traverses a directory tree depth-first, pruning excluded entries.
type Walker struct {
	Matcher *ignore.Matcher
}

// Result aggregates the outcome of one traversal pass.
type Result struct {
	// Root is the tree of every non-excluded entry, independent of
	// extension filtering.
	Root *types.TreeNode
	// FilePaths lists every non-excluded file relative to the root in
	// sorted depth-first order. Extension filtering happens at render time.
	FilePaths []string
	// Warnings records entries that were omitted because they could not be read.
	Warnings []types.ScanWarning
}

// Walk traverses rootDirectoryPath and returns the tree of non-excluded
// entries together with the ordered file list. A missing or unreadable root is
// a fatal error; unreadable subdirectories become warnings.
func (walker *Walker) Walk(rootDirectoryPath string) (*Result, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}

	rootInfo, rootStatError := os.Stat(absoluteRootPath)
	if rootStatError != nil {
		return nil, fmt.Errorf(errorRootMissingFormat, types.ErrRootNotFound, rootDirectoryPath)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorRootNotDirectoryFormat, types.ErrRootNotFound, rootDirectoryPath)
	}

	result := &Result{}

	// Real paths on the current descent stack guard against symlink cycles.
	visitedRealPaths := map[string]struct{}{}
	resolvedRootPath, resolveRootError := filepath.EvalSymlinks(absoluteRootPath)
	if resolveRootError == nil {
		visitedRealPaths[resolvedRootPath] = struct{}{}
	}

	rootNode, rootWalkError := walker.walkDirectory(absoluteRootPath, rootRelativePath, 0, result, visitedRealPaths)
	if rootWalkError != nil {
		return nil, fmt.Errorf(errorReadRootFormat, rootDirectoryPath, rootWalkError)
	}
	result.Root = rootNode
	return result, nil
}

// walkDirectory reads one directory and recursively builds its node. Entries
// are visited in case-sensitive name order so that repeated runs over the same
// filesystem state produce identical output on every platform.
func (walker *Walker) walkDirectory(directoryPath string, relativePath string, depth int, result *Result, visitedRealPaths map[string]struct{}) (*types.TreeNode, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, readDirectoryError
	}
	sort.Slice(directoryEntries, func(firstIndex, secondIndex int) bool {
		return directoryEntries[firstIndex].Name() < directoryEntries[secondIndex].Name()
	})

	directoryNode := &types.TreeNode{
		Name:         filepath.Base(directoryPath),
		RelativePath: relativePath,
		IsDirectory:  true,
		Depth:        depth,
	}

	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		childAbsolutePath := filepath.Join(directoryPath, entryName)
		childRelativePath := entryName
		if relativePath != rootRelativePath {
			childRelativePath = path.Join(relativePath, entryName)
		}

		entryIsDirectory := directoryEntry.IsDir()
		if directoryEntry.Type()&fs.ModeSymlink != 0 {
			targetInfo, targetStatError := os.Stat(childAbsolutePath)
			if targetStatError != nil {
				result.Warnings = append(result.Warnings, types.ScanWarning{
					RelativePath: childRelativePath,
					Message:      fmt.Sprintf(warningResolveLinkFormat, targetStatError),
				})
				continue
			}
			entryIsDirectory = targetInfo.IsDir()
		}

		if walker.Matcher.Excluded(childRelativePath, entryIsDirectory) {
			continue
		}

		if !entryIsDirectory {
			directoryNode.Children = append(directoryNode.Children, &types.TreeNode{
				Name:         entryName,
				RelativePath: childRelativePath,
				Depth:        depth + 1,
			})
			result.FilePaths = append(result.FilePaths, childRelativePath)
			continue
		}

		resolvedChildPath, resolveChildError := filepath.EvalSymlinks(childAbsolutePath)
		if resolveChildError != nil {
			result.Warnings = append(result.Warnings, types.ScanWarning{
				RelativePath: childRelativePath,
				Message:      fmt.Sprintf(warningResolveLinkFormat, resolveChildError),
			})
			continue
		}
		if _, ancestorOnStack := visitedRealPaths[resolvedChildPath]; ancestorOnStack {
			// A link back to an ancestor; descending would never terminate.
			continue
		}

		visitedRealPaths[resolvedChildPath] = struct{}{}
		childNode, childWalkError := walker.walkDirectory(childAbsolutePath, childRelativePath, depth+1, result, visitedRealPaths)
		delete(visitedRealPaths, resolvedChildPath)
		if childWalkError != nil {
			result.Warnings = append(result.Warnings, types.ScanWarning{
				RelativePath: childRelativePath,
				Message:      fmt.Sprintf(warningReadDirectoryFormat, childWalkError),
			})
			continue
		}
		directoryNode.Children = append(directoryNode.Children, childNode)
	}

	return directoryNode, nil
}
