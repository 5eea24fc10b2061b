// Package ignore decides which paths are excluded from a scan. It layers a
// fixed set of built-in directory exclusions over gitignore-syntax patterns
// loaded from the scan root.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/llmprimer/llmprimer/internal/utils"
)

const (
	commentPrefix          = "#"
	pathSegmentSeparator   = "/"
	errorOpenPatternFormat = "opening %s: %w"
	errorReadPatternFormat = "reading %s: %w"
)

// builtinDirectoryNames lists directory basenames excluded at any depth.
// These match directories only and cannot be reinstated by a negation pattern.
var builtinDirectoryNames = map[string]struct{}{
	utils.GitDirectoryName:     {},
	".idea":                    {},
	"__pycache__":              {},
	"node_modules":             {},
	".venv":                    {},
	"venv":                     {},
	utils.ContextDirectoryName: {},
}

// Matcher reports whether a path relative to the scan root is excluded.
type Matcher struct {
	gitIgnore *gitignore.GitIgnore
}

// NewMatcher compiles the provided gitignore-syntax lines into a Matcher.
// Line order is preserved so that later patterns, including negations,
// override earlier ones.
func NewMatcher(patternLines []string) *Matcher {
	matcher := &Matcher{}
	if len(patternLines) > 0 {
		matcher.gitIgnore = gitignore.CompileIgnoreLines(patternLines...)
	}
	return matcher
}

// Excluded reports whether relativePath should be excluded entirely from the
// scan. Built-in exclusions are evaluated first and win unconditionally;
// otherwise the last matching gitignore pattern decides. Paths are normalized
// to forward slashes and directories are matched with a trailing slash, the
// convention the gitignore syntax expects.
func (matcher *Matcher) Excluded(relativePath string, isDirectory bool) bool {
	normalizedPath := filepath.ToSlash(relativePath)
	if matchesBuiltin(normalizedPath, isDirectory) {
		return true
	}
	if matcher.gitIgnore == nil {
		return false
	}
	candidatePath := normalizedPath
	if isDirectory {
		candidatePath += pathSegmentSeparator
	}
	return matcher.gitIgnore.MatchesPath(candidatePath)
}

// matchesBuiltin checks every directory component of the normalized path
// against the built-in exclusion names. The final segment counts only when the
// path itself is a directory, so a file named like a built-in is not excluded.
func matchesBuiltin(normalizedPath string, isDirectory bool) bool {
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)
	for segmentIndex, pathSegment := range pathSegments {
		if segmentIndex == len(pathSegments)-1 && !isDirectory {
			return false
		}
		if _, isBuiltin := builtinDirectoryNames[pathSegment]; isBuiltin {
			return true
		}
	}
	return false
}

// LoadRootPatterns reads the gitignore file at the top level of
// rootDirectoryPath and returns its pattern lines in file order. Blank lines
// and comments are dropped. A missing file yields no patterns and no error.
func LoadRootPatterns(rootDirectoryPath string) ([]string, error) {
	gitIgnoreFilePath := filepath.Join(rootDirectoryPath, utils.GitIgnoreFileName)
	fileHandle, openError := os.Open(gitIgnoreFilePath)
	if openError != nil {
		if os.IsNotExist(openError) {
			return nil, nil
		}
		return nil, fmt.Errorf(errorOpenPatternFormat, gitIgnoreFilePath, openError)
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", gitIgnoreFilePath, closeError)
		}
	}()

	var patternLines []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		patternLines = append(patternLines, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf(errorReadPatternFormat, gitIgnoreFilePath, scanError)
	}
	return patternLines, nil
}
