// Package artifact persists the rendered dump atomically under the scan root.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/llmprimer/llmprimer/internal/utils"
)

const (
	temporaryFilePattern   = "repository_dump-*.tmp"
	contextDirectoryMode   = 0o755
	artifactFileMode       = 0o644
	errorCreateDirFormat   = "creating context directory %s: %w"
	errorCreateTempFormat  = "creating temporary artifact in %s: %w"
	errorWriteFormat       = "writing artifact: %w"
	errorFinalizeFormat    = "finalizing artifact %s: %w"
	errorReplaceFormat     = "replacing artifact %s: %w"
	errorPermissionsFormat = "setting artifact permissions: %w"
)

// Writer persists artifacts beneath a scan root. The artifact is written to a
// temporary file in the destination directory and renamed into place, so a
// reader never observes a partial artifact and an interrupted run leaves the
// previous one intact.
type Writer struct {
	RootDirectoryPath string
}

// OutputPath returns the canonical artifact location for the root.
func (writer *Writer) OutputPath() string {
	return filepath.Join(writer.RootDirectoryPath, utils.ContextDirectoryName, utils.DumpFileName)
}

// Write creates the context directory if needed and atomically replaces the
// artifact with artifactText. It returns the final artifact path.
func (writer *Writer) Write(artifactText string) (string, error) {
	contextDirectoryPath := filepath.Join(writer.RootDirectoryPath, utils.ContextDirectoryName)
	if mkdirError := os.MkdirAll(contextDirectoryPath, contextDirectoryMode); mkdirError != nil {
		return "", fmt.Errorf(errorCreateDirFormat, contextDirectoryPath, mkdirError)
	}

	temporaryFile, createError := os.CreateTemp(contextDirectoryPath, temporaryFilePattern)
	if createError != nil {
		return "", fmt.Errorf(errorCreateTempFormat, contextDirectoryPath, createError)
	}
	temporaryFilePath := temporaryFile.Name()

	if _, writeError := temporaryFile.WriteString(artifactText); writeError != nil {
		temporaryFile.Close()
		os.Remove(temporaryFilePath)
		return "", fmt.Errorf(errorWriteFormat, writeError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		os.Remove(temporaryFilePath)
		return "", fmt.Errorf(errorFinalizeFormat, temporaryFilePath, closeError)
	}
	if chmodError := os.Chmod(temporaryFilePath, artifactFileMode); chmodError != nil {
		os.Remove(temporaryFilePath)
		return "", fmt.Errorf(errorPermissionsFormat, chmodError)
	}

	outputPath := writer.OutputPath()
	if renameError := os.Rename(temporaryFilePath, outputPath); renameError != nil {
		os.Remove(temporaryFilePath)
		return "", fmt.Errorf(errorReplaceFormat, outputPath, renameError)
	}
	return outputPath, nil
}
