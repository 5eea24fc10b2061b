package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/llmprimer/llmprimer/internal/utils"
)

// TestWriteCreatesArtifact verifies that Write creates the context directory
// and persists the exact artifact bytes at the canonical path.
func TestWriteCreatesArtifact(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writer := &Writer{RootDirectoryPath: rootDirectory}

	outputPath, writeError := writer.Write("artifact body\n")
	if writeError != nil {
		testingHandle.Fatalf("Write failed: %v", writeError)
	}
	expectedPath := filepath.Join(rootDirectory, utils.ContextDirectoryName, utils.DumpFileName)
	if outputPath != expectedPath {
		testingHandle.Fatalf("unexpected output path: got %s want %s", outputPath, expectedPath)
	}

	persistedBytes, readError := os.ReadFile(outputPath)
	if readError != nil {
		testingHandle.Fatalf("reading artifact failed: %v", readError)
	}
	if string(persistedBytes) != "artifact body\n" {
		testingHandle.Fatalf("unexpected artifact content: %q", persistedBytes)
	}
}

// TestWriteReplacesPreviousArtifact verifies last-writer-wins replacement.
func TestWriteReplacesPreviousArtifact(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writer := &Writer{RootDirectoryPath: rootDirectory}

	if _, firstWriteError := writer.Write("first\n"); firstWriteError != nil {
		testingHandle.Fatalf("first Write failed: %v", firstWriteError)
	}
	outputPath, secondWriteError := writer.Write("second\n")
	if secondWriteError != nil {
		testingHandle.Fatalf("second Write failed: %v", secondWriteError)
	}

	persistedBytes, readError := os.ReadFile(outputPath)
	if readError != nil {
		testingHandle.Fatalf("reading artifact failed: %v", readError)
	}
	if string(persistedBytes) != "second\n" {
		testingHandle.Fatalf("unexpected artifact content: %q", persistedBytes)
	}
}

// TestWriteLeavesNoTemporaryResidue verifies that the temporary file is
// renamed away and the context directory holds only the artifact.
func TestWriteLeavesNoTemporaryResidue(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writer := &Writer{RootDirectoryPath: rootDirectory}

	if _, writeError := writer.Write("artifact body\n"); writeError != nil {
		testingHandle.Fatalf("Write failed: %v", writeError)
	}

	contextDirectoryPath := filepath.Join(rootDirectory, utils.ContextDirectoryName)
	directoryEntries, readDirectoryError := os.ReadDir(contextDirectoryPath)
	if readDirectoryError != nil {
		testingHandle.Fatalf("reading context directory failed: %v", readDirectoryError)
	}
	for _, directoryEntry := range directoryEntries {
		if strings.HasSuffix(directoryEntry.Name(), ".tmp") {
			testingHandle.Fatalf("temporary file left behind: %s", directoryEntry.Name())
		}
	}
	if len(directoryEntries) != 1 || directoryEntries[0].Name() != utils.DumpFileName {
		testingHandle.Fatalf("unexpected context directory contents: %v", directoryEntries)
	}
}
