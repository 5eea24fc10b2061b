// Package render turns a traversal result into the final artifact text.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/llmprimer/llmprimer/internal/scan"
	"github.com/llmprimer/llmprimer/internal/types"
	"github.com/llmprimer/llmprimer/internal/utils"
)

const (
	treeSectionHeader = "Project Structure:"
	sectionSeparator  = "================================================================================"

	fileHeaderFormat       = "--- File: %s ---"
	binaryPlaceholder      = "(binary file omitted)"
	truncationMarkerFormat = "[truncated: content beyond %s omitted]"

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
	directoryMarker     = "/"

	warningReadFileFormat = "unable to read file: %v"

	// DefaultMaxFileBytes caps how much of a single file is embedded in the artifact.
	DefaultMaxFileBytes = 1 << 20
)

// Renderer formats the artifact from a traversal result. Given identical
// inputs it produces identical bytes.
type Renderer struct {
	RootDirectoryPath string
	Filter            *scan.ExtensionFilter
	MaxFileBytes      int64
}

// Render builds the artifact text: the tree section followed by one content
// block per file that passes the extension filter, in traversal order. Files
// that cannot be read are omitted with a warning; binary files keep a
// placeholder block so the artifact still records their presence.
func (renderer *Renderer) Render(treeRoot *types.TreeNode, filePaths []string) (string, []types.IncludedFile, []types.ScanWarning) {
	var builder strings.Builder

	builder.WriteString(treeSectionHeader + "\n\n")
	builder.WriteString(treeRoot.Name + directoryMarker + "\n")
	renderTreeChildren(&builder, treeRoot.Children, "")
	builder.WriteString("\n" + sectionSeparator + "\n\n")

	var includedFiles []types.IncludedFile
	var warnings []types.ScanWarning
	for _, relativeFilePath := range filePaths {
		if !renderer.Filter.Includes(relativeFilePath) {
			continue
		}
		includedFile, loadWarning := renderer.loadIncludedFile(relativeFilePath)
		if loadWarning != nil {
			warnings = append(warnings, *loadWarning)
			continue
		}
		includedFiles = append(includedFiles, includedFile)
		renderer.writeContentBlock(&builder, includedFile)
	}

	return builder.String(), includedFiles, warnings
}

// renderTreeChildren writes one line per node using box-drawing connectors.
// Directories carry a trailing slash so they are distinguishable from files.
func renderTreeChildren(builder *strings.Builder, children []*types.TreeNode, linePrefix string) {
	for childIndex, childNode := range children {
		isLastChild := childIndex == len(children)-1
		connector := treeBranchConnector
		childPadding := treeBranchPadding
		if isLastChild {
			connector = treeLastConnector
			childPadding = treeLastPadding
		}

		builder.WriteString(linePrefix + connector + childNode.Name)
		if childNode.IsDirectory {
			builder.WriteString(directoryMarker)
		}
		builder.WriteString("\n")

		if childNode.IsDirectory {
			renderTreeChildren(builder, childNode.Children, linePrefix+childPadding)
		}
	}
}

// loadIncludedFile reads one file, applying the size cap and binary detection.
func (renderer *Renderer) loadIncludedFile(relativeFilePath string) (types.IncludedFile, *types.ScanWarning) {
	maxFileBytes := renderer.MaxFileBytes
	if maxFileBytes <= 0 {
		maxFileBytes = DefaultMaxFileBytes
	}

	absoluteFilePath := filepath.Join(renderer.RootDirectoryPath, filepath.FromSlash(relativeFilePath))
	fileHandle, openError := os.Open(absoluteFilePath)
	if openError != nil {
		return types.IncludedFile{}, &types.ScanWarning{
			RelativePath: relativeFilePath,
			Message:      fmt.Sprintf(warningReadFileFormat, openError),
		}
	}
	defer fileHandle.Close()

	// Read one byte past the cap to learn whether truncation happened.
	limitedContent, readError := io.ReadAll(io.LimitReader(fileHandle, maxFileBytes+1))
	if readError != nil {
		return types.IncludedFile{}, &types.ScanWarning{
			RelativePath: relativeFilePath,
			Message:      fmt.Sprintf(warningReadFileFormat, readError),
		}
	}

	includedFile := types.IncludedFile{RelativePath: relativeFilePath}
	if int64(len(limitedContent)) > maxFileBytes {
		includedFile.Truncated = true
		limitedContent = limitedContent[:maxFileBytes]
	}
	includedFile.Content = limitedContent
	includedFile.Binary = utils.IsBinary(limitedContent)
	return includedFile, nil
}

// writeContentBlock appends one file block: the header line, a blank line, the
// content, and a blank-line separator before the next block.
func (renderer *Renderer) writeContentBlock(builder *strings.Builder, includedFile types.IncludedFile) {
	builder.WriteString(fmt.Sprintf(fileHeaderFormat, includedFile.RelativePath))
	builder.WriteString("\n\n")
	if includedFile.Binary {
		builder.WriteString(binaryPlaceholder)
	} else {
		builder.Write(includedFile.Content)
		if includedFile.Truncated {
			maxFileBytes := renderer.MaxFileBytes
			if maxFileBytes <= 0 {
				maxFileBytes = DefaultMaxFileBytes
			}
			builder.WriteString("\n" + fmt.Sprintf(truncationMarkerFormat, utils.FormatFileSize(maxFileBytes)))
		}
	}
	builder.WriteString("\n\n")
}
