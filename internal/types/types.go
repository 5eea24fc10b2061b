// Package types defines every cross-package data structure used by the llmprimer CLI.
package types

import "errors"

// Sentinel errors for the fatal failure kinds a run can surface.
var (
	// ErrNoExtensions indicates that no extension allow-list could be resolved
	// from flags or configuration.
	ErrNoExtensions = errors.New("no extension set could be resolved")
	// ErrRootNotFound indicates that the scan root does not exist or is not a directory.
	ErrRootNotFound = errors.New("scan root not found")
)

// TreeNode represents one filesystem entry relative to the scan root.
// Children is populated for directories only and preserves traversal order.
type TreeNode struct {
	Name         string
	RelativePath string
	IsDirectory  bool
	Depth        int
	Children     []*TreeNode
}

// IncludedFile is one file selected for content inclusion in the artifact.
type IncludedFile struct {
	RelativePath string
	Content      []byte
	Binary       bool
	Truncated    bool
}

// ScanWarning records a non-fatal problem encountered during a run.
// Warnings are collected and reported after the artifact is written.
type ScanWarning struct {
	RelativePath string
	Message      string
}

// RunSummary captures aggregate information reported after a successful run.
type RunSummary struct {
	FilesListed   int
	FilesIncluded int
	ArtifactBytes int64
	ArtifactPath  string
	Tokens        int
	Model         string
}
