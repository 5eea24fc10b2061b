package scan

import (
	"path/filepath"
	"strings"
)

const (
	extensionDotPrefix = "."
	// emptyExtensionSentinel selects files without any extension when it
	// appears in the configured allow-list as a bare dot.
	emptyExtensionSentinel = ""
)

// ExtensionFilter wraps the set of file extensions whose content is included
// in the artifact. It never affects tree visibility or directory pruning.
type ExtensionFilter struct {
	allowed map[string]struct{}
}

// NewExtensionFilter normalizes the provided extensions to lowercase
// dot-prefixed form and builds the allow-list. A configured value of "."
// stands for files without an extension; blank values are discarded.
func NewExtensionFilter(extensions []string) *ExtensionFilter {
	allowed := make(map[string]struct{}, len(extensions))
	for _, extensionValue := range extensions {
		normalized := strings.ToLower(strings.TrimSpace(extensionValue))
		if normalized == "" {
			continue
		}
		if normalized == extensionDotPrefix {
			allowed[emptyExtensionSentinel] = struct{}{}
			continue
		}
		if !strings.HasPrefix(normalized, extensionDotPrefix) {
			normalized = extensionDotPrefix + normalized
		}
		allowed[normalized] = struct{}{}
	}
	return &ExtensionFilter{allowed: allowed}
}

// Includes reports whether the file at relativePath passes the allow-list.
// The suffix from the last dot of the base name is compared case-insensitively;
// files without an extension match only the empty-extension sentinel.
func (filter *ExtensionFilter) Includes(relativePath string) bool {
	extension := strings.ToLower(filepath.Ext(filepath.Base(relativePath)))
	_, included := filter.allowed[extension]
	return included
}

// Size returns the number of distinct extensions in the allow-list.
func (filter *ExtensionFilter) Size() int {
	return len(filter.allowed)
}
