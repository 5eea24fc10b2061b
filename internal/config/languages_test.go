package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/llmprimer/llmprimer/internal/types"
	"github.com/llmprimer/llmprimer/internal/utils"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestLoadLanguageConfigurations verifies YAML decoding of the language map.
func TestLoadLanguageConfigurations(testingHandle *testing.T) {
	configurationPath := filepath.Join(testingHandle.TempDir(), utils.ConfigFileName)
	writeTestFile(testingHandle, configurationPath, "python:\n  extensions: [\".py\", \".toml\"]\ngo:\n  extensions: [\".go\"]\n")

	configurations, loadError := LoadLanguageConfigurations(configurationPath)
	if loadError != nil {
		testingHandle.Fatalf("LoadLanguageConfigurations failed: %v", loadError)
	}
	if len(configurations) != 2 {
		testingHandle.Fatalf("expected 2 languages, got %d", len(configurations))
	}
	if !reflect.DeepEqual(configurations["python"].Extensions, []string{".py", ".toml"}) {
		testingHandle.Fatalf("unexpected python extensions: %v", configurations["python"].Extensions)
	}
}

// TestLoadLanguageConfigurationsMissingFile verifies that a missing file is tolerated.
func TestLoadLanguageConfigurationsMissingFile(testingHandle *testing.T) {
	configurations, loadError := LoadLanguageConfigurations(filepath.Join(testingHandle.TempDir(), "absent.yaml"))
	if loadError != nil {
		testingHandle.Fatalf("expected missing configuration to be tolerated, got %v", loadError)
	}
	if configurations != nil {
		testingHandle.Fatalf("expected nil configurations, got %v", configurations)
	}
}

// TestResolveExtensionSetLocalWinsOverGlobal verifies resolution precedence.
func TestResolveExtensionSetLocalWinsOverGlobal(testingHandle *testing.T) {
	localConfigurations := LanguageConfigurations{"python": {Extensions: []string{".py"}}}
	globalConfigurations := LanguageConfigurations{"python": {Extensions: []string{".py", ".md"}}}

	extensions, languageName, fromGlobal, resolveError := ResolveExtensionSet(localConfigurations, globalConfigurations, "")
	if resolveError != nil {
		testingHandle.Fatalf("ResolveExtensionSet failed: %v", resolveError)
	}
	if fromGlobal {
		testingHandle.Fatalf("expected local configuration to win")
	}
	if languageName != "python" || !reflect.DeepEqual(extensions, []string{".py"}) {
		testingHandle.Fatalf("unexpected resolution: %s %v", languageName, extensions)
	}
}

// TestResolveExtensionSetGlobalRequiresSelection verifies that a multi-language
// global configuration needs an explicit language.
func TestResolveExtensionSetGlobalRequiresSelection(testingHandle *testing.T) {
	globalConfigurations := LanguageConfigurations{
		"python": {Extensions: []string{".py"}},
		"go":     {Extensions: []string{".go"}},
	}

	_, _, _, resolveError := ResolveExtensionSet(nil, globalConfigurations, "")
	if !errors.Is(resolveError, types.ErrNoExtensions) {
		testingHandle.Fatalf("expected ErrNoExtensions, got %v", resolveError)
	}

	extensions, languageName, fromGlobal, selectionError := ResolveExtensionSet(nil, globalConfigurations, "go")
	if selectionError != nil {
		testingHandle.Fatalf("ResolveExtensionSet with selection failed: %v", selectionError)
	}
	if !fromGlobal || languageName != "go" || !reflect.DeepEqual(extensions, []string{".go"}) {
		testingHandle.Fatalf("unexpected resolution: %s %v fromGlobal=%v", languageName, extensions, fromGlobal)
	}
}

// TestResolveExtensionSetUnknownLanguage verifies the unknown-selection error.
func TestResolveExtensionSetUnknownLanguage(testingHandle *testing.T) {
	globalConfigurations := LanguageConfigurations{"python": {Extensions: []string{".py"}}}

	_, _, _, resolveError := ResolveExtensionSet(nil, globalConfigurations, "haskell")
	if !errors.Is(resolveError, types.ErrNoExtensions) {
		testingHandle.Fatalf("expected ErrNoExtensions, got %v", resolveError)
	}
}

// TestResolveExtensionSetEmptyConfigurations verifies the no-configuration error.
func TestResolveExtensionSetEmptyConfigurations(testingHandle *testing.T) {
	_, _, _, resolveError := ResolveExtensionSet(nil, nil, "")
	if !errors.Is(resolveError, types.ErrNoExtensions) {
		testingHandle.Fatalf("expected ErrNoExtensions, got %v", resolveError)
	}
}

// TestResolveExtensionSetEmptyExtensionList verifies that a language without
// extensions is a resolution failure.
func TestResolveExtensionSetEmptyExtensionList(testingHandle *testing.T) {
	localConfigurations := LanguageConfigurations{"python": {}}

	_, _, _, resolveError := ResolveExtensionSet(localConfigurations, nil, "")
	if !errors.Is(resolveError, types.ErrNoExtensions) {
		testingHandle.Fatalf("expected ErrNoExtensions, got %v", resolveError)
	}
}

// TestSaveLocalConfigurationRoundTrip verifies that a saved selection loads
// back as a single-language local configuration.
func TestSaveLocalConfigurationRoundTrip(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()

	if saveError := SaveLocalConfiguration(rootDirectory, "python", []string{".py", ".md"}); saveError != nil {
		testingHandle.Fatalf("SaveLocalConfiguration failed: %v", saveError)
	}

	configurations, loadError := LoadLanguageConfigurations(LocalConfigurationPath(rootDirectory))
	if loadError != nil {
		testingHandle.Fatalf("LoadLanguageConfigurations failed: %v", loadError)
	}
	extensions, languageName, fromGlobal, resolveError := ResolveExtensionSet(configurations, nil, "")
	if resolveError != nil {
		testingHandle.Fatalf("ResolveExtensionSet failed: %v", resolveError)
	}
	if fromGlobal || languageName != "python" || !reflect.DeepEqual(extensions, []string{".py", ".md"}) {
		testingHandle.Fatalf("unexpected round trip: %s %v fromGlobal=%v", languageName, extensions, fromGlobal)
	}
}

// TestInitializeConfigurationLocal verifies local template creation and the
// overwrite guard.
func TestInitializeConfigurationLocal(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()

	destinationPath, initializeError := InitializeConfiguration(InitOptions{
		Target:           InitTargetLocal,
		WorkingDirectory: workingDirectory,
	})
	if initializeError != nil {
		testingHandle.Fatalf("InitializeConfiguration failed: %v", initializeError)
	}
	if destinationPath != LocalConfigurationPath(workingDirectory) {
		testingHandle.Fatalf("unexpected destination: %s", destinationPath)
	}

	configurations, loadError := LoadLanguageConfigurations(destinationPath)
	if loadError != nil {
		testingHandle.Fatalf("template did not load: %v", loadError)
	}
	if _, pythonDefined := configurations["python"]; !pythonDefined {
		testingHandle.Fatalf("template missing python entry: %v", configurations)
	}

	if _, secondError := InitializeConfiguration(InitOptions{
		Target:           InitTargetLocal,
		WorkingDirectory: workingDirectory,
	}); secondError == nil {
		testingHandle.Fatalf("expected overwrite without --force to fail")
	}

	if _, forcedError := InitializeConfiguration(InitOptions{
		Target:           InitTargetLocal,
		WorkingDirectory: workingDirectory,
		Force:            true,
	}); forcedError != nil {
		testingHandle.Fatalf("forced overwrite failed: %v", forcedError)
	}
}
