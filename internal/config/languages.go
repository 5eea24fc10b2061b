// Package config loads and resolves the language to extension-list
// configuration that selects which file contents enter the artifact.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/llmprimer/llmprimer/internal/types"
	"github.com/llmprimer/llmprimer/internal/utils"
)

const (
	errorStatConfigurationFormat   = "stat configuration %s: %w"
	errorReadConfigurationFormat   = "read configuration from %s: %w"
	errorDecodeConfigurationFormat = "decode configuration from %s: %w"
	errorConfigurationIsDirFormat  = "configuration path %s is a directory"
	errorUnknownLanguageFormat     = "%w: language %q not defined; available: %s"
	errorSelectionRequiredFormat   = "%w: multiple languages configured (%s); choose one with --language"
	errorNoLanguagesFormat         = "%w: configuration defines no languages"
	errorEmptyExtensionsFormat     = "%w: language %q has no extensions"
)

// LanguageConfiguration holds the extension allow-list for one language.
type LanguageConfiguration struct {
	Extensions []string `mapstructure:"extensions"`
}

// LanguageConfigurations maps a language name to its configuration.
type LanguageConfigurations map[string]LanguageConfiguration

// LocalConfigurationPath returns the per-repository configuration location
// inside the context directory under the scan root.
func LocalConfigurationPath(rootDirectoryPath string) string {
	return filepath.Join(rootDirectoryPath, utils.ContextDirectoryName, utils.ConfigFileName)
}

// GlobalConfigurationPath returns the per-user configuration location. An
// empty string is returned when the home directory cannot be determined.
func GlobalConfigurationPath() string {
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil || homeDirectory == "" {
		return ""
	}
	return filepath.Join(homeDirectory, filepath.FromSlash(utils.GlobalConfigDirectoryName), utils.ConfigFileName)
}

// LoadLanguageConfigurations reads the configuration file at the given path.
// A missing file or an empty path yields a nil map and no error.
func LoadLanguageConfigurations(configurationFilePath string) (LanguageConfigurations, error) {
	if configurationFilePath == "" {
		return nil, nil
	}
	fileInformation, statError := os.Stat(configurationFilePath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return nil, nil
		}
		return nil, fmt.Errorf(errorStatConfigurationFormat, configurationFilePath, statError)
	}
	if fileInformation.IsDir() {
		return nil, fmt.Errorf(errorConfigurationIsDirFormat, configurationFilePath)
	}

	reader := viper.New()
	reader.SetConfigFile(configurationFilePath)
	if readError := reader.ReadInConfig(); readError != nil {
		return nil, fmt.Errorf(errorReadConfigurationFormat, configurationFilePath, readError)
	}
	var configurations LanguageConfigurations
	if decodeError := reader.Unmarshal(&configurations); decodeError != nil {
		return nil, fmt.Errorf(errorDecodeConfigurationFormat, configurationFilePath, decodeError)
	}
	return configurations, nil
}

// ResolveExtensionSet picks the extension allow-list from the local and
// global configurations, preferring local. The resolution is pure: callers
// pass in both configurations and the requested language so that no ambient
// state is consulted. It returns the extensions, the language they belong to,
// and whether the global configuration supplied them.
func ResolveExtensionSet(localConfigurations LanguageConfigurations, globalConfigurations LanguageConfigurations, languageSelection string) ([]string, string, bool, error) {
	if len(localConfigurations) > 0 {
		extensions, languageName, resolveError := resolveFromConfigurations(localConfigurations, languageSelection)
		return extensions, languageName, false, resolveError
	}
	if len(globalConfigurations) > 0 {
		extensions, languageName, resolveError := resolveFromConfigurations(globalConfigurations, languageSelection)
		return extensions, languageName, true, resolveError
	}
	return nil, "", false, fmt.Errorf(errorNoLanguagesFormat, types.ErrNoExtensions)
}

// resolveFromConfigurations selects one language entry. A single-language
// configuration needs no selection; multiple languages require one.
func resolveFromConfigurations(configurations LanguageConfigurations, languageSelection string) ([]string, string, error) {
	if languageSelection != "" {
		languageConfiguration, languageDefined := configurations[strings.ToLower(languageSelection)]
		if !languageDefined {
			return nil, "", fmt.Errorf(errorUnknownLanguageFormat, types.ErrNoExtensions, languageSelection, availableLanguageNames(configurations))
		}
		return validatedExtensions(languageConfiguration, languageSelection)
	}
	if len(configurations) == 1 {
		for languageName, languageConfiguration := range configurations {
			return validatedExtensions(languageConfiguration, languageName)
		}
	}
	return nil, "", fmt.Errorf(errorSelectionRequiredFormat, types.ErrNoExtensions, availableLanguageNames(configurations))
}

func validatedExtensions(languageConfiguration LanguageConfiguration, languageName string) ([]string, string, error) {
	if len(languageConfiguration.Extensions) == 0 {
		return nil, "", fmt.Errorf(errorEmptyExtensionsFormat, types.ErrNoExtensions, languageName)
	}
	return languageConfiguration.Extensions, strings.ToLower(languageName), nil
}

// availableLanguageNames lists the configured language names in sorted order
// for inclusion in error messages.
func availableLanguageNames(configurations LanguageConfigurations) string {
	languageNames := make([]string, 0, len(configurations))
	for languageName := range configurations {
		languageNames = append(languageNames, languageName)
	}
	sort.Strings(languageNames)
	return strings.Join(languageNames, ", ")
}

// SaveLocalConfiguration persists the selected language inside the context
// directory so that subsequent runs in the same repository need no selection.
func SaveLocalConfiguration(rootDirectoryPath string, languageName string, extensions []string) error {
	contextDirectoryPath := filepath.Join(rootDirectoryPath, utils.ContextDirectoryName)
	if mkdirError := os.MkdirAll(contextDirectoryPath, 0o755); mkdirError != nil {
		return fmt.Errorf("creating context directory %s: %w", contextDirectoryPath, mkdirError)
	}
	writer := viper.New()
	writer.Set(languageName+".extensions", extensions)
	localPath := LocalConfigurationPath(rootDirectoryPath)
	if writeError := writer.WriteConfigAs(localPath); writeError != nil {
		return fmt.Errorf("writing local configuration %s: %w", localPath, writeError)
	}
	return nil
}
