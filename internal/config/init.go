package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/llmprimer/llmprimer/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory's context directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the per-user configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `python:
  extensions: [".py", ".pyi", ".toml", ".cfg", ".md"]
go:
  extensions: [".go", ".mod", ".sum", ".md"]
javascript:
  extensions: [".js", ".jsx", ".mjs", ".json", ".md"]
typescript:
  extensions: [".ts", ".tsx", ".json", ".md"]
rust:
  extensions: [".rs", ".toml", ".md"]
java:
  extensions: [".java", ".gradle", ".xml", ".md"]
`

	errorConfigurationExistsFormat = "configuration already exists at %s; use --force to overwrite"
	errorResolveHomeFormat         = "resolve home directory for configuration: %w"
	errorWriteTemplateFormat       = "writing configuration template %s: %w"
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the default multi-language template to the
// requested target and returns the destination path.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}

	var destinationPath string
	switch target {
	case InitTargetGlobal:
		homeDirectory, homeError := os.UserHomeDir()
		if homeError != nil {
			return "", fmt.Errorf(errorResolveHomeFormat, homeError)
		}
		destinationPath = filepath.Join(homeDirectory, filepath.FromSlash(utils.GlobalConfigDirectoryName), utils.ConfigFileName)
	default:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			currentDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", workingDirectoryError)
			}
			workingDirectory = currentDirectory
		}
		destinationPath = LocalConfigurationPath(workingDirectory)
	}

	if !options.Force {
		if _, statError := os.Stat(destinationPath); statError == nil {
			return "", fmt.Errorf(errorConfigurationExistsFormat, destinationPath)
		}
	}

	if mkdirError := os.MkdirAll(filepath.Dir(destinationPath), 0o755); mkdirError != nil {
		return "", fmt.Errorf("creating configuration directory %s: %w", filepath.Dir(destinationPath), mkdirError)
	}
	if writeError := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o644); writeError != nil {
		return "", fmt.Errorf(errorWriteTemplateFormat, destinationPath, writeError)
	}
	return destinationPath, nil
}
