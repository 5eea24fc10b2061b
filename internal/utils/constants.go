package utils

const (
	// ContextDirectoryName is the directory created under the scan root
	// to hold the artifact and the local configuration.
	ContextDirectoryName = "LLMContext"
	// DumpFileName is the artifact file name inside the context directory.
	DumpFileName = "repository_dump.txt"
	// ConfigFileName is the language configuration file name.
	ConfigFileName = "config.yaml"
	// GlobalConfigDirectoryName is the per-user configuration directory
	// relative to the home directory.
	GlobalConfigDirectoryName = ".config/llmprimer"
	// GitIgnoreFileName is the name of the Git ignore file read at the scan root.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

// LoggerInitializationFailedMessageFormat reports a logger construction failure.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal application errors.
const ApplicationExecutionFailedMessage = "application execution failed"
