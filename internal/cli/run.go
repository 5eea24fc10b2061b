package cli

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/llmprimer/llmprimer/internal/artifact"
	"github.com/llmprimer/llmprimer/internal/config"
	"github.com/llmprimer/llmprimer/internal/ignore"
	"github.com/llmprimer/llmprimer/internal/render"
	"github.com/llmprimer/llmprimer/internal/scan"
	"github.com/llmprimer/llmprimer/internal/services/clipboard"
	"github.com/llmprimer/llmprimer/internal/tokenizer"
	"github.com/llmprimer/llmprimer/internal/types"
)

const (
	errorResolveRootFormat = "resolving root path %s: %w"

	warningLoadGitignoreMessage = "could not load .gitignore patterns"
	warningSaveLocalMessage     = "could not save local configuration"
	warningTokenCountMessage    = "could not estimate artifact tokens"
	warningClipboardMessage     = "could not copy artifact to clipboard"
	warningScanEntryMessage     = "entry skipped"

	artifactWrittenMessage = "artifact written"
	tokenEstimateMessage   = "token estimate"
)

// runOptions gathers every flag value that shapes a dump run.
type runOptions struct {
	languageName      string
	extensionOverride []string
	configurationPath string
	disableGitignore  bool
	maxFileBytes      int64
	tokensEnabled     bool
	tokenizerModel    string
	copyToClipboard   bool
}

// runDump performs one complete scan-render-write cycle for the given root.
// Fatal conditions return an error; per-path problems are logged as warnings
// after the artifact has been written.
func runDump(logger *zap.Logger, rootArgument string, options runOptions) error {
	absoluteRootPath, absolutePathError := filepath.Abs(rootArgument)
	if absolutePathError != nil {
		return fmt.Errorf(errorResolveRootFormat, rootArgument, absolutePathError)
	}

	extensions, selectedLanguage, resolvedFromGlobal, resolveError := resolveExtensions(absoluteRootPath, options)
	if resolveError != nil {
		return resolveError
	}

	var patternLines []string
	var warnings []types.ScanWarning
	if !options.disableGitignore {
		loadedPatterns, loadError := ignore.LoadRootPatterns(absoluteRootPath)
		if loadError != nil {
			warnings = append(warnings, types.ScanWarning{Message: fmt.Sprintf("%s: %v", warningLoadGitignoreMessage, loadError)})
		} else {
			patternLines = loadedPatterns
		}
	}

	walker := &scan.Walker{Matcher: ignore.NewMatcher(patternLines)}
	scanResult, walkError := walker.Walk(absoluteRootPath)
	if walkError != nil {
		return walkError
	}
	warnings = append(warnings, scanResult.Warnings...)

	renderer := &render.Renderer{
		RootDirectoryPath: absoluteRootPath,
		Filter:            scan.NewExtensionFilter(extensions),
		MaxFileBytes:      options.maxFileBytes,
	}
	artifactText, includedFiles, renderWarnings := renderer.Render(scanResult.Root, scanResult.FilePaths)
	warnings = append(warnings, renderWarnings...)

	writer := &artifact.Writer{RootDirectoryPath: absoluteRootPath}
	outputPath, writeError := writer.Write(artifactText)
	if writeError != nil {
		return writeError
	}

	// A selection against the per-user configuration is remembered locally,
	// matching the behavior of picking a language on first run.
	if resolvedFromGlobal && selectedLanguage != "" {
		if saveError := config.SaveLocalConfiguration(absoluteRootPath, selectedLanguage, extensions); saveError != nil {
			logger.Warn(warningSaveLocalMessage, zap.Error(saveError))
		}
	}

	for _, scanWarning := range warnings {
		logger.Warn(warningScanEntryMessage,
			zap.String("path", scanWarning.RelativePath),
			zap.String("reason", scanWarning.Message))
	}

	summary := types.RunSummary{
		FilesListed:   len(scanResult.FilePaths),
		FilesIncluded: len(includedFiles),
		ArtifactBytes: int64(len(artifactText)),
		ArtifactPath:  outputPath,
	}

	if options.tokensEnabled {
		counter, encodingName, counterError := tokenizer.NewCounter(options.tokenizerModel)
		if counterError != nil {
			logger.Warn(warningTokenCountMessage, zap.Error(counterError))
		} else if tokenCount, countError := counter.CountString(artifactText); countError != nil {
			logger.Warn(warningTokenCountMessage, zap.Error(countError))
		} else {
			summary.Tokens = tokenCount
			summary.Model = encodingName
			logger.Info(tokenEstimateMessage,
				zap.Int("tokens", tokenCount),
				zap.String("model", encodingName))
		}
	}

	if options.copyToClipboard {
		if copyError := clipboard.NewService().Copy(artifactText); copyError != nil {
			logger.Warn(warningClipboardMessage, zap.Error(copyError))
		}
	}

	logger.Info(artifactWrittenMessage,
		zap.String("path", summary.ArtifactPath),
		zap.Int("files_listed", summary.FilesListed),
		zap.Int("files_included", summary.FilesIncluded),
		zap.Int64("bytes", summary.ArtifactBytes),
		zap.Int("warnings", len(warnings)))
	return nil
}

// resolveExtensions determines the extension allow-list for the run. Explicit
// --ext values bypass configuration files entirely; otherwise the local
// configuration wins over the per-user one.
func resolveExtensions(absoluteRootPath string, options runOptions) ([]string, string, bool, error) {
	if len(options.extensionOverride) > 0 {
		filter := scan.NewExtensionFilter(options.extensionOverride)
		if filter.Size() == 0 {
			return nil, "", false, types.ErrNoExtensions
		}
		return options.extensionOverride, "", false, nil
	}

	localPath := config.LocalConfigurationPath(absoluteRootPath)
	if options.configurationPath != "" {
		localPath = options.configurationPath
	}
	localConfigurations, localLoadError := config.LoadLanguageConfigurations(localPath)
	if localLoadError != nil {
		return nil, "", false, localLoadError
	}

	globalConfigurations, globalLoadError := config.LoadLanguageConfigurations(config.GlobalConfigurationPath())
	if globalLoadError != nil {
		return nil, "", false, globalLoadError
	}

	return config.ResolveExtensionSet(localConfigurations, globalConfigurations, options.languageName)
}
