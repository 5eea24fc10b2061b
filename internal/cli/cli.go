// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/llmprimer/llmprimer/internal/config"
	"github.com/llmprimer/llmprimer/internal/render"
	"github.com/llmprimer/llmprimer/internal/utils"
)

const (
	languageFlagName     = "language"
	extensionFlagName    = "ext"
	configFlagName       = "config"
	noGitignoreFlagName  = "no-gitignore"
	maxFileBytesFlagName = "max-file-bytes"
	tokensFlagName       = "tokens"
	modelFlagName        = "model"
	copyFlagName         = "copy"
	versionFlagName      = "version"
	globalFlagName       = "global"
	forceFlagName        = "force"

	versionTemplate = "llmprimer version: %s\n"
	defaultPath     = "."

	rootUse              = "llmprimer [path]"
	rootShortDescription = "llmprimer builds a single-file repository dump for LLM context"
	rootLongDescription  = `llmprimer scans a directory tree, prunes it with built-in exclusions and
.gitignore rules, selects file contents by extension, and writes one
concatenated text artifact to ` + utils.ContextDirectoryName + `/` + utils.DumpFileName + ` under the scanned root.
The extension allow-list comes from --ext, from the local configuration in
` + utils.ContextDirectoryName + `/` + utils.ConfigFileName + `, or from the per-user configuration selected with --language.`
	rootUsageExample = `  # Dump the current repository using the local configuration
  llmprimer

  # Dump a Go repository using the per-user configuration
  llmprimer --language go ~/src/service

  # Dump with an explicit allow-list and copy the result to the clipboard
  llmprimer --ext .py --ext .md --copy .`

	initUse              = "init"
	initShortDescription = "write the default language configuration"
	initLongDescription  = `Write the default language configuration template.
By default the template is written into the working directory's ` + utils.ContextDirectoryName + ` directory;
use --global to write the per-user configuration instead.`

	languageFlagDescription     = "language whose extension allow-list should be used"
	extensionFlagDescription    = "extension to include (repeatable, overrides configuration)"
	configFlagDescription       = "explicit configuration file path"
	disableGitignoreDescription = "do not apply .gitignore patterns"
	maxFileBytesDescription     = "maximum bytes embedded per file before truncation"
	tokensFlagDescription       = "report an estimated token count for the artifact"
	modelFlagDescription        = "tokenizer model used for the token estimate"
	copyFlagDescription         = "copy the artifact text to the system clipboard"
	versionFlagDescription      = "display application version"
	globalFlagDescription       = "write the per-user configuration"
	forceFlagDescription        = "overwrite an existing configuration"

	initializedConfigurationMessage = "configuration written"
)

// Execute runs the llmprimer application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// createRootCommand builds the root cobra command, which performs the dump run.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool
	var options runOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			rootArgument := defaultPath
			if len(arguments) == 1 {
				rootArgument = arguments[0]
			}
			return runDump(logger, rootArgument, options)
		},
	}

	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().StringVar(&options.languageName, languageFlagName, "", languageFlagDescription)
	rootCommand.Flags().StringArrayVar(&options.extensionOverride, extensionFlagName, nil, extensionFlagDescription)
	rootCommand.Flags().StringVar(&options.configurationPath, configFlagName, "", configFlagDescription)
	rootCommand.Flags().BoolVar(&options.disableGitignore, noGitignoreFlagName, false, disableGitignoreDescription)
	rootCommand.Flags().Int64Var(&options.maxFileBytes, maxFileBytesFlagName, render.DefaultMaxFileBytes, maxFileBytesDescription)
	rootCommand.Flags().BoolVar(&options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	rootCommand.Flags().StringVar(&options.tokenizerModel, modelFlagName, "", modelFlagDescription)
	rootCommand.Flags().BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)

	rootCommand.AddCommand(createInitCommand(logger))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand(logger *zap.Logger) *cobra.Command {
	var writeGlobal bool
	var forceOverwrite bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			destinationPath, initializeError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  forceOverwrite,
			})
			if initializeError != nil {
				return initializeError
			}
			logger.Info(initializedConfigurationMessage, zap.String("path", destinationPath))
			return nil
		},
	}

	initCommand.Flags().BoolVar(&writeGlobal, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&forceOverwrite, forceFlagName, false, forceFlagDescription)
	return initCommand
}
