// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codescout/codescout/internal/config"
	"github.com/codescout/codescout/internal/utils"
)

const (
	rootUse              = "codescout"
	rootShortDescription = "codescout command line interface"
	rootLongDescription  = `codescout analyzes a project with a locally served language model.
It scans the project tree, asks the model which files matter for a request,
reads those files, and prints the model's analysis.
Use --format to select human, json, or yaml output and --version to print the application version.`

	versionFlagName        = "version"
	versionFlagDescription = "display application version"
	versionTemplate        = "codescout version: %s\n"

	verboseFlagName        = "verbose"
	verboseFlagShorthand   = "v"
	verboseFlagDescription = "enable debug logging"

	promptFlagName        = "prompt"
	promptFlagShorthand   = "p"
	promptFlagDescription = "analysis request passed to the model"

	modelFlagName        = "model"
	modelFlagShorthand   = "m"
	modelFlagDescription = "model name served by the inference service"

	hostFlagName        = "host"
	hostFlagDescription = "inference service address"

	timeoutFlagName        = "timeout"
	timeoutFlagDescription = "request timeout in seconds"

	excludeFlagName        = "exclude"
	excludeFlagShorthand   = "e"
	excludeFlagDescription = "exclude pattern appended to the built-in denylist"

	formatFlagName        = "format"
	formatFlagShorthand   = "f"
	formatFlagDescription = "output format: human, json, or yaml"

	copyFlagName        = "copy"
	copyFlagDescription = "copy the analysis text to the clipboard"

	noDetectFlagName        = "no-detect"
	noDetectFlagDescription = "skip framework detection"

	configFlagName        = "config"
	configFlagDescription = "settings file used instead of the global and local discovery"

	globalFlagName        = "global"
	globalFlagDescription = "write the global configuration file instead of a local one"

	forceFlagName        = "force"
	forceFlagDescription = "overwrite an existing configuration file"

	invalidFormatMessage        = "invalid format value '%s'"
	serviceUnreachableHint      = " (is the service running at %s?)"
	configInitSuccessTemplate   = "Wrote configuration to %s\n"
	modelNotInstalledMessage    = "configured model is not installed"
	clipboardCopyFailureMessage = "unable to copy analysis to clipboard"
)

// Execute runs the codescout application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var verboseEnabled bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().BoolVarP(&verboseEnabled, verboseFlagName, verboseFlagShorthand, false, verboseFlagDescription)
	rootCommand.AddCommand(
		createAnalyzeCommand(&verboseEnabled),
		createModelsCommand(&verboseEnabled),
		createConfigCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// newRunLogger builds the logger for one command invocation.
func newRunLogger(verboseEnabled bool) (*zap.Logger, error) {
	if verboseEnabled {
		return utils.NewDebugLogger()
	}
	return utils.NewApplicationLogger()
}

// loadRunSettings loads the configuration honoring an explicit settings file.
func loadRunSettings(configFilePath string, logger *zap.Logger) (config.Settings, error) {
	settings, settingsError := config.LoadSettings(config.LoadOptions{ExplicitFilePath: configFilePath}, logger)
	if settingsError != nil {
		return config.Settings{}, settingsError
	}
	settings.Format = strings.ToLower(settings.Format)
	return settings, nil
}
