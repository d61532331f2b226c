package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codescout/codescout/internal/analyze"
	"github.com/codescout/codescout/internal/config"
	"github.com/codescout/codescout/internal/ollama"
	"github.com/codescout/codescout/internal/output"
	"github.com/codescout/codescout/internal/services/clipboard"
	"github.com/codescout/codescout/internal/tokenizer"
	"github.com/codescout/codescout/internal/types"
	"github.com/codescout/codescout/internal/utils"
)

const (
	analyzeUse              = types.CommandAnalyze + " <project_path>"
	analyzeShortDescription = "analyze a project with the configured model"
	analyzeLongDescription  = `Scan the project tree, ask the model which files are relevant to the prompt,
read them, and print the model's analysis.`
	analyzeUsageExample = `  # Ask about the routing setup
  codescout analyze ./shop --prompt "Where are the routes defined?"

  # Machine readable output with a different model
  codescout analyze . -p "Summarize the project" -m llama3 -f json`
)

// analyzeOptions stores the flag values of the analyze command.
type analyzeOptions struct {
	prompt            string
	model             string
	host              string
	timeoutSeconds    int
	exclusionPatterns []string
	format            string
	copyEnabled       bool
	detectDisabled    bool
	configFilePath    string
}

// createAnalyzeCommand returns the analyze subcommand.
func createAnalyzeCommand(verboseEnabled *bool) *cobra.Command {
	var options analyzeOptions

	analyzeCommand := &cobra.Command{
		Use:     analyzeUse,
		Short:   analyzeShortDescription,
		Long:    analyzeLongDescription,
		Example: analyzeUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runAnalyze(command, arguments[0], options, *verboseEnabled)
		},
	}

	commandFlags := analyzeCommand.Flags()
	commandFlags.StringVarP(&options.prompt, promptFlagName, promptFlagShorthand, "", promptFlagDescription)
	commandFlags.StringVarP(&options.model, modelFlagName, modelFlagShorthand, "", modelFlagDescription)
	commandFlags.StringVar(&options.host, hostFlagName, "", hostFlagDescription)
	commandFlags.IntVar(&options.timeoutSeconds, timeoutFlagName, 0, timeoutFlagDescription)
	commandFlags.StringArrayVarP(&options.exclusionPatterns, excludeFlagName, excludeFlagShorthand, nil, excludeFlagDescription)
	commandFlags.StringVarP(&options.format, formatFlagName, formatFlagShorthand, "", formatFlagDescription)
	commandFlags.BoolVar(&options.copyEnabled, copyFlagName, false, copyFlagDescription)
	commandFlags.BoolVar(&options.detectDisabled, noDetectFlagName, false, noDetectFlagDescription)
	commandFlags.StringVar(&options.configFilePath, configFlagName, "", configFlagDescription)
	_ = analyzeCommand.MarkFlagRequired(promptFlagName)

	return analyzeCommand
}

// runAnalyze executes the full analysis pipeline for one project.
func runAnalyze(command *cobra.Command, projectPath string, options analyzeOptions, verboseEnabled bool) error {
	logger, loggerError := newRunLogger(verboseEnabled)
	if loggerError != nil {
		return loggerError
	}
	defer logger.Sync()

	settings, settingsError := loadRunSettings(options.configFilePath, logger)
	if settingsError != nil {
		return settingsError
	}
	applyAnalyzeOverrides(&settings, command, options)

	if !output.IsSupportedFormat(settings.Format) {
		return fmt.Errorf(invalidFormatMessage, settings.Format)
	}

	client := ollama.New(ollama.Config{Host: settings.Host, Model: settings.Model, Timeout: settings.Timeout()}, logger)
	if pingError := client.Ping(command.Context()); pingError != nil {
		return fmt.Errorf("%w"+serviceUnreachableHint, pingError, settings.Host)
	}

	tokenCounter, encodingName, counterError := tokenizer.NewCounter(tokenizer.Config{Model: settings.TokenizerModel})
	if counterError != nil {
		logger.Warn("token counting disabled", zap.Error(counterError))
		tokenCounter = nil
	} else {
		logger.Debug("token counting enabled", zap.String("encoding", encodingName))
	}

	progress := newPhaseProgress(settings.Format == types.FormatHuman && !verboseEnabled)
	engine := &analyze.Engine{
		Generator:    client,
		Counter:      tokenCounter,
		Logger:       logger,
		OnPhase:      progress.enterPhase,
		MaxFileBytes: settings.MaxFileBytes,
		TokenBudget:  settings.TokenBudget,
	}
	report, runError := engine.Run(command.Context(), analyze.Request{
		ProjectPath: projectPath,
		Prompt:      options.prompt,
		Model:       settings.Model,
		Excludes:    composeExcludes(settings.Exclude),
		SkipDetect:  !settings.DetectEnabled(),
	})
	if runError != nil {
		progress.fail()
		return runError
	}
	progress.finish()

	rendered, renderError := output.Render(report, settings.Format)
	if renderError != nil {
		return renderError
	}
	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}
	fmt.Print(rendered)

	if settings.ClipboardEnabled() {
		if copyError := clipboard.NewService().Copy(report.Analysis); copyError != nil {
			logger.Warn(clipboardCopyFailureMessage, zap.Error(copyError))
		}
	}
	return nil
}

// applyAnalyzeOverrides lets explicitly set flags win over configuration files
// and environment variables.
func applyAnalyzeOverrides(settings *config.Settings, command *cobra.Command, options analyzeOptions) {
	commandFlags := command.Flags()
	if commandFlags.Changed(modelFlagName) {
		settings.Model = options.model
	}
	if commandFlags.Changed(hostFlagName) {
		settings.Host = options.host
	}
	if commandFlags.Changed(timeoutFlagName) {
		settings.TimeoutSeconds = options.timeoutSeconds
	}
	if commandFlags.Changed(formatFlagName) {
		settings.Format = strings.ToLower(options.format)
	}
	if len(options.exclusionPatterns) > 0 {
		settings.Exclude = utils.DeduplicatePatterns(append(settings.Exclude, options.exclusionPatterns...))
	}
	if commandFlags.Changed(copyFlagName) {
		copyValue := options.copyEnabled
		settings.Clipboard = &copyValue
	}
	if options.detectDisabled {
		detectValue := false
		settings.Detect = &detectValue
	}
}

// composeExcludes prepends the built-in denylist to the configured patterns.
func composeExcludes(configuredPatterns []string) []string {
	combined := append(append([]string{}, config.DefaultExcludedDirectories...), configuredPatterns...)
	return utils.DeduplicatePatterns(combined)
}
