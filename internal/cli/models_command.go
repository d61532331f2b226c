package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/codescout/codescout/internal/config"
	"github.com/codescout/codescout/internal/ollama"
	"github.com/codescout/codescout/internal/output"
	"github.com/codescout/codescout/internal/types"
)

const (
	modelsUse              = types.CommandModels
	modelsShortDescription = "list the models installed on the inference service"
	modelsLongDescription  = `Query the inference service for its installed models and print
name, size, and modification time. Warns when the configured model is missing.`

	modelsTableHeaderFormat = "%-36s %10s  %s\n"
	modelsTableRowFormat    = "%-36s %10s  %s\n"
	noModelsMessage         = "no models are installed"
)

// modelsOptions stores the flag values of the models command.
type modelsOptions struct {
	host           string
	timeoutSeconds int
	format         string
	configFilePath string
}

// createModelsCommand returns the models subcommand.
func createModelsCommand(verboseEnabled *bool) *cobra.Command {
	var options modelsOptions

	modelsCommand := &cobra.Command{
		Use:   modelsUse,
		Short: modelsShortDescription,
		Long:  modelsLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runModels(command, options, *verboseEnabled)
		},
	}

	commandFlags := modelsCommand.Flags()
	commandFlags.StringVar(&options.host, hostFlagName, "", hostFlagDescription)
	commandFlags.IntVar(&options.timeoutSeconds, timeoutFlagName, 0, timeoutFlagDescription)
	commandFlags.StringVarP(&options.format, formatFlagName, formatFlagShorthand, "", formatFlagDescription)
	commandFlags.StringVar(&options.configFilePath, configFlagName, "", configFlagDescription)

	return modelsCommand
}

// runModels lists the installed models in the requested format.
func runModels(command *cobra.Command, options modelsOptions, verboseEnabled bool) error {
	logger, loggerError := newRunLogger(verboseEnabled)
	if loggerError != nil {
		return loggerError
	}
	defer logger.Sync()

	settings, settingsError := loadRunSettings(options.configFilePath, logger)
	if settingsError != nil {
		return settingsError
	}
	applyModelsOverrides(&settings, command, options)

	if !output.IsSupportedFormat(settings.Format) {
		return fmt.Errorf(invalidFormatMessage, settings.Format)
	}

	client := ollama.New(ollama.Config{Host: settings.Host, Model: settings.Model, Timeout: settings.Timeout()}, logger)
	models, listError := client.ListModels(command.Context())
	if listError != nil {
		return fmt.Errorf("%w"+serviceUnreachableHint, listError, settings.Host)
	}

	if !modelInstalled(settings.Model, models) {
		logger.Warn(modelNotInstalledMessage, zap.String("model", settings.Model))
	}

	rendered, renderError := renderModels(models, settings.Format)
	if renderError != nil {
		return renderError
	}
	fmt.Print(rendered)
	return nil
}

func applyModelsOverrides(settings *config.Settings, command *cobra.Command, options modelsOptions) {
	commandFlags := command.Flags()
	if commandFlags.Changed(hostFlagName) {
		settings.Host = options.host
	}
	if commandFlags.Changed(timeoutFlagName) {
		settings.TimeoutSeconds = options.timeoutSeconds
	}
	if commandFlags.Changed(formatFlagName) {
		settings.Format = strings.ToLower(options.format)
	}
}

// modelInstalled reports whether the configured model matches an installed
// one. A bare name such as codegemma matches any of its tags.
func modelInstalled(configuredModel string, models []types.ModelInfo) bool {
	for _, model := range models {
		if model.Name == configuredModel || strings.HasPrefix(model.Name, configuredModel+":") {
			return true
		}
	}
	return false
}

func renderModels(models []types.ModelInfo, formatName string) (string, error) {
	switch formatName {
	case types.FormatJSON:
		encoded, jsonEncodeError := json.MarshalIndent(models, "", "  ")
		if jsonEncodeError != nil {
			return "", jsonEncodeError
		}
		return string(encoded) + "\n", nil
	case types.FormatYAML:
		encoded, yamlEncodeError := yaml.Marshal(models)
		return string(encoded), yamlEncodeError
	}

	if len(models) == 0 {
		return noModelsMessage + "\n", nil
	}
	var tableBuilder strings.Builder
	tableBuilder.WriteString(fmt.Sprintf(modelsTableHeaderFormat, "NAME", "SIZE", "MODIFIED"))
	for _, model := range models {
		tableBuilder.WriteString(fmt.Sprintf(modelsTableRowFormat, model.Name, model.Size, model.ModifiedAt))
	}
	return tableBuilder.String(), nil
}
