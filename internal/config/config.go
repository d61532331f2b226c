// Package config loads codescout settings from global and local YAML files,
// applies environment overrides, and supplies the built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/codescout/codescout/internal/utils"
)

const (
	// GlobalConfigDirectoryName is the directory under the user home that holds the global configuration.
	GlobalConfigDirectoryName = ".codescout"
	// ConfigFileName is the configuration file name used both globally and locally.
	ConfigFileName = "codescout.yaml"

	// HostEnvironmentVariable overrides the inference service address.
	HostEnvironmentVariable = "OLLAMA_HOST"
	// ModelEnvironmentVariable overrides the model name.
	ModelEnvironmentVariable = "OLLAMA_MODEL"

	defaultHost           = "http://127.0.0.1:11434"
	defaultModel          = "codegemma"
	defaultTimeoutSeconds = 120
	defaultMaxFileBytes   = 131072
	defaultTokenBudget    = 8192
	defaultTokenizerModel = "gpt-4o"
)

// DefaultExcludedDirectories lists directory names skipped during scanning.
// Matching is by name at any depth; configuration and flag excludes extend this set.
var DefaultExcludedDirectories = []string{
	".git",
	".hg",
	".svn",
	".idea",
	".vscode",
	".venv",
	"venv",
	"__pycache__",
	"node_modules",
	"bower_components",
	"vendor",
	"dist",
	"build",
	"target",
	".next",
	".nuxt",
	".terraform",
	".cache",
	"coverage",
	"tmp",
}

// LoadOptions controls how configuration files are discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// Settings holds every tunable of the codescout tool.
type Settings struct {
	Host           string   `mapstructure:"host"`
	Model          string   `mapstructure:"model"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
	Format         string   `mapstructure:"format"`
	Exclude        []string `mapstructure:"exclude"`
	MaxFileBytes   int64    `mapstructure:"max_file_bytes"`
	TokenBudget    int      `mapstructure:"token_budget"`
	TokenizerModel string   `mapstructure:"tokenizer_model"`
	Clipboard      *bool    `mapstructure:"clipboard"`
	Detect         *bool    `mapstructure:"detect"`
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		Host:           defaultHost,
		Model:          defaultModel,
		TimeoutSeconds: defaultTimeoutSeconds,
		Format:         "human",
		MaxFileBytes:   defaultMaxFileBytes,
		TokenBudget:    defaultTokenBudget,
		TokenizerModel: defaultTokenizerModel,
	}
}

// Timeout converts the configured timeout into a duration, falling back to the
// default when the value is not positive.
func (settings Settings) Timeout() time.Duration {
	if settings.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(settings.TimeoutSeconds) * time.Second
}

// DetectEnabled reports whether framework detection should run.
func (settings Settings) DetectEnabled() bool {
	return settings.Detect == nil || *settings.Detect
}

// ClipboardEnabled reports whether the analysis should be copied to the clipboard.
func (settings Settings) ClipboardEnabled() bool {
	return settings.Clipboard != nil && *settings.Clipboard
}

// LoadSettings merges the defaults with the global configuration file, a local
// configuration file, and environment overrides, in that order. Implicit files
// that are missing are fine and malformed ones are ignored with a warning. An
// explicit file path replaces the implicit discovery and must load cleanly.
func LoadSettings(options LoadOptions, logger *zap.Logger) (Settings, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return Settings{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	merged := DefaultSettings()

	if options.ExplicitFilePath != "" {
		explicitPath := options.ExplicitFilePath
		if !filepath.IsAbs(explicitPath) {
			explicitPath = filepath.Join(workingDirectory, explicitPath)
		}
		if _, statError := os.Stat(explicitPath); statError != nil {
			return Settings{}, fmt.Errorf("configuration file %s: %w", explicitPath, statError)
		}
		explicitSettings, loadError := loadSettingsFromPath(explicitPath)
		if loadError != nil {
			return Settings{}, loadError
		}
		merged = merged.Merge(explicitSettings)
	} else {
		if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
			globalPath := filepath.Join(homeDirectory, GlobalConfigDirectoryName, ConfigFileName)
			merged = merged.Merge(loadOptionalSettings(globalPath, logger))
		}
		merged = merged.Merge(loadOptionalSettings(filepath.Join(workingDirectory, ConfigFileName), logger))
	}

	merged = applyEnvironmentOverrides(merged)
	merged.Exclude = utils.DeduplicatePatterns(merged.Exclude)

	return merged, nil
}

// loadOptionalSettings loads an implicitly discovered configuration file.
// Load failures degrade to the zero Settings so a broken file never stops a
// run.
func loadOptionalSettings(path string, logger *zap.Logger) Settings {
	loaded, loadError := loadSettingsFromPath(path)
	if loadError != nil {
		logger.Warn("ignoring unreadable configuration file", zap.String("path", path), zap.Error(loadError))
		return Settings{}
	}
	return loaded
}

func loadSettingsFromPath(path string) (Settings, error) {
	pathInformation, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if pathInformation.IsDir() {
		return Settings{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return Settings{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var loaded Settings
	if decodeError := reader.Unmarshal(&loaded); decodeError != nil {
		return Settings{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return loaded, nil
}

func applyEnvironmentOverrides(settings Settings) Settings {
	result := settings
	if hostValue := os.Getenv(HostEnvironmentVariable); hostValue != "" {
		result.Host = hostValue
	}
	if modelValue := os.Getenv(ModelEnvironmentVariable); modelValue != "" {
		result.Model = modelValue
	}
	return result
}

// Merge overlays override onto the receiver returning the combined settings.
// Non-zero override fields win; exclude patterns accumulate.
func (settings Settings) Merge(override Settings) Settings {
	result := settings
	if override.Host != "" {
		result.Host = override.Host
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.TimeoutSeconds > 0 {
		result.TimeoutSeconds = override.TimeoutSeconds
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if len(override.Exclude) > 0 {
		combinedExcludes := append(append([]string{}, result.Exclude...), override.Exclude...)
		result.Exclude = utils.DeduplicatePatterns(combinedExcludes)
	}
	if override.MaxFileBytes > 0 {
		result.MaxFileBytes = override.MaxFileBytes
	}
	if override.TokenBudget > 0 {
		result.TokenBudget = override.TokenBudget
	}
	if override.TokenizerModel != "" {
		result.TokenizerModel = override.TokenizerModel
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.Detect != nil {
		result.Detect = cloneBool(override.Detect)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
