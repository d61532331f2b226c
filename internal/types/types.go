// Package types defines the cross-package data structures used by the codescout CLI.
package types

const (
	PhaseScanning  = "scanning"
	PhaseSelecting = "selecting"
	PhaseReading   = "reading"
	PhaseAnalyzing = "analyzing"

	CommandAnalyze = "analyze"
	CommandModels  = "models"
	CommandConfig  = "config"

	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ValidatedPath is an absolute project root that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// FileEntry is a single scanned file, relative to the project root.
type FileEntry struct {
	Path string `json:"path" yaml:"path"`
	Size int64  `json:"size" yaml:"size"`
}

// FileContent carries the text of one selected file into the analysis prompt.
type FileContent struct {
	Path      string `json:"path" yaml:"path"`
	Content   string `json:"content" yaml:"content"`
	Truncated bool   `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// ModelInfo describes one model installed on the inference service.
type ModelInfo struct {
	Name       string `json:"name" yaml:"name"`
	Size       string `json:"size,omitempty" yaml:"size,omitempty"`
	ModifiedAt string `json:"modifiedAt,omitempty" yaml:"modifiedAt,omitempty"`
}

// Report is the full result of one analysis run.
type Report struct {
	ProjectPath   string   `json:"projectPath" yaml:"projectPath"`
	Prompt        string   `json:"prompt" yaml:"prompt"`
	Model         string   `json:"model" yaml:"model"`
	Frameworks    []string `json:"frameworks,omitempty" yaml:"frameworks,omitempty"`
	ScannedFiles  int      `json:"scannedFiles" yaml:"scannedFiles"`
	TotalSize     string   `json:"totalSize,omitempty" yaml:"totalSize,omitempty"`
	SelectedFiles []string `json:"selectedFiles" yaml:"selectedFiles"`
	SkippedFiles  []string `json:"skippedFiles,omitempty" yaml:"skippedFiles,omitempty"`
	OmittedFiles  []string `json:"omittedFiles,omitempty" yaml:"omittedFiles,omitempty"`
	PromptTokens  int      `json:"promptTokens,omitempty" yaml:"promptTokens,omitempty"`
	Analysis      string   `json:"analysis" yaml:"analysis"`
	Elapsed       string   `json:"elapsed,omitempty" yaml:"elapsed,omitempty"`
}
