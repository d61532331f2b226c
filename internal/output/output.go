// Package output renders analysis reports in the supported formats.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/codescout/codescout/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	analysisHeader = "=== Analysis Results ==="

	projectLabel   = "Project: "
	frameworkLabel = "Frameworks: "
	selectedLabel  = "Selected files: "
	skippedLabel   = "Skipped files: "
	omittedLabel   = "Omitted files: "
	elapsedLabel   = "Elapsed: "

	emptyListPlaceholder = "(none)"
)

// IsSupportedFormat reports whether formatName is a renderable format.
func IsSupportedFormat(formatName string) bool {
	switch formatName {
	case types.FormatHuman, types.FormatJSON, types.FormatYAML:
		return true
	}
	return false
}

// Render returns the report in the requested format.
func Render(report *types.Report, formatName string) (string, error) {
	switch formatName {
	case types.FormatJSON:
		return renderJSON(report)
	case types.FormatYAML:
		return renderYAML(report)
	case types.FormatHuman:
		return renderHuman(report), nil
	}
	return "", fmt.Errorf("unsupported output format: %s", formatName)
}

func renderJSON(report *types.Report) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(report, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

func renderYAML(report *types.Report) (string, error) {
	encoded, yamlEncodeError := yaml.Marshal(report)
	return string(encoded), yamlEncodeError
}

func renderHuman(report *types.Report) string {
	headerColor := color.New(color.FgCyan, color.Bold)
	var humanBuilder strings.Builder

	humanBuilder.WriteString(projectLabel + report.ProjectPath + "\n")
	if len(report.Frameworks) > 0 {
		humanBuilder.WriteString(frameworkLabel + strings.Join(report.Frameworks, ", ") + "\n")
	}
	humanBuilder.WriteString(summaryLine(report) + "\n")
	humanBuilder.WriteString(selectedLabel + joinOrPlaceholder(report.SelectedFiles) + "\n")
	if len(report.SkippedFiles) > 0 {
		humanBuilder.WriteString(skippedLabel + strings.Join(report.SkippedFiles, ", ") + "\n")
	}
	if len(report.OmittedFiles) > 0 {
		humanBuilder.WriteString(omittedLabel + strings.Join(report.OmittedFiles, ", ") + "\n")
	}
	if report.Elapsed != "" {
		humanBuilder.WriteString(elapsedLabel + report.Elapsed + "\n")
	}
	humanBuilder.WriteString("\n" + headerColor.Sprint(analysisHeader) + "\n\n")
	humanBuilder.WriteString(report.Analysis)
	if !strings.HasSuffix(report.Analysis, "\n") {
		humanBuilder.WriteString("\n")
	}
	return humanBuilder.String()
}

// summaryLine mirrors the scan totals in one line. Token and model suffixes
// appear only when known.
func summaryLine(report *types.Report) string {
	fileLabel := "files"
	if report.ScannedFiles == 1 {
		fileLabel = "file"
	}
	tokenSuffix := ""
	if report.PromptTokens > 0 {
		tokenSuffix = fmt.Sprintf(", %d prompt tokens", report.PromptTokens)
	}
	modelSuffix := ""
	if report.Model != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", report.Model)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s%s", report.ScannedFiles, fileLabel, report.TotalSize, tokenSuffix, modelSuffix)
}

func joinOrPlaceholder(listedItems []string) string {
	if len(listedItems) == 0 {
		return emptyListPlaceholder
	}
	return strings.Join(listedItems, ", ")
}
