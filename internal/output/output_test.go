package output_test

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/codescout/codescout/internal/output"
	"github.com/codescout/codescout/internal/types"
)

func sampleReport() *types.Report {
	return &types.Report{
		ProjectPath:   "/srv/demo",
		Prompt:        "explain the project",
		Model:         "codegemma",
		Frameworks:    []string{"Laravel", "Vue"},
		ScannedFiles:  42,
		TotalSize:     "1.3mb",
		SelectedFiles: []string{"composer.json", "vite.config.js"},
		SkippedFiles:  []string{"blob.bin"},
		PromptTokens:  1234,
		Analysis:      "Routing is configured in web.php.",
		Elapsed:       "3.4s",
	}
}

func TestRenderHumanShowsSummaryAndVerbatimAnalysis(t *testing.T) {
	rendered, err := output.Render(sampleReport(), types.FormatHuman)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	for _, expected := range []string{
		"Project: /srv/demo",
		"Frameworks: Laravel, Vue",
		"Summary: 42 files, 1.3mb, 1234 prompt tokens (model: codegemma)",
		"Selected files: composer.json, vite.config.js",
		"Skipped files: blob.bin",
		"=== Analysis Results ===",
		"Routing is configured in web.php.",
	} {
		if !strings.Contains(rendered, expected) {
			t.Fatalf("expected %q in human output:\n%s", expected, rendered)
		}
	}
}

func TestRenderHumanMarksEmptySelection(t *testing.T) {
	report := sampleReport()
	report.SelectedFiles = nil
	report.SkippedFiles = nil
	rendered, err := output.Render(report, types.FormatHuman)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(rendered, "Selected files: (none)") {
		t.Fatalf("expected empty selection placeholder:\n%s", rendered)
	}
	if strings.Contains(rendered, "Skipped files:") {
		t.Fatalf("expected skipped line to be omitted:\n%s", rendered)
	}
}

func TestRenderJSONRoundTripsReport(t *testing.T) {
	rendered, err := output.Render(sampleReport(), types.FormatJSON)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	var decoded types.Report
	if err := json.Unmarshal([]byte(rendered), &decoded); err != nil {
		t.Fatalf("unmarshal rendered JSON: %v", err)
	}
	if decoded.Analysis != "Routing is configured in web.php." {
		t.Fatalf("unexpected analysis after round trip: %q", decoded.Analysis)
	}
	if decoded.ScannedFiles != 42 {
		t.Fatalf("unexpected scanned files after round trip: %d", decoded.ScannedFiles)
	}
}

func TestRenderYAMLRoundTripsReport(t *testing.T) {
	rendered, err := output.Render(sampleReport(), types.FormatYAML)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	var decoded types.Report
	if err := yaml.Unmarshal([]byte(rendered), &decoded); err != nil {
		t.Fatalf("unmarshal rendered YAML: %v", err)
	}
	if decoded.Model != "codegemma" {
		t.Fatalf("unexpected model after round trip: %q", decoded.Model)
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	if _, err := output.Render(sampleReport(), "toml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if output.IsSupportedFormat("toml") {
		t.Fatalf("expected toml to be unsupported")
	}
	for _, supported := range []string{types.FormatHuman, types.FormatJSON, types.FormatYAML} {
		if !output.IsSupportedFormat(supported) {
			t.Fatalf("expected %q to be supported", supported)
		}
	}
}
