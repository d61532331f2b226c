package analyze

import (
	"fmt"
	"strings"

	"github.com/codescout/codescout/internal/types"
)

const selectionPromptTemplate = `Given the project file listing:
%s
%s
Based on the user request: %q, determine which files are most relevant for analysis.

Return a list of relevant file paths strictly following the JSON format:
["filePath1", "filePath2"]

Example response when composer.json and vite.config.js are the relevant files:
[
    "composer.json",
    "vite.config.js"
]

Only return the JSON array and nothing else. Do not include reasoning or justification.`

const analysisPromptHeader = "The following files were selected for analysis:\n\n"

const analysisPromptFooter = "Perform the requested analysis: %q."

const emptyContentsPlaceholder = "(no readable file contents were available)\n\n"

// buildSelectionPrompt asks the model to pick the files relevant to the user
// request from the scanned listing. Detected frameworks, when present, are
// included as context.
func buildSelectionPrompt(listedPaths []string, frameworks []string, userRequest string) string {
	frameworksSection := "\n"
	if len(frameworks) > 0 {
		frameworksSection = fmt.Sprintf("\nThe project appears to use: %s.\n\n", strings.Join(frameworks, ", "))
	}
	return fmt.Sprintf(selectionPromptTemplate, strings.Join(listedPaths, "\n"), frameworksSection, userRequest)
}

// buildAnalysisPrompt packages the collected file contents together with the
// user request for the final free-form analysis.
func buildAnalysisPrompt(fileContents []types.FileContent, userRequest string) string {
	var promptBuilder strings.Builder
	promptBuilder.WriteString(analysisPromptHeader)
	if len(fileContents) == 0 {
		promptBuilder.WriteString(emptyContentsPlaceholder)
	}
	for _, fileContent := range fileContents {
		promptBuilder.WriteString(fileSection(fileContent))
	}
	promptBuilder.WriteString(fmt.Sprintf(analysisPromptFooter, userRequest))
	return promptBuilder.String()
}

// fileSection renders one file for the analysis prompt. Budgeting counts the
// exact same text, so the estimate tracks what is actually sent.
func fileSection(fileContent types.FileContent) string {
	var sectionBuilder strings.Builder
	sectionBuilder.WriteString("--- ")
	sectionBuilder.WriteString(fileContent.Path)
	sectionBuilder.WriteString(" ---\n")
	sectionBuilder.WriteString(fileContent.Content)
	sectionBuilder.WriteString("\n\n")
	return sectionBuilder.String()
}
