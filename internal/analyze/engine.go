// Package analyze orchestrates the scan, selection, reading, and analysis
// phases of a project analysis run.
package analyze

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/codescout/codescout/internal/detect"
	"github.com/codescout/codescout/internal/ollama"
	"github.com/codescout/codescout/internal/scan"
	"github.com/codescout/codescout/internal/tokenizer"
	"github.com/codescout/codescout/internal/types"
	"github.com/codescout/codescout/internal/utils"
)

// Engine wires the pipeline dependencies together. The zero value is not
// usable; Generator must be set and Logger defaults to a no-op logger.
type Engine struct {
	Generator    ollama.Generator
	Counter      tokenizer.Counter
	Logger       *zap.Logger
	OnPhase      func(phaseName string)
	MaxFileBytes int64
	TokenBudget  int
}

// Request carries the per-invocation inputs for a project analysis.
type Request struct {
	ProjectPath string
	Prompt      string
	Model       string
	Excludes    []string
	SkipDetect  bool
}

// Run executes the pipeline phases in order and assembles the report. Each
// phase failure is terminal and wrapped with the phase name so the CLI can
// print a single line identifying where the run stopped.
func (engine *Engine) Run(executionContext context.Context, request Request) (*types.Report, error) {
	startTime := time.Now()
	logger := engine.logger()

	engine.enterPhase(types.PhaseScanning)
	validatedRoot, validationError := scan.ValidateRoot(request.ProjectPath)
	if validationError != nil {
		return nil, fmt.Errorf("%s phase: %w", types.PhaseScanning, validationError)
	}
	fileEntries, scanError := scan.Scan(validatedRoot.AbsolutePath, request.Excludes, logger)
	if scanError != nil {
		return nil, fmt.Errorf("%s phase: %w", types.PhaseScanning, scanError)
	}
	if len(fileEntries) == 0 {
		return nil, fmt.Errorf("%s phase: no files found under %s", types.PhaseScanning, validatedRoot.AbsolutePath)
	}

	var frameworks []string
	if !request.SkipDetect {
		frameworks = detect.Frameworks(validatedRoot.AbsolutePath, logger)
	}

	engine.enterPhase(types.PhaseSelecting)
	listedPaths := scan.Paths(fileEntries)
	selectionPrompt := buildSelectionPrompt(listedPaths, frameworks, request.Prompt)
	selectionReply, selectionError := engine.Generator.Generate(executionContext, selectionPrompt)
	if selectionError != nil {
		return nil, fmt.Errorf("%s phase: %w", types.PhaseSelecting, selectionError)
	}
	selectedPaths, parseError := ParseSelection(selectionReply)
	if parseError != nil {
		return nil, fmt.Errorf("%s phase: %w", types.PhaseSelecting, parseError)
	}
	keptPaths := FilterSelection(selectedPaths, listedPaths, logger)

	engine.enterPhase(types.PhaseReading)
	fileContents, skippedPaths := scan.CollectContents(validatedRoot.AbsolutePath, keptPaths, engine.MaxFileBytes, logger)
	includedContents, omittedPaths, promptTokens := engine.budgetContents(fileContents, request.Prompt)

	engine.enterPhase(types.PhaseAnalyzing)
	analysisPrompt := buildAnalysisPrompt(includedContents, request.Prompt)
	analysisReply, analysisError := engine.Generator.Generate(executionContext, analysisPrompt)
	if analysisError != nil {
		return nil, fmt.Errorf("%s phase: %w", types.PhaseAnalyzing, analysisError)
	}

	return &types.Report{
		ProjectPath:   validatedRoot.AbsolutePath,
		Prompt:        request.Prompt,
		Model:         request.Model,
		Frameworks:    frameworks,
		ScannedFiles:  len(fileEntries),
		TotalSize:     utils.FormatFileSize(scan.TotalSize(fileEntries)),
		SelectedFiles: keptPaths,
		SkippedFiles:  skippedPaths,
		OmittedFiles:  omittedPaths,
		PromptTokens:  promptTokens,
		Analysis:      analysisReply,
		Elapsed:       time.Since(startTime).Round(time.Millisecond).String(),
	}, nil
}

// budgetContents walks the collected contents in selection order and keeps
// the files that fit the token budget. Counting failures never halt the run;
// they disable budgeting for the remainder with a warning.
func (engine *Engine) budgetContents(fileContents []types.FileContent, userRequest string) ([]types.FileContent, []string, int) {
	if engine.Counter == nil {
		return fileContents, nil, 0
	}
	logger := engine.logger()

	runningTokens, baseCountError := engine.Counter.CountString(buildAnalysisPrompt(nil, userRequest))
	if baseCountError != nil {
		logger.Warn("token counting failed; including every selected file", zap.Error(baseCountError))
		return fileContents, nil, 0
	}

	var includedContents []types.FileContent
	var omittedPaths []string
	for _, fileContent := range fileContents {
		sectionTokens, sectionCountError := engine.Counter.CountString(fileSection(fileContent))
		if sectionCountError != nil {
			logger.Warn("token counting failed for file; including it unbudgeted",
				zap.String("path", fileContent.Path), zap.Error(sectionCountError))
			includedContents = append(includedContents, fileContent)
			continue
		}
		if engine.TokenBudget > 0 && runningTokens+sectionTokens > engine.TokenBudget {
			logger.Warn("omitting file to honor the token budget",
				zap.String("path", fileContent.Path),
				zap.Int("fileTokens", sectionTokens),
				zap.Int("budget", engine.TokenBudget))
			omittedPaths = append(omittedPaths, fileContent.Path)
			continue
		}
		runningTokens += sectionTokens
		includedContents = append(includedContents, fileContent)
	}
	return includedContents, omittedPaths, runningTokens
}

func (engine *Engine) enterPhase(phaseName string) {
	if engine.OnPhase != nil {
		engine.OnPhase(phaseName)
	}
}

func (engine *Engine) logger() *zap.Logger {
	if engine.Logger != nil {
		return engine.Logger
	}
	return zap.NewNop()
}
