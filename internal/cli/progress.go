package cli

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/codescout/codescout/internal/types"
)

const (
	phaseDoneMark   = "✓"
	phaseFailedMark = "✗"

	spinnerInterval = 100 * time.Millisecond
)

// phaseProgress drives the stderr spinner during an analysis run. A disabled
// instance ignores every call so machine readable formats stay clean.
type phaseProgress struct {
	spinnerInstance *spinner.Spinner
	activeLabel     string
	doneLabel       string
}

func newPhaseProgress(enabled bool) *phaseProgress {
	if !enabled {
		return &phaseProgress{}
	}
	return &phaseProgress{
		spinnerInstance: spinner.New(spinner.CharSets[11], spinnerInterval, spinner.WithWriter(os.Stderr)),
	}
}

// enterPhase marks the previous phase done and starts spinning for the next.
func (progress *phaseProgress) enterPhase(phaseName string) {
	if progress.spinnerInstance == nil {
		return
	}
	progress.markDone()
	progress.activeLabel, progress.doneLabel = phaseLabels(phaseName)
	progress.spinnerInstance.Suffix = " " + progress.activeLabel
	progress.spinnerInstance.Start()
}

// finish stops the spinner after the last phase completed.
func (progress *phaseProgress) finish() {
	if progress.spinnerInstance == nil {
		return
	}
	progress.markDone()
}

// fail stops the spinner and marks the interrupted phase.
func (progress *phaseProgress) fail() {
	if progress.spinnerInstance == nil {
		return
	}
	progress.spinnerInstance.Stop()
	if progress.activeLabel != "" {
		color.New(color.FgRed).Fprintf(os.Stderr, "%s %s\n", phaseFailedMark, progress.activeLabel)
	}
	progress.activeLabel = ""
	progress.doneLabel = ""
}

func (progress *phaseProgress) markDone() {
	progress.spinnerInstance.Stop()
	if progress.doneLabel != "" {
		color.New(color.FgGreen).Fprintf(os.Stderr, "%s %s\n", phaseDoneMark, progress.doneLabel)
	}
	progress.activeLabel = ""
	progress.doneLabel = ""
}

func phaseLabels(phaseName string) (string, string) {
	switch phaseName {
	case types.PhaseScanning:
		return "Scanning project files...", "Scanned project files"
	case types.PhaseSelecting:
		return "Selecting relevant files...", "Selected relevant files"
	case types.PhaseReading:
		return "Reading selected files...", "Read selected files"
	case types.PhaseAnalyzing:
		return "Analyzing with the model...", "Analysis complete"
	}
	return phaseName, phaseName
}
