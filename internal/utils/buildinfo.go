package utils

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion   = "unknown"
	gitDirectoryName = ".git"
)

// GetApplicationVersion determines the application version. It prefers Go build
// info and falls back to git describe when running from a source checkout.
func GetApplicationVersion() string {
	buildInformation, buildInformationAvailable := debug.ReadBuildInfo()
	if buildInformationAvailable && buildInformation.Main.Version != "" && buildInformation.Main.Version != "(devel)" {
		return buildInformation.Main.Version
	}

	repositoryRoot, repositoryLookupError := findGitRepositoryRoot(".")
	if repositoryLookupError != nil {
		return unknownVersion
	}

	// #nosec G204
	describeExactCommand := exec.Command("git", "describe", "--tags", "--exact-match")
	describeExactCommand.Dir = repositoryRoot
	if describeOutput, describeError := describeExactCommand.Output(); describeError == nil && len(describeOutput) > 0 {
		return strings.TrimSpace(string(describeOutput))
	}

	// #nosec G204
	describeLongCommand := exec.Command("git", "describe", "--tags", "--long", "--dirty")
	describeLongCommand.Dir = repositoryRoot
	if describeOutput, describeError := describeLongCommand.Output(); describeError == nil && len(describeOutput) > 0 {
		return strings.TrimSpace(string(describeOutput))
	}

	return unknownVersion
}

// findGitRepositoryRoot walks upward from the starting directory until it finds
// a directory containing .git and returns that directory.
func findGitRepositoryRoot(startDirectory string) (string, error) {
	absoluteDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", absoluteError
	}

	currentDirectory := absoluteDirectory
	for {
		gitPath := filepath.Join(currentDirectory, gitDirectoryName)
		pathInformation, statError := os.Stat(gitPath)
		if statError == nil && pathInformation.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", os.ErrNotExist
		}
		currentDirectory = parentDirectory
	}
}
