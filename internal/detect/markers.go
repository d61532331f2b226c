package detect

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/codescout/codescout/internal/utils"
)

// markerFiles maps single manifest files to stack names for ecosystems where
// presence alone is conclusive.
var markerFiles = []struct {
	fileName  string
	stackName string
}{
	{fileName: "Cargo.toml", stackName: "Rust"},
	{fileName: "pom.xml", stackName: "Java (Maven)"},
	{fileName: "build.gradle", stackName: "Java (Gradle)"},
	{fileName: "build.gradle.kts", stackName: "Java (Gradle)"},
}

type markerDetector struct{}

func (markerDetector) Name() string { return "markers" }

func (markerDetector) Detect(rootPath string) ([]string, error) {
	var stacks []string
	for _, marker := range markerFiles {
		if fileExists(filepath.Join(rootPath, marker.fileName)) && !utils.ContainsString(stacks, marker.stackName) {
			stacks = append(stacks, marker.stackName)
		}
	}

	gemfilePath := filepath.Join(rootPath, "Gemfile")
	if gemfileBytes, readError := os.ReadFile(gemfilePath); readError == nil {
		if strings.Contains(string(gemfileBytes), "rails") {
			stacks = append(stacks, "Ruby on Rails")
		} else {
			stacks = append(stacks, "Ruby")
		}
	}
	return stacks, nil
}
