package detect

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// javaScriptFrameworkPackages maps npm package names to framework names,
// evaluated in order so the reported list is stable.
var javaScriptFrameworkPackages = []struct {
	packageName   string
	frameworkName string
}{
	{packageName: "next", frameworkName: "Next.js"},
	{packageName: "nuxt", frameworkName: "Nuxt"},
	{packageName: "react", frameworkName: "React"},
	{packageName: "vue", frameworkName: "Vue"},
	{packageName: "@angular/core", frameworkName: "Angular"},
	{packageName: "svelte", frameworkName: "Svelte"},
	{packageName: "vite", frameworkName: "Vite"},
	{packageName: "express", frameworkName: "Express"},
}

type npmManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

type javaScriptDetector struct{}

func (javaScriptDetector) Name() string { return "javascript" }

func (javaScriptDetector) Detect(rootPath string) ([]string, error) {
	manifestPath := filepath.Join(rootPath, "package.json")
	manifestBytes, readError := os.ReadFile(manifestPath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return nil, nil
		}
		return nil, fmt.Errorf("read package.json: %w", readError)
	}
	var manifest npmManifest
	if unmarshalError := json.Unmarshal(manifestBytes, &manifest); unmarshalError != nil {
		return nil, fmt.Errorf("parse package.json: %w", unmarshalError)
	}

	hasPackage := func(packageName string) bool {
		if _, exists := manifest.Dependencies[packageName]; exists {
			return true
		}
		_, exists := manifest.DevDependencies[packageName]
		return exists
	}

	var frameworks []string
	for _, rule := range javaScriptFrameworkPackages {
		if hasPackage(rule.packageName) {
			frameworks = append(frameworks, rule.frameworkName)
		}
	}
	if len(frameworks) == 0 {
		return []string{"Node.js"}, nil
	}
	return frameworks, nil
}
