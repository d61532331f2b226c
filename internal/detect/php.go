package detect

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type composerManifest struct {
	Require    map[string]string `json:"require"`
	RequireDev map[string]string `json:"require-dev"`
}

type phpDetector struct{}

func (phpDetector) Name() string { return "php" }

func (phpDetector) Detect(rootPath string) ([]string, error) {
	var frameworks []string

	if fileExists(filepath.Join(rootPath, "wp-config.php")) {
		frameworks = append(frameworks, "WordPress")
	}

	manifestPath := filepath.Join(rootPath, "composer.json")
	manifestBytes, readError := os.ReadFile(manifestPath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return frameworks, nil
		}
		return nil, fmt.Errorf("read composer.json: %w", readError)
	}
	var manifest composerManifest
	if unmarshalError := json.Unmarshal(manifestBytes, &manifest); unmarshalError != nil {
		return nil, fmt.Errorf("parse composer.json: %w", unmarshalError)
	}

	hasRequirement := func(match func(string) bool) bool {
		for packageName := range manifest.Require {
			if match(packageName) {
				return true
			}
		}
		for packageName := range manifest.RequireDev {
			if match(packageName) {
				return true
			}
		}
		return false
	}

	if hasRequirement(func(name string) bool { return name == "laravel/framework" }) {
		frameworks = append(frameworks, "Laravel")
	}
	if hasRequirement(func(name string) bool { return strings.HasPrefix(name, "symfony/framework") }) {
		frameworks = append(frameworks, "Symfony")
	}
	if len(frameworks) == 0 {
		return []string{"PHP"}, nil
	}
	return frameworks, nil
}
