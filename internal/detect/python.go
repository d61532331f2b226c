package detect

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/codescout/codescout/internal/utils"
)

// pythonFrameworkPackages maps requirement names to framework names,
// evaluated in order so the reported list is stable.
var pythonFrameworkPackages = []struct {
	packageName   string
	frameworkName string
}{
	{packageName: "django", frameworkName: "Django"},
	{packageName: "flask", frameworkName: "Flask"},
	{packageName: "fastapi", frameworkName: "FastAPI"},
}

type pythonDetector struct{}

func (pythonDetector) Name() string { return "python" }

func (pythonDetector) Detect(rootPath string) ([]string, error) {
	requirementNames, requirementsPresent, requirementsError := readRequirementNames(filepath.Join(rootPath, "requirements.txt"))
	if requirementsError != nil {
		return nil, requirementsError
	}

	pyprojectContent, pyprojectPresent, pyprojectError := readOptionalFile(filepath.Join(rootPath, "pyproject.toml"))
	if pyprojectError != nil {
		return nil, pyprojectError
	}

	managePresent := fileExists(filepath.Join(rootPath, "manage.py"))
	setupPresent := fileExists(filepath.Join(rootPath, "setup.py"))

	hasRequirement := func(packageName string) bool {
		if _, exists := requirementNames[packageName]; exists {
			return true
		}
		return strings.Contains(pyprojectContent, packageName)
	}

	var frameworks []string
	for _, rule := range pythonFrameworkPackages {
		if hasRequirement(rule.packageName) {
			frameworks = append(frameworks, rule.frameworkName)
		}
	}
	if managePresent && !utils.ContainsString(frameworks, "Django") {
		frameworks = append(frameworks, "Django")
	}
	if len(frameworks) == 0 {
		if requirementsPresent || pyprojectPresent || managePresent || setupPresent {
			return []string{"Python"}, nil
		}
		return nil, nil
	}
	return frameworks, nil
}

// readRequirementNames parses requirement lines into lower-case package names,
// cutting version specifiers and extras.
func readRequirementNames(requirementsPath string) (map[string]struct{}, bool, error) {
	fileHandle, openError := os.Open(requirementsPath)
	if openError != nil {
		if os.IsNotExist(openError) {
			return map[string]struct{}{}, false, nil
		}
		return nil, false, fmt.Errorf("open requirements.txt: %w", openError)
	}
	defer fileHandle.Close()

	names := map[string]struct{}{}
	lineScanner := bufio.NewScanner(fileHandle)
	for lineScanner.Scan() {
		trimmedLine := strings.TrimSpace(lineScanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") || strings.HasPrefix(trimmedLine, "-") {
			continue
		}
		packageName := trimmedLine
		for _, separator := range []string{"==", ">=", "<=", "~=", ">", "<", "[", ";", " "} {
			if separatorIndex := strings.Index(packageName, separator); separatorIndex >= 0 {
				packageName = packageName[:separatorIndex]
			}
		}
		packageName = strings.ToLower(strings.TrimSpace(packageName))
		if packageName != "" {
			names[packageName] = struct{}{}
		}
	}
	if scanError := lineScanner.Err(); scanError != nil {
		return nil, true, fmt.Errorf("read requirements.txt: %w", scanError)
	}
	return names, true, nil
}

func readOptionalFile(path string) (string, bool, error) {
	contentBytes, readError := os.ReadFile(path)
	if readError != nil {
		if os.IsNotExist(readError) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", filepath.Base(path), readError)
	}
	return strings.ToLower(string(contentBytes)), true, nil
}

func fileExists(path string) bool {
	pathInformation, statError := os.Stat(path)
	return statError == nil && !pathInformation.IsDir()
}
