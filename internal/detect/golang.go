package detect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// goFrameworkModules maps module path prefixes to framework names, evaluated
// in order so the reported list is stable.
var goFrameworkModules = []struct {
	modulePrefix  string
	frameworkName string
}{
	{modulePrefix: "github.com/gin-gonic/gin", frameworkName: "Gin"},
	{modulePrefix: "github.com/labstack/echo", frameworkName: "Echo"},
	{modulePrefix: "github.com/gofiber/fiber", frameworkName: "Fiber"},
	{modulePrefix: "github.com/go-chi/chi", frameworkName: "Chi"},
	{modulePrefix: "github.com/spf13/cobra", frameworkName: "Cobra"},
	{modulePrefix: "google.golang.org/grpc", frameworkName: "gRPC"},
}

type goDetector struct{}

func (goDetector) Name() string { return "go" }

func (goDetector) Detect(rootPath string) ([]string, error) {
	modPath := filepath.Join(rootPath, "go.mod")
	modBytes, readError := os.ReadFile(modPath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return nil, nil
		}
		return nil, fmt.Errorf("read go.mod: %w", readError)
	}
	parsedModFile, parseError := modfile.Parse("go.mod", modBytes, nil)
	if parseError != nil {
		return nil, fmt.Errorf("parse go.mod: %w", parseError)
	}

	var frameworks []string
	for _, rule := range goFrameworkModules {
		for _, requirement := range parsedModFile.Require {
			if requirement == nil || requirement.Indirect {
				continue
			}
			if strings.HasPrefix(requirement.Mod.Path, rule.modulePrefix) {
				frameworks = append(frameworks, rule.frameworkName)
				break
			}
		}
	}
	if len(frameworks) == 0 {
		return []string{"Go"}, nil
	}
	return frameworks, nil
}
