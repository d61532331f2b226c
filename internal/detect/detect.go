// Package detect identifies the frameworks and technology stacks of a project
// by inspecting well-known manifests at its root. Detection is deterministic
// and local; it never calls the network and never fails an analysis run.
package detect

import (
	"sort"

	"go.uber.org/zap"
)

type detector interface {
	Name() string
	Detect(rootPath string) ([]string, error)
}

func buildDetectors() []detector {
	return []detector{
		goDetector{},
		javaScriptDetector{},
		pythonDetector{},
		phpDetector{},
		markerDetector{},
	}
}

// Frameworks runs every detector against the project root and returns a
// sorted, de-duplicated list of detected framework names. Individual detector
// failures are logged and skipped so a broken manifest cannot break a run.
func Frameworks(rootPath string, logger *zap.Logger) []string {
	seenNames := map[string]struct{}{}
	var detectedNames []string
	for _, currentDetector := range buildDetectors() {
		names, detectError := currentDetector.Detect(rootPath)
		if detectError != nil {
			logger.Debug("framework detection failed",
				zap.String("detector", currentDetector.Name()), zap.Error(detectError))
			continue
		}
		for _, name := range names {
			if _, exists := seenNames[name]; exists {
				continue
			}
			seenNames[name] = struct{}{}
			detectedNames = append(detectedNames, name)
		}
	}
	sort.Strings(detectedNames)
	return detectedNames
}
