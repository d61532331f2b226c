package analyze

import (
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/codescout/codescout/internal/ollama"
)

var codeFenceExpression = regexp.MustCompile("```[a-zA-Z]*\n|```")

// stripCodeFences removes markdown code fences such as ```json ... ``` so the
// selection reply can be decoded even when the model wraps it.
func stripCodeFences(rawReply string) string {
	return strings.TrimSpace(codeFenceExpression.ReplaceAllString(rawReply, ""))
}

// ParseSelection decodes the model's file selection reply. Anything other
// than a JSON array of strings, optionally wrapped in code fences, is
// rejected as a malformed model response.
func ParseSelection(rawReply string) ([]string, error) {
	cleanedReply := stripCodeFences(rawReply)
	if cleanedReply == "" || cleanedReply == "null" {
		return nil, fmt.Errorf("%w: selection reply is empty", ollama.ErrMalformedResponse)
	}
	var selectedPaths []string
	if unmarshalError := json.Unmarshal([]byte(cleanedReply), &selectedPaths); unmarshalError != nil {
		return nil, fmt.Errorf("%w: selection reply is not a JSON array of file paths", ollama.ErrMalformedResponse)
	}
	return selectedPaths, nil
}

// FilterSelection normalizes the selected paths and keeps the ones present in
// the scanned listing, preserving the model's order. Paths outside the
// listing are dropped with a warning so a hallucinated file never reaches the
// reader. Duplicates collapse to their first occurrence.
func FilterSelection(selectedPaths []string, listedPaths []string, logger *zap.Logger) []string {
	knownPaths := make(map[string]struct{}, len(listedPaths))
	for _, listedPath := range listedPaths {
		knownPaths[listedPath] = struct{}{}
	}

	var keptPaths []string
	seenPaths := make(map[string]struct{}, len(selectedPaths))
	for _, selectedPath := range selectedPaths {
		normalizedPath := normalizeSelectedPath(selectedPath)
		if normalizedPath == "" {
			logger.Warn("ignoring empty path in model selection")
			continue
		}
		if _, known := knownPaths[normalizedPath]; !known {
			logger.Warn("ignoring selected path outside the scanned listing", zap.String("path", selectedPath))
			continue
		}
		if _, seen := seenPaths[normalizedPath]; seen {
			continue
		}
		seenPaths[normalizedPath] = struct{}{}
		keptPaths = append(keptPaths, normalizedPath)
	}
	return keptPaths
}

func normalizeSelectedPath(selectedPath string) string {
	cleanedPath := strings.TrimSpace(selectedPath)
	cleanedPath = strings.ReplaceAll(cleanedPath, "\\", "/")
	cleanedPath = path.Clean(cleanedPath)
	if cleanedPath == "." || cleanedPath == "/" || cleanedPath == "" {
		return ""
	}
	return cleanedPath
}
