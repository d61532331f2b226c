package scan

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/codescout/codescout/internal/types"
	"github.com/codescout/codescout/internal/utils"
)

const truncationMarker = "\n\n[... content truncated (file too large) ...]\n\n"

// CollectContents reads the selected files relative to the project root, in
// selection order. Files that are missing, unreadable, binary, or not regular
// are skipped with a warning and returned in the second slice; reading never
// fails the run. Files larger than maxFileBytes keep their head and tail
// around a truncation marker so both the imports and the trailing definitions
// stay visible.
func CollectContents(rootPath string, selectedPaths []string, maxFileBytes int64, logger *zap.Logger) ([]types.FileContent, []string) {
	var contents []types.FileContent
	var skippedPaths []string

	for _, selectedPath := range selectedPaths {
		fullPath := filepath.Join(rootPath, filepath.FromSlash(selectedPath))
		fileContent, readError := readFileContent(fullPath, maxFileBytes)
		if readError != nil {
			logger.Warn("skipping selected file", zap.String("path", selectedPath), zap.Error(readError))
			skippedPaths = append(skippedPaths, selectedPath)
			continue
		}
		fileContent.Path = selectedPath
		contents = append(contents, fileContent)
	}
	return contents, skippedPaths
}

func readFileContent(fullPath string, maxFileBytes int64) (types.FileContent, error) {
	pathInformation, statError := os.Stat(fullPath)
	if statError != nil {
		return types.FileContent{}, fmt.Errorf("stat: %w", statError)
	}
	if pathInformation.IsDir() {
		return types.FileContent{}, fmt.Errorf("path is a directory")
	}
	if !pathInformation.Mode().IsRegular() {
		return types.FileContent{}, fmt.Errorf("path is not a regular file")
	}

	fileBytes, readError := os.ReadFile(fullPath)
	if readError != nil {
		return types.FileContent{}, fmt.Errorf("read: %w", readError)
	}
	if utils.IsBinary(fileBytes) {
		return types.FileContent{}, fmt.Errorf("file appears to be binary")
	}

	if maxFileBytes > 0 && int64(len(fileBytes)) > maxFileBytes {
		halfWindow := maxFileBytes / 2
		headContent := string(fileBytes[:halfWindow])
		tailContent := string(fileBytes[int64(len(fileBytes))-halfWindow:])
		return types.FileContent{
			Content:   headContent + truncationMarker + tailContent,
			Truncated: true,
		}, nil
	}
	return types.FileContent{Content: string(fileBytes)}, nil
}
