// Package scan walks a project directory into an ordered file listing and
// collects the contents of selected files for analysis.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/codescout/codescout/internal/types"
	"github.com/codescout/codescout/internal/utils"
)

// ErrInvalidPath reports a project root that does not exist or is not a directory.
var ErrInvalidPath = errors.New("invalid project path")

// ValidateRoot resolves the project root into an absolute path and verifies it
// is an existing directory.
func ValidateRoot(rootPath string) (types.ValidatedPath, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return types.ValidatedPath{}, fmt.Errorf("%w: cannot resolve %q: %v", ErrInvalidPath, rootPath, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)

	pathInformation, statError := os.Stat(cleanedRootPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return types.ValidatedPath{}, fmt.Errorf("%w: path %q does not exist", ErrInvalidPath, rootPath)
		}
		return types.ValidatedPath{}, fmt.Errorf("%w: cannot access %q: %v", ErrInvalidPath, rootPath, statError)
	}
	if !pathInformation.IsDir() {
		return types.ValidatedPath{}, fmt.Errorf("%w: path %q is not a directory", ErrInvalidPath, rootPath)
	}
	return types.ValidatedPath{AbsolutePath: cleanedRootPath, IsDir: true}, nil
}

// Scan validates the project root and walks it into a listing of regular
// files. Directories and files whose name matches an exclude pattern are
// skipped; directory symlinks are never followed. The listing holds paths
// relative to the root in forward-slash form, sorted lexicographically, with
// no duplicates.
func Scan(rootPath string, excludePatterns []string, logger *zap.Logger) ([]types.FileEntry, error) {
	validatedRoot, validationError := ValidateRoot(rootPath)
	if validationError != nil {
		return nil, validationError
	}

	var entries []types.FileEntry

	walkError := filepath.WalkDir(validatedRoot.AbsolutePath, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			logger.Warn("cannot access path, skipping", zap.String("path", walkedPath), zap.Error(accessError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if walkedPath == validatedRoot.AbsolutePath {
			return nil
		}
		if utils.ShouldExcludeEntry(directoryEntry, excludePatterns) {
			if directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() {
			return nil
		}
		if !directoryEntry.Type().IsRegular() {
			return nil
		}

		relativePath, relativeError := filepath.Rel(validatedRoot.AbsolutePath, walkedPath)
		if relativeError != nil {
			logger.Warn("cannot relativize path, skipping", zap.String("path", walkedPath), zap.Error(relativeError))
			return nil
		}
		entryInformation, infoError := directoryEntry.Info()
		var entrySize int64
		if infoError != nil {
			logger.Warn("cannot stat file", zap.String("path", walkedPath), zap.Error(infoError))
		} else {
			entrySize = entryInformation.Size()
		}
		entries = append(entries, types.FileEntry{Path: filepath.ToSlash(relativePath), Size: entrySize})
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf("scan %s: %w", validatedRoot.AbsolutePath, walkError)
	}

	sort.Slice(entries, func(firstIndex, secondIndex int) bool {
		return entries[firstIndex].Path < entries[secondIndex].Path
	})
	return entries, nil
}

// TotalSize sums the sizes of every entry in the listing.
func TotalSize(entries []types.FileEntry) int64 {
	var total int64
	for _, entry := range entries {
		total += entry.Size
	}
	return total
}

// Paths projects the listing onto its relative paths, preserving order.
func Paths(entries []types.FileEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, entry.Path)
	}
	return paths
}
