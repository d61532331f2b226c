// Package utils contains general helper functions used across the codescout tool.
package utils

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{}, len(patterns))
	result := make([]string, 0, len(patterns))
	for _, patternValue := range patterns {
		if _, exists := encounteredPatterns[patternValue]; exists {
			continue
		}
		encounteredPatterns[patternValue] = struct{}{}
		result = append(result, patternValue)
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// ShouldExcludeEntry reports whether a directory entry matches any exclude
// pattern. A pattern with a trailing slash only excludes directories; every
// other pattern is evaluated against the entry name with filepath.Match
// semantics, so plain names such as "node_modules" match themselves and globs
// such as "*.log" work too.
func ShouldExcludeEntry(directoryEntry fs.DirEntry, excludePatterns []string) bool {
	entryName := directoryEntry.Name()
	for _, patternValue := range excludePatterns {
		if strings.HasSuffix(patternValue, "/") {
			if directoryEntry.IsDir() && entryName == strings.TrimSuffix(patternValue, "/") {
				return true
			}
			continue
		}
		if isMatched, matchError := filepath.Match(patternValue, entryName); matchError == nil && isMatched {
			return true
		}
	}
	return false
}
