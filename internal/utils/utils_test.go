package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDeduplicatePatternsKeepsFirstOccurrence(t *testing.T) {
	result := DeduplicatePatterns([]string{"node_modules", "vendor", "node_modules", ".git", "vendor"})
	expected := []string{"node_modules", "vendor", ".git"}
	if len(result) != len(expected) {
		t.Fatalf("expected %d patterns, got %v", len(expected), result)
	}
	for patternIndex, patternValue := range expected {
		if result[patternIndex] != patternValue {
			t.Fatalf("expected %q at index %d, got %v", patternValue, patternIndex, result)
		}
	}
}

func TestContainsString(t *testing.T) {
	values := []string{"human", "json", "yaml"}
	if !ContainsString(values, "json") {
		t.Fatalf("expected json to be found")
	}
	if ContainsString(values, "xml") {
		t.Fatalf("did not expect xml to be found")
	}
}

func TestShouldExcludeEntryMatchesDirectoryNames(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tempDir, "node_modules"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "main.go"), []byte("package main\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	patterns := []string{"node_modules", "*.log"}
	for _, entry := range entries {
		excluded := ShouldExcludeEntry(entry, patterns)
		if entry.Name() == "node_modules" && !excluded {
			t.Fatalf("expected node_modules to be excluded")
		}
		if entry.Name() == "main.go" && excluded {
			t.Fatalf("did not expect main.go to be excluded")
		}
	}
}

func TestShouldExcludeEntryDirectoryOnlyPattern(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tempDir, "build"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "build.log"), []byte("ok"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		excluded := ShouldExcludeEntry(entry, []string{"build/"})
		if entry.IsDir() && !excluded {
			t.Fatalf("expected build directory to be excluded")
		}
		if !entry.IsDir() && excluded {
			t.Fatalf("did not expect %s to be excluded by a directory pattern", entry.Name())
		}
	}
}

func TestIsBinaryClassifiesContent(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		isBinary bool
	}{
		{name: "empty", data: nil, isBinary: false},
		{name: "ascii text", data: []byte("hello world\n"), isBinary: false},
		{name: "utf8 text", data: []byte("héllo wörld"), isBinary: false},
		{name: "nul byte", data: []byte{'a', 0x00, 'b'}, isBinary: true},
		{name: "invalid utf8", data: []byte{0xff, 0xfe, 0xfd}, isBinary: true},
	}
	for _, testCase := range testCases {
		if result := IsBinary(testCase.data); result != testCase.isBinary {
			t.Fatalf("%s: expected IsBinary=%v, got %v", testCase.name, testCase.isBinary, result)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		byteCount int64
		expected  string
	}{
		{byteCount: -1, expected: "0b"},
		{byteCount: 0, expected: "0b"},
		{byteCount: 512, expected: "512b"},
		{byteCount: 1024, expected: "1kb"},
		{byteCount: 1536, expected: "1.5kb"},
		{byteCount: 10 * 1024 * 1024, expected: "10mb"},
	}
	for _, testCase := range testCases {
		if result := FormatFileSize(testCase.byteCount); result != testCase.expected {
			t.Fatalf("FormatFileSize(%d): expected %q, got %q", testCase.byteCount, testCase.expected, result)
		}
	}
}

func TestFormatRFC3339TimestampPassesThroughUnparsableValues(t *testing.T) {
	if result := FormatRFC3339Timestamp("not a timestamp"); result != "not a timestamp" {
		t.Fatalf("expected passthrough, got %q", result)
	}
	if result := FormatRFC3339Timestamp("2024-03-01T10:30:00Z"); result == "" {
		t.Fatalf("expected formatted timestamp, got empty string")
	}
}
