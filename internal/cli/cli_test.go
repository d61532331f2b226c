package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codescout/codescout/internal/config"
	"github.com/codescout/codescout/internal/ollama"
	"github.com/codescout/codescout/internal/types"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	original := os.Stdout
	readPipe, writePipe, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = writePipe

	var buffer bytes.Buffer
	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(&buffer, readPipe)
		close(done)
	}()

	fn()

	writePipe.Close()
	os.Stdout = original
	<-done
	return buffer.String()
}

type generatePayload struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// scriptedService fakes the inference endpoints and records generate calls.
type scriptedService struct {
	replies       []string
	replyIndex    int
	generateCalls []generatePayload
}

func (service *scriptedService) start(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch {
		case request.Method == http.MethodGet && request.URL.Path == "/":
			fmt.Fprint(writer, "Ollama is running")
		case request.Method == http.MethodGet && request.URL.Path == "/api/tags":
			fmt.Fprint(writer, `{"models":[{"name":"codegemma:latest","size":5011852809,"modified_at":"2024-03-01T10:30:00Z"},{"name":"llama3:8b","size":4661224676,"modified_at":"2024-04-18T08:00:00Z"}]}`)
		case request.Method == http.MethodPost && request.URL.Path == "/api/generate":
			var payload generatePayload
			if err := json.NewDecoder(request.Body).Decode(&payload); err != nil {
				t.Errorf("decode generate payload: %v", err)
			}
			service.generateCalls = append(service.generateCalls, payload)
			if service.replyIndex >= len(service.replies) {
				t.Errorf("unexpected generate call %d", service.replyIndex)
				http.Error(writer, "no reply scripted", http.StatusInternalServerError)
				return
			}
			encodedReply, err := json.Marshal(service.replies[service.replyIndex])
			if err != nil {
				t.Errorf("marshal scripted reply: %v", err)
			}
			service.replyIndex++
			fmt.Fprintf(writer, `{"response":%s,"done":true}`, encodedReply)
		default:
			http.NotFound(writer, request)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func isolateEnvironment(t *testing.T) {
	t.Helper()
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	t.Setenv(config.HostEnvironmentVariable, "")
	t.Setenv(config.ModelEnvironmentVariable, "")
}

func writeProjectFile(t *testing.T, rootDir string, relativePath string, content string) {
	t.Helper()
	fullPath := filepath.Join(rootDir, filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", relativePath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", relativePath, err)
	}
}

func newProjectTree(t *testing.T) string {
	t.Helper()
	rootDir := t.TempDir()
	writeProjectFile(t, rootDir, "README.md", "# Demo project")
	writeProjectFile(t, rootDir, "src/main.py", "print('hello')")
	writeProjectFile(t, rootDir, ".git/config", "[core]")
	writeProjectFile(t, rootDir, "node_modules/pkg/index.js", "module.exports = {}")
	return rootDir
}

func executeCommand(arguments ...string) error {
	rootCommand := createRootCommand()
	rootCommand.SetArgs(arguments)
	return rootCommand.Execute()
}

func TestAnalyzeCommandPrintsAnalysisResults(t *testing.T) {
	isolateEnvironment(t)
	service := &scriptedService{replies: []string{`["src/main.py"]`, "The script prints hello."}}
	server := service.start(t)
	t.Setenv(config.HostEnvironmentVariable, server.URL)
	projectDir := newProjectTree(t)

	var executionError error
	outputText := captureStdout(t, func() {
		executionError = executeCommand("analyze", projectDir, "--prompt", "explain the project")
	})
	if executionError != nil {
		t.Fatalf("execute analyze: %v", executionError)
	}

	if !strings.Contains(outputText, "=== Analysis Results ===") {
		t.Fatalf("expected results header in output:\n%s", outputText)
	}
	if !strings.Contains(outputText, "The script prints hello.") {
		t.Fatalf("expected verbatim analysis in output:\n%s", outputText)
	}
	if !strings.Contains(outputText, "Selected files: src/main.py") {
		t.Fatalf("expected selected files line in output:\n%s", outputText)
	}
	if len(service.generateCalls) != 2 {
		t.Fatalf("expected 2 generate calls, got %d", len(service.generateCalls))
	}
	if !strings.Contains(service.generateCalls[0].Prompt, "README.md") {
		t.Fatalf("expected listing in selection prompt:\n%s", service.generateCalls[0].Prompt)
	}
	if strings.Contains(service.generateCalls[0].Prompt, "node_modules") {
		t.Fatalf("expected denylisted directories out of the listing:\n%s", service.generateCalls[0].Prompt)
	}
	if service.generateCalls[0].Stream {
		t.Fatalf("expected non-streaming generate requests")
	}
}

func TestAnalyzeCommandRendersJSONReport(t *testing.T) {
	isolateEnvironment(t)
	service := &scriptedService{replies: []string{`["README.md"]`, "All good."}}
	server := service.start(t)
	t.Setenv(config.HostEnvironmentVariable, server.URL)
	projectDir := newProjectTree(t)

	var executionError error
	outputText := captureStdout(t, func() {
		executionError = executeCommand("analyze", projectDir, "-p", "check", "-f", "json")
	})
	if executionError != nil {
		t.Fatalf("execute analyze: %v", executionError)
	}

	var report types.Report
	if err := json.Unmarshal([]byte(outputText), &report); err != nil {
		t.Fatalf("unmarshal report JSON: %v\n%s", err, outputText)
	}
	if report.Analysis != "All good." {
		t.Fatalf("unexpected analysis in report: %q", report.Analysis)
	}
	if report.ScannedFiles != 2 {
		t.Fatalf("expected 2 scanned files, got %d", report.ScannedFiles)
	}
}

func TestAnalyzeCommandModelPrecedence(t *testing.T) {
	testCases := []struct {
		name           string
		environment    string
		extraArguments []string
		expectModel    string
	}{
		{name: "environment_overrides_default", environment: "env-model", expectModel: "env-model"},
		{name: "flag_overrides_environment", environment: "env-model", extraArguments: []string{"-m", "flag-model"}, expectModel: "flag-model"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			isolateEnvironment(t)
			service := &scriptedService{replies: []string{`["README.md"]`, "done"}}
			server := service.start(t)
			t.Setenv(config.HostEnvironmentVariable, server.URL)
			t.Setenv(config.ModelEnvironmentVariable, testCase.environment)
			projectDir := newProjectTree(t)

			arguments := append([]string{"analyze", projectDir, "-p", "check"}, testCase.extraArguments...)
			var executionError error
			captureStdout(t, func() {
				executionError = executeCommand(arguments...)
			})
			if executionError != nil {
				t.Fatalf("execute analyze: %v", executionError)
			}
			if service.generateCalls[0].Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, service.generateCalls[0].Model)
			}
		})
	}
}

func TestAnalyzeCommandFailsFastWhenServiceUnreachable(t *testing.T) {
	isolateEnvironment(t)
	unreachableServer := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	serverURL := unreachableServer.URL
	unreachableServer.Close()
	t.Setenv(config.HostEnvironmentVariable, serverURL)
	projectDir := newProjectTree(t)

	err := executeCommand("analyze", projectDir, "--prompt", "check")
	if !errors.Is(err, ollama.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "is the service running") {
		t.Fatalf("expected hint in error, got %q", err.Error())
	}
}

func TestAnalyzeCommandRejectsUnknownFormatValue(t *testing.T) {
	isolateEnvironment(t)
	projectDir := newProjectTree(t)

	err := executeCommand("analyze", projectDir, "--prompt", "check", "--format", "xml")
	if err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "invalid format") {
		t.Fatalf("expected invalid format error, got %q", err.Error())
	}
}

func TestAnalyzeCommandRequiresPromptFlag(t *testing.T) {
	isolateEnvironment(t)
	projectDir := newProjectTree(t)

	err := executeCommand("analyze", projectDir)
	if err == nil {
		t.Fatalf("expected error for missing prompt flag")
	}
	if !strings.Contains(err.Error(), "prompt") {
		t.Fatalf("expected prompt flag in error, got %q", err.Error())
	}
}

func TestModelsCommandListsInstalledModels(t *testing.T) {
	isolateEnvironment(t)
	service := &scriptedService{}
	server := service.start(t)

	var executionError error
	outputText := captureStdout(t, func() {
		executionError = executeCommand("models", "--host", server.URL)
	})
	if executionError != nil {
		t.Fatalf("execute models: %v", executionError)
	}
	if !strings.Contains(outputText, "NAME") {
		t.Fatalf("expected table header in output:\n%s", outputText)
	}
	if !strings.Contains(outputText, "codegemma:latest") || !strings.Contains(outputText, "llama3:8b") {
		t.Fatalf("expected model names in output:\n%s", outputText)
	}
}

func TestModelsCommandRendersJSON(t *testing.T) {
	isolateEnvironment(t)
	service := &scriptedService{}
	server := service.start(t)

	var executionError error
	outputText := captureStdout(t, func() {
		executionError = executeCommand("models", "--host", server.URL, "-f", "json")
	})
	if executionError != nil {
		t.Fatalf("execute models: %v", executionError)
	}
	var models []types.ModelInfo
	if err := json.Unmarshal([]byte(outputText), &models); err != nil {
		t.Fatalf("unmarshal models JSON: %v\n%s", err, outputText)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
}

func TestConfigInitCommandWritesGlobalFile(t *testing.T) {
	isolateEnvironment(t)
	homeDir := os.Getenv("HOME")

	var executionError error
	captureStdout(t, func() {
		executionError = executeCommand("config", "init", "--global")
	})
	if executionError != nil {
		t.Fatalf("execute config init: %v", executionError)
	}

	configPath := filepath.Join(homeDir, config.GlobalConfigDirectoryName, config.ConfigFileName)
	content, readError := os.ReadFile(configPath)
	if readError != nil {
		t.Fatalf("read written configuration: %v", readError)
	}
	if !strings.Contains(string(content), "model: codegemma") {
		t.Fatalf("expected default model in configuration:\n%s", content)
	}

	if err := executeCommand("config", "init", "--global"); err == nil {
		t.Fatalf("expected refusal to overwrite without force")
	}
	captureStdout(t, func() {
		executionError = executeCommand("config", "init", "--global", "--force")
	})
	if executionError != nil {
		t.Fatalf("execute config init force: %v", executionError)
	}
}
