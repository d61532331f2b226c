// Package ollama is the HTTP boundary to a locally hosted Ollama-style
// inference service. It exposes single-shot text generation plus the
// liveness and model-listing endpoints, and defines the error taxonomy for
// everything that can go wrong at this boundary.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/codescout/codescout/internal/types"
	"github.com/codescout/codescout/internal/utils"
)

const (
	generateEndpoint = "/api/generate"
	tagsEndpoint     = "/api/tags"

	defaultTimeout = 120 * time.Second
)

var (
	// ErrUnavailable reports that the inference service could not be reached
	// or answered with a non-success status. Connection failures, timeouts,
	// and HTTP error statuses all wrap this sentinel.
	ErrUnavailable = errors.New("inference service unavailable")

	// ErrMalformedResponse reports that the service answered successfully but
	// the payload violated the expected contract. The selection parser wraps
	// the same sentinel when the generated text is not the required JSON array.
	ErrMalformedResponse = errors.New("malformed model response")
)

// Generator produces text for a prompt. The analysis engine depends only on
// this interface so tests can substitute a stub.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config carries the connection parameters for the inference service.
type Config struct {
	Host    string
	Model   string
	Timeout time.Duration
}

// Client talks to the service over plain HTTP with an explicit timeout.
type Client struct {
	host       string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Generator = (*Client)(nil)

// New constructs a client for the configured host and model.
func New(configuration Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeoutValue := configuration.Timeout
	if timeoutValue <= 0 {
		timeoutValue = defaultTimeout
	}
	return &Client{
		host:       strings.TrimSuffix(configuration.Host, "/"),
		model:      configuration.Model,
		httpClient: &http.Client{Timeout: timeoutValue},
		logger:     logger,
	}
}

// Model returns the model name this client generates with.
func (client *Client) Model() string {
	return client.model
}

// Generate sends a single non-streaming generation request and returns the
// generated text.
func (client *Client) Generate(ctx context.Context, prompt string) (string, error) {
	requestPayload := map[string]any{
		"model":  client.model,
		"prompt": prompt,
		"stream": false,
	}
	requestBody, marshalError := json.Marshal(requestPayload)
	if marshalError != nil {
		return "", fmt.Errorf("encode generation request: %w", marshalError)
	}

	client.logger.Debug("requesting generation",
		zap.String("model", client.model), zap.Int("promptChars", len(prompt)))

	request, requestError := http.NewRequestWithContext(ctx, http.MethodPost, client.host+generateEndpoint, bytes.NewReader(requestBody))
	if requestError != nil {
		return "", fmt.Errorf("build generation request: %w", requestError)
	}
	request.Header.Set("Content-Type", "application/json")

	response, sendError := client.httpClient.Do(request)
	if sendError != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, sendError)
	}
	defer response.Body.Close()

	responseBody, readError := io.ReadAll(response.Body)
	if readError != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, readError)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, response.StatusCode, serviceErrorDetail(responseBody))
	}

	var generateResponse struct {
		Response *string `json:"response"`
		Done     bool    `json:"done"`
	}
	if decodeError := json.Unmarshal(responseBody, &generateResponse); decodeError != nil {
		return "", fmt.Errorf("%w: decode envelope: %v", ErrMalformedResponse, decodeError)
	}
	if generateResponse.Response == nil {
		return "", fmt.Errorf("%w: envelope is missing the generated text", ErrMalformedResponse)
	}
	return *generateResponse.Response, nil
}

// Ping verifies that the service answers on its base URL.
func (client *Client) Ping(ctx context.Context) error {
	request, requestError := http.NewRequestWithContext(ctx, http.MethodGet, client.host+"/", nil)
	if requestError != nil {
		return fmt.Errorf("build ping request: %w", requestError)
	}
	response, sendError := client.httpClient.Do(request)
	if sendError != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, sendError)
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d on ping", ErrUnavailable, response.StatusCode)
	}
	return nil
}

// ListModels fetches the models installed on the service.
func (client *Client) ListModels(ctx context.Context) ([]types.ModelInfo, error) {
	request, requestError := http.NewRequestWithContext(ctx, http.MethodGet, client.host+tagsEndpoint, nil)
	if requestError != nil {
		return nil, fmt.Errorf("build model listing request: %w", requestError)
	}
	response, sendError := client.httpClient.Do(request)
	if sendError != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, sendError)
	}
	defer response.Body.Close()

	responseBody, readError := io.ReadAll(response.Body)
	if readError != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, readError)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, response.StatusCode, serviceErrorDetail(responseBody))
	}

	var tagsResponse struct {
		Models []struct {
			Name       string `json:"name"`
			Size       int64  `json:"size"`
			ModifiedAt string `json:"modified_at"`
		} `json:"models"`
	}
	if decodeError := json.Unmarshal(responseBody, &tagsResponse); decodeError != nil {
		return nil, fmt.Errorf("%w: decode model listing: %v", ErrMalformedResponse, decodeError)
	}

	models := make([]types.ModelInfo, 0, len(tagsResponse.Models))
	for _, modelEntry := range tagsResponse.Models {
		models = append(models, types.ModelInfo{
			Name:       modelEntry.Name,
			Size:       utils.FormatFileSize(modelEntry.Size),
			ModifiedAt: utils.FormatRFC3339Timestamp(modelEntry.ModifiedAt),
		})
	}
	return models, nil
}

// serviceErrorDetail extracts the error field the service embeds in failure
// bodies, falling back to a trimmed raw body.
func serviceErrorDetail(responseBody []byte) string {
	var errorEnvelope struct {
		Error string `json:"error"`
	}
	if decodeError := json.Unmarshal(responseBody, &errorEnvelope); decodeError == nil && errorEnvelope.Error != "" {
		return errorEnvelope.Error
	}
	trimmedBody := strings.TrimSpace(string(responseBody))
	if len(trimmedBody) > 200 {
		trimmedBody = trimmedBody[:200]
	}
	if trimmedBody == "" {
		return "empty body"
	}
	return trimmedBody
}
