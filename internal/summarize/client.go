// Package summarize exposes the text-summarization fragment. The actual
// model is an external inference pipeline reached over HTTP; this package
// only wraps the call and its failure modes.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brieflyai/backend/internal/config"
)

// Client calls the summarization inference endpoint. The endpoint speaks
// the Hugging Face inference contract: a JSON body with `inputs` and
// optional generation `parameters`, answered by a list of candidate
// summaries.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an inference client from configuration.
func NewClient(cfg config.SummarizerConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type inferenceParameters struct {
	MinLength int `json:"min_length,omitempty"`
	MaxLength int `json:"max_length,omitempty"`
}

type inferenceRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters *inferenceParameters `json:"parameters,omitempty"`
}

type inferenceResult struct {
	SummaryText string `json:"summary_text"`
}

// Summarize sends the text to the inference endpoint and returns the
// generated summary.
func (c *Client) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	if c.endpoint == "" {
		return "", fmt.Errorf("summarizer endpoint is not configured")
	}

	reqBody := inferenceRequest{Inputs: text}
	if minLength > 0 || maxLength > 0 {
		reqBody.Parameters = &inferenceParameters{MinLength: minLength, MaxLength: maxLength}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read inference response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference endpoint returned status %d", resp.StatusCode)
	}

	var results []inferenceResult
	if err := json.Unmarshal(body, &results); err != nil {
		return "", fmt.Errorf("failed to decode inference response: %w", err)
	}
	if len(results) == 0 || results[0].SummaryText == "" {
		return "", fmt.Errorf("inference endpoint returned no summary")
	}

	return results[0].SummaryText, nil
}
