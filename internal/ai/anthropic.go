package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const anthropicEndpoint = "https://api.anthropic.com/v1/messages"

// anthropicClient is the Narrator backed by the Anthropic Messages API.
type anthropicClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewAnthropicClient returns a Narrator that calls the Anthropic API.
//   - apiKey: ANTHROPIC_API_KEY
//   - model:  ANTHROPIC_MODEL
func NewAnthropicClient(apiKey, model string) Narrator {
	return &anthropicClient{
		apiKey:   apiKey,
		model:    model,
		endpoint: anthropicEndpoint,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// ─── ANTHROPIC API SHAPES ─────────────────────────────────────────────────────

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ─── IMPLEMENTATION ───────────────────────────────────────────────────────────

// Summarise calls the Anthropic API and returns the report narrative.
func (c *anthropicClient) Summarise(ctx context.Context, in NarrativeInput) (Narrative, error) {
	raw, err := c.call(ctx, anthropicRequest{
		Model:     c.model,
		MaxTokens: 2048,
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: buildPrompt(in)},
		},
	})
	if err != nil {
		return Narrative{}, err
	}

	n, err := parseNarrative(raw, in)
	if err != nil {
		return Narrative{}, fmt.Errorf("ai: %w", err)
	}
	return n, nil
}

// call sends one request and returns the text of the first text block.
func (c *anthropicClient) call(ctx context.Context, reqBody anthropicRequest) (string, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("ai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("ai: read response body: %w", err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("ai: unmarshal response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("ai: API error %s: %s", parsed.Error.Type, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai: unexpected status %d: %.200s", resp.StatusCode, string(respBytes))
	}

	for _, block := range parsed.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("ai: no text content in response")
}
