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

const deepseekEndpoint = "https://api.deepseek.com/v1/chat/completions"

// deepseekClient is the Narrator backed by DeepSeek's OpenAI-compatible
// chat completions endpoint.
type deepseekClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewDeepSeekClient returns a Narrator that calls the DeepSeek API.
//   - apiKey: DEEPSEEK_API_KEY
//   - model:  e.g. "deepseek-chat"
func NewDeepSeekClient(apiKey, model string) Narrator {
	return &deepseekClient{
		apiKey:   apiKey,
		model:    model,
		endpoint: deepseekEndpoint,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// ─── OPENAI-COMPATIBLE API SHAPES ────────────────────────────────────────────

type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// responseFormat {"type": "json_object"} asks for a bare JSON reply.
type responseFormat struct {
	Type string `json:"type"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// ─── IMPLEMENTATION ───────────────────────────────────────────────────────────

// Summarise calls the DeepSeek API and returns the report narrative.
func (c *deepseekClient) Summarise(ctx context.Context, in NarrativeInput) (Narrative, error) {
	raw, err := c.call(ctx, openAIRequest{
		Model:          c.model,
		MaxTokens:      2048,
		ResponseFormat: &responseFormat{Type: "json_object"},
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(in)},
		},
	})
	if err != nil {
		return Narrative{}, err
	}

	n, err := parseNarrative(raw, in)
	if err != nil {
		return Narrative{}, fmt.Errorf("deepseek: %w", err)
	}
	return n, nil
}

// call sends one request and returns the content of the first choice.
func (c *deepseekClient) call(ctx context.Context, reqBody openAIRequest) (string, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("deepseek: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("deepseek: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepseek: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("deepseek: read response: %w", err)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("deepseek: unmarshal response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("deepseek: API error %s: %s", parsed.Error.Type, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepseek: unexpected status %d: %.200s", resp.StatusCode, string(respBytes))
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("deepseek: no choices in response")
	}
	return parsed.Choices[0].Message.Content, nil
}
