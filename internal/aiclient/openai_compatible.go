package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// openAICompatibleClient speaks the OpenAI chat-completions wire shape,
// used directly for the "openai" provider and, per the source backend's
// own convention, for "tongyi" (Alibaba DashScope's compatible-mode
// endpoint speaks the identical shape).
type openAICompatibleClient struct {
	defaultEndpoint string
	defaultModel    string
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

type imageURLContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

func (c *openAICompatibleClient) endpoint(cfg *Config) string {
	endpoint := strings.TrimSpace(cfg.APIEndpoint)
	if endpoint == "" {
		endpoint = c.defaultEndpoint
	}
	if strings.Contains(endpoint, "/chat/completions") {
		return endpoint
	}
	return strings.TrimRight(endpoint, "/") + "/chat/completions"
}

func (c *openAICompatibleClient) model(cfg *Config) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	return c.defaultModel
}

func (c *openAICompatibleClient) send(ctx context.Context, cfg *Config, messages []chatMessage) (string, error) {
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	reqBody := chatRequest{
		Model:       c.model(cfg),
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint(cfg), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("provider error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return parsed.Choices[0].Message.Content, nil
}

func (c *openAICompatibleClient) Call(ctx context.Context, prompt string, cfg *Config) (string, error) {
	return c.send(ctx, cfg, []chatMessage{{Role: "user", Content: prompt}})
}

// CallMultimodal builds an OpenAI-compatible vision content array,
// interleaving text and image_url parts in the order supplied.
func (c *openAICompatibleClient) CallMultimodal(ctx context.Context, parts []ContentPart, cfg *Config) (string, error) {
	content := make([]imageURLContent, 0, len(parts))
	for _, p := range parts {
		if p.Type == "image_url" {
			content = append(content, imageURLContent{
				Type:     "image_url",
				ImageURL: &struct {
					URL string `json:"url"`
				}{URL: p.ImageDataURI},
			})
		} else {
			content = append(content, imageURLContent{Type: "text", Text: p.Text})
		}
	}
	return c.send(ctx, cfg, []chatMessage{{Role: "user", Content: content}})
}
