package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// wenxinClient speaks Baidu Wenxin's native wire shape (access_token in
// the query string, a bare "result" string rather than a choices array).
// It has no native multimodal shape in the source backend, so
// CallMultimodal degrades to concatenating the text parts and dropping
// images — images are simply not representable over this vendor's
// text-only endpoint.
type wenxinClient struct{}

type wenxinRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
	TopP        float32       `json:"top_p,omitempty"`
}

type wenxinResponse struct {
	Result    string `json:"result"`
	ErrorCode int    `json:"error_code,omitempty"`
	ErrorMsg  string `json:"error_msg,omitempty"`
}

func (c *wenxinClient) Call(ctx context.Context, prompt string, cfg *Config) (string, error) {
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	reqBody := wenxinRequest{
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		TopP:        0.8,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s?access_token=%s", cfg.APIEndpoint, cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed wenxinResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if parsed.ErrorCode != 0 {
		return "", fmt.Errorf("wenxin error: %s", parsed.ErrorMsg)
	}
	return parsed.Result, nil
}

func (c *wenxinClient) CallMultimodal(ctx context.Context, parts []ContentPart, cfg *Config) (string, error) {
	var prompt string
	for _, p := range parts {
		if p.Type == "text" {
			prompt += p.Text + "\n"
		}
	}
	return c.Call(ctx, prompt, cfg)
}
