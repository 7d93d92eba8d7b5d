// Package aiclient is the external LLM adapter of spec.md §4.5: two call
// shapes (text-only, multimodal), vendor response-shape extraction,
// bounded timeouts, a call-log hook fired on an independent transaction,
// and deliberately no retry. Grounded on the source backend's
// internal/service/ai_client.go multi-vendor client, generalized with a
// multimodal shape and stripped of its retry wrapper.
package aiclient

import (
	"context"
	"fmt"
	"time"

	"github.com/TheBreeze12/lifehub-backend/internal/errors"
)

// Default per-call timeouts (spec.md §5 "Cancellation and timeouts").
const (
	GenerationTimeout = 30 * time.Second
	MultimodalTimeout = 60 * time.Second
)

// ContentPart is one segment of a multimodal message: either plain text
// or a base64 data-URI image.
type ContentPart struct {
	Type         string // "text" | "image_url"
	Text         string
	ImageDataURI string
}

// Config carries per-call connection parameters, resolved by the caller
// from the configured model-per-call-type map (SPEC_FULL.md §2).
type Config struct {
	APIEndpoint string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
}

// VendorClient is the minimal per-vendor transport: shape the request,
// issue it, extract the textual content from the response by walking a
// known path. UpstreamError on structural mismatch.
type VendorClient interface {
	Call(ctx context.Context, prompt string, cfg *Config) (string, error)
	CallMultimodal(ctx context.Context, parts []ContentPart, cfg *Config) (string, error)
}

// GetVendorClient resolves the vendor-specific transport for provider.
func GetVendorClient(provider string) (VendorClient, error) {
	switch provider {
	case "openai":
		return &openAICompatibleClient{defaultEndpoint: "https://api.openai.com/v1", defaultModel: "gpt-3.5-turbo"}, nil
	case "tongyi":
		return &openAICompatibleClient{
			defaultEndpoint: "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions",
			defaultModel:    "qwen-turbo",
		}, nil
	case "wenxin":
		return &wenxinClient{}, nil
	default:
		return nil, fmt.Errorf("aiclient: unsupported provider %q", provider)
	}
}

// CallLogSink receives the outcome of every adapter call. Implementations
// MUST run on an independent transaction / connection and MUST swallow
// their own failures (spec.md §4.5, §7).
type CallLogSink interface {
	Record(entry CallLogEntry)
}

// CallLogEntry summarizes one adapter invocation for the sink.
type CallLogEntry struct {
	UserID        *int64
	CallType      string
	ModelID       string
	InputSummary  string
	OutputSummary string
	Success       bool
	ErrorMessage  string
	LatencyMs     int64
}

// Adapter wires a vendor client and a call-log sink together; the
// per-call-type model id arrives in each call's Config. It never retries:
// callers supply their own defaults on failure (spec.md §4.5).
type Adapter struct {
	vendor VendorClient
	sink   CallLogSink
}

func NewAdapter(vendor VendorClient, sink CallLogSink) *Adapter {
	return &Adapter{vendor: vendor, sink: sink}
}

// Generate issues a text-only call, bounded by GenerationTimeout.
func (a *Adapter) Generate(ctx context.Context, callType string, userID *int64, prompt string, cfg *Config) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, GenerationTimeout)
	defer cancel()

	start := time.Now()
	text, err := a.vendor.Call(ctx, prompt, cfg)
	a.logOutcome(userID, callType, cfg, prompt, text, err, start)
	if err != nil {
		return "", errors.UpstreamError(fmt.Sprintf("llm call failed: %v", err))
	}
	return text, nil
}

// GenerateMultimodal issues a multimodal call, bounded by MultimodalTimeout.
func (a *Adapter) GenerateMultimodal(ctx context.Context, callType string, userID *int64, parts []ContentPart, cfg *Config) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, MultimodalTimeout)
	defer cancel()

	inputSummary := summarizeParts(parts)
	start := time.Now()
	text, err := a.vendor.CallMultimodal(ctx, parts, cfg)
	a.logOutcome(userID, callType, cfg, inputSummary, text, err, start)
	if err != nil {
		return "", errors.UpstreamError(fmt.Sprintf("llm multimodal call failed: %v", err))
	}
	return text, nil
}

func (a *Adapter) logOutcome(userID *int64, callType string, cfg *Config, input, output string, callErr error, start time.Time) {
	if a.sink == nil {
		return
	}
	entry := CallLogEntry{
		UserID:        userID,
		CallType:      callType,
		ModelID:       cfg.Model,
		InputSummary:  truncate(input, 450),
		OutputSummary: truncate(output, 450),
		Success:       callErr == nil,
		LatencyMs:     time.Since(start).Milliseconds(),
	}
	if callErr != nil {
		entry.ErrorMessage = truncate(callErr.Error(), 1000)
	}
	a.sink.Record(entry)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func summarizeParts(parts []ContentPart) string {
	var texts []string
	imageCount := 0
	for _, p := range parts {
		if p.Type == "text" {
			texts = append(texts, p.Text)
		} else {
			imageCount++
		}
	}
	summary := fmt.Sprintf("[%d image(s)] ", imageCount)
	for _, t := range texts {
		summary += t + " "
	}
	return summary
}
