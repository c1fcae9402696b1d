package ai

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/memetide/memetide/internal/config"
	"github.com/memetide/memetide/internal/logger"
)

const anthropicBaseURL = "https://api.anthropic.com/v1"

// AnthropicClient talks to the Anthropic messages API.
type AnthropicClient struct {
	client    *resty.Client
	model     string
	maxTokens int
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
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

// NewAnthropicClient creates a new Anthropic API client.
func NewAnthropicClient(cfg *config.Config) *AnthropicClient {
	client := resty.New().
		SetBaseURL(anthropicBaseURL).
		SetTimeout(cfg.AITimeout).
		SetRetryCount(2).
		SetHeader("x-api-key", cfg.AnthropicAPIKey).
		SetHeader("anthropic-version", "2023-06-01").
		SetHeader("Content-Type", "application/json")

	return &AnthropicClient{
		client:    client,
		model:     cfg.AIModel,
		maxTokens: cfg.AIMaxTokens,
	}
}

func (c *AnthropicClient) complete(ctx context.Context, system, user string) (string, error) {
	req := anthropicRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  []anthropicMessage{{Role: "user", Content: user}},
	}

	var out anthropicResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&out).
		Post("/messages")
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	if resp.IsError() {
		msg := resp.Status()
		if out.Error != nil {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("anthropic API error: %s", msg)
	}

	if len(out.Content) == 0 {
		return "", fmt.Errorf("anthropic API returned empty content")
	}

	return out.Content[0].Text, nil
}

// Generate produces a meme candidate for the given context.
func (c *AnthropicClient) Generate(ctx context.Context, req GenerationRequest) (*GeneratedContent, error) {
	raw, err := c.complete(ctx, systemPrompt, buildGenerationPrompt(req))
	if err != nil {
		return nil, err
	}
	return decodeGenerated(raw), nil
}

// Evaluate scores previously generated text.
func (c *AnthropicClient) Evaluate(ctx context.Context, text string) (*Evaluation, error) {
	raw, err := c.complete(ctx, systemPrompt, buildEvaluationPrompt(text))
	if err != nil {
		return nil, err
	}
	return decodeEvaluation(raw), nil
}

// AnalyzeMedia analyzes a meme image or video by URL.
func (c *AnthropicClient) AnalyzeMedia(ctx context.Context, mediaURL, mediaType string) (*MediaAnalysis, error) {
	prompt := fmt.Sprintf("%s\n\nMedia URL: %s\nMedia type: %s", buildMediaPrompt(), mediaURL, mediaType)
	raw, err := c.complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	ma, ok := decodeMediaAnalysis(raw)
	if !ok {
		logger.Warn().Str("url", mediaURL).Msg("Media analysis response was not valid JSON")
		return nil, fmt.Errorf("media analysis response could not be parsed")
	}
	return ma, nil
}
