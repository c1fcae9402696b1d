package ai

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/memetide/memetide/internal/config"
	"github.com/memetide/memetide/internal/logger"
)

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient talks to the OpenAI chat completions API.
type OpenAIClient struct {
	client    *resty.Client
	model     string
	maxTokens int
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens,omitempty"`
	Messages  []openAIMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewOpenAIClient creates a new OpenAI API client.
func NewOpenAIClient(cfg *config.Config) *OpenAIClient {
	client := resty.New().
		SetBaseURL(openAIBaseURL).
		SetTimeout(cfg.AITimeout).
		SetRetryCount(2).
		SetHeader("Authorization", "Bearer "+cfg.OpenAIAPIKey).
		SetHeader("Content-Type", "application/json")

	return &OpenAIClient{
		client:    client,
		model:     cfg.AIModel,
		maxTokens: cfg.AIMaxTokens,
	}
}

func (c *OpenAIClient) complete(ctx context.Context, system, user string) (string, error) {
	req := openAIRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	var out openAIResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&out).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if resp.IsError() {
		msg := resp.Status()
		if out.Error != nil {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("openai API error: %s", msg)
	}

	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai API returned no choices")
	}

	return out.Choices[0].Message.Content, nil
}

// Generate produces a meme candidate for the given context.
func (c *OpenAIClient) Generate(ctx context.Context, req GenerationRequest) (*GeneratedContent, error) {
	raw, err := c.complete(ctx, systemPrompt, buildGenerationPrompt(req))
	if err != nil {
		return nil, err
	}
	return decodeGenerated(raw), nil
}

// Evaluate scores previously generated text.
func (c *OpenAIClient) Evaluate(ctx context.Context, text string) (*Evaluation, error) {
	raw, err := c.complete(ctx, systemPrompt, buildEvaluationPrompt(text))
	if err != nil {
		return nil, err
	}
	return decodeEvaluation(raw), nil
}

// AnalyzeMedia analyzes a meme image or video by URL.
func (c *OpenAIClient) AnalyzeMedia(ctx context.Context, mediaURL, mediaType string) (*MediaAnalysis, error) {
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
