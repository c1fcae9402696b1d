package ai

import (
	"context"
	"fmt"

	"github.com/memetide/memetide/internal/config"
)

// GenerationAdapter produces candidate content, evaluates it, and
// analyzes media. One implementation per backend, selected once at
// construction time.
type GenerationAdapter interface {
	Generate(ctx context.Context, req GenerationRequest) (*GeneratedContent, error)
	Evaluate(ctx context.Context, text string) (*Evaluation, error)
	AnalyzeMedia(ctx context.Context, mediaURL, mediaType string) (*MediaAnalysis, error)
}

// GenerationRequest carries the enriched context for one generation.
type GenerationRequest struct {
	Context    string
	MemeFormat string
	IronyLevel string
}

// GeneratedContent is a structured generation result.
type GeneratedContent struct {
	Text        string   `json:"text"`
	Format      string   `json:"format"`
	IronyLevel  string   `json:"irony_level"`
	Topics      []string `json:"topics"`
	Explanation string   `json:"explanation"`
}

// Evaluation is the model's own quality assessment of generated text.
type Evaluation struct {
	HumorScore        float64 `json:"humor_score"`
	AuthenticityScore float64 `json:"authenticity_score"`
	EngagementScore   float64 `json:"engagement_score"`
	OverallScore      float64 `json:"overall_score"`
	ShouldPost        bool    `json:"should_post"`
	Risks             string  `json:"risks"`
	Feedback          string  `json:"feedback"`
}

// MediaAnalysis describes one analyzed media item.
type MediaAnalysis struct {
	VisualDescription  string   `json:"visual_description"`
	MemeFormat         string   `json:"meme_format"`
	TextContent        []string `json:"text_content"`
	HumorType          string   `json:"humor_type"`
	IronyLevel         string   `json:"irony_level"`
	CulturalReferences []string `json:"cultural_references"`
	EmotionalTone      string   `json:"emotional_tone"`
	Topics             []string `json:"topics"`
	MemePotentialScore float64  `json:"meme_potential_score"`
}

// New builds the configured backend.
func New(cfg *config.Config) (GenerationAdapter, error) {
	switch cfg.AIProvider {
	case "anthropic":
		return NewAnthropicClient(cfg), nil
	case "openai":
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
	}
}
