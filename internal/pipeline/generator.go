package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/memetide/memetide/internal/ai"
	"github.com/memetide/memetide/internal/logger"
	"github.com/memetide/memetide/internal/models"
	"github.com/memetide/memetide/internal/publish"
)

// retryThreshold is the overall score below which a candidate gets one
// regeneration before being accepted as-is.
const retryThreshold = 5

// fallbackContext is used when no qualifying trend exists.
const fallbackContext = "Current internet culture and relatable situations"

// genericContexts is the topic pool for non-trend generations.
var genericContexts = []string{
	"The experience of being chronically online",
	"Working from home and the blurring of life and work",
	"Gaming culture and gamer moments",
	"Existential dread but make it funny",
	"Monday mornings and the concept of time",
	"Social media behavior everyone does but no one admits",
	"Food delivery apps and modern convenience guilt",
	"Group chats and their unspoken dynamics",
	"Adulting and pretending to know what you are doing",
	"Sleep schedules that have given up entirely",
}

// TrendProvider supplies candidate trends for context selection.
type TrendProvider interface {
	TopTrends(ctx context.Context, minScore float64, stages []string, limit int) ([]models.Trend, error)
	MarkUsed(ctx context.Context, name string) error
}

// LandscapeSummarizer produces a short prose snapshot of the feeds.
type LandscapeSummarizer interface {
	SummarizeLandscape(ctx context.Context) string
}

// MediaInsights exposes previously analyzed media for enrichment.
type MediaInsights interface {
	Recent(ctx context.Context, minScore float64, limit int) ([]models.AnalyzedMedia, error)
}

// QueueStore persists generated candidates for human review.
type QueueStore interface {
	Create(ctx context.Context, item *models.QueueItem) error
}

// TweetStore persists posted tweets.
type TweetStore interface {
	Create(ctx context.Context, tweet *models.Tweet) error
}

// Generator runs the generate -> evaluate -> retry -> postprocess
// pipeline and routes output to the review queue or directly to the
// publisher.
type Generator struct {
	adapter   ai.GenerationAdapter
	post      *ai.PostProcessor
	trends    TrendProvider
	landscape LandscapeSummarizer
	media     MediaInsights
	queue     QueueStore
	tweets    TweetStore
	publisher publish.Publisher
	rand      *rand.Rand
}

// NewGenerator wires the pipeline. publisher may be nil when running
// in review-queue mode.
func NewGenerator(
	adapter ai.GenerationAdapter,
	post *ai.PostProcessor,
	trends TrendProvider,
	landscape LandscapeSummarizer,
	media MediaInsights,
	queue QueueStore,
	tweets TweetStore,
	publisher publish.Publisher,
) *Generator {
	return &Generator{
		adapter:   adapter,
		post:      post,
		trends:    trends,
		landscape: landscape,
		media:     media,
		queue:     queue,
		tweets:    tweets,
		publisher: publisher,
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Candidate pairs generated content with its evaluation and the prompt
// context it was produced from.
type Candidate struct {
	Content      *ai.GeneratedContent
	Evaluation   *ai.Evaluation
	TrendContext string
	Prompt       string
}

// selectContext picks a trend-derived context or a generic one.
func (g *Generator) selectContext(ctx context.Context, useTrend bool) string {
	if !useTrend {
		return genericContexts[g.rand.Intn(len(genericContexts))]
	}

	trends, err := g.trends.TopTrends(ctx, 30, []string{models.StageRising, models.StagePeak}, 5)
	if err != nil {
		logger.WithError(err).Msg("Trend lookup failed, using fallback context")
		return fallbackContext
	}
	if len(trends) == 0 {
		return fallbackContext
	}

	t := trends[g.rand.Intn(len(trends))]
	if err := g.trends.MarkUsed(ctx, t.Name); err != nil {
		logger.WithError(err).Str("trend", t.Name).Msg("Failed to record trend usage")
	}

	desc := t.Description
	if len(desc) > 200 {
		desc = desc[:200]
	}
	if desc == "" {
		return t.Name
	}
	return t.Name + " - " + desc
}

// enrichContext appends media-derived format hints and the current
// landscape summary. Enrichment failures degrade to the bare context.
func (g *Generator) enrichContext(ctx context.Context, base string) (string, string) {
	enriched := base
	format := ""

	records, err := g.media.Recent(ctx, 60, 3)
	if err != nil {
		logger.WithError(err).Msg("Media enrichment skipped")
	} else if len(records) > 0 {
		formats := make([]string, 0, 3)
		seen := make(map[string]bool)
		refs := make([]string, 0, 5)
		for _, m := range records {
			if m.MemeFormat != "" && !seen[m.MemeFormat] && len(formats) < 3 {
				seen[m.MemeFormat] = true
				formats = append(formats, m.MemeFormat)
			}
			for _, r := range m.CulturalReferences {
				if len(refs) < 5 {
					refs = append(refs, r)
				}
			}
		}
		if len(formats) > 0 {
			format = formats[0]
			enriched += "\n\nPOPULAR FORMATS RIGHT NOW: " + strings.Join(formats, ", ")
		}
		if len(refs) > 0 {
			enriched += "\nCULTURAL REFERENCES IN PLAY: " + strings.Join(refs, ", ")
		}
	}

	if g.landscape != nil {
		if summary := g.landscape.SummarizeLandscape(ctx); summary != "" {
			enriched += "\n\n--- CURRENT MEME LANDSCAPE ---\n" + summary
		}
	}

	return enriched, format
}

// Generate produces one evaluated candidate. A candidate scoring below
// the threshold is regenerated once; the second attempt is accepted
// regardless of score.
func (g *Generator) Generate(ctx context.Context, useTrend bool, ironyLevel string) (*Candidate, error) {
	base := g.selectContext(ctx, useTrend)
	enriched, format := g.enrichContext(ctx, base)

	if ironyLevel == "" {
		ironyLevel = models.IronyLevels[g.rand.Intn(len(models.IronyLevels))]
	}

	req := ai.GenerationRequest{Context: enriched, MemeFormat: format, IronyLevel: ironyLevel}

	content, eval, err := g.generateOnce(ctx, req)
	if err != nil {
		return nil, err
	}

	if eval.OverallScore < retryThreshold {
		logger.Info().
			Float64("score", eval.OverallScore).
			Msg("Candidate scored below threshold, regenerating")
		content, eval, err = g.generateOnce(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	content = g.post.Process(content)
	return &Candidate{Content: content, Evaluation: eval, TrendContext: base, Prompt: enriched}, nil
}

func (g *Generator) generateOnce(ctx context.Context, req ai.GenerationRequest) (*ai.GeneratedContent, *ai.Evaluation, error) {
	content, err := g.adapter.Generate(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("content generation failed: %w", err)
	}

	eval, err := g.adapter.Evaluate(ctx, content.Text)
	if err != nil {
		return nil, nil, fmt.Errorf("content evaluation failed: %w", err)
	}
	return content, eval, nil
}

// GenerateToQueue generates a candidate and persists it as a pending
// review item.
func (g *Generator) GenerateToQueue(ctx context.Context, useTrend bool) (*models.QueueItem, error) {
	cand, err := g.Generate(ctx, useTrend, "")
	if err != nil {
		return nil, err
	}

	item := &models.QueueItem{
		Content:           cand.Content.Text,
		MemeFormat:        cand.Content.Format,
		IronyLevel:        cand.Content.IronyLevel,
		Topics:            models.JSONList(cand.Content.Topics),
		TrendContext:      cand.TrendContext,
		QualityScore:      cand.Evaluation.OverallScore,
		HumorScore:        cand.Evaluation.HumorScore,
		AuthenticityScore: cand.Evaluation.AuthenticityScore,
		EngagementScore:   cand.Evaluation.EngagementScore,
		EvaluationData:    evaluationMap(cand.Evaluation),
		GenerationPrompt:  cand.Prompt,
		Status:            models.StatusPending,
	}

	if err := g.queue.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("queueing candidate: %w", err)
	}

	logger.Info().
		Uint("item_id", item.ID).
		Float64("score", item.QualityScore).
		Msg("Candidate queued for review")
	return item, nil
}

// GenerateAndPost generates a candidate and publishes it immediately.
// A candidate the evaluator flags as unpostable is dropped without any
// writes; callers get (nil, nil) in that case.
func (g *Generator) GenerateAndPost(ctx context.Context, useTrend bool) (*models.Tweet, error) {
	cand, err := g.Generate(ctx, useTrend, "")
	if err != nil {
		return nil, err
	}

	if !cand.Evaluation.ShouldPost {
		logger.Info().
			Str("risks", cand.Evaluation.Risks).
			Msg("Evaluator flagged candidate, not posting")
		return nil, nil
	}

	result, err := g.publisher.Post(ctx, cand.Content.Text)
	if err != nil {
		return nil, fmt.Errorf("posting candidate: %w", err)
	}

	tweet := &models.Tweet{
		TweetID:          result.TweetID,
		Content:          cand.Content.Text,
		PostedAt:         time.Now().UTC(),
		MemeFormat:       cand.Content.Format,
		IronyLevel:       cand.Content.IronyLevel,
		Topics:           models.JSONList(cand.Content.Topics),
		TrendContext:     cand.TrendContext,
		GenerationPrompt: cand.Prompt,
		LastUpdated:      time.Now().UTC(),
	}
	if err := g.tweets.Create(ctx, tweet); err != nil {
		return nil, fmt.Errorf("recording posted tweet: %w", err)
	}

	return tweet, nil
}

// evaluationMap flattens an evaluation for the JSON column.
func evaluationMap(ev *ai.Evaluation) models.JSONMap {
	raw, err := json.Marshal(ev)
	if err != nil {
		return models.JSONMap{}
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return models.JSONMap{}
	}
	return models.JSONMap(m)
}
