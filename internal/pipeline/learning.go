package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/memetide/memetide/internal/ai"
	"github.com/memetide/memetide/internal/cache"
	"github.com/memetide/memetide/internal/logger"
	"github.com/memetide/memetide/internal/models"
	"github.com/memetide/memetide/internal/trends"
	"github.com/memetide/memetide/internal/utils"
)

// MediaStore persists media analyses.
type MediaStore interface {
	Create(ctx context.Context, media *models.AnalyzedMedia) error
	FindByURL(ctx context.Context, url string) (*models.AnalyzedMedia, error)
	TopScoring(ctx context.Context, minScore float64, limit int) ([]models.AnalyzedMedia, error)
}

// ObservationSource supplies fresh feed items carrying media.
type ObservationSource interface {
	FetchObservations(ctx context.Context) ([]trends.Observation, error)
}

// Learner analyzes trending media to learn what works and summarizes
// the findings into a strategy the generator can draw on.
type Learner struct {
	adapter ai.GenerationAdapter
	media   MediaStore
	dedup   cache.Dedup
	source  ObservationSource
	ttl     time.Duration
}

// NewLearner wires the learning pipeline.
func NewLearner(adapter ai.GenerationAdapter, media MediaStore, dedup cache.Dedup, source ObservationSource, ttl time.Duration) *Learner {
	return &Learner{adapter: adapter, media: media, dedup: dedup, source: source, ttl: ttl}
}

// LearnReport summarizes one learning session.
type LearnReport struct {
	Fetched  int `json:"fetched"`
	Analyzed int `json:"analyzed"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

// LearnFromTopMedia fetches current feed items, analyzes up to limit
// unseen media records, and stores the analyses. Already-seen media is
// skipped via the dedup cache, with the database as the slow path.
func (l *Learner) LearnFromTopMedia(ctx context.Context, limit int) (*LearnReport, error) {
	obs, err := l.source.FetchObservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching observations: %w", err)
	}

	report := &LearnReport{Fetched: len(obs)}
	for _, o := range obs {
		if report.Analyzed >= limit {
			break
		}
		if o.MediaURL == "" {
			continue
		}

		hash := utils.Hash(o.MediaURL)
		seen, err := l.dedup.IsAnalyzed(ctx, hash)
		if err != nil {
			logger.WithError(err).Msg("Dedup cache lookup failed, checking database")
		}
		if seen {
			report.Skipped++
			continue
		}

		existing, err := l.media.FindByURL(ctx, o.MediaURL)
		if err != nil {
			logger.WithError(err).Str("url", o.MediaURL).Msg("Media lookup failed")
			report.Errors++
			continue
		}
		if existing != nil {
			report.Skipped++
			l.markAnalyzed(ctx, hash)
			continue
		}

		analysis, err := l.adapter.AnalyzeMedia(ctx, o.MediaURL, o.MediaType)
		if err != nil {
			logger.WithError(err).Str("url", o.MediaURL).Msg("Media analysis failed")
			report.Errors++
			continue
		}

		record := &models.AnalyzedMedia{
			MediaURL:           o.MediaURL,
			MediaType:          o.MediaType,
			VisualDescription:  analysis.VisualDescription,
			MemeFormat:         analysis.MemeFormat,
			TextContent:        models.JSONList(analysis.TextContent),
			CulturalReferences: models.JSONList(analysis.CulturalReferences),
			Topics:             models.JSONList(analysis.Topics),
			HumorType:          analysis.HumorType,
			IronyLevel:         analysis.IronyLevel,
			EmotionalTone:      analysis.EmotionalTone,
			MemePotentialScore: analysis.MemePotentialScore,
			AnalysisData:       analysisMap(analysis),
			SourceURL:          o.URL,
			AnalyzedAt:         time.Now().UTC(),
		}
		if err := l.media.Create(ctx, record); err != nil {
			logger.WithError(err).Str("url", o.MediaURL).Msg("Failed to store media analysis")
			report.Errors++
			continue
		}

		l.markAnalyzed(ctx, hash)
		report.Analyzed++
	}

	logger.Info().
		Int("fetched", report.Fetched).
		Int("analyzed", report.Analyzed).
		Int("skipped", report.Skipped).
		Int("errors", report.Errors).
		Msg("Learning session complete")
	return report, nil
}

// analysisMap flattens an analysis for the JSON column.
func analysisMap(a *ai.MediaAnalysis) models.JSONMap {
	raw, err := json.Marshal(a)
	if err != nil {
		return models.JSONMap{}
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return models.JSONMap{}
	}
	return models.JSONMap(m)
}

func (l *Learner) markAnalyzed(ctx context.Context, hash string) {
	if err := l.dedup.MarkAnalyzed(ctx, hash, l.ttl); err != nil {
		logger.WithError(err).Msg("Failed to mark media in dedup cache")
	}
}

// Strategy aggregates what the highest-potential analyzed media has in
// common.
type Strategy struct {
	TopFormats    []string `json:"top_formats"`
	TopHumorTypes []string `json:"top_humor_types"`
	TopIronyLevel string   `json:"top_irony_level"`
	TopTopics     []string `json:"top_topics"`
	SampleSize    int      `json:"sample_size"`
}

// StrategySummary derives a strategy from the top-scoring analyses.
func (l *Learner) StrategySummary(ctx context.Context) (*Strategy, error) {
	records, err := l.media.TopScoring(ctx, 70, 10)
	if err != nil {
		return nil, fmt.Errorf("loading top media: %w", err)
	}

	formats := map[string]int{}
	humor := map[string]int{}
	irony := map[string]int{}
	topics := map[string]int{}
	for _, m := range records {
		if m.MemeFormat != "" {
			formats[m.MemeFormat]++
		}
		if m.HumorType != "" {
			humor[m.HumorType]++
		}
		if m.IronyLevel != "" {
			irony[m.IronyLevel]++
		}
		for _, t := range m.Topics {
			topics[t]++
		}
	}

	return &Strategy{
		TopFormats:    topCounts(formats, 3),
		TopHumorTypes: topCounts(humor, 3),
		TopIronyLevel: firstOrEmpty(topCounts(irony, 1)),
		TopTopics:     topCounts(topics, 5),
		SampleSize:    len(records),
	}, nil
}

// topCounts returns the n most frequent keys, ties broken
// alphabetically for stable output.
func topCounts(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func firstOrEmpty(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
