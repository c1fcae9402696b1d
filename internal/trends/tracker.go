package trends

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/memetide/memetide/internal/logger"
	"github.com/memetide/memetide/internal/models"
	"github.com/memetide/memetide/internal/store"
)

// Observation is one raw trend signal from an external source.
type Observation struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	RawScore       float64 `json:"raw_score"`
	SourcePlatform string  `json:"source_platform"`
	URL            string  `json:"url"`
	MediaURL       string  `json:"media_url"`
	MediaType      string  `json:"media_type"` // image, video, text
}

// IngestReport summarizes one ingestion batch. A single observation's
// failure never aborts the batch.
type IngestReport struct {
	Created int
	Updated int
	Skipped int
	Errors  []error
}

// Tracker converts raw observations into persisted, stage-classified
// trend records. It holds no cross-invocation state of its own.
type Tracker struct {
	repo store.TrendRepository
	now  func() time.Time
}

func NewTracker(repo store.TrendRepository) *Tracker {
	return &Tracker{repo: repo, now: time.Now}
}

// Ingest upserts each observation by exact name match.
func (t *Tracker) Ingest(ctx context.Context, observations []Observation) IngestReport {
	log := logger.Get()
	var report IngestReport
	for _, obs := range observations {
		created, err := t.ingestOne(ctx, obs)
		if err != nil {
			log.Warn().Err(err).Str("trend", obs.Name).Msg("Skipping observation")
			report.Skipped++
			report.Errors = append(report.Errors, err)
			continue
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}
	log.Info().
		Int("created", report.Created).
		Int("updated", report.Updated).
		Int("skipped", report.Skipped).
		Msg("Trend ingestion complete")
	return report
}

func (t *Tracker) ingestOne(ctx context.Context, obs Observation) (created bool, err error) {
	if obs.Name == "" {
		return false, errors.New("observation has no name")
	}

	score := models.ClampScore(obs.RawScore)
	now := t.now().UTC()

	existing, err := t.repo.FindByName(ctx, obs.Name)
	if err != nil {
		return false, fmt.Errorf("looking up trend: %w", err)
	}

	if existing == nil {
		trend := &models.Trend{
			Name:            obs.Name,
			Description:     obs.Description,
			PopularityScore: score,
			Velocity:        0,
			LifecycleStage:  models.StageNew,
			SourcePlatform:  obs.SourcePlatform,
			FirstSeen:       now,
			LastSeen:        now,
		}
		if obs.URL != "" {
			trend.ExampleURLs = models.JSONList{obs.URL}
		}
		if err := t.repo.Create(ctx, trend); err != nil {
			return false, fmt.Errorf("creating trend: %w", err)
		}
		return true, nil
	}

	old := existing.PopularityScore
	existing.PopularityScore = score
	existing.LastSeen = now
	// A trend created at score zero keeps whatever velocity it has on its
	// next observation: no delta is computable against a zero base.
	if old > 0 {
		existing.Velocity = round2((score - old) / old * 100)
	}
	existing.LifecycleStage = models.ClassifyStage(existing.PopularityScore, existing.Velocity)
	if obs.Description != "" && existing.Description == "" {
		existing.Description = obs.Description
	}
	if err := t.repo.Update(ctx, existing); err != nil {
		return false, fmt.Errorf("updating trend: %w", err)
	}
	return false, nil
}

// TopTrends returns trends at or above minScore in the given stages,
// ordered by popularity descending.
func (t *Tracker) TopTrends(ctx context.Context, minScore float64, stages []string, limit int) ([]models.Trend, error) {
	return t.repo.Top(ctx, minScore, stages, limit)
}

// MarkUsed bumps a trend's usage counter after it seeds a generation.
func (t *Tracker) MarkUsed(ctx context.Context, name string) error {
	return t.repo.IncrementUsage(ctx, name)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
