package scrape

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/memetide/memetide/internal/config"
	"github.com/memetide/memetide/internal/logger"
	"github.com/memetide/memetide/internal/trends"
	"golang.org/x/sync/errgroup"
)

const landscapeSummaryLimit = 1000

// Source aggregates observations from all configured feeds. One feed's
// failure is logged and does not abort the cycle.
type Source struct {
	reddit     *RedditFetcher
	gtrends    *TrendsFetcher
	subreddits []string
}

func NewSource(cfg *config.Config) *Source {
	return &Source{
		reddit:     NewRedditFetcher("memetide/1.0"),
		gtrends:    NewTrendsFetcher(cfg.TrendsRegion),
		subreddits: cfg.Subreddits,
	}
}

// FetchObservations fans out across all feeds concurrently and returns
// everything that arrived.
func (s *Source) FetchObservations(ctx context.Context) ([]trends.Observation, error) {
	log := logger.Get()
	start := time.Now()

	var mu sync.Mutex
	var all []trends.Observation
	var failures int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(5)

	for _, sub := range s.subreddits {
		sub := sub
		g.Go(func() error {
			obs, err := s.reddit.FetchSubreddit(gctx, sub, 50)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn().Err(err).Str("subreddit", sub).Msg("Subreddit fetch failed")
				failures++
				return nil
			}
			all = append(all, obs...)
			return nil
		})
	}

	g.Go(func() error {
		obs, err := s.gtrends.FetchDaily(gctx)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			log.Warn().Err(err).Msg("Google trends fetch failed")
			failures++
			return nil
		}
		all = append(all, obs...)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(all) == 0 && failures > 0 {
		return nil, fmt.Errorf("all %d trend feeds failed", failures)
	}

	log.Info().
		Int("observations", len(all)).
		Int("failed_feeds", failures).
		Dur("duration", time.Since(start)).
		Msg("Fetched trend observations")

	return all, nil
}

// SummarizeLandscape builds a bounded text snapshot of what is currently
// trending, suitable as opaque generation context. Scrape failures yield
// a shorter summary, never an error.
func (s *Source) SummarizeLandscape(ctx context.Context) string {
	log := logger.Get()
	var parts []string

	if topics, err := s.gtrends.FetchDaily(ctx); err != nil {
		log.Warn().Err(err).Msg("Landscape summary: trends feed unavailable")
	} else if len(topics) > 0 {
		parts = append(parts, "TRENDING TOPICS:")
		for i, t := range topics {
			if i >= 10 {
				break
			}
			parts = append(parts, fmt.Sprintf("- %s: %s", t.Name, truncate(t.Description, 80)))
		}
	}

	var memeTitles []trends.Observation
	for _, sub := range s.subreddits {
		obs, err := s.reddit.FetchSubreddit(ctx, sub, 10)
		if err != nil {
			log.Warn().Err(err).Str("subreddit", sub).Msg("Landscape summary: subreddit unavailable")
			continue
		}
		memeTitles = append(memeTitles, obs...)
		if len(memeTitles) >= 10 {
			break
		}
	}
	if len(memeTitles) > 0 {
		parts = append(parts, "\nTRENDING MEMES:")
		for i, m := range memeTitles {
			if i >= 10 {
				break
			}
			parts = append(parts, fmt.Sprintf("- %s (%s)", m.Name, m.SourcePlatform))
		}
	}

	summary := strings.Join(parts, "\n")
	if len(summary) > landscapeSummaryLimit {
		summary = summary[:landscapeSummaryLimit]
	}

	log.Info().Int("chars", len(summary)).Msg("Generated landscape summary")
	return summary
}
