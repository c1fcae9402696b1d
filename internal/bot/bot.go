package bot

import (
	"context"
	"time"

	"github.com/memetide/memetide/internal/config"
	"github.com/memetide/memetide/internal/logger"
	"github.com/memetide/memetide/internal/models"
	"github.com/memetide/memetide/internal/pipeline"
	"github.com/memetide/memetide/internal/publish"
	"github.com/memetide/memetide/internal/scheduler"
	"github.com/memetide/memetide/internal/scrape"
	"github.com/memetide/memetide/internal/store"
	"github.com/memetide/memetide/internal/trends"
)

// metricsWindow is how far back posted tweets get their metrics
// refreshed.
const metricsWindow = 7 * 24 * time.Hour

// Bot owns the scheduled jobs and their dependencies.
type Bot struct {
	cfg       *config.Config
	sched     *scheduler.Scheduler
	tracker   *trends.Tracker
	generator *pipeline.Generator
	learner   *pipeline.Learner
	source    *scrape.Source
	publisher publish.Publisher

	tweets    store.TweetRepository
	analytics store.AnalyticsRepository
	trends    store.TrendRepository
}

// New assembles the bot from already-constructed components.
func New(
	cfg *config.Config,
	sched *scheduler.Scheduler,
	tracker *trends.Tracker,
	generator *pipeline.Generator,
	learner *pipeline.Learner,
	source *scrape.Source,
	publisher publish.Publisher,
	tweets store.TweetRepository,
	analytics store.AnalyticsRepository,
	trendRepo store.TrendRepository,
) *Bot {
	return &Bot{
		cfg:       cfg,
		sched:     sched,
		tracker:   tracker,
		generator: generator,
		learner:   learner,
		source:    source,
		publisher: publisher,
		tweets:    tweets,
		analytics: analytics,
		trends:    trendRepo,
	}
}

// Start registers the job set for the configured mode and starts the
// scheduler. In generator mode content lands in the review queue; in
// auto-post mode it goes straight out.
func (b *Bot) Start(ctx context.Context) {
	if !b.cfg.BotEnabled {
		logger.Warn().Msg("Bot is disabled, no jobs scheduled")
		return
	}

	if b.cfg.GeneratorMode {
		b.sched.Register("generate_content", "Generate content for review",
			scheduler.Trigger{Kind: scheduler.Interval, Every: b.cfg.GenerateInterval},
			func(ctx context.Context) error {
				_, err := b.generator.GenerateToQueue(ctx, true)
				return err
			})
	} else {
		b.sched.Register("post_meme", "Generate and post a meme",
			scheduler.Trigger{Kind: scheduler.Interval, Every: b.cfg.PostInterval},
			func(ctx context.Context) error {
				_, err := b.generator.GenerateAndPost(ctx, true)
				return err
			})
	}

	b.sched.Register("scrape_trends", "Scrape trend sources",
		scheduler.Trigger{Kind: scheduler.Interval, Every: b.cfg.TrendScrapeInterval},
		b.scrapeTrends)

	b.sched.Register("update_metrics", "Refresh tweet metrics",
		scheduler.Trigger{Kind: scheduler.Interval, Every: 2 * time.Hour},
		b.updateMetrics)

	b.sched.Register("learning_session", "Analyze trending media",
		scheduler.Trigger{Kind: scheduler.Daily, Hour: 2, Minute: 0},
		b.learningSession)

	b.sched.Register("collect_analytics", "Collect daily analytics",
		scheduler.Trigger{Kind: scheduler.Daily, Hour: 0, Minute: 0},
		b.collectAnalytics)

	b.sched.Start(ctx)
	logger.Info().
		Bool("generator_mode", b.cfg.GeneratorMode).
		Msg("Bot started")
}

// Stop drains in-flight jobs and shuts the scheduler down.
func (b *Bot) Stop() {
	b.sched.Stop()
}

func (b *Bot) scrapeTrends(ctx context.Context) error {
	obs, err := b.source.FetchObservations(ctx)
	if err != nil {
		return err
	}
	b.tracker.Ingest(ctx, obs)
	return nil
}

// updateMetrics refreshes engagement numbers for recent tweets. One
// tweet failing does not stop the rest.
func (b *Bot) updateMetrics(ctx context.Context) error {
	recent, err := b.tweets.PostedSince(ctx, time.Now().Add(-metricsWindow))
	if err != nil {
		return err
	}

	updated := 0
	for _, t := range recent {
		m, err := b.publisher.TweetMetrics(ctx, t.TweetID)
		if err != nil {
			logger.WithError(err).Str("tweet_id", t.TweetID).Msg("Metrics fetch failed")
			continue
		}
		err = b.tweets.UpdateMetrics(ctx, t.TweetID, store.TweetMetrics{
			Likes:       m.Likes,
			Retweets:    m.Retweets,
			Replies:     m.Replies,
			Impressions: m.Impressions,
		})
		if err != nil {
			logger.WithError(err).Str("tweet_id", t.TweetID).Msg("Metrics update failed")
			continue
		}
		updated++
	}

	logger.Info().Int("updated", updated).Int("total", len(recent)).Msg("Tweet metrics refreshed")
	return nil
}

func (b *Bot) learningSession(ctx context.Context) error {
	if _, err := b.learner.LearnFromTopMedia(ctx, 30); err != nil {
		return err
	}

	strategy, err := b.learner.StrategySummary(ctx)
	if err != nil {
		return err
	}
	logger.Info().
		Strs("formats", strategy.TopFormats).
		Strs("humor", strategy.TopHumorTypes).
		Str("irony", strategy.TopIronyLevel).
		Int("sample", strategy.SampleSize).
		Msg("Learning strategy updated")
	return nil
}

// collectAnalytics rolls up yesterday's numbers into one row per day.
// Running twice on the same day is a no-op.
func (b *Bot) collectAnalytics(ctx context.Context) error {
	day := time.Now().UTC().Truncate(24 * time.Hour)

	existing, err := b.analytics.FindByDate(ctx, day)
	if err != nil {
		return err
	}
	if existing != nil {
		logger.Debug().Time("date", day).Msg("Analytics already collected for today")
		return nil
	}

	since := day.Add(-24 * time.Hour)
	posted, err := b.tweets.PostedSince(ctx, since)
	if err != nil {
		return err
	}

	row := &models.DailyAnalytics{Date: day}
	row.TweetsPosted = len(posted)

	var best *models.Tweet
	for i := range posted {
		t := &posted[i]
		row.TotalLikes += t.Likes
		row.TotalRetweets += t.Retweets
		row.TotalReplies += t.Replies
		row.TotalImpressions += t.Impressions
		if best == nil || t.EngagementScore() > best.EngagementScore() {
			best = t
		}
	}
	if best != nil {
		row.BestPerformingTweetID = best.TweetID
		row.BestPerformingFormat = best.MemeFormat
		row.BestPerformingIronyLevel = best.IronyLevel
	}
	if row.TotalImpressions > 0 {
		row.AvgEngagementRate = float64(row.TotalLikes+row.TotalRetweets+row.TotalReplies) / float64(row.TotalImpressions)
	}

	if b.publisher != nil {
		account, err := b.publisher.AccountMetrics(ctx)
		if err != nil {
			logger.WithError(err).Msg("Account metrics unavailable for analytics")
		} else {
			row.FollowerCount = account.Followers
			if prev, err := b.analytics.FindByDate(ctx, day.Add(-24*time.Hour)); err == nil && prev != nil {
				delta := account.Followers - prev.FollowerCount
				if delta >= 0 {
					row.FollowersGained = delta
				} else {
					row.FollowersLost = -delta
				}
			}
		}
	}

	monitored, used, err := b.trends.Counts(ctx)
	if err != nil {
		logger.WithError(err).Msg("Trend counts unavailable for analytics")
	} else {
		row.TrendsMonitored = int(monitored)
		row.TrendsUsed = int(used)
	}

	if err := b.analytics.Create(ctx, row); err != nil {
		return err
	}
	logger.Info().Time("date", day).Int("tweets", row.TweetsPosted).Msg("Daily analytics collected")
	return nil
}

// Status reports the bot's run state and upcoming jobs.
type Status struct {
	Enabled       bool                  `json:"enabled"`
	GeneratorMode bool                  `json:"generator_mode"`
	Jobs          []scheduler.JobStatus `json:"jobs"`
}

// Status snapshots the scheduler.
func (b *Bot) Status() Status {
	return Status{
		Enabled:       b.cfg.BotEnabled,
		GeneratorMode: b.cfg.GeneratorMode,
		Jobs:          b.sched.Status(),
	}
}
