package store

import (
	"context"
	"errors"
	"time"

	"github.com/memetide/memetide/internal/models"
	"gorm.io/gorm"
)

// TweetMetrics carries one refresh of engagement counters.
type TweetMetrics struct {
	Likes       int
	Retweets    int
	Replies     int
	Impressions int
}

// TweetTotals aggregates all-time engagement.
type TweetTotals struct {
	Tweets   int64
	Likes    int64
	Retweets int64
}

// TweetRepository defines store access for published tweets.
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	FindByTweetID(ctx context.Context, tweetID string) (*models.Tweet, error)
	// PostedSince returns tweets posted at or after the cutoff.
	PostedSince(ctx context.Context, cutoff time.Time) ([]models.Tweet, error)
	ListRecent(ctx context.Context, limit, offset int) ([]models.Tweet, error)
	// TopSince orders by likes + 2*retweets descending.
	TopSince(ctx context.Context, cutoff time.Time, limit int) ([]models.Tweet, error)
	UpdateMetrics(ctx context.Context, tweetID string, m TweetMetrics) error
	Totals(ctx context.Context) (TweetTotals, error)
}

// GormTweetRepository implements TweetRepository using GORM.
type GormTweetRepository struct {
	db *gorm.DB
}

// NewTweetRepository creates a new tweet repository
func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &GormTweetRepository{db: db}
}

func (r *GormTweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	return r.db.WithContext(ctx).Create(tweet).Error
}

func (r *GormTweetRepository) FindByTweetID(ctx context.Context, tweetID string) (*models.Tweet, error) {
	var tweet models.Tweet
	err := r.db.WithContext(ctx).Where("tweet_id = ?", tweetID).First(&tweet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (r *GormTweetRepository) PostedSince(ctx context.Context, cutoff time.Time) ([]models.Tweet, error) {
	var tweets []models.Tweet
	err := r.db.WithContext(ctx).
		Where("posted_at >= ?", cutoff).
		Order("posted_at DESC").
		Find(&tweets).Error
	return tweets, err
}

func (r *GormTweetRepository) ListRecent(ctx context.Context, limit, offset int) ([]models.Tweet, error) {
	var tweets []models.Tweet
	err := r.db.WithContext(ctx).
		Order("posted_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tweets).Error
	return tweets, err
}

func (r *GormTweetRepository) TopSince(ctx context.Context, cutoff time.Time, limit int) ([]models.Tweet, error) {
	var tweets []models.Tweet
	err := r.db.WithContext(ctx).
		Where("posted_at >= ?", cutoff).
		Order("likes + retweets * 2 DESC").
		Limit(limit).
		Find(&tweets).Error
	return tweets, err
}

func (r *GormTweetRepository) UpdateMetrics(ctx context.Context, tweetID string, m TweetMetrics) error {
	return r.db.WithContext(ctx).Model(&models.Tweet{}).
		Where("tweet_id = ?", tweetID).
		Updates(map[string]interface{}{
			"likes":        m.Likes,
			"retweets":     m.Retweets,
			"replies":      m.Replies,
			"impressions":  m.Impressions,
			"last_updated": time.Now().UTC(),
		}).Error
}

func (r *GormTweetRepository) Totals(ctx context.Context) (TweetTotals, error) {
	var t TweetTotals
	if err := r.db.WithContext(ctx).Model(&models.Tweet{}).Count(&t.Tweets).Error; err != nil {
		return t, err
	}
	row := r.db.WithContext(ctx).Model(&models.Tweet{}).
		Select("COALESCE(SUM(likes), 0), COALESCE(SUM(retweets), 0)").Row()
	if err := row.Scan(&t.Likes, &t.Retweets); err != nil {
		return t, err
	}
	return t, nil
}
