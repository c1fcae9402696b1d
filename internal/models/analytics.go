package models

import "time"

// DailyAnalytics is one append-only row of bot performance per day.
type DailyAnalytics struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	Date time.Time `gorm:"uniqueIndex" json:"date"`

	// Daily metrics
	TweetsPosted     int `json:"tweets_posted"`
	TotalLikes       int `json:"total_likes"`
	TotalRetweets    int `json:"total_retweets"`
	TotalReplies     int `json:"total_replies"`
	TotalImpressions int `json:"total_impressions"`

	// Follower growth
	FollowerCount   int `json:"follower_count"`
	FollowersGained int `json:"followers_gained"`
	FollowersLost   int `json:"followers_lost"`

	// Performance
	AvgEngagementRate         float64 `json:"avg_engagement_rate"`
	BestPerformingTweetID     string  `json:"best_performing_tweet_id"`
	BestPerformingFormat      string  `json:"best_performing_format"`
	BestPerformingIronyLevel  string  `json:"best_performing_irony_level"`

	// Trend analysis
	TrendsMonitored int `json:"trends_monitored"`
	TrendsUsed      int `json:"trends_used"`

	CreatedAt time.Time `json:"created_at"`
}
