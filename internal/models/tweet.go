package models

import "time"

// Tweet records content actually published to the external service.
type Tweet struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TweetID  string    `gorm:"uniqueIndex;not null" json:"tweet_id"`
	Content  string    `gorm:"not null" json:"content"`
	ImageURL string    `json:"image_url"`
	PostedAt time.Time `json:"posted_at"`

	// Engagement metrics, refreshed asynchronously
	Likes       int `json:"likes"`
	Retweets    int `json:"retweets"`
	Replies     int `json:"replies"`
	Impressions int `json:"impressions"`

	// Content classification
	MemeFormat string   `json:"meme_format"`
	IronyLevel string   `json:"irony_level"`
	Topics     JSONList `gorm:"type:text" json:"topics"`

	TrendContext     string `json:"trend_context"`
	GenerationPrompt string `json:"generation_prompt"`

	LastUpdated time.Time `json:"last_updated"`
	CreatedAt   time.Time `json:"created_at"`
}

// EngagementScore weighs retweets double.
func (t *Tweet) EngagementScore() int {
	return t.Likes + t.Retweets*2
}
