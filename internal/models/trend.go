package models

import "time"

// Lifecycle stages for a trend.
const (
	StageNew       = "new"
	StageRising    = "rising"
	StageStable    = "stable"
	StagePeak      = "peak"
	StageDeclining = "declining"
)

// Trend is a named cultural signal tracked across scrape cycles.
type Trend struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`

	// Trend metrics
	PopularityScore float64 `json:"popularity_score"` // 0-100 scale
	Velocity        float64 `json:"velocity"`         // percent change per observation
	LifecycleStage  string  `json:"lifecycle_stage"`

	// Sources
	SourcePlatform string    `json:"source_platform"`
	FirstSeen      time.Time `json:"first_seen"`
	LastSeen       time.Time `json:"last_seen"`

	// Context
	RelatedTopics JSONList `gorm:"type:text" json:"related_topics"`
	ExampleURLs   JSONList `gorm:"type:text" json:"example_urls"`
	Keywords      JSONList `gorm:"type:text" json:"keywords"`

	// Usage tracking
	TimesUsed     int     `json:"times_used"`
	AvgEngagement float64 `json:"avg_engagement"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClassifyStage maps a (popularity, velocity) pair to a lifecycle stage.
// The table is total: every pair yields exactly one stage.
func ClassifyStage(popularity, velocity float64) string {
	switch {
	case popularity < 20:
		if velocity > 50 {
			return StageRising
		}
		return StageNew
	case popularity < 60:
		if velocity > 20 {
			return StageRising
		}
		if velocity < -20 {
			return StageDeclining
		}
		return StageStable
	default:
		if velocity < -10 {
			return StageDeclining
		}
		return StagePeak
	}
}

// ClampScore bounds a popularity score to the 0-100 scale.
func ClampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
