package models

import "time"

// Status values for a queued content item.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusPosted   = "posted"
)

// IronyLevels lists the recognised irony classifications.
var IronyLevels = []string{"literal", "ironic", "post-ironic", "meta-ironic", "absurdist"}

// QueueItem is one generated artifact awaiting review disposition.
type QueueItem struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"not null" json:"content"`

	// Generation metadata
	MemeFormat   string   `json:"meme_format"`
	IronyLevel   string   `json:"irony_level"`
	Topics       JSONList `gorm:"type:text" json:"topics"`
	TrendContext string   `json:"trend_context"`

	// Quality scoring
	QualityScore      float64 `json:"quality_score"`
	HumorScore        float64 `json:"humor_score"`
	AuthenticityScore float64 `json:"authenticity_score"`
	EngagementScore   float64 `json:"engagement_score"`

	// Full evaluation payload
	EvaluationData   JSONMap `gorm:"type:text" json:"evaluation_data"`
	GenerationPrompt string  `json:"generation_prompt"`

	Status        string `gorm:"default:pending" json:"status"`
	ReviewerNotes string `json:"reviewer_notes"`

	ReviewedAt    *time.Time `json:"reviewed_at"`
	PostedAt      *time.Time `json:"posted_at"`
	PostedTweetID string     `json:"posted_tweet_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanTransition reports whether a queue item may move between the given
// statuses. Rejected and posted are terminal.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected || to == StatusPosted
	case StatusApproved:
		return to == StatusPosted
	default:
		return false
	}
}
