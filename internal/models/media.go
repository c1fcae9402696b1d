package models

import "time"

// AnalyzedMedia stores the analysis of one external media item.
type AnalyzedMedia struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	MediaURL  string `gorm:"uniqueIndex;not null" json:"media_url"`
	MediaType string `json:"media_type"` // image, video

	// Analysis results
	VisualDescription  string   `json:"visual_description"`
	MemeFormat         string   `json:"meme_format"`
	TextContent        JSONList `gorm:"type:text" json:"text_content"`
	HumorType          string   `json:"humor_type"`
	IronyLevel         string   `json:"irony_level"`
	CulturalReferences JSONList `gorm:"type:text" json:"cultural_references"`
	EmotionalTone      string   `json:"emotional_tone"`
	Topics             JSONList `gorm:"type:text" json:"topics"`

	MemePotentialScore float64 `json:"meme_potential_score"`

	// Full analysis payload
	AnalysisData JSONMap `gorm:"type:text" json:"analysis_data"`
	SourceURL    string  `json:"source_url"`
	AnalyzedAt   time.Time `json:"analyzed_at"`

	// Usage tracking
	UsedForInspiration bool `json:"used_for_inspiration"`
	TimesReferenced    int  `json:"times_referenced"`

	CreatedAt time.Time `json:"created_at"`
}
