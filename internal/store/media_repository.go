package store

import (
	"context"
	"errors"

	"github.com/memetide/memetide/internal/models"
	"gorm.io/gorm"
)

// MediaRepository defines store access for analyzed media. Media records
// are deduplicated by URL.
type MediaRepository interface {
	Create(ctx context.Context, media *models.AnalyzedMedia) error
	// FindByURL returns (nil, nil) when the URL has not been analyzed.
	FindByURL(ctx context.Context, url string) (*models.AnalyzedMedia, error)
	// Recent returns the most recently analyzed media above minScore.
	Recent(ctx context.Context, minScore float64, limit int) ([]models.AnalyzedMedia, error)
	// TopScoring orders by meme_potential_score descending.
	TopScoring(ctx context.Context, minScore float64, limit int) ([]models.AnalyzedMedia, error)
	List(ctx context.Context, mediaType string, minScore float64, limit int) ([]models.AnalyzedMedia, error)
}

// GormMediaRepository implements MediaRepository using GORM.
type GormMediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &GormMediaRepository{db: db}
}

func (r *GormMediaRepository) Create(ctx context.Context, media *models.AnalyzedMedia) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *GormMediaRepository) FindByURL(ctx context.Context, url string) (*models.AnalyzedMedia, error) {
	var media models.AnalyzedMedia
	err := r.db.WithContext(ctx).Where("media_url = ?", url).First(&media).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *GormMediaRepository) Recent(ctx context.Context, minScore float64, limit int) ([]models.AnalyzedMedia, error) {
	var media []models.AnalyzedMedia
	err := r.db.WithContext(ctx).
		Where("meme_potential_score >= ?", minScore).
		Order("analyzed_at DESC").
		Limit(limit).
		Find(&media).Error
	return media, err
}

func (r *GormMediaRepository) TopScoring(ctx context.Context, minScore float64, limit int) ([]models.AnalyzedMedia, error) {
	var media []models.AnalyzedMedia
	err := r.db.WithContext(ctx).
		Where("meme_potential_score >= ?", minScore).
		Order("meme_potential_score DESC").
		Limit(limit).
		Find(&media).Error
	return media, err
}

func (r *GormMediaRepository) List(ctx context.Context, mediaType string, minScore float64, limit int) ([]models.AnalyzedMedia, error) {
	q := r.db.WithContext(ctx).Where("meme_potential_score >= ?", minScore)
	if mediaType != "" {
		q = q.Where("media_type = ?", mediaType)
	}
	var media []models.AnalyzedMedia
	err := q.Order("meme_potential_score DESC").Limit(limit).Find(&media).Error
	return media, err
}
