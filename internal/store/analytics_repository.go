package store

import (
	"context"
	"errors"
	"time"

	"github.com/memetide/memetide/internal/models"
	"gorm.io/gorm"
)

// AnalyticsRepository defines store access for daily analytics rows.
// Rows are append-only: one per day key, never updated after creation.
type AnalyticsRepository interface {
	Create(ctx context.Context, row *models.DailyAnalytics) error
	// FindByDate returns (nil, nil) when no row exists for the day.
	FindByDate(ctx context.Context, day time.Time) (*models.DailyAnalytics, error)
	ListSince(ctx context.Context, cutoff time.Time) ([]models.DailyAnalytics, error)
}

// GormAnalyticsRepository implements AnalyticsRepository using GORM.
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

func (r *GormAnalyticsRepository) Create(ctx context.Context, row *models.DailyAnalytics) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *GormAnalyticsRepository) FindByDate(ctx context.Context, day time.Time) (*models.DailyAnalytics, error) {
	var row models.DailyAnalytics
	err := r.db.WithContext(ctx).Where("date = ?", day).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormAnalyticsRepository) ListSince(ctx context.Context, cutoff time.Time) ([]models.DailyAnalytics, error) {
	var rows []models.DailyAnalytics
	err := r.db.WithContext(ctx).
		Where("date >= ?", cutoff).
		Order("date DESC").
		Find(&rows).Error
	return rows, err
}
