package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/memetide/memetide/internal/models"
	"gorm.io/gorm"
)

// TrendRepository defines store access for trend records.
type TrendRepository interface {
	// FindByName returns (nil, nil) when no trend has the given name.
	FindByName(ctx context.Context, name string) (*models.Trend, error)
	Create(ctx context.Context, trend *models.Trend) error
	Update(ctx context.Context, trend *models.Trend) error
	// Top returns trends with popularity_score >= minScore in the given
	// stages, ordered by popularity_score descending.
	Top(ctx context.Context, minScore float64, stages []string, limit int) ([]models.Trend, error)
	// List returns trends above minScore regardless of stage.
	List(ctx context.Context, minScore float64, limit int) ([]models.Trend, error)
	IncrementUsage(ctx context.Context, name string) error
	// Counts reports how many trends are monitored and how many have been used.
	Counts(ctx context.Context) (monitored, used int64, err error)
}

// GormTrendRepository implements TrendRepository using GORM.
type GormTrendRepository struct {
	db *gorm.DB
}

// NewTrendRepository creates a new trend repository
func NewTrendRepository(db *gorm.DB) TrendRepository {
	return &GormTrendRepository{db: db}
}

func (r *GormTrendRepository) FindByName(ctx context.Context, name string) (*models.Trend, error) {
	var trend models.Trend
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&trend).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &trend, nil
}

func (r *GormTrendRepository) Create(ctx context.Context, trend *models.Trend) error {
	return r.db.WithContext(ctx).Create(trend).Error
}

func (r *GormTrendRepository) Update(ctx context.Context, trend *models.Trend) error {
	return r.db.WithContext(ctx).Save(trend).Error
}

func (r *GormTrendRepository) Top(ctx context.Context, minScore float64, stages []string, limit int) ([]models.Trend, error) {
	var trends []models.Trend
	err := r.db.WithContext(ctx).
		Where("popularity_score >= ? AND lifecycle_stage IN ?", minScore, stages).
		Order("popularity_score DESC").
		Limit(limit).
		Find(&trends).Error
	return trends, err
}

func (r *GormTrendRepository) List(ctx context.Context, minScore float64, limit int) ([]models.Trend, error) {
	var trends []models.Trend
	err := r.db.WithContext(ctx).
		Where("popularity_score >= ?", minScore).
		Order("popularity_score DESC").
		Limit(limit).
		Find(&trends).Error
	return trends, err
}

func (r *GormTrendRepository) IncrementUsage(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).Model(&models.Trend{}).
		Where("name = ?", name).
		UpdateColumn("times_used", gorm.Expr("times_used + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("trend %q: %w", name, ErrNotFound)
	}
	return nil
}

func (r *GormTrendRepository) Counts(ctx context.Context) (int64, int64, error) {
	var monitored, used int64
	if err := r.db.WithContext(ctx).Model(&models.Trend{}).Count(&monitored).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Trend{}).Where("times_used > 0").Count(&used).Error; err != nil {
		return 0, 0, err
	}
	return monitored, used, nil
}
