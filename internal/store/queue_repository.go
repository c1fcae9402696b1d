package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/memetide/memetide/internal/models"
	"gorm.io/gorm"
)

// QueueRepository defines store access for the content review queue.
// Status changes go through the transition methods, which enforce the
// queue state machine.
type QueueRepository interface {
	Create(ctx context.Context, item *models.QueueItem) error
	Find(ctx context.Context, id uint) (*models.QueueItem, error)
	// List returns items newest first, optionally filtered by status.
	List(ctx context.Context, status string, limit int) ([]models.QueueItem, error)
	Approve(ctx context.Context, id uint, notes string) (*models.QueueItem, error)
	Reject(ctx context.Context, id uint, notes string) (*models.QueueItem, error)
	MarkPosted(ctx context.Context, id uint, tweetID string) (*models.QueueItem, error)
}

// GormQueueRepository implements QueueRepository using GORM.
type GormQueueRepository struct {
	db *gorm.DB
}

// NewQueueRepository creates a new queue repository
func NewQueueRepository(db *gorm.DB) QueueRepository {
	return &GormQueueRepository{db: db}
}

func (r *GormQueueRepository) Create(ctx context.Context, item *models.QueueItem) error {
	if item.Status == "" {
		item.Status = models.StatusPending
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormQueueRepository) Find(ctx context.Context, id uint) (*models.QueueItem, error) {
	var item models.QueueItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormQueueRepository) List(ctx context.Context, status string, limit int) ([]models.QueueItem, error) {
	q := r.db.WithContext(ctx).Model(&models.QueueItem{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var items []models.QueueItem
	err := q.Order("created_at DESC").Limit(limit).Find(&items).Error
	return items, err
}

func (r *GormQueueRepository) Approve(ctx context.Context, id uint, notes string) (*models.QueueItem, error) {
	return r.transition(ctx, id, models.StatusApproved, func(item *models.QueueItem) {
		now := time.Now().UTC()
		item.ReviewedAt = &now
		item.ReviewerNotes = notes
	})
}

func (r *GormQueueRepository) Reject(ctx context.Context, id uint, notes string) (*models.QueueItem, error) {
	return r.transition(ctx, id, models.StatusRejected, func(item *models.QueueItem) {
		now := time.Now().UTC()
		item.ReviewedAt = &now
		item.ReviewerNotes = notes
	})
}

func (r *GormQueueRepository) MarkPosted(ctx context.Context, id uint, tweetID string) (*models.QueueItem, error) {
	return r.transition(ctx, id, models.StatusPosted, func(item *models.QueueItem) {
		now := time.Now().UTC()
		item.PostedAt = &now
		item.PostedTweetID = tweetID
	})
}

func (r *GormQueueRepository) transition(ctx context.Context, id uint, to string, apply func(*models.QueueItem)) (*models.QueueItem, error) {
	item, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(item.Status, to) {
		return nil, fmt.Errorf("%s -> %s: %w", item.Status, to, ErrInvalidTransition)
	}
	item.Status = to
	apply(item)
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}
