package api

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/memetide/memetide/internal/bot"
	"github.com/memetide/memetide/internal/logger"
	"github.com/memetide/memetide/internal/models"
	"github.com/memetide/memetide/internal/store"
)

// Handlers bundles the HTTP handlers with their dependencies.
type Handlers struct {
	queue     store.QueueRepository
	tweets    store.TweetRepository
	trends    store.TrendRepository
	media     store.MediaRepository
	analytics store.AnalyticsRepository
	bot       *bot.Bot
}

// NewHandlers creates the handler set.
func NewHandlers(
	queue store.QueueRepository,
	tweets store.TweetRepository,
	trends store.TrendRepository,
	media store.MediaRepository,
	analytics store.AnalyticsRepository,
	b *bot.Bot,
) *Handlers {
	return &Handlers{
		queue:     queue,
		tweets:    tweets,
		trends:    trends,
		media:     media,
		analytics: analytics,
		bot:       b,
	}
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// GetStatus handles GET /api/v1/status
func (h *Handlers) GetStatus(c *fiber.Ctx) error {
	return c.JSON(h.bot.Status())
}

// ReviewRequest is the body for approve/reject endpoints.
type ReviewRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

// MarkPostedRequest is the body for the mark-posted endpoint.
type MarkPostedRequest struct {
	TweetID string `json:"tweet_id" validate:"required"`
}

// ListQueue handles GET /api/v1/queue
func (h *Handlers) ListQueue(c *fiber.Ctx) error {
	status := c.Query("status", models.StatusPending)
	if status == "all" {
		status = ""
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	switch {
	case limit > 200:
		limit = 200
	case limit <= 0:
		limit = 50
	}

	items, err := h.queue.List(c.Context(), status, limit)
	if err != nil {
		logger.WithError(err).Msg("Error listing queue")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list queue",
		})
	}

	return c.JSON(fiber.Map{
		"total": len(items),
		"items": items,
	})
}

// GetQueueItem handles GET /api/v1/queue/:id
func (h *Handlers) GetQueueItem(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid item ID",
		})
	}

	item, err := h.queue.Find(c.Context(), id)
	if err != nil {
		return queueError(c, id, err, "Error loading queue item")
	}
	return c.JSON(item)
}

// ApproveItem handles POST /api/v1/queue/:id/approve
func (h *Handlers) ApproveItem(c *fiber.Ctx) error {
	return h.review(c, h.queue.Approve)
}

// RejectItem handles POST /api/v1/queue/:id/reject
func (h *Handlers) RejectItem(c *fiber.Ctx) error {
	return h.review(c, h.queue.Reject)
}

func (h *Handlers) review(c *fiber.Ctx, apply func(ctx context.Context, id uint, notes string) (*models.QueueItem, error)) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid item ID",
		})
	}

	var req ReviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	item, err := apply(c.Context(), id, req.Notes)
	if err != nil {
		return queueError(c, id, err, "Error reviewing queue item")
	}

	logger.Info().Uint("item_id", id).Str("status", item.Status).Msg("Queue item reviewed")
	return c.JSON(item)
}

// MarkItemPosted handles POST /api/v1/queue/:id/posted
func (h *Handlers) MarkItemPosted(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid item ID",
		})
	}

	req, ok := c.Locals("validated").(*MarkPostedRequest)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	item, err := h.queue.MarkPosted(c.Context(), id, req.TweetID)
	if err != nil {
		return queueError(c, id, err, "Error marking queue item posted")
	}

	return c.JSON(item)
}

// ListTweets handles GET /api/v1/tweets
func (h *Handlers) ListTweets(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	switch {
	case pageSize > 100:
		pageSize = 100
	case pageSize <= 0:
		pageSize = 20
	}

	tweets, err := h.tweets.ListRecent(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		logger.WithError(err).Msg("Error listing tweets")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list tweets",
		})
	}

	return c.JSON(fiber.Map{
		"page":      page,
		"page_size": pageSize,
		"total":     len(tweets),
		"items":     tweets,
	})
}

// TopTweets handles GET /api/v1/tweets/top
func (h *Handlers) TopTweets(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "7"))
	if days <= 0 {
		days = 7
	}
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	tweets, err := h.tweets.TopSince(c.Context(), time.Now().AddDate(0, 0, -days), limit)
	if err != nil {
		logger.WithError(err).Msg("Error loading top tweets")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load top tweets",
		})
	}

	return c.JSON(fiber.Map{
		"days":  days,
		"items": tweets,
	})
}

// GetTweet handles GET /api/v1/tweets/:id
func (h *Handlers) GetTweet(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Tweet ID is required",
		})
	}

	tweet, err := h.tweets.FindByTweetID(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Tweet not found",
			})
		}
		logger.WithError(err).Str("tweet_id", id).Msg("Error loading tweet")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load tweet",
		})
	}

	return c.JSON(tweet)
}

// ListTrends handles GET /api/v1/trends
func (h *Handlers) ListTrends(c *fiber.Ctx) error {
	minScore, _ := strconv.ParseFloat(c.Query("min_score", "0"), 64)
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	items, err := h.trends.List(c.Context(), minScore, limit)
	if err != nil {
		logger.WithError(err).Msg("Error listing trends")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list trends",
		})
	}

	return c.JSON(fiber.Map{
		"total": len(items),
		"items": items,
	})
}

// TrendingNow handles GET /api/v1/trends/trending
func (h *Handlers) TrendingNow(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	items, err := h.trends.Top(c.Context(), 30,
		[]string{models.StageRising, models.StagePeak}, limit)
	if err != nil {
		logger.WithError(err).Msg("Error loading trending topics")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load trending topics",
		})
	}

	return c.JSON(fiber.Map{
		"total": len(items),
		"items": items,
	})
}

// ListMedia handles GET /api/v1/media
func (h *Handlers) ListMedia(c *fiber.Ctx) error {
	mediaType := c.Query("type")
	minScore, _ := strconv.ParseFloat(c.Query("min_score", "0"), 64)
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	items, err := h.media.List(c.Context(), mediaType, minScore, limit)
	if err != nil {
		logger.WithError(err).Msg("Error listing analyzed media")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list analyzed media",
		})
	}

	return c.JSON(fiber.Map{
		"total": len(items),
		"items": items,
	})
}

// ListAnalytics handles GET /api/v1/analytics
func (h *Handlers) ListAnalytics(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "30"))
	if days <= 0 {
		days = 30
	}

	rows, err := h.analytics.ListSince(c.Context(), time.Now().UTC().AddDate(0, 0, -days))
	if err != nil {
		logger.WithError(err).Msg("Error loading analytics")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load analytics",
		})
	}

	return c.JSON(fiber.Map{
		"days":  days,
		"total": len(rows),
		"items": rows,
	})
}

// AnalyticsSummary handles GET /api/v1/analytics/summary
func (h *Handlers) AnalyticsSummary(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "30"))
	if days <= 0 {
		days = 30
	}

	rows, err := h.analytics.ListSince(c.Context(), time.Now().UTC().AddDate(0, 0, -days))
	if err != nil {
		logger.WithError(err).Msg("Error loading analytics")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load analytics",
		})
	}

	totals, err := h.tweets.Totals(c.Context())
	if err != nil {
		logger.WithError(err).Msg("Error loading tweet totals")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load analytics",
		})
	}

	return c.JSON(fiber.Map{
		"days":           days,
		"daily":          rows,
		"total_tweets":   totals.Tweets,
		"total_likes":    totals.Likes,
		"total_retweets": totals.Retweets,
	})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func queueError(c *fiber.Ctx, id uint, err error, msg string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Queue item not found",
		})
	case errors.Is(err, store.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		logger.WithError(err).Uint("item_id", id).Msg(msg)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal error",
		})
	}
}
