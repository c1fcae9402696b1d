package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/memetide/memetide/internal/config"
	"github.com/memetide/memetide/internal/middleware"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, h *Handlers, cfg *config.Config) {
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	app.Get("/health", h.HealthCheck)

	v1 := app.Group("/api/v1")

	v1.Get("/status", h.GetStatus)

	queue := v1.Group("/queue")
	{
		queue.Get("", h.ListQueue)
		queue.Get("/:id", h.GetQueueItem)

		admin := queue.Group("", middleware.AdminOnly(cfg.AdminAPIKey))
		admin.Post("/:id/approve", h.ApproveItem)
		admin.Post("/:id/reject", h.RejectItem)
		admin.Post("/:id/posted",
			middleware.ValidateRequest(&MarkPostedRequest{}),
			h.MarkItemPosted)
	}

	tweets := v1.Group("/tweets")
	{
		tweets.Get("", h.ListTweets)
		tweets.Get("/top", h.TopTweets)
		tweets.Get("/:id", h.GetTweet)
	}

	trends := v1.Group("/trends")
	{
		trends.Get("", h.ListTrends)
		trends.Get("/trending", h.TrendingNow)
	}

	v1.Get("/media", h.ListMedia)
	v1.Get("/analytics", h.ListAnalytics)
	v1.Get("/analytics/summary", h.AnalyticsSummary)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
