package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/benchlab/gaia-eval-api/internal/config"
	"github.com/benchlab/gaia-eval-api/internal/handler"
	"github.com/benchlab/gaia-eval-api/internal/middleware"
	"github.com/benchlab/gaia-eval-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	QuestionHandler   *handler.QuestionHandler
	EvaluationHandler *handler.EvaluationHandler
	SummaryHandler    *handler.SummaryHandler
	DatasetHandler    *handler.DatasetHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Benchmark questions are readable without identity; attachment previews
	// run the extraction pipeline, so they carry a rate limit.
	if deps.QuestionHandler != nil {
		questions := app.Group("/api/v2/questions", middleware.WithUser())
		questions.Use(middleware.RateLimit("questions", 60, time.Minute))
		deps.QuestionHandler.Register(questions)
	}

	// Evaluations require identity: each result row is keyed by (user, task).
	if deps.EvaluationHandler != nil {
		evaluations := app.Group("/api/v2/evaluations", middleware.RequireUser())
		evaluations.Use(middleware.RateLimit("evaluations", 10, time.Minute))
		deps.EvaluationHandler.Register(evaluations)
	}

	if deps.SummaryHandler != nil {
		summary := app.Group("/api/v2/summary", middleware.RequireUser())
		deps.SummaryHandler.Register(summary)
	}

	if deps.DatasetHandler != nil {
		dataset := app.Group("/api/v2/dataset", middleware.RequireUser())
		deps.DatasetHandler.Register(dataset)
	}
}
