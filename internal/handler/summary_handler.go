package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benchlab/gaia-eval-api/internal/service"
	"github.com/benchlab/gaia-eval-api/internal/utils"
)

// SummaryHandler serves the per-user progress rollup.
type SummaryHandler struct {
	summaries service.SummaryService
	logger    zerolog.Logger
}

func NewSummaryHandler(summaries service.SummaryService, logger zerolog.Logger) *SummaryHandler {
	return &SummaryHandler{
		summaries: summaries,
		logger:    logger.With().Str("component", "summary_handler").Logger(),
	}
}

// Register wires the summary routes into the provided router group.
func (h *SummaryHandler) Register(router fiber.Router) {
	router.Get("", h.get)
}

func (h *SummaryHandler) get(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user identity is required")
	}

	summary, err := h.summaries.GetSummary(c.Context(), userID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Str("user_id", userID).Msg("failed to build summary")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build summary")
	}

	return utils.SendSuccess(c, "summary generated", summary)
}
