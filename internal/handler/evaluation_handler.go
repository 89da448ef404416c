package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benchlab/gaia-eval-api/internal/dto"
	"github.com/benchlab/gaia-eval-api/internal/service"
	"github.com/benchlab/gaia-eval-api/internal/utils"
)

// EvaluationHandler manages grading attempt endpoints.
type EvaluationHandler struct {
	evaluations service.EvaluationService
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewEvaluationHandler builds an evaluation handler instance.
func NewEvaluationHandler(evaluations service.EvaluationService, validate *validator.Validate, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		evaluations: evaluations,
		validator:   validate,
		logger:      logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Post("", h.evaluate)
	router.Get("/:taskID", h.getResult)
	router.Put("/:taskID/instructions", h.updateInstructions)
}

func (h *EvaluationHandler) evaluate(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user identity is required")
	}

	var payload dto.EvaluationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.evaluations.Evaluate(c.Context(), userID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation completed", result)
}

func (h *EvaluationHandler) getResult(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user identity is required")
	}

	taskID := c.Params("taskID")
	if taskID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "task id is required")
	}

	result, err := h.evaluations.GetResult(c.Context(), userID, taskID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "result retrieved", result)
}

func (h *EvaluationHandler) updateInstructions(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user identity is required")
	}

	taskID := c.Params("taskID")
	if taskID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "task id is required")
	}

	var payload dto.InstructionsUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.evaluations.UpdateInstructions(c.Context(), userID, taskID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "instructions updated", result)
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "question not found")
	case errors.Is(err, service.ErrGraderUnavailable):
		// The attempt failed in-flight: the stored status is untouched and
		// the operator sees the reason.
		requestLogger(h.logger, c).Warn().Err(err).Msg("grader unavailable")
		return utils.SendError(c, fiber.StatusBadGateway, "evaluation attempt failed, result status unchanged")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("evaluation request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
