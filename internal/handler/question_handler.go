package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benchlab/gaia-eval-api/internal/dto"
	"github.com/benchlab/gaia-eval-api/internal/service"
	"github.com/benchlab/gaia-eval-api/internal/utils"
	"github.com/benchlab/gaia-eval-api/pkg/objectstore"
)

// QuestionHandler manages benchmark question endpoints.
type QuestionHandler struct {
	questions   service.QuestionService
	evaluations service.EvaluationService
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewQuestionHandler builds a question handler instance.
func NewQuestionHandler(questions service.QuestionService, evaluations service.EvaluationService, validate *validator.Validate, logger zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		questions:   questions,
		evaluations: evaluations,
		validator:   validate,
		logger:      logger.With().Str("component", "question_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *QuestionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:taskID", h.get)
	router.Get("/:taskID/attachment", h.previewAttachment)
}

func (h *QuestionHandler) list(c *fiber.Ctx) error {
	filter := dto.QuestionListFilter{}

	if level, err := parseQueryInt(c, "level"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid level")
	} else if level > 0 {
		filter.Level = &level
	}

	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}
	filter.Page = page
	filter.PageSize = pageSize

	questions, err := h.questions.List(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "questions retrieved", questions)
}

func (h *QuestionHandler) get(c *fiber.Ctx) error {
	taskID := c.Params("taskID")
	if taskID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "task id is required")
	}

	question, err := h.questions.Get(c.Context(), taskID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "question retrieved", question)
}

func (h *QuestionHandler) previewAttachment(c *fiber.Ctx) error {
	taskID := c.Params("taskID")
	if taskID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "task id is required")
	}

	preview, err := h.evaluations.PreviewAttachment(c.Context(), taskID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attachment preview extracted", preview)
}

func (h *QuestionHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "question not found")
	case errors.Is(err, service.ErrNoAttachment):
		return utils.SendError(c, fiber.StatusNotFound, "question has no attachment")
	case errors.Is(err, objectstore.ErrObjectNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "attachment not found in object store")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("question request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
