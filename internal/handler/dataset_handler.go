package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benchlab/gaia-eval-api/internal/service"
	"github.com/benchlab/gaia-eval-api/internal/utils"
)

// DatasetHandler triggers benchmark manifest imports.
type DatasetHandler struct {
	datasets       service.DatasetService
	manifestPath   string
	attachmentsDir string
	logger         zerolog.Logger
}

// NewDatasetHandler builds a dataset handler instance. The manifest path and
// attachments directory come from configuration, not the request, so the
// endpoint cannot be pointed at arbitrary files.
func NewDatasetHandler(datasets service.DatasetService, manifestPath, attachmentsDir string, logger zerolog.Logger) *DatasetHandler {
	return &DatasetHandler{
		datasets:       datasets,
		manifestPath:   manifestPath,
		attachmentsDir: attachmentsDir,
		logger:         logger.With().Str("component", "dataset_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *DatasetHandler) Register(router fiber.Router) {
	router.Post("/import", h.importManifest)
}

func (h *DatasetHandler) importManifest(c *fiber.Ctx) error {
	if h.manifestPath == "" {
		return utils.SendError(c, fiber.StatusConflict, "no benchmark manifest configured")
	}

	affected, err := h.datasets.Import(c.Context(), h.manifestPath, h.attachmentsDir)
	if err != nil {
		if errors.Is(err, service.ErrEmptyManifest) {
			return utils.SendError(c, fiber.StatusUnprocessableEntity, "manifest contains no records")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("manifest import failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "manifest import failed")
	}

	return utils.SendSuccess(c, "benchmark manifest imported", fiber.Map{"affected": affected})
}
