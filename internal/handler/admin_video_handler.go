package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lumilearn/lumilearn-api/internal/repository"
	"github.com/lumilearn/lumilearn-api/internal/service"
	"github.com/lumilearn/lumilearn-api/internal/utils"
)

// AdminVideoHandler serves the authoring surface: checkpoint imports and
// thumbnail uploads.
type AdminVideoHandler struct {
	imports    service.CheckpointImportService
	thumbnails service.ThumbnailService
	logger     zerolog.Logger
}

// NewAdminVideoHandler creates an admin video handler instance.
func NewAdminVideoHandler(imports service.CheckpointImportService, thumbnails service.ThumbnailService, logger zerolog.Logger) *AdminVideoHandler {
	return &AdminVideoHandler{
		imports:    imports,
		thumbnails: thumbnails,
		logger:     logger.With().Str("component", "admin_video_handler").Logger(),
	}
}

// Register binds authoring routes under the provided router group.
func (h *AdminVideoHandler) Register(router fiber.Router) {
	router.Put("/videos/:id/checkpoints", h.importCheckpoints)
	router.Post("/videos/:id/thumbnail", h.uploadThumbnail)
}

func (h *AdminVideoHandler) importCheckpoints(c *fiber.Ctx) error {
	videoID, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid video id")
	}

	result, err := h.imports.Import(requestContext(c), videoID, c.Body())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "video not found")
		case errors.Is(err, service.ErrImportInvalid):
			return utils.Fail(c, fiber.StatusUnprocessableEntity, "invalid checkpoint payload", err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("checkpoint import failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "checkpoint import failed")
		}
	}

	return utils.SendSuccess(c, "checkpoints imported", result)
}

func (h *AdminVideoHandler) uploadThumbnail(c *fiber.Ctx) error {
	videoID, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid video id")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	result, err := h.thumbnails.UploadThumbnail(requestContext(c), videoID, file)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "video not found")
		case errors.Is(err, service.ErrThumbnailTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, service.ErrThumbnailNotImage):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("thumbnail upload failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "thumbnail upload failed")
		}
	}

	return utils.SendSuccess(c, "thumbnail stored", result)
}
