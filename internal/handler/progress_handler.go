package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lumilearn/lumilearn-api/internal/dto"
	"github.com/lumilearn/lumilearn-api/internal/middleware"
	"github.com/lumilearn/lumilearn-api/internal/player"
	"github.com/lumilearn/lumilearn-api/internal/repository"
	"github.com/lumilearn/lumilearn-api/internal/service"
	"github.com/lumilearn/lumilearn-api/internal/utils"
)

// ProgressHandler serves durable progress reads and the REST recording
// fallback for clients reporting outside the playback websocket.
type ProgressHandler struct {
	progress  service.ProgressService
	playback  service.PlaybackService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewProgressHandler creates a progress handler instance.
func NewProgressHandler(progress service.ProgressService, playback service.PlaybackService, validator *validator.Validate, logger zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		progress:  progress,
		playback:  playback,
		validator: validator,
		logger:    logger.With().Str("component", "progress_handler").Logger(),
	}
}

// Register binds progress routes under the provided router group. The write
// path additionally requires a resolved user even when the surrounding group
// runs without JWT enforcement.
func (h *ProgressHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Get("/videos/:id", h.getVideo)
	router.Post("/", middleware.WithAuth(h.record, middleware.AuthOptions{RequireUser: true}))
}

func (h *ProgressHandler) list(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	records, err := h.progress.ListVideoProgress(requestContext(c), userID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list progress")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list progress")
	}

	responses := make([]dto.VideoProgressResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, dto.NewVideoProgressResponse(record))
	}
	return utils.OK(c, responses, "progress", map[string]int{"count": len(responses)})
}

func (h *ProgressHandler) getVideo(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	videoID, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid video id")
	}

	record, err := h.progress.GetVideoProgress(requestContext(c), userID, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "no progress for video")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load progress")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load progress")
	}

	return utils.SendSuccess(c, "progress", dto.NewVideoProgressResponse(record))
}

func (h *ProgressHandler) record(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var request dto.RecordProgressRequest
	if err := c.BodyParser(&request); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(request); err != nil {
		if isValidationError(err) {
			return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", err.Error())
		}
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	ctx := requestContext(c)
	media, err := h.playback.ResolveMedia(ctx, request.MediaID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "unknown media")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to resolve media")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to record progress")
	}

	position := request.Position
	if media.Duration > 0 && position > media.Duration {
		position = media.Duration
	}
	remaining := media.Duration - position
	if remaining < 0 {
		remaining = 0
	}

	update := player.ProgressUpdate{
		UserID:           userID,
		VideoID:          media.VideoID,
		CourseID:         media.CourseID,
		MediaID:          media.MediaID,
		MinutesWatched:   position / 60,
		MinutesRemaining: remaining / 60,
		LastPosition:     position,
		Completed:        media.Duration > 0 && position >= media.Duration-1,
	}
	if err := h.progress.RecordVideoProgress(ctx, update); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to record progress")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to record progress")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "progress recorded", nil)
}
