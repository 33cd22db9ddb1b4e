package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lumilearn/lumilearn-api/internal/service"
	"github.com/lumilearn/lumilearn-api/internal/utils"
)

// StatsHandler serves aggregated learning statistics.
type StatsHandler struct {
	service service.StatsService
	logger  zerolog.Logger
}

// NewStatsHandler creates a stats handler instance.
func NewStatsHandler(service service.StatsService, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger.With().Str("component", "stats_handler").Logger(),
	}
}

// Register binds stats routes under the provided router group.
func (h *StatsHandler) Register(router fiber.Router) {
	router.Get("/", h.overview)
	router.Get("/courses/:id", h.courseOverview)
}

func (h *StatsHandler) overview(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	overview, err := h.service.GetOverview(requestContext(c), userID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build stats overview")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build stats overview")
	}

	return utils.SendSuccess(c, "stats overview", overview)
}

func (h *StatsHandler) courseOverview(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	courseID, err := parseParamUint(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	overview, err := h.service.GetCourseOverview(requestContext(c), userID, courseID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build course stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build course stats")
	}

	return utils.SendSuccess(c, "course stats", overview)
}
