package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/lumilearn/lumilearn-api/internal/repository"
	"github.com/lumilearn/lumilearn-api/internal/service"
	"github.com/lumilearn/lumilearn-api/internal/utils"
)

// CatalogHandler serves the public course catalog.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a catalog handler instance.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// Register binds catalog routes under the provided router group.
func (h *CatalogHandler) Register(router fiber.Router) {
	router.Get("/courses", h.listCourses)
	router.Get("/courses/:slug", h.getCourse)
	router.Get("/levels", h.listLevels)
	router.Get("/subjects", h.listSubjects)
}

func (h *CatalogHandler) listCourses(c *fiber.Ctx) error {
	filter := repository.CourseFilter{}

	levelID, err := parseQueryUint(c, "level_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid level_id")
	}
	filter.LevelID = levelID

	subjectID, err := parseQueryUint(c, "subject_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid subject_id")
	}
	filter.SubjectID = subjectID

	courses, err := h.service.ListCourses(requestContext(c), filter)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list courses")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list courses")
	}

	return utils.OK(c, courses, "courses", map[string]int{"count": len(courses)})
}

func (h *CatalogHandler) getCourse(c *fiber.Ctx) error {
	course, err := h.service.GetCourse(requestContext(c), c.Params("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load course")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load course")
	}

	return utils.SendSuccess(c, "course", course)
}

func (h *CatalogHandler) listLevels(c *fiber.Ctx) error {
	levels, err := h.service.ListLevels(requestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list levels")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list levels")
	}
	return utils.SendSuccess(c, "levels", levels)
}

func (h *CatalogHandler) listSubjects(c *fiber.Ctx) error {
	subjects, err := h.service.ListSubjects(requestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list subjects")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list subjects")
	}
	return utils.SendSuccess(c, "subjects", subjects)
}
