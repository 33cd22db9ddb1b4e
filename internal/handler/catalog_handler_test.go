package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lumilearn/lumilearn-api/internal/dto"
	"github.com/lumilearn/lumilearn-api/internal/handler"
	"github.com/lumilearn/lumilearn-api/internal/repository"
)

type stubCatalogService struct {
	courses    []dto.CourseResponse
	course     dto.CourseResponse
	getErr     error
	lastFilter repository.CourseFilter
}

func (s *stubCatalogService) ListCourses(_ context.Context, filter repository.CourseFilter) ([]dto.CourseResponse, error) {
	s.lastFilter = filter
	return s.courses, nil
}

func (s *stubCatalogService) GetCourse(_ context.Context, slug string) (dto.CourseResponse, error) {
	if s.getErr != nil {
		return dto.CourseResponse{}, s.getErr
	}
	return s.course, nil
}

func (s *stubCatalogService) ListLevels(_ context.Context) ([]dto.LevelResponse, error) {
	return []dto.LevelResponse{{ID: 1, Slug: "beginner", Name: "Beginner"}}, nil
}

func (s *stubCatalogService) ListSubjects(_ context.Context) ([]dto.SubjectResponse, error) {
	return []dto.SubjectResponse{{ID: 1, Slug: "math", Name: "Math"}}, nil
}

func TestCatalogHandlerListCourses(t *testing.T) {
	svc := &stubCatalogService{courses: []dto.CourseResponse{{ID: 1, Slug: "algebra", Title: "Algebra"}}}

	app := fiber.New()
	handler.NewCatalogHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/catalog"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/courses?level_id=2", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool                 `json:"success"`
		Data    []dto.CourseResponse `json:"data"`
		Meta    map[string]int       `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()

	require.True(t, payload.Success)
	require.Len(t, payload.Data, 1)
	require.Equal(t, 1, payload.Meta["count"])
	require.NotNil(t, svc.lastFilter.LevelID)
	require.Equal(t, uint(2), *svc.lastFilter.LevelID)
}

func TestCatalogHandlerListCoursesRejectsBadFilter(t *testing.T) {
	app := fiber.New()
	handler.NewCatalogHandler(&stubCatalogService{}, zerolog.Nop()).Register(app.Group("/api/v1/catalog"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/courses?level_id=abc", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCatalogHandlerGetCourseNotFound(t *testing.T) {
	svc := &stubCatalogService{getErr: repository.ErrNotFound}

	app := fiber.New()
	handler.NewCatalogHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/catalog"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/courses/missing", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCatalogHandlerGetCourse(t *testing.T) {
	svc := &stubCatalogService{course: dto.CourseResponse{ID: 3, Slug: "geometry", Title: "Geometry"}}

	app := fiber.New()
	handler.NewCatalogHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/catalog"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/courses/geometry", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data dto.CourseResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()
	require.Equal(t, "geometry", payload.Data.Slug)
}
