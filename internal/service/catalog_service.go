package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lumilearn/lumilearn-api/internal/dto"
	"github.com/lumilearn/lumilearn-api/internal/models"
	"github.com/lumilearn/lumilearn-api/internal/repository"
)

// courseListCacheKey is shared between population and invalidation.
const courseListCacheKey = "catalog:courses:v1"

// CatalogService exposes the public course catalog.
type CatalogService interface {
	ListCourses(ctx context.Context, filter repository.CourseFilter) ([]dto.CourseResponse, error)
	GetCourse(ctx context.Context, slug string) (dto.CourseResponse, error)
	ListLevels(ctx context.Context) ([]dto.LevelResponse, error)
	ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error)
}

type catalogService struct {
	courses repository.CourseRepository
	cache   *redis.Client
	ttl     time.Duration
	logger  zerolog.Logger
	policy  *bluemonday.Policy
}

// NewCatalogService constructs the catalog service. Course and video
// descriptions come from a CMS and may carry markup; they are sanitized on the
// way out, never stored back.
func NewCatalogService(courses repository.CourseRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) CatalogService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("p", "strong", "em", "ul", "ol", "li", "br")
	return &catalogService{
		courses: courses,
		cache:   cache,
		ttl:     ttl,
		logger:  logger.With().Str("component", "catalog_service").Logger(),
		policy:  policy,
	}
}

func (s *catalogService) ListCourses(ctx context.Context, filter repository.CourseFilter) ([]dto.CourseResponse, error) {
	cacheKey := ""
	if s.cache != nil && filter == (repository.CourseFilter{}) {
		cacheKey = courseListCacheKey
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var responses []dto.CourseResponse
			if err := json.Unmarshal([]byte(cached), &responses); err == nil {
				s.logger.Debug().Msg("course list cache hit")
				return responses, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read course list cache")
		}
	}

	courses, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, s.toResponse(course))
	}

	if cacheKey != "" {
		if payload, err := json.Marshal(responses); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store course list cache")
			}
		}
	}
	return responses, nil
}

func (s *catalogService) GetCourse(ctx context.Context, slug string) (dto.CourseResponse, error) {
	course, err := s.courses.GetBySlug(ctx, slug)
	if err != nil {
		return dto.CourseResponse{}, err
	}
	return s.toResponse(course), nil
}

func (s *catalogService) ListLevels(ctx context.Context) ([]dto.LevelResponse, error) {
	levels, err := s.courses.ListLevels(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.LevelResponse, 0, len(levels))
	for _, level := range levels {
		responses = append(responses, dto.NewLevelResponse(level))
	}
	return responses, nil
}

func (s *catalogService) ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.courses.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		responses = append(responses, dto.NewSubjectResponse(subject))
	}
	return responses, nil
}

func (s *catalogService) toResponse(course models.Course) dto.CourseResponse {
	response := dto.NewCourseResponse(course)
	response.Description = s.policy.Sanitize(response.Description)
	for i := range response.Videos {
		response.Videos[i].Description = s.policy.Sanitize(response.Videos[i].Description)
	}
	return response
}
