package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lumilearn/lumilearn-api/internal/dto"
	"github.com/lumilearn/lumilearn-api/internal/models"
	"github.com/lumilearn/lumilearn-api/internal/observability"
	"github.com/lumilearn/lumilearn-api/internal/repository"
	"github.com/lumilearn/lumilearn-api/internal/stats"
)

// AdviceEnhancer turns an aggregated overview into one personalised study
// note. Implementations may call an external model; failures are swallowed.
type AdviceEnhancer interface {
	Advise(ctx context.Context, overview dto.StatsOverviewResponse) (string, error)
}

// StatsService produces the aggregated learning statistics overview.
type StatsService interface {
	GetOverview(ctx context.Context, userID uint) (dto.StatsOverviewResponse, error)
	GetCourseOverview(ctx context.Context, userID, courseID uint) (dto.StatsOverviewResponse, error)
}

type statsService struct {
	progress  repository.VideoProgressRepository
	responses repository.QuizResponseRepository
	courses   repository.CourseRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	enhancer  AdviceEnhancer
	logger    zerolog.Logger
	now       func() time.Time
}

// NewStatsService builds the statistics aggregator. Cache and enhancer are
// both optional.
func NewStatsService(progress repository.VideoProgressRepository, responses repository.QuizResponseRepository, courses repository.CourseRepository, cache *redis.Client, ttl time.Duration, enhancer AdviceEnhancer, logger zerolog.Logger) StatsService {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &statsService{
		progress:  progress,
		responses: responses,
		courses:   courses,
		cache:     cache,
		cacheTTL:  ttl,
		enhancer:  enhancer,
		logger:    logger.With().Str("component", "stats_service").Logger(),
		now:       time.Now,
	}
}

func (s *statsService) GetOverview(ctx context.Context, userID uint) (dto.StatsOverviewResponse, error) {
	cacheKey := fmt.Sprintf("stats:overview:v1:%d", userID)
	if cached, ok := s.readCache(ctx, cacheKey); ok {
		return cached, nil
	}

	progress, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		observability.StatsRequests().WithLabelValues("error").Inc()
		return dto.StatsOverviewResponse{}, err
	}
	responses, err := s.responses.ListByUser(ctx, userID)
	if err != nil {
		observability.StatsRequests().WithLabelValues("error").Inc()
		return dto.StatsOverviewResponse{}, err
	}

	overview := s.buildOverview(ctx, progress, responses)
	observability.StatsRequests().WithLabelValues("miss").Inc()
	s.writeCache(ctx, cacheKey, overview)
	return overview, nil
}

func (s *statsService) GetCourseOverview(ctx context.Context, userID, courseID uint) (dto.StatsOverviewResponse, error) {
	cacheKey := fmt.Sprintf("stats:course:v1:%d:%d", userID, courseID)
	if cached, ok := s.readCache(ctx, cacheKey); ok {
		return cached, nil
	}

	progress, err := s.progress.ListByUserCourse(ctx, userID, courseID)
	if err != nil {
		observability.StatsRequests().WithLabelValues("error").Inc()
		return dto.StatsOverviewResponse{}, err
	}
	responses, err := s.responses.ListByUserCourse(ctx, userID, courseID)
	if err != nil {
		observability.StatsRequests().WithLabelValues("error").Inc()
		return dto.StatsOverviewResponse{}, err
	}

	overview := s.buildOverview(ctx, progress, responses)
	observability.StatsRequests().WithLabelValues("miss").Inc()
	s.writeCache(ctx, cacheKey, overview)
	return overview, nil
}

func (s *statsService) buildOverview(ctx context.Context, progress []models.VideoProgress, responses []models.QuizResponse) dto.StatsOverviewResponse {
	videoSummary := stats.VideoStats(progress)

	var watched, remaining float64
	for _, record := range progress {
		watched += record.MinutesWatched
		remaining += record.MinutesRemaining
	}

	overview := dto.StatsOverviewResponse{
		Videos: dto.VideoStatsResponse{
			Done:             videoSummary.Completed,
			InProgress:       videoSummary.Started,
			NotStarted:       videoSummary.NotStarted,
			MinutesWatched:   watched,
			MinutesRemaining: remaining,
		},
		GeneratedAt: s.now().UTC(),
	}

	for courseID, summary := range stats.QuizStats(responses) {
		course := dto.CourseQuizStatsResponse{
			CourseID:    courseID,
			First:       attemptResponse(summary.First),
			Last:        attemptResponse(summary.Last),
			Improvement: summary.Improvement.AvgScore,
			Suggestion:  summary.Suggestion,
		}
		if s.courses != nil {
			if record, err := s.courses.GetByID(ctx, courseID); err == nil {
				course.CourseTitle = record.Title
			}
		}
		overview.Quizzes = append(overview.Quizzes, course)
	}
	sort.Slice(overview.Quizzes, func(i, j int) bool {
		return overview.Quizzes[i].CourseID < overview.Quizzes[j].CourseID
	})

	if s.enhancer != nil {
		if advice, err := s.enhancer.Advise(ctx, overview); err == nil && advice != "" {
			overview.Advice = advice
		} else if err != nil {
			s.logger.Warn().Err(err).Msg("advice enhancement failed, serving plain overview")
		}
	}
	return overview
}

func (s *statsService) readCache(ctx context.Context, key string) (dto.StatsOverviewResponse, bool) {
	if s.cache == nil {
		return dto.StatsOverviewResponse{}, false
	}
	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read stats cache")
		}
		return dto.StatsOverviewResponse{}, false
	}
	var overview dto.StatsOverviewResponse
	if err := json.Unmarshal([]byte(cached), &overview); err != nil {
		return dto.StatsOverviewResponse{}, false
	}
	overview.CacheHit = true
	observability.StatsRequests().WithLabelValues("hit").Inc()
	return overview, true
}

func (s *statsService) writeCache(ctx context.Context, key string, overview dto.StatsOverviewResponse) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(overview)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store stats cache")
	}
}

func attemptResponse(summary stats.AttemptSummary) dto.AttemptStatsResponse {
	return dto.AttemptStatsResponse{
		QuizzesTaken:   summary.Responses,
		CorrectAnswers: summary.TotalCorrectAnswers,
		TotalAnswers:   summary.TotalAnswers,
		AvgScore:       summary.AvgScore,
	}
}
