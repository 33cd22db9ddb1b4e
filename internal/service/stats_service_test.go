package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lumilearn/lumilearn-api/internal/dto"
	"github.com/lumilearn/lumilearn-api/internal/models"
	"github.com/lumilearn/lumilearn-api/internal/repository"
)

type staticAdvice struct {
	advice string
}

func (s staticAdvice) Advise(ctx context.Context, overview dto.StatsOverviewResponse) (string, error) {
	return s.advice, nil
}

func seedStatsData(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&[]models.VideoProgress{
		{UserID: 1, VideoID: 1, CourseID: 1, MinutesWatched: 10, MinutesRemaining: 0, LastPosition: 600, Completed: true, UpdatedAt: time.Now()},
		{UserID: 1, VideoID: 2, CourseID: 1, MinutesWatched: 4, MinutesRemaining: 6, LastPosition: 240, UpdatedAt: time.Now()},
	}).Error)
	require.NoError(t, db.Create(&[]models.QuizResponse{
		{
			UserID: 1, CheckpointID: 1, VideoID: 1, CourseID: 1, Kind: models.ResponseKindFirst,
			UserAnswers:    datatypes.NewJSONType(models.AnswerMap{"0": 1, "1": 0}),
			CorrectAnswers: datatypes.NewJSONType(models.AnswerMap{"0": 2, "1": 0}),
			ScorePercent:   50, SubmittedAt: time.Now(),
		},
		{
			UserID: 1, CheckpointID: 1, VideoID: 1, CourseID: 1, Kind: models.ResponseKindLast,
			UserAnswers:    datatypes.NewJSONType(models.AnswerMap{"0": 2, "1": 0}),
			CorrectAnswers: datatypes.NewJSONType(models.AnswerMap{"0": 2, "1": 0}),
			ScorePercent:   100, SubmittedAt: time.Now(),
		},
	}).Error)
}

func newStatsService(db *gorm.DB, cache *redis.Client, enhancer AdviceEnhancer) StatsService {
	return NewStatsService(
		repository.NewVideoProgressRepository(db),
		repository.NewQuizResponseRepository(db),
		repository.NewCourseRepository(db),
		cache, time.Minute, enhancer, testLogger(),
	)
}

func TestStatsServiceOverview(t *testing.T) {
	db := newTestDB(t)
	seedStatsData(t, db)
	svc := newStatsService(db, nil, nil)

	overview, err := svc.GetOverview(context.Background(), 1)
	require.NoError(t, err)

	require.Equal(t, 1, overview.Videos.Done)
	require.Equal(t, 1, overview.Videos.InProgress)
	require.Equal(t, 14.0, overview.Videos.MinutesWatched)
	require.Equal(t, 6.0, overview.Videos.MinutesRemaining)

	require.Len(t, overview.Quizzes, 1)
	course := overview.Quizzes[0]
	require.Equal(t, uint(1), course.CourseID)
	require.Equal(t, 50, course.First.AvgScore)
	require.Equal(t, 100, course.Last.AvgScore)
	require.Equal(t, 50, course.Improvement)
	require.NotEmpty(t, course.Suggestion)
	require.False(t, overview.CacheHit)
}

func TestStatsServiceCacheRoundTrip(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	db := newTestDB(t)
	seedStatsData(t, db)
	svc := newStatsService(db, client, nil)

	first, err := svc.GetOverview(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	second, err := svc.GetOverview(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.Videos, second.Videos)
}

func TestStatsServiceAdviceEnhancer(t *testing.T) {
	db := newTestDB(t)
	seedStatsData(t, db)
	svc := newStatsService(db, nil, staticAdvice{advice: "Keep going, algebra is close to done."})

	overview, err := svc.GetOverview(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Keep going, algebra is close to done.", overview.Advice)
}

func TestStatsServiceEmptyUser(t *testing.T) {
	db := newTestDB(t)
	svc := newStatsService(db, nil, nil)

	overview, err := svc.GetOverview(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, 0, overview.Videos.Done)
	require.Empty(t, overview.Quizzes)
}

func TestStatsServiceCourseOverview(t *testing.T) {
	db := newTestDB(t)
	seedStatsData(t, db)
	require.NoError(t, db.Create(&models.VideoProgress{
		UserID: 1, VideoID: 9, CourseID: 2, MinutesWatched: 1, MinutesRemaining: 9, LastPosition: 60, UpdatedAt: time.Now(),
	}).Error)
	svc := newStatsService(db, nil, nil)

	overview, err := svc.GetCourseOverview(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, 1, overview.Videos.Done)
	require.Equal(t, 14.0, overview.Videos.MinutesWatched, "other courses excluded")
}
