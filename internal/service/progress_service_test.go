package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumilearn/lumilearn-api/internal/models"
	"github.com/lumilearn/lumilearn-api/internal/player"
	"github.com/lumilearn/lumilearn-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// newTestDB opens a named in-memory database: shared across the pool's
// connections, isolated between tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Level{}, &models.Subject{}, &models.Course{}, &models.Video{},
		&models.Checkpoint{}, &models.VideoProgress{}, &models.QuizResponse{},
	))
	return db
}

func TestProgressServiceMonotonicGuard(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(repository.NewVideoProgressRepository(db), repository.NewQuizResponseRepository(db), nil, testLogger())
	ctx := context.Background()

	require.NoError(t, svc.RecordVideoProgress(ctx, player.ProgressUpdate{
		UserID: 1, VideoID: 2, CourseID: 3, LastPosition: 30, MinutesWatched: 0.5, MinutesRemaining: 1.5,
	}))

	// A stale write behind the stored position must be dropped.
	require.NoError(t, svc.RecordVideoProgress(ctx, player.ProgressUpdate{
		UserID: 1, VideoID: 2, CourseID: 3, LastPosition: 10, MinutesWatched: 0.1,
	}))

	stored, err := svc.GetVideoProgress(ctx, 1, 2)
	require.NoError(t, err)
	require.Equal(t, 30.0, stored.LastPosition)
	require.Equal(t, 0.5, stored.MinutesWatched)

	require.NoError(t, svc.RecordVideoProgress(ctx, player.ProgressUpdate{
		UserID: 1, VideoID: 2, CourseID: 3, LastPosition: 45, MinutesWatched: 0.75,
	}))
	stored, err = svc.GetVideoProgress(ctx, 1, 2)
	require.NoError(t, err)
	require.Equal(t, 45.0, stored.LastPosition)
}

func TestProgressServiceFirstAndLastResponses(t *testing.T) {
	db := newTestDB(t)
	responses := repository.NewQuizResponseRepository(db)
	svc := NewProgressService(repository.NewVideoProgressRepository(db), responses, nil, testLogger())
	ctx := context.Background()

	first := player.ResponseUpdate{
		UserID: 1, CheckpointID: 7, VideoID: 2, CourseID: 3,
		UserAnswers:    models.AnswerMap{"0": 1},
		CorrectAnswers: models.AnswerMap{"0": 2},
		ScorePercent:   0,
	}
	require.NoError(t, svc.RecordQuizResponse(ctx, first))

	retry := first
	retry.UserAnswers = models.AnswerMap{"0": 2}
	retry.ScorePercent = 100
	require.NoError(t, svc.RecordQuizResponse(ctx, retry))

	firstRecord, err := responses.Get(ctx, 1, 7, models.ResponseKindFirst)
	require.NoError(t, err)
	require.Equal(t, 0, firstRecord.ScorePercent, "first attempt is write-once")

	lastRecord, err := responses.Get(ctx, 1, 7, models.ResponseKindLast)
	require.NoError(t, err)
	require.Equal(t, 100, lastRecord.ScorePercent, "last attempt tracks the newest submission")

	var count int64
	require.NoError(t, db.Model(&models.QuizResponse{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestProgressServiceListByUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressService(repository.NewVideoProgressRepository(db), repository.NewQuizResponseRepository(db), nil, testLogger())
	ctx := context.Background()

	require.NoError(t, svc.RecordVideoProgress(ctx, player.ProgressUpdate{UserID: 1, VideoID: 1, CourseID: 1, LastPosition: 5}))
	require.NoError(t, svc.RecordVideoProgress(ctx, player.ProgressUpdate{UserID: 1, VideoID: 2, CourseID: 1, LastPosition: 9}))
	require.NoError(t, svc.RecordVideoProgress(ctx, player.ProgressUpdate{UserID: 2, VideoID: 1, CourseID: 1, LastPosition: 3}))

	records, err := svc.ListVideoProgress(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 2)
}
