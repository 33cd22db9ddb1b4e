package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lumilearn/lumilearn-api/internal/models"
	"github.com/lumilearn/lumilearn-api/internal/repository"
)

func seedVideo(t *testing.T, db *gorm.DB) models.Video {
	t.Helper()
	video := models.Video{CourseID: 1, MediaID: "media-1", Title: "Intro", DurationSeconds: 120}
	require.NoError(t, db.Create(&video).Error)
	return video
}

func TestCheckpointImportReplacesSet(t *testing.T) {
	db := newTestDB(t)
	video := seedVideo(t, db)
	checkpoints := repository.NewCheckpointRepository(db)
	svc := NewCheckpointImportService(repository.NewVideoRepository(db), checkpoints, testLogger())

	payload := []byte(`{"checkpoints":[
		{"timestamp":25,"questions":[{"text":"2+2?","answers":[{"text":"3"},{"text":"4","correct":true}]}]},
		{"timestamp":10,"questions":[{"text":"1+1?","answers":[{"text":"2","correct":true},{"text":"5"}]}]}
	]}`)

	result, err := svc.Import(context.Background(), video.ID, payload)
	require.NoError(t, err)
	require.Equal(t, 2, result.Imported)

	listed, err := checkpoints.ListByMediaID(context.Background(), video.MediaID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, 10.0, listed[0].Timestamp, "stored sorted by timestamp")

	// A second import fully replaces the previous set.
	payload = []byte(`{"checkpoints":[{"timestamp":60,"questions":[{"text":"q","answers":[{"text":"a","correct":true},{"text":"b"}]}]}]}`)
	result, err = svc.Import(context.Background(), video.ID, payload)
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)

	listed, err = checkpoints.ListByMediaID(context.Background(), video.MediaID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestCheckpointImportRejectsMalformedPayload(t *testing.T) {
	db := newTestDB(t)
	video := seedVideo(t, db)
	svc := NewCheckpointImportService(repository.NewVideoRepository(db), repository.NewCheckpointRepository(db), testLogger())

	_, err := svc.Import(context.Background(), video.ID, []byte(`{"checkpoints":`))
	require.ErrorIs(t, err, ErrImportInvalid)
}

func TestCheckpointImportRejectsSchemaViolations(t *testing.T) {
	db := newTestDB(t)
	video := seedVideo(t, db)
	svc := NewCheckpointImportService(repository.NewVideoRepository(db), repository.NewCheckpointRepository(db), testLogger())

	// A question needs at least two answers.
	payload := []byte(`{"checkpoints":[{"timestamp":5,"questions":[{"text":"q","answers":[{"text":"only","correct":true}]}]}]}`)
	_, err := svc.Import(context.Background(), video.ID, payload)
	require.ErrorIs(t, err, ErrImportInvalid)
}

func TestCheckpointImportRejectsNoCorrectAnswer(t *testing.T) {
	db := newTestDB(t)
	video := seedVideo(t, db)
	svc := NewCheckpointImportService(repository.NewVideoRepository(db), repository.NewCheckpointRepository(db), testLogger())

	payload := []byte(`{"checkpoints":[{"timestamp":5,"questions":[{"text":"q","answers":[{"text":"a"},{"text":"b"}]}]}]}`)
	_, err := svc.Import(context.Background(), video.ID, payload)
	require.ErrorIs(t, err, ErrImportInvalid)
}

func TestCheckpointImportRejectsTimestampPastEnd(t *testing.T) {
	db := newTestDB(t)
	video := seedVideo(t, db)
	svc := NewCheckpointImportService(repository.NewVideoRepository(db), repository.NewCheckpointRepository(db), testLogger())

	payload := []byte(`{"checkpoints":[{"timestamp":500,"questions":[{"text":"q","answers":[{"text":"a","correct":true},{"text":"b"}]}]}]}`)
	_, err := svc.Import(context.Background(), video.ID, payload)
	require.ErrorIs(t, err, ErrImportInvalid)
}

func TestCheckpointImportUnknownVideo(t *testing.T) {
	db := newTestDB(t)
	svc := NewCheckpointImportService(repository.NewVideoRepository(db), repository.NewCheckpointRepository(db), testLogger())

	_, err := svc.Import(context.Background(), 99, []byte(`{"checkpoints":[]}`))
	require.ErrorIs(t, err, repository.ErrNotFound)
}
