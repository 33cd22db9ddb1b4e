package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/lumilearn/lumilearn-api/internal/models"
	"github.com/lumilearn/lumilearn-api/internal/observability"
	"github.com/lumilearn/lumilearn-api/internal/player"
	"github.com/lumilearn/lumilearn-api/internal/repository"
)

// VideoCompletedSubject is the NATS subject completion events are published on.
const VideoCompletedSubject = "lumilearn.progress.video_completed"

// VideoCompletedEvent is the payload published when a user finishes a video.
type VideoCompletedEvent struct {
	UserID      uint      `json:"user_id"`
	VideoID     uint      `json:"video_id"`
	CourseID    uint      `json:"course_id"`
	MediaID     string    `json:"media_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// ProgressService is the durable progress recorder behind the playback
// engine. Both operations are idempotent-safe: video progress is guarded by a
// strict monotonic check on last position, quiz responses split into a
// write-once first record and an always-overwritten last record.
type ProgressService interface {
	player.Recorder
	ListVideoProgress(ctx context.Context, userID uint) ([]models.VideoProgress, error)
	GetVideoProgress(ctx context.Context, userID, videoID uint) (models.VideoProgress, error)
}

type progressService struct {
	progress  repository.VideoProgressRepository
	responses repository.QuizResponseRepository
	events    *nats.Conn
	logger    zerolog.Logger
	now       func() time.Time
}

// NewProgressService constructs the progress recorder. The NATS connection is
// optional; without one completion events are simply not published.
func NewProgressService(progress repository.VideoProgressRepository, responses repository.QuizResponseRepository, events *nats.Conn, logger zerolog.Logger) ProgressService {
	return &progressService{
		progress:  progress,
		responses: responses,
		events:    events,
		logger:    logger.With().Str("component", "progress_service").Logger(),
		now:       time.Now,
	}
}

// RecordVideoProgress overwrites the (user, video) progress record, but only
// when the new position strictly advances the stored one. A stale write that
// arrives after a fast-forward must never regress durable progress.
func (s *progressService) RecordVideoProgress(ctx context.Context, update player.ProgressUpdate) error {
	existing, err := s.progress.Get(ctx, update.UserID, update.VideoID)
	switch {
	case err == nil:
		if update.LastPosition <= existing.LastPosition {
			observability.ProgressWrites().WithLabelValues("skipped").Inc()
			return nil
		}
	case err != repository.ErrNotFound:
		observability.ProgressWrites().WithLabelValues("error").Inc()
		return err
	}

	record := models.VideoProgress{
		UserID:           update.UserID,
		VideoID:          update.VideoID,
		CourseID:         update.CourseID,
		MinutesWatched:   update.MinutesWatched,
		MinutesRemaining: update.MinutesRemaining,
		LastPosition:     update.LastPosition,
		Completed:        update.Completed,
		UpdatedAt:        s.now(),
	}
	if err := s.progress.Upsert(ctx, &record); err != nil {
		observability.ProgressWrites().WithLabelValues("error").Inc()
		return err
	}
	observability.ProgressWrites().WithLabelValues("written").Inc()

	if update.Completed && !existing.Completed {
		s.publishCompleted(update)
	}
	return nil
}

// RecordQuizResponse persists a graded submission: the last record is always
// overwritten, the first record is written only if absent.
func (s *progressService) RecordQuizResponse(ctx context.Context, update player.ResponseUpdate) error {
	record := models.QuizResponse{
		UserID:         update.UserID,
		CheckpointID:   update.CheckpointID,
		VideoID:        update.VideoID,
		CourseID:       update.CourseID,
		UserAnswers:    datatypes.NewJSONType(update.UserAnswers),
		CorrectAnswers: datatypes.NewJSONType(update.CorrectAnswers),
		ScorePercent:   update.ScorePercent,
		SubmittedAt:    s.now(),
	}

	first := record
	first.Kind = models.ResponseKindFirst
	created, err := s.responses.CreateIfAbsent(ctx, &first)
	if err != nil {
		observability.QuizResponseWrites().WithLabelValues(models.ResponseKindFirst, "error").Inc()
		return err
	}
	if created {
		observability.QuizResponseWrites().WithLabelValues(models.ResponseKindFirst, "written").Inc()
	}

	last := record
	last.Kind = models.ResponseKindLast
	if err := s.responses.Upsert(ctx, &last); err != nil {
		observability.QuizResponseWrites().WithLabelValues(models.ResponseKindLast, "error").Inc()
		return err
	}
	observability.QuizResponseWrites().WithLabelValues(models.ResponseKindLast, "written").Inc()
	return nil
}

func (s *progressService) ListVideoProgress(ctx context.Context, userID uint) ([]models.VideoProgress, error) {
	return s.progress.ListByUser(ctx, userID)
}

func (s *progressService) GetVideoProgress(ctx context.Context, userID, videoID uint) (models.VideoProgress, error) {
	return s.progress.Get(ctx, userID, videoID)
}

// publishCompleted emits a completion event, best effort. A broker outage
// must not surface as a recording failure.
func (s *progressService) publishCompleted(update player.ProgressUpdate) {
	if s.events == nil {
		return
	}

	payload, err := json.Marshal(VideoCompletedEvent{
		UserID:      update.UserID,
		VideoID:     update.VideoID,
		CourseID:    update.CourseID,
		MediaID:     update.MediaID,
		CompletedAt: s.now(),
	})
	if err != nil {
		return
	}

	if err := s.events.Publish(VideoCompletedSubject, payload); err != nil {
		s.logger.Warn().Err(err).Uint("video_id", update.VideoID).Msg("failed to publish completion event")
	}
}
