package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lumilearn/lumilearn-api/internal/observability"
	"github.com/lumilearn/lumilearn-api/internal/player"
	"github.com/lumilearn/lumilearn-api/internal/repository"
)

// PlaybackService mounts playback controllers on media items. One controller
// serves one websocket connection; the service only resolves media and tracks
// the live-session gauge.
type PlaybackService interface {
	ResolveMedia(ctx context.Context, mediaID string) (player.Media, error)
	StartSession(userID uint, media player.Media, adapter player.MediaAdapter) (*player.Controller, func())
}

type playbackService struct {
	videos      repository.VideoRepository
	checkpoints repository.CheckpointRepository
	recorder    player.Recorder
	logger      zerolog.Logger
}

// NewPlaybackService constructs the playback session service.
func NewPlaybackService(videos repository.VideoRepository, checkpoints repository.CheckpointRepository, recorder player.Recorder, logger zerolog.Logger) PlaybackService {
	return &playbackService{
		videos:      videos,
		checkpoints: checkpoints,
		recorder:    recorder,
		logger:      logger.With().Str("component", "playback_service").Logger(),
	}
}

// ResolveMedia loads the video behind a media id together with its checkpoint
// list, already sorted the way the scheduler expects.
func (s *playbackService) ResolveMedia(ctx context.Context, mediaID string) (player.Media, error) {
	video, err := s.videos.GetByMediaID(ctx, mediaID)
	if err != nil {
		return player.Media{}, err
	}
	checkpoints, err := s.checkpoints.ListByMediaID(ctx, mediaID)
	if err != nil {
		return player.Media{}, err
	}
	return player.Media{
		MediaID:     video.MediaID,
		VideoID:     video.ID,
		CourseID:    video.CourseID,
		Duration:    video.DurationSeconds,
		Checkpoints: checkpoints,
	}, nil
}

// StartSession mounts a controller for one connection. The returned release
// function must be called when the connection closes; it is safe to call more
// than once.
func (s *playbackService) StartSession(userID uint, media player.Media, adapter player.MediaAdapter) (*player.Controller, func()) {
	controller := player.NewController(userID, media, adapter, s.recorder, s.logger)
	observability.PlaybackSessions().Inc()
	s.logger.Info().Uint("user_id", userID).Str("media_id", media.MediaID).Msg("playback session started")

	var once sync.Once
	release := func() {
		once.Do(func() {
			observability.PlaybackSessions().Dec()
			s.logger.Info().Uint("user_id", userID).Str("media_id", media.MediaID).Msg("playback session closed")
		})
	}
	return controller, release
}
