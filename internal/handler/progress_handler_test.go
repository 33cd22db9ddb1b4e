package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lumilearn/lumilearn-api/internal/dto"
	"github.com/lumilearn/lumilearn-api/internal/handler"
	"github.com/lumilearn/lumilearn-api/internal/models"
	"github.com/lumilearn/lumilearn-api/internal/player"
	"github.com/lumilearn/lumilearn-api/internal/repository"
)

type stubProgressService struct {
	records    []models.VideoProgress
	lastUpdate player.ProgressUpdate
	calls      int
}

func (s *stubProgressService) RecordVideoProgress(_ context.Context, update player.ProgressUpdate) error {
	s.calls++
	s.lastUpdate = update
	return nil
}

func (s *stubProgressService) RecordQuizResponse(context.Context, player.ResponseUpdate) error {
	return nil
}

func (s *stubProgressService) ListVideoProgress(context.Context, uint) ([]models.VideoProgress, error) {
	return s.records, nil
}

func (s *stubProgressService) GetVideoProgress(context.Context, uint, uint) (models.VideoProgress, error) {
	if len(s.records) == 0 {
		return models.VideoProgress{}, repository.ErrNotFound
	}
	return s.records[0], nil
}

type stubPlaybackService struct {
	media player.Media
	err   error
}

func (s *stubPlaybackService) ResolveMedia(context.Context, string) (player.Media, error) {
	if s.err != nil {
		return player.Media{}, s.err
	}
	return s.media, nil
}

func (s *stubPlaybackService) StartSession(userID uint, media player.Media, adapter player.MediaAdapter) (*player.Controller, func()) {
	controller := player.NewController(userID, media, adapter, s, zerolog.Nop())
	return controller, func() {}
}

func (s *stubPlaybackService) RecordVideoProgress(context.Context, player.ProgressUpdate) error {
	return nil
}

func (s *stubPlaybackService) RecordQuizResponse(context.Context, player.ResponseUpdate) error {
	return nil
}

func authed(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("user_id", userID)
		}
		return c.Next()
	}
}

func newProgressApp(progress *stubProgressService, playback *stubPlaybackService, userID uint) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/progress", authed(userID))
	handler.NewProgressHandler(progress, playback, validator.New(), zerolog.Nop()).Register(group)
	return app
}

func TestProgressHandlerList(t *testing.T) {
	progress := &stubProgressService{records: []models.VideoProgress{
		{UserID: 9, VideoID: 1, CourseID: 2, LastPosition: 30, MinutesWatched: 0.5},
	}}
	app := newProgressApp(progress, &stubPlaybackService{}, 9)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/progress/", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Data []dto.VideoProgressResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()
	require.Len(t, payload.Data, 1)
	require.Equal(t, 30.0, payload.Data[0].LastPosition)
}

func TestProgressHandlerRequiresAuth(t *testing.T) {
	app := newProgressApp(&stubProgressService{}, &stubPlaybackService{}, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/progress/", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProgressHandlerRecordBeacon(t *testing.T) {
	progress := &stubProgressService{}
	playback := &stubPlaybackService{media: player.Media{
		MediaID: "media-1", VideoID: 4, CourseID: 2, Duration: 120,
	}}
	app := newProgressApp(progress, playback, 9)

	body := strings.NewReader(`{"media_id":"media-1","position":119.5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/progress/", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	require.Equal(t, 1, progress.calls)
	require.Equal(t, uint(9), progress.lastUpdate.UserID)
	require.Equal(t, uint(4), progress.lastUpdate.VideoID)
	require.True(t, progress.lastUpdate.Completed, "position within a second of the end counts as completed")
}

func TestProgressHandlerRecordUnknownMedia(t *testing.T) {
	app := newProgressApp(&stubProgressService{}, &stubPlaybackService{err: repository.ErrNotFound}, 9)

	body := strings.NewReader(`{"media_id":"missing","position":10}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/progress/", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProgressHandlerRecordValidation(t *testing.T) {
	app := newProgressApp(&stubProgressService{}, &stubPlaybackService{}, 9)

	body := strings.NewReader(`{"position":10}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/progress/", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
