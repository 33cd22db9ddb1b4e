package handler_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lumilearn/lumilearn-api/internal/dto"
	"github.com/lumilearn/lumilearn-api/internal/handler"
	"github.com/lumilearn/lumilearn-api/internal/service"
)

type stubImportService struct {
	result dto.CheckpointImportResponse
	err    error
	lastID uint
}

func (s *stubImportService) Import(_ context.Context, videoID uint, payload []byte) (dto.CheckpointImportResponse, error) {
	s.lastID = videoID
	if s.err != nil {
		return dto.CheckpointImportResponse{}, s.err
	}
	return s.result, nil
}

type stubThumbnailService struct {
	result dto.ThumbnailUploadResponse
	err    error
}

func (s *stubThumbnailService) UploadThumbnail(_ context.Context, videoID uint, file *multipart.FileHeader) (dto.ThumbnailUploadResponse, error) {
	if s.err != nil {
		return dto.ThumbnailUploadResponse{}, s.err
	}
	return s.result, nil
}

func newAdminApp(imports *stubImportService, thumbnails *stubThumbnailService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/admin")
	handler.NewAdminVideoHandler(imports, thumbnails, zerolog.Nop()).Register(group)
	return app
}

func TestAdminVideoHandlerImport(t *testing.T) {
	imports := &stubImportService{result: dto.CheckpointImportResponse{VideoID: 3, Imported: 2}}
	app := newAdminApp(imports, &stubThumbnailService{})

	body := strings.NewReader(`{"checkpoints":[]}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/videos/3/checkpoints", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(3), imports.lastID)
}

func TestAdminVideoHandlerImportInvalidPayload(t *testing.T) {
	imports := &stubImportService{err: fmt.Errorf("%w: bad shape", service.ErrImportInvalid)}
	app := newAdminApp(imports, &stubThumbnailService{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/videos/3/checkpoints", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAdminVideoHandlerThumbnailUpload(t *testing.T) {
	thumbnails := &stubThumbnailService{result: dto.ThumbnailUploadResponse{VideoID: 3, URL: "https://cdn.example.com/thumb.png"}}
	app := newAdminApp(&stubImportService{}, thumbnails)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "thumb.png")
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 0x50, 0x4E, 0x47})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/videos/3/thumbnail", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminVideoHandlerThumbnailRejectsType(t *testing.T) {
	thumbnails := &stubThumbnailService{err: service.ErrThumbnailNotImage}
	app := newAdminApp(&stubImportService{}, thumbnails)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("text"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/videos/3/thumbnail", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestAdminVideoHandlerThumbnailRequiresFile(t *testing.T) {
	app := newAdminApp(&stubImportService{}, &stubThumbnailService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/videos/3/thumbnail", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
