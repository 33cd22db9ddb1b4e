package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lumilearn/lumilearn-api/internal/dto"
	"github.com/lumilearn/lumilearn-api/internal/observability"
	"github.com/lumilearn/lumilearn-api/internal/repository"
)

var (
	// ErrThumbnailTooLarge indicates the payload exceeded the configured limit.
	ErrThumbnailTooLarge = errors.New("thumbnail exceeds maximum allowed size")
	// ErrThumbnailNotImage indicates the detected MIME type is not an image.
	ErrThumbnailNotImage = errors.New("thumbnail must be an image")
)

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// ThumbnailService validates and stores video thumbnails.
type ThumbnailService interface {
	UploadThumbnail(ctx context.Context, videoID uint, file *multipart.FileHeader) (dto.ThumbnailUploadResponse, error)
}

type thumbnailService struct {
	storage FileStorage
	videos  repository.VideoRepository
	logger  zerolog.Logger
	maxSize int64
	tracer  trace.Tracer
}

// NewThumbnailService constructs the thumbnail upload service.
func NewThumbnailService(storage FileStorage, videos repository.VideoRepository, maxSizeMB int, logger zerolog.Logger) ThumbnailService {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	return &thumbnailService{
		storage: storage,
		videos:  videos,
		logger:  logger.With().Str("component", "thumbnail_service").Logger(),
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		tracer:  otel.Tracer("github.com/lumilearn/lumilearn-api/internal/service/thumbnail"),
	}
}

func (s *thumbnailService) UploadThumbnail(ctx context.Context, videoID uint, file *multipart.FileHeader) (dto.ThumbnailUploadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "thumbnail.store")
	defer span.End()
	span.SetAttributes(attribute.Int("video.id", int(videoID)))

	start := time.Now()
	defer func() {
		observability.UploadLatency().Observe(time.Since(start).Seconds())
	}()

	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "video lookup failed")
		return dto.ThumbnailUploadResponse{}, err
	}

	if file == nil {
		err := errors.New("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.ThumbnailUploadResponse{}, err
	}
	if file.Size > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrThumbnailTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.ThumbnailUploadResponse{}, ErrThumbnailTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.ThumbnailUploadResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.ThumbnailUploadResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrThumbnailTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.ThumbnailUploadResponse{}, ErrThumbnailTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("upload.detected_mime", mime.String()))
	if !strings.HasPrefix(mime.String(), "image/") {
		observability.UploadRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrThumbnailNotImage)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.ThumbnailUploadResponse{}, ErrThumbnailNotImage
	}

	name := thumbnailName(video.MediaID, file.Filename)
	url, err := s.storage.Upload(ctx, name, bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.UploadRejected().WithLabelValues("storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.ThumbnailUploadResponse{}, err
	}

	if err := s.videos.UpdateThumbnail(ctx, videoID, url); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.ThumbnailUploadResponse{}, err
	}

	span.SetStatus(codes.Ok, "stored")
	s.logger.Info().Uint("video_id", videoID).Str("url", url).Msg("thumbnail updated")

	return dto.ThumbnailUploadResponse{
		VideoID:   videoID,
		URL:       url,
		MimeType:  mime.String(),
		SizeBytes: int64(buf.Len()),
	}, nil
}

func thumbnailName(mediaID, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("thumb-%s%s", mediaID, ext)
}
