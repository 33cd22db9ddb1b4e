package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumilearn/lumilearn-api/internal/repository"
)

type storageStub struct {
	uploads int
}

func (s *storageStub) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	s.uploads++
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	return "https://cdn.example.com/" + name, nil
}

func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {"form-data; name=\"file\"; filename=\"" + filename + "\""},
		"Content-Type":        {"application/octet-stream"},
	})
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(bytes.NewReader(body.Bytes()), writer.Boundary())
	form, err := reader.ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

func TestThumbnailServiceStoresImage(t *testing.T) {
	db := newTestDB(t)
	video := seedVideo(t, db)
	videos := repository.NewVideoRepository(db)
	storage := &storageStub{}
	svc := NewThumbnailService(storage, videos, 5, testLogger())

	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	file := buildFileHeader(t, "cover.png", pngHeader)

	resp, err := svc.UploadThumbnail(context.Background(), video.ID, file)
	require.NoError(t, err)
	require.Equal(t, 1, storage.uploads)
	require.Contains(t, resp.URL, "thumb-media-1")
	require.Equal(t, "image/png", resp.MimeType)

	stored, err := videos.GetByID(context.Background(), video.ID)
	require.NoError(t, err)
	require.Equal(t, resp.URL, stored.ThumbnailURL)
}

func TestThumbnailServiceRejectsNonImage(t *testing.T) {
	db := newTestDB(t)
	video := seedVideo(t, db)
	svc := NewThumbnailService(&storageStub{}, repository.NewVideoRepository(db), 5, testLogger())

	file := buildFileHeader(t, "notes.txt", []byte("plain text"))
	_, err := svc.UploadThumbnail(context.Background(), video.ID, file)
	require.ErrorIs(t, err, ErrThumbnailNotImage)
}

func TestThumbnailServiceRejectsOversize(t *testing.T) {
	db := newTestDB(t)
	video := seedVideo(t, db)
	svc := NewThumbnailService(&storageStub{}, repository.NewVideoRepository(db), 1, testLogger())

	file := buildFileHeader(t, "big.png", bytes.Repeat([]byte("a"), 2*1024*1024))
	_, err := svc.UploadThumbnail(context.Background(), video.ID, file)
	require.ErrorIs(t, err, ErrThumbnailTooLarge)
}

func TestThumbnailServiceUnknownVideo(t *testing.T) {
	db := newTestDB(t)
	svc := NewThumbnailService(&storageStub{}, repository.NewVideoRepository(db), 5, testLogger())

	file := buildFileHeader(t, "cover.png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	_, err := svc.UploadThumbnail(context.Background(), 404, file)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
