package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lumilearn/lumilearn-api/internal/models"
)

// VideoRepository provides access to video records.
type VideoRepository interface {
	ListByCourse(ctx context.Context, courseID uint) ([]models.Video, error)
	GetByID(ctx context.Context, id uint) (models.Video, error)
	GetByMediaID(ctx context.Context, mediaID string) (models.Video, error)
	UpdateThumbnail(ctx context.Context, id uint, url string) error
}

type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository constructs a video repository.
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Video, error) {
	var videos []models.Video
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sequence ASC").
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *videoRepository) GetByID(ctx context.Context, id uint) (models.Video, error) {
	var video models.Video
	err := r.db.WithContext(ctx).First(&video, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Video{}, ErrNotFound
	}
	return video, err
}

func (r *videoRepository) GetByMediaID(ctx context.Context, mediaID string) (models.Video, error) {
	var video models.Video
	err := r.db.WithContext(ctx).Where("media_id = ?", mediaID).First(&video).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Video{}, ErrNotFound
	}
	return video, err
}

func (r *videoRepository) UpdateThumbnail(ctx context.Context, id uint, url string) error {
	return r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", id).
		Update("thumbnail_url", url).Error
}
