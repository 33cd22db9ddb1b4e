package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lumilearn/lumilearn-api/internal/models"
)

// VideoProgressRepository stores durable playback progress, one logical
// record per (user, video), always overwritten in place.
type VideoProgressRepository interface {
	Get(ctx context.Context, userID, videoID uint) (models.VideoProgress, error)
	Upsert(ctx context.Context, record *models.VideoProgress) error
	ListByUser(ctx context.Context, userID uint) ([]models.VideoProgress, error)
	ListByUserCourse(ctx context.Context, userID, courseID uint) ([]models.VideoProgress, error)
}

type videoProgressRepository struct {
	db *gorm.DB
}

// NewVideoProgressRepository constructs a video progress repository.
func NewVideoProgressRepository(db *gorm.DB) VideoProgressRepository {
	return &videoProgressRepository{db: db}
}

func (r *videoProgressRepository) Get(ctx context.Context, userID, videoID uint) (models.VideoProgress, error) {
	var record models.VideoProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.VideoProgress{}, ErrNotFound
	}
	return record, err
}

func (r *videoProgressRepository) Upsert(ctx context.Context, record *models.VideoProgress) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"course_id", "minutes_watched", "minutes_remaining", "last_position", "completed", "updated_at",
		}),
	}).Create(record).Error
}

func (r *videoProgressRepository) ListByUser(ctx context.Context, userID uint) ([]models.VideoProgress, error) {
	var records []models.VideoProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *videoProgressRepository) ListByUserCourse(ctx context.Context, userID, courseID uint) ([]models.VideoProgress, error) {
	var records []models.VideoProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
