package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumilearn/lumilearn-api/internal/models"
)

// CheckpointRepository provides access to quiz checkpoints. Listings are
// always returned sorted ascending by timestamp with ties broken by id, which
// is the order the playback scheduler requires.
type CheckpointRepository interface {
	ListByMediaID(ctx context.Context, mediaID string) ([]models.Checkpoint, error)
	ReplaceForVideo(ctx context.Context, videoID uint, checkpoints []models.Checkpoint) error
}

type checkpointRepository struct {
	db *gorm.DB
}

// NewCheckpointRepository constructs a checkpoint repository.
func NewCheckpointRepository(db *gorm.DB) CheckpointRepository {
	return &checkpointRepository{db: db}
}

func (r *checkpointRepository) ListByMediaID(ctx context.Context, mediaID string) ([]models.Checkpoint, error) {
	var checkpoints []models.Checkpoint
	err := r.db.WithContext(ctx).
		Where("media_id = ?", mediaID).
		Order("timestamp ASC, id ASC").
		Find(&checkpoints).Error
	if err != nil {
		return nil, err
	}
	return checkpoints, nil
}

func (r *checkpointRepository) ReplaceForVideo(ctx context.Context, videoID uint, checkpoints []models.Checkpoint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", videoID).Delete(&models.Checkpoint{}).Error; err != nil {
			return err
		}
		if len(checkpoints) == 0 {
			return nil
		}
		return tx.Create(&checkpoints).Error
	})
}
