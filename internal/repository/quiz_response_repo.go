package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lumilearn/lumilearn-api/internal/models"
)

// QuizResponseRepository stores graded quiz submissions. It exposes the two
// write capabilities the recorder needs: write-if-absent (for first-attempt
// records) and write-always (for last-attempt records). The attempt-kind
// naming stays a storage detail; the engine never sees it.
type QuizResponseRepository interface {
	Get(ctx context.Context, userID, checkpointID uint, kind string) (models.QuizResponse, error)
	CreateIfAbsent(ctx context.Context, record *models.QuizResponse) (bool, error)
	Upsert(ctx context.Context, record *models.QuizResponse) error
	ListByUser(ctx context.Context, userID uint) ([]models.QuizResponse, error)
	ListByUserCourse(ctx context.Context, userID, courseID uint) ([]models.QuizResponse, error)
}

type quizResponseRepository struct {
	db *gorm.DB
}

// NewQuizResponseRepository constructs a quiz response repository.
func NewQuizResponseRepository(db *gorm.DB) QuizResponseRepository {
	return &quizResponseRepository{db: db}
}

func (r *quizResponseRepository) Get(ctx context.Context, userID, checkpointID uint, kind string) (models.QuizResponse, error) {
	var record models.QuizResponse
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND checkpoint_id = ? AND kind = ?", userID, checkpointID, kind).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.QuizResponse{}, ErrNotFound
	}
	return record, err
}

// CreateIfAbsent writes the record only when no record exists for its
// (user, checkpoint, kind) key. It reports whether a write happened.
func (r *quizResponseRepository) CreateIfAbsent(ctx context.Context, record *models.QuizResponse) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "checkpoint_id"}, {Name: "kind"}},
		DoNothing: true,
	}).Create(record)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *quizResponseRepository) Upsert(ctx context.Context, record *models.QuizResponse) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "checkpoint_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"video_id", "course_id", "user_answers", "correct_answers", "score_percent", "submitted_at",
		}),
	}).Create(record).Error
}

func (r *quizResponseRepository) ListByUser(ctx context.Context, userID uint) ([]models.QuizResponse, error) {
	var records []models.QuizResponse
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *quizResponseRepository) ListByUserCourse(ctx context.Context, userID, courseID uint) ([]models.QuizResponse, error) {
	var records []models.QuizResponse
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
