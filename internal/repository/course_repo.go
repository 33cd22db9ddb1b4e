package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lumilearn/lumilearn-api/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// CourseFilter narrows course listings.
type CourseFilter struct {
	LevelID   *uint
	SubjectID *uint
	Published *bool
}

// CourseRepository provides access to the course catalog.
type CourseRepository interface {
	List(ctx context.Context, filter CourseFilter) ([]models.Course, error)
	GetByID(ctx context.Context, id uint) (models.Course, error)
	GetBySlug(ctx context.Context, slug string) (models.Course, error)
	ListLevels(ctx context.Context) ([]models.Level, error)
	ListSubjects(ctx context.Context) ([]models.Subject, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs a course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]models.Course, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{}).
		Preload("Level").
		Preload("Subject")

	if filter.LevelID != nil {
		query = query.Where("level_id = ?", *filter.LevelID)
	}
	if filter.SubjectID != nil {
		query = query.Where("subject_id = ?", *filter.SubjectID)
	}
	if filter.Published != nil {
		query = query.Where("published = ?", *filter.Published)
	}

	var courses []models.Course
	if err := query.Order("title ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Level").
		Preload("Subject").
		Preload("Videos", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Course{}, ErrNotFound
	}
	return course, err
}

func (r *courseRepository) GetBySlug(ctx context.Context, slug string) (models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Level").
		Preload("Subject").
		Preload("Videos", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") }).
		Where("slug = ?", slug).
		First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Course{}, ErrNotFound
	}
	return course, err
}

func (r *courseRepository) ListLevels(ctx context.Context) ([]models.Level, error) {
	var levels []models.Level
	if err := r.db.WithContext(ctx).Order("sequence ASC").Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *courseRepository) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}
