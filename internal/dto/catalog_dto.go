package dto

import (
	"time"

	"github.com/lumilearn/lumilearn-api/internal/models"
)

// LevelResponse is the public view of a difficulty level.
type LevelResponse struct {
	ID       uint   `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Sequence int    `json:"sequence"`
}

// SubjectResponse is the public view of a subject.
type SubjectResponse struct {
	ID   uint   `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// VideoResponse is the public view of a video inside a course.
type VideoResponse struct {
	ID              uint    `json:"id"`
	CourseID        uint    `json:"course_id"`
	MediaID         string  `json:"media_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	ThumbnailURL    string  `json:"thumbnail_url"`
	DurationSeconds float64 `json:"duration_seconds"`
	Sequence        int     `json:"sequence"`
}

// CourseResponse is the public view of a catalog course.
type CourseResponse struct {
	ID          uint            `json:"id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Level       LevelResponse   `json:"level"`
	Subject     SubjectResponse `json:"subject"`
	Videos      []VideoResponse `json:"videos,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewLevelResponse maps a level model.
func NewLevelResponse(level models.Level) LevelResponse {
	return LevelResponse{ID: level.ID, Slug: level.Slug, Name: level.Name, Sequence: level.Sequence}
}

// NewSubjectResponse maps a subject model.
func NewSubjectResponse(subject models.Subject) SubjectResponse {
	return SubjectResponse{ID: subject.ID, Slug: subject.Slug, Name: subject.Name}
}

// NewVideoResponse maps a video model.
func NewVideoResponse(video models.Video) VideoResponse {
	return VideoResponse{
		ID:              video.ID,
		CourseID:        video.CourseID,
		MediaID:         video.MediaID,
		Title:           video.Title,
		Description:     video.Description,
		ThumbnailURL:    video.ThumbnailURL,
		DurationSeconds: video.DurationSeconds,
		Sequence:        video.Sequence,
	}
}

// NewCourseResponse maps a course model with its associations.
func NewCourseResponse(course models.Course) CourseResponse {
	response := CourseResponse{
		ID:          course.ID,
		Slug:        course.Slug,
		Title:       course.Title,
		Description: course.Description,
		Level:       NewLevelResponse(course.Level),
		Subject:     NewSubjectResponse(course.Subject),
		UpdatedAt:   course.UpdatedAt,
	}
	for _, video := range course.Videos {
		response.Videos = append(response.Videos, NewVideoResponse(video))
	}
	return response
}
