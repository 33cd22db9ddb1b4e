package models

import "time"

// Video is a single media item inside a course. MediaID identifies the
// underlying stream for the player; DurationSeconds is the authoritative
// length used when deriving completion.
type Video struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CourseID        uint      `gorm:"index;not null" json:"course_id"`
	MediaID         string    `gorm:"size:160;uniqueIndex;not null" json:"media_id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	ThumbnailURL    string    `gorm:"size:512" json:"thumbnail_url"`
	DurationSeconds float64   `json:"duration_seconds"`
	Sequence        int       `gorm:"index" json:"sequence"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
