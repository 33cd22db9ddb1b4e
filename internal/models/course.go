package models

import "time"

// Level groups courses by difficulty tier (e.g. beginner, intermediate).
type Level struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"size:128;uniqueIndex" json:"slug"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Sequence  int       `gorm:"index" json:"sequence"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subject is a topic area a course belongs to.
type Subject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"size:128;uniqueIndex" json:"slug"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Course is a published collection of videos under a level and subject.
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:128;uniqueIndex" json:"slug"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	LevelID     uint      `gorm:"index" json:"level_id"`
	SubjectID   uint      `gorm:"index" json:"subject_id"`
	Published   bool      `gorm:"index" json:"published"`
	Level       Level     `json:"level,omitempty"`
	Subject     Subject   `json:"subject,omitempty"`
	Videos      []Video   `json:"videos,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
