package models

import (
	"time"

	"gorm.io/datatypes"
)

// Quiz response kinds. The first record for a (user, checkpoint) pair is
// write-once; the last record is overwritten on every submission.
const (
	ResponseKindFirst = "first"
	ResponseKindLast  = "last"
)

// VideoProgress stores durable playback progress for one user on one video.
// One logical record per (UserID, VideoID), overwritten in place.
// LastPosition is non-decreasing over the record's lifetime.
type VideoProgress struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"uniqueIndex:idx_video_progress_user_video;not null" json:"user_id"`
	VideoID          uint      `gorm:"uniqueIndex:idx_video_progress_user_video;not null" json:"video_id"`
	CourseID         uint      `gorm:"index" json:"course_id"`
	MinutesWatched   float64   `json:"minutes_watched"`
	MinutesRemaining float64   `json:"minutes_remaining"`
	LastPosition     float64   `json:"last_position"`
	Completed        bool      `json:"completed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AnswerMap maps a question index (JSON object key) to the selected answer
// index for that question.
type AnswerMap map[string]int

// QuizResponse stores one graded submission for a (user, checkpoint) pair.
// Two keyed variants exist per pair: ResponseKindFirst and ResponseKindLast.
type QuizResponse struct {
	ID             uint                          `gorm:"primaryKey" json:"id"`
	UserID         uint                          `gorm:"uniqueIndex:idx_quiz_response_user_checkpoint_kind;not null" json:"user_id"`
	CheckpointID   uint                          `gorm:"uniqueIndex:idx_quiz_response_user_checkpoint_kind;not null" json:"checkpoint_id"`
	Kind           string                        `gorm:"size:16;uniqueIndex:idx_quiz_response_user_checkpoint_kind;not null" json:"kind"`
	VideoID        uint                          `gorm:"index" json:"video_id"`
	CourseID       uint                          `gorm:"index" json:"course_id"`
	UserAnswers    datatypes.JSONType[AnswerMap] `gorm:"type:json" json:"user_answers"`
	CorrectAnswers datatypes.JSONType[AnswerMap] `gorm:"type:json" json:"correct_answers"`
	ScorePercent   int                           `json:"score_percent"`
	SubmittedAt    time.Time                     `json:"submitted_at"`
}
