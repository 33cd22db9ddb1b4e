package models

import (
	"time"

	"gorm.io/datatypes"
)

// Answer is one selectable option for a checkpoint question.
type Answer struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question is a single multiple-choice question inside a checkpoint. A
// question may carry more than one correct answer (multi-select).
type Question struct {
	Text    string   `json:"text"`
	Answers []Answer `json:"answers"`
}

// CorrectSet returns the indexes of the correct answers.
func (q Question) CorrectSet() map[int]struct{} {
	set := make(map[int]struct{})
	for i, answer := range q.Answers {
		if answer.Correct {
			set[i] = struct{}{}
		}
	}
	return set
}

// Checkpoint is a quiz anchored to a playback timestamp within one video.
// A video owns an ordered set of checkpoints sorted ascending by Timestamp;
// equal timestamps keep insertion order (id ascending). Immutable once
// fetched for a playback session.
type Checkpoint struct {
	ID        uint                           `gorm:"primaryKey" json:"id"`
	VideoID   uint                           `gorm:"index;not null" json:"video_id"`
	MediaID   string                         `gorm:"size:160;index;not null" json:"media_id"`
	Timestamp float64                        `gorm:"not null" json:"timestamp"`
	Questions datatypes.JSONType[[]Question] `gorm:"type:json" json:"questions"`
	CreatedAt time.Time                      `json:"created_at"`
	UpdatedAt time.Time                      `json:"updated_at"`
}

// QuestionList unwraps the JSON column.
func (c Checkpoint) QuestionList() []Question {
	return c.Questions.Data()
}
