package dto

// AnswerImport is one answer option in a checkpoint import payload.
type AnswerImport struct {
	Text    string `json:"text" validate:"required"`
	Correct bool   `json:"correct"`
}

// QuestionImport is one question in a checkpoint import payload.
type QuestionImport struct {
	Text    string         `json:"text" validate:"required"`
	Answers []AnswerImport `json:"answers" validate:"required,min=2,dive"`
}

// CheckpointImport is one checkpoint in an import payload.
type CheckpointImport struct {
	Timestamp float64          `json:"timestamp" validate:"gte=0"`
	Questions []QuestionImport `json:"questions" validate:"required,min=1,dive"`
}

// CheckpointImportRequest replaces the checkpoint set for a video.
type CheckpointImportRequest struct {
	Checkpoints []CheckpointImport `json:"checkpoints" validate:"required,dive"`
}

// CheckpointImportResponse reports the outcome of an import.
type CheckpointImportResponse struct {
	VideoID  uint `json:"video_id"`
	Imported int  `json:"imported"`
}
