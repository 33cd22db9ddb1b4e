package dto

import (
	"time"

	"github.com/lumilearn/lumilearn-api/internal/models"
)

// RecordProgressRequest is the REST fallback for clients that report progress
// outside the playback websocket (e.g. on tab close via a beacon).
type RecordProgressRequest struct {
	MediaID  string  `json:"media_id" validate:"required"`
	Position float64 `json:"position" validate:"gte=0"`
}

// VideoProgressResponse is the public view of one durable progress record.
type VideoProgressResponse struct {
	VideoID          uint      `json:"video_id"`
	CourseID         uint      `json:"course_id"`
	MinutesWatched   float64   `json:"minutes_watched"`
	MinutesRemaining float64   `json:"minutes_remaining"`
	LastPosition     float64   `json:"last_position"`
	Completed        bool      `json:"completed"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewVideoProgressResponse maps a progress model.
func NewVideoProgressResponse(record models.VideoProgress) VideoProgressResponse {
	return VideoProgressResponse{
		VideoID:          record.VideoID,
		CourseID:         record.CourseID,
		MinutesWatched:   record.MinutesWatched,
		MinutesRemaining: record.MinutesRemaining,
		LastPosition:     record.LastPosition,
		Completed:        record.Completed,
		UpdatedAt:        record.UpdatedAt,
	}
}
