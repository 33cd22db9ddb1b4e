// Package stats reduces durable progress and quiz records into course-level
// summaries. Everything here is a pure function over slices: no I/O, total on
// empty input, safe to call from any layer.
package stats

import "github.com/lumilearn/lumilearn-api/internal/models"

// Overall watching status for a set of video progress records.
const (
	StatusDone       = "done"
	StatusInProgress = "in_progress"
	StatusNotStarted = "not_started"
)

// VideoSummary aggregates watching progress across a set of videos.
type VideoSummary struct {
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Started    int     `json:"started"`
	NotStarted int     `json:"not_started"`
	Percent    float64 `json:"percent"`
	Status     string  `json:"status"`
}

// VideoStats reduces video progress records into a completion summary.
// An empty input yields an all-zero summary with StatusNotStarted.
func VideoStats(records []models.VideoProgress) VideoSummary {
	summary := VideoSummary{Total: len(records), Status: StatusNotStarted}

	var watched, remaining float64
	for _, record := range records {
		watched += record.MinutesWatched
		remaining += record.MinutesRemaining

		switch {
		case record.Completed:
			summary.Completed++
		case record.MinutesWatched > 0:
			summary.Started++
		default:
			summary.NotStarted++
		}
	}

	if total := watched + remaining; total > 0 {
		summary.Percent = watched / total * 100
	}

	switch {
	case summary.Total > 0 && summary.Completed == summary.Total:
		summary.Status = StatusDone
	case summary.Completed > 0 || summary.Started > 0:
		summary.Status = StatusInProgress
	}

	return summary
}
