package stats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumilearn/lumilearn-api/internal/models"
)

func TestVideoStatsEmptyInput(t *testing.T) {
	summary := VideoStats(nil)
	require.Equal(t, VideoSummary{Status: StatusNotStarted}, summary)
}

func TestVideoStatsCounts(t *testing.T) {
	records := []models.VideoProgress{
		{Completed: true, MinutesWatched: 10, MinutesRemaining: 0},
		{MinutesWatched: 5, MinutesRemaining: 5},
		{MinutesWatched: 0, MinutesRemaining: 10},
	}

	summary := VideoStats(records)
	require.Equal(t, 3, summary.Total)
	require.Equal(t, 1, summary.Completed)
	require.Equal(t, 1, summary.Started)
	require.Equal(t, 1, summary.NotStarted)
	require.InDelta(t, 50.0, summary.Percent, 0.01)
	require.Equal(t, StatusInProgress, summary.Status)
}

func TestVideoStatsAllCompleted(t *testing.T) {
	records := []models.VideoProgress{
		{Completed: true, MinutesWatched: 10},
		{Completed: true, MinutesWatched: 8},
	}

	summary := VideoStats(records)
	require.Equal(t, StatusDone, summary.Status)
	require.InDelta(t, 100.0, summary.Percent, 0.01)
}

func TestVideoStatsZeroDenominator(t *testing.T) {
	records := []models.VideoProgress{{MinutesWatched: 0, MinutesRemaining: 0}}
	summary := VideoStats(records)
	require.Equal(t, 0.0, summary.Percent)
	require.Equal(t, StatusNotStarted, summary.Status)
}
