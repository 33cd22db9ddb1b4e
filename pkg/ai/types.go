package ai

import "context"

// CourseProgress summarises one course's quiz trajectory for the adviser.
type CourseProgress struct {
	Title         string
	FirstAvgScore int
	LastAvgScore  int
	Improvement   int
	Suggestion    string
}

// StudyContext contains the aggregates the adviser reasons over.
type StudyContext struct {
	VideosCompleted  int
	VideosInProgress int
	MinutesWatched   float64
	MinutesRemaining float64
	Courses          []CourseProgress
}

// Adviser describes an AI model capable of turning learning aggregates into
// one short personalised study note.
type Adviser interface {
	Advise(ctx context.Context, study StudyContext) (string, error)
}
