package dto

import "time"

// VideoStatsResponse summarises video progress across every course.
type VideoStatsResponse struct {
	Done             int     `json:"done"`
	InProgress       int     `json:"in_progress"`
	NotStarted       int     `json:"not_started"`
	MinutesWatched   float64 `json:"minutes_watched"`
	MinutesRemaining float64 `json:"minutes_remaining"`
}

// AttemptStatsResponse summarises one attempt kind (first or last) for a course.
type AttemptStatsResponse struct {
	QuizzesTaken   int `json:"quizzes_taken"`
	CorrectAnswers int `json:"correct_answers"`
	TotalAnswers   int `json:"total_answers"`
	AvgScore       int `json:"avg_score"`
}

// CourseQuizStatsResponse pairs first and last attempt summaries for a course.
type CourseQuizStatsResponse struct {
	CourseID    uint                 `json:"course_id"`
	CourseTitle string               `json:"course_title,omitempty"`
	First       AttemptStatsResponse `json:"first"`
	Last        AttemptStatsResponse `json:"last"`
	Improvement int                  `json:"improvement"`
	Suggestion  string               `json:"suggestion"`
}

// StatsOverviewResponse is the aggregated learning statistics payload.
type StatsOverviewResponse struct {
	Videos      VideoStatsResponse        `json:"videos"`
	Quizzes     []CourseQuizStatsResponse `json:"quizzes"`
	Advice      string                    `json:"advice,omitempty"`
	GeneratedAt time.Time                 `json:"generated_at"`
	CacheHit    bool                      `json:"cache_hit"`
}
