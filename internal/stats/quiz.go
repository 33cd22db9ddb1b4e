package stats

import (
	"math"

	"github.com/lumilearn/lumilearn-api/internal/models"
)

// AttemptSummary aggregates one attempt kind (first or last) of a course's
// quiz responses.
type AttemptSummary struct {
	Responses           int `json:"responses"`
	AvgScore            int `json:"avg_score"`
	TotalCorrectAnswers int `json:"total_correct_answers"`
	TotalAnswers        int `json:"total_answers"`
	TotalMissedAnswers  int `json:"total_missed_answers"`
}

// Improvement holds the last-minus-first deltas for a course.
type Improvement struct {
	AvgScore       int `json:"avg_score"`
	CorrectAnswers int `json:"correct_answers"`
	MissedAnswers  int `json:"missed_answers"`
}

// CourseQuizSummary is the per-course quiz improvement report.
type CourseQuizSummary struct {
	CourseID    uint           `json:"course_id"`
	First       AttemptSummary `json:"first"`
	Last        AttemptSummary `json:"last"`
	Improvement Improvement    `json:"improvement"`
	Suggestion  string         `json:"suggestion"`
}

// QuizStats groups quiz responses by course, partitions each group by attempt
// kind and computes score-improvement summaries. An empty input yields an
// empty map.
func QuizStats(records []models.QuizResponse) map[uint]CourseQuizSummary {
	summaries := make(map[uint]CourseQuizSummary)
	if len(records) == 0 {
		return summaries
	}

	type partition struct {
		first []models.QuizResponse
		last  []models.QuizResponse
	}
	byCourse := make(map[uint]*partition)
	for _, record := range records {
		part, ok := byCourse[record.CourseID]
		if !ok {
			part = &partition{}
			byCourse[record.CourseID] = part
		}
		switch record.Kind {
		case models.ResponseKindFirst:
			part.first = append(part.first, record)
		case models.ResponseKindLast:
			part.last = append(part.last, record)
		}
	}

	for courseID, part := range byCourse {
		summary := CourseQuizSummary{
			CourseID: courseID,
			First:    summarizeAttempts(part.first),
			Last:     summarizeAttempts(part.last),
		}
		summary.Improvement = Improvement{
			AvgScore:       summary.Last.AvgScore - summary.First.AvgScore,
			CorrectAnswers: summary.Last.TotalCorrectAnswers - summary.First.TotalCorrectAnswers,
			MissedAnswers:  summary.Last.TotalMissedAnswers - summary.First.TotalMissedAnswers,
		}
		summary.Suggestion = Suggestion(summary.Last, summary.Improvement)
		summaries[courseID] = summary
	}

	return summaries
}

func summarizeAttempts(records []models.QuizResponse) AttemptSummary {
	summary := AttemptSummary{Responses: len(records)}
	if len(records) == 0 {
		return summary
	}

	scoreTotal := 0
	for _, record := range records {
		scoreTotal += record.ScorePercent

		user := record.UserAnswers.Data()
		correct := record.CorrectAnswers.Data()
		for key, answer := range user {
			summary.TotalAnswers++
			if expected, ok := correct[key]; ok && expected == answer {
				summary.TotalCorrectAnswers++
			}
		}
	}

	summary.AvgScore = int(math.Round(float64(scoreTotal) / float64(len(records))))
	summary.TotalMissedAnswers = summary.TotalAnswers - summary.TotalCorrectAnswers
	return summary
}

// Suggestion picks a human-readable study tip from the last-attempt average
// and the improvement sign. It never returns an empty string, so callers
// always have something to display.
func Suggestion(last AttemptSummary, improvement Improvement) string {
	if last.Responses == 0 {
		return "Take the quizzes while watching to track your progress."
	}

	improved := improvement.AvgScore > 0
	switch {
	case last.AvgScore < 50 && improved:
		return "Scores are still low but improving. Keep rewatching the videos and retrying the quizzes."
	case last.AvgScore < 50:
		return "Scores are low. Rewatch the videos and retry the quizzes from the start."
	case last.AvgScore < 80 && improved:
		return "Solid improvement. A little more practice should push your scores above 80%."
	case last.AvgScore < 80:
		return "Scores have plateaued. Review the questions you miss most often."
	case improved:
		return "Great progress. Your scores improved and are now strong, keep it up."
	default:
		return "Scores are strong. Revisit the occasional missed question to stay sharp."
	}
}
