package dto

import "github.com/lumilearn/lumilearn-api/internal/models"

// Client-to-server playback message types.
const (
	ClientEventReady      = "ready"
	ClientEventTimeUpdate = "time_update"
	ClientEventSeek       = "seek"
	ClientEventPlaying    = "playing"
	ClientEventPaused     = "paused"
	ClientEventEnded      = "ended"
	ClientEventSelect     = "select"
	ClientEventToggle     = "toggle"
	ClientEventSubmit     = "submit"
	ClientEventRetry      = "retry"
	ClientEventCorrection = "correction"
	ClientEventContinue   = "continue"
	ClientEventSwitch     = "switch_media"
)

// Server-to-client playback message types.
const (
	ServerEventPlay       = "play"
	ServerEventPause      = "pause"
	ServerEventSeek       = "seek"
	ServerEventCheckpoint = "checkpoint"
	ServerEventResult     = "result"
	ServerEventResolved   = "resolved"
	ServerEventError      = "error"
)

// PlaybackClientMessage is one inbound frame on the playback websocket. The
// player reports media state; the engine owns every pause, seek and resume
// decision.
type PlaybackClientMessage struct {
	Type     string  `json:"type"`
	Time     float64 `json:"time,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Question int     `json:"question,omitempty"`
	Answer   int     `json:"answer,omitempty"`
	MediaID  string  `json:"media_id,omitempty"`
}

// PlaybackServerMessage is one outbound frame on the playback websocket.
type PlaybackServerMessage struct {
	Type       string          `json:"type"`
	Time       float64         `json:"time,omitempty"`
	Checkpoint *CheckpointView `json:"checkpoint,omitempty"`
	Result     *QuizResultView `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// AnswerView is one selectable answer, with correctness withheld.
type AnswerView struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// QuestionView is one quiz question as shown to the player.
type QuestionView struct {
	Index       int          `json:"index"`
	Text        string       `json:"text"`
	Answers     []AnswerView `json:"answers"`
	MultiSelect bool         `json:"multi_select"`
}

// CheckpointView is the payload sent when a checkpoint fires. Saved carries
// previously submitted selections so a revisited quiz opens prefilled.
type CheckpointView struct {
	ID        uint             `json:"id"`
	Timestamp float64          `json:"timestamp"`
	Questions []QuestionView   `json:"questions"`
	Saved     models.AnswerMap `json:"saved,omitempty"`
}

// QuizResultView is the payload sent after grading a submission.
type QuizResultView struct {
	ScorePercent   int              `json:"score_percent"`
	Passed         bool             `json:"passed"`
	CorrectAnswers models.AnswerMap `json:"correct_answers"`
}

// NewCheckpointView maps a checkpoint model for delivery to the player.
func NewCheckpointView(checkpoint models.Checkpoint, saved models.AnswerMap) CheckpointView {
	view := CheckpointView{ID: checkpoint.ID, Timestamp: checkpoint.Timestamp, Saved: saved}
	for qi, question := range checkpoint.QuestionList() {
		qv := QuestionView{Index: qi, Text: question.Text, MultiSelect: len(question.CorrectSet()) > 1}
		for ai, answer := range question.Answers {
			qv.Answers = append(qv.Answers, AnswerView{Index: ai, Text: answer.Text})
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}
