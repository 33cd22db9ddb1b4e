package player

import (
	"errors"
	"math"
	"strconv"

	"github.com/lumilearn/lumilearn-api/internal/models"
)

// InteractionState identifies where a single active checkpoint is in its
// lifecycle.
type InteractionState string

// Interaction lifecycle states: answering -> success|failed;
// failed -> answering (retry) | correction; success|correction -> resolved.
const (
	StateAnswering  InteractionState = "answering"
	StateSuccess    InteractionState = "success"
	StateFailed     InteractionState = "failed"
	StateCorrection InteractionState = "correction"
	StateResolved   InteractionState = "resolved"
)

var (
	// ErrIncompleteAnswers rejects a submit while any question has no selection.
	ErrIncompleteAnswers = errors.New("every question needs a selection before submitting")
	// ErrInvalidTransition rejects an event the current state does not accept.
	ErrInvalidTransition = errors.New("invalid interaction transition")
	// ErrQuestionOutOfRange rejects a selection for an unknown question.
	ErrQuestionOutOfRange = errors.New("question index out of range")
	// ErrAnswerOutOfRange rejects a selection for an unknown answer.
	ErrAnswerOutOfRange = errors.New("answer index out of range")
)

// Outcome is produced when an interaction leaves the answering state. It is
// what the progress recorder persists.
type Outcome struct {
	UserAnswers    models.AnswerMap
	CorrectAnswers models.AnswerMap
	ScorePercent   int
	Passed         bool
}

// Interaction governs the lifecycle of one fired checkpoint. All methods are
// synchronous state-transition functions; nothing here touches I/O, which
// keeps the machine testable without a live media adapter.
type Interaction struct {
	checkpoint models.Checkpoint
	questions  []models.Question
	state      InteractionState
	selections []map[int]struct{}
}

// NewInteraction starts a checkpoint interaction in the answering state,
// pre-populated with previously saved selections when the checkpoint re-fires
// after a backward seek.
func NewInteraction(cp models.Checkpoint, saved models.AnswerMap) *Interaction {
	questions := cp.QuestionList()
	selections := make([]map[int]struct{}, len(questions))
	for i := range selections {
		selections[i] = make(map[int]struct{})
	}

	it := &Interaction{
		checkpoint: cp,
		questions:  questions,
		state:      StateAnswering,
		selections: selections,
	}

	for key, answer := range saved {
		q, err := strconv.Atoi(key)
		if err != nil || q < 0 || q >= len(questions) {
			continue
		}
		if answer < 0 || answer >= len(questions[q].Answers) {
			continue
		}
		selections[q][answer] = struct{}{}
	}

	return it
}

// State returns the current lifecycle state.
func (it *Interaction) State() InteractionState {
	return it.state
}

// Checkpoint returns the checkpoint this interaction belongs to.
func (it *Interaction) Checkpoint() models.Checkpoint {
	return it.checkpoint
}

// Questions exposes the question list for rendering.
func (it *Interaction) Questions() []models.Question {
	return it.questions
}

// Select records a single-choice selection, replacing any previous selection
// for the question.
func (it *Interaction) Select(question, answer int) error {
	if err := it.checkSelection(question, answer); err != nil {
		return err
	}
	it.selections[question] = map[int]struct{}{answer: {}}
	return nil
}

// Toggle flips one answer in a multi-select question's selection set.
func (it *Interaction) Toggle(question, answer int) error {
	if err := it.checkSelection(question, answer); err != nil {
		return err
	}
	if _, ok := it.selections[question][answer]; ok {
		delete(it.selections[question], answer)
	} else {
		it.selections[question][answer] = struct{}{}
	}
	return nil
}

func (it *Interaction) checkSelection(question, answer int) error {
	if it.state != StateAnswering {
		return ErrInvalidTransition
	}
	if question < 0 || question >= len(it.questions) {
		return ErrQuestionOutOfRange
	}
	if answer < 0 || answer >= len(it.questions[question].Answers) {
		return ErrAnswerOutOfRange
	}
	return nil
}

// Complete reports whether every question has a non-empty selection. The UI
// enables the validation action only when this holds.
func (it *Interaction) Complete() bool {
	for _, selection := range it.selections {
		if len(selection) == 0 {
			return false
		}
	}
	return true
}

// Selections snapshots the current selections so the session can retain them
// across a backward seek.
func (it *Interaction) Selections() models.AnswerMap {
	answers := models.AnswerMap{}
	for q, selection := range it.selections {
		if len(selection) == 0 {
			continue
		}
		answers[strconv.Itoa(q)] = lowestIndex(selection)
	}
	return answers
}

// Submit grades the current selections. The interaction transitions to
// success iff every question's selection set equals exactly its
// correct-answer set, otherwise to failed.
func (it *Interaction) Submit() (Outcome, error) {
	if it.state != StateAnswering {
		return Outcome{}, ErrInvalidTransition
	}
	if !it.Complete() {
		return Outcome{}, ErrIncompleteAnswers
	}

	outcome := Outcome{
		UserAnswers:    models.AnswerMap{},
		CorrectAnswers: models.AnswerMap{},
	}

	correctCount := 0
	for q, question := range it.questions {
		key := strconv.Itoa(q)
		outcome.UserAnswers[key] = lowestIndex(it.selections[q])
		correctSet := question.CorrectSet()
		outcome.CorrectAnswers[key] = lowestIndex(correctSet)
		if selectionMatches(it.selections[q], correctSet) {
			correctCount++
		}
	}

	if total := len(it.questions); total > 0 {
		outcome.ScorePercent = int(math.Round(float64(correctCount) / float64(total) * 100))
	} else {
		outcome.ScorePercent = 100
	}

	if correctCount == len(it.questions) {
		it.state = StateSuccess
	} else {
		it.state = StateFailed
	}
	outcome.Passed = it.state == StateSuccess

	return outcome, nil
}

// Retry clears all selections and returns to answering. It does not re-grade.
func (it *Interaction) Retry() error {
	if it.state != StateFailed {
		return ErrInvalidTransition
	}
	for q := range it.selections {
		it.selections[q] = make(map[int]struct{})
	}
	it.state = StateAnswering
	return nil
}

// Correction moves a failed interaction into the read-only correction state,
// revealing correct answers without allowing resubmission.
func (it *Interaction) Correction() error {
	if it.state != StateFailed {
		return ErrInvalidTransition
	}
	it.state = StateCorrection
	return nil
}

// Continue resolves the interaction from success or correction. The caller
// resumes playback at checkpoint.Timestamp+1s so the same checkpoint cannot
// immediately re-fire.
func (it *Interaction) Continue() error {
	if it.state != StateSuccess && it.state != StateCorrection {
		return ErrInvalidTransition
	}
	it.state = StateResolved
	return nil
}

func selectionMatches(selection map[int]struct{}, correct map[int]struct{}) bool {
	if len(selection) != len(correct) {
		return false
	}
	for idx := range selection {
		if _, ok := correct[idx]; !ok {
			return false
		}
	}
	return true
}

func lowestIndex(selection map[int]struct{}) int {
	lowest := -1
	for idx := range selection {
		if lowest < 0 || idx < lowest {
			lowest = idx
		}
	}
	return lowest
}
