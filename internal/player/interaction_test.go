package player

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/lumilearn/lumilearn-api/internal/models"
)

func quizCheckpoint(questions ...models.Question) models.Checkpoint {
	return models.Checkpoint{
		ID:        1,
		MediaID:   "media-1",
		Timestamp: 10,
		Questions: datatypes.NewJSONType(questions),
	}
}

func singleChoiceQuestion(correct int) models.Question {
	return models.Question{
		Text: "What is tested here?",
		Answers: []models.Answer{
			{Text: "option a", Correct: correct == 0},
			{Text: "option b", Correct: correct == 1},
			{Text: "option c", Correct: correct == 2},
		},
	}
}

func TestInteractionGradingSuccess(t *testing.T) {
	it := NewInteraction(quizCheckpoint(singleChoiceQuestion(1)), nil)
	require.Equal(t, StateAnswering, it.State())
	require.False(t, it.Complete())

	require.NoError(t, it.Select(0, 1))
	require.True(t, it.Complete())

	outcome, err := it.Submit()
	require.NoError(t, err)
	require.True(t, outcome.Passed)
	require.Equal(t, StateSuccess, it.State())
	require.Equal(t, 100, outcome.ScorePercent)
	require.Equal(t, models.AnswerMap{"0": 1}, outcome.UserAnswers)
	require.Equal(t, models.AnswerMap{"0": 1}, outcome.CorrectAnswers)
}

func TestInteractionGradingFailure(t *testing.T) {
	it := NewInteraction(quizCheckpoint(singleChoiceQuestion(1)), nil)
	require.NoError(t, it.Select(0, 0))

	outcome, err := it.Submit()
	require.NoError(t, err)
	require.False(t, outcome.Passed)
	require.Equal(t, StateFailed, it.State())
	require.Equal(t, 0, outcome.ScorePercent)
}

func TestInteractionIncompleteSubmitRejected(t *testing.T) {
	it := NewInteraction(quizCheckpoint(singleChoiceQuestion(1), singleChoiceQuestion(2)), nil)
	require.NoError(t, it.Select(0, 1))

	_, err := it.Submit()
	require.ErrorIs(t, err, ErrIncompleteAnswers)
	require.Equal(t, StateAnswering, it.State())
}

func TestInteractionRetryClearsSelections(t *testing.T) {
	it := NewInteraction(quizCheckpoint(singleChoiceQuestion(1)), nil)
	require.NoError(t, it.Select(0, 0))
	_, err := it.Submit()
	require.NoError(t, err)
	require.Equal(t, StateFailed, it.State())

	require.NoError(t, it.Retry())
	require.Equal(t, StateAnswering, it.State())
	require.False(t, it.Complete())
}

func TestInteractionCorrectionIsReadOnly(t *testing.T) {
	it := NewInteraction(quizCheckpoint(singleChoiceQuestion(1)), nil)
	require.NoError(t, it.Select(0, 0))
	_, err := it.Submit()
	require.NoError(t, err)

	require.NoError(t, it.Correction())
	require.Equal(t, StateCorrection, it.State())
	require.ErrorIs(t, it.Select(0, 1), ErrInvalidTransition)

	_, err = it.Submit()
	require.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, it.Continue())
	require.Equal(t, StateResolved, it.State())
}

func TestInteractionContinueOnlyFromSuccessOrCorrection(t *testing.T) {
	it := NewInteraction(quizCheckpoint(singleChoiceQuestion(1)), nil)
	require.ErrorIs(t, it.Continue(), ErrInvalidTransition)

	require.NoError(t, it.Select(0, 1))
	_, err := it.Submit()
	require.NoError(t, err)
	require.NoError(t, it.Continue())
	require.Equal(t, StateResolved, it.State())
}

func TestInteractionMultiSelectGrading(t *testing.T) {
	question := models.Question{
		Text: "Pick every correct option",
		Answers: []models.Answer{
			{Text: "a", Correct: true},
			{Text: "b", Correct: false},
			{Text: "c", Correct: true},
		},
	}
	it := NewInteraction(quizCheckpoint(question), nil)

	require.NoError(t, it.Toggle(0, 0))
	outcome, err := it.Submit()
	require.NoError(t, err)
	require.False(t, outcome.Passed, "partial selection must not pass")

	require.NoError(t, it.Retry())
	require.NoError(t, it.Toggle(0, 0))
	require.NoError(t, it.Toggle(0, 2))
	outcome, err = it.Submit()
	require.NoError(t, err)
	require.True(t, outcome.Passed)
}

func TestInteractionPrefilledFromSavedAnswers(t *testing.T) {
	it := NewInteraction(quizCheckpoint(singleChoiceQuestion(1)), models.AnswerMap{"0": 1})
	require.True(t, it.Complete(), "saved answers pre-populate the selection")

	outcome, err := it.Submit()
	require.NoError(t, err)
	require.True(t, outcome.Passed)
}

func TestInteractionRejectsOutOfRangeSelections(t *testing.T) {
	it := NewInteraction(quizCheckpoint(singleChoiceQuestion(1)), nil)
	require.ErrorIs(t, it.Select(3, 0), ErrQuestionOutOfRange)
	require.ErrorIs(t, it.Select(0, 9), ErrAnswerOutOfRange)
}
