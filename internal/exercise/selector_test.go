package exercise_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lexiflash/internal/exercise"
	"github.com/vytor/lexiflash/internal/models"
	"github.com/vytor/lexiflash/internal/testutil"
	"github.com/vytor/lexiflash/internal/testutil/mocks"
)

func TestSelector_UsesLearningTypeWhenApplicable(t *testing.T) {
	client := new(mocks.MockLearnClient)
	detail := appleSource().Detail
	client.On("WordDetail", mock.Anything, "apple").Return(&detail, nil)

	sel := exercise.NewSelector(client, exercise.WithRand(newRand()))
	word := models.LearningWord{ID: "w1", Word: "apple", LearningType: string(exercise.KindFillInBlank)}

	ex, err := sel.Prepare(context.Background(), word, testutil.Words("apple", "pear"))
	require.NoError(t, err)
	assert.Equal(t, exercise.KindFillInBlank, ex.Prompt.Kind)
	assert.True(t, ex.Evaluate(exercise.Answer{Text: "apple"}))
	client.AssertExpectations(t)
}

func TestSelector_FallsBackWhenLearningTypeDoesNotFit(t *testing.T) {
	client := new(mocks.MockLearnClient)
	detail := models.WordDetail{Word: "apple"}
	client.On("WordDetail", mock.Anything, "apple").Return(&detail, nil)

	sel := exercise.NewSelector(client, exercise.WithRand(newRand()))
	word := models.LearningWord{ID: "w1", Word: "apple", LearningType: string(exercise.KindImageMatch)}

	for i := 0; i < 20; i++ {
		ex, err := sel.Prepare(context.Background(), word, nil)
		require.NoError(t, err)
		// Only the formats that need nothing but the word itself fit.
		assert.Contains(t, []exercise.Kind{exercise.KindArrangeLetters, exercise.KindSyllableCount}, ex.Prompt.Kind)
	}
}

func TestSelector_UnknownLearningTypeIsRandom(t *testing.T) {
	client := new(mocks.MockLearnClient)
	detail := appleSource().Detail
	client.On("WordDetail", mock.Anything, "apple").Return(&detail, nil)

	sel := exercise.NewSelector(client, exercise.WithRand(newRand()))
	word := models.LearningWord{ID: "w1", Word: "apple", LearningType: "listening"}

	seen := map[exercise.Kind]bool{}
	for i := 0; i < 200; i++ {
		ex, err := sel.Prepare(context.Background(), word, testutil.Words("apple", "pear", "plum"))
		require.NoError(t, err)
		seen[ex.Prompt.Kind] = true
	}
	assert.Len(t, seen, len(exercise.Kinds))
}

func TestSelector_DetailFailureSkips(t *testing.T) {
	client := new(mocks.MockLearnClient)
	client.On("WordDetail", mock.Anything, "apple").Return(nil, errors.New("boom"))

	sel := exercise.NewSelector(client)
	_, err := sel.Prepare(context.Background(), models.LearningWord{ID: "w1", Word: "apple"}, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, exercise.ErrSkipped))
}

func TestSelector_NoApplicableFormatSkips(t *testing.T) {
	client := new(mocks.MockLearnClient)
	client.On("WordDetail", mock.Anything, "a").Return(&models.WordDetail{Word: "a"}, nil)

	sel := exercise.NewSelector(client, exercise.WithSpecs(exercise.ArrangeLetters{}))
	_, err := sel.Prepare(context.Background(), models.LearningWord{ID: "w1", Word: "a"}, nil)

	assert.True(t, errors.Is(err, exercise.ErrSkipped))
}
