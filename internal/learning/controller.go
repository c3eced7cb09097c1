package learning

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vytor/lexiflash/internal/exercise"
	"github.com/vytor/lexiflash/internal/logger"
	"github.com/vytor/lexiflash/internal/models"
)

// Mode is the controller's current pass.
type Mode string

const (
	ModeFlashcard Mode = "flashcard"
	ModeQuiz      Mode = "quiz"
	ModeDone      Mode = "done"
)

var (
	// ErrWrongMode is returned for an action the current mode does not accept.
	ErrWrongMode = errors.New("action not allowed in current mode")
	// ErrNoExercise is returned when answering before an exercise was shown.
	ErrNoExercise = errors.New("no exercise in progress")
)

// Preparer builds the exercise for a quiz word.
type Preparer interface {
	Prepare(ctx context.Context, word models.LearningWord, pool []models.LearningWord) (*exercise.Exercise, error)
}

// State is a read-only snapshot of a session.
type State struct {
	Kind     Kind                   `json:"kind"`
	Mode     Mode                   `json:"mode"`
	NoWords  bool                   `json:"noWords"`
	Progress models.SessionProgress `json:"progress"`
	Card     *models.LearningWord   `json:"card,omitempty"`
	Missed   []models.LearningWord  `json:"missed"`
	Pending  int                    `json:"pending"`
	Skipped  int                    `json:"skipped"`
	Error    string                 `json:"error,omitempty"`
}

// Controller drives one session: a flashcard pass over the loaded words,
// then a single quiz pass over the missed ones. Revision sessions go
// straight to the quiz with every word. Calls are serialised.
type Controller struct {
	mu       sync.Mutex
	store    *Store
	preparer Preparer
	kind     Kind
	now      func() time.Time

	mode    Mode
	noWords bool
	words   []models.LearningWord
	index   int
	missed  []models.LearningWord

	quiz        []models.LearningWord
	quizIndex   int
	current     *exercise.Exercise
	presentedAt time.Time
	skipped     int
}

// NewController starts a session over an already loaded store.
func NewController(kind Kind, store *Store, preparer Preparer) *Controller {
	c := &Controller{
		store:    store,
		preparer: preparer,
		kind:     kind,
		now:      time.Now,
		words:    store.Words(),
	}

	switch {
	case len(c.words) == 0:
		c.mode = ModeDone
		c.noWords = true
	case kind.Revision():
		c.mode = ModeQuiz
		c.quiz = c.words
	default:
		c.mode = ModeFlashcard
	}
	return c
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Missed returns the words marked "don't know" in the current flashcard pass.
func (c *Controller) Missed() []models.LearningWord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.LearningWord(nil), c.missed...)
}

// QuizWords returns the words of the quiz pass, if one has started.
func (c *Controller) QuizWords() []models.LearningWord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.LearningWord(nil), c.quiz...)
}

// State returns a snapshot for the presentation layer.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		Kind:     c.kind,
		Mode:     c.mode,
		NoWords:  c.noWords,
		Progress: c.store.Progress(),
		Missed:   append([]models.LearningWord{}, c.missed...),
		Pending:  len(c.store.Pending()),
		Skipped:  c.skipped,
	}
	if c.mode == ModeFlashcard && c.index < len(c.words) {
		card := c.words[c.index]
		st.Card = &card
	}
	if err := c.store.Err(); err != nil {
		st.Error = err.Error()
	}
	return st
}

// CurrentCard returns the flashcard being shown.
func (c *Controller) CurrentCard() (models.LearningWord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeFlashcard || c.index >= len(c.words) {
		return models.LearningWord{}, ErrWrongMode
	}
	return c.words[c.index], nil
}

// OnWordLearned records the answer to the current flashcard. A "don't know"
// answer puts the word in the missed set before advancing. At the end of the
// list the session moves to the quiz when words were missed, and otherwise
// ends with one submit whose error is returned.
func (c *Controller) OnWordLearned(ctx context.Context, known bool) error {
	return c.answerCard(ctx, known, false)
}

// OnWordAlreadyKnown records that the user already knows the current card.
func (c *Controller) OnWordAlreadyKnown(ctx context.Context) error {
	return c.answerCard(ctx, true, true)
}

func (c *Controller) answerCard(ctx context.Context, known, alreadyKnow bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeFlashcard || c.index >= len(c.words) {
		return ErrWrongMode
	}
	word := c.words[c.index]
	if !known {
		c.missed = append(c.missed, word)
	}
	c.store.MarkWordAsLearned(word.ID, known, alreadyKnow)
	c.index++

	if c.index < len(c.words) {
		return nil
	}
	if len(c.missed) > 0 {
		c.enterQuiz(ctx, c.missed)
		return nil
	}
	return c.finish(ctx)
}

func (c *Controller) enterQuiz(ctx context.Context, words []models.LearningWord) {
	c.mode = ModeQuiz
	c.quiz = append([]models.LearningWord(nil), words...)
	c.quizIndex = 0
	c.current = nil
	c.store.ResetProgress(len(c.quiz))
	logger.FromContext(ctx).WithPrefix("session").Info("starting quiz with %d missed words", len(c.quiz))
}

// CurrentExercise returns the exercise for the current quiz word, preparing
// it on first call. Words whose exercise cannot be prepared are skipped
// without recording an answer. It returns a nil exercise once the quiz is
// over, together with the error of the final submit, if any.
func (c *Controller) CurrentExercise(ctx context.Context) (*exercise.Exercise, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeQuiz {
		return nil, ErrWrongMode
	}
	if c.current != nil {
		return c.current, nil
	}

	log := logger.FromContext(ctx).WithPrefix("session")
	for c.quizIndex < len(c.quiz) {
		word := c.quiz[c.quizIndex]
		ex, err := c.preparer.Prepare(ctx, word, c.words)
		if err == nil {
			c.current = ex
			c.presentedAt = c.now()
			return ex, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, exercise.ErrSkipped) {
			return nil, err
		}
		log.Warn("skipping quiz word %s: %v", word.ID, err)
		c.skipped++
		c.quizIndex++
	}
	return nil, c.finish(ctx)
}

// Grade is the outcome of one quiz answer.
type Grade struct {
	Correct  bool
	Expected string
}

// AnswerExercise grades the answer to the current exercise and records it.
// The grade carries the expected answer of the exercise that was graded.
// When the elapsed time is not supplied it is measured from when the
// exercise was handed out.
func (c *Controller) AnswerExercise(ctx context.Context, answer exercise.Answer) (Grade, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != ModeQuiz {
		return Grade{}, ErrWrongMode
	}
	if c.current == nil {
		return Grade{}, ErrNoExercise
	}
	if answer.Elapsed <= 0 {
		answer.Elapsed = c.now().Sub(c.presentedAt)
	}

	ex := c.current
	correct := ex.Evaluate(answer)
	grade := Grade{Correct: correct, Expected: ex.Prompt.Expected}
	c.store.MarkWordAsLearned(ex.Word.ID, correct, false)
	c.current = nil
	c.quizIndex++

	logger.FromContext(ctx).WithPrefix("session").Debug("%s answer for %s: correct=%t", ex.Prompt.Kind, ex.Word.ID, correct)

	if c.quizIndex >= len(c.quiz) {
		return grade, c.finish(ctx)
	}
	return grade, nil
}

// finish ends the session with one submit of everything buffered.
func (c *Controller) finish(ctx context.Context) error {
	c.mode = ModeDone
	c.missed = nil
	c.current = nil
	logger.FromContext(ctx).WithPrefix("session").Info("session finished")
	return c.store.SubmitPendingUpdates(ctx)
}

// Close tears the session down, flushing pending answers once. Answers
// arriving afterwards are rejected with ErrWrongMode.
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeDone
	c.current = nil
	return c.store.Close(ctx)
}
