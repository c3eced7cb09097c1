// Package exercise holds the quiz exercise formats. Each format is a Spec
// that builds a Prompt from a word's dictionary entry and grades an Answer
// against that Prompt. New formats only need to be registered with a
// Selector; the session controller never switches on the kind.
package exercise

import (
	"math/rand/v2"
	"strings"
	"time"
	"unicode"

	"github.com/vytor/lexiflash/internal/media"
	"github.com/vytor/lexiflash/internal/models"
)

// Kind names an exercise format. The values match LearningWord.LearningType.
type Kind string

const (
	KindArrangeLetters     Kind = "arrange-letters"
	KindFillInBlank        Kind = "fill-in-blank"
	KindTrueFalse          Kind = "true-false"
	KindImageMatch         Kind = "image-match"
	KindSyllableCount      Kind = "syllable-count"
	KindPronunciationMatch Kind = "pronunciation-match"
	KindTimedTranslation   Kind = "timed-translation"
)

// Kinds lists every built-in format in a stable order.
var Kinds = []Kind{
	KindArrangeLetters,
	KindFillInBlank,
	KindTrueFalse,
	KindImageMatch,
	KindSyllableCount,
	KindPronunciationMatch,
	KindTimedTranslation,
}

// Prompt is what the presentation layer renders. Fields not used by a
// format are left empty. The expected answer never leaves the process.
type Prompt struct {
	Kind        Kind     `json:"kind"`
	WordID      string   `json:"wordId"`
	Instruction string   `json:"instruction"`
	Letters     []string `json:"letters,omitempty"`
	Sentence    string   `json:"sentence,omitempty"`
	Statement   string   `json:"statement,omitempty"`
	Definition  string   `json:"definition,omitempty"`
	Phonetic    string   `json:"phonetic,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Choices     []string `json:"choices,omitempty"`
	TimeLimitMs int64    `json:"timeLimitMs,omitempty"`

	Expected      string        `json:"-"`
	ExpectedTruth bool          `json:"-"`
	TimeLimit     time.Duration `json:"-"`
}

// Answer is the user's response to a Prompt. Text carries typed input or
// the picked choice, Truth the true/false pick.
type Answer struct {
	Text    string
	Truth   *bool
	Elapsed time.Duration
}

// Source is everything a format may draw on to build a prompt.
type Source struct {
	Word   models.LearningWord
	Detail models.WordDetail
	// Distractors are other words of the session, used for choice formats.
	Distractors []string
	Rand        *rand.Rand
	Media       media.Resolver
}

// Spec is one exercise format.
type Spec interface {
	Kind() Kind
	// Applicable reports whether the format can be built from src.
	Applicable(src Source) bool
	Present(src Source) Prompt
	Evaluate(p Prompt, a Answer) bool
}

// Exercise is a prepared prompt bound to the format that grades it.
type Exercise struct {
	Word   models.LearningWord
	Prompt Prompt
	spec   Spec
}

// Evaluate grades an answer for this exercise.
func (e *Exercise) Evaluate(a Answer) bool {
	return e.spec.Evaluate(e.Prompt, a)
}

// normalize folds case and surrounding space for typed answers.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func sameWord(a, b string) bool {
	return normalize(a) != "" && normalize(a) == normalize(b)
}

func isLetters(s string) bool {
	n := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
		n++
	}
	return n > 0
}

// choices returns the answer plus up to three distinct distractors, shuffled.
func choices(rng *rand.Rand, answer string, distractors []string) []string {
	seen := map[string]bool{normalize(answer): true}
	out := []string{answer}
	for _, d := range distractors {
		key := normalize(d)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
		if len(out) == 4 {
			break
		}
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func distinctDistractors(src Source) int {
	n := 0
	seen := map[string]bool{normalize(src.Word.Word): true}
	for _, d := range src.Distractors {
		key := normalize(d)
		if key != "" && !seen[key] {
			seen[key] = true
			n++
		}
	}
	return n
}
