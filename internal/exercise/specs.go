package exercise

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const blank = "_____"

// DefaultTimeLimit bounds a timed-translation answer.
const DefaultTimeLimit = 20 * time.Second

// Builtin returns one instance of every built-in format.
func Builtin() []Spec {
	return []Spec{
		ArrangeLetters{},
		FillInBlank{},
		TrueFalse{},
		ImageMatch{},
		SyllableCount{},
		PronunciationMatch{},
		TimedTranslation{Limit: DefaultTimeLimit},
	}
}

// ArrangeLetters shows the word's letters shuffled; the user types the word.
type ArrangeLetters struct{}

func (ArrangeLetters) Kind() Kind { return KindArrangeLetters }

// Applicable needs two distinct letters, otherwise every shuffle spells
// the answer.
func (ArrangeLetters) Applicable(src Source) bool {
	distinct := map[rune]bool{}
	for _, r := range strings.ToLower(strings.TrimSpace(src.Word.Word)) {
		distinct[r] = true
	}
	return len(distinct) >= 2
}

func (ArrangeLetters) Present(src Source) Prompt {
	word := strings.TrimSpace(src.Word.Word)
	letters := strings.Split(word, "")
	// Retry a few times so the puzzle is not already solved.
	for attempt := 0; attempt < 5; attempt++ {
		src.Rand.Shuffle(len(letters), func(i, j int) { letters[i], letters[j] = letters[j], letters[i] })
		if strings.Join(letters, "") != word {
			break
		}
	}
	return Prompt{
		Kind:        KindArrangeLetters,
		WordID:      src.Word.ID,
		Instruction: "Arrange the letters to form the word.",
		Letters:     letters,
		Definition:  first(src.Detail.Definitions()),
		Expected:    word,
	}
}

func (ArrangeLetters) Evaluate(p Prompt, a Answer) bool {
	return sameWord(a.Text, p.Expected)
}

// FillInBlank blanks the word out of an example sentence.
type FillInBlank struct{}

func (FillInBlank) Kind() Kind { return KindFillInBlank }

func (FillInBlank) Applicable(src Source) bool {
	_, ok := blankedExample(src)
	return ok
}

func (FillInBlank) Present(src Source) Prompt {
	sentence, _ := blankedExample(src)
	return Prompt{
		Kind:        KindFillInBlank,
		WordID:      src.Word.ID,
		Instruction: "Fill in the missing word.",
		Sentence:    sentence,
		Expected:    strings.TrimSpace(src.Word.Word),
	}
}

func (FillInBlank) Evaluate(p Prompt, a Answer) bool {
	return sameWord(a.Text, p.Expected)
}

func blankedExample(src Source) (string, bool) {
	word := strings.TrimSpace(src.Word.Word)
	if word == "" {
		return "", false
	}
	// \b only knows ASCII word characters, so the boundaries are spelled out.
	re, err := regexp.Compile(`(?i)(^|[^\pL\pN_])` + regexp.QuoteMeta(word) + `([^\pL\pN_]|$)`)
	if err != nil {
		return "", false
	}
	for _, ex := range src.Detail.AllExamples() {
		if !re.MatchString(ex) {
			continue
		}
		// Adjacent occurrences share a boundary character, which one pass of
		// ReplaceAllString consumes.
		out := ex
		for i := 0; i < 8 && re.MatchString(out); i++ {
			out = re.ReplaceAllString(out, "${1}"+blank+"${2}")
		}
		return out, true
	}
	return "", false
}

// TrueFalse pairs a definition with either the word or a distractor and asks
// whether the pairing is right.
type TrueFalse struct{}

func (TrueFalse) Kind() Kind { return KindTrueFalse }

func (TrueFalse) Applicable(src Source) bool {
	return len(src.Detail.Definitions()) > 0
}

func (TrueFalse) Present(src Source) Prompt {
	definition := first(src.Detail.Definitions())
	shown := src.Word.Word
	truth := true
	if distinctDistractors(src) > 0 && src.Rand.IntN(2) == 0 {
		for _, d := range src.Distractors {
			if normalize(d) != "" && !sameWord(d, src.Word.Word) {
				shown = d
				truth = false
				break
			}
		}
	}
	return Prompt{
		Kind:          KindTrueFalse,
		WordID:        src.Word.ID,
		Instruction:   "Is this definition correct?",
		Statement:     fmt.Sprintf("%q means: %s", shown, definition),
		Definition:    definition,
		ExpectedTruth: truth,
	}
}

func (TrueFalse) Evaluate(p Prompt, a Answer) bool {
	return a.Truth != nil && *a.Truth == p.ExpectedTruth
}

// ImageMatch shows the word's picture; the user picks the matching word.
type ImageMatch struct{}

func (ImageMatch) Kind() Kind { return KindImageMatch }

func (ImageMatch) Applicable(src Source) bool {
	return strings.TrimSpace(src.Detail.Thumbnail) != "" && distinctDistractors(src) > 0
}

func (ImageMatch) Present(src Source) Prompt {
	return Prompt{
		Kind:        KindImageMatch,
		WordID:      src.Word.ID,
		Instruction: "Which word matches the picture?",
		ImageURL:    src.Media.URL(src.Detail.Thumbnail),
		Choices:     choices(src.Rand, src.Word.Word, src.Distractors),
		Expected:    src.Word.Word,
	}
}

func (ImageMatch) Evaluate(p Prompt, a Answer) bool {
	return sameWord(a.Text, p.Expected)
}

// SyllableCount asks how many syllables the word has.
type SyllableCount struct{}

func (SyllableCount) Kind() Kind { return KindSyllableCount }

func (SyllableCount) Applicable(src Source) bool {
	for _, part := range strings.Fields(src.Word.Word) {
		if !isLetters(part) {
			return false
		}
	}
	return strings.TrimSpace(src.Word.Word) != ""
}

func (SyllableCount) Present(src Source) Prompt {
	n := CountSyllables(src.Word.Word)
	return Prompt{
		Kind:        KindSyllableCount,
		WordID:      src.Word.ID,
		Instruction: fmt.Sprintf("How many syllables are in %q?", src.Word.Word),
		Phonetic:    src.Detail.PrimaryPhonetic(),
		Expected:    strconv.Itoa(n),
	}
}

func (SyllableCount) Evaluate(p Prompt, a Answer) bool {
	got, err := strconv.Atoi(strings.TrimSpace(a.Text))
	if err != nil {
		return false
	}
	want, _ := strconv.Atoi(p.Expected)
	return got == want
}

// PronunciationMatch shows a transcription; the user picks the word.
type PronunciationMatch struct{}

func (PronunciationMatch) Kind() Kind { return KindPronunciationMatch }

func (PronunciationMatch) Applicable(src Source) bool {
	return src.Detail.PrimaryPhonetic() != "" && distinctDistractors(src) > 0
}

func (PronunciationMatch) Present(src Source) Prompt {
	return Prompt{
		Kind:        KindPronunciationMatch,
		WordID:      src.Word.ID,
		Instruction: "Which word is pronounced like this?",
		Phonetic:    src.Detail.PrimaryPhonetic(),
		Choices:     choices(src.Rand, src.Word.Word, src.Distractors),
		Expected:    src.Word.Word,
	}
}

func (PronunciationMatch) Evaluate(p Prompt, a Answer) bool {
	return sameWord(a.Text, p.Expected)
}

// TimedTranslation shows a definition; the user types the word before the
// limit runs out.
type TimedTranslation struct {
	Limit time.Duration
}

func (TimedTranslation) Kind() Kind { return KindTimedTranslation }

func (TimedTranslation) Applicable(src Source) bool {
	return len(src.Detail.Definitions()) > 0
}

func (t TimedTranslation) Present(src Source) Prompt {
	limit := t.Limit
	if limit <= 0 {
		limit = DefaultTimeLimit
	}
	return Prompt{
		Kind:        KindTimedTranslation,
		WordID:      src.Word.ID,
		Instruction: fmt.Sprintf("Type the word for this meaning within %d seconds.", int(limit/time.Second)),
		Definition:  first(src.Detail.Definitions()),
		TimeLimitMs: limit.Milliseconds(),
		TimeLimit:   limit,
		Expected:    strings.TrimSpace(src.Word.Word),
	}
}

func (TimedTranslation) Evaluate(p Prompt, a Answer) bool {
	if p.TimeLimit > 0 && a.Elapsed > p.TimeLimit {
		return false
	}
	return sameWord(a.Text, p.Expected)
}

func first(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[0]
}
