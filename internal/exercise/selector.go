package exercise

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vytor/lexiflash/internal/logger"
	"github.com/vytor/lexiflash/internal/media"
	"github.com/vytor/lexiflash/internal/models"
)

// ErrSkipped is returned by Prepare when no exercise can be shown for a
// word. The caller moves on to the next word without recording an answer.
var ErrSkipped = errors.New("exercise skipped")

// DetailFetcher loads the dictionary entry for a word.
type DetailFetcher interface {
	WordDetail(ctx context.Context, word string) (*models.WordDetail, error)
}

// Selector picks a format for each quiz word and builds its prompt.
type Selector struct {
	fetcher DetailFetcher
	media   media.Resolver
	specs   map[Kind]Spec
	order   []Kind

	mu  sync.Mutex
	rng *rand.Rand
}

type SelectorOption func(*Selector)

// WithRand fixes the random source, mostly for tests.
func WithRand(r *rand.Rand) SelectorOption {
	return func(s *Selector) {
		s.rng = r
	}
}

// WithMedia sets the CDN resolver used for thumbnails.
func WithMedia(m media.Resolver) SelectorOption {
	return func(s *Selector) {
		s.media = m
	}
}

// WithSpecs replaces the registered formats.
func WithSpecs(specs ...Spec) SelectorOption {
	return func(s *Selector) {
		s.specs = make(map[Kind]Spec, len(specs))
		s.order = s.order[:0]
		for _, spec := range specs {
			if _, dup := s.specs[spec.Kind()]; !dup {
				s.order = append(s.order, spec.Kind())
			}
			s.specs[spec.Kind()] = spec
		}
	}
}

func NewSelector(fetcher DetailFetcher, opts ...SelectorOption) *Selector {
	seed := uint64(time.Now().UnixNano())
	s := &Selector{
		fetcher: fetcher,
		rng:     rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
	WithSpecs(Builtin()...)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prepare fetches the word's detail and builds an exercise for it. The
// word's LearningType wins when it names a registered format that fits;
// otherwise a format is drawn at random from the ones that fit. pool is the
// session word list, used for distractors.
func (s *Selector) Prepare(ctx context.Context, word models.LearningWord, pool []models.LearningWord) (*Exercise, error) {
	log := logger.FromContext(ctx).WithPrefix("exercise").WithField("word_id", word.ID)

	detail, err := s.fetcher.WordDetail(ctx, word.Word)
	if err != nil {
		log.Warn("failed to load detail for %q, skipping: %v", word.Word, err)
		return nil, fmt.Errorf("%w: detail for %q: %v", ErrSkipped, word.Word, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	src := Source{
		Word:        word,
		Detail:      *detail,
		Distractors: distractorsFrom(s.rng, word, pool),
		Rand:        s.rng,
		Media:       s.media,
	}

	spec := s.pick(src)
	if spec == nil {
		log.Warn("no exercise format fits %q, skipping", word.Word)
		return nil, fmt.Errorf("%w: no format fits %q", ErrSkipped, word.Word)
	}

	log.Debug("prepared %s exercise", spec.Kind())
	return &Exercise{Word: word, Prompt: spec.Present(src), spec: spec}, nil
}

func (s *Selector) pick(src Source) Spec {
	if spec, ok := s.specs[Kind(src.Word.LearningType)]; ok && spec.Applicable(src) {
		return spec
	}
	var candidates []Spec
	for _, k := range s.order {
		if spec := s.specs[k]; spec.Applicable(src) {
			candidates = append(candidates, spec)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[s.rng.IntN(len(candidates))]
}

func distractorsFrom(rng *rand.Rand, word models.LearningWord, pool []models.LearningWord) []string {
	out := make([]string, 0, len(pool))
	for _, w := range pool {
		if w.ID != word.ID && !sameWord(w.Word, word.Word) {
			out = append(out, w.Word)
		}
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
