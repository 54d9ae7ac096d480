// Package question fetches candidate multiple-choice questions for exam
// previews. Sources are tried in registration order; any source failure is
// absorbed by the deterministic fallback generator, so a preview never
// fails because a provider is down.
package question

import (
	"context"
	"log/slog"
	"math/rand"
	"slices"

	"github.com/pkandie/examhall/internal/model"
)

// Source tags reported alongside preview results.
const (
	SourceOpenTDB  = "opentdb"
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

// OptionsPerQuestion is the fixed option count every question carries.
const OptionsPerQuestion = 4

// Count bounds applied before any source is queried.
const (
	MinCount = 1
	MaxCount = 50
)

// Source produces candidate questions for a subject.
type Source interface {
	Fetch(ctx context.Context, subject string, count int, difficulty string) ([]model.Question, error)
}

type namedSource struct {
	tag string
	src Source
}

// Service tries registered sources in order and falls back to local synthesis.
type Service struct {
	sources []namedSource
}

func NewService() *Service {
	return &Service{}
}

// Register adds a source. Sources are consulted in registration order.
func (s *Service) Register(tag string, src Source) {
	s.sources = append(s.sources, namedSource{tag: tag, src: src})
}

// Preview returns exactly count questions (after clamping) and the tag of the
// source that produced them. A source response with the wrong question count
// is treated the same as a source error.
func (s *Service) Preview(ctx context.Context, subject string, count int, difficulty string) ([]model.Question, string) {
	count = ClampCount(count)
	for _, ns := range s.sources {
		qs, err := ns.src.Fetch(ctx, subject, count, difficulty)
		if err != nil {
			slog.Warn("question source failed", "source", ns.tag, "subject", subject, "error", err)
			continue
		}
		if len(qs) != count {
			slog.Warn("question source returned wrong count", "source", ns.tag, "want", count, "got", len(qs))
			continue
		}
		return qs, ns.tag
	}
	return Generate(subject, count, difficulty), SourceFallback
}

// ClampCount bounds a requested question count to [MinCount, MaxCount].
func ClampCount(count int) int {
	if count < MinCount {
		return MinCount
	}
	if count > MaxCount {
		return MaxCount
	}
	return count
}

// Normalize enforces the option invariant on a question: exactly
// OptionsPerQuestion options, containing the correct answer when one is set.
// Short option lists are padded with empty strings, long ones truncated
// without dropping the correct answer.
func Normalize(q model.Question) model.Question {
	opts := slices.Clone(q.Options)
	if q.Answer != "" && !slices.Contains(opts, q.Answer) {
		opts = append(opts, q.Answer)
	}
	for len(opts) < OptionsPerQuestion {
		opts = append(opts, "")
	}
	if len(opts) > OptionsPerQuestion {
		if q.Answer != "" {
			if idx := slices.Index(opts, q.Answer); idx >= OptionsPerQuestion {
				opts[OptionsPerQuestion-1] = q.Answer
			}
		}
		opts = opts[:OptionsPerQuestion]
	}
	q.Options = opts
	return q
}

// ShuffleOptions randomizes a question's option order. The shuffle is
// cosmetic only: the correct answer is identified by value, so option order
// carries no security weight.
func ShuffleOptions(q model.Question) model.Question {
	opts := slices.Clone(q.Options)
	rand.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})
	q.Options = opts
	return q
}
