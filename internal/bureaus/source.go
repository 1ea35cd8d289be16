package bureaus

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"sync"

	"github.com/brianvoe/gofakeit/v7"

	"credit-backend/internal/profiles"
	"credit-backend/internal/scoring"
)

// ErrBureauUnavailable is returned when no bureau produced a score.
var ErrBureauUnavailable = errors.New("all bureaus unavailable")

// Source produces one raw bureau score within valid.
type Source interface {
	Name() string
	Fetch(ctx context.Context, subject profiles.Subject, bureau scoring.Bureau, valid scoring.Range) (int, error)
}

// BatchSource answers for several bureaus in one call. The Fetcher prefers
// it over per-bureau Fetch. A bureau missing from the result counts as a
// failed fetch for that bureau only.
type BatchSource interface {
	Source
	FetchBatch(ctx context.Context, subject profiles.Subject, ranges map[scoring.Bureau]scoring.Range) (map[scoring.Bureau]int, error)
}

// HashSource derives a deterministic score from sha256(bureau|subject).
type HashSource struct{}

func (HashSource) Name() string { return "hash" }

func (HashSource) Fetch(ctx context.Context, subject profiles.Subject, bureau scoring.Bureau, valid scoring.Range) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !valid.Valid() {
		return 0, scoring.ErrDegenerateRange
	}
	h := sha256.Sum256([]byte(string(bureau) + "|" + subject.Key()))
	return valid.Min + int(binary.BigEndian.Uint32(h[:4])%uint32(valid.Span()+1)), nil
}

// RandomSource draws uniform scores; every lookup differs.
type RandomSource struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// NewRandomSource seeds a source; seed 0 picks a random seed.
func NewRandomSource(seed uint64) *RandomSource {
	return &RandomSource{faker: gofakeit.New(seed)}
}

func (s *RandomSource) Name() string { return "random" }

func (s *RandomSource) Fetch(ctx context.Context, subject profiles.Subject, bureau scoring.Bureau, valid scoring.Range) (int, error) {
	_ = subject
	_ = bureau
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !valid.Valid() {
		return 0, scoring.ErrDegenerateRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Number(valid.Min, valid.Max), nil
}

var (
	_ Source = HashSource{}
	_ Source = (*RandomSource)(nil)
)
