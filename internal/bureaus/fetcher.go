package bureaus

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"credit-backend/internal/llm"
	"credit-backend/internal/profiles"
	"credit-backend/internal/scoring"
	"credit-backend/internal/shared/metrics"
	"credit-backend/internal/shared/telemetry"
)

// Fetcher pulls scores from a Source for every bureau with retries, and
// reports failed bureaus as offline instead of failing the lookup.
type Fetcher struct {
	Source      Source
	Registry    *Registry
	Bureaus     []scoring.Bureau
	MaxRetries  int
	BaseBackoff time.Duration
	Now         func() time.Time
	// Sleep waits between attempts; tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewFetcher builds a fetcher over all bureaus with default retry settings.
func NewFetcher(src Source, registry *Registry) *Fetcher {
	return &Fetcher{
		Source:      src,
		Registry:    registry,
		Bureaus:     scoring.AllBureaus,
		MaxRetries:  2,
		BaseBackoff: 100 * time.Millisecond,
	}
}

// Expected is the number of bureaus a complete lookup reports.
func (f *Fetcher) Expected() int { return len(f.bureaus()) }

// FetchAll returns one entry per bureau. Failed bureaus carry StatusOffline.
// ErrBureauUnavailable is returned only when no bureau is online.
func (f *Fetcher) FetchAll(ctx context.Context, subject profiles.Subject, rangeFor func(scoring.Bureau) scoring.Range) ([]scoring.BureauScore, error) {
	if f.Source == nil {
		return nil, fmt.Errorf("bureau source not configured")
	}
	ranges := make(map[scoring.Bureau]scoring.Range, len(f.bureaus()))
	for _, b := range f.bureaus() {
		ranges[b] = scoring.DefaultRange
		if rangeFor != nil {
			ranges[b] = rangeFor(b)
		}
	}
	var batch map[scoring.Bureau]fetchResult
	if src, ok := f.Source.(BatchSource); ok {
		batch = f.fetchBatch(ctx, subject, src, ranges)
	}

	out := make([]scoring.BureauScore, 0, len(f.bureaus()))
	online := 0
	for _, b := range f.bureaus() {
		valid := ranges[b]
		var (
			score int
			err   error
		)
		if batch != nil {
			score, err = batch[b].score, batch[b].err
		} else {
			score, err = f.fetchWithRetry(ctx, subject, b, valid)
		}
		if err == nil && !valid.Contains(score) {
			err = fmt.Errorf("%w: %s score %d not in %s", scoring.ErrScoreOutOfRange, b, score, valid)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		f.Registry.Record(b, err, f.now())

		entry := scoring.BureauScore{Bureau: b, ValidRange: valid, Source: f.Source.Name()}
		if err != nil {
			metrics.IncBureauFetch(string(b), "error")
			telemetry.Warn("bureau.offline", map[string]any{
				"bureau":  string(b),
				"source":  f.Source.Name(),
				"subject": subject.String(),
				"error":   err.Error(),
			})
			entry.Status = scoring.StatusOffline
			entry.Error = err.Error()
		} else {
			metrics.IncBureauFetch(string(b), "ok")
			entry.Status = scoring.StatusOnline
			entry.RawScore = score
			online++
		}
		out = append(out, entry)
	}
	if online == 0 {
		return out, ErrBureauUnavailable
	}
	return out, nil
}

type fetchResult struct {
	score int
	err   error
}

// fetchBatch makes one retried batch call and splits the answer per bureau.
func (f *Fetcher) fetchBatch(ctx context.Context, subject profiles.Subject, src BatchSource, ranges map[scoring.Bureau]scoring.Range) map[scoring.Bureau]fetchResult {
	scores, err := withRetry(ctx, f, func() (map[scoring.Bureau]int, error) {
		return src.FetchBatch(ctx, subject, ranges)
	})
	out := make(map[scoring.Bureau]fetchResult, len(ranges))
	for b := range ranges {
		switch score, ok := scores[b]; {
		case err != nil:
			out[b] = fetchResult{err: err}
		case !ok:
			out[b] = fetchResult{err: fmt.Errorf("%w: no %s score in response", llm.ErrMalformedResponse, b)}
		default:
			out[b] = fetchResult{score: score}
		}
	}
	return out
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, subject profiles.Subject, b scoring.Bureau, valid scoring.Range) (int, error) {
	return withRetry(ctx, f, func() (int, error) {
		return f.Source.Fetch(ctx, subject, b, valid)
	})
}

// withRetry retries call with exponential backoff plus jitter.
func withRetry[T any](ctx context.Context, f *Fetcher, call func() (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 0; attempt <= f.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := f.BaseBackoff * time.Duration(1<<uint(attempt-1))
			if backoff > 0 {
				backoff += time.Duration(rand.Int63n(int64(backoff)/2 + 1))
			}
			if err := f.sleep(ctx, backoff); err != nil {
				return zero, err
			}
		}
		v, err := call()
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	return zero, lastErr
}

func retryable(err error) bool {
	return !errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) &&
		!errors.Is(err, scoring.ErrDegenerateRange) &&
		!errors.Is(err, llm.ErrNotConfigured)
}

func (f *Fetcher) bureaus() []scoring.Bureau {
	if len(f.Bureaus) == 0 {
		return scoring.AllBureaus
	}
	return f.Bureaus
}

func (f *Fetcher) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now().UTC()
}

func (f *Fetcher) sleep(ctx context.Context, d time.Duration) error {
	if f.Sleep != nil {
		return f.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
