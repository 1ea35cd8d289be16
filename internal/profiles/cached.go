package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"credit-backend/internal/shared/cache"
	"credit-backend/internal/shared/telemetry"
)

// CachedGenerator memoizes another generator per subject.
type CachedGenerator struct {
	Base  Generator
	Cache cache.Cache
	TTL   time.Duration
}

// Generate serves from cache when possible. Cache failures are logged and
// fall through to the base generator.
func (g CachedGenerator) Generate(ctx context.Context, subject Subject) (BorrowerProfile, error) {
	key := "profile:" + subject.Key()
	if g.Cache != nil {
		raw, err := g.Cache.Get(ctx, key)
		switch {
		case err == nil:
			var p BorrowerProfile
			if err := json.Unmarshal(raw, &p); err == nil {
				return p, nil
			}
		case !errors.Is(err, cache.ErrMiss):
			telemetry.Warn("profiles.cache_get", map[string]any{"error": err.Error()})
		}
	}

	p, err := g.Base.Generate(ctx, subject)
	if err != nil {
		return BorrowerProfile{}, err
	}
	if g.Cache != nil {
		if raw, err := json.Marshal(p); err == nil {
			if err := g.Cache.Set(ctx, key, raw, g.TTL); err != nil {
				telemetry.Warn("profiles.cache_set", map[string]any{"error": err.Error()})
			}
		}
	}
	return p, nil
}

var _ Generator = CachedGenerator{}
