package applications

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	apps []Application
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps = append(r.apps, app)
	return nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Application, 0)
	for _, app := range r.apps {
		if app.UserID == userID {
			out = append(out, app)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

var _ Repo = (*MemoryRepo)(nil)
