package applications

import "context"

// Repo persists applications. There is no update or delete.
type Repo interface {
	Create(ctx context.Context, app Application) error
	ListByUser(ctx context.Context, userID string) ([]Application, error)
	Ping(ctx context.Context) error
}
