package insights

import "context"

// Repo defines persistence operations for insights.
type Repo interface {
	Create(ctx context.Context, insight Insight) error
	GetByID(ctx context.Context, id string) (Insight, error)
	// List returns insights newest first. An empty kind matches every kind.
	List(ctx context.Context, kind string, limit, offset int) ([]Insight, error)
}
