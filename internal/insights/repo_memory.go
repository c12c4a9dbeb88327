package insights

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores insights in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Insight
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Insight)}
}

// Create stores the insight.
func (r *MemoryRepo) Create(ctx context.Context, insight Insight) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[insight.ID] = insight
	return nil
}

// GetByID returns an insight by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Insight, error) {
	if err := ctx.Err(); err != nil {
		return Insight{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	insight, ok := r.byID[id]
	if !ok {
		return Insight{}, ErrNotFound
	}
	return insight, nil
}

// List returns insights ordered by CreatedAt descending.
func (r *MemoryRepo) List(ctx context.Context, kind string, limit, offset int) ([]Insight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	items := make([]Insight, 0, len(r.byID))
	for _, insight := range r.byID {
		if kind == "" || insight.Kind == kind {
			items = append(items, insight)
		}
	}
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if offset >= len(items) {
		return []Insight{}, nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end], nil
}
