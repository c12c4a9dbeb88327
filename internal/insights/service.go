package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service stores and reads analysis insights.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

// Record stores result as a new insight. result must encode to a JSON object.
func (s *Service) Record(ctx context.Context, kind, subject, outcome string, result any) error {
	doc, err := toDocument(result)
	if err != nil {
		return fmt.Errorf("record %s insight: %w", kind, err)
	}
	insight := Insight{
		ID:        uuid.NewString(),
		Kind:      kind,
		Subject:   subject,
		Outcome:   outcome,
		Result:    doc,
		CreatedAt: s.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, insight); err != nil {
		return fmt.Errorf("record %s insight: %w", kind, err)
	}
	return nil
}

// Get returns one insight.
func (s *Service) Get(ctx context.Context, id string) (Insight, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns insights newest first. limit is clamped to (0, 100].
func (s *Service) List(ctx context.Context, kind string, limit, offset int) ([]Insight, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(ctx, kind, limit, offset)
}

func toDocument(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("result is not a JSON object")
	}
	return doc, nil
}
