package insights

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestServiceRecordAndList(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc.Now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	type result struct {
		Trend string `json:"recent_trend"`
	}
	for i := 0; i < 3; i++ {
		if err := svc.Record(context.Background(), "financial_data", "", "ok", result{Trend: fmt.Sprint(i)}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := svc.Record(context.Background(), "cost", "team-a", "ok", map[string]any{"hourly_rate": 25}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	all, err := svc.List(context.Background(), "", 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 4 || all[0].Kind != "cost" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	fin, err := svc.List(context.Background(), "financial_data", 2, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(fin) != 2 || fin[0].Result["recent_trend"] != "1" || fin[1].Result["recent_trend"] != "0" {
		t.Fatalf("unexpected page: %+v", fin)
	}

	got, err := svc.Get(context.Background(), all[0].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Subject != "team-a" {
		t.Fatalf("expected subject team-a, got %q", got.Subject)
	}
}

func TestServiceRecordRejectsNonObject(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if err := svc.Record(context.Background(), "cost", "", "ok", []string{"a"}); err == nil {
		t.Fatalf("expected error for non-object result")
	}
}

func TestMemoryRepoNotFoundAndCancelled(t *testing.T) {
	repo := NewMemoryRepo()
	if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := repo.Create(ctx, Insight{ID: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMemoryRepoOffsetPastEnd(t *testing.T) {
	repo := NewMemoryRepo()
	_ = repo.Create(context.Background(), Insight{ID: "a", Kind: "cost"})
	got, err := repo.List(context.Background(), "", 10, 5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty page, got %d", len(got))
	}
}
