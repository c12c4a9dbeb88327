package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var insightColumns = []string{"id", "kind", "subject", "outcome", "result", "created_at"}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	insight := Insight{
		ID:        "insight-1",
		Kind:      "financial_data",
		Outcome:   "ok",
		Result:    map[string]any{"prediction": "Growth"},
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO ai_insights").
		WithArgs(
			insight.ID,
			insight.Kind,
			nil, // subject
			insight.Outcome,
			[]byte(`{"prediction":"Growth"}`),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), insight); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, kind, subject, outcome, result, created_at FROM ai_insights").
		WithArgs("insight-1").
		WillReturnRows(sqlmock.NewRows(insightColumns).
			AddRow("insight-1", "market_trends", "retail", "degraded", []byte(`{"emerging_trends":[]}`), created))

	got, err := repo.GetByID(context.Background(), "insight-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Subject != "retail" || got.Outcome != "degraded" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected insight: %+v", got)
	}
	if _, ok := got.Result["emerging_trends"]; !ok {
		t.Fatalf("expected result to be decoded, got %v", got.Result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, kind").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(insightColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoList(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT id, kind, subject, outcome, result, created_at FROM ai_insights").
		WithArgs("cost", 10, 5).
		WillReturnRows(sqlmock.NewRows(insightColumns).
			AddRow("b", "cost", nil, "ok", []byte(`{"hourly_rate":25}`), now).
			AddRow("a", "cost", nil, "ok", nil, now.Add(-time.Minute)))

	got, err := repo.List(context.Background(), "cost", 10, 5)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("unexpected list: %+v", got)
	}
	if got[1].Result == nil {
		t.Fatalf("expected empty result map for NULL column")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
