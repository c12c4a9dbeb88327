package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStatusWithoutDatabase(t *testing.T) {
	got := NewService(nil, "disabled").Status(context.Background())
	if !got.OK || got.Database != "memory" || got.Provider != "disabled" {
		t.Fatalf("unexpected status: %+v", got)
	}
}

func TestStatusPingsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	svc := NewService(db, "openai")
	if got := svc.Status(context.Background()); got.Database != "up" {
		t.Fatalf("expected database up, got %+v", got)
	}
	got := svc.Status(context.Background())
	if got.Database != "down" || !got.OK {
		t.Fatalf("expected database down but ok, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
