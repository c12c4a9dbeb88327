package db

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"bizops-backend/internal/shared/telemetry"
)

func withMockDB(t *testing.T, pingErr error) sqlmock.Sqlmock {
	t.Helper()
	t.Cleanup(telemetry.SetOutput(io.Discard))
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	ping := mock.ExpectPing()
	if pingErr != nil {
		ping.WillReturnError(pingErr)
		mock.ExpectClose()
	}
	prev := openDB
	openDB = func(string) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() {
		openDB = prev
		db.Close()
	})
	return mock
}

func TestConnectAppliesPoolOptions(t *testing.T) {
	mock := withMockDB(t, nil)

	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	opts := OptionsFromEnv(DefaultServerOptions())

	db, err := Connect(context.Background(), "postgres://ignored", opts)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if got := db.Stats().MaxOpenConnections; got != 7 {
		t.Fatalf("expected MaxOpenConnections=7, got %d", got)
	}
	if opts.ConnMaxIdleTime != 45*time.Second {
		t.Fatalf("expected ConnMaxIdleTime=45s, got %s", opts.ConnMaxIdleTime)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestConnectClosesOnPingFailure(t *testing.T) {
	pingErr := errors.New("connection refused")
	mock := withMockDB(t, pingErr)

	_, err := Connect(context.Background(), "postgres://ignored", DefaultMigrateOptions())
	if !errors.Is(err, pingErr) {
		t.Fatalf("expected wrapped ping error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestConnectRejectsEmptyURL(t *testing.T) {
	if _, err := Connect(context.Background(), "  ", DefaultServerOptions()); err == nil {
		t.Fatalf("expected error for empty DATABASE_URL")
	}
}

func TestOpenDBRejectsMalformedURL(t *testing.T) {
	if _, err := openDB("postgres://user@host:notaport/db"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOptionsFromEnvSkipsInvalidValues(t *testing.T) {
	t.Cleanup(telemetry.SetOutput(io.Discard))
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	t.Setenv("DB_PING_TIMEOUT", "soon")
	t.Setenv("DB_MAX_IDLE_CONNS", "2")

	got := OptionsFromEnv(DefaultMigrateOptions())
	want := DefaultMigrateOptions()
	want.MaxIdleConns = 2
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestMigrateNilDatabaseIsNoop(t *testing.T) {
	if err := Migrate(context.Background(), nil, "up"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestMigrateRejectsUnknownCommand(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	if err := Migrate(context.Background(), db, "sideways"); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}
