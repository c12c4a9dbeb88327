package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Status is the health payload served at /health.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	Provider string `json:"provider"`
}

// Service reports liveness plus the state of the insight store.
type Service struct {
	DB       *sql.DB
	Provider string
}

// NewService constructs a health service. db may be nil when insights are kept in memory.
func NewService(db *sql.DB, provider string) *Service {
	return &Service{DB: db, Provider: provider}
}

// Status pings the database, if any. A failed ping marks the database down
// but leaves OK set; analyses keep working without the store.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{OK: true, Database: "memory", Provider: s.Provider}
	if s.DB == nil {
		return st
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		st.Database = "down"
		return st
	}
	st.Database = "up"
	return st
}
