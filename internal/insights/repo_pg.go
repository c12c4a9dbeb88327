package insights

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new insight.
func (r *PGRepo) Create(ctx context.Context, insight Insight) error {
	const query = `
INSERT INTO ai_insights (id, kind, subject, outcome, result, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	payload, err := marshalJSONB(insight.Result)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		insight.ID,
		insight.Kind,
		nullString(insight.Subject),
		insight.Outcome,
		payload,
		insight.CreatedAt,
	)
	return err
}

// GetByID returns an insight by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Insight, error) {
	const query = `
SELECT id, kind, subject, outcome, result, created_at
FROM ai_insights
WHERE id = $1
LIMIT 1`
	insight, err := scanInsight(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Insight{}, ErrNotFound
	}
	return insight, err
}

// List returns insights newest first, optionally filtered by kind.
func (r *PGRepo) List(ctx context.Context, kind string, limit, offset int) ([]Insight, error) {
	const query = `
SELECT id, kind, subject, outcome, result, created_at
FROM ai_insights
WHERE ($1 = '' OR kind = $1)
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, kind, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Insight{}
	for rows.Next() {
		insight, err := scanInsight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, insight)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInsight(row rowScanner) (Insight, error) {
	var insight Insight
	var subject sql.NullString
	var result []byte
	if err := row.Scan(&insight.ID, &insight.Kind, &subject, &insight.Outcome, &result, &insight.CreatedAt); err != nil {
		return Insight{}, err
	}
	insight.Subject = subject.String
	if len(result) > 0 {
		if err := json.Unmarshal(result, &insight.Result); err != nil {
			return Insight{}, fmt.Errorf("decode insight %s result: %w", insight.ID, err)
		}
	}
	if insight.Result == nil {
		insight.Result = map[string]any{}
	}
	return insight, nil
}

func marshalJSONB(v map[string]any) ([]byte, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
