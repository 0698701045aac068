package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MirandaEdu/Tally/internal/engine"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const comparisonColumns = `comparison_id, name, owner, variation, range_mode, rows, created_at, updated_at`

func (s *PostgresStore) CreateComparison(ctx context.Context, c *Comparison) error {
	rowsJSON, err := json.Marshal(c.Rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO tally_comparisons (name, owner, variation, range_mode, rows)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING comparison_id, created_at, updated_at`,
		c.Name, c.Owner, c.Variation, c.RangeMode, rowsJSON,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (s *PostgresStore) GetComparison(ctx context.Context, id uuid.UUID) (*Comparison, error) {
	c := &Comparison{}
	var rowsJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT `+comparisonColumns+`
		FROM tally_comparisons WHERE comparison_id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Owner, &c.Variation, &c.RangeMode, &rowsJSON, &c.CreatedAt, &c.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rowsJSON != nil {
		if err := json.Unmarshal(rowsJSON, &c.Rows); err != nil {
			return nil, fmt.Errorf("decode rows: %w", err)
		}
	}
	c.Rows = rowsOrEmpty(c.Rows)
	return c, nil
}

func (s *PostgresStore) ListComparisons(ctx context.Context, limit, offset int) ([]*Comparison, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+comparisonColumns+`
		FROM tally_comparisons
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Comparison
	for rows.Next() {
		c := &Comparison{}
		var rowsJSON []byte
		if err := rows.Scan(&c.ID, &c.Name, &c.Owner, &c.Variation, &c.RangeMode, &rowsJSON, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if rowsJSON != nil {
			if err := json.Unmarshal(rowsJSON, &c.Rows); err != nil {
				return nil, fmt.Errorf("decode rows: %w", err)
			}
		}
		c.Rows = rowsOrEmpty(c.Rows)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateComparison(ctx context.Context, c *Comparison) error {
	rowsJSON, err := json.Marshal(c.Rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE tally_comparisons
		SET name = $2, owner = $3, variation = $4, range_mode = $5, rows = $6, updated_at = now()
		WHERE comparison_id = $1`,
		c.ID, c.Name, c.Owner, c.Variation, c.RangeMode, rowsJSON)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("comparison %s: %w", c.ID, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) DeleteComparison(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tally_comparisons WHERE comparison_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("comparison %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.pool.QueryRow(ctx, `
		SELECT count(*),
		       coalesce(sum(jsonb_array_length(rows)), 0)
		FROM tally_comparisons`,
	).Scan(&stats.Comparisons, &stats.Rows)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// rowsOrEmpty keeps list/get payloads free of JSON nulls.
func rowsOrEmpty(rows []*engine.SubjectRow) []*engine.SubjectRow {
	if rows == nil {
		return []*engine.SubjectRow{}
	}
	return rows
}
