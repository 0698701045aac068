package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MirandaEdu/Tally/internal/engine"
)

// ErrNotFound marks a write against a comparison that does not exist.
// Reads report absence as a nil comparison instead.
var ErrNotFound = errors.New("comparison not found")

// Comparison is a named, persisted set of subject rows together with the
// display settings used to chart them.
type Comparison struct {
	ID        uuid.UUID            `json:"id"`
	Name      string               `json:"name"`
	Owner     string               `json:"owner,omitempty"`
	Variation float64              `json:"variation"`
	RangeMode bool                 `json:"range_mode"`
	Rows      []*engine.SubjectRow `json:"rows"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Stats summarises stored comparisons for reporting.
type Stats struct {
	Comparisons int `json:"comparisons"`
	Rows        int `json:"rows"`
}

// Store persists comparisons.
type Store interface {
	CreateComparison(ctx context.Context, c *Comparison) error
	GetComparison(ctx context.Context, id uuid.UUID) (*Comparison, error)
	ListComparisons(ctx context.Context, limit, offset int) ([]*Comparison, error)
	UpdateComparison(ctx context.Context, c *Comparison) error
	DeleteComparison(ctx context.Context, id uuid.UUID) error
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}
