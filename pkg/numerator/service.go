// Package numerator allocates document numbers from the sys_sequences table.
package numerator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	corenum "github.com/akashkatakam/vehicle-tracking-system/internal/core/numerator"
)

// Querier runs the allocation statement; a pgx.Tx or pool satisfies it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const nextSQL = `
INSERT INTO sys_sequences (key, current_val) VALUES ($1, 1)
ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
RETURNING current_val`

// Service implements corenum.Generator. The UPSERT row-locks the sequence
// key, so concurrent transfers from one branch get consecutive numbers and
// the second waits for the first to commit.
type Service struct {
	querier func(ctx context.Context) Querier
}

var _ corenum.Generator = (*Service)(nil)

// New always allocates through q.
func New(q Querier) *Service {
	return &Service{querier: func(context.Context) Querier { return q }}
}

// NewWithResolver picks the querier per call, normally the transaction in ctx.
func NewWithResolver(resolve func(ctx context.Context) Querier) *Service {
	return &Service{querier: resolve}
}

func (s *Service) GetNextNumber(ctx context.Context, cfg corenum.Config, period time.Time) (string, error) {
	if s == nil || s.querier == nil {
		return "", errors.New("numerator: service not configured")
	}
	if cfg.Prefix == "" {
		return "", errors.New("numerator: empty prefix")
	}

	key := cfg.Key(period)
	var n int64
	if err := s.querier(ctx).QueryRow(ctx, nextSQL, key).Scan(&n); err != nil {
		return "", fmt.Errorf("allocate %s: %w", key, err)
	}
	return cfg.Format(period, n), nil
}
