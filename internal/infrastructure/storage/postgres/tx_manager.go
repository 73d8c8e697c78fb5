package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/tx"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
)

var tracer = otel.Tracer("vehicle-tracking-system/postgres")

var _ tx.Manager = (*TxManager)(nil)

// errNoTx is returned by operations that only make sense inside RunInTransaction.
var errNoTx = errors.New("postgres: no transaction in context")

// TxManager runs units of work in read-committed transactions. Ledger rows
// that are read and then written are always locked with SELECT ... FOR UPDATE,
// so a stronger isolation level buys nothing.
type TxManager struct {
	pool             *pgxpool.Pool
	statementTimeout time.Duration
	lockTimeout      time.Duration
}

// NewTxManager creates a manager with a 30s statement timeout and no lock timeout.
func NewTxManager(pool *Pool) *TxManager {
	return &TxManager{pool: pool.Pool, statementTimeout: 30 * time.Second}
}

// WithStatementTimeout bounds every statement of a transaction. Zero disables it.
func (m *TxManager) WithStatementTimeout(d time.Duration) *TxManager {
	m.statementTimeout = d
	return m
}

// WithLockTimeout bounds how long a transaction waits for a row lock, e.g. two
// clerks receiving the same load. Zero waits for the statement timeout.
func (m *TxManager) WithLockTimeout(d time.Duration) *TxManager {
	m.lockTimeout = d
	return m
}

type txKey struct{}

// RunInTransaction runs fn in a transaction carried by the returned ctx.
// A ctx that already carries one joins it: nothing commits until the
// outermost fn returns, and any error rolls the whole unit back.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.GetTx(ctx) != nil {
		return fn(ctx)
	}

	ctx, span := tracer.Start(ctx, "postgres.transaction", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	err := m.run(ctx, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	t, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := m.setTimeouts(ctx, t); err != nil {
		_ = t.Rollback(context.WithoutCancel(ctx))
		return err
	}

	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		// The rollback must finish even when ctx is already cancelled.
		if rbErr := t.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			logger.Error(ctx, "rollback failed", "error", rbErr, "cause", err)
		}
		return err
	}

	if err := t.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (m *TxManager) setTimeouts(ctx context.Context, t pgx.Tx) error {
	for _, s := range []struct {
		name string
		d    time.Duration
	}{
		{"statement_timeout", m.statementTimeout},
		{"lock_timeout", m.lockTimeout},
	} {
		if s.d <= 0 {
			continue
		}
		// SET LOCAL does not take bind parameters; set_config with is_local does.
		if _, err := t.Exec(ctx, "SELECT set_config($1, $2, true)", s.name, fmt.Sprintf("%dms", s.d.Milliseconds())); err != nil {
			return fmt.Errorf("set %s: %w", s.name, err)
		}
	}
	return nil
}

// GetTx returns the transaction carried by ctx, or nil.
func (m *TxManager) GetTx(ctx context.Context) pgx.Tx {
	t, _ := ctx.Value(txKey{}).(pgx.Tx)
	return t
}

// Querier is implemented by both the pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetQuerier returns the transaction in ctx, or the pool outside one.
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if t := m.GetTx(ctx); t != nil {
		return t
	}
	return m.pool
}

// CopyRows bulk-loads rows into table with the COPY protocol. It needs the
// transaction in ctx so the rows commit together with the rest of the unit.
func (m *TxManager) CopyRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	t := m.GetTx(ctx)
	if t == nil {
		return 0, errNoTx
	}
	if len(rows) == 0 {
		return 0, nil
	}

	_, span := tracer.Start(ctx, "postgres.copy", trace.WithAttributes(
		attribute.String("db.table", table),
		attribute.Int("db.rows", len(rows)),
	))
	defer span.End()

	n, err := t.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		span.RecordError(err)
		return n, fmt.Errorf("copy into %s: %w", table, err)
	}
	return n, nil
}
