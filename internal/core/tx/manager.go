// Package tx provides transaction management abstractions.
// Domain services depend on Manager; the pgx implementation lives in
// infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager runs a unit of work atomically.
//
// If fn returns an error the transaction is rolled back and the error is returned
// unchanged. Nested calls reuse the transaction already carried by ctx, so a
// service method can be composed into a caller's transaction.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
