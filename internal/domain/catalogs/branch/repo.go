package branch

import (
	"context"
)

// Repository defines the interface for Branch persistence.
type Repository interface {
	List(ctx context.Context) ([]Branch, error)
	Get(ctx context.Context, id string) (*Branch, error)
	Exists(ctx context.Context, id string) (bool, error)
	Upsert(ctx context.Context, b Branch) error

	Edges(ctx context.Context) ([]Edge, error)
	AddEdge(ctx context.Context, e Edge) error
}
