package mapping

import (
	"context"
)

// Repository defines the interface for mapping persistence.
type Repository interface {
	ListMappings(ctx context.Context) ([]ProductMapping, error)
	MappingExists(ctx context.Context, modelCode, variantCode string) (bool, error)
	CreateMapping(ctx context.Context, m *ProductMapping) error

	ListColors(ctx context.Context) ([]ColorCode, error)
	UpsertColor(ctx context.Context, c ColorCode) error
}

// Cache holds the resolved lists between requests.
// A miss is reported as ok=false with a nil error.
type Cache interface {
	GetMappings(ctx context.Context) (ms []ProductMapping, ok bool, err error)
	SetMappings(ctx context.Context, ms []ProductMapping) error
	GetColors(ctx context.Context) (cs []ColorCode, ok bool, err error)
	SetColors(ctx context.Context, cs []ColorCode) error
	Invalidate(ctx context.Context) error
}
