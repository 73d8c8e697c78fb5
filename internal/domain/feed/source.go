package feed

import "context"

// Document is a raw feed file as fetched from its source.
type Document struct {
	Name string
	Body []byte
}

// Source fetches the latest feed document. Implementations live in
// internal/infrastructure/feedsource.
type Source interface {
	Fetch(ctx context.Context) (Document, error)
}
