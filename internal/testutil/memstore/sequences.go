package memstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/feed"
)

// Sequences emulates the sys_sequences UPSERT used by pkg/numerator.
// The only argument is the sequence key.
type Sequences struct{ s *Store }

type row struct {
	val int64
	err error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != 1 {
		return fmt.Errorf("memstore: expected one scan target, got %d", len(dest))
	}
	p, ok := dest[0].(*int64)
	if !ok {
		return fmt.Errorf("memstore: unsupported scan target %T", dest[0])
	}
	*p = r.val
	return nil
}

func (q *Sequences) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	defer q.s.lock()()
	if len(args) == 0 {
		return row{err: fmt.Errorf("memstore: missing sequence key")}
	}
	key, ok := args[0].(string)
	if !ok {
		return row{err: fmt.Errorf("memstore: sequence key must be a string")}
	}
	q.s.d.sequences[key]++
	return row{val: q.s.d.sequences[key]}
}

// Archive implements feed.Archive.
type Archive struct{ s *Store }

var _ feed.Archive = (*Archive)(nil)

func (a *Archive) Save(_ context.Context, e feed.ArchiveEntry) error {
	defer a.s.lock()()
	a.s.d.archive = append(a.s.d.archive, e)
	return nil
}

// Entries returns the archived feeds.
func (a *Archive) Entries() []feed.ArchiveEntry {
	defer a.s.lock()()
	return append([]feed.ArchiveEntry(nil), a.s.d.archive...)
}
