// Package memstore is an in-memory implementation of every repository and of
// tx.Manager, for domain and handler tests.
//
// Transactions are serialized and roll back by restoring a snapshot of the
// whole store, so a failing unit of work leaves no trace.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/tx"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/branch"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/documents/sales"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/feed"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/registers/movement"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/vehicle"
)

type txKey struct{}

type data struct {
	branches  map[string]branch.Branch
	edges     []branch.Edge
	vehicles  map[string]vehicle.Vehicle
	movements []movement.Transaction
	sales     map[int64]sales.SalesRecord
	mappings  []mapping.ProductMapping
	colors    map[string]mapping.ColorCode
	sequences map[string]int64
	archive   []feed.ArchiveEntry

	nextVehicleID  int64
	nextMovementID int64
	nextSaleID     int64
	nextMappingID  int64
}

func newData() data {
	return data{
		branches:  make(map[string]branch.Branch),
		vehicles:  make(map[string]vehicle.Vehicle),
		sales:     make(map[int64]sales.SalesRecord),
		colors:    make(map[string]mapping.ColorCode),
		sequences: make(map[string]int64),
	}
}

func (d data) clone() data {
	c := d
	c.branches = make(map[string]branch.Branch, len(d.branches))
	for k, v := range d.branches {
		c.branches[k] = v
	}
	c.edges = append([]branch.Edge(nil), d.edges...)
	c.vehicles = make(map[string]vehicle.Vehicle, len(d.vehicles))
	for k, v := range d.vehicles {
		c.vehicles[k] = v
	}
	c.movements = append([]movement.Transaction(nil), d.movements...)
	c.sales = make(map[int64]sales.SalesRecord, len(d.sales))
	for k, v := range d.sales {
		c.sales[k] = v
	}
	c.mappings = append([]mapping.ProductMapping(nil), d.mappings...)
	c.colors = make(map[string]mapping.ColorCode, len(d.colors))
	for k, v := range d.colors {
		c.colors[k] = v
	}
	c.sequences = make(map[string]int64, len(d.sequences))
	for k, v := range d.sequences {
		c.sequences[k] = v
	}
	c.archive = append([]feed.ArchiveEntry(nil), d.archive...)
	return c
}

// Store holds all tables.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	d    data

	failAppend error
	now        func() time.Time
}

var _ tx.Manager = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{d: newData(), now: time.Now}
}

// RunInTransaction implements tx.Manager. Nested calls join the outer transaction.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.d.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// FailNextAppend makes the next movement Append return err.
func (s *Store) FailNextAppend(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAppend = err
}

// Branches returns the branch repository.
func (s *Store) Branches() *Branches { return &Branches{s: s} }

// Mappings returns the mapping repository.
func (s *Store) Mappings() *Mappings { return &Mappings{s: s} }

// Vehicles returns the vehicle repository.
func (s *Store) Vehicles() *Vehicles { return &Vehicles{s: s} }

// Movements returns the transaction log.
func (s *Store) Movements() *Movements { return &Movements{s: s} }

// Sales returns the sales repository.
func (s *Store) Sales() *Sales { return &Sales{s: s} }

// Sequences returns a numerator querier over sys_sequences.
func (s *Store) Sequences() *Sequences { return &Sequences{s: s} }

// Archive returns the feed archive.
func (s *Store) Archive() *Archive { return &Archive{s: s} }

func (s *Store) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}
