package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/branch"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
)

// Branches implements branch.Repository and vehicle.BranchDirectory.
type Branches struct{ s *Store }

var _ branch.Repository = (*Branches)(nil)

func (r *Branches) List(_ context.Context) ([]branch.Branch, error) {
	defer r.s.lock()()
	out := make([]branch.Branch, 0, len(r.s.d.branches))
	for _, b := range r.s.d.branches {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Branches) Get(_ context.Context, id string) (*branch.Branch, error) {
	defer r.s.lock()()
	b, ok := r.s.d.branches[id]
	if !ok {
		return nil, apperror.NewNotFound("branch", id)
	}
	return &b, nil
}

func (r *Branches) Exists(_ context.Context, id string) (bool, error) {
	defer r.s.lock()()
	_, ok := r.s.d.branches[id]
	return ok, nil
}

func (r *Branches) Upsert(_ context.Context, b branch.Branch) error {
	defer r.s.lock()()
	if old, ok := r.s.d.branches[b.ID]; ok && b.DCLastNumber == 0 {
		b.DCLastNumber = old.DCLastNumber
	}
	r.s.d.branches[b.ID] = b
	return nil
}

func (r *Branches) Edges(_ context.Context) ([]branch.Edge, error) {
	defer r.s.lock()()
	return append([]branch.Edge(nil), r.s.d.edges...), nil
}

func (r *Branches) AddEdge(_ context.Context, e branch.Edge) error {
	defer r.s.lock()()
	for _, old := range r.s.d.edges {
		if old.SubBranchID == e.SubBranchID {
			return apperror.NewDuplicate("branch hierarchy", "sub_branch_id", e.SubBranchID)
		}
	}
	r.s.d.edges = append(r.s.d.edges, e)
	return nil
}

// Mappings implements mapping.Repository.
type Mappings struct{ s *Store }

var _ mapping.Repository = (*Mappings)(nil)

func (r *Mappings) ListMappings(_ context.Context) ([]mapping.ProductMapping, error) {
	defer r.s.lock()()
	return append([]mapping.ProductMapping(nil), r.s.d.mappings...), nil
}

func (r *Mappings) MappingExists(_ context.Context, modelCode, variantCode string) (bool, error) {
	defer r.s.lock()()
	for _, m := range r.s.d.mappings {
		if m.ModelCode == modelCode && m.VariantCode == variantCode {
			return true, nil
		}
	}
	return false, nil
}

func (r *Mappings) CreateMapping(_ context.Context, m *mapping.ProductMapping) error {
	defer r.s.lock()()
	for _, old := range r.s.d.mappings {
		if old.ModelCode == m.ModelCode && old.VariantCode == m.VariantCode {
			return apperror.NewDuplicate("product mapping", "code pair", m.ModelCode+"/"+m.VariantCode)
		}
	}
	r.s.d.nextMappingID++
	m.ID = r.s.d.nextMappingID
	r.s.d.mappings = append(r.s.d.mappings, *m)
	return nil
}

func (r *Mappings) ListColors(_ context.Context) ([]mapping.ColorCode, error) {
	defer r.s.lock()()
	out := make([]mapping.ColorCode, 0, len(r.s.d.colors))
	for _, c := range r.s.d.colors {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *Mappings) UpsertColor(_ context.Context, c mapping.ColorCode) error {
	defer r.s.lock()()
	r.s.d.colors[strings.ToUpper(c.Code)] = c
	return nil
}
