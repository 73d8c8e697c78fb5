package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/core/id"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/registers/movement"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/vehicle"
)

// Vehicles implements vehicle.Repository.
type Vehicles struct{ s *Store }

var _ vehicle.Repository = (*Vehicles)(nil)

func (r *Vehicles) ExistingChassis(_ context.Context, chassis []string) ([]string, error) {
	defer r.s.lock()()
	var out []string
	for _, c := range chassis {
		if _, ok := r.s.d.vehicles[c]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *Vehicles) Insert(_ context.Context, vs []*vehicle.Vehicle) error {
	defer r.s.lock()()
	var dups []string
	for _, v := range vs {
		if _, ok := r.s.d.vehicles[v.ChassisNo]; ok {
			dups = append(dups, v.ChassisNo)
		}
	}
	if len(dups) > 0 {
		return apperror.NewDuplicateChassis(dups)
	}
	now := r.s.now()
	for _, v := range vs {
		r.s.d.nextVehicleID++
		v.ID = r.s.d.nextVehicleID
		v.CreatedAt, v.UpdatedAt = now, now
		r.s.d.vehicles[v.ChassisNo] = *v
	}
	return nil
}

func (r *Vehicles) Update(_ context.Context, v *vehicle.Vehicle) error {
	defer r.s.lock()()
	if _, ok := r.s.d.vehicles[v.ChassisNo]; !ok {
		return apperror.NewNotFound("vehicle", v.ChassisNo)
	}
	v.UpdatedAt = r.s.now()
	r.s.d.vehicles[v.ChassisNo] = *v
	return nil
}

func (r *Vehicles) Get(_ context.Context, chassisNo string) (*vehicle.Vehicle, error) {
	defer r.s.lock()()
	v, ok := r.s.d.vehicles[chassisNo]
	if !ok {
		return nil, apperror.NewNotFound("vehicle", chassisNo)
	}
	return &v, nil
}

// GetForUpdate is Get; transactions are already serialized.
func (r *Vehicles) GetForUpdate(ctx context.Context, chassisNo string) (*vehicle.Vehicle, error) {
	return r.Get(ctx, chassisNo)
}

func (r *Vehicles) LockLoad(_ context.Context, branchID, loadRef string, status vehicle.Status) ([]*vehicle.Vehicle, error) {
	defer r.s.lock()()
	var out []*vehicle.Vehicle
	for _, v := range r.sorted() {
		if v.CurrentBranchID == branchID && v.Status == status && v.LoadReference != nil && *v.LoadReference == loadRef {
			v := v
			out = append(out, &v)
		}
	}
	return out, nil
}

func (r *Vehicles) PendingLoads(_ context.Context, branchID string) ([]string, error) {
	defer r.s.lock()()
	seen := make(map[string]struct{})
	var out []string
	for _, v := range r.s.d.vehicles {
		if v.CurrentBranchID != branchID || v.Status != vehicle.StatusInTransit || v.LoadReference == nil {
			continue
		}
		if _, ok := seen[*v.LoadReference]; ok {
			continue
		}
		seen[*v.LoadReference] = struct{}{}
		out = append(out, *v.LoadReference)
	}
	sort.Strings(out)
	return out, nil
}

func (r *Vehicles) ListByLoad(_ context.Context, branchID, loadRef string) ([]vehicle.Vehicle, error) {
	defer r.s.lock()()
	var out []vehicle.Vehicle
	for _, v := range r.sorted() {
		if v.CurrentBranchID == branchID && v.LoadReference != nil && *v.LoadReference == loadRef {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *Vehicles) Search(_ context.Context, f vehicle.SearchFilter) ([]vehicle.Vehicle, error) {
	defer r.s.lock()()
	var out []vehicle.Vehicle
	for _, v := range r.sorted() {
		if v.Status != vehicle.StatusInStock {
			continue
		}
		if f.BranchID != "" && v.CurrentBranchID != f.BranchID {
			continue
		}
		if f.Chassis != "" && !strings.Contains(v.ChassisNo, f.Chassis) {
			continue
		}
		if f.Model != "" && !strings.EqualFold(v.Model, f.Model) {
			continue
		}
		if f.Variant != "" && !strings.EqualFold(v.Variant, f.Variant) {
			continue
		}
		if f.Color != "" && !strings.EqualFold(v.Color, f.Color) {
			continue
		}
		out = append(out, v)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (r *Vehicles) LoadExists(_ context.Context, loadRef string) (bool, error) {
	defer r.s.lock()()
	for _, v := range r.s.d.vehicles {
		if v.LoadReference != nil && *v.LoadReference == loadRef {
			return true, nil
		}
	}
	return false, nil
}

// All returns every vehicle ordered by chassis number.
func (r *Vehicles) All() []vehicle.Vehicle {
	defer r.s.lock()()
	return r.sorted()
}

func (r *Vehicles) sorted() []vehicle.Vehicle {
	out := make([]vehicle.Vehicle, 0, len(r.s.d.vehicles))
	for _, v := range r.s.d.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChassisNo < out[j].ChassisNo })
	return out
}

// Movements implements movement.Repository.
type Movements struct{ s *Store }

var _ movement.Repository = (*Movements)(nil)

func (r *Movements) Append(_ context.Context, txs ...*movement.Transaction) error {
	defer r.s.lock()()
	if err := r.s.failAppend; err != nil {
		r.s.failAppend = nil
		return err
	}
	for _, t := range txs {
		r.s.d.nextMovementID++
		t.ID = r.s.d.nextMovementID
		r.s.d.movements = append(r.s.d.movements, *t)
	}
	return nil
}

func (r *Movements) FirstSince(_ context.Context, q movement.MovementQuery) (*movement.Transaction, bool, error) {
	defer r.s.lock()()
	var best *movement.Transaction
	for i := range r.s.d.movements {
		t := r.s.d.movements[i]
		if t.CurrentBranchID != q.BranchID || t.Model != q.Model || t.Variant != q.Variant {
			continue
		}
		if t.Date.Before(q.Since) || !hasType(q.Types, t.Type) {
			continue
		}
		if best == nil || t.Date.Before(best.Date) || (t.Date.Equal(best.Date) && t.ID < best.ID) {
			best = &t
		}
	}
	if best == nil {
		return nil, false, nil
	}
	return best, true, nil
}

func (r *Movements) ByEvent(_ context.Context, eventID id.ID) ([]movement.Transaction, error) {
	defer r.s.lock()()
	var out []movement.Transaction
	for _, t := range r.s.d.movements {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	return out, nil
}

// All returns every row in append order.
func (r *Movements) All() []movement.Transaction {
	defer r.s.lock()()
	return append([]movement.Transaction(nil), r.s.d.movements...)
}

// OfType returns the rows of one type in append order.
func (r *Movements) OfType(t movement.Type) []movement.Transaction {
	defer r.s.lock()()
	var out []movement.Transaction
	for _, m := range r.s.d.movements {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func hasType(types []movement.Type, t movement.Type) bool {
	if len(types) == 0 {
		return true
	}
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}
