package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/documents/sales"
)

// Sales implements sales.Repository.
type Sales struct{ s *Store }

var _ sales.Repository = (*Sales)(nil)

func (r *Sales) Create(_ context.Context, rec *sales.SalesRecord) error {
	defer r.s.lock()()
	for _, old := range r.s.d.sales {
		if old.BranchID == rec.BranchID && old.DCNumber == rec.DCNumber {
			return apperror.NewDuplicate("sales record", "dc_number", rec.DCNumber)
		}
	}
	r.s.d.nextSaleID++
	rec.ID = r.s.d.nextSaleID
	r.s.d.sales[rec.ID] = *rec
	return nil
}

func (r *Sales) Update(_ context.Context, rec *sales.SalesRecord) error {
	defer r.s.lock()()
	if _, ok := r.s.d.sales[rec.ID]; !ok {
		return apperror.NewNotFound("sales_record", rec.ID)
	}
	r.s.d.sales[rec.ID] = *rec
	return nil
}

func (r *Sales) Get(_ context.Context, id int64) (*sales.SalesRecord, error) {
	defer r.s.lock()()
	rec, ok := r.s.d.sales[id]
	if !ok {
		return nil, apperror.NewNotFound("sales_record", id)
	}
	return &rec, nil
}

// GetForUpdate is Get; transactions are already serialized.
func (r *Sales) GetForUpdate(ctx context.Context, id int64) (*sales.SalesRecord, error) {
	return r.Get(ctx, id)
}

func (r *Sales) ExistsDC(_ context.Context, branchID, dcNumber string) (bool, error) {
	defer r.s.lock()()
	for _, rec := range r.s.d.sales {
		if rec.BranchID == branchID && rec.DCNumber == dcNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *Sales) ByStatuses(_ context.Context, statuses []sales.FulfillmentStatus, branchID string) ([]sales.SalesRecord, error) {
	defer r.s.lock()()
	return r.filter(func(rec sales.SalesRecord) bool {
		return (branchID == "" || rec.BranchID == branchID) && hasStatus(statuses, rec.FulfillmentStatus)
	}), nil
}

func (r *Sales) ForMechanic(_ context.Context, mechanic string, statuses []sales.FulfillmentStatus, branchID string) ([]sales.SalesRecord, error) {
	defer r.s.lock()()
	return r.filter(func(rec sales.SalesRecord) bool {
		return rec.PDIAssignedTo != nil && *rec.PDIAssignedTo == mechanic &&
			(branchID == "" || rec.BranchID == branchID) && hasStatus(statuses, rec.FulfillmentStatus)
	}), nil
}

func (r *Sales) CompletedSince(_ context.Context, since time.Time, branchID string) ([]sales.SalesRecord, error) {
	defer r.s.lock()()
	return r.filter(func(rec sales.SalesRecord) bool {
		return rec.PDICompletionDate != nil && !rec.PDICompletionDate.Before(since) &&
			(branchID == "" || rec.BranchID == branchID)
	}), nil
}

func (r *Sales) filter(keep func(sales.SalesRecord) bool) []sales.SalesRecord {
	var out []sales.SalesRecord
	for _, rec := range r.s.d.sales {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func hasStatus(statuses []sales.FulfillmentStatus, s sales.FulfillmentStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, x := range statuses {
		if x == s {
			return true
		}
	}
	return false
}
