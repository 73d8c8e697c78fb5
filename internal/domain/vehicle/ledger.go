package vehicle

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/core/clock"
	"github.com/akashkatakam/vehicle-tracking-system/internal/core/numerator"
	"github.com/akashkatakam/vehicle-tracking-system/internal/core/tx"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/registers/movement"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
)

// Ledger performs every write on the vehicle ledger. Each operation runs in
// one transaction and appends its transaction-log rows in that same
// transaction.
type Ledger struct {
	vehicles  Repository
	movements movement.Repository
	branches  BranchDirectory
	txm       tx.Manager
	numbers   numerator.Generator
	clock     clock.Clock
}

// NewLedger creates a ledger service.
func NewLedger(
	vehicles Repository,
	movements movement.Repository,
	branches BranchDirectory,
	txm tx.Manager,
	numbers numerator.Generator,
	clk clock.Clock,
) *Ledger {
	return &Ledger{
		vehicles:  vehicles,
		movements: movements,
		branches:  branches,
		txm:       txm,
		numbers:   numbers,
		clock:     clk,
	}
}

// CreateInbound inserts every vehicle of the batch with the given initial
// status. Any chassis already in the ledger fails the whole batch before a
// single row is written. Vehicles entering In Stock get one OEM inward row each.
func (l *Ledger) CreateInbound(ctx context.Context, batch *InboundBatch, initial Status) error {
	if initial != StatusInTransit && initial != StatusInStock {
		return apperror.NewValidation(fmt.Sprintf("initial status must be %q or %q", StatusInTransit, StatusInStock))
	}
	if batch == nil || batch.Len() == 0 {
		return apperror.NewValidation("inbound batch is empty")
	}
	if batch.BranchID == "" {
		return apperror.NewValidation("branch is required")
	}
	if err := l.requireBranch(ctx, batch.BranchID); err != nil {
		return err
	}

	received := batch.Received
	if received.IsZero() {
		received = clock.Today(l.clock)
	} else {
		received = clock.DateOf(received, l.clock.Location())
	}

	err := l.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := l.vehicles.ExistingChassis(ctx, batch.Chassis())
		if err != nil {
			return fmt.Errorf("check existing chassis: %w", err)
		}
		if len(existing) > 0 {
			sort.Strings(existing)
			return apperror.NewDuplicateChassis(existing)
		}

		items := batch.Items()
		vs := make([]*Vehicle, 0, len(items))
		for _, it := range items {
			v := &Vehicle{
				ChassisNo:       it.ChassisNo,
				EngineNo:        optional(it.EngineNo),
				LoadReference:   optional(batch.loadReferenceFor(it)),
				Model:           it.Model,
				Variant:         it.Variant,
				Color:           it.Color,
				Status:          initial,
				DateReceived:    received,
				CurrentBranchID: batch.BranchID,
			}
			vs = append(vs, v)
		}
		if err := l.vehicles.Insert(ctx, vs); err != nil {
			return err
		}

		if initial != StatusInStock {
			return nil
		}

		now := l.clock.Now()
		rows := make([]*movement.Transaction, 0, len(vs))
		for _, v := range vs {
			rows = append(rows, movement.NewInwardOEM(
				v.CurrentBranchID, received, batch.Source, deref(v.LoadReference), batch.Remarks, v.Snapshot(),
			))
		}
		movement.Stamp(now, rows...)
		return l.movements.Append(ctx, rows...)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "inbound batch created",
		"branch_id", batch.BranchID,
		"load_reference", batch.LoadReference,
		"status", initial,
		"count", batch.Len(),
	)
	return nil
}

// ReceiveLoad moves every In Transit vehicle of a load at a branch into stock,
// dated today. It returns the number of vehicles received.
func (l *Ledger) ReceiveLoad(ctx context.Context, branchID, loadRef string) (int, error) {
	branchID = strings.TrimSpace(branchID)
	loadRef = strings.TrimSpace(loadRef)
	if branchID == "" || loadRef == "" {
		return 0, apperror.NewValidation("branch and load reference are required")
	}

	var count int
	err := l.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		vs, err := l.vehicles.LockLoad(ctx, branchID, loadRef, StatusInTransit)
		if err != nil {
			return fmt.Errorf("lock load: %w", err)
		}
		if len(vs) == 0 {
			return apperror.NewNotFound("load_reference", loadRef).WithDetail("branch_id", branchID)
		}

		today := clock.Today(l.clock)
		rows := make([]*movement.Transaction, 0, len(vs))
		for _, v := range vs {
			if err := v.TransitionTo(StatusInStock, nil); err != nil {
				return err
			}
			v.DateReceived = today
			if err := l.vehicles.Update(ctx, v); err != nil {
				return err
			}
			rows = append(rows, movement.NewInwardOEM(
				branchID, today, movement.SourceTransitReceived, loadRef, "Received Load "+loadRef, v.Snapshot(),
			))
		}
		movement.Stamp(l.clock.Now(), rows...)
		if err := l.movements.Append(ctx, rows...); err != nil {
			return err
		}
		count = len(vs)
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info(ctx, "load received", "branch_id", branchID, "load_reference", loadRef, "count", count)
	return count, nil
}

// TransferRequest moves In Stock vehicles between two branches.
type TransferRequest struct {
	FromBranchID string
	ToBranchID   string
	Date         time.Time
	Remarks      string
	// DCNumber is the delivery challan. One is issued for the source branch when empty.
	DCNumber string
	Chassis  []string
}

// Transfer relocates every listed vehicle or none. Each vehicle gets an
// OUTWARD row at the source and an INWARD row at the destination. It returns
// the DC number stamped on the vehicles.
func (l *Ledger) Transfer(ctx context.Context, req TransferRequest) (string, error) {
	from := strings.TrimSpace(req.FromBranchID)
	to := strings.TrimSpace(req.ToBranchID)
	if from == "" || to == "" {
		return "", apperror.NewValidation("source and destination branches are required")
	}
	if from == to {
		return "", apperror.NewValidation("source and destination branches must differ")
	}
	if len(req.Chassis) == 0 {
		return "", apperror.NewValidation("no vehicles selected for transfer")
	}

	chassis := make([]string, 0, len(req.Chassis))
	seen := make(map[string]struct{}, len(req.Chassis))
	for _, c := range req.Chassis {
		c = NormalizeChassis(c)
		if c == "" {
			return "", apperror.NewValidation("empty chassis number in transfer list")
		}
		if _, dup := seen[c]; dup {
			return "", apperror.NewValidation(fmt.Sprintf("chassis %s is listed more than once", c)).
				WithDetail("chassis_no", c)
		}
		seen[c] = struct{}{}
		chassis = append(chassis, c)
	}
	// Lock rows in a fixed order so overlapping transfers cannot deadlock.
	sort.Strings(chassis)

	for _, id := range []string{from, to} {
		if err := l.requireBranch(ctx, id); err != nil {
			return "", err
		}
	}

	date := req.Date
	if date.IsZero() {
		date = clock.Today(l.clock)
	} else {
		date = clock.DateOf(date, l.clock.Location())
	}

	dc := strings.TrimSpace(req.DCNumber)
	err := l.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if dc == "" {
			n, err := l.numbers.GetNextNumber(ctx, numerator.DCConfig(from), date)
			if err != nil {
				return fmt.Errorf("issue dc number: %w", err)
			}
			dc = n
		}

		rows := make([]*movement.Transaction, 0, 2*len(chassis))
		for _, c := range chassis {
			v, err := l.vehicles.GetForUpdate(ctx, c)
			if err != nil {
				if apperror.IsNotFound(err) {
					return apperror.NewChassisNotFound(c)
				}
				return err
			}
			if v.Status != StatusInStock || v.CurrentBranchID != from {
				return apperror.NewValidation(fmt.Sprintf(
					"Vehicle %s is %s at %s and cannot be transferred from %s",
					c, v.Status, v.CurrentBranchID, from,
				)).WithDetail("chassis_no", c).
					WithDetail("status", string(v.Status)).
					WithDetail("current_branch_id", v.CurrentBranchID)
			}

			if err := v.TransitionTo(StatusInStock, nil); err != nil {
				return err
			}
			v.CurrentBranchID = to
			v.DCNumber = &dc
			if err := l.vehicles.Update(ctx, v); err != nil {
				return err
			}

			pair := movement.NewTransferPair(from, to, date, req.Remarks, v.Snapshot())
			rows = append(rows, pair[0], pair[1])
		}
		movement.Stamp(l.clock.Now(), rows...)
		return l.movements.Append(ctx, rows...)
	})
	if err != nil {
		return "", err
	}

	logger.Info(ctx, "transfer completed",
		"from", from,
		"to", to,
		"dc_number", dc,
		"count", len(chassis),
	)
	return dc, nil
}

// Get returns one vehicle by chassis number.
func (l *Ledger) Get(ctx context.Context, chassisNo string) (*Vehicle, error) {
	v, err := l.vehicles.Get(ctx, NormalizeChassis(chassisNo))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewChassisNotFound(NormalizeChassis(chassisNo))
		}
		return nil, err
	}
	return v, nil
}

// PendingLoads lists the load references still In Transit at a branch.
func (l *Ledger) PendingLoads(ctx context.Context, branchID string) ([]string, error) {
	return l.vehicles.PendingLoads(ctx, strings.TrimSpace(branchID))
}

// VehiclesInLoad lists the vehicles of one load at a branch.
func (l *Ledger) VehiclesInLoad(ctx context.Context, branchID, loadRef string) ([]Vehicle, error) {
	return l.vehicles.ListByLoad(ctx, strings.TrimSpace(branchID), strings.TrimSpace(loadRef))
}

// Search finds In Stock vehicles by chassis fragment or by model/variant/colour.
func (l *Ledger) Search(ctx context.Context, f SearchFilter) ([]Vehicle, error) {
	f.Chassis = NormalizeChassis(f.Chassis)
	f.Model = strings.TrimSpace(f.Model)
	f.Variant = strings.TrimSpace(f.Variant)
	f.Color = strings.TrimSpace(f.Color)
	if f.Limit <= 0 || f.Limit > DefaultSearchLimit {
		f.Limit = DefaultSearchLimit
	}
	return l.vehicles.Search(ctx, f)
}

// LoadExists reports whether any vehicle carries the load reference.
func (l *Ledger) LoadExists(ctx context.Context, loadRef string) (bool, error) {
	return l.vehicles.LoadExists(ctx, strings.TrimSpace(loadRef))
}

func (l *Ledger) requireBranch(ctx context.Context, id string) error {
	ok, err := l.branches.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check branch %s: %w", id, err)
	}
	if !ok {
		return apperror.NewNotFound("branch", id)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
