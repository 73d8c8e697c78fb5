package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/core/clock"
	"github.com/akashkatakam/vehicle-tracking-system/internal/core/tx"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/registers/movement"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/vehicle"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
)

// VehicleStore is the part of the vehicle ledger the workflow writes to.
type VehicleStore interface {
	GetForUpdate(ctx context.Context, chassisNo string) (*vehicle.Vehicle, error)
	Update(ctx context.Context, v *vehicle.Vehicle) error
}

// DefaultCompletedWindow is how far back CompletedSince looks when no window is given.
const DefaultCompletedWindow = 48 * time.Hour

// Workflow drives a sale from PDI Pending to TR Done and keeps the linked
// vehicle in step. Every write locks the sale row before the vehicle row.
type Workflow struct {
	sales     Repository
	vehicles  VehicleStore
	movements movement.Repository
	branches  vehicle.BranchDirectory
	txm       tx.Manager
	clock     clock.Clock
}

// NewWorkflow creates a sales workflow service.
func NewWorkflow(
	sales Repository,
	vehicles VehicleStore,
	movements movement.Repository,
	branches vehicle.BranchDirectory,
	txm tx.Manager,
	clk clock.Clock,
) *Workflow {
	return &Workflow{
		sales:     sales,
		vehicles:  vehicles,
		movements: movements,
		branches:  branches,
		txm:       txm,
		clock:     clk,
	}
}

// Create opens a new sale in PDI Pending.
func (w *Workflow) Create(ctx context.Context, r *SalesRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	ok, err := w.branches.Exists(ctx, r.BranchID)
	if err != nil {
		return fmt.Errorf("check branch %s: %w", r.BranchID, err)
	}
	if !ok {
		return apperror.NewNotFound("branch", r.BranchID)
	}

	r.Timestamp = w.clock.Now()
	r.FulfillmentStatus = StatusPDIPending
	r.ChassisNo = nil
	r.EngineNo = nil
	r.PDIAssignedTo = nil
	r.PDICompletionDate = nil

	err = w.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := w.sales.ExistsDC(ctx, r.BranchID, r.DCNumber)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewDuplicate("sales record", "dc_number", r.DCNumber)
		}
		return w.sales.Create(ctx, r)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "sale created", "sale_id", r.ID, "branch_id", r.BranchID, "dc_number", r.DCNumber)
	return nil
}

// Get returns one sale.
func (w *Workflow) Get(ctx context.Context, id int64) (*SalesRecord, error) {
	return w.sales.Get(ctx, id)
}

// AssignMechanic puts a pending sale into PDI In Progress. Assigning the same
// mechanic again is a no-op.
func (w *Workflow) AssignMechanic(ctx context.Context, saleID int64, mechanic string) (*SalesRecord, error) {
	mechanic = strings.TrimSpace(mechanic)
	if mechanic == "" {
		return nil, apperror.NewValidation("mechanic name is required")
	}

	var out *SalesRecord
	err := w.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := w.sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}

		switch r.FulfillmentStatus {
		case StatusPDIPending:
		case StatusPDIInProgress:
			if r.PDIAssignedTo != nil && *r.PDIAssignedTo == mechanic {
				out = r
				return nil
			}
			return apperror.NewInvalidTransition("sale", r.FulfillmentStatus, StatusPDIInProgress).
				WithDetail("assigned_to", r.PDIAssignedTo)
		default:
			return apperror.NewInvalidTransition("sale", r.FulfillmentStatus, StatusPDIInProgress)
		}

		r.PDIAssignedTo = &mechanic
		r.FulfillmentStatus = StatusPDIInProgress
		if err := w.sales.Update(ctx, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "mechanic assigned", "sale_id", saleID, "mechanic", mechanic)
	return out, nil
}

// CompletePDI links a scanned In Stock vehicle to the sale and marks it
// Allotted. Repeating the call with the vehicle already linked to this sale
// succeeds without further side effects.
func (w *Workflow) CompletePDI(ctx context.Context, saleID int64, chassisNo, engineNo string) (PDIResult, error) {
	chassisNo = vehicle.NormalizeChassis(chassisNo)
	engineNo = strings.TrimSpace(engineNo)
	if chassisNo == "" {
		return PDIResult{}, apperror.NewValidation("chassis number is required")
	}

	var result PDIResult
	err := w.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := w.sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		v, err := w.vehicles.GetForUpdate(ctx, chassisNo)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewChassisNotFound(chassisNo)
			}
			return err
		}

		if v.Status != vehicle.StatusInStock {
			if v.SaleID != nil && *v.SaleID == r.ID {
				now := w.clock.Now()
				r.PDICompletionDate = &now
				r.FulfillmentStatus, _ = r.FulfillmentStatus.Advance(StatusPDIComplete)
				r.ChassisNo = &v.ChassisNo
				if err := w.sales.Update(ctx, r); err != nil {
					return err
				}
				result = PDIResult{
					Success:       true,
					AlreadyLinked: true,
					Message:       fmt.Sprintf("Vehicle %s is already linked to sale %d.", v.ChassisNo, r.ID),
				}
				return nil
			}
			return apperror.NewVehicleAlreadyLinked(v.ChassisNo, string(v.Status), v.SaleID)
		}

		if r.FulfillmentStatus.AtLeast(StatusPDIComplete) {
			return apperror.NewInvalidTransition("sale", r.FulfillmentStatus, StatusPDIComplete).
				WithDetail("chassis_no", r.ChassisNo)
		}
		if !matches(r, v) {
			return apperror.NewVehicleMismatch(
				map[string]string{"model": r.Model, "variant": r.Variant, "color": r.PaintColor},
				map[string]string{"model": v.Model, "variant": v.Variant, "color": v.Color},
			)
		}

		if err := v.TransitionTo(vehicle.StatusAllotted, &r.ID); err != nil {
			return err
		}
		if err := w.vehicles.Update(ctx, v); err != nil {
			return err
		}

		now := w.clock.Now()
		r.ChassisNo = &v.ChassisNo
		switch {
		case engineNo != "":
			r.EngineNo = &engineNo
		case v.EngineNo != nil:
			r.EngineNo = v.EngineNo
		}
		r.FulfillmentStatus = StatusPDIComplete
		r.PDICompletionDate = &now
		if err := w.sales.Update(ctx, r); err != nil {
			return err
		}

		if engineNo != "" && v.EngineNo != nil && !strings.EqualFold(engineNo, *v.EngineNo) {
			logger.Warn(ctx, "scanned engine differs from ledger",
				"chassis_no", v.ChassisNo, "scanned", engineNo, "ledger", *v.EngineNo)
		}

		result = PDIResult{
			Success: true,
			Message: fmt.Sprintf("PDI Complete. Vehicle %s linked to sale %d.", v.ChassisNo, r.ID),
		}
		return nil
	})
	if err != nil {
		return PDIResult{}, err
	}

	logger.Info(ctx, "pdi completed", "sale_id", saleID, "chassis_no", chassisNo, "already_linked", result.AlreadyLinked)
	return result, nil
}

// UpdateFlags changes post-PDI flags. The fulfillment status follows the
// flags forward only, and the first of insurance or TR marks the linked
// vehicle Sold with a Sale row in the transaction log.
func (w *Workflow) UpdateFlags(ctx context.Context, saleID int64, u FlagUpdate) (*SalesRecord, error) {
	if u.Empty() {
		return nil, apperror.NewValidation("no flags to update")
	}

	var out *SalesRecord
	err := w.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		r, err := w.sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if !r.FulfillmentStatus.AtLeast(StatusPDIComplete) {
			return apperror.NewInvalidTransition("sale", r.FulfillmentStatus, "flag update")
		}

		if err := u.apply(r); err != nil {
			return err
		}
		switch {
		case r.IsTRDone:
			r.FulfillmentStatus, _ = r.FulfillmentStatus.Advance(StatusTRDone)
		case r.IsInsuranceDone:
			r.FulfillmentStatus, _ = r.FulfillmentStatus.Advance(StatusInsuranceDone)
		}
		if err := w.sales.Update(ctx, r); err != nil {
			return err
		}

		if r.IsInsuranceDone || r.IsTRDone {
			if err := w.markSold(ctx, r); err != nil {
				return err
			}
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale flags updated", "sale_id", saleID, "status", out.FulfillmentStatus)
	return out, nil
}

func (w *Workflow) markSold(ctx context.Context, r *SalesRecord) error {
	if r.ChassisNo == nil {
		return apperror.NewInternal(fmt.Errorf("sale %d is past PDI without a linked vehicle", r.ID))
	}
	v, err := w.vehicles.GetForUpdate(ctx, *r.ChassisNo)
	if err != nil {
		return err
	}
	if v.Status == vehicle.StatusSold {
		return nil
	}
	if err := v.TransitionTo(vehicle.StatusSold, &r.ID); err != nil {
		return err
	}
	if err := w.vehicles.Update(ctx, v); err != nil {
		return err
	}

	t := movement.NewSale(v.CurrentBranchID, clock.Today(w.clock),
		fmt.Sprintf("Sale DC %s to %s.", r.DCNumber, r.CustomerName), v.Snapshot())
	movement.Stamp(w.clock.Now(), t)
	return w.movements.Append(ctx, t)
}

// ByStatus lists sales at a branch in the given statuses. An empty branch lists all branches.
func (w *Workflow) ByStatus(ctx context.Context, branchID string, statuses ...FulfillmentStatus) ([]SalesRecord, error) {
	for _, s := range statuses {
		if !s.Valid() {
			return nil, apperror.NewValidation(fmt.Sprintf("unknown fulfillment status %q", s))
		}
	}
	return w.sales.ByStatuses(ctx, statuses, strings.TrimSpace(branchID))
}

// ForMechanic lists the inspections currently assigned to a mechanic.
func (w *Workflow) ForMechanic(ctx context.Context, mechanic, branchID string) ([]SalesRecord, error) {
	mechanic = strings.TrimSpace(mechanic)
	if mechanic == "" {
		return nil, apperror.NewValidation("mechanic name is required")
	}
	return w.sales.ForMechanic(ctx, mechanic, []FulfillmentStatus{StatusPDIInProgress}, strings.TrimSpace(branchID))
}

// CompletedSince lists sales whose PDI finished within the window.
func (w *Workflow) CompletedSince(ctx context.Context, window time.Duration, branchID string) ([]SalesRecord, error) {
	if window <= 0 {
		window = DefaultCompletedWindow
	}
	return w.sales.CompletedSince(ctx, w.clock.Now().Add(-window), strings.TrimSpace(branchID))
}

// matches compares the ordered configuration with the scanned vehicle.
// Colour is only checked when the sale names one.
func matches(r *SalesRecord, v *vehicle.Vehicle) bool {
	if !strings.EqualFold(strings.TrimSpace(r.Model), strings.TrimSpace(v.Model)) {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(r.Variant), strings.TrimSpace(v.Variant)) {
		return false
	}
	if r.PaintColor == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.PaintColor), strings.TrimSpace(v.Color))
}
