// Package vehicle is the ledger of physical vehicles: one row per chassis,
// tracking status and current location.
package vehicle

import (
	"strings"
	"time"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/registers/movement"
)

// Vehicle is one row of the ledger. Rows are never deleted and the chassis
// number never changes after insert.
type Vehicle struct {
	ID              int64     `db:"id" json:"id"`
	ChassisNo       string    `db:"chassis_no" json:"chassisNo"`
	EngineNo        *string   `db:"engine_no" json:"engineNo,omitempty"`
	LoadReference   *string   `db:"load_reference" json:"loadReference,omitempty"`
	Model           string    `db:"model" json:"model"`
	Variant         string    `db:"variant" json:"variant"`
	Color           string    `db:"color" json:"color"`
	Status          Status    `db:"status" json:"status"`
	DateReceived    time.Time `db:"date_received" json:"dateReceived"`
	CurrentBranchID string    `db:"current_branch_id" json:"currentBranchId"`
	SaleID          *int64    `db:"sale_id" json:"saleId,omitempty"`
	DCNumber        *string   `db:"dc_number" json:"dcNumber,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// TransitionTo moves the vehicle to a new status, keeping sale_id set exactly
// when the status is Allotted or Sold.
func (v *Vehicle) TransitionTo(to Status, saleID *int64) error {
	if !CanTransition(v.Status, to) {
		return apperror.NewInvalidTransition("vehicle "+v.ChassisNo, v.Status, to)
	}
	if to.HoldsSale() && saleID == nil {
		return apperror.NewValidation("status " + string(to) + " requires a sale")
	}
	if !to.HoldsSale() && saleID != nil {
		return apperror.NewValidation("status " + string(to) + " cannot reference a sale")
	}
	if v.Status == StatusAllotted && v.SaleID != nil && *saleID != *v.SaleID {
		return apperror.NewVehicleAlreadyLinked(v.ChassisNo, string(v.Status), v.SaleID)
	}

	v.Status = to
	v.SaleID = saleID
	return nil
}

// Snapshot copies the descriptive fields for a transaction row.
func (v *Vehicle) Snapshot() movement.Snapshot {
	return movement.Snapshot{Model: v.Model, Variant: v.Variant, Color: v.Color}
}

// NormalizeChassis trims and upper-cases a chassis number as scanned or typed.
func NormalizeChassis(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// SearchFilter narrows a stock search. Only In Stock vehicles are returned.
type SearchFilter struct {
	Chassis  string
	Model    string
	Variant  string
	Color    string
	BranchID string
	Limit    int
}

// DefaultSearchLimit caps search results.
const DefaultSearchLimit = 500
