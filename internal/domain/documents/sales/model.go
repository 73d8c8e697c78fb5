// Package sales holds the customer sale record and the workflow that links it
// to a physical vehicle through pre-delivery inspection.
package sales

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
)

// SalesRecord is a customer sale. Financial fields are recorded as entered by
// the billing desk and never computed here.
type SalesRecord struct {
	ID                   int64             `db:"id" json:"id"`
	BranchID             string            `db:"branch_id" json:"branchId"`
	DCNumber             string            `db:"dc_number" json:"dcNumber"`
	Timestamp            time.Time         `db:"timestamp" json:"timestamp"`
	CustomerName         string            `db:"customer_name" json:"customerName"`
	PhoneNumber          string            `db:"phone_number" json:"phoneNumber"`
	Place                string            `db:"place" json:"place"`
	SalesStaff           string            `db:"sales_staff" json:"salesStaff"`
	FinanceExecutive     string            `db:"finance_executive" json:"financeExecutive"`
	BankerName           string            `db:"banker_name" json:"bankerName"`
	Model                string            `db:"model" json:"model"`
	Variant              string            `db:"variant" json:"variant"`
	PaintColor           string            `db:"paint_color" json:"paintColor"`
	PriceNegotiatedFinal decimal.Decimal   `db:"price_negotiated_final" json:"priceNegotiatedFinal"`
	FulfillmentStatus    FulfillmentStatus `db:"fulfillment_status" json:"fulfillmentStatus"`
	EngineNo             *string           `db:"engine_no" json:"engineNo,omitempty"`
	ChassisNo            *string           `db:"chassis_no" json:"chassisNo,omitempty"`
	PDIAssignedTo        *string           `db:"pdi_assigned_to" json:"pdiAssignedTo,omitempty"`
	PDICompletionDate    *time.Time        `db:"pdi_completion_date" json:"pdiCompletionDate,omitempty"`
	IsInsuranceDone      bool              `db:"is_insurance_done" json:"isInsuranceDone"`
	IsTRDone             bool              `db:"is_tr_done" json:"isTrDone"`
	HasDoubleTax         bool              `db:"has_double_tax" json:"hasDoubleTax"`
	HasDues              bool              `db:"has_dues" json:"hasDues"`
}

// Validate checks the fields required to open a sale.
func (r *SalesRecord) Validate() error {
	r.BranchID = strings.TrimSpace(r.BranchID)
	r.DCNumber = strings.TrimSpace(r.DCNumber)
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.Model = strings.TrimSpace(r.Model)
	r.Variant = strings.TrimSpace(r.Variant)
	r.PaintColor = strings.TrimSpace(r.PaintColor)

	var missing []string
	for name, v := range map[string]string{
		"branchId":     r.BranchID,
		"dcNumber":     r.DCNumber,
		"customerName": r.CustomerName,
		"model":        r.Model,
		"variant":      r.Variant,
	} {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return apperror.NewValidation("missing required sale fields").WithDetail("fields", missing)
	}
	if r.PriceNegotiatedFinal.IsNegative() {
		return apperror.NewValidation("price cannot be negative")
	}
	return nil
}

// FlagUpdate lists the post-PDI flags that may be changed. Nil fields are left as is.
type FlagUpdate struct {
	InsuranceDone *bool `json:"isInsuranceDone"`
	TRDone        *bool `json:"isTrDone"`
	DoubleTax     *bool `json:"hasDoubleTax"`
	Dues          *bool `json:"hasDues"`
}

// Empty reports whether no field is set.
func (u FlagUpdate) Empty() bool {
	return u.InsuranceDone == nil && u.TRDone == nil && u.DoubleTax == nil && u.Dues == nil
}

// apply sets the flags on r. Insurance and TR are set-only: once done they
// drive the status forward and mark the vehicle Sold, so they cannot be undone.
func (u FlagUpdate) apply(r *SalesRecord) error {
	if r.IsInsuranceDone && u.InsuranceDone != nil && !*u.InsuranceDone {
		return apperror.NewInvalidTransition("insurance", "done", "not done")
	}
	if r.IsTRDone && u.TRDone != nil && !*u.TRDone {
		return apperror.NewInvalidTransition("TR", "done", "not done")
	}
	if u.InsuranceDone != nil {
		r.IsInsuranceDone = *u.InsuranceDone
	}
	if u.TRDone != nil {
		r.IsTRDone = *u.TRDone
	}
	if u.DoubleTax != nil {
		r.HasDoubleTax = *u.DoubleTax
	}
	if u.Dues != nil {
		r.HasDues = *u.Dues
	}
	return nil
}

// PDIResult is the outcome of a successful CompletePDI call.
type PDIResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	AlreadyLinked bool   `json:"alreadyLinked"`
}
