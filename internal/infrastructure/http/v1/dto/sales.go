package dto

import (
	"github.com/shopspring/decimal"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/documents/sales"
)

// CreateSaleRequest opens a sale.
type CreateSaleRequest struct {
	BranchID             string          `json:"branchId" binding:"required"`
	DCNumber             string          `json:"dcNumber" binding:"required"`
	CustomerName         string          `json:"customerName" binding:"required"`
	PhoneNumber          string          `json:"phoneNumber"`
	Place                string          `json:"place"`
	SalesStaff           string          `json:"salesStaff"`
	FinanceExecutive     string          `json:"financeExecutive"`
	BankerName           string          `json:"bankerName"`
	Model                string          `json:"model" binding:"required"`
	Variant              string          `json:"variant" binding:"required"`
	PaintColor           string          `json:"paintColor"`
	PriceNegotiatedFinal decimal.Decimal `json:"priceNegotiatedFinal"`
}

// ToRecord converts the request to a sales record.
func (r CreateSaleRequest) ToRecord() *sales.SalesRecord {
	return &sales.SalesRecord{
		BranchID:             r.BranchID,
		DCNumber:             r.DCNumber,
		CustomerName:         r.CustomerName,
		PhoneNumber:          r.PhoneNumber,
		Place:                r.Place,
		SalesStaff:           r.SalesStaff,
		FinanceExecutive:     r.FinanceExecutive,
		BankerName:           r.BankerName,
		Model:                r.Model,
		Variant:              r.Variant,
		PaintColor:           r.PaintColor,
		PriceNegotiatedFinal: r.PriceNegotiatedFinal,
	}
}

// AssignRequest names the mechanic for an inspection.
type AssignRequest struct {
	Mechanic string `json:"mechanic" binding:"required"`
}

// PDIRequest carries the scanned vehicle.
type PDIRequest struct {
	ChassisNo string `json:"chassisNo" binding:"required"`
	EngineNo  string `json:"engineNo"`
}

// SalesListRequest filters sales lists.
type SalesListRequest struct {
	BranchID string   `form:"branch"`
	Status   []string `form:"status"`
}
