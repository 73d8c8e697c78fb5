package dto

import (
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/vehicle"
)

// InboundRequest creates a batch of vehicles at a branch.
type InboundRequest struct {
	BranchID      string `json:"branchId" binding:"required"`
	Source        string `json:"source" binding:"required"`
	LoadReference string `json:"loadReference"`
	// DateReceived is YYYY-MM-DD; today when empty.
	DateReceived string `json:"dateReceived"`
	Remarks      string `json:"remarks"`
	// Status is "In Transit" or "In Stock"; In Stock when empty.
	Status string                `json:"status"`
	Items  []vehicle.InboundItem `json:"items" binding:"required,min=1,dive"`
}

// InboundResponse reports a created batch.
type InboundResponse struct {
	Created       int    `json:"created"`
	LoadReference string `json:"loadReference,omitempty"`
	Status        string `json:"status"`
}

// ReceiveResponse reports a received load.
type ReceiveResponse struct {
	LoadReference string `json:"loadReference"`
	Received      int    `json:"received"`
}

// TransferRequest moves vehicles between branches.
type TransferRequest struct {
	FromBranchID string   `json:"fromBranchId" binding:"required"`
	ToBranchID   string   `json:"toBranchId" binding:"required"`
	Date         string   `json:"date"`
	Remarks      string   `json:"remarks"`
	DCNumber     string   `json:"dcNumber"`
	Chassis      []string `json:"chassis" binding:"required,min=1"`
}

// TransferResponse reports a completed transfer.
type TransferResponse struct {
	DCNumber    string `json:"dcNumber"`
	Transferred int    `json:"transferred"`
}

// SearchRequest narrows a stock search.
type SearchRequest struct {
	Chassis  string `form:"chassis"`
	Model    string `form:"model"`
	Variant  string `form:"variant"`
	Color    string `form:"color"`
	BranchID string `form:"branch"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ToFilter converts the request to a domain filter.
func (r SearchRequest) ToFilter() vehicle.SearchFilter {
	return vehicle.SearchFilter{
		Chassis:  r.Chassis,
		Model:    r.Model,
		Variant:  r.Variant,
		Color:    r.Color,
		BranchID: r.BranchID,
		Limit:    r.Limit,
	}
}

// CorrectionRequest relocates vehicles whose recorded branch is wrong.
type CorrectionRequest struct {
	Date string                  `json:"date"`
	Rows []vehicle.CorrectionRow `json:"rows" binding:"required,min=1"`
}
