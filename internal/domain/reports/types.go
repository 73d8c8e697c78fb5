// Package reports provides read-only views over the vehicle ledger and the
// transaction log.
package reports

import (
	"time"
)

// --- Stock ---

// StockLine is the In Stock count of one model/variant/colour at a branch.
type StockLine struct {
	BranchID   string `db:"branch_id" json:"branchId"`
	BranchName string `db:"branch_name" json:"branchName"`
	Model      string `db:"model" json:"model"`
	Variant    string `db:"variant" json:"variant"`
	Color      string `db:"color" json:"color"`
	Count      int    `db:"count" json:"count"`
}

// StockSummary is the stock of one or more branches.
type StockSummary struct {
	BranchIDs []string    `json:"branchIds"`
	Lines     []StockLine `json:"lines"`
	Total     int         `json:"total"`
}

// --- Transfers ---

// TransferLine is the quantity sent from a branch to one destination.
type TransferLine struct {
	ToBranchID string `db:"to_branch_id" json:"toBranchId"`
	Model      string `db:"model" json:"model"`
	Variant    string `db:"variant" json:"variant"`
	Color      string `db:"color" json:"color"`
	Quantity   int    `db:"quantity" json:"quantity"`
}

// DailyTransferLine is the quantity moved between two branches on one day.
type DailyTransferLine struct {
	Date         time.Time `db:"date" json:"date"`
	FromBranchID string    `db:"from_branch_id" json:"fromBranchId"`
	ToBranchID   string    `db:"to_branch_id" json:"toBranchId"`
	Quantity     int       `db:"quantity" json:"quantity"`
}

// --- Inward and sales ---

// InwardLine is the quantity received from the manufacturer.
type InwardLine struct {
	Model    string `db:"model" json:"model"`
	Variant  string `db:"variant" json:"variant"`
	Color    string `db:"color" json:"color"`
	Quantity int    `db:"quantity" json:"quantity"`
}

// SalesLine is the quantity sold of one model/variant at a branch.
type SalesLine struct {
	BranchID string `db:"branch_id" json:"branchId"`
	Model    string `db:"model" json:"model"`
	Variant  string `db:"variant" json:"variant"`
	Quantity int    `db:"quantity" json:"quantity"`
}

// BranchSales groups the sales of one branch.
type BranchSales struct {
	BranchID string      `json:"branchId"`
	Total    int         `json:"total"`
	Lines    []SalesLine `json:"lines"`
}

// SalesReport lists branches by units sold, highest first.
type SalesReport struct {
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
	Branches   []BranchSales `json:"branches"`
	GrandTotal int           `json:"grandTotal"`
}

// DailyCount is the number of rows of one type at a branch on a day.
type DailyCount struct {
	BranchID string `db:"branch_id" json:"branchId"`
	Type     string `db:"transaction_type" json:"type"`
	Count    int    `db:"count" json:"count"`
}

// --- Aging ---

// Aging buckets, in order.
const (
	Bucket0To30   = "0-30 Days"
	Bucket31To60  = "31-60 Days"
	Bucket61To90  = "61-90 Days"
	BucketOver90  = "90+ Days (Critical)"
	criticalAfter = 90
)

// Buckets lists the aging buckets in display order.
var Buckets = []string{Bucket0To30, Bucket31To60, Bucket61To90, BucketOver90}

// BucketFor places an age in days into its bucket. Bounds are left-closed:
// day 30 already falls in the second bucket.
func BucketFor(days int) string {
	switch {
	case days < 30:
		return Bucket0To30
	case days < 60:
		return Bucket31To60
	case days < criticalAfter:
		return Bucket61To90
	default:
		return BucketOver90
	}
}

// AgingVehicle is one In Stock vehicle with its age.
type AgingVehicle struct {
	ChassisNo       string    `db:"chassis_no" json:"chassisNo"`
	Model           string    `db:"model" json:"model"`
	Variant         string    `db:"variant" json:"variant"`
	Color           string    `db:"color" json:"color"`
	CurrentBranchID string    `db:"current_branch_id" json:"currentBranchId"`
	DateReceived    time.Time `db:"date_received" json:"dateReceived"`
	DaysOld         int       `db:"-" json:"daysOld"`
	Bucket          string    `db:"-" json:"bucket"`
}

// BucketTotal is the vehicle count of one bucket.
type BucketTotal struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// AgingReport is the age profile of current stock.
type AgingReport struct {
	AsOf     time.Time      `json:"asOf"`
	BranchID string         `json:"branchId,omitempty"`
	Vehicles []AgingVehicle `json:"vehicles"`
	Totals   []BucketTotal  `json:"totals"`
	Critical int            `json:"critical"`
}
