// Package movement is the append-only transaction log of physical stock movements.
package movement

import (
	"fmt"
	"strings"
	"time"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/id"
)

// Type classifies a transaction row. Values are stored verbatim.
type Type string

const (
	TypeInwardOEM       Type = "HMSI"
	TypeInwardTransfer  Type = "INWARD"
	TypeOutwardTransfer Type = "OUTWARD"
	TypeSale            Type = "Sale"
	TypeCorrection      Type = "STOCK CORRECTION"
)

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	switch t {
	case TypeInwardOEM, TypeInwardTransfer, TypeOutwardTransfer, TypeSale, TypeCorrection:
		return true
	}
	return false
}

// IsTransfer reports whether t is one leg of a branch-to-branch transfer.
func (t Type) IsTransfer() bool {
	return t == TypeInwardTransfer || t == TypeOutwardTransfer
}

// SourceTransitReceived labels OEM inward rows written when a load in transit is received.
const SourceTransitReceived = "HMSI (Transit Received)"

// Snapshot is the model/variant/colour copied onto a row at write time.
type Snapshot struct {
	Model   string
	Variant string
	Color   string
}

// Transaction is one row of the log.
type Transaction struct {
	ID              int64     `db:"id" json:"id"`
	EventID         id.ID     `db:"event_id" json:"eventId"`
	Timestamp       time.Time `db:"timestamp" json:"timestamp"`
	Date            time.Time `db:"date" json:"date"`
	Type            Type      `db:"transaction_type" json:"type"`
	SourceExternal  *string   `db:"source_external" json:"sourceExternal,omitempty"`
	FromBranchID    *string   `db:"from_branch_id" json:"fromBranchId,omitempty"`
	CurrentBranchID string    `db:"current_branch_id" json:"currentBranchId"`
	ToBranchID      *string   `db:"to_branch_id" json:"toBranchId,omitempty"`
	Model           string    `db:"model" json:"model"`
	Variant         string    `db:"variant" json:"variant"`
	Color           string    `db:"color" json:"color"`
	Quantity        int       `db:"quantity" json:"quantity"`
	LoadNumber      *string   `db:"load_number" json:"loadNumber,omitempty"`
	Remarks         string    `db:"remarks" json:"remarks"`
}

func newRow(t Type, eventID id.ID, branchID string, date time.Time, remarks string, snap Snapshot) *Transaction {
	return &Transaction{
		EventID:         eventID,
		Date:            date,
		Type:            t,
		CurrentBranchID: branchID,
		Model:           snap.Model,
		Variant:         snap.Variant,
		Color:           snap.Color,
		Quantity:        1,
		Remarks:         remarks,
	}
}

// NewInwardOEM records a vehicle entering stock from the manufacturer.
func NewInwardOEM(branchID string, date time.Time, source, loadNumber, remarks string, snap Snapshot) *Transaction {
	t := newRow(TypeInwardOEM, id.New(), branchID, date, remarks, snap)
	t.SourceExternal = optional(source)
	t.LoadNumber = optional(loadNumber)
	return t
}

// NewTransferPair returns the OUTWARD row at from and the INWARD row at to.
// Both rows share one event ID.
func NewTransferPair(from, to string, date time.Time, remarks string, snap Snapshot) [2]*Transaction {
	eventID := id.New()

	out := newRow(TypeOutwardTransfer, eventID, from, date, joinRemarks(fmt.Sprintf("Transfer OUT to %s.", to), remarks), snap)
	out.ToBranchID = optional(to)

	in := newRow(TypeInwardTransfer, eventID, to, date, joinRemarks(fmt.Sprintf("Transfer IN from %s.", from), remarks), snap)
	in.FromBranchID = optional(from)

	return [2]*Transaction{out, in}
}

// NewSale records a vehicle leaving stock to a customer.
func NewSale(branchID string, date time.Time, remarks string, snap Snapshot) *Transaction {
	return newRow(TypeSale, id.New(), branchID, date, remarks, snap)
}

// NewCorrection records an administrative relocation of a vehicle.
func NewCorrection(originalBranch, targetBranch string, date time.Time, remarks string, snap Snapshot) *Transaction {
	t := newRow(TypeCorrection, id.New(), targetBranch, date, remarks, snap)
	t.FromBranchID = optional(originalBranch)
	return t
}

// Stamp sets the write timestamp on every row.
func Stamp(now time.Time, txs ...*Transaction) {
	for _, t := range txs {
		t.Timestamp = now
	}
}

func joinRemarks(prefix, remarks string) string {
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return prefix
	}
	return prefix + " " + remarks
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
