package vehicle

import (
	"fmt"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
)

// Status is the lifecycle state of a physical vehicle.
type Status string

const (
	StatusInTransit Status = "In Transit"
	StatusInStock   Status = "In Stock"
	StatusAllotted  Status = "Allotted"
	StatusSold      Status = "Sold"
)

// transitions lists every legal status change. In Stock to In Stock is a
// transfer between branches.
var transitions = map[Status][]Status{
	StatusInTransit: {StatusInStock},
	StatusInStock:   {StatusInStock, StatusAllotted},
	StatusAllotted:  {StatusSold},
}

// ParseStatus converts a stored value into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", apperror.NewValidation(fmt.Sprintf("unknown vehicle status %q", s))
	}
	return st, nil
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusInTransit, StatusInStock, StatusAllotted, StatusSold:
		return true
	}
	return false
}

// HoldsSale reports whether a vehicle in this status must reference a sale.
func (s Status) HoldsSale() bool {
	return s == StatusAllotted || s == StatusSold
}

// CanTransition reports whether from -> to is allowed.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
