package sales

import (
	"fmt"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
)

// FulfillmentStatus is the post-sale progress of a SalesRecord.
// Statuses are ordered; a record only ever moves forward.
type FulfillmentStatus string

const (
	StatusPDIPending    FulfillmentStatus = "PDI Pending"
	StatusPDIInProgress FulfillmentStatus = "PDI In Progress"
	StatusPDIComplete   FulfillmentStatus = "PDI Complete"
	StatusInsuranceDone FulfillmentStatus = "Insurance Done"
	StatusTRDone        FulfillmentStatus = "TR Done"
)

var order = []FulfillmentStatus{
	StatusPDIPending,
	StatusPDIInProgress,
	StatusPDIComplete,
	StatusInsuranceDone,
	StatusTRDone,
}

// ParseStatus converts a stored value into a FulfillmentStatus.
func ParseStatus(s string) (FulfillmentStatus, error) {
	st := FulfillmentStatus(s)
	if !st.Valid() {
		return "", apperror.NewValidation(fmt.Sprintf("unknown fulfillment status %q", s))
	}
	return st, nil
}

// Rank is the position of s in the workflow, -1 when unknown.
func (s FulfillmentStatus) Rank() int {
	for i, o := range order {
		if o == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known status.
func (s FulfillmentStatus) Valid() bool {
	return s.Rank() >= 0
}

// AtLeast reports whether s is at or past o.
func (s FulfillmentStatus) AtLeast(o FulfillmentStatus) bool {
	return s.Rank() >= o.Rank()
}

// Advance returns the later of s and to, and whether it differs from s.
func (s FulfillmentStatus) Advance(to FulfillmentStatus) (FulfillmentStatus, bool) {
	if to.Rank() > s.Rank() {
		return to, true
	}
	return s, false
}
