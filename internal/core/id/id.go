// Package id generates identifiers for ledger events. Event IDs are UUIDv7:
// the rows of one movement share an ID and sort in creation order.
package id

import "github.com/google/uuid"

// ID ties together the transaction rows of one movement.
type ID = uuid.UUID

// New returns a UUIDv7, or a random UUID if the clock source fails.
func New() ID {
	if v, err := uuid.NewV7(); err == nil {
		return v
	}
	return uuid.New()
}
