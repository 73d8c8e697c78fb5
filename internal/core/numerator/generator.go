// Package numerator defines how ledger documents are numbered. The
// sys_sequences implementation lives in pkg/numerator.
package numerator

import (
	"context"
	"fmt"
	"time"
)

// Reset is how often a sequence starts again from 1.
type Reset int

const (
	ResetNever Reset = iota
	ResetYearly
	ResetMonthly
)

// Config describes one numbered series.
type Config struct {
	Prefix string
	// Reset selects the sequence key; the year also appears in the number
	// whenever the series resets yearly or monthly.
	Reset Reset
	// Width is the zero-padded width of the counter; 0 means 5.
	Width int
}

// DCConfig numbers delivery challans per issuing branch, restarting every
// year: DCHYD01-2026-00001.
func DCConfig(branchID string) Config {
	return Config{Prefix: "DC" + branchID, Reset: ResetYearly, Width: 5}
}

// Key names the sequence period belongs to.
func (c Config) Key(period time.Time) string {
	switch c.Reset {
	case ResetYearly:
		return c.Prefix + "_" + period.Format("2006")
	case ResetMonthly:
		return c.Prefix + "_" + period.Format("2006_01")
	default:
		return c.Prefix
	}
}

// Format renders counter n as a document number.
func (c Config) Format(period time.Time, n int64) string {
	w := c.Width
	if w <= 0 {
		w = 5
	}
	if c.Reset == ResetNever {
		return fmt.Sprintf("%s-%0*d", c.Prefix, w, n)
	}
	return fmt.Sprintf("%s-%s-%0*d", c.Prefix, period.Format("2006"), w, n)
}

// Generator hands out document numbers. Allocation joins the caller's
// transaction, so a rolled back transfer does not use up its number.
type Generator interface {
	GetNextNumber(ctx context.Context, cfg Config, period time.Time) (string, error)
}
