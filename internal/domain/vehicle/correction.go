package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/core/clock"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/registers/movement"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
)

// CorrectionRow moves one vehicle to the branch where it physically is.
// An empty BranchID keeps the current location and only records the audit row.
type CorrectionRow struct {
	ChassisNo string `json:"chassisNo"`
	BranchID  string `json:"currentBranchId"`
}

// Outcome is the result of one correction row.
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeSkipped Outcome = "skipped"
	OutcomeError   Outcome = "error"
)

// RowOutcome reports what happened to one row.
type RowOutcome struct {
	Row       int     `json:"row"`
	ChassisNo string  `json:"chassisNo"`
	Outcome   Outcome `json:"outcome"`
	Reason    string  `json:"reason,omitempty"`
}

// CorrectionResult summarizes a correction batch.
type CorrectionResult struct {
	UpdatedCount int          `json:"updatedCount"`
	SkippedCount int          `json:"skippedCount"`
	ErrorCount   int          `json:"errorCount"`
	Log          []RowOutcome `json:"log"`
}

// errSkip carries a skip reason out of a row transaction.
type errSkip struct{ reason string }

func (e errSkip) Error() string { return e.reason }

// CorrectStock applies location corrections row by row. Each row commits or
// rolls back on its own, so one bad row never blocks the rest. A row is
// skipped when the chassis is unknown, when the vehicle's model and variant
// were transferred in or out of its current branch on or after cutoff, or
// when it is already Allotted or Sold.
func (l *Ledger) CorrectStock(ctx context.Context, rows []CorrectionRow, correctionDate, cutoff time.Time) (CorrectionResult, error) {
	if len(rows) == 0 {
		return CorrectionResult{}, apperror.NewValidation("correction batch is empty")
	}
	if correctionDate.IsZero() {
		correctionDate = clock.Today(l.clock)
	}
	loc := l.clock.Location()
	correctionDate = clock.DateOf(correctionDate, loc)
	if !cutoff.IsZero() {
		cutoff = clock.DateOf(cutoff, loc)
	}

	result := CorrectionResult{Log: make([]RowOutcome, 0, len(rows))}
	for i, row := range rows {
		out := RowOutcome{Row: i + 1, ChassisNo: NormalizeChassis(row.ChassisNo)}

		err := l.correctRow(ctx, row, correctionDate, cutoff)
		var skip errSkip
		switch {
		case err == nil:
			out.Outcome = OutcomeApplied
			result.UpdatedCount++
		case errors.As(err, &skip):
			out.Outcome = OutcomeSkipped
			out.Reason = skip.reason
			result.SkippedCount++
			logger.Warn(ctx, "stock correction skipped", "chassis_no", out.ChassisNo, "reason", skip.reason)
		default:
			out.Outcome = OutcomeError
			out.Reason = errorReason(err)
			result.ErrorCount++
			logger.Error(ctx, "stock correction failed", "chassis_no", out.ChassisNo, "error", err)
		}
		result.Log = append(result.Log, out)
	}

	logger.Info(ctx, "stock correction finished",
		"updated", result.UpdatedCount,
		"skipped", result.SkippedCount,
		"errors", result.ErrorCount,
	)
	return result, nil
}

func (l *Ledger) correctRow(ctx context.Context, row CorrectionRow, date, cutoff time.Time) error {
	chassisNo := NormalizeChassis(row.ChassisNo)
	if chassisNo == "" {
		return apperror.NewValidation("missing chassis number")
	}
	target := strings.TrimSpace(row.BranchID)
	if target != "" {
		if err := l.requireBranch(ctx, target); err != nil {
			return err
		}
	}

	return l.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		v, err := l.vehicles.GetForUpdate(ctx, chassisNo)
		if err != nil {
			if apperror.IsNotFound(err) {
				return errSkip{reason: "chassis not found"}
			}
			return err
		}

		if !cutoff.IsZero() {
			recent, found, err := l.movements.FirstSince(ctx, movement.MovementQuery{
				BranchID: v.CurrentBranchID,
				Model:    v.Model,
				Variant:  v.Variant,
				Since:    cutoff,
				Types:    []movement.Type{movement.TypeInwardTransfer, movement.TypeOutwardTransfer},
			})
			if err != nil {
				return fmt.Errorf("check recent transfers: %w", err)
			}
			if found {
				return errSkip{reason: fmt.Sprintf("recent transfer (%s) on %s", recent.Type, recent.Date.Format(time.DateOnly))}
			}
		}

		if v.Status.HoldsSale() {
			return errSkip{reason: fmt.Sprintf("status is '%s', correction not allowed", v.Status)}
		}

		original := v.CurrentBranchID
		if target != "" {
			v.CurrentBranchID = target
		}
		if err := l.vehicles.Update(ctx, v); err != nil {
			return err
		}

		t := movement.NewCorrection(original, v.CurrentBranchID, date,
			fmt.Sprintf("Data Correction: branch updated from correction sheet. Original Branch: %s.", original),
			v.Snapshot())
		movement.Stamp(l.clock.Now(), t)
		return l.movements.Append(ctx, t)
	})
}

func errorReason(err error) string {
	if appErr, ok := apperror.AsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}
