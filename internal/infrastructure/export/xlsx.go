// Package export renders reports as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/reports"
)

// ContentType is the MIME type of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const dateLayout = "2006-01-02"

// sheet is one worksheet: a header row followed by data rows.
type sheet struct {
	name   string
	header []any
	rows   [][]any
}

// Aging writes the vehicle list and the bucket totals on two sheets.
func Aging(w io.Writer, r *reports.AgingReport) error {
	vehicles := sheet{
		name:   "Aging",
		header: []any{"Chassis No", "Branch", "Model", "Variant", "Color", "Date Received", "Days Old", "Bucket"},
	}
	for _, v := range r.Vehicles {
		vehicles.rows = append(vehicles.rows, []any{
			v.ChassisNo, v.CurrentBranchID, v.Model, v.Variant, v.Color,
			v.DateReceived.Format(dateLayout), v.DaysOld, v.Bucket,
		})
	}

	totals := sheet{name: "Summary", header: []any{"Bucket", "Vehicles"}}
	for _, t := range r.Totals {
		totals.rows = append(totals.rows, []any{t.Bucket, t.Count})
	}
	totals.rows = append(totals.rows, []any{"As of", r.AsOf.Format(dateLayout)})

	return write(w, vehicles, totals)
}

// Stock writes a stock summary.
func Stock(w io.Writer, s *reports.StockSummary) error {
	sh := sheet{name: "Stock", header: []any{"Branch", "Branch Name", "Model", "Variant", "Color", "Count"}}
	for _, l := range s.Lines {
		sh.rows = append(sh.rows, []any{l.BranchID, l.BranchName, l.Model, l.Variant, l.Color, l.Count})
	}
	sh.rows = append(sh.rows, []any{"Total", "", "", "", "", s.Total})
	return write(w, sh)
}

// Sales writes the branch sales report, one block per branch.
func Sales(w io.Writer, r *reports.SalesReport) error {
	sh := sheet{name: "Sales", header: []any{"Branch", "Model", "Variant", "Quantity"}}
	for _, b := range r.Branches {
		for _, l := range b.Lines {
			sh.rows = append(sh.rows, []any{b.BranchID, l.Model, l.Variant, l.Quantity})
		}
		sh.rows = append(sh.rows, []any{b.BranchID + " Total", "", "", b.Total})
	}
	sh.rows = append(sh.rows, []any{"Grand Total", "", "", r.GrandTotal})
	return write(w, sh)
}

func write(w io.Writer, sheets ...sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sh.name, err)
		}

		if err := f.SetSheetRow(sh.name, "A1", &sh.header); err != nil {
			return fmt.Errorf("write header of %s: %w", sh.name, err)
		}
		last, err := excelize.CoordinatesToCellName(len(sh.header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sh.name, "A1", last, bold); err != nil {
			return fmt.Errorf("style header of %s: %w", sh.name, err)
		}

		for r, row := range sh.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
				return fmt.Errorf("write row %d of %s: %w", r+2, sh.name, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
