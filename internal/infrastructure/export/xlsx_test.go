package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/reports"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/export"
)

func open(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestAging(t *testing.T) {
	r := &reports.AgingReport{
		AsOf: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Vehicles: []reports.AgingVehicle{{
			ChassisNo: "CH001", CurrentBranchID: "HYD01", Model: "ACTIVA", Variant: "STD", Color: "BLACK",
			DateReceived: time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC), DaysOld: 120, Bucket: reports.BucketOver90,
		}},
		Totals: []reports.BucketTotal{{Bucket: reports.Bucket0To30}, {Bucket: reports.BucketOver90, Count: 1}},
	}

	var buf bytes.Buffer
	require.NoError(t, export.Aging(&buf, r))

	f := open(t, &buf)
	assert.Equal(t, []string{"Aging", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Aging")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Chassis No", rows[0][0])
	assert.Equal(t, []string{"CH001", "HYD01", "ACTIVA", "STD", "BLACK", "2025-11-15", "120", reports.BucketOver90}, rows[1])

	v, err := f.GetCellValue("Summary", "B3")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestSales(t *testing.T) {
	r := &reports.SalesReport{
		Branches: []reports.BranchSales{
			{BranchID: "HYD01", Total: 3, Lines: []reports.SalesLine{{BranchID: "HYD01", Model: "ACTIVA", Variant: "STD", Quantity: 3}}},
		},
		GrandTotal: 3,
	}

	var buf bytes.Buffer
	require.NoError(t, export.Sales(&buf, r))

	rows, err := open(t, &buf).GetRows("Sales")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "HYD01 Total", rows[2][0])
	assert.Equal(t, "3", rows[3][3])
}

func TestStock(t *testing.T) {
	s := &reports.StockSummary{
		Lines: []reports.StockLine{{BranchID: "HYD01", BranchName: "Hyderabad", Model: "ACTIVA", Variant: "STD", Color: "BLACK", Count: 2}},
		Total: 2,
	}

	var buf bytes.Buffer
	require.NoError(t, export.Stock(&buf, s))

	v, err := open(t, &buf).GetCellValue("Stock", "F3")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}
