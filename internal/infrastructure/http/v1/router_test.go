package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/clock"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/branch"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/documents/sales"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/feed"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/registers/movement"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/reports"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/vehicle"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/export"
	v1 "github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/http/v1"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/http/v1/handlers"
	"github.com/akashkatakam/vehicle-tracking-system/internal/testutil/memstore"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/numerator"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// agingRepo serves the aging report; every other report is empty.
type agingRepo struct {
	inStock []reports.AgingVehicle
}

func (r *agingRepo) StockCounts(context.Context, []string) ([]reports.StockLine, error) {
	return nil, nil
}

func (r *agingRepo) InStock(context.Context, string) ([]reports.AgingVehicle, error) {
	return append([]reports.AgingVehicle(nil), r.inStock...), nil
}

func (r *agingRepo) Transfers(context.Context, string, time.Time, time.Time) ([]reports.TransferLine, error) {
	return nil, nil
}

func (r *agingRepo) DailyTransfers(context.Context, int) ([]reports.DailyTransferLine, error) {
	return nil, nil
}

func (r *agingRepo) OEMInward(context.Context, string, time.Time, time.Time) ([]reports.InwardLine, error) {
	return nil, nil
}

func (r *agingRepo) Sales(context.Context, time.Time, time.Time) ([]reports.SalesLine, error) {
	return nil, nil
}

func (r *agingRepo) DailyCounts(context.Context, time.Time, []movement.Type) ([]reports.DailyCount, error) {
	return nil, nil
}

func (r *agingRepo) Recent(context.Context, string, int) ([]movement.Transaction, error) {
	return nil, nil
}

type fixture struct {
	router *gin.Engine
	store  *memstore.Store
}

func newFixture(t *testing.T, db handlers.Pinger) *fixture {
	t.Helper()
	s := memstore.New()
	s.AddBranch("HYD01", "SEC02")
	clk := clock.Fixed(time.Date(2026, 3, 15, 10, 30, 0, 0, ist))

	branches := branch.NewService(s.Branches())
	maps := mapping.NewService(s.Mappings(), nil)
	ledger := vehicle.NewLedger(s.Vehicles(), s.Movements(), s.Branches(), s, numerator.New(s.Sequences()), clk)
	workflow := sales.NewWorkflow(s.Sales(), s.Vehicles(), s.Movements(), s.Branches(), s, clk)
	repo := &agingRepo{inStock: []reports.AgingVehicle{{
		ChassisNo: "OLD1", CurrentBranchID: "HYD01", Model: "ACTIVA", Variant: "STD", Color: "BLACK",
		DateReceived: time.Date(2025, 11, 1, 0, 0, 0, 0, ist),
	}}}

	if db == nil {
		db = handlers.PingFunc(func(context.Context) error { return nil })
	}
	router := v1.NewRouter(v1.RouterConfig{
		Mode:     gin.TestMode,
		Version:  "test",
		Clock:    clk,
		DB:       db,
		Branches: branches,
		Mappings: maps,
		Ledger:   ledger,
		Workflow: workflow,
		Importer: feed.NewImporter(ledger, maps, s.Archive(), s, clk),
		Reports:  reports.NewService(repo, branches, clk),
	})
	return &fixture{router: router, store: s}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Operator", "ravi")
	req.Header.Set("X-Branch", "HYD01")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func inbound(chassis ...string) map[string]any {
	items := make([]map[string]any, 0, len(chassis))
	for _, c := range chassis {
		items = append(items, map[string]any{"chassisNo": c, "model": "ACTIVA", "variant": "STD", "color": "BLACK"})
	}
	return map[string]any{"branchId": "HYD01", "source": "HMSI", "loadReference": "LD1", "items": items}
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = f.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	down := newFixture(t, handlers.PingFunc(func(context.Context) error { return errors.New("connection refused") }))
	w = down.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestInboundAndTransfer(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/vehicles/inbound", inbound("ch1", "CH2"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Created int    `json:"created"`
		Status  string `json:"status"`
	}](t, w)
	assert.Equal(t, 2, created.Created)
	assert.Equal(t, string(vehicle.StatusInStock), created.Status)

	w = f.do(t, http.MethodPost, "/api/v1/vehicles/inbound", inbound("CH2", "CH3"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_CHASSIS", decode[errorBody](t, w).Code)

	w = f.do(t, http.MethodPost, "/api/v1/vehicles/transfers", map[string]any{
		"fromBranchId": "HYD01",
		"toBranchId":   "SEC02",
		"chassis":      []string{"CH1"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tr := decode[struct {
		DCNumber    string `json:"dcNumber"`
		Transferred int    `json:"transferred"`
	}](t, w)
	assert.Equal(t, "DCHYD01-2026-00001", tr.DCNumber)
	assert.Equal(t, 1, tr.Transferred)

	w = f.do(t, http.MethodGet, "/api/v1/vehicles/CH1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	v := decode[vehicle.Vehicle](t, w)
	assert.Equal(t, "SEC02", v.CurrentBranchID)
	require.NotNil(t, v.DCNumber)
	assert.Equal(t, tr.DCNumber, *v.DCNumber)

	w = f.do(t, http.MethodGet, "/api/v1/vehicles?branch=HYD01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Items []vehicle.Vehicle `json:"items"`
		Count int               `json:"count"`
	}](t, w)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "CH2", list.Items[0].ChassisNo)
}

func TestPendingLoadReceive(t *testing.T) {
	f := newFixture(t, nil)

	body := inbound("T1", "T2")
	body["status"] = string(vehicle.StatusInTransit)
	w := f.do(t, http.MethodPost, "/api/v1/vehicles/inbound", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/v1/branches/HYD01/loads", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"LD1"}, decode[struct {
		Items []string `json:"items"`
	}](t, w).Items)

	w = f.do(t, http.MethodPost, "/api/v1/branches/HYD01/loads/LD1/receive", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, decode[struct {
		Received int `json:"received"`
	}](t, w).Received)

	w = f.do(t, http.MethodPost, "/api/v1/branches/HYD01/loads/LD1/receive", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetVehicle_NotFound(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/vehicles/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CHASSIS_NOT_FOUND", decode[errorBody](t, w).Code)
}

func TestInvalidBody(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/vehicles/transfers", map[string]any{"fromBranchId": "HYD01"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode[errorBody](t, w).Code)

	w = f.do(t, http.MethodGet, "/api/v1/sales/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaleFulfillment(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/vehicles/inbound", inbound("CH9"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/v1/sales", map[string]any{
		"branchId":             "HYD01",
		"dcNumber":             "DC-100",
		"customerName":         "Lakshmi",
		"model":                "ACTIVA",
		"variant":              "STD",
		"paintColor":           "BLACK",
		"priceNegotiatedFinal": "81500.50",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sale := decode[sales.SalesRecord](t, w)
	assert.Equal(t, sales.StatusPDIPending, sale.FulfillmentStatus)
	assert.Equal(t, "81500.5", sale.PriceNegotiatedFinal.String())

	w = f.do(t, http.MethodGet, "/api/v1/sales?branch=HYD01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)

	base := "/api/v1/sales/" + jsonID(sale.ID)
	w = f.do(t, http.MethodPost, base+"/assign", map[string]any{"mechanic": "Suresh"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/v1/sales/mechanics/Suresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)

	w = f.do(t, http.MethodPost, base+"/pdi", map[string]any{"chassisNo": "ch9"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[sales.PDIResult](t, w).Success)

	w = f.do(t, http.MethodPatch, base+"/flags", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPatch, base+"/flags", map[string]any{"isInsuranceDone": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, sales.StatusInsuranceDone, decode[sales.SalesRecord](t, w).FulfillmentStatus)

	w = f.do(t, http.MethodGet, "/api/v1/vehicles/CH9", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, vehicle.StatusSold, decode[vehicle.Vehicle](t, w).Status)
}

func TestFeedImport_NoRecords(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/feeds/import", map[string]any{"branchId": "HYD01", "raw": "S08S HEADER"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode[errorBody](t, w).Code)
}

func TestAgingReport(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodGet, "/api/v1/reports/aging", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	r := decode[reports.AgingReport](t, w)
	require.Len(t, r.Vehicles, 1)
	assert.Equal(t, reports.BucketOver90, r.Vehicles[0].Bucket)
	assert.Equal(t, 1, r.Critical)

	w = f.do(t, http.MethodGet, "/api/v1/reports/aging?format=xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "aging-2026-03-15.xlsx")

	wb, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer wb.Close()
	cell, err := wb.GetCellValue("Aging", "A2")
	require.NoError(t, err)
	assert.Equal(t, "OLD1", cell)

	w = f.do(t, http.MethodGet, "/api/v1/reports/aging?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBranchesAndMappings(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(t, http.MethodPost, "/api/v1/branches/hierarchy", map[string]any{"subBranchId": "SEC02", "parentBranchId": "HYD01"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/api/v1/branches/HYD01/territory", nil)
	require.Equal(t, http.StatusOK, w.Code)
	terr := decode[struct {
		Items []branch.Branch `json:"items"`
	}](t, w)
	require.Len(t, terr.Items, 2)
	assert.Equal(t, "HYD01", terr.Items[0].ID)

	m := map[string]any{"modelCode": "JF50A", "variantCode": "STD", "realModel": "ACTIVA 6G", "realVariant": "STANDARD"}
	w = f.do(t, http.MethodPost, "/api/v1/mappings", m)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = f.do(t, http.MethodPost, "/api/v1/mappings", m)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/mappings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[struct {
		Count int `json:"count"`
	}](t, w).Count)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
