package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/reports"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/export"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/http/v1/dto"
)

const formatXLSX = "xlsx"

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Stock handles GET /reports/stock?branch=...&format=xlsx
func (h *ReportsHandler) Stock(c *gin.Context) {
	var req dto.StockRequest
	if !h.BindQuery(c, &req) {
		return
	}
	s, err := h.service.StockSummary(c.Request.Context(), req.BranchIDs)
	if err != nil {
		h.Error(c, err)
		return
	}
	if req.Format == formatXLSX {
		h.workbook(c, "stock", func(buf *bytes.Buffer) error { return export.Stock(buf, s) })
		return
	}
	h.OK(c, s)
}

// Territory handles GET /reports/territory/:id
func (h *ReportsHandler) Territory(c *gin.Context) {
	s, err := h.service.TerritoryStock(c.Request.Context(), branchParam(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	if c.Query("format") == formatXLSX {
		h.workbook(c, "territory-"+branchParam(c), func(buf *bytes.Buffer) error { return export.Stock(buf, s) })
		return
	}
	h.OK(c, s)
}

// Transfers handles GET /reports/transfers?branch=...&start=...&end=...
func (h *ReportsHandler) Transfers(c *gin.Context) {
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}
	lines, err := h.service.TransferSummary(c.Request.Context(), c.Query("branch"), start, end)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(lines))
}

// DailyTransfers handles GET /reports/transfers/daily?limit=...
func (h *ReportsHandler) DailyTransfers(c *gin.Context) {
	lines, err := h.service.DailyTransferSummary(c.Request.Context(), h.ParseIntQuery(c, "limit", 0))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(lines))
}

// OEMInward handles GET /reports/inward?branch=...&start=...&end=...
func (h *ReportsHandler) OEMInward(c *gin.Context) {
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}
	lines, err := h.service.OEMInwardSummary(c.Request.Context(), c.Query("branch"), start, end)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(lines))
}

// Sales handles GET /reports/sales?start=...&end=...&format=xlsx
func (h *ReportsHandler) Sales(c *gin.Context) {
	start, end, ok := h.dateRange(c)
	if !ok {
		return
	}
	r, err := h.service.SalesReport(c.Request.Context(), start, end)
	if err != nil {
		h.Error(c, err)
		return
	}
	if c.Query("format") == formatXLSX {
		h.workbook(c, "sales", func(buf *bytes.Buffer) error { return export.Sales(buf, r) })
		return
	}
	h.OK(c, r)
}

// Daily handles GET /reports/daily?date=...
func (h *ReportsHandler) Daily(c *gin.Context) {
	date, ok := h.ParseDate(c, "date", c.Query("date"))
	if !ok {
		return
	}
	if date.IsZero() {
		date = h.Today()
	}
	counts, err := h.service.DailySummary(c.Request.Context(), date)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(counts))
}

// Recent handles GET /reports/recent?branch=...&limit=...
func (h *ReportsHandler) Recent(c *gin.Context) {
	txs, err := h.service.RecentTransactions(c.Request.Context(), c.Query("branch"), h.ParseIntQuery(c, "limit", 0))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(txs))
}

// Aging handles GET /reports/aging?branch=...&format=xlsx
func (h *ReportsHandler) Aging(c *gin.Context) {
	var req dto.AgingRequest
	if !h.BindQuery(c, &req) {
		return
	}
	r, err := h.service.Aging(c.Request.Context(), req.BranchID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if req.Format == formatXLSX {
		h.workbook(c, "aging", func(buf *bytes.Buffer) error { return export.Aging(buf, r) })
		return
	}
	h.OK(c, r)
}

func (h *ReportsHandler) dateRange(c *gin.Context) (start, end time.Time, ok bool) {
	var req dto.DateRangeRequest
	if !h.BindQuery(c, &req) {
		return
	}
	if start, ok = h.ParseDate(c, "start", req.Start); !ok {
		return
	}
	end, ok = h.ParseDate(c, "end", req.End)
	return
}

// workbook renders into memory first so a failed export still gets a JSON error.
func (h *ReportsHandler) workbook(c *gin.Context, name string, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.Error(c, fmt.Errorf("export %s: %w", name, err))
		return
	}
	filename := fmt.Sprintf("%s-%s.xlsx", name, h.Today().Format(time.DateOnly))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
