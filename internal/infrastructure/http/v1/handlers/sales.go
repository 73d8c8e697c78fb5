package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/documents/sales"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/http/v1/dto"
)

// SalesHandler serves the sale fulfillment workflow.
type SalesHandler struct {
	*BaseHandler
	workflow        *sales.Workflow
	completedWindow time.Duration
}

// NewSalesHandler creates a sales handler.
func NewSalesHandler(base *BaseHandler, workflow *sales.Workflow, completedWindow time.Duration) *SalesHandler {
	return &SalesHandler{BaseHandler: base, workflow: workflow, completedWindow: completedWindow}
}

// Create handles POST /sales
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	r := req.ToRecord()
	if err := h.workflow.Create(c.Request.Context(), r); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// Get handles GET /sales/:id
func (h *SalesHandler) Get(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	r, err := h.workflow.Get(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}

// List handles GET /sales?status=...&branch=...
// Without a status it lists the open inspection queue.
func (h *SalesHandler) List(c *gin.Context) {
	var req dto.SalesListRequest
	if !h.BindQuery(c, &req) {
		return
	}
	statuses := []sales.FulfillmentStatus{sales.StatusPDIPending, sales.StatusPDIInProgress}
	if len(req.Status) > 0 {
		statuses = statuses[:0]
		for _, s := range req.Status {
			st, err := sales.ParseStatus(s)
			if err != nil {
				h.Error(c, err)
				return
			}
			statuses = append(statuses, st)
		}
	}

	rs, err := h.workflow.ByStatus(c.Request.Context(), req.BranchID, statuses...)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(rs))
}

// ForMechanic handles GET /sales/mechanics/:name
func (h *SalesHandler) ForMechanic(c *gin.Context) {
	rs, err := h.workflow.ForMechanic(c.Request.Context(), c.Param("name"), c.Query("branch"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(rs))
}

// Completed handles GET /sales/completed
func (h *SalesHandler) Completed(c *gin.Context) {
	rs, err := h.workflow.CompletedSince(c.Request.Context(), h.completedWindow, c.Query("branch"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(rs))
}

// Assign handles POST /sales/:id/assign
func (h *SalesHandler) Assign(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AssignRequest
	if !h.BindJSON(c, &req) {
		return
	}
	r, err := h.workflow.AssignMechanic(c.Request.Context(), id, req.Mechanic)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}

// CompletePDI handles POST /sales/:id/pdi
func (h *SalesHandler) CompletePDI(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.PDIRequest
	if !h.BindJSON(c, &req) {
		return
	}
	res, err := h.workflow.CompletePDI(c.Request.Context(), id, req.ChassisNo, req.EngineNo)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// UpdateFlags handles PATCH /sales/:id/flags
func (h *SalesHandler) UpdateFlags(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req sales.FlagUpdate
	if !h.BindJSON(c, &req) {
		return
	}
	if req.Empty() {
		h.Error(c, apperror.NewValidation("no flags to update"))
		return
	}
	r, err := h.workflow.UpdateFlags(c.Request.Context(), id, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}
