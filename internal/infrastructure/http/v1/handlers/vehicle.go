package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/vehicle"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/http/v1/dto"
)

// VehicleHandler serves the vehicle ledger.
type VehicleHandler struct {
	*BaseHandler
	ledger *vehicle.Ledger
	cutoff time.Time
}

// NewVehicleHandler creates a vehicle handler. cutoff is the date from which
// a transfer blocks a stock correction; zero disables the check.
func NewVehicleHandler(base *BaseHandler, ledger *vehicle.Ledger, cutoff time.Time) *VehicleHandler {
	return &VehicleHandler{BaseHandler: base, ledger: ledger, cutoff: cutoff}
}

// CreateInbound handles POST /vehicles/inbound
func (h *VehicleHandler) CreateInbound(c *gin.Context) {
	var req dto.InboundRequest
	if !h.BindJSON(c, &req) {
		return
	}
	received, ok := h.ParseDate(c, "dateReceived", req.DateReceived)
	if !ok {
		return
	}
	status := vehicle.StatusInStock
	if req.Status != "" {
		s, err := vehicle.ParseStatus(req.Status)
		if err != nil {
			h.Error(c, err)
			return
		}
		status = s
	}

	batch := vehicle.NewInboundBatch(req.BranchID, req.Source, req.LoadReference, received, req.Remarks)
	for _, item := range req.Items {
		if err := batch.Add(item); err != nil {
			h.Error(c, err)
			return
		}
	}

	if err := h.ledger.CreateInbound(c.Request.Context(), batch, status); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.InboundResponse{
		Created:       batch.Len(),
		LoadReference: batch.LoadReference,
		Status:        string(status),
	})
}

// PendingLoads handles GET /branches/:id/loads
func (h *VehicleHandler) PendingLoads(c *gin.Context) {
	refs, err := h.ledger.PendingLoads(c.Request.Context(), branchParam(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(refs))
}

// LoadVehicles handles GET /branches/:id/loads/:ref
func (h *VehicleHandler) LoadVehicles(c *gin.Context) {
	vs, err := h.ledger.VehiclesInLoad(c.Request.Context(), branchParam(c), c.Param("ref"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(vs))
}

// ReceiveLoad handles POST /branches/:id/loads/:ref/receive
func (h *VehicleHandler) ReceiveLoad(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("ref"))
	n, err := h.ledger.ReceiveLoad(c.Request.Context(), branchParam(c), ref)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ReceiveResponse{LoadReference: ref, Received: n})
}

// Transfer handles POST /vehicles/transfers
func (h *VehicleHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}
	date, ok := h.ParseDate(c, "date", req.Date)
	if !ok {
		return
	}
	if date.IsZero() {
		date = h.Today()
	}

	dc, err := h.ledger.Transfer(c.Request.Context(), vehicle.TransferRequest{
		FromBranchID: req.FromBranchID,
		ToBranchID:   req.ToBranchID,
		Date:         date,
		Remarks:      req.Remarks,
		DCNumber:     req.DCNumber,
		Chassis:      req.Chassis,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.TransferResponse{DCNumber: dc, Transferred: len(req.Chassis)})
}

// Get handles GET /vehicles/:chassis
func (h *VehicleHandler) Get(c *gin.Context) {
	v, err := h.ledger.Get(c.Request.Context(), c.Param("chassis"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, v)
}

// Search handles GET /vehicles
func (h *VehicleHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if !h.BindQuery(c, &req) {
		return
	}
	vs, err := h.ledger.Search(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(vs))
}

// Correct handles POST /vehicles/corrections
func (h *VehicleHandler) Correct(c *gin.Context) {
	var req dto.CorrectionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	date, ok := h.ParseDate(c, "date", req.Date)
	if !ok {
		return
	}
	res, err := h.ledger.CorrectStock(c.Request.Context(), req.Rows, date, h.cutoff)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}
