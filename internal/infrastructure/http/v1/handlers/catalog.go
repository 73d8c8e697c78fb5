package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/branch"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/http/v1/dto"
)

// BranchHandler serves the branch directory and hierarchy.
type BranchHandler struct {
	*BaseHandler
	service *branch.Service
}

// NewBranchHandler creates a branch handler.
func NewBranchHandler(base *BaseHandler, service *branch.Service) *BranchHandler {
	return &BranchHandler{BaseHandler: base, service: service}
}

// List handles GET /branches
func (h *BranchHandler) List(c *gin.Context) {
	bs, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(bs))
}

// Heads handles GET /branches/heads?standalone=true
func (h *BranchHandler) Heads(c *gin.Context) {
	standalone, _ := strconv.ParseBool(c.DefaultQuery("standalone", "true"))
	bs, err := h.service.Heads(c.Request.Context(), standalone)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(bs))
}

// Get handles GET /branches/:id
func (h *BranchHandler) Get(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), branchParam(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b)
}

// Territory handles GET /branches/:id/territory
func (h *BranchHandler) Territory(c *gin.Context) {
	bs, err := h.service.Territory(c.Request.Context(), branchParam(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(bs))
}

// Upsert handles PUT /branches
func (h *BranchHandler) Upsert(c *gin.Context) {
	var req dto.BranchRequest
	if !h.BindJSON(c, &req) {
		return
	}
	b := req.ToBranch()
	if err := h.service.Upsert(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, b)
}

// AddEdge handles POST /branches/hierarchy
func (h *BranchHandler) AddEdge(c *gin.Context) {
	var req dto.EdgeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.service.AddEdge(c.Request.Context(), req.ToEdge()); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// MappingHandler serves product mappings and colour codes.
type MappingHandler struct {
	*BaseHandler
	service *mapping.Service
}

// NewMappingHandler creates a mapping handler.
func NewMappingHandler(base *BaseHandler, service *mapping.Service) *MappingHandler {
	return &MappingHandler{BaseHandler: base, service: service}
}

// List handles GET /mappings
func (h *MappingHandler) List(c *gin.Context) {
	ms, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(ms))
}

// Create handles POST /mappings
func (h *MappingHandler) Create(c *gin.Context) {
	var req dto.MappingRequest
	if !h.BindJSON(c, &req) {
		return
	}
	m := req.ToMapping()
	if err := h.service.AddMapping(c.Request.Context(), m); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, m.ID)
}

// Colors handles GET /colors
func (h *MappingHandler) Colors(c *gin.Context) {
	cs, err := h.service.Colors(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(cs))
}

// SaveColor handles PUT /colors
func (h *MappingHandler) SaveColor(c *gin.Context) {
	var req dto.ColorRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.service.AddColor(c.Request.Context(), mapping.ColorCode{Code: req.Code, Name: req.Name}); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "colour saved")
}

func branchParam(c *gin.Context) string {
	return strings.TrimSpace(c.Param("id"))
}
