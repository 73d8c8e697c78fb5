package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/feed"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/http/v1/dto"
)

// ArchiveReader returns a stored raw feed.
type ArchiveReader interface {
	Get(ctx context.Context, loadRef string) (*feed.ArchiveEntry, error)
}

// FeedHandler imports manufacturer feeds.
type FeedHandler struct {
	*BaseHandler
	importer *feed.Importer
	archive  ArchiveReader
}

// NewFeedHandler creates a feed handler. archive may be nil.
func NewFeedHandler(base *BaseHandler, importer *feed.Importer, archive ArchiveReader) *FeedHandler {
	return &FeedHandler{BaseHandler: base, importer: importer, archive: archive}
}

// Import handles POST /feeds/import
// A load already in the ledger answers 200 with duplicate=true and writes nothing.
func (h *FeedHandler) Import(c *gin.Context) {
	var req dto.ImportRequest
	if !h.BindJSON(c, &req) {
		return
	}
	received, ok := h.ParseDate(c, "dateReceived", req.DateReceived)
	if !ok {
		return
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = "api"
	}

	res, err := h.importer.Import(c.Request.Context(), feed.ImportRequest{
		Raw:      req.Raw,
		Source:   source,
		BranchID: req.BranchID,
		Received: received,
		Remarks:  req.Remarks,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	status := http.StatusCreated
	if res.Duplicate {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

// Raw handles GET /feeds/:ref/raw
func (h *FeedHandler) Raw(c *gin.Context) {
	e, err := h.archive.Get(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+e.LoadReference+`.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", e.Body)
}
