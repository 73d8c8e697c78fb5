package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/core/clock"
	appctx "github.com/akashkatakam/vehicle-tracking-system/internal/core/context"
	"github.com/akashkatakam/vehicle-tracking-system/internal/core/tx"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/vehicle"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
)

// Inbound is the part of the vehicle ledger an import writes to.
type Inbound interface {
	LoadExists(ctx context.Context, loadRef string) (bool, error)
	CreateInbound(ctx context.Context, batch *vehicle.InboundBatch, initial vehicle.Status) error
}

// Resolvers supplies the current code and colour maps.
type Resolvers interface {
	CodeMap(ctx context.Context) (mapping.CodeMap, error)
	ColorMap(ctx context.Context) (mapping.ColorMap, error)
}

// ArchiveEntry is the raw feed kept alongside the vehicles it created.
type ArchiveEntry struct {
	LoadReference string
	BranchID      string
	Source        string
	Body          []byte
	Records       int
	ImportedAt    time.Time
	ImportedBy    string
}

// Archive stores raw feeds. Save runs inside the import transaction.
type Archive interface {
	Save(ctx context.Context, e ArchiveEntry) error
}

// ImportRequest is one feed to load into a branch.
type ImportRequest struct {
	Raw      string
	Source   string
	BranchID string
	Received time.Time
	Remarks  string
}

// ImportResult reports what an import did.
type ImportResult struct {
	LoadReference string            `json:"loadReference"`
	Duplicate     bool              `json:"duplicate"`
	Created       int               `json:"created"`
	Skipped       int               `json:"skipped"`
	Issues        []LineIssue       `json:"issues,omitempty"`
	Unmapped      []mapping.CodeKey `json:"unmapped,omitempty"`
	UnmappedColor []string          `json:"unmappedColors,omitempty"`
}

// Importer loads S08 feeds into the ledger as In Transit vehicles.
type Importer struct {
	ledger    Inbound
	resolvers Resolvers
	archive   Archive
	txm       tx.Manager
	clock     clock.Clock
}

// NewImporter creates a feed importer. archive may be nil.
func NewImporter(ledger Inbound, resolvers Resolvers, archive Archive, txm tx.Manager, clk clock.Clock) *Importer {
	return &Importer{
		ledger:    ledger,
		resolvers: resolvers,
		archive:   archive,
		txm:       txm,
		clock:     clk,
	}
}

// Import decodes the feed and creates its vehicles In Transit. A load
// reference already in the ledger is reported as a duplicate and nothing is
// written.
func (im *Importer) Import(ctx context.Context, req ImportRequest) (ImportResult, error) {
	req.BranchID = strings.TrimSpace(req.BranchID)
	if req.BranchID == "" {
		return ImportResult{}, apperror.NewValidation("branch is required")
	}

	ref, ok := PeekLoadReference(req.Raw)
	if !ok {
		return ImportResult{}, apperror.NewValidation("feed contains no vehicle records")
	}
	if ref == "" {
		return ImportResult{}, apperror.NewValidation("feed is missing a load reference on its first vehicle line")
	}
	res := ImportResult{LoadReference: ref}

	exists, err := im.ledger.LoadExists(ctx, ref)
	if err != nil {
		return ImportResult{}, fmt.Errorf("check load %s: %w", ref, err)
	}
	if exists {
		res.Duplicate = true
		logger.Info(ctx, "feed load already imported", "load_reference", ref)
		return res, nil
	}

	codes, err := im.resolvers.CodeMap(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	colors, err := im.resolvers.ColorMap(ctx)
	if err != nil {
		return ImportResult{}, err
	}

	decoded := Decode(req.Raw, req.Source, codes, colors)
	res.Skipped = decoded.Skipped
	res.Unmapped = decoded.Unmapped
	res.UnmappedColor = decoded.UnmappedColor

	received := req.Received
	if received.IsZero() {
		received = clock.Today(im.clock)
	}
	batch := vehicle.NewInboundBatch(req.BranchID, req.Source, ref, received, req.Remarks)
	for _, rec := range decoded.Records {
		if err := batch.Add(rec.Item()); err != nil {
			res.Issues = append(res.Issues, LineIssue{Line: rec.Line, ChassisNo: rec.ChassisNo, Reason: issueReason(err)})
		}
	}
	if batch.Len() == 0 {
		return res, apperror.NewValidation("feed contains no usable vehicle records").
			WithDetail("issues", len(res.Issues))
	}

	err = im.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := im.ledger.CreateInbound(ctx, batch, vehicle.StatusInTransit); err != nil {
			return err
		}
		if im.archive == nil {
			return nil
		}
		return im.archive.Save(ctx, ArchiveEntry{
			LoadReference: ref,
			BranchID:      req.BranchID,
			Source:        req.Source,
			Body:          []byte(req.Raw),
			Records:       batch.Len(),
			ImportedAt:    im.clock.Now(),
			ImportedBy:    appctx.GetUsername(ctx),
		})
	})
	if err != nil {
		// A concurrent import of the same load wins the unique chassis race.
		if apperror.Is(err, apperror.CodeDuplicateChassis) {
			if again, lerr := im.ledger.LoadExists(ctx, ref); lerr == nil && again {
				res.Duplicate = true
				return res, nil
			}
		}
		return ImportResult{}, err
	}

	res.Created = batch.Len()
	logger.Info(ctx, "feed imported",
		"load_reference", ref,
		"branch_id", req.BranchID,
		"created", res.Created,
		"issues", len(res.Issues),
		"unmapped", len(res.Unmapped),
	)
	return res, nil
}

func issueReason(err error) string {
	if appErr, ok := apperror.AsAppError(err); ok {
		if fields, ok := appErr.Details["fields"]; ok {
			return fmt.Sprintf("%s: %v", appErr.Message, fields)
		}
		return appErr.Message
	}
	return err.Error()
}
