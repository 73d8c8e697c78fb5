package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/feed"
)

// CompressionAlgo specifies how an archived body is stored.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the body size above which feeds are compressed.
const DefaultCompressThreshold = 4 * 1024

var _ feed.Archive = (*FeedArchive)(nil)

type archiveRow struct {
	ID            int64           `db:"id"`
	LoadReference string          `db:"load_reference"`
	BranchID      string          `db:"branch_id"`
	Source        string          `db:"source"`
	Body          []byte          `db:"body"`
	Compression   CompressionAlgo `db:"compression"`
	RawSize       int             `db:"raw_size"`
	Records       int             `db:"records"`
	ImportedAt    time.Time       `db:"imported_at"`
	ImportedBy    string          `db:"imported_by"`
}

// FeedArchive keeps the raw S08 payload of every imported load in feed_archive.
type FeedArchive struct {
	txManager         *TxManager
	builder           squirrel.StatementBuilderType
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewFeedArchive creates the archive store.
func NewFeedArchive(txManager *TxManager) (*FeedArchive, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &FeedArchive{
		txManager:         txManager,
		builder:           squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: DefaultCompressThreshold,
	}, nil
}

// Save stores one feed. It joins the caller's transaction when there is one.
func (a *FeedArchive) Save(ctx context.Context, e feed.ArchiveEntry) error {
	body, algo := a.encode(e.Body)
	if e.ImportedAt.IsZero() {
		e.ImportedAt = time.Now().UTC()
	}

	sql, args, err := a.builder.Insert("feed_archive").
		Columns("load_reference", "branch_id", "source", "body", "compression", "raw_size", "records", "imported_at", "imported_by").
		Values(e.LoadReference, e.BranchID, e.Source, body, algo, len(e.Body), e.Records, e.ImportedAt, e.ImportedBy).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := a.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return Translate("archive feed", err)
	}
	return nil
}

// Get returns the archived feed of a load with its body decompressed.
func (a *FeedArchive) Get(ctx context.Context, loadRef string) (*feed.ArchiveEntry, error) {
	sql, args, err := a.builder.Select(Columns[archiveRow]()...).
		From("feed_archive").
		Where(squirrel.Eq{"load_reference": loadRef}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row archiveRow
	if err := pgxscan.Get(ctx, a.txManager.GetQuerier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("feed", loadRef)
		}
		return nil, fmt.Errorf("get feed %s: %w", loadRef, err)
	}

	body, err := a.decode(row.Body, row.Compression, row.RawSize)
	if err != nil {
		return nil, fmt.Errorf("decode feed %s: %w", loadRef, err)
	}

	return &feed.ArchiveEntry{
		LoadReference: row.LoadReference,
		BranchID:      row.BranchID,
		Source:        row.Source,
		Body:          body,
		Records:       row.Records,
		ImportedAt:    row.ImportedAt,
		ImportedBy:    row.ImportedBy,
	}, nil
}

func (a *FeedArchive) encode(body []byte) ([]byte, CompressionAlgo) {
	if len(body) <= a.compressThreshold {
		return body, CompressionNone
	}
	return a.encoder.EncodeAll(body, make([]byte, 0, len(body)/4)), CompressionZstd
}

func (a *FeedArchive) decode(body []byte, algo CompressionAlgo, rawSize int) ([]byte, error) {
	switch algo {
	case CompressionNone, "":
		return body, nil
	case CompressionZstd:
		return a.decoder.DecodeAll(body, make([]byte, 0, rawSize))
	default:
		return nil, fmt.Errorf("unknown compression %q", algo)
	}
}
