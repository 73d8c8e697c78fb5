package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/storage/postgres"
)

var _ mapping.Repository = (*MappingRepo)(nil)

// MappingRepo stores product_mapping and color_code_map.
type MappingRepo struct {
	txm *postgres.TxManager
}

// NewMappingRepo creates a new mapping repository.
func NewMappingRepo(txm *postgres.TxManager) *MappingRepo {
	return &MappingRepo{txm: txm}
}

func (r *MappingRepo) ListMappings(ctx context.Context) ([]mapping.ProductMapping, error) {
	var out []mapping.ProductMapping
	q := postgres.Builder().Select(postgres.Columns[mapping.ProductMapping]()...).
		From("product_mapping").
		OrderBy("model_code", "variant_code")
	if err := postgres.SelectAll(ctx, r.txm.GetQuerier(ctx), &out, q); err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	return out, nil
}

func (r *MappingRepo) MappingExists(ctx context.Context, modelCode, variantCode string) (bool, error) {
	sql, args, err := postgres.Builder().Select("1").
		From("product_mapping").
		Where(squirrel.Eq{"model_code": modelCode, "variant_code": variantCode}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}
	var exists bool
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("mapping exists: %w", err)
	}
	return exists, nil
}

func (r *MappingRepo) CreateMapping(ctx context.Context, m *mapping.ProductMapping) error {
	sql, args, err := postgres.Builder().Insert("product_mapping").
		Columns("model_code", "variant_code", "real_model", "real_variant").
		Values(m.ModelCode, m.VariantCode, m.RealModel, m.RealVariant).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&m.ID); err != nil {
		return postgres.Translate("create mapping", err)
	}
	return nil
}

func (r *MappingRepo) ListColors(ctx context.Context) ([]mapping.ColorCode, error) {
	var out []mapping.ColorCode
	q := postgres.Builder().Select("code", "name").From("color_code_map").OrderBy("code")
	if err := postgres.SelectAll(ctx, r.txm.GetQuerier(ctx), &out, q); err != nil {
		return nil, fmt.Errorf("list colors: %w", err)
	}
	return out, nil
}

func (r *MappingRepo) UpsertColor(ctx context.Context, c mapping.ColorCode) error {
	q := postgres.Builder().Insert("color_code_map").
		Columns("code", "name").
		Values(c.Code, c.Name).
		Suffix("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name")
	if _, err := postgres.Exec(ctx, r.txm.GetQuerier(ctx), q); err != nil {
		return postgres.Translate("upsert color", err)
	}
	return nil
}
