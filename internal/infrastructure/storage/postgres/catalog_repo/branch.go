// Package catalog_repo provides PostgreSQL implementations for the reference catalogs.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/branch"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/storage/postgres"
)

var _ branch.Repository = (*BranchRepo)(nil)

// BranchRepo stores branches and the branch_hierarchy edges.
type BranchRepo struct {
	txm     *postgres.TxManager
	columns []string
}

// NewBranchRepo creates a new branch repository.
func NewBranchRepo(txm *postgres.TxManager) *BranchRepo {
	return &BranchRepo{txm: txm, columns: postgres.Columns[branch.Branch]()}
}

func (r *BranchRepo) List(ctx context.Context) ([]branch.Branch, error) {
	var out []branch.Branch
	q := postgres.Builder().Select(r.columns...).From("branches").OrderBy("branch_id")
	if err := postgres.SelectAll(ctx, r.txm.GetQuerier(ctx), &out, q); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return out, nil
}

func (r *BranchRepo) Get(ctx context.Context, id string) (*branch.Branch, error) {
	var b branch.Branch
	q := postgres.Builder().Select(r.columns...).From("branches").Where(squirrel.Eq{"branch_id": id})
	err := postgres.GetOne(ctx, r.txm.GetQuerier(ctx), &b, q, func() error {
		return apperror.NewNotFound("branch", id)
	})
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("get branch %s: %w", id, err)
	}
	return &b, nil
}

func (r *BranchRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.txm.GetQuerier(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM branches WHERE branch_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("branch exists: %w", err)
	}
	return exists, nil
}

// Upsert inserts a branch or renames an existing one. dc_last_number is left alone on update.
func (r *BranchRepo) Upsert(ctx context.Context, b branch.Branch) error {
	q := postgres.Builder().Insert("branches").
		Columns("branch_id", "branch_name", "dc_last_number").
		Values(b.ID, b.Name, b.DCLastNumber).
		Suffix("ON CONFLICT (branch_id) DO UPDATE SET branch_name = EXCLUDED.branch_name")
	if _, err := postgres.Exec(ctx, r.txm.GetQuerier(ctx), q); err != nil {
		return postgres.Translate("upsert branch", err)
	}
	return nil
}

func (r *BranchRepo) Edges(ctx context.Context) ([]branch.Edge, error) {
	var out []branch.Edge
	q := postgres.Builder().Select("sub_branch_id", "parent_branch_id").
		From("branch_hierarchy").
		OrderBy("parent_branch_id", "sub_branch_id")
	if err := postgres.SelectAll(ctx, r.txm.GetQuerier(ctx), &out, q); err != nil {
		return nil, fmt.Errorf("list hierarchy: %w", err)
	}
	return out, nil
}

func (r *BranchRepo) AddEdge(ctx context.Context, e branch.Edge) error {
	q := postgres.Builder().Insert("branch_hierarchy").
		Columns("sub_branch_id", "parent_branch_id").
		Values(e.SubBranchID, e.ParentBranchID)
	if _, err := postgres.Exec(ctx, r.txm.GetQuerier(ctx), q); err != nil {
		return postgres.Translate("add hierarchy edge", err)
	}
	return nil
}
