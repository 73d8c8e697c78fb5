// Package register_repo provides PostgreSQL implementations for the vehicle
// ledger and its transaction log.
package register_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/vehicle"
	"github.com/akashkatakam/vehicle-tracking-system/internal/infrastructure/storage/postgres"
)

const vehicleTable = "vehicle_master"

var _ vehicle.Repository = (*VehicleRepo)(nil)

// VehicleRepo implements vehicle.Repository.
type VehicleRepo struct {
	txm         *postgres.TxManager
	selectCols  []string
	insertCols  []string
	mutableCols []string
}

// NewVehicleRepo creates a new vehicle ledger repository.
func NewVehicleRepo(txm *postgres.TxManager) *VehicleRepo {
	return &VehicleRepo{
		txm:        txm,
		selectCols: postgres.Columns[vehicle.Vehicle](),
		insertCols: postgres.Columns[vehicle.Vehicle]("id", "created_at", "updated_at"),
		// chassis_no, model, variant and color never change after insert.
		mutableCols: []string{"engine_no", "load_reference", "status", "date_received", "current_branch_id", "sale_id", "dc_number"},
	}
}

func (r *VehicleRepo) ExistingChassis(ctx context.Context, chassis []string) ([]string, error) {
	if len(chassis) == 0 {
		return nil, nil
	}
	var out []string
	q := postgres.Builder().Select("chassis_no").From(vehicleTable).
		Where(squirrel.Eq{"chassis_no": chassis}).
		OrderBy("chassis_no")
	if err := postgres.SelectAll(ctx, r.txm.GetQuerier(ctx), &out, q); err != nil {
		return nil, fmt.Errorf("existing chassis: %w", err)
	}
	return out, nil
}

// Insert writes the vehicles with COPY when inside a transaction, otherwise
// with one multi-row INSERT.
func (r *VehicleRepo) Insert(ctx context.Context, vs []*vehicle.Vehicle) error {
	if len(vs) == 0 {
		return nil
	}

	if r.txm.GetTx(ctx) != nil {
		rows := make([][]any, 0, len(vs))
		for _, v := range vs {
			rows = append(rows, postgres.RowValues(v, r.insertCols))
		}
		if _, err := r.txm.CopyRows(ctx, vehicleTable, r.insertCols, rows); err != nil {
			return postgres.Translate("copy vehicles", err)
		}
		return nil
	}

	q := postgres.Builder().Insert(vehicleTable).Columns(r.insertCols...)
	for _, v := range vs {
		q = q.Values(postgres.RowValues(v, r.insertCols)...)
	}
	if _, err := postgres.Exec(ctx, r.txm.GetQuerier(ctx), q); err != nil {
		return postgres.Translate("insert vehicles", err)
	}
	return nil
}

func (r *VehicleRepo) Update(ctx context.Context, v *vehicle.Vehicle) error {
	q := postgres.Builder().Update(vehicleTable).
		SetMap(postgres.ValueMap(v, r.mutableCols)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"chassis_no": v.ChassisNo})

	n, err := postgres.Exec(ctx, r.txm.GetQuerier(ctx), q)
	if err != nil {
		return postgres.Translate("update vehicle", err)
	}
	if n == 0 {
		return apperror.NewChassisNotFound(v.ChassisNo)
	}
	return nil
}

func (r *VehicleRepo) Get(ctx context.Context, chassisNo string) (*vehicle.Vehicle, error) {
	return r.get(ctx, chassisNo, "")
}

func (r *VehicleRepo) GetForUpdate(ctx context.Context, chassisNo string) (*vehicle.Vehicle, error) {
	return r.get(ctx, chassisNo, "FOR UPDATE")
}

func (r *VehicleRepo) get(ctx context.Context, chassisNo, lock string) (*vehicle.Vehicle, error) {
	q := postgres.Builder().Select(r.selectCols...).From(vehicleTable).
		Where(squirrel.Eq{"chassis_no": chassisNo})
	if lock != "" {
		q = q.Suffix(lock)
	}

	var v vehicle.Vehicle
	err := postgres.GetOne(ctx, r.txm.GetQuerier(ctx), &v, q, func() error {
		return apperror.NewNotFound("vehicle", chassisNo)
	})
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("get vehicle %s: %w", chassisNo, err)
	}
	return &v, nil
}

// LockLoad locks rows in chassis order so concurrent receivers queue behind each other.
func (r *VehicleRepo) LockLoad(ctx context.Context, branchID, loadRef string, status vehicle.Status) ([]*vehicle.Vehicle, error) {
	q := postgres.Builder().Select(r.selectCols...).From(vehicleTable).
		Where(squirrel.Eq{
			"current_branch_id": branchID,
			"load_reference":    loadRef,
			"status":            string(status),
		}).
		OrderBy("chassis_no").
		Suffix("FOR UPDATE")

	var out []*vehicle.Vehicle
	if err := postgres.SelectAll(ctx, r.txm.GetQuerier(ctx), &out, q); err != nil {
		return nil, fmt.Errorf("lock load %s: %w", loadRef, err)
	}
	return out, nil
}

func (r *VehicleRepo) PendingLoads(ctx context.Context, branchID string) ([]string, error) {
	q := postgres.Builder().Select("DISTINCT load_reference").From(vehicleTable).
		Where(squirrel.Eq{"current_branch_id": branchID, "status": string(vehicle.StatusInTransit)}).
		Where(squirrel.NotEq{"load_reference": nil}).
		OrderBy("load_reference")

	var out []string
	if err := postgres.SelectAll(ctx, r.txm.GetQuerier(ctx), &out, q); err != nil {
		return nil, fmt.Errorf("pending loads: %w", err)
	}
	return out, nil
}

func (r *VehicleRepo) ListByLoad(ctx context.Context, branchID, loadRef string) ([]vehicle.Vehicle, error) {
	q := postgres.Builder().Select(r.selectCols...).From(vehicleTable).
		Where(squirrel.Eq{"current_branch_id": branchID, "load_reference": loadRef}).
		OrderBy("chassis_no")

	var out []vehicle.Vehicle
	if err := postgres.SelectAll(ctx, r.txm.GetQuerier(ctx), &out, q); err != nil {
		return nil, fmt.Errorf("list load %s: %w", loadRef, err)
	}
	return out, nil
}

// Search matches the chassis fragment anywhere in the number and the
// descriptive fields case-insensitively.
func (r *VehicleRepo) Search(ctx context.Context, f vehicle.SearchFilter) ([]vehicle.Vehicle, error) {
	q := postgres.Builder().Select(r.selectCols...).From(vehicleTable).
		Where(squirrel.Eq{"status": string(vehicle.StatusInStock)})

	if f.Chassis != "" {
		q = q.Where(squirrel.Like{"chassis_no": "%" + escapeLike(f.Chassis) + "%"})
	}
	if f.BranchID != "" {
		q = q.Where(squirrel.Eq{"current_branch_id": f.BranchID})
	}
	for _, c := range [...]struct{ col, val string }{{"model", f.Model}, {"variant", f.Variant}, {"color", f.Color}} {
		if c.val != "" {
			q = q.Where(squirrel.Expr("upper("+c.col+") = upper(?)", c.val))
		}
	}
	q = q.OrderBy("chassis_no")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	var out []vehicle.Vehicle
	if err := postgres.SelectAll(ctx, r.txm.GetQuerier(ctx), &out, q); err != nil {
		return nil, fmt.Errorf("search vehicles: %w", err)
	}
	return out, nil
}

func (r *VehicleRepo) LoadExists(ctx context.Context, loadRef string) (bool, error) {
	var exists bool
	err := r.txm.GetQuerier(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM vehicle_master WHERE load_reference = $1)`, loadRef,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("load exists: %w", err)
	}
	return exists, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
