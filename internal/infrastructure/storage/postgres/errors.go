package postgres

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
)

// PostgreSQL error codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// Unique constraints declared in migrations/000001_init.up.sql.
const (
	ConstraintChassis       = "vehicle_master_chassis_no_key"
	ConstraintSaleDC        = "sales_records_branch_dc_key"
	ConstraintMappingCodes  = "product_mapping_codes_key"
	ConstraintFeedLoad      = "feed_archive_load_reference_key"
	ConstraintBranchPK      = "branches_pkey"
	ConstraintSubBranchEdge = "branch_hierarchy_pkey"
)

// keyDetail matches "Key (col)=(val) already exists." from a unique violation.
var keyDetail = regexp.MustCompile(`Key \((.+)\)=\((.*)\)`)

// Translate maps constraint violations to AppErrors and wraps everything
// else with op. Non-Postgres errors are wrapped unchanged.
func Translate(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		_, value := keyValue(pgErr.Detail)
		switch pgErr.ConstraintName {
		case ConstraintChassis:
			return apperror.NewDuplicateChassis([]string{value}).WithCause(err)
		case ConstraintSaleDC:
			return apperror.NewDuplicate("sales record", "dc_number", lastPart(value)).WithCause(err)
		case ConstraintMappingCodes:
			return apperror.NewDuplicate("product mapping", "model_code, variant_code", value).WithCause(err)
		case ConstraintFeedLoad:
			return apperror.NewDuplicate("feed", "load_reference", value).WithCause(err)
		case ConstraintBranchPK:
			return apperror.NewDuplicate("branch", "branch_id", value).WithCause(err)
		case ConstraintSubBranchEdge:
			return apperror.NewDuplicate("branch hierarchy", "sub_branch_id", value).WithCause(err)
		}
		return apperror.NewConflict(fmt.Sprintf("%s: duplicate value", op)).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)

	case pgForeignKeyViolation:
		return apperror.NewValidation("referenced record does not exist").
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)

	case pgCheckViolation:
		return apperror.NewValidation(fmt.Sprintf("%s violates %s", op, pgErr.ConstraintName)).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	}

	return apperror.NewDatabase(op, err)
}

func keyValue(detail string) (column, value string) {
	m := keyDetail.FindStringSubmatch(detail)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

// lastPart returns the last element of a composite key value "a, b".
func lastPart(v string) string {
	parts := strings.Split(v, ", ")
	return parts[len(parts)-1]
}
