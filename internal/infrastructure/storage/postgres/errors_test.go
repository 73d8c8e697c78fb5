package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		detail any
	}{
		{
			name: "duplicate chassis",
			err: &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: ConstraintChassis,
				Detail: "Key (chassis_no)=(ME4JF50AJR7000001) already exists."},
			code:   apperror.CodeDuplicateChassis,
			detail: []string{"ME4JF50AJR7000001"},
		},
		{
			name: "duplicate dc number",
			err: &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: ConstraintSaleDC,
				Detail: "Key (branch_id, dc_number)=(HYD01, 1042) already exists."},
			code:   apperror.CodeDuplicate,
			detail: "1042",
		},
		{
			name: "unknown unique constraint",
			err:  &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "other_key"},
			code: apperror.CodeConflict,
		},
		{
			name: "foreign key",
			err:  &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "vehicle_master_current_branch_id_fkey"},
			code: apperror.CodeValidation,
		},
		{
			name: "check",
			err:  &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "vehicle_master_sale_link_check"},
			code: apperror.CodeValidation,
		},
		{
			name: "other postgres error",
			err:  &pgconn.PgError{Code: "40001"},
			code: apperror.CodeDatabase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate("op", tt.err)
			appErr, ok := apperror.AsAppError(got)
			require.True(t, ok)
			assert.Equal(t, tt.code, appErr.Code)
			if tt.detail != nil {
				var v any
				if tt.code == apperror.CodeDuplicateChassis {
					v = appErr.Details["chassis_no"]
				} else {
					v = appErr.Details["value"]
				}
				assert.Equal(t, tt.detail, v)
			}
			assert.True(t, errors.Is(got, tt.err) || errors.As(got, new(*pgconn.PgError)))
		})
	}
}

func TestTranslate_PlainError(t *testing.T) {
	cause := errors.New("conn closed")
	err := Translate("insert vehicles", cause)
	assert.ErrorIs(t, err, cause)
	assert.False(t, apperror.IsAppError(err))
	assert.Contains(t, err.Error(), "insert vehicles")
}
