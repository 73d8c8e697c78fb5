package vehicle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/vehicle"
)

func TestInboundBatch_Add(t *testing.T) {
	b := vehicle.NewInboundBatch(" B1 ", "CSV", "LD-1", time.Time{}, "")

	require.NoError(t, b.Add(vehicle.InboundItem{ChassisNo: " me4jf50 ", Model: "M1", Variant: "V1", Color: "RED"}))
	assert.Equal(t, "B1", b.BranchID)
	assert.Equal(t, []string{"ME4JF50"}, b.Chassis())

	err := b.Add(vehicle.InboundItem{ChassisNo: "ME4JF50", Model: "M1", Variant: "V1", Color: "RED"})
	assert.True(t, apperror.Is(err, apperror.CodeDuplicateChassis))

	err = b.Add(vehicle.InboundItem{ChassisNo: "C2", Model: "M1"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	fields, ok := appErr.Details["fields"].(map[string]string)
	require.True(t, ok)
	assert.Contains(t, fields, "Variant")
	assert.Contains(t, fields, "Color")

	assert.Equal(t, 1, b.Len())
}

func TestInboundBatch_Remove(t *testing.T) {
	b := vehicle.NewInboundBatch("B1", "CSV", "", time.Time{}, "")
	for _, c := range []string{"C1", "C2", "C3"} {
		require.NoError(t, b.Add(vehicle.InboundItem{ChassisNo: c, Model: "M1", Variant: "V1", Color: "RED"}))
	}

	assert.True(t, b.Remove("c2"))
	assert.False(t, b.Remove("C2"))
	assert.Equal(t, []string{"C1", "C3"}, b.Chassis())

	require.NoError(t, b.Add(vehicle.InboundItem{ChassisNo: "C2", Model: "M1", Variant: "V1", Color: "RED"}))
	assert.True(t, b.Remove("C3"))
	assert.Equal(t, []string{"C1", "C2"}, b.Chassis())
}
