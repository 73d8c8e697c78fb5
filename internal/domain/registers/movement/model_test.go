package movement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/registers/movement"
)

var snap = movement.Snapshot{Model: "ACTIVA 6G", Variant: "STD", Color: "BLACK"}

func TestNewTransferPair(t *testing.T) {
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	pair := movement.NewTransferPair("HYD01", "SEC02", date, "urgent", snap)

	out, in := pair[0], pair[1]
	require.NotNil(t, out)
	require.NotNil(t, in)

	assert.Equal(t, out.EventID, in.EventID, "both legs share one event")

	assert.Equal(t, movement.TypeOutwardTransfer, out.Type)
	assert.Equal(t, "HYD01", out.CurrentBranchID)
	require.NotNil(t, out.ToBranchID)
	assert.Equal(t, "SEC02", *out.ToBranchID)
	assert.Nil(t, out.FromBranchID)
	assert.Equal(t, "Transfer OUT to SEC02. urgent", out.Remarks)

	assert.Equal(t, movement.TypeInwardTransfer, in.Type)
	assert.Equal(t, "SEC02", in.CurrentBranchID)
	require.NotNil(t, in.FromBranchID)
	assert.Equal(t, "HYD01", *in.FromBranchID)
	assert.Equal(t, "Transfer IN from HYD01. urgent", in.Remarks)

	for _, leg := range pair {
		assert.Equal(t, 1, leg.Quantity)
		assert.Equal(t, "ACTIVA 6G", leg.Model)
		assert.Equal(t, "STD", leg.Variant)
		assert.Equal(t, "BLACK", leg.Color)
		assert.Equal(t, date, leg.Date)
	}
}

func TestNewTransferPair_EmptyRemarks(t *testing.T) {
	pair := movement.NewTransferPair("A", "B", time.Now(), "  ", snap)
	assert.Equal(t, "Transfer OUT to B.", pair[0].Remarks)
	assert.Equal(t, "Transfer IN from A.", pair[1].Remarks)
}

func TestNewInwardOEM(t *testing.T) {
	tx := movement.NewInwardOEM("HYD01", time.Now(), "HMSI", "LD-778", "", snap)

	assert.Equal(t, movement.TypeInwardOEM, tx.Type)
	require.NotNil(t, tx.SourceExternal)
	assert.Equal(t, "HMSI", *tx.SourceExternal)
	require.NotNil(t, tx.LoadNumber)
	assert.Equal(t, "LD-778", *tx.LoadNumber)

	noLoad := movement.NewInwardOEM("HYD01", time.Now(), "HMSI", "", "", snap)
	assert.Nil(t, noLoad.LoadNumber)
}

func TestNewCorrection(t *testing.T) {
	tx := movement.NewCorrection("HYD01", "SEC02", time.Now(), "fix", snap)

	assert.Equal(t, movement.TypeCorrection, tx.Type)
	assert.Equal(t, "SEC02", tx.CurrentBranchID)
	require.NotNil(t, tx.FromBranchID)
	assert.Equal(t, "HYD01", *tx.FromBranchID)
}

func TestType_Valid(t *testing.T) {
	assert.True(t, movement.TypeCorrection.Valid())
	assert.True(t, movement.Type("Sale").Valid())
	assert.False(t, movement.Type("SALE").Valid())
	assert.True(t, movement.TypeInwardTransfer.IsTransfer())
	assert.False(t, movement.TypeInwardOEM.IsTransfer())
}
