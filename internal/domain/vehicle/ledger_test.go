package vehicle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/core/clock"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/registers/movement"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/vehicle"
	"github.com/akashkatakam/vehicle-tracking-system/internal/testutil/memstore"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/numerator"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func now() time.Time { return time.Date(2026, 3, 15, 10, 30, 0, 0, ist) }

func today() time.Time { return time.Date(2026, 3, 15, 0, 0, 0, 0, ist) }

func newLedger(t *testing.T) (*vehicle.Ledger, *memstore.Store) {
	t.Helper()
	s := memstore.New()
	s.AddBranch("B1", "B2", "B3")
	l := vehicle.NewLedger(
		s.Vehicles(),
		s.Movements(),
		s.Branches(),
		s,
		numerator.New(s.Sequences()),
		clock.Fixed(now()),
	)
	return l, s
}

func batchOf(t *testing.T, branchID, loadRef string, items ...vehicle.InboundItem) *vehicle.InboundBatch {
	t.Helper()
	b := vehicle.NewInboundBatch(branchID, "CSV", loadRef, time.Date(2026, 3, 1, 0, 0, 0, 0, ist), "")
	for _, it := range items {
		require.NoError(t, b.Add(it))
	}
	return b
}

func item(chassis, model, variant, color string) vehicle.InboundItem {
	return vehicle.InboundItem{ChassisNo: chassis, Model: model, Variant: variant, Color: color}
}

func stock(s *memstore.Store, chassis, branchID string) {
	s.PutVehicle(vehicle.Vehicle{
		ChassisNo:       chassis,
		Model:           "M1",
		Variant:         "V1",
		Color:           "RED",
		Status:          vehicle.StatusInStock,
		DateReceived:    time.Date(2026, 2, 1, 0, 0, 0, 0, ist),
		CurrentBranchID: branchID,
	})
}

func TestCreateInbound_InStockWritesOneInwardRowPerVehicle(t *testing.T) {
	l, s := newLedger(t)
	ctx := context.Background()

	err := l.CreateInbound(ctx, batchOf(t, "B1", "", item("C1", "M1", "V1", "RED")), vehicle.StatusInStock)
	require.NoError(t, err)

	v, err := l.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, vehicle.StatusInStock, v.Status)
	assert.Equal(t, "B1", v.CurrentBranchID)
	assert.Nil(t, v.SaleID)

	rows := s.Movements().All()
	require.Len(t, rows, 1)
	assert.Equal(t, movement.TypeInwardOEM, rows[0].Type)
	assert.Equal(t, 1, rows[0].Quantity)
	assert.Equal(t, "B1", rows[0].CurrentBranchID)
	assert.Equal(t, "M1", rows[0].Model)
	assert.Equal(t, now(), rows[0].Timestamp)
}

func TestCreateInbound_InTransitWritesNoRows(t *testing.T) {
	l, s := newLedger(t)

	err := l.CreateInbound(context.Background(),
		batchOf(t, "B1", "LD-1", item("C1", "M1", "V1", "RED"), item("C2", "M1", "V1", "RED")),
		vehicle.StatusInTransit)
	require.NoError(t, err)

	assert.Len(t, s.Vehicles().All(), 2)
	assert.Empty(t, s.Movements().All())

	loads, err := l.PendingLoads(context.Background(), "B1")
	require.NoError(t, err)
	assert.Equal(t, []string{"LD-1"}, loads)
}

func TestCreateInbound_DuplicateChassisFailsWholeBatch(t *testing.T) {
	l, s := newLedger(t)
	stock(s, "C1", "B1")

	err := l.CreateInbound(context.Background(),
		batchOf(t, "B1", "", item("C2", "M1", "V1", "RED"), item("C1", "M1", "V1", "RED")),
		vehicle.StatusInStock)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeDuplicateChassis))
	assert.True(t, apperror.IsConflict(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"C1"}, appErr.Details["chassis_no"])

	assert.Len(t, s.Vehicles().All(), 1, "C2 must not be inserted")
	assert.Empty(t, s.Movements().All())
}

func TestCreateInbound_RejectsInvalidInput(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	err := l.CreateInbound(ctx, batchOf(t, "B1", "", item("C1", "M1", "V1", "RED")), vehicle.StatusAllotted)
	assert.True(t, apperror.IsValidation(err))

	err = l.CreateInbound(ctx, vehicle.NewInboundBatch("B1", "CSV", "", time.Time{}, ""), vehicle.StatusInStock)
	assert.True(t, apperror.IsValidation(err))

	err = l.CreateInbound(ctx, batchOf(t, "NOPE", "", item("C1", "M1", "V1", "RED")), vehicle.StatusInStock)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReceiveLoad_RoundTrip(t *testing.T) {
	l, s := newLedger(t)
	ctx := context.Background()

	require.NoError(t, l.CreateInbound(ctx,
		batchOf(t, "B1", "LD-7", item("C1", "M1", "V1", "RED"), item("C2", "M1", "V2", "BLUE")),
		vehicle.StatusInTransit))

	n, err := l.ReceiveLoad(ctx, "B1", "LD-7")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, v := range s.Vehicles().All() {
		assert.Equal(t, vehicle.StatusInStock, v.Status)
		assert.True(t, v.DateReceived.Equal(today()), "date received is the receive day, got %s", v.DateReceived)
	}

	rows := s.Movements().OfType(movement.TypeInwardOEM)
	require.Len(t, rows, 2)
	for _, r := range rows {
		require.NotNil(t, r.SourceExternal)
		assert.Equal(t, movement.SourceTransitReceived, *r.SourceExternal)
		assert.Equal(t, "Received Load LD-7", r.Remarks)
		assert.True(t, r.Date.Equal(today()))
	}

	loads, err := l.PendingLoads(ctx, "B1")
	require.NoError(t, err)
	assert.Empty(t, loads)
}

func TestReceiveLoad_UnknownLoad(t *testing.T) {
	l, _ := newLedger(t)

	_, err := l.ReceiveLoad(context.Background(), "B1", "LD-404")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestTransfer_MovesVehicleAndWritesPair(t *testing.T) {
	l, s := newLedger(t)
	stock(s, "C1", "B1")
	ctx := context.Background()

	dc, err := l.Transfer(ctx, vehicle.TransferRequest{
		FromBranchID: "B1",
		ToBranchID:   "B2",
		Remarks:      "urgent",
		Chassis:      []string{"c1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "DCB1-2026-00001", dc)

	v, err := l.Get(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, "B2", v.CurrentBranchID)
	assert.Equal(t, vehicle.StatusInStock, v.Status)
	require.NotNil(t, v.DCNumber)
	assert.Equal(t, dc, *v.DCNumber)

	rows := s.Movements().All()
	require.Len(t, rows, 2)
	out, in := rows[0], rows[1]
	assert.Equal(t, movement.TypeOutwardTransfer, out.Type)
	assert.Equal(t, "B1", out.CurrentBranchID)
	assert.Equal(t, "B2", *out.ToBranchID)
	assert.Equal(t, "Transfer OUT to B2. urgent", out.Remarks)
	assert.Equal(t, movement.TypeInwardTransfer, in.Type)
	assert.Equal(t, "B2", in.CurrentBranchID)
	assert.Equal(t, "B1", *in.FromBranchID)
	assert.Equal(t, out.EventID, in.EventID)
	assert.Equal(t, out.Quantity, in.Quantity)
	assert.Equal(t, out.Model, in.Model)

	pair, err := s.Movements().ByEvent(ctx, out.EventID)
	require.NoError(t, err)
	assert.Len(t, pair, 2)

	dc, err = l.Transfer(ctx, vehicle.TransferRequest{FromBranchID: "B2", ToBranchID: "B1", Chassis: []string{"C1"}})
	require.NoError(t, err)
	assert.Equal(t, "DCB2-2026-00001", dc, "numbers are kept per issuing branch")
}

func TestTransfer_IsAllOrNothing(t *testing.T) {
	l, s := newLedger(t)
	stock(s, "C1", "B1")
	saleID := int64(9)
	s.PutVehicle(vehicle.Vehicle{
		ChassisNo: "C2", Model: "M1", Variant: "V1", Color: "RED",
		Status: vehicle.StatusAllotted, SaleID: &saleID, CurrentBranchID: "B1",
	})

	_, err := l.Transfer(context.Background(), vehicle.TransferRequest{
		FromBranchID: "B1", ToBranchID: "B2", Chassis: []string{"C1", "C2"},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	for _, v := range s.Vehicles().All() {
		assert.Equal(t, "B1", v.CurrentBranchID)
		assert.Nil(t, v.DCNumber)
	}
	assert.Empty(t, s.Movements().All())
}

func TestTransfer_RollsBackWhenLogWriteFails(t *testing.T) {
	l, s := newLedger(t)
	stock(s, "C1", "B1")
	ctx := context.Background()

	s.FailNextAppend(errors.New("disk full"))
	_, err := l.Transfer(ctx, vehicle.TransferRequest{FromBranchID: "B1", ToBranchID: "B2", Chassis: []string{"C1"}})
	require.Error(t, err)

	v, err := l.Get(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, "B1", v.CurrentBranchID)

	dc, err := l.Transfer(ctx, vehicle.TransferRequest{FromBranchID: "B1", ToBranchID: "B2", Chassis: []string{"C1"}})
	require.NoError(t, err)
	assert.Equal(t, "DCB1-2026-00001", dc, "a rolled back transfer does not consume a number")
}

func TestTransfer_Validation(t *testing.T) {
	l, s := newLedger(t)
	stock(s, "C1", "B1")
	ctx := context.Background()

	tests := []struct {
		name  string
		req   vehicle.TransferRequest
		check func(error) bool
	}{
		{"same branch", vehicle.TransferRequest{FromBranchID: "B1", ToBranchID: "B1", Chassis: []string{"C1"}}, apperror.IsValidation},
		{"empty list", vehicle.TransferRequest{FromBranchID: "B1", ToBranchID: "B2"}, apperror.IsValidation},
		{"repeated chassis", vehicle.TransferRequest{FromBranchID: "B1", ToBranchID: "B2", Chassis: []string{"C1", " c1"}}, apperror.IsValidation},
		{"unknown branch", vehicle.TransferRequest{FromBranchID: "B1", ToBranchID: "B9", Chassis: []string{"C1"}}, apperror.IsNotFound},
		{"wrong source", vehicle.TransferRequest{FromBranchID: "B2", ToBranchID: "B3", Chassis: []string{"C1"}}, apperror.IsValidation},
		{"unknown chassis", vehicle.TransferRequest{FromBranchID: "B1", ToBranchID: "B2", Chassis: []string{"C404"}}, func(err error) bool {
			return apperror.Is(err, apperror.CodeChassisNotFound)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Transfer(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
	assert.Empty(t, s.Movements().All())
}

func TestSearch_OnlyInStock(t *testing.T) {
	l, s := newLedger(t)
	stock(s, "ME4JF50A1", "B1")
	stock(s, "ME4JF50A2", "B2")
	saleID := int64(1)
	s.PutVehicle(vehicle.Vehicle{ChassisNo: "ME4JF50A3", Model: "M1", Variant: "V1", Color: "RED",
		Status: vehicle.StatusAllotted, SaleID: &saleID, CurrentBranchID: "B1"})

	vs, err := l.Search(context.Background(), vehicle.SearchFilter{Chassis: "jf50a"})
	require.NoError(t, err)
	assert.Len(t, vs, 2)

	vs, err = l.Search(context.Background(), vehicle.SearchFilter{Model: "m1", BranchID: "B2"})
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, "ME4JF50A2", vs[0].ChassisNo)
}

func TestGet_UnknownChassis(t *testing.T) {
	l, _ := newLedger(t)

	_, err := l.Get(context.Background(), "nope")
	assert.True(t, apperror.Is(err, apperror.CodeChassisNotFound))
}
