package feed_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/core/clock"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/feed"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/vehicle"
	"github.com/akashkatakam/vehicle-tracking-system/internal/testutil/memstore"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/numerator"
)

func newImporter(t *testing.T) (*feed.Importer, *memstore.Store) {
	t.Helper()
	s := memstore.New()
	s.AddBranch("B1")
	clk := clock.Fixed(time.Date(2026, 3, 15, 9, 0, 0, 0, time.FixedZone("IST", 5*3600+1800)))

	ctx := context.Background()
	maps := mapping.NewService(s.Mappings(), nil)
	require.NoError(t, maps.AddMapping(ctx, &mapping.ProductMapping{ModelCode: "JF50A", VariantCode: "STD", RealModel: "ACTIVA 6G", RealVariant: "STANDARD"}))
	require.NoError(t, maps.AddColor(ctx, mapping.ColorCode{Code: "NH1", Name: "BLACK"}))

	ledger := vehicle.NewLedger(s.Vehicles(), s.Movements(), s.Branches(), s, numerator.New(s.Sequences()), clk)
	return feed.NewImporter(ledger, maps, s.Archive(), s, clk), s
}

func sampleFeed(load string, chassis ...string) string {
	lines := []string{"S08S HEADER"}
	for _, c := range chassis {
		lines = append(lines, s08{model: "JF50A", variant: "STD", color: "NH1", load: load, chassis: c, engine: "E" + c}.build())
	}
	return strings.Join(lines, "\n")
}

func TestImport_CreatesInTransitVehicles(t *testing.T) {
	im, s := newImporter(t)
	ctx := context.Background()

	res, err := im.Import(ctx, feed.ImportRequest{Raw: sampleFeed("LD1", "C1", "C2"), Source: "s08.txt", BranchID: "B1"})
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, "LD1", res.LoadReference)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Skipped)

	vs := s.Vehicles().All()
	require.Len(t, vs, 2)
	for _, v := range vs {
		assert.Equal(t, vehicle.StatusInTransit, v.Status)
		assert.Equal(t, "ACTIVA 6G", v.Model)
		assert.Equal(t, "BLACK", v.Color)
		require.NotNil(t, v.LoadReference)
		assert.Equal(t, "LD1", *v.LoadReference)
	}
	assert.Empty(t, s.Movements().All(), "in transit stock is not logged yet")

	entries := s.Archive().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "LD1", entries[0].LoadReference)
	assert.Equal(t, 2, entries[0].Records)
}

func TestImport_SameLoadTwiceIsDuplicate(t *testing.T) {
	im, s := newImporter(t)
	ctx := context.Background()
	raw := sampleFeed("LD1", "C1")

	_, err := im.Import(ctx, feed.ImportRequest{Raw: raw, BranchID: "B1"})
	require.NoError(t, err)

	res, err := im.Import(ctx, feed.ImportRequest{Raw: raw, BranchID: "B1"})
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.Zero(t, res.Created)
	assert.Len(t, s.Vehicles().All(), 1)
	assert.Len(t, s.Archive().Entries(), 1)
}

func TestImport_UnusableLinesBecomeIssues(t *testing.T) {
	im, s := newImporter(t)

	raw := sampleFeed("LD1", "C1", "", "C1", "C3")
	res, err := im.Import(context.Background(), feed.ImportRequest{Raw: raw, BranchID: "B1"})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Created)
	require.Len(t, res.Issues, 2)
	assert.Equal(t, 3, res.Issues[0].Line)
	assert.Equal(t, 4, res.Issues[1].Line)
	assert.Equal(t, "C1", res.Issues[1].ChassisNo)
	assert.Len(t, s.Vehicles().All(), 2)
}

func TestImport_ExistingChassisRollsBackArchive(t *testing.T) {
	im, s := newImporter(t)
	s.PutVehicle(vehicle.Vehicle{ChassisNo: "C2", Model: "M", Variant: "V", Color: "C", Status: vehicle.StatusInStock, CurrentBranchID: "B1"})

	_, err := im.Import(context.Background(), feed.ImportRequest{Raw: sampleFeed("LD1", "C1", "C2"), BranchID: "B1"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeDuplicateChassis))

	assert.Len(t, s.Vehicles().All(), 1)
	assert.Empty(t, s.Archive().Entries())
}

func TestImport_RejectsEmptyFeed(t *testing.T) {
	im, _ := newImporter(t)

	_, err := im.Import(context.Background(), feed.ImportRequest{Raw: "HEADER\nTRAILER", BranchID: "B1"})
	assert.True(t, apperror.IsValidation(err))

	_, err = im.Import(context.Background(), feed.ImportRequest{Raw: sampleFeed("LD1", "C1")})
	assert.True(t, apperror.IsValidation(err))
}

func TestImport_RejectsBlankLoadReferenceOnFirstLine(t *testing.T) {
	im, s := newImporter(t)

	raw := sampleFeed("", "C1") + "\n" + s08{model: "JF50A", variant: "STD", color: "NH1", load: "LD2", chassis: "C2"}.build()
	_, err := im.Import(context.Background(), feed.ImportRequest{Raw: raw, BranchID: "B1"})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Contains(t, err.Error(), "missing a load reference")
	assert.Empty(t, s.Vehicles().All())
	assert.Empty(t, s.Archive().Entries())

	_, err = im.Import(context.Background(), feed.ImportRequest{Raw: sampleFeed("", "C1", "C2"), BranchID: "B1"})
	assert.True(t, apperror.IsValidation(err))
	assert.Contains(t, err.Error(), "missing a load reference")
}
