package numerator_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenum "github.com/akashkatakam/vehicle-tracking-system/internal/core/numerator"
	"github.com/akashkatakam/vehicle-tracking-system/internal/testutil/memstore"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/numerator"
)

func TestGetNextNumber_PerBranchSequences(t *testing.T) {
	svc := numerator.New(memstore.New().Sequences())
	ctx := context.Background()
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	for _, want := range []string{"DCHYD01-2026-00001", "DCHYD01-2026-00002"} {
		got, err := svc.GetNextNumber(ctx, corenum.DCConfig("HYD01"), day)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := svc.GetNextNumber(ctx, corenum.DCConfig("SEC02"), day)
	require.NoError(t, err)
	assert.Equal(t, "DCSEC02-2026-00001", got)
}

func TestGetNextNumber_YearlyReset(t *testing.T) {
	svc := numerator.New(memstore.New().Sequences())
	ctx := context.Background()
	cfg := corenum.DCConfig("HYD01")

	_, err := svc.GetNextNumber(ctx, cfg, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	got, err := svc.GetNextNumber(ctx, cfg, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "DCHYD01-2026-00001", got)
}

func TestGetNextNumber_Concurrent(t *testing.T) {
	svc := numerator.New(memstore.New().Sequences())
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	const n = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]bool, n)
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.GetNextNumber(context.Background(), corenum.DCConfig("HYD01"), day)
			assert.NoError(t, err)
			mu.Lock()
			seen[num] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
	assert.True(t, seen["DCHYD01-2026-00020"])
}

type failingRow struct{ err error }

func (r failingRow) Scan(...any) error { return r.err }

type failingQuerier struct{}

func (failingQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return failingRow{errors.New("down")}
}

func TestGetNextNumber_Errors(t *testing.T) {
	ctx := context.Background()
	day := time.Now()

	var nilSvc *numerator.Service
	_, err := nilSvc.GetNextNumber(ctx, corenum.DCConfig("HYD01"), day)
	assert.Error(t, err)

	_, err = numerator.New(memstore.New().Sequences()).GetNextNumber(ctx, corenum.Config{}, day)
	assert.Error(t, err)

	_, err = numerator.New(failingQuerier{}).GetNextNumber(ctx, corenum.DCConfig("HYD01"), day)
	assert.ErrorContains(t, err, "down")
}
