package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/clock"
)

func TestToday_UsesClockLocation(t *testing.T) {
	ist, err := clock.LoadLocation("")
	require.NoError(t, err)

	// 20:00 UTC on the 1st is already the 2nd in IST.
	c := clock.Fixed(time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC).In(ist))

	today := clock.Today(c)
	assert.Equal(t, 2024, today.Year())
	assert.Equal(t, time.March, today.Month())
	assert.Equal(t, 2, today.Day())
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, ist, today.Location())
}

func TestSystem_DefaultsToUTC(t *testing.T) {
	c := clock.System(nil)
	assert.Equal(t, time.UTC, c.Location())
	assert.Equal(t, time.UTC, c.Now().Location())
}
