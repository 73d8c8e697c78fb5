package sales_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/documents/sales"
)

func TestFulfillmentStatus_Advance(t *testing.T) {
	next, changed := sales.StatusPDIComplete.Advance(sales.StatusInsuranceDone)
	assert.True(t, changed)
	assert.Equal(t, sales.StatusInsuranceDone, next)

	next, changed = sales.StatusTRDone.Advance(sales.StatusInsuranceDone)
	assert.False(t, changed)
	assert.Equal(t, sales.StatusTRDone, next)

	assert.True(t, sales.StatusTRDone.AtLeast(sales.StatusPDIComplete))
	assert.False(t, sales.StatusPDIInProgress.AtLeast(sales.StatusPDIComplete))
	assert.False(t, sales.FulfillmentStatus("Delivered").Valid())
}
