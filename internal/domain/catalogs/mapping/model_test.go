package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
)

func TestCodeMap_Resolve(t *testing.T) {
	m := mapping.NewCodeMap([]mapping.ProductMapping{
		{ModelCode: "JF50A", VariantCode: "STD", RealModel: "ACTIVA 6G", RealVariant: "STANDARD"},
	})

	model, variant, ok := m.Resolve("JF50A", "STD")
	assert.True(t, ok)
	assert.Equal(t, "ACTIVA 6G", model)
	assert.Equal(t, "STANDARD", variant)

	model, variant, ok = m.Resolve("JF50A", "DLX")
	assert.False(t, ok)
	assert.Equal(t, "JF50A", model, "unknown pair passes the raw codes through")
	assert.Equal(t, "DLX", variant)
}

func TestColorMap_ResolveIsCaseInsensitive(t *testing.T) {
	m := mapping.NewColorMap([]mapping.ColorCode{{Code: " nh1 ", Name: "BLACK"}})

	name, ok := m.Resolve("NH1")
	assert.True(t, ok)
	assert.Equal(t, "BLACK", name)

	name, ok = m.Resolve("nh1")
	assert.True(t, ok)
	assert.Equal(t, "BLACK", name)

	name, ok = m.Resolve("R334")
	assert.False(t, ok)
	assert.Equal(t, "R334", name)
}

func TestProductMapping_Validate(t *testing.T) {
	m := mapping.ProductMapping{ModelCode: " JF50A ", VariantCode: "STD", RealModel: "ACTIVA", RealVariant: "STD"}
	assert.NoError(t, m.Validate())
	assert.Equal(t, "JF50A", m.ModelCode)

	bad := mapping.ProductMapping{ModelCode: "JF50A"}
	assert.Error(t, bad.Validate())
}
