package seed_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/branch"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
	"github.com/akashkatakam/vehicle-tracking-system/internal/seed"
	"github.com/akashkatakam/vehicle-tracking-system/internal/testutil/memstore"
)

const seedTOML = `
[[branches]]
id = "HYD01"
name = "Hyderabad Main"

[[branches]]
id = "SEC02"
name = "Secunderabad"

[[hierarchy]]
sub = "SEC02"
parent = "HYD01"

[[mappings]]
model_code = "JF50A"
variant_code = "STD"
model = "ACTIVA 6G"
variant = "STANDARD"

[[colors]]
code = "nh1"
name = "BLACK"
`

func writeSeed(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadAndApply(t *testing.T) {
	f, err := seed.Load(writeSeed(t, "seed.toml", seedTOML))
	require.NoError(t, err)
	require.Len(t, f.Branches, 2)
	assert.Equal(t, "ACTIVA 6G", f.Mappings[0].Model)

	s := memstore.New()
	branches := branch.NewService(s.Branches())
	maps := mapping.NewService(s.Mappings(), nil)
	ctx := context.Background()

	res, err := seed.Apply(ctx, f, branches, maps)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{Branches: 2, Edges: 1, Mappings: 1, Colors: 1}, res)

	terr, err := branches.TerritoryIDs(ctx, "HYD01")
	require.NoError(t, err)
	assert.Equal(t, []string{"HYD01", "SEC02"}, terr)

	colors, err := maps.ColorMap(ctx)
	require.NoError(t, err)
	name, ok := colors.Resolve("NH1")
	require.True(t, ok)
	assert.Equal(t, "BLACK", name)

	again, err := seed.Apply(ctx, f, branches, maps)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Existing)
	assert.Zero(t, again.Edges)
	assert.Zero(t, again.Mappings)
}

func TestLoad_JSON(t *testing.T) {
	f, err := seed.Load(writeSeed(t, "seed.json", `{"branches":[{"id":"B1","name":"One"}],"colors":[{"code":"R1","name":"RED"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []seed.Branch{{ID: "B1", Name: "One"}}, f.Branches)
	assert.Len(t, f.Colors, 1)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := seed.Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestApply_UnknownParent(t *testing.T) {
	s := memstore.New()
	f := &seed.File{
		Branches:  []seed.Branch{{ID: "B1", Name: "One"}},
		Hierarchy: []seed.Edge{{Sub: "B1", Parent: "B9"}},
	}
	_, err := seed.Apply(context.Background(), f, branch.NewService(s.Branches()), mapping.NewService(s.Mappings(), nil))
	assert.Error(t, err)
}
