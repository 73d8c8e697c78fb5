// Package seed loads reference data (branches, hierarchy, product mappings
// and colour codes) from a TOML, YAML or JSON file.
package seed

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/branch"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
)

// File is the seed document.
type File struct {
	Branches  []Branch  `mapstructure:"branches"`
	Hierarchy []Edge    `mapstructure:"hierarchy"`
	Mappings  []Mapping `mapstructure:"mappings"`
	Colors    []Color   `mapstructure:"colors"`
}

type Branch struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

type Edge struct {
	Sub    string `mapstructure:"sub"`
	Parent string `mapstructure:"parent"`
}

type Mapping struct {
	ModelCode   string `mapstructure:"model_code"`
	VariantCode string `mapstructure:"variant_code"`
	Model       string `mapstructure:"model"`
	Variant     string `mapstructure:"variant"`
}

type Color struct {
	Code string `mapstructure:"code"`
	Name string `mapstructure:"name"`
}

// Result counts what Apply wrote and what already existed.
type Result struct {
	Branches int `json:"branches"`
	Edges    int `json:"edges"`
	Mappings int `json:"mappings"`
	Colors   int `json:"colors"`
	Existing int `json:"existing"`
}

// Load reads a seed file. The format follows the file extension.
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return &f, nil
}

// Apply writes the seed. Branches and colours are upserted; hierarchy edges
// and mappings that already exist are counted and left alone, so running the
// same file twice is harmless.
func Apply(ctx context.Context, f *File, branches *branch.Service, mappings *mapping.Service) (Result, error) {
	var res Result

	for _, b := range f.Branches {
		if err := branches.Upsert(ctx, branch.Branch{ID: b.ID, Name: b.Name}); err != nil {
			return res, fmt.Errorf("branch %s: %w", b.ID, err)
		}
		res.Branches++
	}

	for _, e := range f.Hierarchy {
		err := branches.AddEdge(ctx, branch.Edge{SubBranchID: e.Sub, ParentBranchID: e.Parent})
		switch {
		case err == nil:
			res.Edges++
		case apperror.IsConflict(err):
			res.Existing++
			logger.Debug(ctx, "hierarchy edge exists", "sub", e.Sub, "parent", e.Parent)
		default:
			return res, fmt.Errorf("hierarchy %s -> %s: %w", e.Sub, e.Parent, err)
		}
	}

	for _, m := range f.Mappings {
		err := mappings.AddMapping(ctx, &mapping.ProductMapping{
			ModelCode:   m.ModelCode,
			VariantCode: m.VariantCode,
			RealModel:   m.Model,
			RealVariant: m.Variant,
		})
		switch {
		case err == nil:
			res.Mappings++
		case apperror.IsConflict(err):
			res.Existing++
		default:
			return res, fmt.Errorf("mapping %s/%s: %w", m.ModelCode, m.VariantCode, err)
		}
	}

	for _, c := range f.Colors {
		if err := mappings.AddColor(ctx, mapping.ColorCode{Code: c.Code, Name: c.Name}); err != nil {
			return res, fmt.Errorf("colour %s: %w", c.Code, err)
		}
		res.Colors++
	}

	logger.Info(ctx, "seed applied",
		"branches", res.Branches,
		"edges", res.Edges,
		"mappings", res.Mappings,
		"colors", res.Colors,
		"existing", res.Existing,
	)
	return res, nil
}
