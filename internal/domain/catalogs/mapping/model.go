// Package mapping translates OEM model/variant/colour codes into the names used in the ledger.
package mapping

import (
	"strings"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
)

// ProductMapping maps an OEM (model code, variant code) pair to real names.
type ProductMapping struct {
	ID          int64  `db:"id" json:"id"`
	ModelCode   string `db:"model_code" json:"modelCode"`
	VariantCode string `db:"variant_code" json:"variantCode"`
	RealModel   string `db:"real_model" json:"realModel"`
	RealVariant string `db:"real_variant" json:"realVariant"`
}

// Validate trims and checks the mapping fields.
func (m *ProductMapping) Validate() error {
	m.ModelCode = strings.TrimSpace(m.ModelCode)
	m.VariantCode = strings.TrimSpace(m.VariantCode)
	m.RealModel = strings.TrimSpace(m.RealModel)
	m.RealVariant = strings.TrimSpace(m.RealVariant)
	if m.ModelCode == "" || m.VariantCode == "" {
		return apperror.NewValidation("model code and variant code are required")
	}
	if m.RealModel == "" || m.RealVariant == "" {
		return apperror.NewValidation("real model and real variant are required")
	}
	return nil
}

// ColorCode maps an OEM colour code to its friendly name.
type ColorCode struct {
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// CodeKey identifies a product mapping.
type CodeKey struct {
	ModelCode   string
	VariantCode string
}

// Product is the resolved model/variant pair.
type Product struct {
	Model   string
	Variant string
}

// CodeMap resolves OEM code pairs.
type CodeMap map[CodeKey]Product

// NewCodeMap indexes mappings by code pair.
func NewCodeMap(ms []ProductMapping) CodeMap {
	m := make(CodeMap, len(ms))
	for _, pm := range ms {
		m[CodeKey{ModelCode: pm.ModelCode, VariantCode: pm.VariantCode}] = Product{Model: pm.RealModel, Variant: pm.RealVariant}
	}
	return m
}

// Resolve returns the mapped names, or the raw codes when the pair is unknown.
func (m CodeMap) Resolve(modelCode, variantCode string) (model, variant string, mapped bool) {
	if p, ok := m[CodeKey{ModelCode: modelCode, VariantCode: variantCode}]; ok {
		return p.Model, p.Variant, true
	}
	return modelCode, variantCode, false
}

// ColorMap resolves colour codes; keys are upper-cased.
type ColorMap map[string]string

// NewColorMap indexes colour codes.
func NewColorMap(cs []ColorCode) ColorMap {
	m := make(ColorMap, len(cs))
	for _, c := range cs {
		m[strings.ToUpper(strings.TrimSpace(c.Code))] = c.Name
	}
	return m
}

// Resolve returns the colour name, or the code itself when unknown.
func (m ColorMap) Resolve(code string) (string, bool) {
	if name, ok := m[strings.ToUpper(code)]; ok {
		return name, true
	}
	return code, false
}
