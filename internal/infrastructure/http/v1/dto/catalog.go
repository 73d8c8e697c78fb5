package dto

import (
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/branch"
	"github.com/akashkatakam/vehicle-tracking-system/internal/domain/catalogs/mapping"
)

// BranchRequest creates or renames a branch.
type BranchRequest struct {
	ID   string `json:"id" binding:"required,max=32"`
	Name string `json:"name" binding:"required,max=128"`
}

// ToBranch converts the request to a domain branch.
func (r BranchRequest) ToBranch() branch.Branch {
	return branch.Branch{ID: r.ID, Name: r.Name}
}

// EdgeRequest links a sub-branch to its head.
type EdgeRequest struct {
	SubBranchID    string `json:"subBranchId" binding:"required"`
	ParentBranchID string `json:"parentBranchId" binding:"required"`
}

// ToEdge converts the request to a hierarchy edge.
func (r EdgeRequest) ToEdge() branch.Edge {
	return branch.Edge{SubBranchID: r.SubBranchID, ParentBranchID: r.ParentBranchID}
}

// MappingRequest registers a manufacturer code pair.
type MappingRequest struct {
	ModelCode   string `json:"modelCode" binding:"required"`
	VariantCode string `json:"variantCode" binding:"required"`
	RealModel   string `json:"realModel" binding:"required"`
	RealVariant string `json:"realVariant" binding:"required"`
}

// ToMapping converts the request to a product mapping.
func (r MappingRequest) ToMapping() *mapping.ProductMapping {
	return &mapping.ProductMapping{
		ModelCode:   r.ModelCode,
		VariantCode: r.VariantCode,
		RealModel:   r.RealModel,
		RealVariant: r.RealVariant,
	}
}

// ColorRequest creates or renames a colour code.
type ColorRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}
