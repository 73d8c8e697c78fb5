// Package branch provides the dealer branch catalog and its two-level hierarchy.
package branch

import (
	"sort"
	"strings"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
)

// MaxIDLength bounds the natural key of a branch.
const MaxIDLength = 10

// Branch is a dealer location that holds stock.
type Branch struct {
	ID           string `db:"branch_id" json:"id"`
	Name         string `db:"branch_name" json:"name"`
	DCLastNumber int    `db:"dc_last_number" json:"dcLastNumber"`
}

// Validate checks the branch fields.
func (b *Branch) Validate() error {
	b.ID = strings.TrimSpace(b.ID)
	b.Name = strings.TrimSpace(b.Name)
	if b.ID == "" {
		return apperror.NewValidation("branch id is required")
	}
	if len(b.ID) > MaxIDLength {
		return apperror.NewValidation("branch id is too long").
			WithDetail("max_length", MaxIDLength)
	}
	if b.Name == "" {
		return apperror.NewValidation("branch name is required")
	}
	return nil
}

// Edge attaches a sub-branch to its head branch.
type Edge struct {
	SubBranchID    string `db:"sub_branch_id" json:"subBranchId"`
	ParentBranchID string `db:"parent_branch_id" json:"parentBranchId"`
}

// Hierarchy is an immutable view of the head/sub-branch tree.
// Each sub-branch has exactly one parent and the tree is two levels deep.
type Hierarchy struct {
	parent   map[string]string
	children map[string][]string
}

// NewHierarchy builds a hierarchy from its edges.
func NewHierarchy(edges []Edge) Hierarchy {
	h := Hierarchy{
		parent:   make(map[string]string, len(edges)),
		children: make(map[string][]string),
	}
	for _, e := range edges {
		h.parent[e.SubBranchID] = e.ParentBranchID
		h.children[e.ParentBranchID] = append(h.children[e.ParentBranchID], e.SubBranchID)
	}
	for k := range h.children {
		sort.Strings(h.children[k])
	}
	return h
}

// IsHead reports whether id is not a sub-branch of any other branch.
func (h Hierarchy) IsHead(id string) bool {
	_, ok := h.parent[id]
	return !ok
}

// Parent returns the head branch of a sub-branch.
func (h Hierarchy) Parent(id string) (string, bool) {
	p, ok := h.parent[id]
	return p, ok
}

// SubBranches returns the sub-branches of a head, sorted by ID.
func (h Hierarchy) SubBranches(headID string) []string {
	return append([]string(nil), h.children[headID]...)
}

// Territory returns the head followed by its sub-branches sorted by ID.
// A sub-branch's territory is the sub-branch alone.
func (h Hierarchy) Territory(headID string) []string {
	if !h.IsHead(headID) {
		return []string{headID}
	}
	return append([]string{headID}, h.children[headID]...)
}

// Heads returns the branches that administer at least one sub-branch.
// With includeStandalone, branches without any edge are returned too.
func (h Hierarchy) Heads(all []Branch, includeStandalone bool) []Branch {
	var out []Branch
	for _, b := range all {
		if !h.IsHead(b.ID) {
			continue
		}
		if len(h.children[b.ID]) > 0 || includeStandalone {
			out = append(out, b)
		}
	}
	return out
}
