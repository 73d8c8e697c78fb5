package branch

import (
	"context"
	"fmt"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
)

// Service provides read access to branches and maintenance of the hierarchy.
type Service struct {
	repo Repository
}

// NewService creates a new branch service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every branch ordered by ID.
func (s *Service) List(ctx context.Context) ([]Branch, error) {
	return s.repo.List(ctx)
}

// Get returns one branch.
func (s *Service) Get(ctx context.Context, id string) (*Branch, error) {
	return s.repo.Get(ctx, id)
}

// Hierarchy loads the current head/sub-branch tree.
func (s *Service) Hierarchy(ctx context.Context) (Hierarchy, error) {
	edges, err := s.repo.Edges(ctx)
	if err != nil {
		return Hierarchy{}, fmt.Errorf("load hierarchy: %w", err)
	}
	return NewHierarchy(edges), nil
}

// Heads returns the head branches.
func (s *Service) Heads(ctx context.Context, includeStandalone bool) ([]Branch, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	h, err := s.Hierarchy(ctx)
	if err != nil {
		return nil, err
	}
	return h.Heads(all, includeStandalone), nil
}

// Territory returns the head branch and all its sub-branches, head first.
func (s *Service) Territory(ctx context.Context, headID string) ([]Branch, error) {
	head, err := s.repo.Get(ctx, headID)
	if err != nil {
		return nil, err
	}
	h, err := s.Hierarchy(ctx)
	if err != nil {
		return nil, err
	}

	out := []Branch{*head}
	for _, id := range h.Territory(head.ID)[1:] {
		b, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load sub-branch %s: %w", id, err)
		}
		out = append(out, *b)
	}
	return out, nil
}

// TerritoryIDs is Territory without loading the branch rows.
func (s *Service) TerritoryIDs(ctx context.Context, headID string) ([]string, error) {
	if _, err := s.repo.Get(ctx, headID); err != nil {
		return nil, err
	}
	h, err := s.Hierarchy(ctx)
	if err != nil {
		return nil, err
	}
	return h.Territory(headID), nil
}

// Upsert creates or renames a branch.
func (s *Service) Upsert(ctx context.Context, b Branch) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := s.repo.Upsert(ctx, b); err != nil {
		return fmt.Errorf("upsert branch %s: %w", b.ID, err)
	}
	logger.Info(ctx, "branch saved", "branch_id", b.ID)
	return nil
}

// AddEdge attaches a sub-branch to a head, keeping the tree two levels deep.
func (s *Service) AddEdge(ctx context.Context, e Edge) error {
	if e.SubBranchID == "" || e.ParentBranchID == "" {
		return apperror.NewValidation("sub-branch and parent branch are required")
	}
	if e.SubBranchID == e.ParentBranchID {
		return apperror.NewValidation("a branch cannot be its own parent")
	}
	for _, id := range []string{e.SubBranchID, e.ParentBranchID} {
		if _, err := s.repo.Get(ctx, id); err != nil {
			return err
		}
	}

	h, err := s.Hierarchy(ctx)
	if err != nil {
		return err
	}
	if p, ok := h.Parent(e.SubBranchID); ok {
		return apperror.NewConflict(fmt.Sprintf("branch %s already belongs to %s", e.SubBranchID, p))
	}
	if !h.IsHead(e.ParentBranchID) {
		return apperror.NewValidation(fmt.Sprintf("branch %s is a sub-branch and cannot have sub-branches", e.ParentBranchID))
	}
	if len(h.SubBranches(e.SubBranchID)) > 0 {
		return apperror.NewValidation(fmt.Sprintf("branch %s has sub-branches and cannot become one", e.SubBranchID))
	}

	if err := s.repo.AddEdge(ctx, e); err != nil {
		return fmt.Errorf("add edge %s->%s: %w", e.SubBranchID, e.ParentBranchID, err)
	}
	return nil
}
