package mapping

import (
	"context"
	"fmt"
	"strings"

	"github.com/akashkatakam/vehicle-tracking-system/internal/core/apperror"
	"github.com/akashkatakam/vehicle-tracking-system/pkg/logger"
)

// Service manages product and colour mappings.
type Service struct {
	repo  Repository
	cache Cache
}

// NewService creates a mapping service. cache may be nil.
func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// List returns every product mapping.
func (s *Service) List(ctx context.Context) ([]ProductMapping, error) {
	if s.cache != nil {
		ms, ok, err := s.cache.GetMappings(ctx)
		if err != nil {
			logger.Warn(ctx, "mapping cache read failed", "error", err)
		} else if ok {
			return ms, nil
		}
	}

	ms, err := s.repo.ListMappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetMappings(ctx, ms); err != nil {
			logger.Warn(ctx, "mapping cache write failed", "error", err)
		}
	}
	return ms, nil
}

// Colors returns every colour code.
func (s *Service) Colors(ctx context.Context) ([]ColorCode, error) {
	if s.cache != nil {
		cs, ok, err := s.cache.GetColors(ctx)
		if err != nil {
			logger.Warn(ctx, "colour cache read failed", "error", err)
		} else if ok {
			return cs, nil
		}
	}

	cs, err := s.repo.ListColors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list colours: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetColors(ctx, cs); err != nil {
			logger.Warn(ctx, "colour cache write failed", "error", err)
		}
	}
	return cs, nil
}

// CodeMap returns the current code-pair resolver.
func (s *Service) CodeMap(ctx context.Context) (CodeMap, error) {
	ms, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewCodeMap(ms), nil
}

// ColorMap returns the current colour resolver.
func (s *Service) ColorMap(ctx context.Context) (ColorMap, error) {
	cs, err := s.Colors(ctx)
	if err != nil {
		return nil, err
	}
	return NewColorMap(cs), nil
}

// AddMapping registers a new code pair. An existing pair is a duplicate.
func (s *Service) AddMapping(ctx context.Context, m *ProductMapping) error {
	if err := m.Validate(); err != nil {
		return err
	}

	exists, err := s.repo.MappingExists(ctx, m.ModelCode, m.VariantCode)
	if err != nil {
		return fmt.Errorf("check mapping: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("product mapping", "code pair", m.ModelCode+"/"+m.VariantCode)
	}

	if err := s.repo.CreateMapping(ctx, m); err != nil {
		return err
	}
	s.invalidate(ctx)

	logger.Info(ctx, "product mapping added",
		"model_code", m.ModelCode,
		"variant_code", m.VariantCode,
		"model", m.RealModel,
		"variant", m.RealVariant,
	)
	return nil
}

// AddColor creates or renames a colour code.
func (s *Service) AddColor(ctx context.Context, c ColorCode) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	c.Name = strings.TrimSpace(c.Name)
	if c.Code == "" || c.Name == "" {
		return apperror.NewValidation("colour code and name are required")
	}
	if err := s.repo.UpsertColor(ctx, c); err != nil {
		return fmt.Errorf("save colour %s: %w", c.Code, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn(ctx, "mapping cache invalidation failed", "error", err)
	}
}
