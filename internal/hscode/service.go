package hscode

import (
	"context"

	"agritrace/internal/domain"
	"agritrace/pkg/logger"
)

type Repository interface {
	GetByCode(ctx context.Context, code string) (*domain.HSCode, error)
	ListByRegulation(ctx context.Context, regulationType domain.RegulationType) ([]domain.HSCode, error)
}

type Cache interface {
	Get(ctx context.Context, code string) (*domain.HSCode, error)
	Set(ctx context.Context, hsCode *domain.HSCode) error
}

// Service serves HS code reference data through a read-through cache.
// Cache failures degrade to database reads, never to request failures.
type Service struct {
	repo   Repository
	cache  Cache
	logger logger.Logger
}

func NewService(repo Repository, cache Cache, log logger.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (s *Service) GetByCode(ctx context.Context, code string) (*domain.HSCode, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, code); err == nil {
			return cached, nil
		}
	}

	hsCode, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, hsCode); err != nil {
			s.logger.Warn("hs code cache write failed", map[string]interface{}{
				"code":  code,
				"error": err.Error(),
			})
		}
	}

	return hsCode, nil
}

func (s *Service) ListByRegulation(ctx context.Context, regulationType domain.RegulationType) ([]domain.HSCode, error) {
	return s.repo.ListByRegulation(ctx, regulationType)
}
