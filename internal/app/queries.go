package app

import (
	"context"
	"fmt"
	"time"

	"food_rent/internal/domain"
)

// QueryService serves the read-only reports, with an optional read-through
// cache in front of the repository.
type QueryService struct {
	repo     domain.ReportRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReportRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ListCities(ctx context.Context) ([]domain.City, error) {
	return cached(ctx, s, "report:cities", s.repo.ListCities)
}

func (s *QueryService) CitySummaries(ctx context.Context) ([]domain.CitySummary, error) {
	return cached(ctx, s, "report:summaries", s.repo.CitySummaries)
}

func (s *QueryService) AverageRent(ctx context.Context) ([]domain.CityRent, error) {
	return cached(ctx, s, "report:rent", s.repo.AverageRent)
}

func (s *QueryService) PriceDistribution(ctx context.Context) ([]domain.LabelCount, error) {
	return cached(ctx, s, "report:prices", s.repo.PriceDistribution)
}

func (s *QueryService) TopCategories(ctx context.Context, cityID int64, limit int) ([]domain.LabelCount, error) {
	if limit <= 0 {
		limit = 5
	}
	key := fmt.Sprintf("report:cuisines:%d:%d", cityID, limit)
	return cached(ctx, s, key, func(ctx context.Context) ([]domain.LabelCount, error) {
		return s.repo.TopCategories(ctx, cityID, limit)
	})
}

// cached returns a copy of the loaded slice so a later mutation by the
// caller cannot leak into the cache.
func cached[T any](ctx context.Context, s *QueryService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if s.cache != nil {
		var out []T
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}
	v, err := load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(v))
	copy(out, v)
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}
