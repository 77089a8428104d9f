package portfolio

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/career-studio/internal/application/service"
	"github.com/khoahotran/career-studio/internal/domain/portfolio"
	"github.com/khoahotran/career-studio/pkg/logger"
)

type GetPublicPortfolioUseCase struct {
	portfolioRepo portfolio.Repository
	cache         service.Cache
	ttl           time.Duration
	logger        logger.Logger
}

func NewGetPublicPortfolioUseCase(repo portfolio.Repository, cache service.Cache, ttl time.Duration, log logger.Logger) *GetPublicPortfolioUseCase {
	return &GetPublicPortfolioUseCase{
		portfolioRepo: repo,
		cache:         cache,
		ttl:           ttl,
		logger:        log,
	}
}

type GetPublicPortfolioInput struct {
	Slug string
}

type GetPublicPortfolioOutput struct {
	Portfolio *portfolio.Portfolio
	Cached    bool
}

// Execute reads through the cache. Cache failures are logged and fall back
// to the database.
func (uc *GetPublicPortfolioUseCase) Execute(ctx context.Context, input GetPublicPortfolioInput) (*GetPublicPortfolioOutput, error) {
	key := portfolio.PublicCacheKey(input.Slug)

	var cached portfolio.Portfolio
	hit, err := uc.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		uc.logger.Warn("Public portfolio cache read failed", zap.String("slug", input.Slug), zap.Error(err))
	}
	if hit {
		return &GetPublicPortfolioOutput{Portfolio: &cached, Cached: true}, nil
	}

	p, err := uc.portfolioRepo.FindPublicBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	p.Normalize()

	if err := uc.cache.SetJSON(ctx, key, p, uc.ttl); err != nil {
		uc.logger.Warn("Public portfolio cache write failed", zap.String("slug", input.Slug), zap.Error(err))
	}
	return &GetPublicPortfolioOutput{Portfolio: p}, nil
}
