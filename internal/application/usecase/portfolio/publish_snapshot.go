package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/career-studio/internal/application/service"
	"github.com/khoahotran/career-studio/internal/domain/portfolio"
	"github.com/khoahotran/career-studio/pkg/apperror"
	"github.com/khoahotran/career-studio/pkg/logger"
)

// Snapshot is the published JSON rendering of a public portfolio.
type Snapshot struct {
	Portfolio   *portfolio.Portfolio `json:"portfolio"`
	GeneratedAt time.Time            `json:"generated_at"`
}

type PublishSnapshotUseCase struct {
	portfolioRepo portfolio.Repository
	store         service.SnapshotStore
	cache         service.Cache
	folder        string
	logger        logger.Logger
	now           func() time.Time
}

func NewPublishSnapshotUseCase(repo portfolio.Repository, store service.SnapshotStore, cache service.Cache, folder string, log logger.Logger) *PublishSnapshotUseCase {
	return &PublishSnapshotUseCase{
		portfolioRepo: repo,
		store:         store,
		cache:         cache,
		folder:        folder,
		logger:        log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Execute handles one portfolio saved event. Missing portfolios are skipped;
// a portfolio that is no longer public loses its snapshot.
func (uc *PublishSnapshotUseCase) Execute(ctx context.Context, ev service.PortfolioEvent) error {
	log := uc.logger.With(zap.String("owner_id", ev.OwnerID.String()), zap.String("event_type", string(ev.EventType)))

	if ev.EventType != service.PortfolioEventSaved {
		log.Debug("Ignoring portfolio event")
		return nil
	}

	p, err := uc.portfolioRepo.GetByOwner(ctx, ev.OwnerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, portfolio.ErrPortfolioNotFound) {
			log.Warn("Portfolio not found, skip")
			return nil
		}
		return fmt.Errorf("get portfolio failed: %w", err)
	}

	name := p.OwnerID.String()

	if !p.IsPublic || p.Slug == "" {
		if p.SnapshotURL == nil {
			return nil
		}
		if err := uc.store.Delete(ctx, uc.folder, name); err != nil {
			return fmt.Errorf("delete snapshot failed: %w", err)
		}
		if err := uc.portfolioRepo.SetSnapshotURL(ctx, p.OwnerID, ""); err != nil {
			return fmt.Errorf("clear snapshot url failed: %w", err)
		}
		uc.invalidate(ctx, ev.Slug, ev.PreviousSlug, p.Slug)
		log.Info("Snapshot withdrawn")
		return nil
	}

	p.Normalize()
	body, err := json.Marshal(Snapshot{Portfolio: p, GeneratedAt: uc.now()})
	if err != nil {
		return fmt.Errorf("render snapshot failed: %w", err)
	}

	url, err := uc.store.Upload(ctx, bytes.NewReader(body), uc.folder, name)
	if err != nil {
		return fmt.Errorf("upload snapshot failed: %w", err)
	}

	if err := uc.portfolioRepo.SetSnapshotURL(ctx, p.OwnerID, url); err != nil {
		return fmt.Errorf("record snapshot url failed: %w", err)
	}

	uc.invalidate(ctx, ev.Slug, ev.PreviousSlug, p.Slug)
	log.Info("Snapshot published", zap.String("slug", p.Slug), zap.String("url", url))
	return nil
}

func (uc *PublishSnapshotUseCase) invalidate(ctx context.Context, slugs ...string) {
	var keys []string
	seen := make(map[string]bool)
	for _, s := range slugs {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		keys = append(keys, portfolio.PublicCacheKey(s))
	}
	if len(keys) == 0 {
		return
	}
	if err := uc.cache.Del(ctx, keys...); err != nil {
		uc.logger.Warn("Failed to invalidate public portfolio cache", zap.Strings("keys", keys), zap.Error(err))
	}
}
