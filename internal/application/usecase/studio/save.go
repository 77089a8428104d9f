package studio

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/career-studio/internal/application/service"
	"github.com/khoahotran/career-studio/internal/domain/portfolio"
	"github.com/khoahotran/career-studio/internal/domain/studio"
	"github.com/khoahotran/career-studio/pkg/apperror"
	"github.com/khoahotran/career-studio/pkg/logger"
)

var tracer = otel.Tracer("studio_usecase")

type ReviewDraftUseCase struct {
	sessions studio.Store
	sections *portfolio.Sections
}

func NewReviewDraftUseCase(sessions studio.Store, sections *portfolio.Sections) *ReviewDraftUseCase {
	return &ReviewDraftUseCase{sessions: sessions, sections: sections}
}

type ReviewDraftInput struct {
	OwnerID uuid.UUID
}

type ReviewDraftOutput struct {
	Review portfolio.Review `json:"review"`
	// Blocking is set when the draft cannot be saved as is.
	Blocking string `json:"blocking,omitempty"`
	Dirty    bool   `json:"dirty"`
}

func (uc *ReviewDraftUseCase) Execute(ctx context.Context, input ReviewDraftInput) (*ReviewDraftOutput, error) {
	s, err := uc.sessions.Get(ctx, input.OwnerID)
	if err != nil {
		return nil, toAppError(err, "", input.OwnerID.String())
	}

	out := &ReviewDraftOutput{Review: uc.sections.Review(s.Portfolio), Dirty: s.Dirty}
	if err := s.Portfolio.Validate(); err != nil {
		out.Blocking = err.Error()
	}
	return out, nil
}

// SaveDraftUseCase persists the draft. Entry issues never block a save; only
// the publishing settings do.
type SaveDraftUseCase struct {
	portfolioRepo portfolio.Repository
	sessions      studio.Store
	publisher     service.EventPublisher
	cache         service.Cache
	logger        logger.Logger
	now           func() time.Time
}

func NewSaveDraftUseCase(repo portfolio.Repository, sessions studio.Store, publisher service.EventPublisher, cache service.Cache, log logger.Logger) *SaveDraftUseCase {
	return &SaveDraftUseCase{
		portfolioRepo: repo,
		sessions:      sessions,
		publisher:     publisher,
		cache:         cache,
		logger:        log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

type SaveDraftInput struct {
	OwnerID uuid.UUID
}

type SaveDraftOutput struct {
	Portfolio *portfolio.Portfolio
}

func (uc *SaveDraftUseCase) Execute(ctx context.Context, input SaveDraftInput) (*SaveDraftOutput, error) {
	ctx, span := tracer.Start(ctx, "SaveDraft",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("owner_id", input.OwnerID.String())))
	defer span.End()
	log := logger.FromContext(ctx, uc.logger)

	s, err := uc.sessions.Get(ctx, input.OwnerID)
	if err != nil {
		span.RecordError(err)
		return nil, toAppError(err, "", input.OwnerID.String())
	}

	p := s.Portfolio
	p.Normalize()
	if err := p.Validate(); err != nil {
		span.RecordError(err)
		return nil, toAppError(err, "publishing", input.OwnerID.String())
	}
	p.UpdatedAt = uc.now()

	previousSlug, err := uc.persistedSlug(ctx, input.OwnerID)
	if err != nil {
		span.RecordError(err)
		return nil, toAppError(err, "portfolio", input.OwnerID.String())
	}

	if err := uc.portfolioRepo.Upsert(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}

	savedAt := s.UpdatedAt
	_, err = uc.sessions.Update(ctx, input.OwnerID, func(cur *studio.Session) error {
		// Edits made while the save was running stay dirty.
		if cur.UpdatedAt.Equal(savedAt) {
			cur.Dirty = false
		}
		cur.Portfolio.UpdatedAt = p.UpdatedAt
		return nil
	})
	if err != nil {
		log.Warn("Failed to clear dirty flag after save", zap.String("owner_id", input.OwnerID.String()), zap.Error(err))
	}

	uc.invalidate(ctx, log, p.Slug, previousSlug)

	ev := service.PortfolioEvent{
		EventType:  service.PortfolioEventSaved,
		OwnerID:    p.OwnerID,
		Slug:       p.Slug,
		OccurredAt: p.UpdatedAt,
	}
	if previousSlug != p.Slug {
		ev.PreviousSlug = previousSlug
	}
	go func() {
		if err := uc.publisher.PublishPortfolioEvent(context.Background(), ev); err != nil {
			log.Error("Failed to publish portfolio saved event", err, zap.String("owner_id", ev.OwnerID.String()))
		}
	}()

	log.Info("Portfolio saved", zap.String("owner_id", p.OwnerID.String()), zap.String("slug", p.Slug))
	return &SaveDraftOutput{Portfolio: p}, nil
}

// persistedSlug is the slug currently stored for the owner, empty before the
// first save.
func (uc *SaveDraftUseCase) persistedSlug(ctx context.Context, ownerID uuid.UUID) (string, error) {
	saved, err := uc.portfolioRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, portfolio.ErrPortfolioNotFound) {
			return "", nil
		}
		return "", err
	}
	return saved.Slug, nil
}

// invalidate drops the public cache entries of the current and the renamed
// slug.
func (uc *SaveDraftUseCase) invalidate(ctx context.Context, log logger.Logger, slugs ...string) {
	if uc.cache == nil {
		return
	}
	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		key := portfolio.PublicCacheKey(slug)
		if slug == "" || slices.Contains(keys, key) {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return
	}
	if err := uc.cache.Del(ctx, keys...); err != nil {
		log.Warn("Failed to invalidate public portfolio cache", zap.Strings("keys", keys), zap.Error(err))
	}
}
