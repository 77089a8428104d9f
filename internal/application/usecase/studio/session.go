package studio

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/career-studio/internal/domain/collection"
	"github.com/khoahotran/career-studio/internal/domain/portfolio"
	"github.com/khoahotran/career-studio/internal/domain/studio"
	"github.com/khoahotran/career-studio/pkg/apperror"
	"github.com/khoahotran/career-studio/pkg/logger"
)

type SessionUseCase struct {
	portfolioRepo portfolio.Repository
	sessions      studio.Store
	sections      *portfolio.Sections
	logger        logger.Logger
	now           func() time.Time
}

func NewSessionUseCase(repo portfolio.Repository, sessions studio.Store, sections *portfolio.Sections, log logger.Logger) *SessionUseCase {
	return &SessionUseCase{
		portfolioRepo: repo,
		sessions:      sessions,
		sections:      sections,
		logger:        log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

type StartSessionInput struct {
	OwnerID uuid.UUID
}

type SessionOutput struct {
	Session *studio.Session
}

// ExecuteStart loads the saved portfolio into a fresh draft, dropping any
// unsaved edits and every open entry.
func (uc *SessionUseCase) ExecuteStart(ctx context.Context, input StartSessionInput) (*SessionOutput, error) {
	p, err := uc.portfolioRepo.GetByOwner(ctx, input.OwnerID)
	if err != nil {
		if !errors.Is(err, portfolio.ErrPortfolioNotFound) && !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		p = portfolio.New(input.OwnerID, uc.now())
	}

	s := studio.NewSession(p, uc.now())
	if err := uc.sessions.Put(ctx, s); err != nil {
		return nil, apperror.NewInternal("failed to store studio session", err)
	}

	uc.logger.Info("Studio session started", zap.String("owner_id", input.OwnerID.String()))
	return &SessionOutput{Session: s}, nil
}

type GetSessionInput struct {
	OwnerID uuid.UUID
}

func (uc *SessionUseCase) ExecuteGet(ctx context.Context, input GetSessionInput) (*SessionOutput, error) {
	s, err := uc.sessions.Get(ctx, input.OwnerID)
	if err != nil {
		return nil, toAppError(err, "", input.OwnerID.String())
	}
	return &SessionOutput{Session: s}, nil
}

type DiscardSessionInput struct {
	OwnerID uuid.UUID
}

func (uc *SessionUseCase) ExecuteDiscard(ctx context.Context, input DiscardSessionInput) error {
	if err := uc.sessions.Delete(ctx, input.OwnerID); err != nil {
		return apperror.NewInternal("failed to discard studio session", err)
	}
	uc.logger.Info("Studio session discarded", zap.String("owner_id", input.OwnerID.String()))
	return nil
}

type SchemasOutput struct {
	PersonalInfo collection.SchemaSpec                           `json:"personal_info"`
	Sections     map[portfolio.SectionName]collection.SchemaSpec `json:"sections"`
	Order        []portfolio.SectionName                         `json:"order"`
	Themes       []string                                        `json:"themes"`
}

// ExecuteListSchemas describes every editable field so a client can render forms.
func (uc *SessionUseCase) ExecuteListSchemas() *SchemasOutput {
	out := &SchemasOutput{
		PersonalInfo: portfolio.PersonalInfoSchema.Spec(),
		Sections:     make(map[portfolio.SectionName]collection.SchemaSpec),
		Themes:       portfolio.Themes,
	}
	for _, sec := range uc.sections.All() {
		out.Sections[sec.Name()] = sec.Spec()
		out.Order = append(out.Order, sec.Name())
	}
	return out
}
