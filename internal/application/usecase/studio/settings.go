package studio

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/career-studio/internal/application/service"
	"github.com/khoahotran/career-studio/internal/domain/collection"
	"github.com/khoahotran/career-studio/internal/domain/portfolio"
	"github.com/khoahotran/career-studio/internal/domain/studio"
	"github.com/khoahotran/career-studio/pkg/apperror"
)

// SettingsUseCase edits the parts of the draft that are not collections:
// personal info, theme and publishing settings.
type SettingsUseCase struct {
	sessions studio.Store
	metrics  service.StudioRecorder
	now      func() time.Time
}

func NewSettingsUseCase(sessions studio.Store, metrics service.StudioRecorder) *SettingsUseCase {
	if metrics == nil {
		metrics = service.NopRecorder{}
	}
	return &SettingsUseCase{
		sessions: sessions,
		metrics:  metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type UpdatePersonalFieldInput struct {
	OwnerID uuid.UUID
	Field   string
	Value   any
}

type PersonalInfoOutput struct {
	PersonalInfo portfolio.PersonalInfo `json:"personal_info"`
	Issues       []collection.Issue     `json:"issues"`
}

func (uc *SettingsUseCase) ExecuteUpdatePersonalField(ctx context.Context, input UpdatePersonalFieldInput) (*PersonalInfoOutput, error) {
	s, err := uc.sessions.Update(ctx, input.OwnerID, func(s *studio.Session) error {
		if err := portfolio.SetPersonalField(s.Portfolio, input.Field, input.Value); err != nil {
			return err
		}
		s.MarkChanged(uc.now())
		return nil
	})
	if err != nil {
		return nil, fieldError(err, input.Field, "personal_info", input.OwnerID.String())
	}

	uc.metrics.ObserveEdit("personal_info", "update")
	return &PersonalInfoOutput{
		PersonalInfo: s.Portfolio.PersonalInfo,
		Issues:       portfolio.PersonalInfoSchema.Issues(s.Portfolio.PersonalInfo),
	}, nil
}

type SelectThemeInput struct {
	OwnerID uuid.UUID
	Theme   string
}

type ThemeOutput struct {
	Theme string `json:"theme"`
}

func (uc *SettingsUseCase) ExecuteSelectTheme(ctx context.Context, input SelectThemeInput) (*ThemeOutput, error) {
	theme := strings.ToLower(strings.TrimSpace(input.Theme))
	if !portfolio.IsTheme(theme) {
		return nil, apperror.NewInvalidInput("theme must be one of "+strings.Join(portfolio.Themes, ", "), portfolio.ErrInvalidTheme)
	}

	s, err := uc.sessions.Update(ctx, input.OwnerID, func(s *studio.Session) error {
		s.Portfolio.Theme = theme
		s.MarkChanged(uc.now())
		return nil
	})
	if err != nil {
		return nil, toAppError(err, "theme", input.OwnerID.String())
	}

	uc.metrics.ObserveEdit("theme", "update")
	return &ThemeOutput{Theme: s.Portfolio.Theme}, nil
}

type UpdatePublishingInput struct {
	OwnerID  uuid.UUID
	Slug     string
	IsPublic bool
}

type PublishingOutput struct {
	Slug     string `json:"slug"`
	IsPublic bool   `json:"is_public"`
}

// ExecuteUpdatePublishing checks the slug format right away. Slug
// uniqueness is only known when the draft is saved.
func (uc *SettingsUseCase) ExecuteUpdatePublishing(ctx context.Context, input UpdatePublishingInput) (*PublishingOutput, error) {
	slug := strings.TrimSpace(input.Slug)

	s, err := uc.sessions.Update(ctx, input.OwnerID, func(s *studio.Session) error {
		next := *s.Portfolio
		next.Slug = slug
		next.IsPublic = input.IsPublic
		if err := next.Validate(); err != nil {
			return err
		}
		s.Portfolio.Slug = slug
		s.Portfolio.IsPublic = input.IsPublic
		s.MarkChanged(uc.now())
		return nil
	})
	if err != nil {
		return nil, toAppError(err, "publishing", input.OwnerID.String())
	}

	uc.metrics.ObserveEdit("publishing", "update")
	return &PublishingOutput{Slug: s.Portfolio.Slug, IsPublic: s.Portfolio.IsPublic}, nil
}
