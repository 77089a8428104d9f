package studio

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/career-studio/internal/application/service"
	"github.com/khoahotran/career-studio/internal/domain/collection"
	"github.com/khoahotran/career-studio/internal/domain/portfolio"
	"github.com/khoahotran/career-studio/internal/domain/studio"
)

// EntryUseCase runs the collection editor of one section against the
// owner's draft session.
type EntryUseCase struct {
	sessions studio.Store
	sections *portfolio.Sections
	metrics  service.StudioRecorder
	now      func() time.Time
}

func NewEntryUseCase(sessions studio.Store, sections *portfolio.Sections, metrics service.StudioRecorder) *EntryUseCase {
	if metrics == nil {
		metrics = service.NopRecorder{}
	}
	return &EntryUseCase{
		sessions: sessions,
		sections: sections,
		metrics:  metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SectionView is the editor state of one section.
type SectionView struct {
	Name    portfolio.SectionName         `json:"name"`
	Schema  collection.SchemaSpec         `json:"schema"`
	Entries any                           `json:"entries"`
	Open    []string                      `json:"open"`
	Issues  map[string][]collection.Issue `json:"issues"`
}

func viewOf(sec portfolio.Section, s *studio.Session) SectionView {
	open := s.Disclosure(sec.Name())
	return SectionView{
		Name:    sec.Name(),
		Schema:  sec.Spec(),
		Entries: sec.Entries(s.Portfolio),
		Open:    open.IDs(),
		Issues:  sec.Issues(s.Portfolio),
	}
}

type GetSectionInput struct {
	OwnerID uuid.UUID
	Section string
}

func (uc *EntryUseCase) ExecuteGetSection(ctx context.Context, input GetSectionInput) (*SectionView, error) {
	sec, err := uc.sections.Get(input.Section)
	if err != nil {
		return nil, toAppError(err, input.Section, input.Section)
	}
	s, err := uc.sessions.Get(ctx, input.OwnerID)
	if err != nil {
		return nil, toAppError(err, input.Section, input.OwnerID.String())
	}
	view := viewOf(sec, s)
	return &view, nil
}

type AddEntryInput struct {
	OwnerID uuid.UUID
	Section string
}

type EntryOutput struct {
	ID      string             `json:"id"`
	Entry   any                `json:"entry"`
	Open    bool               `json:"open"`
	Issues  []collection.Issue `json:"issues"`
	Section SectionView        `json:"section"`
}

// ExecuteAdd appends a blank entry and opens it for editing.
func (uc *EntryUseCase) ExecuteAdd(ctx context.Context, input AddEntryInput) (*EntryOutput, error) {
	sec, err := uc.sections.Get(input.Section)
	if err != nil {
		return nil, toAppError(err, input.Section, input.Section)
	}

	var id string
	var entry any
	s, err := uc.sessions.Update(ctx, input.OwnerID, func(s *studio.Session) error {
		id, entry = sec.Add(s.Portfolio, s.Disclosure(sec.Name()))
		s.MarkChanged(uc.now())
		return nil
	})
	if err != nil {
		return nil, toAppError(err, input.Section, input.OwnerID.String())
	}

	uc.metrics.ObserveEdit(string(sec.Name()), "add")
	return uc.entryOutput(sec, s, id, entry), nil
}

type UpdateEntryFieldInput struct {
	OwnerID uuid.UUID
	Section string
	EntryID string
	Field   string
	Value   any
}

func (uc *EntryUseCase) ExecuteUpdateField(ctx context.Context, input UpdateEntryFieldInput) (*EntryOutput, error) {
	sec, err := uc.sections.Get(input.Section)
	if err != nil {
		return nil, toAppError(err, input.Section, input.Section)
	}

	s, err := uc.sessions.Update(ctx, input.OwnerID, func(s *studio.Session) error {
		found, err := sec.Update(s.Portfolio, s.Disclosure(sec.Name()), input.EntryID, input.Field, input.Value)
		if err != nil {
			return err
		}
		if !found {
			return entryNotFound(sec.Name(), input.EntryID)
		}
		s.MarkChanged(uc.now())
		return nil
	})
	if err != nil {
		return nil, fieldError(err, input.Field, input.Section, input.OwnerID.String())
	}

	uc.metrics.ObserveEdit(string(sec.Name()), "update")
	entry, _ := sec.Entry(s.Portfolio, input.EntryID)
	return uc.entryOutput(sec, s, input.EntryID, entry), nil
}

type EntryRefInput struct {
	OwnerID uuid.UUID
	Section string
	EntryID string
}

func (uc *EntryUseCase) ExecuteRemove(ctx context.Context, input EntryRefInput) (*SectionView, error) {
	sec, err := uc.sections.Get(input.Section)
	if err != nil {
		return nil, toAppError(err, input.Section, input.Section)
	}

	s, err := uc.sessions.Update(ctx, input.OwnerID, func(s *studio.Session) error {
		if !sec.Remove(s.Portfolio, s.Disclosure(sec.Name()), input.EntryID) {
			return entryNotFound(sec.Name(), input.EntryID)
		}
		s.MarkChanged(uc.now())
		return nil
	})
	if err != nil {
		return nil, toAppError(err, input.Section, input.OwnerID.String())
	}

	uc.metrics.ObserveEdit(string(sec.Name()), "remove")
	view := viewOf(sec, s)
	return &view, nil
}

type ToggleOutput struct {
	ID   string `json:"id"`
	Open bool   `json:"open"`
}

// ExecuteToggle flips the open state of an entry. It never marks the draft
// as changed since disclosure state is not part of the portfolio.
func (uc *EntryUseCase) ExecuteToggle(ctx context.Context, input EntryRefInput) (*ToggleOutput, error) {
	sec, err := uc.sections.Get(input.Section)
	if err != nil {
		return nil, toAppError(err, input.Section, input.Section)
	}

	var open bool
	_, err = uc.sessions.Update(ctx, input.OwnerID, func(s *studio.Session) error {
		if _, ok := sec.Entry(s.Portfolio, input.EntryID); !ok {
			return entryNotFound(sec.Name(), input.EntryID)
		}
		open = sec.Toggle(s.Portfolio, s.Disclosure(sec.Name()), input.EntryID)
		return nil
	})
	if err != nil {
		return nil, toAppError(err, input.Section, input.OwnerID.String())
	}

	uc.metrics.ObserveEdit(string(sec.Name()), "toggle")
	return &ToggleOutput{ID: input.EntryID, Open: open}, nil
}

func (uc *EntryUseCase) entryOutput(sec portfolio.Section, s *studio.Session, id string, entry any) *EntryOutput {
	return &EntryOutput{
		ID:      id,
		Entry:   entry,
		Open:    s.Disclosure(sec.Name()).IsOpen(id),
		Issues:  sec.EntryIssues(s.Portfolio, id),
		Section: viewOf(sec, s),
	}
}
