package studio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/career-studio/adapters/persistence"
	"github.com/khoahotran/career-studio/internal/application/service"
	"github.com/khoahotran/career-studio/internal/domain/collection"
	"github.com/khoahotran/career-studio/internal/domain/portfolio"
	"github.com/khoahotran/career-studio/internal/domain/studio"
	"github.com/khoahotran/career-studio/pkg/apperror"
	"github.com/khoahotran/career-studio/pkg/logger"
)

type fakeRepo struct {
	mu      sync.Mutex
	byOwner map[uuid.UUID]portfolio.Portfolio
	upserts int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byOwner: make(map[uuid.UUID]portfolio.Portfolio)}
}

func (r *fakeRepo) GetByOwner(_ context.Context, ownerID uuid.UUID) (*portfolio.Portfolio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byOwner[ownerID]
	if !ok {
		return nil, apperror.NewNotFound("portfolio", ownerID.String())
	}
	return &p, nil
}

func (r *fakeRepo) FindPublicBySlug(_ context.Context, slug string) (*portfolio.Portfolio, error) {
	return nil, apperror.NewNotFound("portfolio", slug)
}

func (r *fakeRepo) Upsert(_ context.Context, p *portfolio.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for owner, other := range r.byOwner {
		if owner != p.OwnerID && p.Slug != "" && other.Slug == p.Slug {
			return apperror.NewConflict("portfolio", "slug", p.Slug)
		}
	}
	r.byOwner[p.OwnerID] = *p
	r.upserts++
	return nil
}

func (r *fakeRepo) SetSnapshotURL(context.Context, uuid.UUID, string) error { return nil }

func (r *fakeRepo) ListPublic(context.Context, int, int) ([]portfolio.Summary, error) {
	return nil, nil
}

type fakePublisher struct {
	events chan service.PortfolioEvent
}

func (p *fakePublisher) PublishPortfolioEvent(_ context.Context, ev service.PortfolioEvent) error {
	p.events <- ev
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	deleted []string
}

func (c *fakeCache) GetJSON(context.Context, string, any) (bool, error) { return false, nil }

func (c *fakeCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	c.deleted = append(c.deleted, keys...)
	c.mu.Unlock()
	return nil
}

type StudioUseCaseSuite struct {
	suite.Suite
	ctx       context.Context
	owner     uuid.UUID
	repo      *fakeRepo
	sessions  studio.Store
	publisher *fakePublisher
	cache     *fakeCache

	session  *SessionUseCase
	entries  *EntryUseCase
	settings *SettingsUseCase
	review   *ReviewDraftUseCase
	save     *SaveDraftUseCase
}

func (s *StudioUseCaseSuite) SetupTest() {
	s.ctx = context.Background()
	s.owner = uuid.New()
	s.repo = newFakeRepo()
	s.sessions = persistence.NewMemorySessionStore()
	s.publisher = &fakePublisher{events: make(chan service.PortfolioEvent, 4)}
	s.cache = &fakeCache{}

	sections := portfolio.NewSections(collection.NewTimestampIDs())
	log := logger.NewNop()
	s.session = NewSessionUseCase(s.repo, s.sessions, sections, log)
	s.entries = NewEntryUseCase(s.sessions, sections, nil)
	s.settings = NewSettingsUseCase(s.sessions, nil)
	s.review = NewReviewDraftUseCase(s.sessions, sections)
	s.save = NewSaveDraftUseCase(s.repo, s.sessions, s.publisher, s.cache, log)
}

func TestStudioUseCases(t *testing.T) {
	suite.Run(t, new(StudioUseCaseSuite))
}

func (s *StudioUseCaseSuite) start() {
	_, err := s.session.ExecuteStart(s.ctx, StartSessionInput{OwnerID: s.owner})
	s.Require().NoError(err)
}

func (s *StudioUseCaseSuite) TestStartWithoutSavedPortfolio() {
	out, err := s.session.ExecuteStart(s.ctx, StartSessionInput{OwnerID: s.owner})
	s.Require().NoError(err)
	s.Equal(portfolio.DefaultTheme, out.Session.Portfolio.Theme)
	s.Empty(out.Session.Portfolio.Education)
	s.False(out.Session.Dirty)
}

func (s *StudioUseCaseSuite) TestEditingWithoutSessionIsNotFound() {
	_, err := s.entries.ExecuteAdd(s.ctx, AddEntryInput{OwnerID: s.owner, Section: "education"})
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *StudioUseCaseSuite) TestEducationScenario() {
	s.start()

	added, err := s.entries.ExecuteAdd(s.ctx, AddEntryInput{OwnerID: s.owner, Section: "education"})
	s.Require().NoError(err)
	s.True(added.Open)
	s.Equal([]string{added.ID}, added.Section.Open)

	updated, err := s.entries.ExecuteUpdateField(s.ctx, UpdateEntryFieldInput{
		OwnerID: s.owner, Section: "education", EntryID: added.ID, Field: "degree", Value: "B.Sc.",
	})
	s.Require().NoError(err)
	s.Equal(portfolio.Education{ID: added.ID, Degree: "B.Sc."}, updated.Entry)

	view, err := s.entries.ExecuteRemove(s.ctx, EntryRefInput{OwnerID: s.owner, Section: "education", EntryID: added.ID})
	s.Require().NoError(err)
	s.Empty(view.Entries)
	s.Empty(view.Open)

	got, err := s.session.ExecuteGet(s.ctx, GetSessionInput{OwnerID: s.owner})
	s.Require().NoError(err)
	s.True(got.Session.Dirty)
	s.Empty(got.Session.Portfolio.Education)
}

func (s *StudioUseCaseSuite) TestUnknownSectionFieldAndEntry() {
	s.start()

	_, err := s.entries.ExecuteAdd(s.ctx, AddEntryInput{OwnerID: s.owner, Section: "hobbies"})
	s.ErrorIs(err, apperror.ErrNotFound)

	added, err := s.entries.ExecuteAdd(s.ctx, AddEntryInput{OwnerID: s.owner, Section: "skills"})
	s.Require().NoError(err)

	_, err = s.entries.ExecuteUpdateField(s.ctx, UpdateEntryFieldInput{
		OwnerID: s.owner, Section: "skills", EntryID: added.ID, Field: "color", Value: "red",
	})
	s.ErrorIs(err, apperror.ErrInvalidInput)

	_, err = s.entries.ExecuteUpdateField(s.ctx, UpdateEntryFieldInput{
		OwnerID: s.owner, Section: "skills", EntryID: "missing", Field: "name", Value: "Go",
	})
	s.ErrorIs(err, apperror.ErrNotFound)

	_, err = s.entries.ExecuteToggle(s.ctx, EntryRefInput{OwnerID: s.owner, Section: "skills", EntryID: "missing"})
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *StudioUseCaseSuite) TestToggleDoesNotDirtyDraft() {
	s.start()
	added, err := s.entries.ExecuteAdd(s.ctx, AddEntryInput{OwnerID: s.owner, Section: "projects"})
	s.Require().NoError(err)
	_, err = s.save.Execute(s.ctx, SaveDraftInput{OwnerID: s.owner})
	s.Require().NoError(err)

	out, err := s.entries.ExecuteToggle(s.ctx, EntryRefInput{OwnerID: s.owner, Section: "projects", EntryID: added.ID})
	s.Require().NoError(err)
	s.False(out.Open)

	got, err := s.session.ExecuteGet(s.ctx, GetSessionInput{OwnerID: s.owner})
	s.Require().NoError(err)
	s.False(got.Session.Dirty)
	s.False(got.Session.Disclosure(portfolio.SectionProjects).IsOpen(added.ID))
}

func (s *StudioUseCaseSuite) TestSettings() {
	s.start()

	personal, err := s.settings.ExecuteUpdatePersonalField(s.ctx, UpdatePersonalFieldInput{
		OwnerID: s.owner, Field: "full_name", Value: "Jane Doe",
	})
	s.Require().NoError(err)
	s.Equal("Jane Doe", personal.PersonalInfo.FullName)
	s.Empty(personal.Issues)

	theme, err := s.settings.ExecuteSelectTheme(s.ctx, SelectThemeInput{OwnerID: s.owner, Theme: " Modern "})
	s.Require().NoError(err)
	s.Equal(portfolio.ThemeModern, theme.Theme)

	_, err = s.settings.ExecuteSelectTheme(s.ctx, SelectThemeInput{OwnerID: s.owner, Theme: "neon"})
	s.ErrorIs(err, apperror.ErrInvalidInput)

	_, err = s.settings.ExecuteUpdatePublishing(s.ctx, UpdatePublishingInput{OwnerID: s.owner, Slug: "Jane Doe", IsPublic: true})
	s.ErrorIs(err, apperror.ErrInvalidInput)

	_, err = s.settings.ExecuteUpdatePublishing(s.ctx, UpdatePublishingInput{OwnerID: s.owner, IsPublic: true})
	s.ErrorIs(err, apperror.ErrInvalidInput)

	pub, err := s.settings.ExecuteUpdatePublishing(s.ctx, UpdatePublishingInput{OwnerID: s.owner, Slug: "jane-doe", IsPublic: true})
	s.Require().NoError(err)
	s.Equal(PublishingOutput{Slug: "jane-doe", IsPublic: true}, *pub)
}

func (s *StudioUseCaseSuite) TestReviewReportsIssuesWithoutBlocking() {
	s.start()
	added, err := s.entries.ExecuteAdd(s.ctx, AddEntryInput{OwnerID: s.owner, Section: "social_links"})
	s.Require().NoError(err)
	_, err = s.entries.ExecuteUpdateField(s.ctx, UpdateEntryFieldInput{
		OwnerID: s.owner, Section: "social_links", EntryID: added.ID, Field: "url", Value: "not a url",
	})
	s.Require().NoError(err)

	out, err := s.review.Execute(s.ctx, ReviewDraftInput{OwnerID: s.owner})
	s.Require().NoError(err)
	s.Empty(out.Blocking)
	s.True(out.Dirty)
	s.Contains(out.Review.Sections, portfolio.SectionSocialLinks)

	_, err = s.save.Execute(s.ctx, SaveDraftInput{OwnerID: s.owner})
	s.NoError(err)
}

func (s *StudioUseCaseSuite) TestSavePersistsAndPublishes() {
	s.start()
	_, err := s.settings.ExecuteUpdatePublishing(s.ctx, UpdatePublishingInput{OwnerID: s.owner, Slug: "jane", IsPublic: true})
	s.Require().NoError(err)

	out, err := s.save.Execute(s.ctx, SaveDraftInput{OwnerID: s.owner})
	s.Require().NoError(err)
	s.Equal("jane", out.Portfolio.Slug)
	s.Equal(1, s.repo.upserts)

	select {
	case ev := <-s.publisher.events:
		s.Equal(service.PortfolioEventSaved, ev.EventType)
		s.Equal(s.owner, ev.OwnerID)
		s.Equal("jane", ev.Slug)
	case <-time.After(time.Second):
		s.Fail("portfolio saved event was not published")
	}
	s.Contains(s.cache.deleted, portfolio.PublicCacheKey("jane"))

	got, err := s.session.ExecuteGet(s.ctx, GetSessionInput{OwnerID: s.owner})
	s.Require().NoError(err)
	s.False(got.Session.Dirty)

	// restarting loads the saved portfolio
	restarted, err := s.session.ExecuteStart(s.ctx, StartSessionInput{OwnerID: s.owner})
	s.Require().NoError(err)
	s.Equal("jane", restarted.Session.Portfolio.Slug)
}

func (s *StudioUseCaseSuite) saveAndDrain() service.PortfolioEvent {
	_, err := s.save.Execute(s.ctx, SaveDraftInput{OwnerID: s.owner})
	s.Require().NoError(err)
	select {
	case ev := <-s.publisher.events:
		return ev
	case <-time.After(time.Second):
		s.FailNow("portfolio saved event was not published")
	}
	return service.PortfolioEvent{}
}

func (s *StudioUseCaseSuite) TestSaveAfterRenameInvalidatesOldSlug() {
	s.start()
	_, err := s.settings.ExecuteUpdatePublishing(s.ctx, UpdatePublishingInput{OwnerID: s.owner, Slug: "alice", IsPublic: true})
	s.Require().NoError(err)
	first := s.saveAndDrain()
	s.Empty(first.PreviousSlug)

	_, err = s.settings.ExecuteUpdatePublishing(s.ctx, UpdatePublishingInput{OwnerID: s.owner, Slug: "bob", IsPublic: true})
	s.Require().NoError(err)
	s.cache.deleted = nil
	renamed := s.saveAndDrain()

	s.ElementsMatch([]string{portfolio.PublicCacheKey("bob"), portfolio.PublicCacheKey("alice")}, s.cache.deleted)
	s.Equal("bob", renamed.Slug)
	s.Equal("alice", renamed.PreviousSlug)

	s.cache.deleted = nil
	again := s.saveAndDrain()
	s.Equal([]string{portfolio.PublicCacheKey("bob")}, s.cache.deleted)
	s.Empty(again.PreviousSlug)
}

func (s *StudioUseCaseSuite) TestSaveSlugConflict() {
	other := portfolio.New(uuid.New(), time.Now())
	other.Slug = "taken"
	s.Require().NoError(s.repo.Upsert(s.ctx, other))

	s.start()
	_, err := s.settings.ExecuteUpdatePublishing(s.ctx, UpdatePublishingInput{OwnerID: s.owner, Slug: "taken"})
	s.Require().NoError(err)

	_, err = s.save.Execute(s.ctx, SaveDraftInput{OwnerID: s.owner})
	s.ErrorIs(err, apperror.ErrConflict)
}

func (s *StudioUseCaseSuite) TestDiscard() {
	s.start()
	s.Require().NoError(s.session.ExecuteDiscard(s.ctx, DiscardSessionInput{OwnerID: s.owner}))
	_, err := s.session.ExecuteGet(s.ctx, GetSessionInput{OwnerID: s.owner})
	s.ErrorIs(err, apperror.ErrNotFound)
}

func TestListSchemas(t *testing.T) {
	uc := NewSessionUseCase(newFakeRepo(), persistence.NewMemorySessionStore(), portfolio.NewSections(nil), logger.NewNop())
	out := uc.ExecuteListSchemas()

	require.Len(t, out.Order, 6)
	assert.Equal(t, portfolio.SectionEducation, out.Order[0])
	assert.Equal(t, "education", out.Sections[portfolio.SectionEducation].Entity)
	assert.Equal(t, portfolio.Themes, out.Themes)
	assert.Equal(t, "personal_info", out.PersonalInfo.Entity)
}
