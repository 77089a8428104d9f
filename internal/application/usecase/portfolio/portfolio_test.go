package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/career-studio/internal/application/service"
	"github.com/khoahotran/career-studio/internal/domain/portfolio"
	"github.com/khoahotran/career-studio/pkg/apperror"
	"github.com/khoahotran/career-studio/pkg/logger"
)

type memRepo struct {
	mu         sync.Mutex
	byOwner    map[uuid.UUID]*portfolio.Portfolio
	publicHits int
	listArgs   [2]int
}

func newMemRepo(ps ...*portfolio.Portfolio) *memRepo {
	r := &memRepo{byOwner: make(map[uuid.UUID]*portfolio.Portfolio)}
	for _, p := range ps {
		r.byOwner[p.OwnerID] = p
	}
	return r
}

func (r *memRepo) GetByOwner(_ context.Context, ownerID uuid.UUID) (*portfolio.Portfolio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byOwner[ownerID]
	if !ok {
		return nil, apperror.NewNotFound("portfolio", ownerID.String())
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) FindPublicBySlug(_ context.Context, slug string) (*portfolio.Portfolio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publicHits++
	for _, p := range r.byOwner {
		if p.Slug == slug && p.IsPublic {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("portfolio", slug)
}

func (r *memRepo) Upsert(_ context.Context, p *portfolio.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.byOwner[p.OwnerID] = &cp
	return nil
}

func (r *memRepo) SetSnapshotURL(_ context.Context, ownerID uuid.UUID, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byOwner[ownerID]
	if !ok {
		return apperror.NewNotFound("portfolio", ownerID.String())
	}
	if url == "" {
		p.SnapshotURL = nil
	} else {
		p.SnapshotURL = &url
	}
	return nil
}

func (r *memRepo) ListPublic(_ context.Context, limit, offset int) ([]portfolio.Summary, error) {
	r.listArgs = [2]int{limit, offset}
	return nil, nil
}

type mapCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
	failGet bool
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (c *mapCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return false, errors.New("connection refused")
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mapCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.data[key] = raw
	c.mu.Unlock()
	return nil
}

func (c *mapCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	c.deleted = append(c.deleted, keys...)
	return nil
}

type fakeStore struct {
	uploaded map[string][]byte
	deleted  []string
}

func (s *fakeStore) Upload(_ context.Context, body io.Reader, folder, name string) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if s.uploaded == nil {
		s.uploaded = make(map[string][]byte)
	}
	s.uploaded[folder+"/"+name] = raw
	return "https://cdn.example.com/" + folder + "/" + name + ".json", nil
}

func (s *fakeStore) Delete(_ context.Context, folder, name string) error {
	s.deleted = append(s.deleted, folder+"/"+name)
	return nil
}

func publicPortfolio(slug string) *portfolio.Portfolio {
	p := portfolio.New(uuid.New(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	p.Slug = slug
	p.IsPublic = true
	p.PersonalInfo.FullName = "Jane Doe"
	return p
}

func TestGetPublicPortfolio_ReadThrough(t *testing.T) {
	p := publicPortfolio("jane")
	repo := newMemRepo(p)
	cache := newMapCache()
	uc := NewGetPublicPortfolioUseCase(repo, cache, time.Minute, logger.NewNop())

	first, err := uc.Execute(context.Background(), GetPublicPortfolioInput{Slug: "jane"})
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := uc.Execute(context.Background(), GetPublicPortfolioInput{Slug: "jane"})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, repo.publicHits)

	if diff := cmp.Diff(first.Portfolio, second.Portfolio); diff != "" {
		t.Errorf("cached portfolio mismatch (-db +cache):\n%s", diff)
	}
}

func TestGetPublicPortfolio_CacheErrorFallsBack(t *testing.T) {
	repo := newMemRepo(publicPortfolio("jane"))
	cache := newMapCache()
	cache.failGet = true
	uc := NewGetPublicPortfolioUseCase(repo, cache, time.Minute, logger.NewNop())

	out, err := uc.Execute(context.Background(), GetPublicPortfolioInput{Slug: "jane"})
	require.NoError(t, err)
	assert.Equal(t, "jane", out.Portfolio.Slug)
}

func TestGetPublicPortfolio_PrivateIsNotFound(t *testing.T) {
	p := publicPortfolio("jane")
	p.IsPublic = false
	uc := NewGetPublicPortfolioUseCase(newMemRepo(p), newMapCache(), time.Minute, logger.NewNop())

	_, err := uc.Execute(context.Background(), GetPublicPortfolioInput{Slug: "jane"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListPublicPortfolios_Paging(t *testing.T) {
	repo := newMemRepo()
	uc := NewListPublicPortfoliosUseCase(repo)

	out, err := uc.Execute(context.Background(), ListPublicPortfoliosInput{Page: 3, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, out.Limit)
	assert.Equal(t, [2]int{maxPageSize, 2 * maxPageSize}, repo.listArgs)
	assert.NotNil(t, out.Portfolios)

	out, err = uc.Execute(context.Background(), ListPublicPortfoliosInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 10, out.Limit)
}

func TestFeed_NewestFirst(t *testing.T) {
	p := publicPortfolio("jane")
	p.Projects = []portfolio.Project{{ID: "p1", Name: "Studio", URL: "https://studio.dev", StartDate: "2023-05"}}
	p.Experience = []portfolio.Experience{{ID: "e1", Company: "Acme", Position: "Engineer", StartDate: "2024-02"}}
	p.Certificates = []portfolio.Certificate{{ID: "c1", Name: "CKA", Issuer: "CNCF", IssueDate: "bad"}}
	p.UpdatedAt = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	uc := NewFeedUseCase(newMemRepo(p), "https://career.example.com/", logger.NewNop())
	feed, err := uc.Execute(context.Background(), FeedInput{Slug: "jane"})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", feed.Title)
	assert.Equal(t, "https://career.example.com/p/jane", feed.Link.Href)
	require.Len(t, feed.Items, 3)
	assert.Equal(t, "Engineer at Acme", feed.Items[0].Title)
	assert.Equal(t, "https://studio.dev", feed.Items[1].Link.Href)
	assert.Equal(t, p.UpdatedAt, feed.Items[2].Created)

	rss, err := feed.ToRss()
	require.NoError(t, err)
	assert.Contains(t, rss, "<title>Studio</title>")
}

func TestPublishSnapshot_UploadsAndInvalidates(t *testing.T) {
	p := publicPortfolio("jane")
	repo := newMemRepo(p)
	store := &fakeStore{}
	cache := newMapCache()
	uc := NewPublishSnapshotUseCase(repo, store, cache, "portfolios/snapshots", logger.NewNop())

	err := uc.Execute(context.Background(), service.PortfolioEvent{
		EventType: service.PortfolioEventSaved, OwnerID: p.OwnerID, Slug: "jane",
	})
	require.NoError(t, err)

	raw, ok := store.uploaded["portfolios/snapshots/"+p.OwnerID.String()]
	require.True(t, ok)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, "jane", snap.Portfolio.Slug)

	saved, err := repo.GetByOwner(context.Background(), p.OwnerID)
	require.NoError(t, err)
	require.NotNil(t, saved.SnapshotURL)
	assert.Contains(t, *saved.SnapshotURL, p.OwnerID.String())
	assert.Equal(t, []string{portfolio.PublicCacheKey("jane")}, cache.deleted)
}

func TestPublishSnapshot_InvalidatesRenamedSlug(t *testing.T) {
	p := publicPortfolio("bob")
	cache := newMapCache()
	uc := NewPublishSnapshotUseCase(newMemRepo(p), &fakeStore{}, cache, "snaps", logger.NewNop())

	require.NoError(t, uc.Execute(context.Background(), service.PortfolioEvent{
		EventType: service.PortfolioEventSaved, OwnerID: p.OwnerID, Slug: "bob", PreviousSlug: "alice",
	}))

	assert.ElementsMatch(t, []string{portfolio.PublicCacheKey("bob"), portfolio.PublicCacheKey("alice")}, cache.deleted)
}

func TestPublishSnapshot_WithdrawsPrivatePortfolio(t *testing.T) {
	p := publicPortfolio("jane")
	p.IsPublic = false
	url := "https://cdn.example.com/old.json"
	p.SnapshotURL = &url
	repo := newMemRepo(p)
	store := &fakeStore{}
	uc := NewPublishSnapshotUseCase(repo, store, newMapCache(), "snaps", logger.NewNop())

	require.NoError(t, uc.Execute(context.Background(), service.PortfolioEvent{
		EventType: service.PortfolioEventSaved, OwnerID: p.OwnerID,
	}))

	assert.Equal(t, []string{"snaps/" + p.OwnerID.String()}, store.deleted)
	saved, _ := repo.GetByOwner(context.Background(), p.OwnerID)
	assert.Nil(t, saved.SnapshotURL)
}

func TestPublishSnapshot_SkipsUnknownOwner(t *testing.T) {
	store := &fakeStore{}
	uc := NewPublishSnapshotUseCase(newMemRepo(), store, newMapCache(), "snaps", logger.NewNop())

	err := uc.Execute(context.Background(), service.PortfolioEvent{
		EventType: service.PortfolioEventSaved, OwnerID: uuid.New(),
	})
	assert.NoError(t, err)
	assert.Empty(t, store.uploaded)
}
