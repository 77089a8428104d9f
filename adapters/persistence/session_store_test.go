package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/khoahotran/career-studio/internal/domain/portfolio"
	"github.com/khoahotran/career-studio/internal/domain/studio"
)

func newTestSession(owner uuid.UUID) *studio.Session {
	now := time.Now().UTC()
	s := studio.NewSession(portfolio.New(owner, now), now)
	s.Disclosure(portfolio.SectionEducation).Open("e1")
	return s
}

// exerciseStore runs the behaviour every session store must share.
func exerciseStore(t *testing.T, store studio.Store) {
	ctx := context.Background()
	owner := uuid.New()

	_, err := store.Get(ctx, owner)
	require.ErrorIs(t, err, studio.ErrSessionNotFound)

	_, err = store.Update(ctx, owner, func(*studio.Session) error { return nil })
	require.ErrorIs(t, err, studio.ErrSessionNotFound)

	require.NoError(t, store.Put(ctx, newTestSession(owner)))

	got, err := store.Get(ctx, owner)
	require.NoError(t, err)
	assert.True(t, got.Disclosure(portfolio.SectionEducation).IsOpen("e1"))
	assert.Equal(t, portfolio.DefaultTheme, got.Portfolio.Theme)

	boom := errors.New("boom")
	_, err = store.Update(ctx, owner, func(s *studio.Session) error {
		s.Portfolio.Theme = portfolio.ThemeCreative
		return boom
	})
	require.ErrorIs(t, err, boom)
	got, err = store.Get(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, portfolio.DefaultTheme, got.Portfolio.Theme)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Update(ctx, owner, func(s *studio.Session) error {
				s.Portfolio.Skills = append(s.Portfolio.Skills, portfolio.Skill{ID: fmt.Sprint(i)})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err = store.Get(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, got.Portfolio.Skills, 4)

	require.NoError(t, store.Delete(ctx, owner))
	_, err = store.Get(ctx, owner)
	assert.ErrorIs(t, err, studio.ErrSessionNotFound)
}

func TestMemorySessionStore(t *testing.T) {
	exerciseStore(t, NewMemorySessionStore())
}

func TestMemorySessionStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()
	owner := uuid.New()
	require.NoError(t, store.Put(ctx, newTestSession(owner)))

	got, err := store.Get(ctx, owner)
	require.NoError(t, err)
	got.Portfolio.Slug = "changed"

	again, err := store.Get(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, again.Portfolio.Slug)
}

func TestRedisSessionStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = rdb.Close() })

	exerciseStore(t, NewRedisSessionStore(rdb, time.Minute))

	cache := NewRedisCache(rdb)
	hit, err := cache.GetJSON(ctx, "missing", &struct{}{})
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.SetJSON(ctx, "k", map[string]string{"a": "b"}, time.Minute))
	var out map[string]string
	hit, err = cache.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "b", out["a"])
	require.NoError(t, cache.Del(ctx, "k"))
}
