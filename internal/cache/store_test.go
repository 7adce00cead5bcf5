package cache

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reposcout/internal/domain"
	"reposcout/internal/eventbus"
)

func testRepos() []domain.Repo {
	return []domain.Repo{
		{ID: 3, Name: "gamma", URL: "https://example.com/gamma", OwnerLogin: "carol"},
		{ID: 1, Name: "alpha", URL: "https://example.com/alpha", OwnerLogin: "alice"},
		{ID: 2, Name: "beta", URL: "https://example.com/beta", OwnerLogin: "bob"},
	}
}

func TestReplaceAllPreservesInsertionOrder(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.ReplaceAll(ctx, testRepos()))

	got, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{got[0].ID, got[1].ID, got[2].ID},
		"read order must match insertion order, not key order")
	assert.Equal(t, "gamma", got[0].Name)
	assert.Equal(t, "carol", got[0].OwnerLogin)
}

func TestReplaceAllIsWholesale(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.ReplaceAll(ctx, testRepos()))
	require.NoError(t, store.ReplaceAll(ctx, []domain.Repo{
		{ID: 9, Name: "omega", URL: "https://example.com/omega", OwnerLogin: "zed"},
	}))

	got, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1, "replace must clear prior contents, not merge")
	assert.Equal(t, int64(9), got[0].ID)
}

func TestReplaceAllEmptyClearsStore(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.ReplaceAll(ctx, testRepos()))
	require.NoError(t, store.ReplaceAll(ctx, nil))

	got, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestContentsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	store, err := NewStore(path, nil)
	require.NoError(t, err)
	require.NoError(t, store.ReplaceAll(ctx, testRepos()))
	require.NoError(t, store.Close())

	reopened, err := NewStore(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.All(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestReplaceAllPublishesSnapshot(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	var mu sync.Mutex
	var published []domain.Repo
	bus.Subscribe(eventbus.EventResultsCached, func(e eventbus.DomainEvent) {
		event, ok := e.(eventbus.ResultsCachedEvent)
		if !ok {
			return
		}
		mu.Lock()
		published = event.Repos
		mu.Unlock()
	})

	store, err := NewStore(filepath.Join(t.TempDir(), "cache.db"), bus)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.ReplaceAll(context.Background(), testRepos()))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(published) == 3
	}, 2*time.Second, 10*time.Millisecond)
	mu.Lock()
	assert.Equal(t, int64(3), published[0].ID)
	mu.Unlock()
}
