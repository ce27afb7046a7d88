package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"git-repository-analyzer/internal/config"
	"git-repository-analyzer/internal/git"
	"git-repository-analyzer/internal/redis"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func localRepo(t *testing.T, name string) git.LocalRepository {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "gr01", name)
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	return git.LocalRepository{Name: "gr01/" + name, Group: "gr01", Repo: name, Path: dir}
}

func TestManager_SelectSwitchClosesPrevious(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(time.Hour), zaptest.NewLogger(t))
	defer m.Close()

	id, err := m.Begin(ctx)
	require.NoError(t, err)

	first, err := m.Select(ctx, id, localRepo(t, "alpha"))
	require.NoError(t, err)

	again, err := m.Select(ctx, id, git.LocalRepository{Name: "gr01/alpha", Path: first.Path()})
	require.NoError(t, err)
	assert.Same(t, first, again, "reselecting keeps the open handle")

	second, err := m.Select(ctx, id, localRepo(t, "beta"))
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	_, err = first.Branches()
	assert.ErrorIs(t, err, git.ErrClosed)

	current, sel, err := m.Current(ctx, id)
	require.NoError(t, err)
	assert.Same(t, second, current)
	assert.Equal(t, "gr01/beta", sel.Repository)
}

func TestManager_SelectInvalidKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(time.Hour), zaptest.NewLogger(t))
	defer m.Close()

	id, err := m.Begin(ctx)
	require.NoError(t, err)
	handle, err := m.Select(ctx, id, localRepo(t, "alpha"))
	require.NoError(t, err)

	_, err = m.Select(ctx, id, git.LocalRepository{Name: "gr01/plain", Path: t.TempDir()})
	assert.ErrorIs(t, err, git.ErrNotARepository)

	current, sel, err := m.Current(ctx, id)
	require.NoError(t, err)
	assert.Same(t, handle, current)
	assert.Equal(t, "gr01/alpha", sel.Repository)
}

func TestManager_End(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(time.Hour), zaptest.NewLogger(t))

	id, err := m.Begin(ctx)
	require.NoError(t, err)
	handle, err := m.Select(ctx, id, localRepo(t, "alpha"))
	require.NoError(t, err)

	require.NoError(t, m.End(ctx, id))

	_, err = handle.Branches()
	assert.ErrorIs(t, err, git.ErrClosed)
	_, _, err = m.Current(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Select(ctx, id, localRepo(t, "beta"))
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_CloseReopensFromStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	m := NewManager(store, zaptest.NewLogger(t))

	id, err := m.Begin(ctx)
	require.NoError(t, err)
	handle, err := m.Select(ctx, id, localRepo(t, "alpha"))
	require.NoError(t, err)

	require.NoError(t, m.Close())
	_, err = handle.Branches()
	assert.ErrorIs(t, err, git.ErrClosed)

	restarted := NewManager(store, zaptest.NewLogger(t))
	defer restarted.Close()

	reopened, sel, err := restarted.Current(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, reopened)
	assert.Equal(t, handle.Path(), reopened.Path())
	assert.Equal(t, "gr01/alpha", sel.Repository)
}

func TestManager_CurrentWithoutSelection(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(time.Hour), zaptest.NewLogger(t))

	id, err := m.Begin(ctx)
	require.NoError(t, err)

	handle, sel, err := m.Current(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, handle)
	assert.Empty(t, sel.Repository)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "a", Selection{Repository: "gr01/x"}))

	now = now.Add(30 * time.Second)
	_, err := s.Load(ctx, "a")
	require.NoError(t, err)

	// Load refreshed the ttl
	now = now.Add(45 * time.Second)
	_, err = s.Load(ctx, "a")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = s.Load(ctx, "a")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

// expiringManager returns a manager over a memory store whose clock the
// returned func advances
func expiringManager(t *testing.T, ttl time.Duration) (*Manager, func(time.Duration)) {
	t.Helper()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(ttl)
	store.now = func() time.Time { return now }

	m := NewManager(store, zaptest.NewLogger(t))
	t.Cleanup(func() { m.Close() })
	return m, func(d time.Duration) { now = now.Add(d) }
}

func TestManager_ExpiredSessionClosesHandle(t *testing.T) {
	ctx := context.Background()
	m, advance := expiringManager(t, time.Hour)

	id, err := m.Begin(ctx)
	require.NoError(t, err)
	handle, err := m.Select(ctx, id, localRepo(t, "alpha"))
	require.NoError(t, err)

	advance(2 * time.Hour)

	_, _, err = m.Current(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, m.OpenHandles())

	_, err = handle.Branches()
	assert.ErrorIs(t, err, git.ErrClosed)
}

func TestManager_SweepClosesAbandonedHandles(t *testing.T) {
	ctx := context.Background()
	m, advance := expiringManager(t, time.Hour)

	stale, err := m.Begin(ctx)
	require.NoError(t, err)
	abandoned, err := m.Select(ctx, stale, localRepo(t, "alpha"))
	require.NoError(t, err)

	advance(30 * time.Minute)
	live, err := m.Begin(ctx)
	require.NoError(t, err)
	kept, err := m.Select(ctx, live, localRepo(t, "beta"))
	require.NoError(t, err)

	advance(45 * time.Minute)
	closed, err := m.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	assert.Equal(t, 1, m.OpenHandles())

	_, err = abandoned.Branches()
	assert.ErrorIs(t, err, git.ErrClosed)
	_, err = kept.Branches()
	assert.NoError(t, err)
}

func TestManager_LeaseOutlivesSwitch(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(time.Hour), zaptest.NewLogger(t))
	defer m.Close()

	id, err := m.Begin(ctx)
	require.NoError(t, err)
	_, err = m.Select(ctx, id, localRepo(t, "alpha"))
	require.NoError(t, err)

	leased, sel, release, err := m.Acquire(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "gr01/alpha", sel.Repository)

	next, err := m.Select(ctx, id, localRepo(t, "beta"))
	require.NoError(t, err)

	_, err = leased.Branches()
	assert.NoError(t, err, "a leased handle stays open across a switch")

	release()
	release()
	_, err = leased.Branches()
	assert.ErrorIs(t, err, git.ErrClosed)

	_, err = next.Branches()
	assert.NoError(t, err)
}

func TestMemoryStore_ExistsKeepsTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, "a", Selection{}))

	now = now.Add(45 * time.Second)
	ok, err := s.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(30 * time.Second)
	ok, err = s.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "Exists must not refresh the ttl")

	ok, err = s.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	client, err := redis.NewClient(ctx, config.RedisConfig{
		Address:   "localhost:6379",
		KeyPrefix: "git_analyzer:test:session:",
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Skipf("Skipping test: Redis not available: %v", err)
	}
	defer client.Close()

	s := NewRedisStore(client, time.Minute)
	sel := Selection{Repository: "gr01/demo", Path: "/tmp/gr01/demo", UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	require.NoError(t, s.Save(ctx, "redis-test", sel))
	loaded, err := s.Load(ctx, "redis-test")
	require.NoError(t, err)
	assert.Equal(t, sel, loaded)

	ok, err := s.Exists(ctx, "redis-test")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, "redis-test"))
	_, err = s.Load(ctx, "redis-test")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	ok, err = s.Exists(ctx, "redis-test")
	require.NoError(t, err)
	assert.False(t, ok)
}
