package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"git-repository-analyzer/internal/git"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// lease tracks the requests still reading from a handle. A retired handle is
// closed by the last Release instead of by the switch that retired it.
type lease struct {
	repo    *git.Repository
	refs    int
	retired bool
}

// Manager owns the open repository handle of every session. Selections are
// persisted through the Store; handles stay local to the process.
type Manager struct {
	mu      sync.Mutex
	store   Store
	handles map[string]*lease
	logger  *zap.Logger
}

func NewManager(store Store, logger *zap.Logger) *Manager {
	return &Manager{
		store:   store,
		handles: make(map[string]*lease),
		logger:  logger,
	}
}

// Begin starts a new session with no selection and returns its id
func (m *Manager) Begin(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := m.store.Save(ctx, id, Selection{UpdatedAt: time.Now().UTC()}); err != nil {
		return "", fmt.Errorf("failed to begin session: %w", err)
	}
	m.logger.Debug("Session started", zap.String("session_id", id))
	return id, nil
}

// Select opens repo for the session and retires the previously selected handle.
// When repo cannot be opened the previous selection is kept.
func (m *Manager) Select(ctx context.Context, id string, repo git.LocalRepository) (*git.Repository, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.load(ctx, id); err != nil {
		return nil, err
	}

	if abs, err := filepath.Abs(repo.Path); err == nil {
		if current, ok := m.handles[id]; ok && current.repo.Path() == abs {
			return current.repo, nil
		}
	}

	handle, err := git.Open(repo.Path)
	if err != nil {
		return nil, err
	}

	sel := Selection{Repository: repo.Name, Path: repo.Path, UpdatedAt: time.Now().UTC()}
	if err := m.store.Save(ctx, id, sel); err != nil {
		handle.Close()
		return nil, fmt.Errorf("failed to save selection: %w", err)
	}

	m.closeHandle(id)
	m.handles[id] = &lease{repo: handle}
	m.logger.Info("Repository selected", zap.String("session_id", id), zap.String("repository", repo.Name))
	return handle, nil
}

// Acquire returns the session's handle and selection and holds the handle open
// until release is called, even if the session switches repositories or ends
// in the meantime. The handle is nil when nothing is selected. release is
// never nil and must be called exactly once.
func (m *Manager) Acquire(ctx context.Context, id string) (*git.Repository, Selection, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sel, err := m.load(ctx, id)
	if err != nil {
		return nil, Selection{}, func() {}, err
	}

	l, ok := m.handles[id]
	if !ok {
		if sel.Path == "" {
			return nil, sel, func() {}, nil
		}
		handle, err := git.Open(sel.Path)
		if err != nil {
			return nil, sel, func() {}, err
		}
		l = &lease{repo: handle}
		m.handles[id] = l
	}

	l.refs++
	var once sync.Once
	return l.repo, sel, func() { once.Do(func() { m.release(id, l) }) }, nil
}

// Current is Acquire without a lease. The returned handle may be closed by a
// concurrent Select or End on the same session.
func (m *Manager) Current(ctx context.Context, id string) (*git.Repository, Selection, error) {
	handle, sel, release, err := m.Acquire(ctx, id)
	release()
	return handle, sel, err
}

// End closes the session's handle and forgets the session
func (m *Manager) End(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeHandle(id)
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	m.logger.Debug("Session ended", zap.String("session_id", id))
	return nil
}

// Sweep closes the handles of sessions that expired in the store without
// coming back, and returns how many were closed.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	closed := 0
	for id := range m.handles {
		live, err := m.store.Exists(ctx, id)
		if err != nil {
			return closed, fmt.Errorf("failed to sweep sessions: %w", err)
		}
		if !live {
			m.closeHandle(id)
			closed++
		}
	}
	if closed > 0 {
		m.logger.Info("Closed repositories of expired sessions", zap.Int("count", closed))
	}
	return closed, nil
}

// Close releases every open handle. Persisted selections are kept.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for id, l := range m.handles {
		if err := l.repo.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(m.handles, id)
	}
	return errors.Join(errs...)
}

// OpenHandles returns the number of sessions holding an open repository
func (m *Manager) OpenHandles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handles)
}

// load reads the selection of id. A session the store no longer knows loses
// its handle here.
func (m *Manager) load(ctx context.Context, id string) (Selection, error) {
	sel, err := m.store.Load(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		m.closeHandle(id)
	}
	return sel, err
}

// closeHandle detaches the session's handle. A leased handle is closed by its
// last release.
func (m *Manager) closeHandle(id string) {
	l, ok := m.handles[id]
	if !ok {
		return
	}
	delete(m.handles, id)

	if l.refs > 0 {
		l.retired = true
		return
	}
	m.closeRepo(id, l.repo)
}

func (m *Manager) release(id string, l *lease) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l.refs--
	if l.retired && l.refs == 0 {
		m.closeRepo(id, l.repo)
	}
}

func (m *Manager) closeRepo(id string, repo *git.Repository) {
	if err := repo.Close(); err != nil {
		m.logger.Warn("Failed to close repository", zap.String("session_id", id), zap.Error(err))
	}
}
