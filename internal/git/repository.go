package git

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repository is a read-only handle over a local working copy.
type Repository struct {
	mu     sync.RWMutex
	path   string
	repo   *git.Repository
	closed bool
}

// Open opens the working copy at repoPath. It fails with ErrNotARepository
// when the path does not exist or is not a git repository.
func Open(repoPath string) (*Repository, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotARepository, repoPath)
	}

	repo, err := git.PlainOpen(abs)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotARepository, repoPath)
		}
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &Repository{path: abs, repo: repo}, nil
}

// Path returns the absolute path of the working copy
func (r *Repository) Path() string {
	return r.path
}

// Name returns the directory name of the working copy
func (r *Repository) Name() string {
	return filepath.Base(r.path)
}

// Close releases the underlying storage. Accessors fail with ErrClosed afterwards.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if c, ok := r.repo.Storer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// RemoteURL returns the first URL of the origin remote, or "" when there is none
func (r *Repository) RemoteURL() (string, error) {
	repo, err := r.open()
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(DefaultRemote)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", nil
	}
	return urls[0], nil
}

// Branches returns the sorted names of the local branches
func (r *Repository) Branches() ([]string, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}

	iter, err := repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer iter.Close()

	names := []string{}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

func (r *Repository) open() (*git.Repository, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, ErrClosed
	}
	return r.repo, nil
}

// head returns the HEAD commit, or nil when HEAD is unborn (no commits yet)
func (r *Repository) head() (*object.Commit, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}

	ref, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD commit: %w", err)
	}
	return commit, nil
}
