package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-git/v5"
)

// Clone makes a full, non-bare clone of url into dir. A directory created by a
// failed clone is removed.
func Clone(ctx context.Context, url, dir string, progress io.Writer) error {
	_, statErr := os.Stat(dir)
	existed := statErr == nil

	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:      url,
		Progress: progress,
	})
	if err != nil {
		if !existed {
			_ = os.RemoveAll(dir)
		}
		return fmt.Errorf("%w: %s: %w", ErrCloneFailed, url, err)
	}
	return nil
}

// Update fast-forwards the working copy at dir from its origin remote.
// Being already up to date is not an error.
func Update(ctx context.Context, dir string, progress io.Writer) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return fmt.Errorf("%w: %s", ErrNotARepository, dir)
		}
		return fmt.Errorf("failed to open repository: %w", err)
	}

	w, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	err = w.PullContext(ctx, &git.PullOptions{
		RemoteName: DefaultRemote,
		Progress:   progress,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("%w: %s: %w", ErrPullFailed, dir, err)
	}
	return nil
}
