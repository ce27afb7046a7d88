package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit is a read-only projection of a commit object
type Commit struct {
	Hash        string
	AuthorName  string
	AuthorEmail string
	When        time.Time
	Summary     string
	Message     string

	commit *object.Commit
}

func newCommit(c *object.Commit) *Commit {
	msg := strings.TrimSpace(c.Message)
	summary := msg
	if i := strings.IndexByte(summary, '\n'); i >= 0 {
		summary = strings.TrimSpace(summary[:i])
	}

	return &Commit{
		Hash:        c.Hash.String(),
		AuthorName:  c.Author.Name,
		AuthorEmail: c.Author.Email,
		When:        c.Committer.When,
		Summary:     summary,
		Message:     msg,
		commit:      c,
	}
}

// FilesChanged returns the number of files touched by the commit relative to its first parent
func (c *Commit) FilesChanged() (int, error) {
	if c.commit == nil {
		return 0, nil
	}

	stats, err := c.commit.Stats()
	if err != nil {
		return 0, fmt.Errorf("failed to get stats for commit %s: %w", c.Hash, err)
	}
	return len(stats), nil
}

// CommitIter is a single-use iterator over commits, newest first.
// Next returns io.EOF once the range is exhausted.
type CommitIter struct {
	ctx  context.Context
	iter object.CommitIter
	done bool
}

// Next returns the next commit in the range
func (it *CommitIter) Next() (*Commit, error) {
	if it.done || it.iter == nil {
		return nil, io.EOF
	}

	if err := it.ctx.Err(); err != nil {
		it.Close()
		return nil, err
	}

	c, err := it.iter.Next()
	if err != nil {
		it.Close()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read commit: %w", err)
	}

	return newCommit(c), nil
}

// Close releases the iterator. It is safe to call more than once.
func (it *CommitIter) Close() {
	if it.done {
		return
	}
	it.done = true
	if it.iter != nil {
		it.iter.Close()
	}
}

// Commits returns the commits reachable from HEAD whose committer time falls
// in [since, until], in committer-time order, newest first. Zero bounds are open.
func (r *Repository) Commits(ctx context.Context, since, until time.Time) (*CommitIter, error) {
	if !since.IsZero() && !until.IsZero() && since.After(until) {
		return &CommitIter{ctx: ctx}, nil
	}

	head, err := r.head()
	if err != nil {
		return nil, err
	}
	if head == nil {
		return &CommitIter{ctx: ctx}, nil
	}

	repo, err := r.open()
	if err != nil {
		return nil, err
	}

	opts := &git.LogOptions{
		From:  head.Hash,
		Order: git.LogOrderCommitterTime,
	}
	if !since.IsZero() {
		opts.Since = &since
	}
	if !until.IsZero() {
		opts.Until = &until
	}

	iter, err := repo.Log(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit log: %w", err)
	}

	return &CommitIter{ctx: ctx, iter: iter}, nil
}
