package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"git-repository-analyzer/internal/git"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)

type testRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	return &testRepo{t: t, dir: dir, repo: repo}
}

func (r *testRepo) commit(name, email string, when time.Time, files map[string]string) {
	r.t.Helper()

	w, err := r.repo.Worktree()
	require.NoError(r.t, err)

	for p, content := range files {
		full := filepath.Join(r.dir, filepath.FromSlash(p))
		require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(r.t, os.WriteFile(full, []byte(content), 0644))
		_, err := w.Add(p)
		require.NoError(r.t, err)
	}

	sig := &object.Signature{Name: name, Email: email, When: when}
	_, err = w.Commit("change by "+name, &gogit.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	})
	require.NoError(r.t, err)
}

func (r *testRepo) open() *git.Repository {
	r.t.Helper()

	h, err := git.Open(r.dir)
	require.NoError(r.t, err)
	r.t.Cleanup(func() { h.Close() })
	return h
}

func mustConfig(t *testing.T, opts Options) Configuration {
	t.Helper()

	if opts.RepositoryPath == "" {
		opts.RepositoryPath = "repo"
	}
	cfg, err := NewConfiguration(opts)
	require.NoError(t, err)
	return cfg
}
