package downloader

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"git-repository-analyzer/internal/config"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func sourceRepo(t *testing.T, name string) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), name)
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# "+name+"\n"), 0644))

	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add("README.md")
	require.NoError(t, err)
	_, err = w.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "John Doe", Email: "john@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func newDownloader(t *testing.T, output string) *Downloader {
	return New(config.DownloadConfig{OutputDir: output, GroupFormat: "gr%02d"}, zaptest.NewLogger(t), nil)
}

func TestBatch(t *testing.T) {
	b := NewBatch("gr%02d")
	assert.Equal(t, "gr01", b.Next())
	assert.Equal(t, "gr02", b.Next())

	fresh := NewBatch("gr%02d")
	assert.Equal(t, "gr01", fresh.Next(), "every batch starts at 1")
}

func TestReadURLs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repos")
	content := "# team repositories\nhttps://github.com/a/one.git\n\n   \nhttps://github.com/a/two\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	urls, err := ReadURLs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com/a/one.git", "https://github.com/a/two"}, urls)

	_, err = ReadURLs(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestRepoName(t *testing.T) {
	tests := map[string]string{
		"https://github.com/org/project.git": "project",
		"https://github.com/org/project/":    "project",
		"git@github.com:org/tool.git":        "tool",
		"/srv/git/local":                     "local",
		"not a url":                          "not a url",
	}
	for url, want := range tests {
		assert.Equal(t, want, RepoName(url), url)
	}
}

func TestRun_EmptyList(t *testing.T) {
	output := filepath.Join(t.TempDir(), "downloads")

	summary, err := newDownloader(t, output).Run(context.Background(), []string{})
	require.NoError(t, err)

	assert.Equal(t, Summary{Results: []Result{}}, summary)
	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no directories are created for an empty list")
}

func TestRun_ValidAndMalformed(t *testing.T) {
	skipIfGitNotAvailable(t)

	src := sourceRepo(t, "analytics")
	output := filepath.Join(t.TempDir(), "downloads")

	summary, err := newDownloader(t, output).Run(context.Background(), []string{src, "not a url"})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Cloned)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Results, 2)

	assert.Equal(t, ActionCloned, summary.Results[0].Action)
	assert.DirExists(t, filepath.Join(output, "gr01", "analytics", ".git"))

	skipped := summary.Results[1]
	assert.Equal(t, "gr02", skipped.Group)
	assert.ErrorIs(t, skipped.Err, ErrDownloadSkipped)
	assert.NoDirExists(t, filepath.Join(output, "gr02"))
}

func TestRun_ExistingCopyIsUpdated(t *testing.T) {
	skipIfGitNotAvailable(t)

	src := sourceRepo(t, "service")
	output := filepath.Join(t.TempDir(), "downloads")
	d := newDownloader(t, output)

	first, err := d.Run(context.Background(), []string{src})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Cloned)

	second, err := d.Run(context.Background(), []string{src})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Updated)
	assert.Equal(t, filepath.Join(output, "gr01", "service"), second.Results[0].Dir)
}

func TestRun_CloneFailureSkips(t *testing.T) {
	output := filepath.Join(t.TempDir(), "downloads")
	missing := filepath.Join(t.TempDir(), "gone")

	summary, err := newDownloader(t, output).Run(context.Background(), []string{missing})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.ErrorIs(t, summary.Results[0].Err, ErrDownloadSkipped)
	assert.NoDirExists(t, filepath.Join(output, "gr01", "gone"))
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := newDownloader(t, t.TempDir()).Run(ctx, []string{"https://github.com/a/b.git"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, summary.Results)
}
