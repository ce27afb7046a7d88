package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"git-repository-analyzer/internal/git"
	"git-repository-analyzer/internal/validation"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	w, err := repo.Worktree()
	require.NoError(t, err)

	for i, p := range []string{"a.py", "b.py", "c.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, p), []byte("x\n"), 0644))
		_, err := w.Add(p)
		require.NoError(t, err)

		sig := &object.Signature{
			Name:  "Dev",
			Email: "dev@example.com",
			When:  time.Date(2024, 3, 1+i, 12, 0, 0, 0, time.UTC),
		}
		_, err = w.Commit("add "+p, &gogit.CommitOptions{Author: sig, Committer: sig})
		require.NoError(t, err)
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReport_JSON(t *testing.T) {
	dir := createRepo(t)

	out, err := execute(t, dir, "--format", "json", "--depth", "1", "--since", "2024-03-02", "--until", "2024-03-03")
	require.NoError(t, err)

	var report struct {
		BasicStats           map[string]any `json:"basic_stats"`
		FileTypeDistribution map[string]int `json:"file_type_distribution"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, float64(2), report.BasicStats["total_commits"])
	assert.Equal(t, map[string]int{"py": 2, "md": 1}, report.FileTypeDistribution)
}

func TestReport_Table(t *testing.T) {
	dir := createRepo(t)

	out, err := execute(t, dir, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "dev@example.com")
	assert.Contains(t, out, "c.md")
}

func TestReport_Errors(t *testing.T) {
	dir := createRepo(t)

	_, err := execute(t, dir, "--format", "yaml")
	var validationErr *validation.ValidationErrors
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "format", validationErr.Errors[0].Field)

	_, err = execute(t, dir, "--since", "March")
	require.ErrorAs(t, err, &validationErr)

	_, err = execute(t, dir, "--depth=-1")
	require.ErrorAs(t, err, &validationErr)

	_, err = execute(t, t.TempDir())
	assert.ErrorIs(t, err, git.ErrNotARepository)
}
