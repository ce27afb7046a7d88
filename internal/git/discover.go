package git

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// LocalRepository is a working copy found under the downloads root
type LocalRepository struct {
	Name  string `json:"name"`
	Group string `json:"group"`
	Repo  string `json:"repo"`
	Path  string `json:"path"`
}

// Discover finds working copies (directories containing .git) below root,
// sorted by their slash-separated path relative to root. A missing root yields none.
func Discover(root string) ([]LocalRepository, error) {
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []LocalRepository{}, nil
		}
		return nil, fmt.Errorf("failed to stat downloads directory: %w", err)
	}

	repos := []LocalRepository{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || p == root {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}

		if _, err := os.Stat(filepath.Join(p, ".git")); err != nil {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		group := path.Dir(rel)
		if group == "." {
			group = ""
		}
		repos = append(repos, LocalRepository{
			Name:  rel,
			Group: group,
			Repo:  path.Base(rel),
			Path:  p,
		})
		return filepath.SkipDir
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan downloads directory: %w", err)
	}

	sort.Slice(repos, func(i, j int) bool {
		return repos[i].Name < repos[j].Name
	})
	return repos, nil
}
