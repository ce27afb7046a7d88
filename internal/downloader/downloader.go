package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git-repository-analyzer/internal/config"
	"git-repository-analyzer/internal/git"
	"git-repository-analyzer/internal/validation"

	"go.uber.org/zap"
)

var ErrDownloadSkipped = errors.New("download skipped")

const (
	ActionCloned  = "cloned"
	ActionUpdated = "updated"
	ActionSkipped = "skipped"
)

// Result is the outcome for one URL
type Result struct {
	URL    string
	Group  string
	Dir    string
	Action string
	Err    error
}

// Summary counts the outcomes of a run
type Summary struct {
	Cloned  int
	Updated int
	Skipped int
	Results []Result
}

func (s *Summary) add(r Result) {
	switch r.Action {
	case ActionCloned:
		s.Cloned++
	case ActionUpdated:
		s.Updated++
	default:
		s.Skipped++
	}
	s.Results = append(s.Results, r)
}

// Downloader clones or fast-forwards repositories into <output>/<group>/<name>
type Downloader struct {
	outputDir   string
	groupFormat string
	logger      *zap.Logger
	progress    io.Writer
}

func New(cfg config.DownloadConfig, logger *zap.Logger, progress io.Writer) *Downloader {
	return &Downloader{
		outputDir:   cfg.OutputDir,
		groupFormat: cfg.GroupFormat,
		logger:      logger,
		progress:    progress,
	}
}

// Run processes urls sequentially with a fresh group counter. A failing URL is
// logged and recorded as skipped; only context cancellation stops the run early.
func (d *Downloader) Run(ctx context.Context, urls []string) (Summary, error) {
	batch := NewBatch(d.groupFormat)
	summary := Summary{Results: []Result{}}

	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		group := batch.Next()
		result := d.download(ctx, url, group)
		summary.add(result)

		if result.Err != nil {
			d.logger.Warn("Skipping repository",
				zap.String("url", url),
				zap.String("group", group),
				zap.Error(result.Err),
			)
			continue
		}
		d.logger.Info("Repository ready",
			zap.String("url", url),
			zap.String("dir", result.Dir),
			zap.String("action", result.Action),
		)
	}

	d.logger.Info("Download finished",
		zap.Int("cloned", summary.Cloned),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

func (d *Downloader) download(ctx context.Context, url, group string) Result {
	result := Result{URL: url, Group: group, Action: ActionSkipped}

	name := RepoName(url)
	err := validation.New().
		RepositoryURL("url", url).
		Custom("url", func() error {
			if name == "" || name == "." || name == ".." {
				return errors.New("url has no repository name")
			}
			return nil
		}).
		Validate()
	if err != nil {
		result.Err = fmt.Errorf("%w: %s: %w", ErrDownloadSkipped, url, err)
		return result
	}

	dir := filepath.Join(d.outputDir, group, name)
	result.Dir = dir

	if _, statErr := os.Stat(dir); statErr == nil {
		d.logger.Info("Updating repository", zap.String("url", url), zap.String("dir", dir))
		if err := git.Update(ctx, dir, d.progress); err != nil {
			result.Err = fmt.Errorf("%w: %w", ErrDownloadSkipped, err)
			return result
		}
		result.Action = ActionUpdated
		return result
	}

	groupDir := filepath.Join(d.outputDir, group)
	_, groupErr := os.Stat(groupDir)
	if err := os.MkdirAll(groupDir, 0755); err != nil {
		result.Err = fmt.Errorf("%w: failed to create group directory: %w", ErrDownloadSkipped, err)
		return result
	}

	d.logger.Info("Cloning repository", zap.String("url", url), zap.String("dir", dir))
	if err := git.Clone(ctx, url, dir, d.progress); err != nil {
		if groupErr != nil {
			_ = os.Remove(groupDir)
		}
		result.Err = fmt.Errorf("%w: %w", ErrDownloadSkipped, err)
		return result
	}

	result.Action = ActionCloned
	return result
}
