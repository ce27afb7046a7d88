package stats

import (
	"context"
	"errors"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"git-repository-analyzer/internal/git"

	"github.com/samber/lo"
)

// MostActiveAuthorsLimit caps the author list of RecentActivity
const MostActiveAuthorsLimit = 5

// Handle is the read-only repository view consumed by Aggregate
type Handle interface {
	Name() string
	Path() string
	RemoteURL() (string, error)
	Branches() ([]string, error)
	Commits(ctx context.Context, since, until time.Time) (*git.CommitIter, error)
	Walk(fn func(git.File) error) error
}

// Aggregate walks the commits in the configured range and the HEAD tree of h
// and builds a fresh Report. Read failures yield an *AggregationIOError and no
// report; context errors are returned as is.
func Aggregate(ctx context.Context, h Handle, cfg Configuration) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	commits, err := collectCommits(ctx, h, cfg)
	if err != nil {
		return nil, ioError("read commits of", h.Path(), err)
	}

	branches, err := h.Branches()
	if err != nil {
		return nil, ioError("list branches of", h.Path(), err)
	}

	url, err := h.RemoteURL()
	if err != nil {
		return nil, ioError("read remote of", h.Path(), err)
	}

	tree, err := walkTree(ctx, h, cfg)
	if err != nil {
		return nil, ioError("walk tree of", h.Path(), err)
	}

	history, err := commitHistory(commits, cfg)
	if err != nil {
		return nil, ioError("read commit history of", h.Path(), err)
	}

	loc := cfg.Location()
	contributors := buildContributors(commits, loc)

	var latest *CommitEntry
	if len(history) > 0 {
		latest = &history[0]
	} else if len(commits) > 0 {
		entry, err := newCommitEntry(commits[0], loc)
		if err != nil {
			return nil, ioError("read commit history of", h.Path(), err)
		}
		latest = &entry
	}

	timeline := BuildTimeline(lo.Map(commits, func(c *git.Commit, _ int) time.Time {
		return c.When
	}), loc)

	excluded := cfg.Exclude()
	if excluded == nil {
		excluded = []string{}
	}

	return &Report{
		Repository: RepositoryInfo{
			Name: h.Name(),
			Path: h.Path(),
			URL:  url,
		},
		// An empty range zeroes only the commit-derived fields; branches and
		// size describe HEAD whatever the range.
		BasicStats: BasicStats{
			TotalCommits:     len(commits),
			ActiveBranches:   len(branches),
			ContributorCount: len(contributors),
			RepositorySize:   tree.size,
			LatestCommit:     latest,
		},
		FileStats:            tree.stats,
		FileTypeDistribution: tree.distribution,
		FileStructure:        tree.root,
		ActivityTimeline:     timeline,
		RecentActivity:       buildRecentActivity(commits, loc),
		Contributors:         contributors,
		BusFactor:            CalculateBusFactor(contributors, DefaultBusFactorThreshold),
		CommitHistory:        history,
		ExcludedPatterns:     excluded,
		MaxDepth:             cfg.Depth(),
	}, nil
}

func ioError(op, path string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &AggregationIOError{Op: op, Path: path, Err: err}
}

// collectCommits drains the commit iterator for the configured range, newest
// first, equal timestamps ordered by hash
func collectCommits(ctx context.Context, h Handle, cfg Configuration) ([]*git.Commit, error) {
	if cfg.EmptyRange() {
		return []*git.Commit{}, nil
	}

	it, err := h.Commits(ctx, cfg.Start(), cfg.End())
	if err != nil {
		return nil, err
	}
	defer it.Close()

	commits := []*git.Commit{}
	for {
		c, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}

	sort.SliceStable(commits, func(i, j int) bool {
		if !commits[i].When.Equal(commits[j].When) {
			return commits[i].When.After(commits[j].When)
		}
		return commits[i].Hash < commits[j].Hash
	})
	return commits, nil
}

type treeSummary struct {
	root         *git.Node
	distribution map[string]int
	stats        FileStats
	size         int64
}

// walkTree applies exclusion first, then sums sizes and lines over all
// remaining files and counts file types only for files kept within depth
func walkTree(ctx context.Context, h Handle, cfg Configuration) (*treeSummary, error) {
	builder := git.NewTreeBuilder(h.Name(), cfg.Depth())
	summary := &treeSummary{distribution: map[string]int{}}

	err := h.Walk(func(f git.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cfg.Excluded(f.Path) {
			return nil
		}

		lines, err := f.Lines()
		if err != nil {
			return err
		}
		summary.size += f.Size
		summary.stats.TotalFiles++
		summary.stats.TotalLines += lines

		if builder.Add(f.Path, f.Size) {
			ext := f.Ext()
			if ext == "" {
				ext = NoExtension
			}
			summary.distribution[ext]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary.root = builder.Build()
	return summary, nil
}

func newCommitEntry(c *git.Commit, loc *time.Location) (CommitEntry, error) {
	changed, err := c.FilesChanged()
	if err != nil {
		return CommitEntry{}, err
	}
	return CommitEntry{
		Hash:         c.Hash,
		Author:       c.AuthorName,
		Email:        c.AuthorEmail,
		Date:         c.When.In(loc),
		Message:      c.Summary,
		FilesChanged: changed,
	}, nil
}

func commitHistory(commits []*git.Commit, cfg Configuration) ([]CommitEntry, error) {
	limit := min(cfg.HistoryLimit(), len(commits))
	history := make([]CommitEntry, 0, limit)
	for _, c := range commits[:limit] {
		entry, err := newCommitEntry(c, cfg.Location())
		if err != nil {
			return nil, err
		}
		history = append(history, entry)
	}
	return history, nil
}

// identity is the lower-cased author e-mail, or the name when there is no e-mail
func identity(c *git.Commit) string {
	if email := strings.TrimSpace(c.AuthorEmail); email != "" {
		return strings.ToLower(email)
	}
	return c.AuthorName
}

// buildContributors expects commits newest first
func buildContributors(commits []*git.Commit, loc *time.Location) []Contributor {
	byID := make(map[string]*Contributor)
	var order []string

	for _, c := range commits {
		id := identity(c)
		contributor, ok := byID[id]
		if !ok {
			contributor = &Contributor{
				Name:       c.AuthorName,
				Email:      c.AuthorEmail,
				LastCommit: c.When.In(loc),
			}
			byID[id] = contributor
			order = append(order, id)
		}
		contributor.Commits++
		contributor.FirstCommit = c.When.In(loc)
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := byID[order[i]], byID[order[j]]
		if a.Commits != b.Commits {
			return a.Commits > b.Commits
		}
		return order[i] < order[j]
	})

	return lo.Map(order, func(id string, _ int) Contributor {
		return *byID[id]
	})
}

func buildRecentActivity(commits []*git.Commit, loc *time.Location) *RecentActivity {
	if len(commits) == 0 {
		return nil
	}

	perDay := lo.CountValuesBy(commits, func(c *git.Commit) string {
		return c.When.In(loc).Format("2006-01-02")
	})

	authors := lo.MapToSlice(lo.CountValuesBy(commits, func(c *git.Commit) string {
		return c.AuthorName
	}), func(name string, count int) AuthorCount {
		return AuthorCount{Name: name, Commits: count}
	})
	sort.Slice(authors, func(i, j int) bool {
		if authors[i].Commits != authors[j].Commits {
			return authors[i].Commits > authors[j].Commits
		}
		return authors[i].Name < authors[j].Name
	})
	if len(authors) > MostActiveAuthorsLimit {
		authors = authors[:MostActiveAuthorsLimit]
	}

	avg := float64(len(commits)) / float64(len(perDay))
	return &RecentActivity{
		TotalCommits:      len(commits),
		AvgCommitsPerDay:  math.Round(avg*100) / 100,
		MaxCommitsInDay:   lo.Max(lo.Values(perDay)),
		MostActiveAuthors: authors,
	}
}
