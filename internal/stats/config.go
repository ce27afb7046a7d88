package stats

import (
	"strings"
	"time"

	"git-repository-analyzer/internal/validation"

	"github.com/samber/lo"
)

// DefaultHistoryLimit is the number of commits listed in a report's commit history
const DefaultHistoryLimit = 100

// Options are the raw inputs of a Configuration
type Options struct {
	RepositoryPath string
	Start          time.Time
	End            time.Time
	Depth          int
	Exclude        []string
	Location       *time.Location
	HistoryLimit   int
}

// Configuration is a validated, immutable set of aggregation parameters.
// Zero Start or End leaves that side of the range open; Depth 0 is unlimited.
type Configuration struct {
	repositoryPath string
	start          time.Time
	end            time.Time
	depth          int
	exclude        []string
	location       *time.Location
	historyLimit   int
	matcher        *Matcher
}

// NewConfiguration validates opts and builds a Configuration
func NewConfiguration(opts Options) (Configuration, error) {
	patterns := lo.Uniq(lo.FilterMap(opts.Exclude, func(p string, _ int) (string, bool) {
		p = strings.TrimSpace(p)
		return p, p != ""
	}))

	v := validation.New().
		Required("repository_path", opts.RepositoryPath).
		GreaterThanOrEqual("depth", opts.Depth, 0).
		GreaterThanOrEqual("history_limit", opts.HistoryLimit, 0)

	for _, p := range patterns {
		v.Glob("exclude", p)
	}

	if err := v.Validate(); err != nil {
		return Configuration{}, err
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	return Configuration{
		repositoryPath: opts.RepositoryPath,
		start:          opts.Start,
		end:            opts.End,
		depth:          opts.Depth,
		exclude:        patterns,
		location:       loc,
		historyLimit:   opts.HistoryLimit,
		matcher:        NewMatcher(patterns),
	}, nil
}

func (c Configuration) RepositoryPath() string { return c.repositoryPath }
func (c Configuration) Start() time.Time { return c.start }
func (c Configuration) End() time.Time { return c.end }
func (c Configuration) Depth() int { return c.depth }
func (c Configuration) Location() *time.Location { return c.location }
func (c Configuration) HistoryLimit() int { return c.historyLimit }
func (c Configuration) Exclude() []string { return append([]string(nil), c.exclude...) }

// EmptyRange reports whether Start lies after End
func (c Configuration) EmptyRange() bool {
	return !c.start.IsZero() && !c.end.IsZero() && c.start.After(c.end)
}

// Excluded reports whether p matches one of the exclusion patterns
func (c Configuration) Excluded(p string) bool {
	if c.matcher == nil {
		return false
	}
	return c.matcher.Match(p)
}
