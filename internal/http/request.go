package http

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"git-repository-analyzer/internal/git"
	"git-repository-analyzer/internal/stats"
	"git-repository-analyzer/internal/validation"
)

// MaxDepth bounds the depth control of the dashboard
const MaxDepth = 64

// ReportQuery holds the dashboard controls as submitted, before validation
type ReportQuery struct {
	Start   string
	End     string
	Depth   string
	Exclude string
}

func reportQuery(values url.Values) ReportQuery {
	return ReportQuery{
		Start:   strings.TrimSpace(values.Get("start")),
		End:     strings.TrimSpace(values.Get("end")),
		Depth:   strings.TrimSpace(values.Get("depth")),
		Exclude: values.Get("exclude"),
	}
}

// withDefaults fills controls the user left untouched. An explicitly empty
// exclude field stays empty.
func (h *Handler) withDefaults(q ReportQuery, values url.Values) ReportQuery {
	if q.Start == "" && !values.Has("start") {
		q.Start = h.now().In(h.location).Add(-h.cfg.DefaultLookback).Format(validation.DateLayout)
	}
	if q.Depth == "" {
		q.Depth = strconv.Itoa(h.cfg.DefaultDepth)
	}
	if !values.Has("exclude") {
		q.Exclude = strings.Join(h.exclusions, ", ")
	}
	return q
}

// splitPatterns splits the exclusion control on commas and newlines
func splitPatterns(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
}

// configuration validates q and builds the aggregation configuration for repo.
// The end date is inclusive.
func (h *Handler) configuration(repo git.LocalRepository, q ReportQuery) (stats.Configuration, error) {
	var (
		start, end time.Time
		depth      int
	)
	v := validation.New().
		Date("start", q.Start, h.location, &start).
		Date("end", q.End, h.location, &end).
		MaxLength("exclude", q.Exclude, 4096).
		Integer("depth", q.Depth, &depth)
	// depth stays 0 when it failed to parse
	v.InRange("depth", depth, 0, MaxDepth)
	if err := v.Validate(); err != nil {
		return stats.Configuration{}, err
	}

	if !end.IsZero() {
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return stats.NewConfiguration(stats.Options{
		RepositoryPath: repo.Path,
		Start:          start,
		End:            end,
		Depth:          depth,
		Exclude:        splitPatterns(q.Exclude),
		Location:       h.location,
		HistoryLimit:   h.cfg.HistoryLimit,
	})
}
