package stats

import (
	"path"
	"strings"
)

// Matcher tests slash-separated paths against shell glob patterns.
// Patterns without a slash are matched against every path segment, so a
// pattern naming a directory excludes everything below it. Patterns with a
// slash are matched against the leading segments of the path.
type Matcher struct {
	segment []string
	prefix  []string
}

func NewMatcher(patterns []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		if strings.Contains(p, "/") {
			m.prefix = append(m.prefix, strings.Trim(p, "/"))
		} else {
			m.segment = append(m.segment, p)
		}
	}
	return m
}

// Match reports whether p is excluded. Matching is case-sensitive.
func (m *Matcher) Match(p string) bool {
	segs := strings.Split(p, "/")

	for _, seg := range segs {
		for _, pattern := range m.segment {
			if ok, _ := path.Match(pattern, seg); ok {
				return true
			}
		}
	}

	for i := range segs {
		head := strings.Join(segs[:i+1], "/")
		for _, pattern := range m.prefix {
			if ok, _ := path.Match(pattern, head); ok {
				return true
			}
		}
	}

	return false
}
