package config

// DefaultExclusions are the glob patterns pre-filled in the dashboard exclusion
// control. Each pattern is matched against single path segments.
var DefaultExclusions = []string{
	".DS_Store",
	"__pycache__",
	".pytest_cache",
	".venv",
	"node_modules",
}

// ExclusionPatterns returns the default patterns, overridable through
// DASHBOARD_EXCLUDE (comma separated)
func ExclusionPatterns() []string {
	patterns := getEnvList("DASHBOARD_EXCLUDE", DefaultExclusions)
	out := make([]string, len(patterns))
	copy(out, patterns)
	return out
}
