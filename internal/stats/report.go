package stats

import (
	"time"

	"git-repository-analyzer/internal/git"
)

// NoExtension is the file type key for files without an extension
const NoExtension = "(none)"

// Report is the result of one aggregation run. It carries no wall-clock
// timestamp, so identical inputs produce identical reports.
type Report struct {
	Repository           RepositoryInfo  `json:"repository"`
	BasicStats           BasicStats      `json:"basic_stats"`
	FileStats            FileStats       `json:"file_stats"`
	FileTypeDistribution map[string]int  `json:"file_type_distribution"`
	FileStructure        *git.Node       `json:"file_structure"`
	ActivityTimeline     Timeline        `json:"activity_timeline"`
	RecentActivity       *RecentActivity `json:"recent_activity"`
	Contributors         []Contributor   `json:"contributors"`
	BusFactor            BusFactorResult `json:"bus_factor"`
	CommitHistory        []CommitEntry   `json:"commit_history"`
	ExcludedPatterns     []string        `json:"excluded_patterns"`
	MaxDepth             int             `json:"max_depth"`
}

type RepositoryInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

type BasicStats struct {
	TotalCommits     int          `json:"total_commits"`
	ActiveBranches   int          `json:"active_branches"`
	ContributorCount int          `json:"contributor_count"`
	RepositorySize   int64        `json:"repository_size"`
	LatestCommit     *CommitEntry `json:"latest_commit"`
}

type FileStats struct {
	TotalFiles int `json:"total_files"`
	TotalLines int `json:"total_lines"`
}

// CommitEntry is a commit as listed in a report
type CommitEntry struct {
	Hash         string    `json:"hash"`
	Author       string    `json:"author"`
	Email        string    `json:"email"`
	Date         time.Time `json:"date"`
	Message      string    `json:"message"`
	FilesChanged int       `json:"files_changed"`
}

// RecentActivity summarizes the commits of the selected range
type RecentActivity struct {
	TotalCommits      int           `json:"total_commits"`
	AvgCommitsPerDay  float64       `json:"avg_commits_per_day"`
	MaxCommitsInDay   int           `json:"max_commits_in_day"`
	MostActiveAuthors []AuthorCount `json:"most_active_authors"`
}

type AuthorCount struct {
	Name    string `json:"name"`
	Commits int    `json:"commits"`
}

// Contributor aggregates the commits of one author identity
type Contributor struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Commits     int       `json:"commits"`
	FirstCommit time.Time `json:"first_commit"`
	LastCommit  time.Time `json:"last_commit"`
}
