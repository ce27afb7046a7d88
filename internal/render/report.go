package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"git-repository-analyzer/internal/stats"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Formats lists the supported output formats
var Formats = []string{FormatTable, FormatJSON}

var (
	highRisk   = color.New(color.FgRed, color.Bold)
	mediumRisk = color.New(color.FgYellow)
	lowRisk    = color.New(color.FgGreen)
	heading    = color.New(color.Bold)
)

// WriteJSON encodes the report with two-space indentation
func WriteJSON(w io.Writer, report *stats.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteText prints the report as a set of tables followed by the file tree
func WriteText(w io.Writer, report *stats.Report, historyRows int) error {
	sections := []func() error{
		func() error { return writeSummary(w, report) },
		func() error { return writeFileTypes(w, report) },
		func() error { return writeContributors(w, report) },
		func() error { return writeTimeline(w, report) },
		func() error { return writeHistory(w, report, historyRows) },
	}
	for _, section := range sections {
		if err := section(); err != nil {
			return err
		}
	}

	heading.Fprintln(w, "File structure")
	_, err := io.WriteString(w, Tree(report.FileStructure))
	return err
}

// RiskLabel colors a bus factor risk level
func RiskLabel(risk string) string {
	switch risk {
	case "high":
		return highRisk.Sprint(risk)
	case "medium":
		return mediumRisk.Sprint(risk)
	case "low":
		return lowRisk.Sprint(risk)
	default:
		return risk
	}
}

func renderTable(w io.Writer, title string, headers []string, rows [][]string, align tw.Align) error {
	heading.Fprintln(w, title)

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = align
	})

	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func writeSummary(w io.Writer, report *stats.Report) error {
	b := report.BasicStats
	latest := "-"
	if b.LatestCommit != nil {
		latest = fmt.Sprintf("%s %s (%s)", b.LatestCommit.Hash[:min(8, len(b.LatestCommit.Hash))], b.LatestCommit.Message, humanize.Time(b.LatestCommit.Date))
	}

	url := report.Repository.URL
	if url == "" {
		url = "no origin"
	}

	rows := [][]string{
		{"Repository", report.Repository.Name},
		{"Origin", url},
		{"Commits", humanize.Comma(int64(b.TotalCommits))},
		{"Branches", strconv.Itoa(b.ActiveBranches)},
		{"Contributors", strconv.Itoa(b.ContributorCount)},
		{"Size", humanize.Bytes(uint64(b.RepositorySize))},
		{"Files", humanize.Comma(int64(report.FileStats.TotalFiles))},
		{"Lines", humanize.Comma(int64(report.FileStats.TotalLines))},
		{"Bus factor", fmt.Sprintf("%d (%s)", report.BusFactor.BusFactor, RiskLabel(report.BusFactor.RiskLevel))},
		{"Latest commit", latest},
	}
	return renderTable(w, "Summary", []string{"Metric", "Value"}, rows, tw.AlignLeft)
}

func writeFileTypes(w io.Writer, report *stats.Report) error {
	type entry struct {
		ext   string
		count int
	}

	var entries []entry
	for ext, count := range report.FileTypeDistribution {
		entries = append(entries, entry{ext, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].ext < entries[j].ext
	})

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ext, strconv.Itoa(e.count)})
	}
	return renderTable(w, "File types", []string{"Extension", "Files"}, rows, tw.AlignRight)
}

func writeContributors(w io.Writer, report *stats.Report) error {
	rows := make([][]string, 0, len(report.Contributors))
	for _, c := range report.Contributors {
		rows = append(rows, []string{
			c.Name,
			c.Email,
			strconv.Itoa(c.Commits),
			c.FirstCommit.Format("2006-01-02"),
			c.LastCommit.Format("2006-01-02"),
		})
	}
	return renderTable(w, "Contributors", []string{"Name", "Email", "Commits", "First", "Last"}, rows, tw.AlignLeft)
}

func writeTimeline(w io.Writer, report *stats.Report) error {
	rows := make([][]string, 0, len(report.ActivityTimeline.Buckets))
	for _, b := range report.ActivityTimeline.Buckets {
		if b.Count == 0 {
			continue
		}
		rows = append(rows, []string{b.Date, strconv.Itoa(b.Count), strconv.Itoa(b.Level)})
	}
	title := fmt.Sprintf("Activity (per %s)", report.ActivityTimeline.Granularity)
	return renderTable(w, title, []string{"Date", "Commits", "Level"}, rows, tw.AlignRight)
}

func writeHistory(w io.Writer, report *stats.Report, limit int) error {
	history := report.CommitHistory
	if limit >= 0 && len(history) > limit {
		history = history[:limit]
	}

	rows := make([][]string, 0, len(history))
	for _, c := range history {
		rows = append(rows, []string{
			c.Hash[:min(8, len(c.Hash))],
			c.Date.Format("2006-01-02 15:04"),
			c.Author,
			strconv.Itoa(c.FilesChanged),
			c.Message,
		})
	}
	return renderTable(w, "Recent commits", []string{"Hash", "Date", "Author", "Files", "Message"}, rows, tw.AlignLeft)
}
