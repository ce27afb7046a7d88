package main

import (
	"time"

	"git-repository-analyzer/internal/config"
	"git-repository-analyzer/internal/git"
	"git-repository-analyzer/internal/render"
	"git-repository-analyzer/internal/stats"
	"git-repository-analyzer/internal/validation"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// options holds the raw flag values before validation
type options struct {
	since    string
	until    string
	depth    int
	exclude  []string
	format   string
	timezone string
	history  int
	noColor  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	dashboard := config.Load().Dashboard

	cmd := &cobra.Command{
		Use:   "terminal <repo-path>",
		Short: "Print the statistics report of a local git repository.",
		Long: `Aggregate the commits in a date range and the current file tree of a
local working copy and print the report as tables or JSON.

Examples:
  # Everything since the start of the year, two directory levels deep
  terminal downloads/gr01/project --since 2024-01-01 --depth 2

  # Machine readable output without the default exclusions
  terminal . --format json --exclude ""`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.since, "since", "", "first day of the range (YYYY-MM-DD), open when empty")
	flags.StringVar(&opts.until, "until", "", "last day of the range (YYYY-MM-DD), open when empty")
	flags.IntVar(&opts.depth, "depth", dashboard.DefaultDepth, "directory levels of the file structure, 0 for unlimited")
	flags.StringSliceVar(&opts.exclude, "exclude", config.ExclusionPatterns(), "glob patterns matched against path segments")
	flags.StringVar(&opts.format, "format", render.FormatTable, "output format: table or json")
	flags.StringVar(&opts.timezone, "timezone", dashboard.Timezone, "time zone of the activity timeline")
	flags.IntVar(&opts.history, "history", 20, "commits listed in the table output")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	return cmd
}

func runReport(cmd *cobra.Command, repoPath string, opts *options) error {
	if opts.noColor {
		color.NoColor = true
	}

	cfg, err := opts.configuration(repoPath)
	if err != nil {
		return err
	}

	handle, err := git.Open(repoPath)
	if err != nil {
		return err
	}
	defer handle.Close()

	report, err := stats.Aggregate(cmd.Context(), handle, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.format == render.FormatJSON {
		return render.WriteJSON(out, report)
	}
	return render.WriteText(out, report, opts.history)
}

// configuration validates the flags and builds the aggregation configuration
func (o *options) configuration(repoPath string) (stats.Configuration, error) {
	var (
		loc          *time.Location
		since, until time.Time
	)

	v := validation.New().
		OneOf("format", o.format, render.Formats).
		GreaterThanOrEqual("history", o.history, 0).
		Custom("timezone", func() (err error) {
			loc, err = time.LoadLocation(o.timezone)
			return err
		})
	if err := v.Validate(); err != nil {
		return stats.Configuration{}, err
	}

	v.Date("since", o.since, loc, &since).Date("until", o.until, loc, &until)
	if err := v.Validate(); err != nil {
		return stats.Configuration{}, err
	}

	if !until.IsZero() {
		until = until.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return stats.NewConfiguration(stats.Options{
		RepositoryPath: repoPath,
		Start:          since,
		End:            until,
		Depth:          o.depth,
		Exclude:        o.exclude,
		Location:       loc,
		HistoryLimit:   stats.DefaultHistoryLimit,
	})
}
