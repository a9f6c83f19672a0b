package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/storeeda/internal/config"
	"github.com/nao1215/storeeda/internal/database"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of runs listed when no limit is given.
const defaultHistoryLimit = 20

// historyTimeLayout is how run times are shown.
const historyTimeLayout = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous report runs",
		Long: `History lists the report runs recorded in the local history database.

Every render stores the dataset path, a fingerprint of the file, the number
of records, the steps that ran and the files written. Listing the runs of
one dataset marks runs whose file differs from the run before.

Examples:
  # Latest runs of every dataset
  storeeda history

  # Datasets that have been reported on
  storeeda history --list-sources

  # Runs of one dataset, flagging changed files
  storeeda history --source sales.csv

  # Details of one run (an ID prefix is enough)
  storeeda history --show 1a2b3c4d

  # Output in JSON format
  storeeda history --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-sources", "L", false, "List every dataset in the history database")
	cmd.Flags().String("source", "", "List the runs of this dataset")
	cmd.Flags().String("show", "", "Show the run with this ID or ID prefix")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Maximum number of runs listed (0 for all)")

	cmd.Flags().BoolP("json", "j", false, "Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false, "Output in Markdown format")

	return cmd
}

// historyOptions holds the flags of the history command.
type historyOptions struct {
	listSources bool
	source      string
	show        string
	limit       int
	json        bool
	markdown    bool
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	opts, err := historyFlags(cmd)
	if err != nil {
		return err
	}
	if opts.json && opts.markdown {
		return config.ErrConflictingReportFormats
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return runHistory(cmd.Context(), db, opts, cmd.OutOrStdout())
}

func historyFlags(cmd *cobra.Command) (historyOptions, error) {
	var opts historyOptions
	var err error
	flags := cmd.Flags()

	if opts.listSources, err = flags.GetBool("list-sources"); err != nil {
		return opts, err
	}
	if opts.source, err = flags.GetString("source"); err != nil {
		return opts, err
	}
	if opts.show, err = flags.GetString("show"); err != nil {
		return opts, err
	}
	if opts.limit, err = flags.GetInt("limit"); err != nil {
		return opts, err
	}
	if opts.json, err = flags.GetBool("json"); err != nil {
		return opts, err
	}
	if opts.markdown, err = flags.GetBool("markdown"); err != nil {
		return opts, err
	}
	return opts, nil
}

// runHistory prints what opts asks for from db.
func runHistory(ctx context.Context, db *database.RunDB, opts historyOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case opts.listSources:
		sources, err := db.ListSources(ctx)
		if err != nil {
			return err
		}
		return printSources(out, sources, opts)
	case opts.show != "":
		run, err := db.GetRun(ctx, opts.show)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("run %s not found (use 'storeeda history' to see run IDs)", opts.show)
		}
		return printRun(out, run, opts)
	default:
		runs, err := db.ListRuns(ctx, opts.source, opts.limit)
		if err != nil {
			return err
		}
		// Fingerprints are only comparable between runs of one dataset.
		var changed []bool
		if opts.source != "" {
			changed = database.FingerprintChanges(runs)
		} else {
			changed = make([]bool, len(runs))
		}
		return printRuns(out, runs, changed, opts)
	}
}

// historyEntry is a listed run in JSON output.
type historyEntry struct {
	database.Run
	FingerprintChanged bool `json:"fingerprint_changed,omitempty"`
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printSources(out io.Writer, sources []database.SourceSummary, opts historyOptions) error {
	if opts.json {
		if sources == nil {
			sources = []database.SourceSummary{}
		}
		return writeJSON(out, sources)
	}

	if opts.markdown {
		rows := make([][]string, 0, len(sources))
		for _, s := range sources {
			rows = append(rows, []string{markdown.Code(s.Source), strconv.Itoa(s.Runs), s.LastRun.Format(historyTimeLayout)})
		}
		return markdown.NewMarkdown(out).
			H1("Reported datasets").
			PlainText("").
			Table(markdown.TableSet{Header: []string{"Dataset", "Runs", "Last run"}, Rows: rows}).
			Build()
	}

	if len(sources) == 0 {
		fmt.Fprintln(out, "No datasets found in the history database.")
		fmt.Fprintln(out, "\nUse 'storeeda render <dataset.csv>' to generate a report.")
		return nil
	}

	fmt.Fprintf(out, "Reported datasets (%d):\n\n", len(sources))
	fmt.Fprintf(out, "  %-5s  %-19s  %s\n", "Runs", "Last run", "Dataset")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 60))
	for _, s := range sources {
		fmt.Fprintf(out, "  %-5d  %-19s  %s\n", s.Runs, s.LastRun.Format(historyTimeLayout), s.Source)
	}
	fmt.Fprintln(out, "\nUse 'storeeda history --source <dataset>' to see the runs of a dataset.")
	return nil
}

func printRuns(out io.Writer, runs []database.Run, changed []bool, opts historyOptions) error {
	if opts.json {
		entries := make([]historyEntry, len(runs))
		for i, r := range runs {
			entries[i] = historyEntry{Run: r, FingerprintChanged: changed[i]}
		}
		return writeJSON(out, entries)
	}

	title := "Recent runs"
	if opts.source != "" {
		title = "Runs of " + opts.source
	}

	if opts.markdown {
		rows := make([][]string, 0, len(runs))
		for i, r := range runs {
			rows = append(rows, []string{
				markdown.Code(shortID(r.ID)),
				r.StartedAt.Format(historyTimeLayout),
				r.Source,
				strconv.Itoa(r.RecordCount),
				runStatus(&r),
				fingerprintCell(r.Fingerprint, changed[i]),
			})
		}
		return markdown.NewMarkdown(out).
			H1(title).
			PlainText("").
			Table(markdown.TableSet{
				Header: []string{"ID", "Started", "Dataset", "Records", "Status", "Fingerprint"},
				Rows:   rows,
			}).
			Build()
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs found in the history database.")
		fmt.Fprintln(out, "\nUse 'storeeda render <dataset.csv>' to generate a report.")
		return nil
	}

	fmt.Fprintf(out, "%s (%d):\n\n", title, len(runs))
	fmt.Fprintf(out, "  %-8s  %-19s  %-8s  %-12s  %-18s  %s\n", "ID", "Started", "Records", "Status", "Fingerprint", "Dataset")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 90))
	for i, r := range runs {
		fmt.Fprintf(out, "  %-8s  %-19s  %-8d  %-12s  %-18s  %s\n",
			shortID(r.ID),
			r.StartedAt.Format(historyTimeLayout),
			r.RecordCount,
			runStatus(&r),
			fingerprintCell(r.Fingerprint, changed[i]),
			r.Source,
		)
	}
	fmt.Fprintln(out, "\nUse 'storeeda history --show <id>' to see the details of a run.")
	return nil
}

func printRun(out io.Writer, run *database.Run, opts historyOptions) error {
	if opts.json {
		return writeJSON(out, run)
	}

	fields := [][]string{
		{"ID", run.ID},
		{"Dataset", run.Source},
		{"Fingerprint", orNone(run.Fingerprint)},
		{"Records", strconv.Itoa(run.RecordCount)},
		{"Started", run.StartedAt.Format(historyTimeLayout)},
		{"Duration", run.Duration().String()},
		{"Spend mode", run.SpendMode},
		{"Status", runStatus(run)},
	}

	if opts.markdown {
		md := markdown.NewMarkdown(out).
			H1("Run " + shortID(run.ID)).
			PlainText("").
			Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: fields}).
			PlainText("")
		for _, list := range []struct {
			title string
			items []string
		}{
			{"Steps", run.Steps},
			{"Warnings", run.Warnings},
			{"Outputs", run.Outputs},
		} {
			if len(list.items) == 0 {
				continue
			}
			md.H2(list.title).PlainText("").BulletList(list.items...).PlainText("")
		}
		return md.Build()
	}

	for _, f := range fields {
		fmt.Fprintf(out, "%-12s %s\n", f[0]+":", f[1])
	}
	if run.Error != "" {
		fmt.Fprintf(out, "%-12s %s\n", "Error:", run.Error)
	}
	fmt.Fprintf(out, "%-12s %s\n", "Steps:", orNone(strings.Join(run.Steps, ", ")))
	fmt.Fprintf(out, "%-12s %s\n", "Warnings:", orNone(strings.Join(run.Warnings, ", ")))
	fmt.Fprintln(out, "Outputs:")
	if len(run.Outputs) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, o := range run.Outputs {
		fmt.Fprintf(out, "  %s\n", o)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runStatus(r *database.Run) string {
	switch {
	case r.Error != "":
		return "failed"
	case len(r.Warnings) > 0:
		return fmt.Sprintf("%d warning(s)", len(r.Warnings))
	default:
		return "ok"
	}
}

func fingerprintCell(fp string, changed bool) string {
	if fp == "" {
		return "-"
	}
	s := shortID(fp)
	if changed {
		s += " (changed)"
	}
	return s
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
