package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Recnoss/A.C.E.S/internal/contract"
	"github.com/Recnoss/A.C.E.S/internal/parquet"
	"github.com/Recnoss/A.C.E.S/schema"
)

// userCSVHeader is the stable leaderboard CSV column order. Downstream
// spreadsheets key on these names, so the order never changes.
var userCSVHeader = []string{
	"rank",
	"username",
	"full_name",
	"total_score",
	"commits_count",
	"commits_score",
	"prs_opened",
	"prs_merged",
	"pr_merge_rate",
	"pr_score",
	"reviews_given",
	"review_comments",
	"reviews_score",
	"collaboration_score",
	"consistency_score",
}

// WriteUserResults outputs the ranked leaderboard, dispatching based on the output format configured.
func WriteUserResults(report *schema.RunReport, cfg *contract.Config) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForUsers(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForUsers(w, report.Users, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("parquet output requires --output-file")
		}
		rows := parquet.ConvertUserRecords(report.Users, report.Window)
		if err := parquet.WriteUserRowsParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeUserTable(w, report, cfg, fmtFloat, intFmt)
		}, "Wrote table")
	}
	return nil
}

// writeUserTable generates and writes the human-readable leaderboard table.
func writeUserTable(writer io.Writer, report *schema.RunReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Rank", "Name", "Score", "Label", "Commits", "PRs", "Merged", "Reviews"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth()
	var data [][]string
	for _, u := range report.Users {
		data = append(data, []string{
			strconv.Itoa(u.Rank),
			contract.TruncateName(u.DisplayName, nameWidth),
			fmtFloat(u.Scores.TotalScore),
			labelFor(u.Scores.TotalScore, cfg.UseColors),
			fmt.Sprintf(intFmt, u.Raw.Commits),
			fmt.Sprintf(intFmt, u.Raw.PRsOpened),
			fmt.Sprintf(intFmt, u.Raw.PRsMerged),
			fmt.Sprintf(intFmt, u.Raw.Reviews),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing top %d users (%s)\n", len(report.Users), report.Window.Label); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Run completed in %v with %d workers. Cache backend: %s\n",
		footerDuration(report.Duration), cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForUsers writes the leaderboard in CSV format.
func writeCSVResultsForUsers(w io.Writer, users []*schema.UserRecord, fmtFloat func(float64) string, intFmt string) error {
	return writeCSVWithHeader(w, userCSVHeader, func(csvWriter *csv.Writer) error {
		for _, u := range users {
			rec := []string{
				strconv.Itoa(u.Rank),                     // Rank
				u.Username,                               // Login
				u.DisplayName,                            // Full Name
				fmtFloat(u.Scores.TotalScore),            // Total
				fmt.Sprintf(intFmt, u.Raw.Commits),       // Commits
				fmtFloat(u.Scores.CommitScore),           // Commit Score
				fmt.Sprintf(intFmt, u.Raw.PRsOpened),     // PRs Opened
				fmt.Sprintf(intFmt, u.Raw.PRsMerged),     // PRs Merged
				fmtFloat(u.Scores.MergeRate),             // Merge Rate
				fmtFloat(u.Scores.PRScore),               // PR Score
				fmt.Sprintf(intFmt, u.Raw.Reviews),       // Reviews Given
				fmt.Sprintf(intFmt, u.Raw.ReviewComments), // Review Comments
				fmtFloat(u.Scores.ReviewScore),           // Review Score
				fmtFloat(u.Scores.CollaborationScore),    // Collaboration
				fmtFloat(u.Scores.ConsistencyScore),      // Consistency
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForUsers writes the leaderboard in JSON format.
func writeJSONResultsForUsers(w io.Writer, report *schema.RunReport) error {
	// 1. Prepare the data structure for JSON with the tier label added
	type JSONUserResult struct {
		Label string `json:"label"`
		*schema.UserRecord
	}

	users := make([]JSONUserResult, len(report.Users))
	for i, u := range report.Users {
		users[i] = JSONUserResult{
			Label:      contract.GetPlainLabel(u.Scores.TotalScore),
			UserRecord: u,
		}
	}

	output := struct {
		Window   schema.Window         `json:"window"`
		Users    []JSONUserResult      `json:"users"`
		Failures []schema.FetchFailure `json:"failures,omitempty"`
	}{
		Window:   report.Window,
		Users:    users,
		Failures: report.Failures,
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}
