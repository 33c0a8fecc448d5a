package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Recnoss/A.C.E.S/internal/contract"
	"github.com/Recnoss/A.C.E.S/schema"
)

// teamCSVHeader is the stable team summary CSV column order.
var teamCSVHeader = []string{
	"team_rank",
	"team_name",
	"team_slug",
	"member_count",
	"total_team_score",
	"average_team_score",
	"total_commits",
	"total_prs_opened",
	"total_prs_merged",
	"total_reviews_given",
	"total_review_comments",
}

// memberCSVHeader is the per-member detail CSV column order, grouped by team.
var memberCSVHeader = []string{
	"team_name",
	"team_rank",
	"username",
	"full_name",
	"individual_rank",
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

// WriteTeamResults outputs the ranked team standings, dispatching based on the output format configured.
func WriteTeamResults(report *schema.RunReport, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForTeams(w, report.Teams, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
		// The member detail goes to a sibling file. There is no second
		// stream when writing to stdout, so the summary stands alone there.
		if cfg.OutputFile != "" {
			memberFile := memberCSVPath(cfg.OutputFile)
			if err := writeWithFile(memberFile, func(w io.Writer) error {
				return writeCSVResultsForMembers(w, report.Teams, fmtFloat, intFmt)
			}, "Wrote members CSV"); err != nil {
				return fmt.Errorf("error writing members CSV output: %w", err)
			}
		}
	case schema.ParquetOut:
		return errors.New("parquet output is only supported for the leaderboard command")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTeamTables(w, report, cfg, fmtFloat, intFmt)
		}, "Wrote table")
	}
	return nil
}

// memberCSVPath derives the member detail file name from the team summary
// file name, e.g. teams.csv -> teams_members_by_team.csv.
func memberCSVPath(outputFile string) string {
	return strings.TrimSuffix(outputFile, ".csv") + "_members_by_team.csv"
}

// writeTeamTables writes the team summary table followed by a member detail
// section for the top teams.
func writeTeamTables(writer io.Writer, report *schema.RunReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Rank", "Team", "Members", "Total", "Average", "Commits", "PRs", "Reviews"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth()
	var data [][]string
	for _, team := range report.Teams {
		data = append(data, []string{
			strconv.Itoa(team.Rank),
			contract.TruncateName(team.DisplayName, nameWidth),
			fmt.Sprintf(intFmt, team.MemberCount),
			fmtFloat(team.TotalScore),
			fmtFloat(team.AverageScore),
			fmt.Sprintf(intFmt, team.TotalCommits),
			fmt.Sprintf(intFmt, team.TotalPRsOpened),
			fmt.Sprintf(intFmt, team.TotalReviews),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Member detail for the top teams only, to keep terminal output short.
	detail := min(cfg.TopTeams, len(report.Teams))
	for _, team := range report.Teams[:detail] {
		if _, err := fmt.Fprintf(writer, "\n#%d %s (%s, %d members)\n",
			team.Rank, team.DisplayName, team.Organization, team.MemberCount); err != nil {
			return err
		}
		for _, m := range team.Members {
			if _, err := fmt.Fprintf(writer, "  %3d. %s  %s (%s)\n",
				m.Rank, fmtFloat(m.Scores.TotalScore),
				contract.TruncateName(m.DisplayName, nameWidth),
				labelFor(m.Scores.TotalScore, cfg.UseColors)); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(writer, "\nShowing %d teams (%s)\n", len(report.Teams), report.Window.Label); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Run completed in %v with %d workers. Cache backend: %s\n",
		footerDuration(report.Duration), cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForTeams writes the team summary in CSV format.
func writeCSVResultsForTeams(w io.Writer, teams []*schema.TeamRecord, fmtFloat func(float64) string, intFmt string) error {
	return writeCSVWithHeader(w, teamCSVHeader, func(csvWriter *csv.Writer) error {
		for _, team := range teams {
			rec := []string{
				strconv.Itoa(team.Rank),
				team.DisplayName,
				team.Slug,
				fmt.Sprintf(intFmt, team.MemberCount),
				fmtFloat(team.TotalScore),
				fmtFloat(team.AverageScore),
				fmt.Sprintf(intFmt, team.TotalCommits),
				fmt.Sprintf(intFmt, team.TotalPRsOpened),
				fmt.Sprintf(intFmt, team.TotalPRsMerged),
				fmt.Sprintf(intFmt, team.TotalReviews),
				fmt.Sprintf(intFmt, team.TotalReviewComments),
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeCSVResultsForMembers writes the per-member detail grouped by team.
func writeCSVResultsForMembers(w io.Writer, teams []*schema.TeamRecord, fmtFloat func(float64) string, intFmt string) error {
	return writeCSVWithHeader(w, memberCSVHeader, func(csvWriter *csv.Writer) error {
		for _, team := range teams {
			for _, m := range team.Members {
				rec := []string{
					team.DisplayName,
					strconv.Itoa(team.Rank),
					m.Username,
					m.DisplayName,
					strconv.Itoa(m.Rank),
					fmtFloat(m.Scores.TotalScore),
					fmt.Sprintf(intFmt, m.Raw.Commits),
					fmtFloat(m.Scores.CommitScore),
					fmt.Sprintf(intFmt, m.Raw.PRsOpened),
					fmt.Sprintf(intFmt, m.Raw.PRsMerged),
					fmtFloat(m.Scores.MergeRate),
					fmtFloat(m.Scores.PRScore),
					fmt.Sprintf(intFmt, m.Raw.Reviews),
					fmt.Sprintf(intFmt, m.Raw.ReviewComments),
					fmtFloat(m.Scores.ReviewScore),
					fmtFloat(m.Scores.CollaborationScore),
					fmtFloat(m.Scores.ConsistencyScore),
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
