package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Recnoss/A.C.E.S/internal/contract"
	"github.com/Recnoss/A.C.E.S/schema"
)

func reportFixture() *schema.RunReport {
	users := []*schema.UserRecord{
		{
			Username:    "alice",
			DisplayName: "Alice Chen",
			Rank:        1,
			Raw:         schema.RawContribution{Commits: 42, PRsOpened: 6, PRsMerged: 5, Reviews: 8, ReviewComments: 11},
			Scores: schema.ScoreBreakdown{
				CommitScore:      84,
				MergeRate:        0.8333,
				PRScore:          46.7,
				ReviewScore:      35,
				ConsistencyScore: 24,
				TotalScore:       209.7,
			},
		},
		{
			Username:    "bob",
			DisplayName: "Bob Singh",
			Rank:        2,
			Raw:         schema.RawContribution{Commits: 7},
			Scores:      schema.ScoreBreakdown{CommitScore: 14, ConsistencyScore: 8, TotalScore: 22},
		},
	}
	teams := []*schema.TeamRecord{
		{
			Slug:         "platform",
			DisplayName:  "Platform",
			Organization: "acme",
			Members:      users,
			MemberCount:  2,
			TotalScore:   231.8,
			AverageScore: 115.9,
			TotalCommits: 49,
			Rank:         1,
		},
	}
	return &schema.RunReport{
		Window: schema.Window{
			Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
			Label: "Q1 2025",
		},
		Users:    users,
		Teams:    teams,
		Duration: 1234 * time.Millisecond,
	}
}

func outputConfig(mode schema.OutputMode, file string) *contract.Config {
	return &contract.Config{
		Output:       mode,
		OutputFile:   file,
		Precision:    1,
		Workers:      4,
		TopTeams:     5,
		CacheBackend: schema.SQLiteBackend,
	}
}

func TestWriteCSVResultsForUsers(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(2)

	require.NoError(t, writeCSVResultsForUsers(&buf, reportFixture().Users, fmtFloat, intFmt))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus two rows")

	assert.Equal(t, userCSVHeader, records[0])
	assert.Equal(t, []string{"1", "alice", "Alice Chen", "209.70", "42", "84.00", "6", "5", "0.83", "46.70", "8", "11", "35.00", "0.00", "24.00"}, records[1])
	assert.Equal(t, "bob", records[2][1])
}

func TestWriteJSONResultsForUsers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSONResultsForUsers(&buf, reportFixture()))

	var decoded struct {
		Window schema.Window `json:"window"`
		Users  []struct {
			Label    string  `json:"label"`
			Username string  `json:"username"`
			Rank     int     `json:"rank"`
			Scores   struct {
				TotalScore float64 `json:"total_score"`
			} `json:"scores"`
		} `json:"users"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	require.Len(t, decoded.Users, 2)
	assert.Equal(t, "Q1 2025", decoded.Window.Label)
	assert.Equal(t, "Elite", decoded.Users[0].Label)
	assert.Equal(t, "alice", decoded.Users[0].Username)
	assert.Equal(t, 1, decoded.Users[0].Rank)
	assert.Equal(t, "Quiet", decoded.Users[1].Label)
}

func TestWriteUserTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := outputConfig(schema.TextOut, "")
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	require.NoError(t, writeUserTable(&buf, reportFixture(), cfg, fmtFloat, intFmt))

	out := buf.String()
	assert.Contains(t, out, "Alice Chen")
	assert.Contains(t, out, "209.7")
	assert.Contains(t, out, "Showing top 2 users (Q1 2025)")
	assert.Contains(t, out, "Cache backend: sqlite")
	assert.Less(t, strings.Index(out, "Alice Chen"), strings.Index(out, "Bob Singh"), "rows follow rank order")
}

func TestWriteUserResultsCSVToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.csv")
	cfg := outputConfig(schema.CSVOut, path)

	require.NoError(t, WriteUserResults(reportFixture(), cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rank,username,full_name")
	assert.Contains(t, string(data), "alice")
}

func TestWriteUserResultsParquetRequiresFile(t *testing.T) {
	cfg := outputConfig(schema.ParquetOut, "")
	err := WriteUserResults(reportFixture(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output-file")
}

func TestWriteUserResultsParquetToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.parquet")
	cfg := outputConfig(schema.ParquetOut, path)

	require.NoError(t, WriteUserResults(reportFixture(), cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestWriteCSVResultsForTeams(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(1)

	require.NoError(t, writeCSVResultsForTeams(&buf, reportFixture().Teams, fmtFloat, intFmt))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, teamCSVHeader, records[0])
	assert.Equal(t, []string{"1", "Platform", "platform", "2", "231.8", "115.9", "49", "0", "0", "0", "0"}, records[1])
}

func TestWriteTeamResultsCSVWritesMemberDetail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teams.csv")
	cfg := outputConfig(schema.CSVOut, path)

	require.NoError(t, WriteTeamResults(reportFixture(), cfg))

	memberData, err := os.ReadFile(memberCSVPath(path))
	require.NoError(t, err)
	assert.Contains(t, string(memberData), "team_name,team_rank,username")
	assert.Contains(t, string(memberData), "alice")
	assert.Contains(t, string(memberData), "bob")
}

func TestMemberCSVPath(t *testing.T) {
	assert.Equal(t, "teams_members_by_team.csv", memberCSVPath("teams.csv"))
	assert.Equal(t, "out_members_by_team.csv", memberCSVPath("out"))
}

func TestWriteTeamTablesDetailSections(t *testing.T) {
	var buf bytes.Buffer
	cfg := outputConfig(schema.TextOut, "")
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	require.NoError(t, writeTeamTables(&buf, reportFixture(), cfg, fmtFloat, intFmt))

	out := buf.String()
	assert.Contains(t, out, "#1 Platform (acme, 2 members)")
	assert.Contains(t, out, "Showing 1 teams (Q1 2025)")
}

func TestWriteTeamResultsParquetUnsupported(t *testing.T) {
	cfg := outputConfig(schema.ParquetOut, "x.parquet")
	assert.Error(t, WriteTeamResults(reportFixture(), cfg))
}

func TestLabelFor(t *testing.T) {
	assert.Equal(t, "Elite", labelFor(250, false))
	assert.Equal(t, "Quiet", labelFor(3, false))
	assert.Contains(t, labelFor(250, true), "Elite")
}
