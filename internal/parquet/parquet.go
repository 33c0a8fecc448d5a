// Package parquet exports leaderboard data to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/Recnoss/A.C.E.S/schema"
)

// UserRow is the flattened per-user leaderboard record for Parquet export.
// The column layout mirrors the CSV export so downstream analytics can
// consume either format interchangeably.
type UserRow struct {
	// Rank is the user's 1-based position on the leaderboard
	Rank int32 `parquet:"rank,snappy"`

	// Username is the upstream login
	Username string `parquet:"username,snappy"`

	// FullName is the configured display name
	FullName string `parquet:"full_name,snappy"`

	// TotalScore is the composite gamification score
	TotalScore float64 `parquet:"total_score,snappy"`

	// CommitsCount is the raw commit count in the window
	CommitsCount int32 `parquet:"commits_count,snappy"`

	// CommitsScore is the commit category score
	CommitsScore float64 `parquet:"commits_score,snappy"`

	// PRsOpened is the raw count of pull requests opened
	PRsOpened int32 `parquet:"prs_opened,snappy"`

	// PRsMerged is the raw count of pull requests merged
	PRsMerged int32 `parquet:"prs_merged,snappy"`

	// PRMergeRate is PRsMerged over PRsOpened, 0 when nothing opened
	PRMergeRate float64 `parquet:"pr_merge_rate,snappy"`

	// PRScore is the pull request category score
	PRScore float64 `parquet:"pr_score,snappy"`

	// ReviewsGiven is the raw count of reviews given
	ReviewsGiven int32 `parquet:"reviews_given,snappy"`

	// ReviewComments is the raw count of comments made during reviews
	ReviewComments int32 `parquet:"review_comments,snappy"`

	// ReviewsScore is the review category score
	ReviewsScore float64 `parquet:"reviews_score,snappy"`

	// CollaborationScore is the flat-bonus collaboration score
	CollaborationScore float64 `parquet:"collaboration_score,snappy"`

	// ConsistencyScore is the cross-category consistency score
	ConsistencyScore float64 `parquet:"consistency_score,snappy"`

	// Source tags which upstream path produced the raw counts
	Source string `parquet:"source,snappy"`

	// WindowStart is the start of the contribution window
	WindowStart time.Time `parquet:"window_start,snappy"`

	// WindowEnd is the end of the contribution window
	WindowEnd time.Time `parquet:"window_end,snappy"`
}

// ConvertUserRecords flattens ranked user records into Parquet rows.
func ConvertUserRecords(users []*schema.UserRecord, window schema.Window) []UserRow {
	rows := make([]UserRow, len(users))
	for i, u := range users {
		rows[i] = UserRow{
			Rank:               int32(u.Rank),
			Username:           u.Username,
			FullName:           u.DisplayName,
			TotalScore:         u.Scores.TotalScore,
			CommitsCount:       int32(u.Raw.Commits),
			CommitsScore:       u.Scores.CommitScore,
			PRsOpened:          int32(u.Raw.PRsOpened),
			PRsMerged:          int32(u.Raw.PRsMerged),
			PRMergeRate:        u.Scores.MergeRate,
			PRScore:            u.Scores.PRScore,
			ReviewsGiven:       int32(u.Raw.Reviews),
			ReviewComments:     int32(u.Raw.ReviewComments),
			ReviewsScore:       u.Scores.ReviewScore,
			CollaborationScore: u.Scores.CollaborationScore,
			ConsistencyScore:   u.Scores.ConsistencyScore,
			Source:             string(u.Source),
			WindowStart:        window.Start,
			WindowEnd:          window.End,
		}
	}
	return rows
}

// WriteUserRowsParquet writes the leaderboard rows to a Parquet file.
func WriteUserRowsParquet(data []UserRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the UserRow struct tags
	writer := parquet.NewGenericWriter[UserRow](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
