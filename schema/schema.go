// Package schema has configs, models and constants for all parts of aces.
package schema

import "time"

// Window is the date range over which contribution activity is counted.
// Start is always strictly before End; construction is validated in the
// contract package.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"` // Human-readable range, e.g. "last 30 days" or "Q1 2025"
}

// Contains reports whether t falls inside the window (inclusive bounds).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// RawContribution holds the per-user activity counts returned by the
// upstream API for a single window, before any scoring is applied.
// All counts are non-negative.
type RawContribution struct {
	Commits            int        `json:"commits"`                // Commit contributions in the window
	PRsOpened          int        `json:"prs_opened"`             // Pull requests opened
	PRsMerged          int        `json:"prs_merged"`             // Pull requests merged
	PRsClosed          int        `json:"prs_closed"`             // Pull requests closed without merge
	Reviews            int        `json:"reviews"`                // Code reviews given
	ReviewComments     int        `json:"review_comments"`        // Comments made during reviews
	PRCommentsReceived int        `json:"pr_comments_received"`   // Comments received on own PRs
	Repositories       []string   `json:"repositories,omitempty"` // Repositories seen during enumeration
	Source             DataSource `json:"source"`                 // Upstream path that produced the counts
}

// Merge returns the element-wise sum of two raw contribution sets.
// Used when the same user is tracked across multiple organizations.
func (r RawContribution) Merge(other RawContribution) RawContribution {
	merged := RawContribution{
		Commits:            r.Commits + other.Commits,
		PRsOpened:          r.PRsOpened + other.PRsOpened,
		PRsMerged:          r.PRsMerged + other.PRsMerged,
		PRsClosed:          r.PRsClosed + other.PRsClosed,
		Reviews:            r.Reviews + other.Reviews,
		ReviewComments:     r.ReviewComments + other.ReviewComments,
		PRCommentsReceived: r.PRCommentsReceived + other.PRCommentsReceived,
	}
	merged.Repositories = append(merged.Repositories, r.Repositories...)
	merged.Repositories = append(merged.Repositories, other.Repositories...)
	merged.Source = r.Source
	if other.Source != r.Source {
		merged.Source = MergedSource
	}
	return merged
}

// ScoreBreakdown is the gamification point total for one user, split by
// category. Computed once by the scoring engine and read-only afterwards.
type ScoreBreakdown struct {
	CommitScore        float64 `json:"commit_score"`
	MergeRate          float64 `json:"merge_rate"`
	PRScore            float64 `json:"pr_score"`
	ReviewScore        float64 `json:"review_score"`
	CollaborationScore float64 `json:"collaboration_score"`
	ConsistencyScore   float64 `json:"consistency_score"`
	TotalScore         float64 `json:"total_score"`
}

// UserRecord ties a configured user to their fetched activity and computed
// scores for a single run. Records live for the duration of the run only.
type UserRecord struct {
	Username      string          `json:"username"`
	DisplayName   string          `json:"display_name"`
	Organizations []string        `json:"organizations"`
	Raw           RawContribution `json:"raw"`
	Scores        ScoreBreakdown  `json:"scores"`
	Source        DataSource      `json:"source"` // Which upstream path produced Raw
	Rank          int             `json:"rank"`
}

// TeamInfo is the upstream description of a team within an organization.
type TeamInfo struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Organization string `json:"organization"`
}

// TeamRecord aggregates member scores for one configured team.
// Members is a non-owning view into the run's UserRecords; a user in
// several configured teams appears in each of them.
type TeamRecord struct {
	Slug         string        `json:"slug"`
	DisplayName  string        `json:"display_name"`
	Organization string        `json:"organization"`
	Members      []*UserRecord `json:"members"`
	MemberCount  int           `json:"member_count"`
	TotalScore   float64       `json:"total_score"`
	AverageScore float64       `json:"average_score"`
	Rank         int           `json:"rank"`

	// Raw activity rolled up across members for reporting.
	TotalCommits        int `json:"total_commits"`
	TotalPRsOpened      int `json:"total_prs_opened"`
	TotalPRsMerged      int `json:"total_prs_merged"`
	TotalReviews        int `json:"total_reviews"`
	TotalReviewComments int `json:"total_review_comments"`
}

// FetchFailure records a user/organization pair whose contribution fetch
// failed after both upstream paths were exhausted. Failures are reported,
// never silently dropped; a user is excluded from ranking only when every
// configured organization failed.
type FetchFailure struct {
	Username string `json:"username"`
	Org      string `json:"org"`
	Status   int    `json:"status,omitempty"` // Last HTTP status seen, 0 for transport errors
	Reason   string `json:"reason"`
}

// RunReport is everything a single leaderboard run produced.
type RunReport struct {
	Window   Window         `json:"window"`
	Users    []*UserRecord  `json:"users"`
	Teams    []*TeamRecord  `json:"teams,omitempty"`
	Failures []FetchFailure `json:"failures"`
	Duration time.Duration  `json:"duration"`
}
