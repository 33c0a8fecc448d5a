package core

import (
	"github.com/Recnoss/A.C.E.S/schema"
)

// Scoring weights and caps. These are fixed product constants, not
// configuration, so every leaderboard is comparable run to run.
const (
	commitPoints   = 2.0
	commitScoreCap = 100.0

	prOpenedPoints = 5.0
	mergeRateBonus = 20.0

	reviewPoints        = 3.0
	reviewCommentPoints = 1.0

	activeReviewerThreshold  = 5  // reviews above this earn the reviewer bonus
	activeCommenterThreshold = 20 // review comments above this earn the commenter bonus

	activeReviewerBonus  = 10.0
	activeCommenterBonus = 15.0
	wellRoundedBonus     = 10.0

	consistencyCategoryPoints = 8.0
	consistencyScoreCap       = 24.0
)

// ComputeScores turns raw activity counts into the per-category point
// breakdown. The function is pure: identical counts always produce identical
// scores, with no dependency on clock, ordering, or other users.
func ComputeScores(raw schema.RawContribution) schema.ScoreBreakdown {
	raw = clampCounts(raw)

	var b schema.ScoreBreakdown

	b.CommitScore = min(float64(raw.Commits)*commitPoints, commitScoreCap)

	// A user with zero opened PRs scores zero here rather than dividing by zero.
	if raw.PRsOpened > 0 {
		b.MergeRate = float64(raw.PRsMerged) / float64(raw.PRsOpened)
		b.PRScore = float64(raw.PRsOpened)*prOpenedPoints + b.MergeRate*mergeRateBonus
	}

	b.ReviewScore = float64(raw.Reviews)*reviewPoints + float64(raw.ReviewComments)*reviewCommentPoints
	b.CollaborationScore = collaborationScore(raw)
	b.ConsistencyScore = consistencyScore(raw)

	b.TotalScore = b.CommitScore + b.PRScore + b.ReviewScore + b.CollaborationScore + b.ConsistencyScore
	return b
}

// clampCounts floors every count at zero. Counts from the live API are
// never negative, but a decoded cache entry is not trusted to hold that.
func clampCounts(raw schema.RawContribution) schema.RawContribution {
	raw.Commits = max(raw.Commits, 0)
	raw.PRsOpened = max(raw.PRsOpened, 0)
	raw.PRsMerged = max(raw.PRsMerged, 0)
	raw.PRsClosed = max(raw.PRsClosed, 0)
	raw.Reviews = max(raw.Reviews, 0)
	raw.ReviewComments = max(raw.ReviewComments, 0)
	raw.PRCommentsReceived = max(raw.PRCommentsReceived, 0)
	return raw
}

// collaborationScore awards flat bonuses for helping others. The three
// bonuses sum to at most 35 points.
func collaborationScore(raw schema.RawContribution) float64 {
	var score float64
	if raw.Reviews > activeReviewerThreshold {
		score += activeReviewerBonus
	}
	if raw.ReviewComments > activeCommenterThreshold {
		score += activeCommenterBonus
	}
	if raw.Commits > 0 && raw.PRsOpened > 0 && raw.Reviews > 0 {
		score += wellRoundedBonus
	}
	return score
}

// consistencyScore rewards activity spread across contribution categories
// rather than volume within one. Each active category of commits, pull
// requests, and reviews is worth the same flat amount.
func consistencyScore(raw schema.RawContribution) float64 {
	var score float64
	if raw.Commits > 0 {
		score += consistencyCategoryPoints
	}
	if raw.PRsOpened > 0 {
		score += consistencyCategoryPoints
	}
	if raw.Reviews > 0 {
		score += consistencyCategoryPoints
	}
	return min(score, consistencyScoreCap)
}
