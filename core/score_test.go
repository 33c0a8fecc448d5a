package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Recnoss/A.C.E.S/schema"
)

func TestComputeScoresCommitCap(t *testing.T) {
	tests := []struct {
		name    string
		commits int
		want    float64
	}{
		{"zero commits", 0, 0},
		{"below cap", 40, 80},
		{"at cap", 50, 100},
		{"above cap", 60, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ComputeScores(schema.RawContribution{Commits: tt.commits})
			assert.Equal(t, tt.want, b.CommitScore)
		})
	}
}

func TestComputeScoresPRs(t *testing.T) {
	tests := []struct {
		name          string
		opened        int
		merged        int
		wantMergeRate float64
		wantPRScore   float64
	}{
		{"no PRs opened", 0, 0, 0, 0},
		{"half merged", 10, 5, 0.5, 60},
		{"all merged", 4, 4, 1, 40},
		{"none merged", 4, 0, 0, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ComputeScores(schema.RawContribution{PRsOpened: tt.opened, PRsMerged: tt.merged})
			assert.InDelta(t, tt.wantMergeRate, b.MergeRate, 1e-9)
			assert.InDelta(t, tt.wantPRScore, b.PRScore, 1e-9)
		})
	}
}

func TestComputeScoresReviews(t *testing.T) {
	b := ComputeScores(schema.RawContribution{Reviews: 4, ReviewComments: 7})
	assert.Equal(t, 19.0, b.ReviewScore)
}

func TestCollaborationScore(t *testing.T) {
	tests := []struct {
		name string
		raw  schema.RawContribution
		want float64
	}{
		{"no activity", schema.RawContribution{}, 0},
		{"active reviewer only", schema.RawContribution{Reviews: 6}, 10},
		{"boundary reviews do not count", schema.RawContribution{Reviews: 5}, 0},
		{"active commenter only", schema.RawContribution{ReviewComments: 21}, 15},
		{"well rounded only", schema.RawContribution{Commits: 1, PRsOpened: 1, Reviews: 1}, 10},
		{"reviewer and commenter without PRs", schema.RawContribution{Reviews: 10, ReviewComments: 30}, 25},
		{"reviewer and well rounded", schema.RawContribution{Commits: 12, PRsOpened: 3, Reviews: 8, ReviewComments: 15}, 20},
		{"commenter and well rounded", schema.RawContribution{Commits: 5, PRsOpened: 2, Reviews: 3, ReviewComments: 25}, 25},
		{"all bonuses", schema.RawContribution{Commits: 50, PRsOpened: 10, Reviews: 12, ReviewComments: 40}, 35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collaborationScore(tt.raw))
		})
	}
}

func TestConsistencyScore(t *testing.T) {
	tests := []struct {
		name string
		raw  schema.RawContribution
		want float64
	}{
		{"inactive", schema.RawContribution{}, 0},
		{"one category", schema.RawContribution{Commits: 100}, 8},
		{"two categories", schema.RawContribution{Commits: 1, Reviews: 1}, 16},
		{"three categories", schema.RawContribution{Commits: 1, PRsOpened: 1, Reviews: 1}, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, consistencyScore(tt.raw))
		})
	}
}

func TestComputeScoresTotalIsSumOfParts(t *testing.T) {
	raw := schema.RawContribution{
		Commits:        30,
		PRsOpened:      8,
		PRsMerged:      6,
		Reviews:        9,
		ReviewComments: 12,
	}
	b := ComputeScores(raw)
	sum := b.CommitScore + b.PRScore + b.ReviewScore + b.CollaborationScore + b.ConsistencyScore
	assert.InDelta(t, sum, b.TotalScore, 1e-9)
}

func TestComputeScoresIsPure(t *testing.T) {
	raw := schema.RawContribution{Commits: 17, PRsOpened: 3, PRsMerged: 2, Reviews: 4, ReviewComments: 6}
	first := ComputeScores(raw)
	for range 10 {
		assert.Equal(t, first, ComputeScores(raw))
	}
}

func TestComputeScoresClampsNegativeCounts(t *testing.T) {
	// Counts can only go negative through a corrupted cache entry, and
	// scores must still never drop below zero.
	raw := schema.RawContribution{
		Commits:        -5,
		PRsOpened:      -3,
		PRsMerged:      -1,
		Reviews:        -2,
		ReviewComments: -4,
	}
	b := ComputeScores(raw)

	assert.Equal(t, 0.0, b.CommitScore)
	assert.Equal(t, 0.0, b.MergeRate)
	assert.Equal(t, 0.0, b.PRScore)
	assert.Equal(t, 0.0, b.ReviewScore)
	assert.Equal(t, 0.0, b.CollaborationScore)
	assert.Equal(t, 0.0, b.ConsistencyScore)
	assert.Equal(t, 0.0, b.TotalScore)

	// A mixed record only loses the negative fields, not the valid ones.
	mixed := ComputeScores(schema.RawContribution{Commits: 10, Reviews: -7})
	assert.Equal(t, 20.0, mixed.CommitScore)
	assert.Equal(t, 0.0, mixed.ReviewScore)
	assert.Equal(t, 28.0, mixed.TotalScore)
}

func BenchmarkComputeScores(b *testing.B) {
	raw := schema.RawContribution{
		Commits:        42,
		PRsOpened:      9,
		PRsMerged:      7,
		Reviews:        11,
		ReviewComments: 23,
	}
	for b.Loop() {
		ComputeScores(raw)
	}
}
