package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Recnoss/A.C.E.S/schema"
)

func userWithScore(login string, total float64) *schema.UserRecord {
	return &schema.UserRecord{
		Username: login,
		Scores:   schema.ScoreBreakdown{TotalScore: total},
	}
}

func TestRankUsersDescending(t *testing.T) {
	users := []*schema.UserRecord{
		userWithScore("alice", 50),
		userWithScore("bob", 120),
		userWithScore("carol", 80),
	}

	ranked := RankUsers(users, 0)

	assert.Equal(t, []string{"bob", "carol", "alice"}, logins(ranked))
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestRankUsersStableTies(t *testing.T) {
	// Configured login order is alphabetical, so equal scores must keep it.
	users := []*schema.UserRecord{
		userWithScore("alice", 80),
		userWithScore("bob", 80),
		userWithScore("carol", 80),
	}

	ranked := RankUsers(users, 0)

	assert.Equal(t, []string{"alice", "bob", "carol"}, logins(ranked))
}

func TestRankUsersLimit(t *testing.T) {
	users := []*schema.UserRecord{
		userWithScore("alice", 50),
		userWithScore("bob", 120),
		userWithScore("carol", 80),
	}

	ranked := RankUsers(users, 2)

	assert.Len(t, ranked, 2)
	assert.Equal(t, []string{"bob", "carol"}, logins(ranked))
}

func TestRankTeams(t *testing.T) {
	teams := []*schema.TeamRecord{
		{Slug: "infra", TotalScore: 40},
		{Slug: "web", TotalScore: 90},
		{Slug: "data", TotalScore: 90},
	}

	ranked := RankTeams(teams)

	assert.Equal(t, "web", ranked[0].Slug, "stable sort keeps web ahead of data")
	assert.Equal(t, "data", ranked[1].Slug)
	assert.Equal(t, "infra", ranked[2].Slug)
	assert.Equal(t, 3, ranked[2].Rank)
}

func logins(users []*schema.UserRecord) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.Username)
	}
	return out
}
