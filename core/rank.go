package core

import (
	"sort"

	"github.com/Recnoss/A.C.E.S/schema"
)

// RankUsers sorts users by total score in descending order, assigns
// 1-based ranks, and returns the top 'limit' entries. The sort is stable:
// users with equal scores keep their discovery order, which follows the
// configured login order.
func RankUsers(users []*schema.UserRecord, limit int) []*schema.UserRecord {
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].Scores.TotalScore > users[j].Scores.TotalScore
	})
	for i, u := range users {
		u.Rank = i + 1
	}
	if limit > 0 && len(users) > limit {
		return users[:limit]
	}
	return users
}

// RankTeams sorts teams by total team score in descending order and
// assigns 1-based ranks. Teams are never truncated; the detail view is
// what honors the top-teams limit.
func RankTeams(teams []*schema.TeamRecord) []*schema.TeamRecord {
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].TotalScore > teams[j].TotalScore
	})
	for i, t := range teams {
		t.Rank = i + 1
	}
	return teams
}
