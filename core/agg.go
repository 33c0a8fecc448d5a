package core

import (
	"context"
	"fmt"

	"github.com/Recnoss/A.C.E.S/internal/contract"
	"github.com/Recnoss/A.C.E.S/schema"
)

// BuildTeams resolves every configured team against the upstream member
// listing and attaches the scored users belonging to it. Team membership is
// intersected with the configured user set: members who are not tracked in
// the config simply do not contribute. A team that cannot be resolved is
// recorded as a failure and skipped, never aborting the run.
func BuildTeams(ctx context.Context, cfg *contract.Config, client contract.ContributionsClient, mgr contract.CacheManager, users []*schema.UserRecord) ([]*schema.TeamRecord, []schema.FetchFailure) {
	byLogin := make(map[string]*schema.UserRecord, len(users))
	for _, u := range users {
		byLogin[u.Username] = u
	}

	teams := make([]*schema.TeamRecord, 0, len(cfg.Teams))
	var failures []schema.FetchFailure

	for _, entry := range cfg.Teams {
		team, fails := buildOneTeam(ctx, cfg, client, mgr, entry, byLogin)
		failures = append(failures, fails...)
		if team != nil {
			teams = append(teams, team)
		}
	}
	return teams, failures
}

// buildOneTeam resolves one team slug across the configured organizations.
// The first organization that knows the slug wins; a slug unknown to every
// organization fails the team.
func buildOneTeam(ctx context.Context, cfg *contract.Config, client contract.ContributionsClient, mgr contract.CacheManager, entry contract.TeamEntry, byLogin map[string]*schema.UserRecord) (*schema.TeamRecord, []schema.FetchFailure) {
	var failures []schema.FetchFailure

	for _, org := range cfg.Organizations {
		info, err := cachedTeam(ctx, client, mgr, org, entry.Slug, cfg.Window)
		if err != nil {
			failures = append(failures, schema.FetchFailure{
				Username: entry.Slug,
				Org:      org,
				Status:   statusFromErr(err),
				Reason:   fmt.Sprintf("team lookup: %v", err),
			})
			continue
		}

		members, err := cachedTeamMembers(ctx, client, mgr, org, entry.Slug, cfg.Window)
		if err != nil {
			failures = append(failures, schema.FetchFailure{
				Username: entry.Slug,
				Org:      org,
				Status:   statusFromErr(err),
				Reason:   fmt.Sprintf("team members: %v", err),
			})
			continue
		}

		team := &schema.TeamRecord{
			Slug:         info.Slug,
			DisplayName:  entry.DisplayName,
			Organization: org,
		}
		for _, login := range members {
			if user, ok := byLogin[login]; ok {
				team.Members = append(team.Members, user)
			}
		}
		aggregateTeam(team)
		return team, failures
	}
	return nil, failures
}

// aggregateTeam fills the roll-up totals from the attached members.
// An empty team keeps every total at zero, including the average.
func aggregateTeam(team *schema.TeamRecord) {
	team.MemberCount = len(team.Members)
	for _, m := range team.Members {
		team.TotalScore += m.Scores.TotalScore
		team.TotalCommits += m.Raw.Commits
		team.TotalPRsOpened += m.Raw.PRsOpened
		team.TotalPRsMerged += m.Raw.PRsMerged
		team.TotalReviews += m.Raw.Reviews
		team.TotalReviewComments += m.Raw.ReviewComments
	}
	if team.MemberCount > 0 {
		team.AverageScore = team.TotalScore / float64(team.MemberCount)
	}
}
