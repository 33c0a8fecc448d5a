package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Recnoss/A.C.E.S/internal/contract"
	"github.com/Recnoss/A.C.E.S/schema"
)

func scoredUser(login string, commits int, total float64) *schema.UserRecord {
	return &schema.UserRecord{
		Username: login,
		Raw:      schema.RawContribution{Commits: commits},
		Scores:   schema.ScoreBreakdown{TotalScore: total},
	}
}

func TestAggregateTeam(t *testing.T) {
	team := &schema.TeamRecord{
		Members: []*schema.UserRecord{
			{Raw: schema.RawContribution{Commits: 10, PRsOpened: 2, PRsMerged: 1, Reviews: 4, ReviewComments: 3}, Scores: schema.ScoreBreakdown{TotalScore: 60}},
			{Raw: schema.RawContribution{Commits: 5, PRsOpened: 1, Reviews: 2, ReviewComments: 1}, Scores: schema.ScoreBreakdown{TotalScore: 30}},
		},
	}

	aggregateTeam(team)

	assert.Equal(t, 2, team.MemberCount)
	assert.Equal(t, 90.0, team.TotalScore)
	assert.Equal(t, 45.0, team.AverageScore)
	assert.Equal(t, 15, team.TotalCommits)
	assert.Equal(t, 3, team.TotalPRsOpened)
	assert.Equal(t, 1, team.TotalPRsMerged)
	assert.Equal(t, 6, team.TotalReviews)
	assert.Equal(t, 4, team.TotalReviewComments)
}

func TestAggregateTeamEmpty(t *testing.T) {
	team := &schema.TeamRecord{}
	aggregateTeam(team)

	assert.Equal(t, 0, team.MemberCount)
	assert.Equal(t, 0.0, team.TotalScore)
	assert.Equal(t, 0.0, team.AverageScore, "empty teams report zero, never NaN")
}

func TestBuildTeamsIntersectsConfiguredUsers(t *testing.T) {
	cfg := fetchConfig([]string{"acme"})
	cfg.Teams = []contract.TeamEntry{{Slug: "platform", DisplayName: "Platform"}}

	client := &stubClient{
		team: func(org, slug string) (*schema.TeamInfo, error) {
			return &schema.TeamInfo{Slug: slug, Name: "Platform", Organization: org}, nil
		},
		members: func(org, slug string) ([]string, error) {
			return []string{"alice", "mallory", "bob"}, nil
		},
	}
	users := []*schema.UserRecord{
		scoredUser("alice", 10, 50),
		scoredUser("bob", 5, 30),
		scoredUser("carol", 7, 40),
	}

	teams, failures := BuildTeams(context.Background(), cfg, client, nil, users)

	assert.Empty(t, failures)
	require.Len(t, teams, 1)
	team := teams[0]
	assert.Equal(t, "platform", team.Slug)
	assert.Equal(t, "acme", team.Organization)
	assert.Equal(t, []string{"alice", "bob"}, logins(team.Members), "untracked members are ignored")
	assert.Equal(t, 80.0, team.TotalScore)
}

func TestBuildTeamsFallsThroughOrganizations(t *testing.T) {
	cfg := fetchConfig([]string{"acme", "umbrella"})
	cfg.Teams = []contract.TeamEntry{{Slug: "web", DisplayName: "Web"}}

	client := &stubClient{
		team: func(org, slug string) (*schema.TeamInfo, error) {
			if org == "acme" {
				return nil, errors.New("not found")
			}
			return &schema.TeamInfo{Slug: slug, Organization: org}, nil
		},
		members: func(org, slug string) ([]string, error) {
			return []string{"alice"}, nil
		},
	}
	users := []*schema.UserRecord{scoredUser("alice", 1, 20)}

	teams, failures := BuildTeams(context.Background(), cfg, client, nil, users)

	require.Len(t, teams, 1)
	assert.Equal(t, "umbrella", teams[0].Organization)
	require.Len(t, failures, 1, "the failed organization is still reported")
	assert.Equal(t, "web", failures[0].Username)
	assert.Equal(t, "acme", failures[0].Org)
}

func TestBuildTeamsUnresolvableTeamIsSkipped(t *testing.T) {
	cfg := fetchConfig([]string{"acme"})
	cfg.Teams = []contract.TeamEntry{
		{Slug: "ghosts", DisplayName: "Ghosts"},
		{Slug: "web", DisplayName: "Web"},
	}

	client := &stubClient{
		team: func(org, slug string) (*schema.TeamInfo, error) {
			if slug == "ghosts" {
				return nil, errors.New("not found")
			}
			return &schema.TeamInfo{Slug: slug, Organization: org}, nil
		},
		members: func(org, slug string) ([]string, error) {
			return []string{"alice"}, nil
		},
	}
	users := []*schema.UserRecord{scoredUser("alice", 1, 20)}

	teams, failures := BuildTeams(context.Background(), cfg, client, nil, users)

	require.Len(t, teams, 1)
	assert.Equal(t, "web", teams[0].Slug)
	require.Len(t, failures, 1)
	assert.Equal(t, "ghosts", failures[0].Username)
}
