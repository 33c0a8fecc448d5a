// Package core implements the contribution pipeline: fetch, score,
// aggregate, and rank.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Recnoss/A.C.E.S/internal/contract"
	"github.com/Recnoss/A.C.E.S/schema"
)

// ExecuteLeaderboard runs the full user pipeline: fetch every configured
// user, score them, and rank the result. The returned report always carries
// the failures alongside the ranked users.
func ExecuteLeaderboard(ctx context.Context, cfg *contract.Config, client contract.ContributionsClient, mgr contract.CacheManager) (*schema.RunReport, error) {
	start := time.Now()
	printRunHeader(cfg)

	users, failures := FetchAllUsers(ctx, cfg, client, mgr)
	if len(users) == 0 {
		printFailureSummary(failures)
		return nil, errors.New("no users could be fetched")
	}

	scoreUsers(users)
	ranked := RankUsers(users, cfg.ResultLimit)

	printFailureSummary(failures)
	return &schema.RunReport{
		Window:   cfg.Window,
		Users:    ranked,
		Failures: failures,
		Duration: time.Since(start),
	}, nil
}

// ExecuteTeams runs the user pipeline and then aggregates the scored users
// into the configured teams.
func ExecuteTeams(ctx context.Context, cfg *contract.Config, client contract.ContributionsClient, mgr contract.CacheManager) (*schema.RunReport, error) {
	start := time.Now()
	printRunHeader(cfg)

	users, failures := FetchAllUsers(ctx, cfg, client, mgr)
	if len(users) == 0 {
		printFailureSummary(failures)
		return nil, errors.New("no users could be fetched")
	}

	scoreUsers(users)
	// Users are ranked across the whole population, not within teams.
	RankUsers(users, 0)

	teams, teamFailures := BuildTeams(ctx, cfg, client, mgr, users)
	failures = append(failures, teamFailures...)
	if len(teams) == 0 {
		printFailureSummary(failures)
		return nil, errors.New("no teams could be resolved")
	}
	ranked := RankTeams(teams)

	printFailureSummary(failures)
	return &schema.RunReport{
		Window:   cfg.Window,
		Users:    users,
		Teams:    ranked,
		Failures: failures,
		Duration: time.Since(start),
	}, nil
}

// scoreUsers computes the score breakdown for each fetched user in place.
func scoreUsers(users []*schema.UserRecord) {
	for _, u := range users {
		u.Scores = ComputeScores(u.Raw)
	}
}

// printRunHeader announces what the run is about to do. Progress goes to
// stderr so stdout stays clean for csv/json output.
func printRunHeader(cfg *contract.Config) {
	fmt.Fprintf(os.Stderr, "Tracking %d users across %d organization(s) (%s)...\n",
		len(cfg.Users), len(cfg.Organizations), cfg.Window.Label)
}

// printFailureSummary reports every failed fetch at the end of the run so
// partial results are never mistaken for complete ones. Like the run
// header, it must never interleave with machine-readable stdout.
func printFailureSummary(failures []schema.FetchFailure) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "\n%d fetch failure(s):\n", len(failures))
	for _, f := range failures {
		if f.Status > 0 {
			fmt.Fprintf(os.Stderr, "  - %s in %s: %d (%s)\n", f.Username, f.Org, f.Status, contract.StatusMeaning(f.Status))
			continue
		}
		fmt.Fprintf(os.Stderr, "  - %s in %s: %s\n", f.Username, f.Org, f.Reason)
	}
}
