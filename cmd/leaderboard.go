package cmd

import (
	"github.com/Recnoss/A.C.E.S/core"
	"github.com/Recnoss/A.C.E.S/internal/contract"
	"github.com/Recnoss/A.C.E.S/internal/github"
	"github.com/Recnoss/A.C.E.S/internal/outwriter"
	"github.com/spf13/cobra"
)

// leaderboardCmd ranks individual users by contribution score.
var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the top users ranked by contribution score.",
	Long: `Fetch contribution activity for every configured user and rank them.

For each user within the window, the scoreboard counts:
- Commits across the configured organizations
- Pull requests opened and the share of them that merged
- Reviews given and review comments written
- Collaboration and consistency bonuses on top of the raw counts

Users are ranked from highest to lowest total score. A user whose fetch
fails in every organization is reported at the end instead of ranked.

Examples:
  # Score the last 30 days (default window)
  aces leaderboard

  # Score a calendar quarter
  aces leaderboard --quarter Q3-2025

  # Export the scoreboard to CSV for tracking
  aces leaderboard --output csv --output-file scores.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		client := github.NewClient(cfg.Token)
		report, err := core.ExecuteLeaderboard(rootCtx, cfg, client, cacheManager)
		if err != nil {
			contract.LogFatal("Cannot run leaderboard", err)
		}
		if err := outwriter.NewOutWriter().WriteUsers(report, cfg); err != nil {
			contract.LogFatal("Cannot write leaderboard results", err)
		}
	},
}
