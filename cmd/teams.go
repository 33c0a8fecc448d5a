package cmd

import (
	"github.com/Recnoss/A.C.E.S/core"
	"github.com/Recnoss/A.C.E.S/internal/contract"
	"github.com/Recnoss/A.C.E.S/internal/github"
	"github.com/Recnoss/A.C.E.S/internal/outwriter"
	"github.com/spf13/cobra"
)

// teamsCmd aggregates user scores into team standings.
var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Show team standings aggregated from member scores.",
	Long: `Resolve GitHub team rosters and aggregate member scores per team.

Each configured team is looked up in the configured organizations. Its
membership is intersected with the configured user roster, so only users
you track contribute to a team's totals. Teams are ranked by total score,
and the top teams are expanded with a per-member detail section.

Requires a 'teams' section in the config file mapping slugs to display
names.

Examples:
  # Team standings for the last 30 days
  aces teams

  # Expand member detail for the top 3 teams only
  aces teams --top-teams 3

  # Export team summary plus member detail to CSV
  aces teams --output csv --output-file teams.csv`,
	Args:    cobra.NoArgs,
	PreRunE: teamsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		client := github.NewClient(cfg.Token)
		report, err := core.ExecuteTeams(rootCtx, cfg, client, cacheManager)
		if err != nil {
			contract.LogFatal("Cannot run team standings", err)
		}
		if err := outwriter.NewOutWriter().WriteTeams(report, cfg); err != nil {
			contract.LogFatal("Cannot write team results", err)
		}
	},
}
