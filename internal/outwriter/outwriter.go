// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/Recnoss/A.C.E.S/internal/contract"
	"github.com/Recnoss/A.C.E.S/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteUsers prints the ranked leaderboard using the configured output format.
func (ow *OutWriter) WriteUsers(report *schema.RunReport, cfg *contract.Config) error {
	return WriteUserResults(report, cfg)
}

// WriteTeams prints the ranked team standings using the configured output format.
func (ow *OutWriter) WriteTeams(report *schema.RunReport, cfg *contract.Config) error {
	return WriteTeamResults(report, cfg)
}

// footerDuration rounds run durations for display so the footer does not
// show nanosecond noise.
func footerDuration(d time.Duration) time.Duration {
	return d.Round(10 * time.Millisecond)
}

// getMaxTableNameWidth calculates the maximum width for display names in
// table output based on the detected terminal width.
func getMaxTableNameWidth() int {
	// Get terminal width
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		termWidth = 80 // Conservative default for narrow terminals and CI
	}

	// Reserve space for fixed columns with table formatting:
	// Rank + Score + Label + the four count columns with borders/padding.
	baseWidth := 60

	available := termWidth - baseWidth
	if available < 12 {
		// Minimum reasonable name width
		return 12
	}
	if available > 40 {
		// Maximum name width to prevent overly wide tables
		return 40
	}
	return available
}
