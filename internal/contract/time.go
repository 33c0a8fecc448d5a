package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/Recnoss/A.C.E.S/schema"
)

// quarterPattern matches tokens like "Q1-2025" or "q3-2024".
var quarterPattern = regexp.MustCompile(`^[Qq]([1-4])-(\d{4})$`)

// WindowFromDays builds a lookback window ending at now.
func WindowFromDays(days int, now time.Time) (schema.Window, error) {
	if days <= 0 {
		return schema.Window{}, fmt.Errorf("days must be greater than 0 (received %d)", days)
	}
	return schema.Window{
		Start: now.AddDate(0, 0, -days),
		End:   now,
		Label: fmt.Sprintf("last %d days", days),
	}, nil
}

// WindowFromQuarter parses a fiscal-quarter token like "Q1-2025" into the
// quarter's calendar window. The end bound is the last second of the
// quarter's final day.
func WindowFromQuarter(token string) (schema.Window, error) {
	m := quarterPattern.FindStringSubmatch(token)
	if m == nil {
		return schema.Window{}, fmt.Errorf("invalid quarter format %q. Use Q1-2025, Q2-2024, etc", token)
	}

	quarter, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])

	startMonth := time.Month(3*(quarter-1) + 1)
	start := time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0).Add(-time.Second)

	return schema.Window{
		Start: start,
		End:   end,
		Label: fmt.Sprintf("Q%d %d", quarter, year),
	}, nil
}

// CacheGranularity defines the time granularity used when deriving cache
// fingerprints from window bounds. Truncating to the hour keeps repeated
// runs within the same hour on the same cache entries.
const CacheGranularity = time.Hour

// TruncateWindow returns the window with both bounds truncated to the
// caching granularity. Used only for fingerprint derivation.
func TruncateWindow(w schema.Window) schema.Window {
	return schema.Window{
		Start: w.Start.Truncate(CacheGranularity),
		End:   w.End.Truncate(CacheGranularity),
		Label: w.Label,
	}
}
