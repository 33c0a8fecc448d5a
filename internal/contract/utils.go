package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Leaderboard tier label constants.
const (
	EliteValue  = "Elite"  // Top-end composite score
	StrongValue = "Strong" // Sustained activity across categories
	ActiveValue = "Active" // Regular contributor
	QuietValue  = "Quiet"  // Little or no activity in the window
)

// Color variables for console output.
var (
	EliteColor  = color.New(color.FgGreen, color.Bold)
	StrongColor = color.New(color.FgCyan, color.Bold)
	ActiveColor = color.New(color.FgYellow)
	QuietColor  = color.New(color.FgWhite)
)

// GetPlainLabel returns a plain text tier label for a total score.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 200:
		return EliteValue
	case score >= 100:
		return StrongValue
	case score >= 25:
		return ActiveValue
	default:
		return QuietValue
	}
}

// GetColorLabel returns a colored tier label for console table output.
// It uses GetPlainLabel to determine the string, then applies the color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case EliteValue:
		return EliteColor.Sprint(text)
	case StrongValue:
		return StrongColor.Sprint(text)
	case ActiveValue:
		return ActiveColor.Sprint(text)
	default: // "Quiet"
		return QuietColor.Sprint(text)
	}
}

// statusMeanings maps upstream HTTP status codes to short human-readable
// explanations surfaced in the end-of-run failure summary.
var statusMeanings = map[int]string{
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden/Rate Limited",
	404: "Not Found",
	422: "Unprocessable Entity",
	500: "Internal Server Error",
	502: "Bad Gateway",
	503: "Service Unavailable",
}

// StatusMeaning returns a human-readable meaning for an HTTP status code.
func StatusMeaning(code int) string {
	if meaning, ok := statusMeanings[code]; ok {
		return meaning
	}
	return "Unknown Error"
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It returns stdout when no path is configured.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetCacheDBFilePath returns the default path to the SQLite DB file holding
// cached upstream responses. The store is fully disposable; deleting it only
// makes the next fetch slower.
func GetCacheDBFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aces_cache.db"
	}
	return filepath.Join(home, ".aces_cache.db")
}

// TruncateName truncates a display name to a maximum width with an ellipsis
// suffix so leaderboard rows stay on one line.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString accepts the yes/no style values used by CLI flags.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on":
		return true, nil
	case "no", "false", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("expected yes/no/true/false/1/0, got %q", s)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", msg, err)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
}
