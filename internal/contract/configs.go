package contract

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/Recnoss/A.C.E.S/schema"
)

// Default values for configuration.
const (
	DefaultLookbackDays = 30
	DefaultResultLimit  = 100
	MaxResultLimit      = 1000
	DefaultPrecision    = 1
	DefaultTopTeams     = 5
)

// DefaultWorkers is the default number of concurrent fetch workers.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// UserEntry maps a configured login to its display name.
type UserEntry struct {
	Login       string
	DisplayName string
}

// TeamEntry maps a configured team slug to its display name.
type TeamEntry struct {
	Slug        string
	DisplayName string
}

// Config holds the runtime configuration for a run.
// This struct is the "final, validated" config.
type Config struct {
	Token         string
	Organizations []string
	Users         []UserEntry // Sorted by login for deterministic discovery order
	Teams         []TeamEntry // Sorted by slug

	Window      schema.Window
	ResultLimit int
	Workers     int
	TopTeams    int

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	UseColors  bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	ClearCache     bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Days           int    `mapstructure:"days"`
	Quarter        string `mapstructure:"quarter"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Color          string `mapstructure:"color"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	ClearCache     bool   `mapstructure:"clear-cache"`
	Token          string `mapstructure:"token"`

	// --- Fields from teamsCmd.Flags() ---
	TopTeams int `mapstructure:"top-teams"`

	// --- Fields only settable through the config file ---
	Users         map[string]string `mapstructure:"users"`
	Teams         map[string]string `mapstructure:"teams"`
	Organizations []string          `mapstructure:"organizations"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct. Validation failures here are fatal
// configuration errors: the run aborts before any fetch.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, requireTeams bool) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWindow(cfg, input, time.Now()); err != nil {
		return err
	}
	if err := processIdentities(cfg, input, requireTeams); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates the scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.ClearCache = input.ClearCache

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 4. TopTeams Validation ---
	if input.TopTeams < 0 {
		return fmt.Errorf("top-teams cannot be negative (received %d)", input.TopTeams)
	}
	cfg.TopTeams = input.TopTeams
	if cfg.TopTeams == 0 {
		cfg.TopTeams = DefaultTopTeams
	}

	// --- 5. Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	return nil
}

// processWindow resolves the contribution window from either a quarter
// token or a day count. A quarter token takes precedence when both are set.
func processWindow(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if input.Quarter != "" {
		window, err := WindowFromQuarter(input.Quarter)
		if err != nil {
			return err
		}
		cfg.Window = window
		return nil
	}

	window, err := WindowFromDays(input.Days, now)
	if err != nil {
		return err
	}
	cfg.Window = window
	return nil
}

// processIdentities validates the token and the users/teams/organizations
// sections of the config file. Unknown config keys are ignored by Viper;
// missing required sections abort the run with a clear message.
func processIdentities(cfg *Config, input *ConfigRawInput, requireTeams bool) error {
	cfg.Token = input.Token
	if cfg.Token == "" {
		cfg.Token = os.Getenv("GITHUB_TOKEN")
	}
	if cfg.Token == "" {
		return fmt.Errorf("missing API token: set ACES_TOKEN or GITHUB_TOKEN")
	}

	if len(input.Organizations) == 0 {
		return fmt.Errorf("missing required setting 'organizations': configure at least one organization")
	}
	cfg.Organizations = make([]string, 0, len(input.Organizations))
	for _, org := range input.Organizations {
		org = strings.TrimSpace(org)
		if org != "" {
			cfg.Organizations = append(cfg.Organizations, org)
		}
	}
	if len(cfg.Organizations) == 0 {
		return fmt.Errorf("missing required setting 'organizations': configure at least one organization")
	}

	if len(input.Users) == 0 {
		return fmt.Errorf("missing required setting 'users': configure at least one login to display-name mapping")
	}

	// Sort logins so the discovery order, and therefore tie-breaking in the
	// ranked output, is deterministic across runs.
	cfg.Users = make([]UserEntry, 0, len(input.Users))
	for login, name := range input.Users {
		login = strings.TrimSpace(login)
		if login == "" {
			continue
		}
		if name == "" {
			name = login
		}
		cfg.Users = append(cfg.Users, UserEntry{Login: login, DisplayName: name})
	}
	sort.Slice(cfg.Users, func(i, j int) bool { return cfg.Users[i].Login < cfg.Users[j].Login })

	if requireTeams {
		if len(input.Teams) == 0 {
			return fmt.Errorf("missing required setting 'teams': configure at least one slug to display-name mapping")
		}
		cfg.Teams = make([]TeamEntry, 0, len(input.Teams))
		for slug, name := range input.Teams {
			slug = strings.TrimSpace(slug)
			if slug == "" {
				continue
			}
			if name == "" {
				name = slug
			}
			cfg.Teams = append(cfg.Teams, TeamEntry{Slug: slug, DisplayName: name})
		}
		sort.Slice(cfg.Teams, func(i, j int) bool { return cfg.Teams[i].Slug < cfg.Teams[j].Slug })
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
