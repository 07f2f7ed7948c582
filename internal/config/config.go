// Package config loads the jobsync configuration from config files,
// environment variables, and .env files.
package config

import (
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/shopfloor/jobsync/pkg/errors"
	"github.com/shopfloor/jobsync/pkg/jobs"
	"github.com/shopfloor/jobsync/pkg/syncer"
)

// DefaultTokenEnv is the environment variable holding the sheet API
// token when the config does not name another one.
const DefaultTokenEnv = "JOBSYNC_SHEET_TOKEN"

// Config holds the application configuration loaded from all sources.
type Config struct {
	// Scan
	Root         string
	ManifestName string
	CacheFile    string
	ReportFile   string

	// Sheet
	SheetBaseURL string
	SheetID      string
	TokenEnv     string

	// Batching
	DeleteBatchSize int
	AddBatchSize    int
	UpdateBatchSize int

	// Dataset shaping
	ExcludedStatuses []string
	Mapping          map[string]string

	// Order-system database (optional)
	DatabaseDSN string

	// Global flags
	Verbose  bool
	Quiet    bool
	LogLevel string

	// Config file actually used, if any
	ConfigFile string
}

// Load reads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra, applied after Load)
//  2. Environment variables (JOBSYNC_ prefix)
//  3. .env files
//  4. Config file (jobsync.yaml in the working directory or $HOME)
//  5. Defaults
func Load(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("JOBSYNC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapParse("config", configFile, err)
		}
	} else {
		v.SetConfigName("jobsync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		// A missing config file is fine; env vars and flags may be
		// enough.
		_ = v.ReadInConfig()
	}

	cfg := &Config{
		Root:         v.GetString("scan.root"),
		ManifestName: v.GetString("scan.manifest_name"),
		CacheFile:    v.GetString("scan.cache_file"),
		ReportFile:   v.GetString("scan.report_file"),

		SheetBaseURL: v.GetString("sheet.base_url"),
		SheetID:      v.GetString("sheet.id"),
		TokenEnv:     v.GetString("sheet.token_env"),

		DeleteBatchSize: v.GetInt("sheet.delete_batch_size"),
		AddBatchSize:    v.GetInt("sheet.add_batch_size"),
		UpdateBatchSize: v.GetInt("sheet.update_batch_size"),

		ExcludedStatuses: v.GetStringSlice("excluded_statuses"),
		Mapping:          v.GetStringMapString("mapping"),

		DatabaseDSN: v.GetString("database.dsn"),

		LogLevel:   getEnvOrDefault("LOG_LEVEL", "info"),
		ConfigFile: v.ConfigFileUsed(),
	}

	return cfg, nil
}

// Token returns the sheet API token from the configured environment
// variable.
func (c *Config) Token() string {
	return os.Getenv(c.TokenEnv)
}

// SheetMapping returns the configured column mapping, or the default
// identity mapping when none is configured. Config keys are matched to
// record fields case-insensitively because viper lowercases map keys;
// a key matching no field is an error rather than a silently dropped
// column.
func (c *Config) SheetMapping() (syncer.Mapping, error) {
	if len(c.Mapping) == 0 {
		return syncer.DefaultMapping(), nil
	}

	fields := make(map[string]string, len(jobs.SyncFields()))
	for _, field := range jobs.SyncFields() {
		fields[strings.ToLower(field)] = field
	}

	mapping := make(syncer.Mapping, len(c.Mapping))
	var unknown []string
	for key, column := range c.Mapping {
		field, ok := fields[strings.ToLower(key)]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		mapping[field] = column
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errors.New("mapping names unknown local fields: " + strings.Join(unknown, ", "))
	}
	return mapping, nil
}

// ValidateScan checks the settings the scan stage needs.
func (c *Config) ValidateScan() error {
	if c.Root == "" {
		return errors.New("scan root not configured: set scan.root or --root")
	}
	return nil
}

// ValidateSync checks the settings a full sync needs.
func (c *Config) ValidateSync() error {
	if err := c.ValidateScan(); err != nil {
		return err
	}
	if c.SheetBaseURL == "" {
		return errors.New("sheet base URL not configured: set sheet.base_url")
	}
	if c.SheetID == "" {
		return errors.New("sheet not configured: set sheet.id or --sheet-id")
	}
	if c.Token() == "" {
		return errors.New("sheet token not set: export " + c.TokenEnv)
	}
	return nil
}

// UpdateFromFlags applies parsed command flags, which take precedence
// over config file and environment values.
func (c *Config) UpdateFromFlags(verbose, quiet bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// setDefaults registers defaults for everything that has one.
func setDefaults(v *viper.Viper) {
	v.SetDefault("scan.manifest_name", "manifest.txt")
	v.SetDefault("sheet.token_env", DefaultTokenEnv)
	v.SetDefault("sheet.delete_batch_size", syncer.DefaultDeleteBatchSize)
	v.SetDefault("sheet.add_batch_size", syncer.DefaultAddBatchSize)
	v.SetDefault("sheet.update_batch_size", syncer.DefaultUpdateBatchSize)
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default
// if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
