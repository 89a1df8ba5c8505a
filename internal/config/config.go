package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "sabercli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	ChartsDir  string `yaml:"charts_dir" envconfig:"CHARTS_DIR"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// ReportConfig contains the analytical parameters of the season report
type ReportConfig struct {
	// TopN bounds the top-OPS and surname-count tables.
	TopN int `yaml:"top_n" envconfig:"TOP_N"`
	// CompareSeasonA and CompareSeasonB are the two seasons the top-OPS
	// query pivots across.
	CompareSeasonA int `yaml:"compare_season_a" envconfig:"COMPARE_SEASON_A"`
	CompareSeasonB int `yaml:"compare_season_b" envconfig:"COMPARE_SEASON_B"`
	// ShortenedSeason is the year whose traditional rows have no Statcast
	// counterpart and are expected to fall out of the join.
	ShortenedSeason int `yaml:"shortened_season" envconfig:"SHORTENED_SEASON"`
}

// Load loads configuration from environment variables and an optional YAML file.
// Environment variables take precedence over file values.
func Load(configFile string) (*Config, error) {
	var cfg Config

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, apperrors.NewConfigError("config file not accessible", err).
				WithContext("path", configFile)
		}
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", configFile)
		}
		cfg = *fileCfg
	}

	// Environment variables override file values and fill in defaults
	if err := envconfig.Process("SABER", &cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills zero values that neither the file nor envconfig set.
// envconfig only applies struct defaults when processing a zero struct, so a
// partially populated file config needs the gaps closed explicitly.
func applyDefaults(cfg *Config) {
	if cfg.Paths.DataDir == "" {
		cfg.Paths.DataDir = "data"
	}
	if cfg.Paths.ReportsDir == "" {
		cfg.Paths.ReportsDir = "reports"
	}
	if cfg.Paths.ChartsDir == "" {
		cfg.Paths.ChartsDir = filepath.Join(cfg.Paths.ReportsDir, "charts")
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "console"
	}
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = "logs/sabercli.log"
	}
	if cfg.Report.TopN == 0 {
		cfg.Report.TopN = 15
	}
	if cfg.Report.CompareSeasonA == 0 {
		cfg.Report.CompareSeasonA = 2019
	}
	if cfg.Report.CompareSeasonB == 0 {
		cfg.Report.CompareSeasonB = 2021
	}
	if cfg.Report.ShortenedSeason == 0 {
		cfg.Report.ShortenedSeason = 2020
	}
}

// validate checks configuration invariants
func (c *Config) validate() error {
	if c.Report.TopN < 1 {
		return apperrors.NewConfigError(fmt.Sprintf("report.top_n must be positive, got %d", c.Report.TopN), nil)
	}
	if c.Report.CompareSeasonA == c.Report.CompareSeasonB {
		return apperrors.NewConfigError(fmt.Sprintf("compare seasons must differ, got %d twice", c.Report.CompareSeasonA), nil)
	}
	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return apperrors.NewConfigError(fmt.Sprintf("logging.output must be console, file, or both, got %q", c.Logging.Output), nil)
	}
	return nil
}

// EnsureDirs creates the output directories if they do not exist
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.Paths.ReportsDir, c.Paths.ChartsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewStorageError("failed to create output directory", err).
				WithContext("dir", dir)
		}
	}
	return nil
}
