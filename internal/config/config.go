package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "github.com/Dan-413/cap-rate-project/internal/errors"
)

// Config represents the complete application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Paths      PathsConfig      `yaml:"paths"`
	Parsing    ParsingConfig    `yaml:"parsing"`
	Validation ValidationConfig `yaml:"validation"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"SERVER_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SERVER_SHUTDOWN_TIMEOUT"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LOG_LEVEL"`
	Output   string `yaml:"output" envconfig:"LOG_OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"LOG_FILE_PATH"`
}

// PathsConfig contains file system paths configuration.
type PathsConfig struct {
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	OutputDir  string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	ArchiveDir string `yaml:"archive_dir" envconfig:"ARCHIVE_DIR"`
}

// ParsingConfig contains the cap-rate and period admission bounds.
//
// Two independently named rate bound pairs exist on purpose: the live
// admissibility filter (MIN_CAP_RATE/MAX_CAP_RATE, 1.0-15.0) and the
// stricter extraction-side filter (STRICT_MIN_CAP_RATE/STRICT_MAX_CAP_RATE,
// 0.5-15.0). The documented defaults disagree between the two code paths,
// so both are exposed rather than guessing which is authoritative.
type ParsingConfig struct {
	MinCapRate       float64 `yaml:"min_cap_rate" envconfig:"MIN_CAP_RATE"`
	MaxCapRate       float64 `yaml:"max_cap_rate" envconfig:"MAX_CAP_RATE"`
	StrictMinCapRate float64 `yaml:"strict_min_cap_rate" envconfig:"STRICT_MIN_CAP_RATE"`
	StrictMaxCapRate float64 `yaml:"strict_max_cap_rate" envconfig:"STRICT_MAX_CAP_RATE"`
	MinYear          int     `yaml:"min_year" envconfig:"MIN_REPORT_YEAR"`
	MaxYear          int     `yaml:"max_year" envconfig:"MAX_REPORT_YEAR"`
}

// ValidationConfig contains market-name validation settings.
type ValidationConfig struct {
	MinMarketLength int `yaml:"min_market_length" envconfig:"MIN_MARKET_LENGTH"`
	MaxMarketLength int `yaml:"max_market_length" envconfig:"MAX_MARKET_LENGTH"`
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	cfg := Default()

	if configFile := findConfigFile(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config file", err).WithContext("path", configFile)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to apply environment overrides", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid configuration", err)
	}

	return cfg, nil
}

func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// OutputPath resolves a file name inside the output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.Paths.OutputDir, name)
}

// ArchivePath resolves a file name inside the archive directory.
func (c *Config) ArchivePath(name string) string {
	return filepath.Join(c.Paths.ArchiveDir, name)
}

// EnsureDirectories creates the output and archive directories if missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.ArchiveDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Parsing.MinCapRate <= 0 || c.Parsing.MaxCapRate <= c.Parsing.MinCapRate {
		return fmt.Errorf("invalid cap rate bounds: %.2f-%.2f", c.Parsing.MinCapRate, c.Parsing.MaxCapRate)
	}
	if c.Parsing.StrictMinCapRate <= 0 || c.Parsing.StrictMaxCapRate <= c.Parsing.StrictMinCapRate {
		return fmt.Errorf("invalid strict cap rate bounds: %.2f-%.2f", c.Parsing.StrictMinCapRate, c.Parsing.StrictMaxCapRate)
	}
	if c.Parsing.MinYear > c.Parsing.MaxYear {
		return fmt.Errorf("invalid year bounds: %d-%d", c.Parsing.MinYear, c.Parsing.MaxYear)
	}
	if c.Validation.MinMarketLength < 1 {
		return fmt.Errorf("min market length must be positive")
	}
	if c.Validation.MaxMarketLength < c.Validation.MinMarketLength {
		return fmt.Errorf("max market length below min market length")
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    100,
			RateLimitBurst:  50,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			ReportsDir: "semi_annual_reports",
			OutputDir:  "output",
			ArchiveDir: filepath.Join("output", "archive"),
		},
		Parsing: ParsingConfig{
			MinCapRate:       1.0,
			MaxCapRate:       15.0,
			StrictMinCapRate: 0.5,
			StrictMaxCapRate: 15.0,
			MinYear:          2020,
			MaxYear:          2025,
		},
		Validation: ValidationConfig{
			MinMarketLength: 3,
			MaxMarketLength: 50,
		},
	}
}
