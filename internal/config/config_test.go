package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Dan-413/cap-rate-project/internal/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 1.0, cfg.Parsing.MinCapRate, 1e-12)
	assert.InDelta(t, 15.0, cfg.Parsing.MaxCapRate, 1e-12)
	assert.InDelta(t, 0.5, cfg.Parsing.StrictMinCapRate, 1e-12)
	assert.Equal(t, 2020, cfg.Parsing.MinYear)
	assert.Equal(t, 2025, cfg.Parsing.MaxYear)
	assert.Equal(t, 3, cfg.Validation.MinMarketLength)
	assert.Equal(t, 50, cfg.Validation.MaxMarketLength)
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("MIN_CAP_RATE", "2.0")
	t.Setenv("MAX_REPORT_YEAR", "2030")
	t.Setenv("REPORTS_DIR", "custom_reports")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.InDelta(t, 2.0, cfg.Parsing.MinCapRate, 1e-12)
	assert.Equal(t, 2030, cfg.Parsing.MaxYear)
	assert.Equal(t, "custom_reports", cfg.Paths.ReportsDir)
	// Untouched values keep their defaults.
	assert.InDelta(t, 15.0, cfg.Parsing.MaxCapRate, 1e-12)
}

func TestLoadRejectsInvalidEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"inverted rate bounds", func(c *Config) { c.Parsing.MaxCapRate = 0.5 }, "invalid cap rate bounds"},
		{"zero strict min", func(c *Config) { c.Parsing.StrictMinCapRate = 0 }, "invalid strict cap rate bounds"},
		{"inverted years", func(c *Config) { c.Parsing.MinYear = 2030 }, "invalid year bounds"},
		{"zero market length", func(c *Config) { c.Validation.MinMarketLength = 0 }, "min market length"},
		{"inverted market lengths", func(c *Config) { c.Validation.MaxMarketLength = 2 }, "max market length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestPathHelpers(t *testing.T) {
	cfg := Default()
	cfg.Paths.OutputDir = filepath.Join("out")
	cfg.Paths.ArchiveDir = filepath.Join("out", "archive")

	assert.Equal(t, filepath.Join("out", "data.json"), cfg.OutputPath("data.json"))
	assert.Equal(t, filepath.Join("out", "archive", "x.csv"), cfg.ArchivePath("x.csv"))
}

func TestEnsureDirectories(t *testing.T) {
	cfg := Default()
	dir := t.TempDir()
	cfg.Paths.OutputDir = filepath.Join(dir, "output")
	cfg.Paths.ArchiveDir = filepath.Join(dir, "output", "archive")

	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.Paths.OutputDir)
	assert.DirExists(t, cfg.Paths.ArchiveDir)
}
