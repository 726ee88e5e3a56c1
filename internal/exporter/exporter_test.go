package exporter

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Dan-413/cap-rate-project/internal/analytics"
	"github.com/Dan-413/cap-rate-project/internal/config"
	"github.com/Dan-413/cap-rate-project/internal/dataprocessing"
	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

func testExporter(t *testing.T) (*Exporter, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.ArchiveDir = filepath.Join(cfg.Paths.OutputDir, "archive")
	require.NoError(t, cfg.EnsureDirectories())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, analytics.NewEngine(logger), logger), cfg
}

func sampleDataset() *domain.HistoricalDataset {
	return &domain.HistoricalDataset{Records: []domain.CapRateRecord{
		{
			Sector:        "Industrial",
			Market:        "Dallas",
			ReportYear:    2024,
			ReportHalf:    1,
			H1Low:         domain.Float(4.5),
			H1High:        domain.Float(5.5),
			H1Avg:         domain.Float(5.0),
			IsValidMarket: true,
			SourceFile:    "h1_2024.csv",
		},
		{
			Sector:        "Office",
			Market:        "New York",
			ReportYear:    2023,
			ReportHalf:    2,
			H2Low:         domain.Float(6.05),
			H2High:        domain.Float(7.15),
			H2Avg:         domain.Float(6.6000000000000005),
			IsValidMarket: true,
			SourceFile:    "h2_2023.csv",
		},
	}}
}

func TestWriteDatasetCSVRoundTrip(t *testing.T) {
	e, cfg := testExporter(t)
	dataset := sampleDataset()

	require.NoError(t, e.WriteDatasetCSV(dataset))

	loaded, warnings, err := dataprocessing.ReadDataset(cfg.OutputPath(DatasetFileName))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Equal(t, dataset.Len(), loaded.Len())

	for i, want := range dataset.Records {
		got := loaded.Records[i]
		assert.Equal(t, want.Sector, got.Sector)
		assert.Equal(t, want.Market, got.Market)
		assert.Equal(t, want.ReportYear, got.ReportYear)
		assert.Equal(t, want.ReportHalf, got.ReportHalf)
		assert.Equal(t, want.IsValidMarket, got.IsValidMarket)
		assert.Equal(t, want.SourceFile, got.SourceFile)
		// Exact float round-trip, including the non-terminating average.
		assert.True(t, want.SameRates(got))
		if want.H2Avg != nil {
			require.NotNil(t, got.H2Avg)
			assert.Equal(t, *want.H2Avg, *got.H2Avg)
		}
	}
}

func TestWriteDatasetCSVHasBOM(t *testing.T) {
	e, cfg := testExporter(t)
	require.NoError(t, e.WriteDatasetCSV(sampleDataset()))

	content, err := os.ReadFile(cfg.OutputPath(DatasetFileName))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, content[:3])
}

func TestWriteDatasetCSVArchivesPrevious(t *testing.T) {
	e, cfg := testExporter(t)
	e.now = func() time.Time { return time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC) }

	// First write: nothing to archive yet.
	require.NoError(t, e.WriteDatasetCSV(sampleDataset()))
	entries, err := os.ReadDir(cfg.Paths.ArchiveDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Second write archives the first.
	require.NoError(t, e.WriteDatasetCSV(sampleDataset()))
	entries, err = os.ReadDir(cfg.Paths.ArchiveDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "historical_cap_rates_20250301_103000.csv", entries[0].Name())
}

func TestWriteDashboardJSON(t *testing.T) {
	e, cfg := testExporter(t)
	require.NoError(t, e.WriteDashboardJSON(sampleDataset()))

	content, err := os.ReadFile(cfg.OutputPath(DashboardFileName))
	require.NoError(t, err)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(content, &payload))
	for _, key := range []string{"metadata", "summary", "timeSeries", "markets", "sectors"} {
		assert.Contains(t, payload, key)
	}

	var metadata DashboardMetadata
	require.NoError(t, json.Unmarshal(payload["metadata"], &metadata))
	assert.Equal(t, schemaVersion, metadata.Version)
	assert.Equal(t, 2, metadata.TotalRecords)
	assert.Equal(t, []string{"2023-H2", "2024-H1"}, metadata.ReportPeriods)
}

func TestBuildDashboard(t *testing.T) {
	e, _ := testExporter(t)
	payload := e.BuildDashboard(sampleDataset())

	assert.Equal(t, 2, payload.Summary.TotalRecords)
	assert.Len(t, payload.Sectors, 2)
	assert.Len(t, payload.Markets, 2)
	require.Len(t, payload.TimeSeries, 2)
	// Each sector series spans the global period axis.
	assert.Len(t, payload.TimeSeries[0].Points, 2)
}

func TestWriteWorkbook(t *testing.T) {
	e, cfg := testExporter(t)
	require.NoError(t, e.WriteWorkbook(sampleDataset()))

	f, err := excelize.OpenFile(cfg.OutputPath(WorkbookFileName))
	require.NoError(t, err)
	defer f.Close()

	cell, err := f.GetCellValue(datasetSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Sector", cell)

	market, err := f.GetCellValue(datasetSheet, "D2")
	require.NoError(t, err)
	assert.Equal(t, "Dallas", market)
}

func TestWriteMetadata(t *testing.T) {
	e, cfg := testExporter(t)

	metadata := domain.ProcessingMetadata{
		ProcessedAt:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		SourceFiles:   []string{"h1_2024.csv"},
		ReportPeriods: []string{"2024-H1"},
		TotalFiles:    1,
	}
	require.NoError(t, e.WriteMetadata(metadata))

	content, err := os.ReadFile(cfg.OutputPath(MetadataFileName))
	require.NoError(t, err)

	var loaded domain.ProcessingMetadata
	require.NoError(t, json.Unmarshal(content, &loaded))
	assert.Equal(t, metadata, loaded)
}
