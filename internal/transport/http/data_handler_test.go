package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan-413/cap-rate-project/internal/config"
	"github.com/Dan-413/cap-rate-project/internal/services"
	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loadedService runs one processing pass over a small extract and returns a
// data service with the result loaded.
func loadedService(t *testing.T) *services.DataService {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ReportsDir = filepath.Join(dir, "reports")
	cfg.Paths.OutputDir = filepath.Join(dir, "output")
	cfg.Paths.ArchiveDir = filepath.Join(dir, "output", "archive")
	require.NoError(t, os.MkdirAll(cfg.Paths.ReportsDir, 0755))

	extract := "Sector,Market,Report_Year,Report_Half,H1_Low,H1_High\n" +
		"Industrial,Dallas,2024,1,4.5,5.5\n" +
		"Office,Dallas,2024,1,6.0,7.0\n" +
		"Office,New York,2024,1,6.5,7.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Paths.ReportsDir, "h1_2024.csv"), []byte(extract), 0644))

	_, err := services.NewProcessingService(cfg, testLogger()).Run(context.Background())
	require.NoError(t, err)

	svc := services.NewDataService(cfg, testLogger())
	require.NoError(t, svc.Reload())
	return svc
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGetSummary(t *testing.T) {
	h := NewDataHandler(loadedService(t), testLogger())

	rec := get(t, h.Routes(), "/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary domain.DatasetSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.TotalRecords)
	assert.Equal(t, 2, summary.TotalMarkets)
	assert.Equal(t, 2, summary.TotalSectors)
}

func TestGetSectors(t *testing.T) {
	h := NewDataHandler(loadedService(t), testLogger())

	rec := get(t, h.Routes(), "/sectors")
	require.Equal(t, http.StatusOK, rec.Code)

	var sectors []domain.SectorStat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sectors))
	require.Len(t, sectors, 2)
	assert.Equal(t, "Industrial", sectors[0].Sector)
}

func TestGetMarkets(t *testing.T) {
	h := NewDataHandler(loadedService(t), testLogger())

	rec := get(t, h.Routes(), "/markets")
	require.Equal(t, http.StatusOK, rec.Code)

	var markets []domain.MarketRank
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &markets))
	require.Len(t, markets, 2)
	assert.Equal(t, "New York", markets[0].Market)

	rec = get(t, h.Routes(), "/markets?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &markets))
	assert.Len(t, markets, 1)
}

func TestGetMarketsInvalidLimit(t *testing.T) {
	h := NewDataHandler(loadedService(t), testLogger())

	for _, limit := range []string{"abc", "-1", "9999"} {
		rec := get(t, h.Routes(), "/markets?limit="+limit)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}

func TestGetTimeSeries(t *testing.T) {
	h := NewDataHandler(loadedService(t), testLogger())

	rec := get(t, h.Routes(), "/timeseries?sector=Office&market=Dallas")
	require.Equal(t, http.StatusOK, rec.Code)

	var points []domain.TimeSeriesPoint
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	require.Len(t, points, 1)
	require.NotNil(t, points[0].RatePct)
	assert.InDelta(t, 6.5, *points[0].RatePct, 1e-12)
}

func TestGetMarketAnalysis(t *testing.T) {
	h := NewDataHandler(loadedService(t), testLogger())

	rec := get(t, h.Routes(), "/market/Dallas")
	require.Equal(t, http.StatusOK, rec.Code)

	var analysis domain.MarketAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.Equal(t, "Dallas", analysis.Market)
	assert.Equal(t, 2, analysis.RecordCount)
}

func TestGetMarketAnalysisNotFound(t *testing.T) {
	h := NewDataHandler(loadedService(t), testLogger())

	rec := get(t, h.Routes(), "/market/Nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "MARKET_NOT_FOUND")
}

func TestGetDashboard(t *testing.T) {
	h := NewDataHandler(loadedService(t), testLogger())

	rec := get(t, h.Routes(), "/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	for _, key := range []string{"metadata", "summary", "timeSeries", "markets", "sectors"} {
		assert.Contains(t, payload, key)
	}
}
