package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

// DashboardMetadata describes the provenance block of the dashboard
// payload.
type DashboardMetadata struct {
	LastUpdated   time.Time `json:"lastUpdated"`
	TotalRecords  int       `json:"totalRecords"`
	ReportPeriods []string  `json:"reportPeriods"`
	Version       string    `json:"version"`
}

// DashboardData is the complete payload served to the web dashboard. It is
// regenerated whole on every processing run; the frontend never mutates it.
type DashboardData struct {
	Metadata   DashboardMetadata     `json:"metadata"`
	Summary    domain.DatasetSummary `json:"summary"`
	TimeSeries []domain.SectorSeries `json:"timeSeries"`
	Markets    []domain.MarketRank   `json:"markets"`
	Sectors    []domain.SectorStat   `json:"sectors"`
}

// BuildDashboard assembles the dashboard payload from the dataset.
func (e *Exporter) BuildDashboard(dataset *domain.HistoricalDataset) DashboardData {
	return DashboardData{
		Metadata: DashboardMetadata{
			LastUpdated:   e.now().UTC(),
			TotalRecords:  dataset.Len(),
			ReportPeriods: periodLabels(dataset),
			Version:       schemaVersion,
		},
		Summary:    e.analytics.Summary(dataset),
		TimeSeries: e.analytics.MultiSeries(dataset),
		Markets:    e.analytics.MarketRanking(dataset, 0),
		Sectors:    e.analytics.SectorComparison(dataset),
	}
}

// WriteDashboardJSON writes the dashboard payload to the output directory.
func (e *Exporter) WriteDashboardJSON(dataset *domain.HistoricalDataset) error {
	payload := e.BuildDashboard(dataset)

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard data: %w", err)
	}

	path := e.cfg.OutputPath(DashboardFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write dashboard data: %w", err)
	}

	e.logger.Info("dashboard JSON written",
		slog.String("path", path),
		slog.Int("records", payload.Metadata.TotalRecords))
	return nil
}
