// Package exporter writes the processing run's outputs: the canonical
// historical dataset CSV (with a timestamped archive copy of the previous
// version), the dashboard JSON consumed by the web frontend, an Excel
// workbook for analysts, and the run metadata file.
package exporter

import (
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/Dan-413/cap-rate-project/internal/analytics"
	"github.com/Dan-413/cap-rate-project/internal/config"
	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

// Output file names inside the configured output directory.
const (
	DatasetFileName   = "historical_cap_rates.csv"
	DashboardFileName = "data.json"
	WorkbookFileName  = "historical_cap_rates.xlsx"
	MetadataFileName  = "metadata.json"
)

// schemaVersion is stamped into the dashboard payload so the frontend can
// reject data it does not understand.
const schemaVersion = "2.0.0"

// Exporter writes dataset outputs to the configured output directory.
type Exporter struct {
	cfg       *config.Config
	analytics *analytics.Engine
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an exporter backed by the given analytics engine.
func New(cfg *config.Config, engine *analytics.Engine, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		cfg:       cfg,
		analytics: engine,
		logger:    logger,
		now:       time.Now,
	}
}

// formatRate renders an optional rate for tabular output. The shortest
// round-trippable form is used so re-reading the CSV reproduces the exact
// float and duplicate detection stays stable across runs.
func formatRate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// periodLabels returns every distinct period in the dataset as sorted
// "YYYY-Hn" labels.
func periodLabels(dataset *domain.HistoricalDataset) []string {
	type period struct{ year, half int }
	seen := make(map[period]bool)
	var periods []period
	for _, r := range dataset.Records {
		p := period{r.ReportYear, r.ReportHalf}
		if !seen[p] {
			seen[p] = true
			periods = append(periods, p)
		}
	}
	sort.Slice(periods, func(i, j int) bool {
		if periods[i].year != periods[j].year {
			return periods[i].year < periods[j].year
		}
		return periods[i].half < periods[j].half
	})

	labels := make([]string, 0, len(periods))
	for _, p := range periods {
		labels = append(labels, domain.CapRateRecord{ReportYear: p.year, ReportHalf: p.half}.PeriodLabel())
	}
	return labels
}
