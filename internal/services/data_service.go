package services

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Dan-413/cap-rate-project/internal/analytics"
	"github.com/Dan-413/cap-rate-project/internal/config"
	"github.com/Dan-413/cap-rate-project/internal/dataprocessing"
	"github.com/Dan-413/cap-rate-project/internal/deal"
	"github.com/Dan-413/cap-rate-project/internal/exporter"
	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

// DataService owns the in-memory historical dataset and answers all
// read-side queries. The dataset is replaced wholesale on Reload; readers
// take the lock only long enough to grab the current pointer, so requests
// never observe a half-loaded dataset.
type DataService struct {
	cfg       *config.Config
	analytics *analytics.Engine
	deals     *deal.Engine
	exporter  *exporter.Exporter
	logger    *slog.Logger

	mu      sync.RWMutex
	dataset *domain.HistoricalDataset
}

// NewDataService creates a data service with an empty dataset. Call Reload
// to populate it from canonical storage.
func NewDataService(cfg *config.Config, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	engine := analytics.NewEngine(logger)
	return &DataService{
		cfg:       cfg,
		analytics: engine,
		deals:     deal.NewEngine(logger),
		exporter:  exporter.New(cfg, engine, logger),
		logger:    logger,
		dataset:   &domain.HistoricalDataset{},
	}
}

// Reload replaces the in-memory dataset from the canonical CSV. A missing
// file loads an empty dataset; row-level problems are logged and skipped.
func (s *DataService) Reload() error {
	path := s.cfg.OutputPath(exporter.DatasetFileName)
	dataset, warnings, err := dataprocessing.ReadDataset(path)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	for _, w := range warnings {
		s.logger.Warn("dataset row skipped", slog.String("reason", w))
	}

	s.mu.Lock()
	s.dataset = dataset
	s.mu.Unlock()

	s.logger.Info("dataset loaded",
		slog.String("path", path),
		slog.Int("records", dataset.Len()))
	return nil
}

func (s *DataService) current() *domain.HistoricalDataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// RecordCount returns the number of loaded records.
func (s *DataService) RecordCount() int {
	return s.current().Len()
}

// Summary returns the dashboard headline block.
func (s *DataService) Summary() domain.DatasetSummary {
	return s.analytics.Summary(s.current())
}

// Sectors returns the cross-period sector comparison.
func (s *DataService) Sectors() []domain.SectorStat {
	return s.analytics.SectorComparison(s.current())
}

// Markets returns the market ranking, truncated to limit when positive.
func (s *DataService) Markets(limit int) []domain.MarketRank {
	return s.analytics.MarketRanking(s.current(), limit)
}

// TimeSeries returns the period series, optionally filtered by sector and
// market.
func (s *DataService) TimeSeries(sector, market string) []domain.TimeSeriesPoint {
	return s.analytics.TimeSeries(s.current(), sector, market)
}

// MarketAnalysis returns the single-market deep-dive. A market with no
// records in the dataset is reported as unknown.
func (s *DataService) MarketAnalysis(market string) (domain.MarketAnalysis, error) {
	analysis := s.analytics.MarketAnalysis(s.current(), market)
	if analysis.RecordCount == 0 {
		return domain.MarketAnalysis{}, fmt.Errorf("market %q not found in dataset", market)
	}
	return analysis, nil
}

// MarketRange derives the min/avg/max cap-rate triple for a market, the
// comparison input for deal validation and scenarios.
func (s *DataService) MarketRange(market string) (domain.MarketRange, error) {
	analysis, err := s.MarketAnalysis(market)
	if err != nil {
		return domain.MarketRange{}, err
	}
	if analysis.AvgRatePct <= 0 {
		return domain.MarketRange{}, fmt.Errorf("market %q has no usable rates", market)
	}
	return domain.MarketRange{
		MinRatePct: analysis.MinRatePct,
		AvgRatePct: analysis.AvgRatePct,
		MaxRatePct: analysis.MaxRatePct,
	}, nil
}

// Dashboard assembles the full dashboard payload from the loaded dataset.
func (s *DataService) Dashboard() exporter.DashboardData {
	return s.exporter.BuildDashboard(s.current())
}

// AnalyzeDeal runs the underwriting engine on one deal input.
func (s *DataService) AnalyzeDeal(input domain.DealInput) (domain.DealAnalysis, []deal.Violation) {
	return s.deals.Analyze(input)
}

// ValidateDeal compares a deal against a market range.
func (s *DataService) ValidateDeal(input domain.DealInput, market domain.MarketRange) (domain.MarketValidation, []deal.Violation) {
	return s.deals.ValidateAgainstMarket(input, market)
}

// DealScenarios derives the three market-implied valuation scenarios.
func (s *DataService) DealScenarios(input domain.DealInput, market domain.MarketRange) ([]domain.ValuationScenario, []deal.Violation) {
	return s.deals.Scenarios(input, market)
}
