// Package analytics computes cross-cutting statistics over the reconciled
// historical dataset: sector and market rollups, time series with null
// gaps, volatility and trend classification. All operations are pure
// functions of the dataset; market-scoped views only see records whose
// market name passed validation, while sector and time views see every
// admissible record.
package analytics

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

// trendThresholdPct is the minimum absolute rate movement, in percentage
// points, that counts as a direction rather than noise.
const trendThresholdPct = 0.1

// Engine computes aggregates over a historical dataset.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an analytics engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// SectorComparison returns the mean rate per sector across all periods and
// markets, sorted ascending by mean rate. Sectors with no contributing
// rates are excluded.
func (e *Engine) SectorComparison(dataset *domain.HistoricalDataset) []domain.SectorStat {
	type acc struct {
		rates   []float64
		markets map[string]bool
		count   int
	}
	sectors := make(map[string]*acc)
	var order []string

	for _, r := range dataset.Records {
		a, ok := sectors[r.Sector]
		if !ok {
			a = &acc{markets: make(map[string]bool)}
			sectors[r.Sector] = a
			order = append(order, r.Sector)
		}
		a.count++
		if r.IsValidMarket {
			a.markets[r.Market] = true
		}
		if rate, ok := r.PreferredRate(); ok {
			a.rates = append(a.rates, rate)
		}
	}

	var stats []domain.SectorStat
	for _, sector := range order {
		a := sectors[sector]
		if len(a.rates) == 0 {
			continue
		}
		min, max := a.rates[0], a.rates[0]
		for _, rate := range a.rates[1:] {
			min = math.Min(min, rate)
			max = math.Max(max, rate)
		}
		stats = append(stats, domain.SectorStat{
			Sector:      sector,
			AvgRatePct:  Mean(a.rates),
			MinRatePct:  min,
			MaxRatePct:  max,
			MarketCount: len(a.markets),
			RecordCount: a.count,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].AvgRatePct < stats[j].AvgRatePct
	})
	return stats
}

// MarketRanking returns markets by descending mean rate, truncated to
// limit when limit is positive. Ties keep input order (stable sort). Only
// records with a validated market name contribute.
func (e *Engine) MarketRanking(dataset *domain.HistoricalDataset, limit int) []domain.MarketRank {
	type acc struct {
		rates []float64
		count int
	}
	markets := make(map[string]*acc)
	var order []string

	for _, r := range dataset.Records {
		if !r.IsValidMarket {
			continue
		}
		a, ok := markets[r.Market]
		if !ok {
			a = &acc{}
			markets[r.Market] = a
			order = append(order, r.Market)
		}
		a.count++
		if rate, ok := r.PreferredRate(); ok {
			a.rates = append(a.rates, rate)
		}
	}

	var ranking []domain.MarketRank
	for _, market := range order {
		a := markets[market]
		if len(a.rates) == 0 {
			continue
		}
		ranking = append(ranking, domain.MarketRank{
			Market:      market,
			AvgRatePct:  Mean(a.rates),
			RecordCount: a.count,
		})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].AvgRatePct > ranking[j].AvgRatePct
	})
	if limit > 0 && len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking
}

// TimeSeries returns the mean rate per period, chronologically sorted by
// numeric year then half. Optional sector and market filters narrow the
// matching records; a market filter implies market-scoped view semantics.
// Points are period-scoped: a record contributes only its own half's
// average, not the cross-half fallback used by the other aggregates.
// Periods with no matching records yield a nil rate, never zero, so charts
// can skip or interpolate the gap.
func (e *Engine) TimeSeries(dataset *domain.HistoricalDataset, sector, market string) []domain.TimeSeriesPoint {
	periods := distinctPeriods(dataset)

	var points []domain.TimeSeriesPoint
	for _, p := range periods {
		var rates []float64
		count := 0
		for _, r := range dataset.Records {
			if r.ReportYear != p.year || r.ReportHalf != p.half {
				continue
			}
			if sector != "" && r.Sector != sector {
				continue
			}
			if market != "" && (!r.IsValidMarket || r.Market != market) {
				continue
			}
			count++
			if rate, ok := r.PeriodRate(p.half); ok {
				rates = append(rates, rate)
			}
		}

		point := domain.TimeSeriesPoint{
			Period: p.key(),
			Year:   p.year,
			Half:   p.half,
			Count:  count,
		}
		if len(rates) > 0 {
			point.RatePct = domain.Float(Mean(rates))
		}
		points = append(points, point)
	}
	return points
}

// MultiSeries returns one aligned time series per sector, all spanning the
// same global period axis so gaps stay visible.
func (e *Engine) MultiSeries(dataset *domain.HistoricalDataset) []domain.SectorSeries {
	seen := make(map[string]bool)
	var sectors []string
	for _, r := range dataset.Records {
		if !seen[r.Sector] {
			seen[r.Sector] = true
			sectors = append(sectors, r.Sector)
		}
	}
	sort.Strings(sectors)

	series := make([]domain.SectorSeries, 0, len(sectors))
	for _, sector := range sectors {
		series = append(series, domain.SectorSeries{
			Sector: sector,
			Points: e.TimeSeries(dataset, sector, ""),
		})
	}
	return series
}

// MarketAnalysis produces the single-market deep-dive: per-sector ranges,
// the trend series with its direction, and overall summary statistics.
func (e *Engine) MarketAnalysis(dataset *domain.HistoricalDataset, market string) domain.MarketAnalysis {
	analysis := domain.MarketAnalysis{Market: market}

	type acc struct{ rates []float64 }
	sectors := make(map[string]*acc)
	var order []string
	var allRates []float64

	for _, r := range dataset.Records {
		if !r.IsValidMarket || r.Market != market {
			continue
		}
		analysis.RecordCount++
		rate, ok := r.PreferredRate()
		if !ok {
			continue
		}
		allRates = append(allRates, rate)
		a, exists := sectors[r.Sector]
		if !exists {
			a = &acc{}
			sectors[r.Sector] = a
			order = append(order, r.Sector)
		}
		a.rates = append(a.rates, rate)
	}

	sort.Strings(order)
	for _, sector := range order {
		rates := sectors[sector].rates
		min, max := rates[0], rates[0]
		for _, rate := range rates[1:] {
			min = math.Min(min, rate)
			max = math.Max(max, rate)
		}
		analysis.Sectors = append(analysis.Sectors, domain.SectorRange{
			Sector:     sector,
			MinRatePct: min,
			AvgRatePct: Mean(rates),
			MaxRatePct: max,
			SpreadPct:  max - min,
			Count:      len(rates),
		})
	}

	if len(allRates) > 0 {
		min, max := allRates[0], allRates[0]
		for _, rate := range allRates[1:] {
			min = math.Min(min, rate)
			max = math.Max(max, rate)
		}
		analysis.AvgRatePct = Mean(allRates)
		analysis.MinRatePct = min
		analysis.MaxRatePct = max
		analysis.VolatilityPct = Volatility(allRates)
	}

	analysis.Trend = e.TimeSeries(dataset, "", market)
	analysis.TrendDir = TrendDirection(analysis.Trend)
	return analysis
}

// TrendDirection compares the mean of the two most recent populated
// periods against the mean of the two earliest. Movement below the 0.1
// percentage point threshold is Stable; fewer than two populated periods
// is Insufficient Data.
func TrendDirection(points []domain.TimeSeriesPoint) domain.TrendDirection {
	var populated []float64
	for _, p := range points {
		if p.RatePct != nil {
			populated = append(populated, *p.RatePct)
		}
	}
	if len(populated) < 2 {
		return domain.TrendInsufficient
	}

	earliest := populated[:2]
	recent := populated[len(populated)-2:]
	delta := Mean(recent) - Mean(earliest)

	switch {
	case delta >= trendThresholdPct:
		return domain.TrendRising
	case delta <= -trendThresholdPct:
		return domain.TrendFalling
	default:
		return domain.TrendStable
	}
}

// Summary builds the dashboard headline block.
func (e *Engine) Summary(dataset *domain.HistoricalDataset) domain.DatasetSummary {
	summary := domain.DatasetSummary{
		TotalRecords:    dataset.Len(),
		SectorBreakdown: make(map[string]int),
	}

	markets := make(map[string]bool)
	for _, r := range dataset.Records {
		summary.SectorBreakdown[r.Sector]++
		if r.IsValidMarket {
			markets[r.Market] = true
		}
	}
	summary.TotalMarkets = len(markets)
	summary.TotalSectors = len(summary.SectorBreakdown)

	periods := distinctPeriods(dataset)
	if len(periods) > 0 {
		summary.DateRange = domain.DateRange{
			Start: periods[0].label(),
			End:   periods[len(periods)-1].label(),
		}
	}
	return summary
}

type period struct {
	year, half int
}

func (p period) key() string   { return fmt.Sprintf("%d_%d", p.year, p.half) }
func (p period) label() string { return fmt.Sprintf("%d-H%d", p.year, p.half) }

// distinctPeriods returns every period present in the dataset, sorted by
// numeric year then half (never by string order).
func distinctPeriods(dataset *domain.HistoricalDataset) []period {
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
	return periods
}
