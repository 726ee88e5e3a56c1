package domain

// SectorStat is one sector's rollup across all periods and markets.
type SectorStat struct {
	Sector      string  `json:"sector"`
	AvgRatePct  float64 `json:"avg_rate_pct"`
	MinRatePct  float64 `json:"min_rate_pct"`
	MaxRatePct  float64 `json:"max_rate_pct"`
	MarketCount int     `json:"market_count"`
	RecordCount int     `json:"record_count"`
}

// MarketRank is one market's mean-rate ranking entry.
type MarketRank struct {
	Market      string  `json:"market"`
	AvgRatePct  float64 `json:"avg_rate_pct"`
	RecordCount int     `json:"record_count"`
}

// TimeSeriesPoint is one chronological point of a rate series. Rate is nil
// for periods with no matching records so charting can skip or interpolate;
// a missing period is never reported as zero.
type TimeSeriesPoint struct {
	Period  string   `json:"period"`
	Year    int      `json:"year"`
	Half    int      `json:"half"`
	RatePct *float64 `json:"rate_pct"`
	Count   int      `json:"count"`
}

// SectorSeries is one sector's aligned time series in a multi-series view.
type SectorSeries struct {
	Sector string            `json:"sector"`
	Points []TimeSeriesPoint `json:"points"`
}

// TrendDirection classifies the movement of a rate series over time.
type TrendDirection string

const (
	TrendRising       TrendDirection = "Rising"
	TrendFalling      TrendDirection = "Falling"
	TrendStable       TrendDirection = "Stable"
	TrendInsufficient TrendDirection = "Insufficient Data"
)

// SectorRange is the per-sector min/mean/max/spread within one market.
type SectorRange struct {
	Sector     string  `json:"sector"`
	MinRatePct float64 `json:"min_rate_pct"`
	AvgRatePct float64 `json:"avg_rate_pct"`
	MaxRatePct float64 `json:"max_rate_pct"`
	SpreadPct  float64 `json:"spread_pct"`
	Count      int     `json:"count"`
}

// MarketAnalysis is the single-market deep-dive.
type MarketAnalysis struct {
	Market        string            `json:"market"`
	Sectors       []SectorRange     `json:"sectors"`
	Trend         []TimeSeriesPoint `json:"trend"`
	TrendDir      TrendDirection    `json:"trend_direction"`
	AvgRatePct    float64           `json:"avg_rate_pct"`
	MinRatePct    float64           `json:"min_rate_pct"`
	MaxRatePct    float64           `json:"max_rate_pct"`
	VolatilityPct float64           `json:"volatility_pct"`
	RecordCount   int               `json:"record_count"`
}

// DateRange spans the earliest and latest report periods in the dataset.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DatasetSummary is the dashboard's headline block.
type DatasetSummary struct {
	TotalMarkets    int            `json:"totalMarkets"`
	TotalSectors    int            `json:"totalSectors"`
	TotalRecords    int            `json:"totalRecords"`
	DateRange       DateRange      `json:"dateRange"`
	SectorBreakdown map[string]int `json:"sectorBreakdown"`
}
