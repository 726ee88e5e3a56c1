package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Dan-413/cap-rate-project/internal/validation"
	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

const minSectorLength = 3

// Normalizer converts raw extracted rows into canonical records. It has no
// side effects; rejected rows come back with a reason string, never an
// error.
type Normalizer struct {
	rules  validation.Rules
	logger *slog.Logger
	now    func() time.Time
}

// NewNormalizer creates a normalizer with the given validation rules.
func NewNormalizer(rules validation.Rules, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		rules:  rules,
		logger: logger,
		now:    time.Now,
	}
}

// Normalize builds a CapRateRecord from one raw row. The second return
// value is the rejection reason; it is empty when the row was admitted.
func (n *Normalizer) Normalize(row domain.RawRow, sourceFile string) (domain.CapRateRecord, string) {
	if !n.rules.ValidYear(row.ReportYear) {
		return domain.CapRateRecord{}, fmt.Sprintf("invalid report year: %q", row.ReportYear)
	}
	if !n.rules.ValidHalf(row.ReportHalf) {
		return domain.CapRateRecord{}, fmt.Sprintf("invalid report half: %q", row.ReportHalf)
	}

	sector := strings.TrimSpace(row.Sector)
	if len(sector) < minSectorLength {
		return domain.CapRateRecord{}, fmt.Sprintf("missing or short sector: %q", row.Sector)
	}

	// Per-field parse failures become nil values, never rejections; the row
	// is only rejected at the admissibility gate below.
	h1Low, _ := validation.ParseRate(row.H1Low)
	h1High, _ := validation.ParseRate(row.H1High)
	h2Low, _ := validation.ParseRate(row.H2Low)
	h2High, _ := validation.ParseRate(row.H2High)

	if !n.rules.ValidCapRate(row.H1Low) && !n.rules.ValidCapRate(row.H1High) &&
		!n.rules.ValidCapRate(row.H2Low) && !n.rules.ValidCapRate(row.H2High) {
		return domain.CapRateRecord{}, "no valid cap rate in any field"
	}

	year, _ := strconv.Atoi(strings.TrimSpace(row.ReportYear))
	half, _ := strconv.Atoi(strings.TrimSpace(row.ReportHalf))

	market := validation.NormalizeMarketName(row.Market)
	validMarket := n.rules.ValidMarket(market)
	if market == "" {
		// Keep the raw text for audit; the validity flag already excludes the
		// record from market-scoped views.
		market = strings.TrimSpace(row.Market)
	}

	return domain.CapRateRecord{
		Sector:        sector,
		Subsector:     strings.TrimSpace(row.Subsector),
		Region:        strings.TrimSpace(row.Region),
		Market:        market,
		ReportYear:    year,
		ReportHalf:    half,
		H1Low:         h1Low,
		H1High:        h1High,
		H2Low:         h2Low,
		H2High:        h2High,
		H1Avg:         halfAverage(h1Low, h1High),
		H2Avg:         halfAverage(h2Low, h2High),
		IsValidMarket: validMarket,
		SourceFile:    sourceFile,
		ExtractedAt:   n.now(),
	}, ""
}

// halfAverage averages the two bounds of one half. With exactly one bound
// present, that bound is the average; with none, the average is nil.
// Out-of-range bounds are averaged as-is: range checks apply only at the
// admissibility gate, and dropping a bound here would silently alter
// historical output.
func halfAverage(low, high *float64) *float64 {
	switch {
	case low != nil && high != nil:
		return domain.Float((*low + *high) / 2)
	case low != nil:
		return domain.Float(*low)
	case high != nil:
		return domain.Float(*high)
	default:
		return nil
	}
}
