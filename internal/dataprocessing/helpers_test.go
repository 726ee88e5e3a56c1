package dataprocessing

import (
	"io"
	"log/slog"

	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// record builds a canonical record with a single H1 rate range.
func record(sector, market string, year, half int, low, high float64) domain.CapRateRecord {
	return domain.CapRateRecord{
		Sector:        sector,
		Market:        market,
		ReportYear:    year,
		ReportHalf:    half,
		H1Low:         domain.Float(low),
		H1High:        domain.Float(high),
		H1Avg:         domain.Float((low + high) / 2),
		IsValidMarket: true,
		SourceFile:    "extract.csv",
	}
}
