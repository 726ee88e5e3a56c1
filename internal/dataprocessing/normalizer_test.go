package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan-413/cap-rate-project/internal/validation"
	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

func testNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	return NewNormalizer(validation.DefaultRules(), testLogger())
}

func TestNormalizeAdmitsValidRow(t *testing.T) {
	n := testNormalizer(t)

	record, reason := n.Normalize(domain.RawRow{
		Sector:     "Industrial",
		Market:     "dallas",
		ReportYear: "2024",
		ReportHalf: "1",
		H1Low:      "4.5",
		H1High:     "5.5",
	}, "h1_2024.csv")

	require.Empty(t, reason)
	assert.Equal(t, "Industrial", record.Sector)
	assert.Equal(t, "Dallas", record.Market)
	assert.Equal(t, 2024, record.ReportYear)
	assert.Equal(t, 1, record.ReportHalf)
	assert.True(t, record.IsValidMarket)
	assert.Equal(t, "h1_2024.csv", record.SourceFile)
	assert.False(t, record.ExtractedAt.IsZero())

	require.NotNil(t, record.H1Avg)
	assert.InDelta(t, 5.0, *record.H1Avg, 1e-12)
	assert.Nil(t, record.H2Low)
	assert.Nil(t, record.H2High)
	assert.Nil(t, record.H2Avg)
}

func TestNormalizeRejections(t *testing.T) {
	n := testNormalizer(t)

	tests := []struct {
		name   string
		row    domain.RawRow
		reason string
	}{
		{
			name:   "year below bounds",
			row:    domain.RawRow{Sector: "Office", Market: "Dallas", ReportYear: "2019", ReportHalf: "1", H1Low: "5.0"},
			reason: "invalid report year",
		},
		{
			name:   "unparseable year",
			row:    domain.RawRow{Sector: "Office", Market: "Dallas", ReportYear: "20x4", ReportHalf: "1", H1Low: "5.0"},
			reason: "invalid report year",
		},
		{
			name:   "half out of range",
			row:    domain.RawRow{Sector: "Office", Market: "Dallas", ReportYear: "2024", ReportHalf: "3", H1Low: "5.0"},
			reason: "invalid report half",
		},
		{
			name:   "sector too short",
			row:    domain.RawRow{Sector: "Of", Market: "Dallas", ReportYear: "2024", ReportHalf: "1", H1Low: "5.0"},
			reason: "missing or short sector",
		},
		{
			name:   "no rate field at all",
			row:    domain.RawRow{Sector: "Office", Market: "Dallas", ReportYear: "2024", ReportHalf: "1"},
			reason: "no valid cap rate",
		},
		{
			name:   "all rates outside live bounds",
			row:    domain.RawRow{Sector: "Office", Market: "Dallas", ReportYear: "2024", ReportHalf: "1", H1Low: "0.5", H1High: "0.9"},
			reason: "no valid cap rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, reason := n.Normalize(tt.row, "extract.csv")
			require.NotEmpty(t, reason)
			assert.Contains(t, reason, tt.reason)
		})
	}
}

func TestNormalizeAdmissibilityNeedsOneValidRate(t *testing.T) {
	n := testNormalizer(t)

	// One in-range rate admits the row; the out-of-range bound is still
	// carried and still contributes to the half average.
	record, reason := n.Normalize(domain.RawRow{
		Sector:     "Office",
		Market:     "Dallas",
		ReportYear: "2024",
		ReportHalf: "1",
		H1Low:      "0.5",
		H1High:     "5.0",
	}, "extract.csv")

	require.Empty(t, reason)
	require.NotNil(t, record.H1Avg)
	assert.InDelta(t, 2.75, *record.H1Avg, 1e-12)
}

func TestNormalizeSingleBoundAverage(t *testing.T) {
	n := testNormalizer(t)

	record, reason := n.Normalize(domain.RawRow{
		Sector:     "Retail",
		Market:     "Miami",
		ReportYear: "2023",
		ReportHalf: "2",
		H2High:     "6.0",
	}, "extract.csv")

	require.Empty(t, reason)
	assert.Nil(t, record.H1Avg)
	require.NotNil(t, record.H2Avg)
	assert.InDelta(t, 6.0, *record.H2Avg, 1e-12)
}

func TestNormalizeUnparseableRateBecomesNil(t *testing.T) {
	n := testNormalizer(t)

	record, reason := n.Normalize(domain.RawRow{
		Sector:     "Office",
		Market:     "Boston",
		ReportYear: "2024",
		ReportHalf: "1",
		H1Low:      "n/a",
		H1High:     "5.0",
	}, "extract.csv")

	require.Empty(t, reason)
	assert.Nil(t, record.H1Low)
	require.NotNil(t, record.H1Avg)
	assert.InDelta(t, 5.0, *record.H1Avg, 1e-12)
}

func TestNormalizeKeepsRawMarketWhenNormalizationFails(t *testing.T) {
	n := testNormalizer(t)

	// "Market" is a deny-listed heading artifact: the record is still
	// admitted for sector aggregates but flagged invalid for market views.
	record, reason := n.Normalize(domain.RawRow{
		Sector:     "Office",
		Market:     "Market",
		ReportYear: "2024",
		ReportHalf: "1",
		H1Low:      "5.0",
	}, "extract.csv")

	require.Empty(t, reason)
	assert.Equal(t, "Market", record.Market)
	assert.False(t, record.IsValidMarket)
}
