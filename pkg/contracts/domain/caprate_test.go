package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeriodIdentifiers(t *testing.T) {
	r := CapRateRecord{Sector: "Office", Market: "Dallas", ReportYear: 2024, ReportHalf: 1}

	assert.Equal(t, "2024_1", r.PeriodKey())
	assert.Equal(t, "2024-H1", r.PeriodLabel())
	assert.Equal(t, "Office|Dallas|2024_1", r.MergeKey())
}

func TestPreferredRate(t *testing.T) {
	r := CapRateRecord{H1Avg: Float(5.0), H2Avg: Float(6.0)}
	rate, ok := r.PreferredRate()
	assert.True(t, ok)
	assert.InDelta(t, 5.0, rate, 1e-12)

	// Falls back to the second half when the first is absent.
	r = CapRateRecord{H2Avg: Float(6.0)}
	rate, ok = r.PreferredRate()
	assert.True(t, ok)
	assert.InDelta(t, 6.0, rate, 1e-12)

	_, ok = CapRateRecord{}.PreferredRate()
	assert.False(t, ok)
}

func TestPeriodRate(t *testing.T) {
	r := CapRateRecord{H1Avg: Float(5.0)}

	rate, ok := r.PeriodRate(1)
	assert.True(t, ok)
	assert.InDelta(t, 5.0, rate, 1e-12)

	_, ok = r.PeriodRate(2)
	assert.False(t, ok)
}

func TestSameRates(t *testing.T) {
	base := CapRateRecord{H1Low: Float(4.5), H1High: Float(5.5)}

	assert.True(t, base.SameRates(CapRateRecord{H1Low: Float(4.5), H1High: Float(5.5)}))
	assert.True(t, base.SameRates(CapRateRecord{H1Low: Float(4.5 + 1e-12), H1High: Float(5.5)}))
	assert.False(t, base.SameRates(CapRateRecord{H1Low: Float(4.2), H1High: Float(5.5)}))
	// A present rate never equals an absent one.
	assert.False(t, base.SameRates(CapRateRecord{H1Low: Float(4.5)}))
}
