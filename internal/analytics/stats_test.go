package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 5.0, Mean([]float64{5.0}), 1e-12)
	assert.InDelta(t, 5.5, Mean([]float64{4.0, 7.0}), 1e-12)
}

func TestVolatility(t *testing.T) {
	// Fewer than two values have no spread.
	assert.Equal(t, 0.0, Volatility(nil))
	assert.Equal(t, 0.0, Volatility([]float64{5.0}))

	// Population standard deviation, not sample.
	assert.InDelta(t, 1.0, Volatility([]float64{4.0, 6.0}), 1e-12)
	assert.InDelta(t, 0.0, Volatility([]float64{5.0, 5.0, 5.0}), 1e-12)
	assert.InDelta(t, 0.8164965809, Volatility([]float64{4.0, 5.0, 6.0}), 1e-9)
}
