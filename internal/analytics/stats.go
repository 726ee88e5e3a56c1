package analytics

import "math"

// Mean returns the arithmetic mean of rates, or 0 for an empty list.
func Mean(rates []float64) float64 {
	if len(rates) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range rates {
		sum += r
	}
	return sum / float64(len(rates))
}

// Volatility returns the population standard deviation (divide by N) of a
// rate list. Empty and single-element lists have zero volatility.
func Volatility(rates []float64) float64 {
	if len(rates) < 2 {
		return 0
	}
	mean := Mean(rates)
	sumSq := 0.0
	for _, r := range rates {
		d := r - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(rates)))
}
