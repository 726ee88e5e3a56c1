package deal

import (
	"fmt"

	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

// Market validation bounds: a deal cap rate below 80% of the market
// minimum reads as overpaying, above 120% of the maximum as underpaying,
// and a deviation of more than 15% from the market average warrants
// review even inside the bounds.
const (
	overvaluedFactor   = 0.8
	undervaluedFactor  = 1.2
	reviewVarianceFrac = 0.15
)

// DerivedValue returns the market-implied property value for an NOI at a
// market average cap rate.
func DerivedValue(annualNOI, marketCapRatePct float64) float64 {
	if marketCapRatePct <= 0 {
		return 0
	}
	return annualNOI / (marketCapRatePct / 100)
}

// ValidateAgainstMarket compares a deal's implied cap rate to a market
// min/avg/max aggregate and classifies the stated property value.
func (e *Engine) ValidateAgainstMarket(input domain.DealInput, market domain.MarketRange) (domain.MarketValidation, []Violation) {
	if violations := e.ValidateInput(input); len(violations) > 0 {
		return domain.MarketValidation{}, violations
	}
	if err := e.validate.Struct(market); err != nil {
		return domain.MarketValidation{}, []Violation{{
			Field:      "market",
			Constraint: "gt",
			Message:    "market cap rates must be positive",
		}}
	}

	dealCapRate := input.AnnualNOI / input.PropertyValue * 100
	variance := dealCapRate - market.AvgRatePct
	variancePct := variance / market.AvgRatePct * 100

	var status domain.ValidationStatus
	switch {
	case dealCapRate < market.MinRatePct*overvaluedFactor:
		status = domain.ValidationOvervalued
	case dealCapRate > market.MaxRatePct*undervaluedFactor:
		status = domain.ValidationUndervalued
	case abs(variance)/market.AvgRatePct > reviewVarianceFrac:
		status = domain.ValidationReviewRequired
	default:
		status = domain.ValidationWithinRange
	}

	impliedValue := DerivedValue(input.AnnualNOI, market.AvgRatePct)
	impliedLTV := input.LoanAmount / impliedValue * 100

	return domain.MarketValidation{
		Validation:     status,
		DealCapRatePct: dealCapRate,
		Variance:       variance,
		VariancePct:    variancePct,
		ImpliedLTVPct:  impliedLTV,
		LTVBand:        LTVBandFor(impliedLTV),
		Recommendation: recommendationFor(status),
	}, nil
}

func recommendationFor(status domain.ValidationStatus) string {
	switch status {
	case domain.ValidationOvervalued:
		return "Deal cap rate is well below the market range; the stated value looks rich. Revisit price or increase equity."
	case domain.ValidationUndervalued:
		return "Deal cap rate is well above the market range; verify NOI quality and market comparables before relying on the value."
	case domain.ValidationReviewRequired:
		return "Deal cap rate deviates materially from the market average; obtain additional comparables."
	default:
		return "Deal pricing is consistent with the market range."
	}
}

// Scenarios derives three market-implied valuations from a market range:
// Conservative prices at the highest cap rate, Aggressive at the lowest.
// Each scenario reports its implied LTV and the variance from the stated
// property value.
func (e *Engine) Scenarios(input domain.DealInput, market domain.MarketRange) ([]domain.ValuationScenario, []Violation) {
	if violations := e.ValidateInput(input); len(violations) > 0 {
		return nil, violations
	}

	scenarios := []struct {
		name string
		rate float64
	}{
		{"Conservative", market.MaxRatePct},
		{"Average", market.AvgRatePct},
		{"Aggressive", market.MinRatePct},
	}

	result := make([]domain.ValuationScenario, 0, len(scenarios))
	for _, s := range scenarios {
		value := DerivedValue(input.AnnualNOI, s.rate)
		if value == 0 {
			return nil, []Violation{{
				Field:      "market",
				Constraint: "gt",
				Message:    fmt.Sprintf("scenario %s has non-positive cap rate", s.name),
			}}
		}
		result = append(result, domain.ValuationScenario{
			Name:             s.name,
			CapRatePct:       s.rate,
			PropertyValue:    value,
			ImpliedLTVPct:    input.LoanAmount / value * 100,
			VarianceFromDeal: (value - input.PropertyValue) / input.PropertyValue * 100,
		})
	}
	return result, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
