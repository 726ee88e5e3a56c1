package deal

import (
	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

// EvaluateCredit runs the tiered rule table over (dscr, ltv, capRate).
// Tiers are evaluated in strict order and the first match wins, so every
// input maps to exactly one decision. Thresholds are fixed policy, not
// configuration.
func EvaluateCredit(dscr, ltvPct, capRatePct float64) domain.CreditDecision {
	switch {
	case dscr >= 1.40 && ltvPct <= 70 && capRatePct >= 6.0:
		return domain.CreditDecision{Decision: domain.DecisionStrongApprove, Risk: domain.RiskLow, ColorHint: "#1ECD7D"}
	case dscr >= 1.30 && ltvPct <= 75 && capRatePct >= 5.5:
		return domain.CreditDecision{Decision: domain.DecisionApprove, Risk: domain.RiskLow, ColorHint: "#4CAF50"}
	case dscr >= 1.25 && ltvPct <= 80 && capRatePct >= 4.5:
		return domain.CreditDecision{Decision: domain.DecisionConditional, Risk: domain.RiskMedium, ColorHint: "#FFC107"}
	case dscr >= 1.20 && ltvPct <= 85 && capRatePct >= 4.0:
		return domain.CreditDecision{Decision: domain.DecisionReviewRequired, Risk: domain.RiskHigh, ColorHint: "#C17B42"}
	case dscr >= 1.15 && ltvPct <= 90:
		return domain.CreditDecision{Decision: domain.DecisionHighRisk, Risk: domain.RiskVeryHigh, ColorHint: "#E65100"}
	default:
		return domain.CreditDecision{Decision: domain.DecisionDecline, Risk: domain.RiskUnacceptable, ColorHint: "#C62828"}
	}
}

// DSCRBandFor classifies debt-service coverage for UI coloring. The band
// is independent of the credit decision tiers.
func DSCRBandFor(dscr float64) domain.DSCRBand {
	switch {
	case dscr >= 1.35:
		return domain.DSCRStrong
	case dscr >= 1.25:
		return domain.DSCRAcceptable
	case dscr >= 1.15:
		return domain.DSCRMarginal
	default:
		return domain.DSCRWeak
	}
}

// LTVBandFor classifies leverage. The same four-tier thresholds apply
// wherever an LTV band is reported.
func LTVBandFor(ltvPct float64) domain.LTVBand {
	switch {
	case ltvPct <= 70:
		return domain.LTVConservative
	case ltvPct <= 75:
		return domain.LTVStandard
	case ltvPct <= 80:
		return domain.LTVAggressive
	default:
		return domain.LTVHighRisk
	}
}
