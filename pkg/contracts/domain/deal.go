package domain

// DealInput carries the user-supplied loan parameters for underwriting.
// Bounds are enforced by the deal engine via validator tags before any
// metric is computed; the engine never substitutes defaults.
type DealInput struct {
	PropertyValue         float64 `json:"property_value" validate:"required,gt=0"`
	AnnualNOI             float64 `json:"annual_noi" validate:"required,gt=0"`
	LoanAmount            float64 `json:"loan_amount" validate:"required,gt=0"`
	InterestRatePct       float64 `json:"interest_rate_pct" validate:"gte=0,lte=20"`
	AmortizationMonths    int     `json:"amortization_months" validate:"required,min=1,max=600"`
	ReferenceIndexRatePct float64 `json:"reference_index_rate_pct" validate:"gte=0,lte=10"`
}

// DealMetrics holds the derived underwriting figures for one DealInput.
type DealMetrics struct {
	ActualCapRatePct  float64 `json:"actual_cap_rate_pct"`
	ActualLTVPct      float64 `json:"actual_ltv_pct"`
	MonthlyPayment    float64 `json:"monthly_payment"`
	AnnualDebtService float64 `json:"annual_debt_service"`
	DSCR              float64 `json:"dscr"`
	DebtConstantPct   float64 `json:"debt_constant_pct"`
	SpreadBps         float64 `json:"spread_bps"`
	BreakEvenNOI      float64 `json:"break_even_noi"`
}

// Decision is one of the six ordered credit decision tiers.
type Decision string

const (
	DecisionStrongApprove  Decision = "STRONG_APPROVE"
	DecisionApprove        Decision = "APPROVE"
	DecisionConditional    Decision = "CONDITIONAL"
	DecisionReviewRequired Decision = "REVIEW_REQUIRED"
	DecisionHighRisk       Decision = "HIGH_RISK"
	DecisionDecline        Decision = "DECLINE"
)

// RiskLevel labels the risk associated with a credit decision tier.
type RiskLevel string

const (
	RiskLow          RiskLevel = "LOW"
	RiskMedium       RiskLevel = "MEDIUM"
	RiskHigh         RiskLevel = "HIGH"
	RiskVeryHigh     RiskLevel = "VERY_HIGH"
	RiskUnacceptable RiskLevel = "UNACCEPTABLE"
)

// CreditDecision is the rule-table outcome for a deal.
type CreditDecision struct {
	Decision  Decision  `json:"decision"`
	Risk      RiskLevel `json:"risk"`
	ColorHint string    `json:"color_hint"`
}

// DSCRBand classifies debt-service coverage for UI coloring, independently
// of the credit decision.
type DSCRBand string

const (
	DSCRStrong     DSCRBand = "STRONG"
	DSCRAcceptable DSCRBand = "ACCEPTABLE"
	DSCRMarginal   DSCRBand = "MARGINAL"
	DSCRWeak       DSCRBand = "WEAK"
)

// LTVBand classifies leverage for UI coloring.
type LTVBand string

const (
	LTVConservative LTVBand = "CONSERVATIVE"
	LTVStandard     LTVBand = "STANDARD"
	LTVAggressive   LTVBand = "AGGRESSIVE"
	LTVHighRisk     LTVBand = "HIGH_RISK"
)

// ValidationStatus classifies a deal's implied cap rate against a market
// aggregate.
type ValidationStatus string

const (
	ValidationWithinRange    ValidationStatus = "WITHIN_RANGE"
	ValidationOvervalued     ValidationStatus = "OVERVALUED"
	ValidationUndervalued    ValidationStatus = "UNDERVALUED"
	ValidationReviewRequired ValidationStatus = "REVIEW_REQUIRED"
)

// MarketRange is the min/avg/max cap-rate triple for a market aggregate,
// the comparison input for market validation and scenario analysis.
type MarketRange struct {
	MinRatePct float64 `json:"min_rate_pct" validate:"gt=0"`
	AvgRatePct float64 `json:"avg_rate_pct" validate:"gt=0"`
	MaxRatePct float64 `json:"max_rate_pct" validate:"gt=0"`
}

// MarketValidation is the result of comparing a deal against a market range.
type MarketValidation struct {
	Validation     ValidationStatus `json:"validation"`
	DealCapRatePct float64          `json:"deal_cap_rate_pct"`
	VariancePct    float64          `json:"variance_pct"`
	Variance       float64          `json:"variance"`
	ImpliedLTVPct  float64          `json:"implied_ltv_pct"`
	LTVBand        LTVBand          `json:"ltv_band"`
	Recommendation string           `json:"recommendation"`
}

// ValuationScenario is one market-implied property value scenario.
type ValuationScenario struct {
	Name             string  `json:"name"`
	CapRatePct       float64 `json:"cap_rate_pct"`
	PropertyValue    float64 `json:"property_value"`
	ImpliedLTVPct    float64 `json:"implied_ltv_pct"`
	VarianceFromDeal float64 `json:"variance_from_deal_pct"`
}

// DealAnalysis bundles everything the dashboard shows for one deal.
type DealAnalysis struct {
	Input    DealInput      `json:"input"`
	Metrics  DealMetrics    `json:"metrics"`
	Credit   CreditDecision `json:"credit"`
	DSCRBand DSCRBand       `json:"dscr_band"`
	LTVBand  LTVBand        `json:"ltv_band"`
	Warnings []string       `json:"warnings,omitempty"`
}
