package deal

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

func testEngine() *Engine {
	return NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sampleInput() domain.DealInput {
	return domain.DealInput{
		PropertyValue:         1_000_000,
		AnnualNOI:             80_000,
		LoanAmount:            750_000,
		InterestRatePct:       5.5,
		AmortizationMonths:    300,
		ReferenceIndexRatePct: 4.2,
	}
}

func TestDealMetrics(t *testing.T) {
	deal := NewDeal(sampleInput())
	m := deal.Metrics()

	assert.InDelta(t, 8.0, m.ActualCapRatePct, 1e-12)
	assert.InDelta(t, 75.0, m.ActualLTVPct, 1e-12)
	assert.InDelta(t, 130.0, m.SpreadBps, 1e-9)
	assert.InDelta(t, 4605.65, m.MonthlyPayment, 1.0)

	// Derived figures stay internally consistent.
	assert.InDelta(t, m.MonthlyPayment*12, m.AnnualDebtService, 1e-9)
	assert.InDelta(t, 80_000/m.AnnualDebtService, m.DSCR, 1e-12)
	assert.InDelta(t, m.AnnualDebtService/750_000*100, m.DebtConstantPct, 1e-12)
	assert.InDelta(t, m.AnnualDebtService, m.BreakEvenNOI, 1e-12)
}

func TestDealMetricsComputedOnce(t *testing.T) {
	deal := NewDeal(sampleInput())
	first := deal.Metrics()
	second := deal.Metrics()
	assert.Equal(t, first, second)
}

func TestMonthlyPaymentZeroRate(t *testing.T) {
	// A zero rate degenerates to straight-line principal repayment.
	payment := monthlyPayment(600_000, 0, 240)
	assert.InDelta(t, 2500.0, payment, 1e-9)
}

func TestMonthlyPaymentAmortizing(t *testing.T) {
	// 30-year loan at 6%: the classic fixture value.
	payment := monthlyPayment(100_000, 6.0, 360)
	assert.InDelta(t, 599.55, payment, 0.01)
}

func TestDSCRDecreasesAsLoanGrows(t *testing.T) {
	// With everything else fixed, more debt means more debt service, so
	// DSCR must fall strictly. Holds for amortizing and zero-rate loans.
	for _, rate := range []float64{5.5, 0} {
		prev := math.Inf(1)
		for loan := 500_000.0; loan <= 900_000.0; loan += 50_000 {
			input := sampleInput()
			input.InterestRatePct = rate
			input.LoanAmount = loan

			dscr := NewDeal(input).Metrics().DSCR
			assert.Lessf(t, dscr, prev, "rate=%.1f%% loan=%.0f", rate, loan)
			prev = dscr
		}
	}
}

func TestValidateInput(t *testing.T) {
	e := testEngine()

	assert.Empty(t, e.ValidateInput(sampleInput()))

	tests := []struct {
		name   string
		mutate func(*domain.DealInput)
		field  string
	}{
		{"zero property value", func(in *domain.DealInput) { in.PropertyValue = 0 }, "PropertyValue"},
		{"negative NOI", func(in *domain.DealInput) { in.AnnualNOI = -1 }, "AnnualNOI"},
		{"zero loan", func(in *domain.DealInput) { in.LoanAmount = 0 }, "LoanAmount"},
		{"interest rate above cap", func(in *domain.DealInput) { in.InterestRatePct = 20.5 }, "InterestRatePct"},
		{"negative interest rate", func(in *domain.DealInput) { in.InterestRatePct = -1 }, "InterestRatePct"},
		{"amortization too long", func(in *domain.DealInput) { in.AmortizationMonths = 601 }, "AmortizationMonths"},
		{"amortization missing", func(in *domain.DealInput) { in.AmortizationMonths = 0 }, "AmortizationMonths"},
		{"index rate above cap", func(in *domain.DealInput) { in.ReferenceIndexRatePct = 10.5 }, "ReferenceIndexRatePct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := sampleInput()
			tt.mutate(&input)

			violations := e.ValidateInput(input)
			require.NotEmpty(t, violations)
			assert.Equal(t, tt.field, violations[0].Field)
		})
	}
}

func TestValidateInputAllowsZeroRate(t *testing.T) {
	e := testEngine()
	input := sampleInput()
	input.InterestRatePct = 0
	input.ReferenceIndexRatePct = 0

	assert.Empty(t, e.ValidateInput(input))
}

func TestAnalyze(t *testing.T) {
	e := testEngine()

	analysis, violations := e.Analyze(sampleInput())
	require.Empty(t, violations)

	// DSCR ~1.45, LTV 75, cap rate 8: second tier.
	assert.Equal(t, domain.DecisionApprove, analysis.Credit.Decision)
	assert.Equal(t, domain.RiskLow, analysis.Credit.Risk)
	assert.Equal(t, domain.DSCRStrong, analysis.DSCRBand)
	assert.Equal(t, domain.LTVStandard, analysis.LTVBand)
	assert.Empty(t, analysis.Warnings)
}

func TestAnalyzeRejectsInvalidInput(t *testing.T) {
	e := testEngine()
	input := sampleInput()
	input.PropertyValue = -5

	_, violations := e.Analyze(input)
	require.NotEmpty(t, violations)
}

func TestAdvisoryWarnings(t *testing.T) {
	input := sampleInput()
	input.LoanAmount = 1_200_000
	input.InterestRatePct = 3.0
	input.AnnualNOI = 250_000

	deal := NewDeal(input)
	warnings := AdvisoryWarnings(input, deal.Metrics())

	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "loan amount exceeds property value")
	assert.Contains(t, warnings[1], "plausibility bound")
	assert.Contains(t, warnings[2], "below the reference index rate")
}
