package deal

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

// noiPlausibilityCapPct flags deals whose NOI implies a cap rate beyond
// anything observed in commercial real estate.
const noiPlausibilityCapPct = 20.0

// Violation describes one violated input constraint.
type Violation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

// Deal is an immutable value object around one DealInput. Metrics are
// computed lazily exactly once; no field changes after construction.
type Deal struct {
	input   domain.DealInput
	once    sync.Once
	metrics domain.DealMetrics
}

// NewDeal wraps a validated input. Construct a new Deal for new inputs
// rather than mutating an existing one.
func NewDeal(input domain.DealInput) *Deal {
	return &Deal{input: input}
}

// Input returns the deal's input parameters.
func (d *Deal) Input() domain.DealInput {
	return d.input
}

// Metrics returns the derived underwriting figures, computing them on
// first call and returning the frozen result afterwards.
func (d *Deal) Metrics() domain.DealMetrics {
	d.once.Do(func() {
		d.metrics = computeMetrics(d.input)
	})
	return d.metrics
}

func computeMetrics(in domain.DealInput) domain.DealMetrics {
	capRate := in.AnnualNOI / in.PropertyValue * 100
	ltv := in.LoanAmount / in.PropertyValue * 100

	payment := monthlyPayment(in.LoanAmount, in.InterestRatePct, in.AmortizationMonths)
	annualDebtService := payment * 12

	return domain.DealMetrics{
		ActualCapRatePct:  capRate,
		ActualLTVPct:      ltv,
		MonthlyPayment:    payment,
		AnnualDebtService: annualDebtService,
		DSCR:              in.AnnualNOI / annualDebtService,
		DebtConstantPct:   annualDebtService / in.LoanAmount * 100,
		SpreadBps:         (in.InterestRatePct - in.ReferenceIndexRatePct) * 100,
		BreakEvenNOI:      annualDebtService,
	}
}

// monthlyPayment applies the standard amortizing-loan formula. A zero rate
// degenerates to straight-line principal repayment.
func monthlyPayment(loanAmount, annualRatePct float64, months int) float64 {
	monthlyRate := annualRatePct / 100 / 12
	n := float64(months)
	if monthlyRate == 0 {
		return loanAmount / n
	}
	factor := math.Pow(1+monthlyRate, n)
	return loanAmount * monthlyRate * factor / (factor - 1)
}

// Engine validates deal inputs and produces full analyses.
type Engine struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewEngine creates a deal engine.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// ValidateInput checks a DealInput against its declared bounds. The engine
// refuses to compute on any violation and never substitutes defaults.
func (e *Engine) ValidateInput(input domain.DealInput) []Violation {
	err := e.validate.Struct(input)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Violation{{Field: "input", Constraint: "struct", Message: err.Error()}}
	}

	violations := make([]Violation, 0, len(validationErrs))
	for _, fe := range validationErrs {
		violations = append(violations, Violation{
			Field:      fe.Field(),
			Constraint: fe.Tag(),
			Message:    fmt.Sprintf("field %s failed constraint %q (value %v)", fe.Field(), fe.Tag(), fe.Value()),
		})
	}
	return violations
}

// Analyze validates the input and, when admissible, returns the full deal
// analysis: metrics, credit decision, risk bands and advisory warnings.
func (e *Engine) Analyze(input domain.DealInput) (domain.DealAnalysis, []Violation) {
	if violations := e.ValidateInput(input); len(violations) > 0 {
		e.logger.Warn("deal input rejected", slog.Int("violations", len(violations)))
		return domain.DealAnalysis{}, violations
	}

	deal := NewDeal(input)
	metrics := deal.Metrics()

	return domain.DealAnalysis{
		Input:    input,
		Metrics:  metrics,
		Credit:   EvaluateCredit(metrics.DSCR, metrics.ActualLTVPct, metrics.ActualCapRatePct),
		DSCRBand: DSCRBandFor(metrics.DSCR),
		LTVBand:  LTVBandFor(metrics.ActualLTVPct),
		Warnings: AdvisoryWarnings(input, metrics),
	}, nil
}

// AdvisoryWarnings flags logical issues that do not block computation:
// callers decide whether to act on them.
func AdvisoryWarnings(input domain.DealInput, metrics domain.DealMetrics) []string {
	var warnings []string
	if input.LoanAmount > input.PropertyValue {
		warnings = append(warnings, "loan amount exceeds property value")
	}
	if metrics.ActualCapRatePct > noiPlausibilityCapPct {
		warnings = append(warnings, fmt.Sprintf(
			"NOI implies a cap rate of %.1f%%, above the %.0f%% plausibility bound",
			metrics.ActualCapRatePct, noiPlausibilityCapPct))
	}
	if input.InterestRatePct < input.ReferenceIndexRatePct {
		warnings = append(warnings, "stated interest rate is below the reference index rate")
	}
	return warnings
}
