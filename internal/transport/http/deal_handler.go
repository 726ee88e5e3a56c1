package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Dan-413/cap-rate-project/internal/deal"
	apierrors "github.com/Dan-413/cap-rate-project/internal/errors"
	"github.com/Dan-413/cap-rate-project/internal/services"
	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

// DealHandler serves the underwriting endpoints.
type DealHandler struct {
	service *services.DataService
	logger  *slog.Logger
}

// NewDealHandler creates a deal handler.
func NewDealHandler(service *services.DataService, logger *slog.Logger) *DealHandler {
	return &DealHandler{
		service: service,
		logger:  logger.With(slog.String("component", "deal_handler")),
	}
}

// Routes returns the deal routes.
func (h *DealHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/analyze", h.Analyze)
	r.Post("/validate", h.Validate)
	r.Post("/scenarios", h.Scenarios)

	return r
}

// MarketDealRequest pairs a deal input with its market context. The market
// range is looked up from the dataset when a market name is given, or taken
// verbatim from the request when a range is supplied directly.
type MarketDealRequest struct {
	Input  domain.DealInput    `json:"input"`
	Market string              `json:"market,omitempty"`
	Range  *domain.MarketRange `json:"range,omitempty"`
}

// Analyze handles POST /api/deal/analyze
func (h *DealHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var input domain.DealInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apierrors.WriteError(w, apierrors.InvalidRequestWithError(err))
		return
	}

	analysis, violations := h.service.AnalyzeDeal(input)
	if len(violations) > 0 {
		apierrors.WriteError(w, violationsError(violations))
		return
	}

	h.logger.InfoContext(r.Context(), "deal analyzed",
		slog.String("decision", string(analysis.Credit.Decision)),
		slog.Float64("dscr", analysis.Metrics.DSCR))
	render.JSON(w, r, analysis)
}

// Validate handles POST /api/deal/validate
func (h *DealHandler) Validate(w http.ResponseWriter, r *http.Request) {
	req, marketRange, ok := h.decodeMarketRequest(w, r)
	if !ok {
		return
	}

	validation, violations := h.service.ValidateDeal(req.Input, marketRange)
	if len(violations) > 0 {
		apierrors.WriteError(w, violationsError(violations))
		return
	}
	render.JSON(w, r, validation)
}

// Scenarios handles POST /api/deal/scenarios
func (h *DealHandler) Scenarios(w http.ResponseWriter, r *http.Request) {
	req, marketRange, ok := h.decodeMarketRequest(w, r)
	if !ok {
		return
	}

	scenarios, violations := h.service.DealScenarios(req.Input, marketRange)
	if len(violations) > 0 {
		apierrors.WriteError(w, violationsError(violations))
		return
	}
	render.JSON(w, r, scenarios)
}

// decodeMarketRequest parses a MarketDealRequest and resolves its market
// range. It writes the error response itself when the request is unusable.
func (h *DealHandler) decodeMarketRequest(w http.ResponseWriter, r *http.Request) (MarketDealRequest, domain.MarketRange, bool) {
	var req MarketDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.WriteError(w, apierrors.InvalidRequestWithError(err))
		return req, domain.MarketRange{}, false
	}

	switch {
	case req.Range != nil:
		return req, *req.Range, true
	case req.Market != "":
		marketRange, err := h.service.MarketRange(req.Market)
		if err != nil {
			h.logger.InfoContext(r.Context(), "market range lookup failed",
				slog.String("market", req.Market),
				slog.String("error", err.Error()))
			apierrors.WriteError(w, apierrors.ErrMarketNotFound)
			return req, domain.MarketRange{}, false
		}
		return req, marketRange, true
	default:
		apierrors.WriteError(w, apierrors.ErrValidation("market", "Either a market name or an explicit range is required"))
		return req, domain.MarketRange{}, false
	}
}

func violationsError(violations []deal.Violation) *apierrors.APIError {
	fields := make([]apierrors.ValidationError, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, apierrors.ValidationError{Field: v.Field, Message: v.Message})
	}
	return apierrors.NewValidationErrors(fields)
}
