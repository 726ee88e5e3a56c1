package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/Dan-413/cap-rate-project/internal/errors"
	"github.com/Dan-413/cap-rate-project/internal/services"
)

// maxMarketLimit caps the market ranking page size.
const maxMarketLimit = 500

// DataHandler serves the dataset analytics endpoints.
type DataHandler struct {
	service *services.DataService
	logger  *slog.Logger
}

// NewDataHandler creates a data handler.
func NewDataHandler(service *services.DataService, logger *slog.Logger) *DataHandler {
	return &DataHandler{
		service: service,
		logger:  logger.With(slog.String("component", "data_handler")),
	}
}

// Routes returns the data routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/sectors", h.GetSectors)
	r.Get("/markets", h.GetMarkets)
	r.Get("/timeseries", h.GetTimeSeries)
	r.Get("/dashboard", h.GetDashboard)

	r.Route("/market/{market}", func(r chi.Router) {
		r.Use(h.MarketCtx)
		r.Get("/", h.GetMarketAnalysis)
	})

	return r
}

// MarketCtx validates the market URL parameter.
func (h *DataHandler) MarketCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		market := chi.URLParam(r, "market")
		if market == "" {
			apierrors.WriteError(w, apierrors.ErrValidation("market", "Market name is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSummary handles GET /api/data/summary
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Summary())
}

// GetSectors handles GET /api/data/sectors
func (h *DataHandler) GetSectors(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Sectors())
}

// GetMarkets handles GET /api/data/markets?limit=N
func (h *DataHandler) GetMarkets(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > maxMarketLimit {
			apierrors.WriteError(w, apierrors.ErrValidation("limit",
				"limit must be an integer between 0 and "+strconv.Itoa(maxMarketLimit)))
			return
		}
		limit = parsed
	}
	render.JSON(w, r, h.service.Markets(limit))
}

// GetTimeSeries handles GET /api/data/timeseries?sector=S&market=M
func (h *DataHandler) GetTimeSeries(w http.ResponseWriter, r *http.Request) {
	sector := r.URL.Query().Get("sector")
	market := r.URL.Query().Get("market")
	render.JSON(w, r, h.service.TimeSeries(sector, market))
}

// GetMarketAnalysis handles GET /api/data/market/{market}
func (h *DataHandler) GetMarketAnalysis(w http.ResponseWriter, r *http.Request) {
	market := chi.URLParam(r, "market")

	analysis, err := h.service.MarketAnalysis(market)
	if err != nil {
		h.logger.InfoContext(r.Context(), "market lookup failed",
			slog.String("market", market),
			slog.String("error", err.Error()))
		apierrors.WriteError(w, apierrors.ErrMarketNotFound)
		return
	}
	render.JSON(w, r, analysis)
}

// GetDashboard handles GET /api/data/dashboard
func (h *DataHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Dashboard())
}
