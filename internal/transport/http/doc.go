// Package http exposes the dashboard API: dataset analytics reads under
// /api/data, deal underwriting under /api/deal, plus health and metrics.
// All error responses carry the structured APIError envelope.
package http
