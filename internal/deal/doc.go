// Package deal implements the credit-underwriting engine: amortization
// based debt service, DSCR, LTV, spread to index, a tiered rule-table
// credit decision, and market-implied valuation checks against aggregate
// cap rates.
//
// A Deal is an immutable value object; its metrics are computed once on
// first access and frozen, so sharing a Deal across goroutines is safe.
// New inputs mean a new Deal.
package deal
