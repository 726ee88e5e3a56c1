// Package validation holds the pure admission predicates for raw extracted
// field values: cap rates, market names, report years and halves. The
// predicates have no side effects and no shared state; bounds come from
// configuration at construction time.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Dan-413/cap-rate-project/internal/config"
)

// denyPatterns match known-bad extraction artifacts that are never market
// names: bare column headings, section headings, figure captions, years and
// percentages that leaked out of adjacent cells.
var denyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^Market$`),
	regexp.MustCompile(`(?i)^Looking Forward`),
	regexp.MustCompile(`(?i)^Figure`),
	regexp.MustCompile(`(?i)^After`),
	regexp.MustCompile(`(?i)^But fortune`),
	regexp.MustCompile(`(?i)^the$`),
	regexp.MustCompile(`^\d{4}$`),
	regexp.MustCompile(`^\d+(\.\d+)?%$`),
}

// Rules carries the configured admission bounds.
type Rules struct {
	MinCapRate       float64
	MaxCapRate       float64
	StrictMinCapRate float64
	StrictMaxCapRate float64
	MinYear          int
	MaxYear          int
	MinMarketLength  int
	MaxMarketLength  int
}

// NewRules builds validation rules from configuration.
func NewRules(cfg *config.Config) Rules {
	return Rules{
		MinCapRate:       cfg.Parsing.MinCapRate,
		MaxCapRate:       cfg.Parsing.MaxCapRate,
		StrictMinCapRate: cfg.Parsing.StrictMinCapRate,
		StrictMaxCapRate: cfg.Parsing.StrictMaxCapRate,
		MinYear:          cfg.Parsing.MinYear,
		MaxYear:          cfg.Parsing.MaxYear,
		MinMarketLength:  cfg.Validation.MinMarketLength,
		MaxMarketLength:  cfg.Validation.MaxMarketLength,
	}
}

// DefaultRules returns rules built from the default configuration.
func DefaultRules() Rules {
	return NewRules(config.Default())
}

// ValidCapRate reports whether a raw value parses as a float within the
// live admission bounds (default 1.0-15.0).
func (r Rules) ValidCapRate(raw string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return false
	}
	return v >= r.MinCapRate && v <= r.MaxCapRate
}

// StrictValidCapRate applies the extraction-side filter bounds (default
// 0.5-15.0). These are deliberately separate from the live admission
// bounds; see the config package.
func (r Rules) StrictValidCapRate(raw string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return false
	}
	return v >= r.StrictMinCapRate && v <= r.StrictMaxCapRate
}

// ParseRate parses a raw rate field. Unparseable input yields (nil, false)
// rather than an error: per-field parse failures are data-quality events
// handled at the admissibility gate, not program failures.
func ParseRate(raw string) (*float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

// ValidYear reports whether a raw value parses as a year within bounds.
func (r Rules) ValidYear(raw string) bool {
	y, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return y >= r.MinYear && y <= r.MaxYear
}

// ValidHalf reports whether a raw value is a report half (1 or 2).
func (r Rules) ValidHalf(raw string) bool {
	h, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return h == 1 || h == 2
}

// ValidMarket reports whether a market name is admissible for market-scoped
// views: non-empty, within configured length bounds, carries at least one
// letter, starts with a letter, and matches no deny-list pattern.
func (r Rules) ValidMarket(market string) bool {
	market = strings.TrimSpace(market)
	if market == "" {
		return false
	}
	if len(market) < r.MinMarketLength || len(market) > r.MaxMarketLength {
		return false
	}

	runes := []rune(market)
	if !unicode.IsLetter(runes[0]) {
		return false
	}
	hasLetter := false
	for _, c := range runes {
		if unicode.IsLetter(c) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return false
	}

	for _, pattern := range denyPatterns {
		if pattern.MatchString(market) {
			return false
		}
	}
	return true
}
