package domain

import (
	"fmt"
	"math"
	"time"
)

// RateEpsilon is the tolerance used when comparing cap rate values for
// duplicate detection and round-trip equality.
const RateEpsilon = 1e-9

// CSVColumns is the canonical column order of the historical dataset's
// tabular form. The extraction layer and the exporters both honor it.
var CSVColumns = []string{
	"Sector", "Subsector", "Region", "Market",
	"Report_Year", "Report_Half",
	"H1_Low", "H1_High", "H2_Low", "H2_High",
	"H1_Avg", "H2_Avg", "Is_Valid_Market", "Source_File",
}

// RawRow is one row as handed over by the extraction layer. All fields are
// untyped strings, possibly empty or malformed. Rows are discarded after
// normalization.
type RawRow struct {
	Sector     string `json:"Sector"`
	Subsector  string `json:"Subsector"`
	Region     string `json:"Region"`
	Market     string `json:"Market"`
	H1Low      string `json:"H1_Low"`
	H1High     string `json:"H1_High"`
	H2Low      string `json:"H2_Low"`
	H2High     string `json:"H2_High"`
	ReportYear string `json:"Report_Year"`
	ReportHalf string `json:"Report_Half"`
}

// RawBatch groups the raw rows extracted from a single report file.
type RawBatch struct {
	SourceFile string
	Rows       []RawRow
}

// CapRateRecord is the canonical unit of historical storage. Records are
// immutable once admitted to the dataset; revisions arrive as new records
// distinguished by SourceFile.
type CapRateRecord struct {
	Sector        string    `json:"sector"`
	Subsector     string    `json:"subsector,omitempty"`
	Region        string    `json:"region,omitempty"`
	Market        string    `json:"market"`
	ReportYear    int       `json:"report_year"`
	ReportHalf    int       `json:"report_half"`
	H1Low         *float64  `json:"h1_low"`
	H1High        *float64  `json:"h1_high"`
	H2Low         *float64  `json:"h2_low"`
	H2High        *float64  `json:"h2_high"`
	H1Avg         *float64  `json:"h1_avg"`
	H2Avg         *float64  `json:"h2_avg"`
	IsValidMarket bool      `json:"is_valid_market"`
	SourceFile    string    `json:"source_file"`
	ExtractedAt   time.Time `json:"extracted_at"`
}

// PeriodKey returns the semi-annual period identifier, e.g. "2024_1".
func (r CapRateRecord) PeriodKey() string {
	return fmt.Sprintf("%d_%d", r.ReportYear, r.ReportHalf)
}

// PeriodLabel returns the human-readable period form, e.g. "2024-H1".
func (r CapRateRecord) PeriodLabel() string {
	return fmt.Sprintf("%d-H%d", r.ReportYear, r.ReportHalf)
}

// MergeKey identifies the logical slot a record occupies for duplicate
// detection: same sector, market and period.
func (r CapRateRecord) MergeKey() string {
	return r.Sector + "|" + r.Market + "|" + r.PeriodKey()
}

// PreferredRate returns the rate used by cross-period aggregates: the
// first-half average when present, otherwise the second-half average.
func (r CapRateRecord) PreferredRate() (float64, bool) {
	if r.H1Avg != nil {
		return *r.H1Avg, true
	}
	if r.H2Avg != nil {
		return *r.H2Avg, true
	}
	return 0, false
}

// PeriodRate returns the average for the requested half only.
func (r CapRateRecord) PeriodRate(half int) (float64, bool) {
	switch half {
	case 1:
		if r.H1Avg != nil {
			return *r.H1Avg, true
		}
	case 2:
		if r.H2Avg != nil {
			return *r.H2Avg, true
		}
	}
	return 0, false
}

// SameRates reports whether two records carry identical rate bounds within
// RateEpsilon. Records matching on MergeKey with equal rates are duplicates;
// any field difference makes the newcomer a revision instead.
func (r CapRateRecord) SameRates(other CapRateRecord) bool {
	return floatPtrEqual(r.H1Low, other.H1Low) &&
		floatPtrEqual(r.H1High, other.H1High) &&
		floatPtrEqual(r.H2Low, other.H2Low) &&
		floatPtrEqual(r.H2High, other.H2High)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return math.Abs(*a-*b) <= RateEpsilon
}

// HistoricalDataset is the append-only collection of admitted records.
// It is rebuilt fresh from canonical storage on each processing run and
// mutated only by the merge engine under single-writer discipline.
type HistoricalDataset struct {
	Records []CapRateRecord `json:"records"`
}

// Len returns the number of stored records.
func (d *HistoricalDataset) Len() int {
	return len(d.Records)
}

// MergeStats reports the outcome of merging one normalized batch into the
// historical dataset.
type MergeStats struct {
	NewRecords       int `json:"new_records"`
	DuplicateRecords int `json:"duplicate_records"`
	InvalidRecords   int `json:"invalid_records"`
}

// ProcessingMetadata describes the provenance of a processing run.
type ProcessingMetadata struct {
	ProcessedAt   time.Time `json:"processed_at"`
	SourceFiles   []string  `json:"source_files"`
	ReportPeriods []string  `json:"report_periods"`
	TotalFiles    int       `json:"total_files"`
}

// ProcessingResult is the outcome of a full processing run: partial results
// plus a non-fatal error list. Only a structurally unreadable dataset makes
// Success false with no counts.
type ProcessingResult struct {
	Success          bool               `json:"success"`
	TotalRecords     int                `json:"total_records"`
	NewRecords       int                `json:"new_records"`
	DuplicateRecords int                `json:"duplicate_records"`
	InvalidRecords   int                `json:"invalid_records"`
	Errors           []string           `json:"errors,omitempty"`
	Metadata         ProcessingMetadata `json:"metadata"`
}

// Float is a convenience constructor for optional rate fields.
func Float(v float64) *float64 { return &v }
