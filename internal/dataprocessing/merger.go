package dataprocessing

import (
	"log/slog"
	"sort"

	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

// Engine reconciles normalized record batches with the historical dataset.
// The dataset is mutated append-only under single-writer discipline;
// duplicate detection is not safe under concurrent merges.
type Engine struct {
	normalizer *Normalizer
	logger     *slog.Logger
}

// NewEngine creates a merge engine.
func NewEngine(normalizer *Normalizer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{normalizer: normalizer, logger: logger}
}

// ProcessBatch normalizes the rows of one raw batch and merges the admitted
// records into the dataset. Rejected rows are returned as reason strings;
// admitted + rejected always equals the batch row count.
func (e *Engine) ProcessBatch(dataset *domain.HistoricalDataset, batch domain.RawBatch) (domain.MergeStats, []string) {
	var admitted []domain.CapRateRecord
	var reasons []string

	for i, row := range batch.Rows {
		record, reason := e.normalizer.Normalize(row, batch.SourceFile)
		if reason != "" {
			reasons = append(reasons, reason)
			e.logger.Debug("row rejected",
				slog.String("source_file", batch.SourceFile),
				slog.Int("row", i),
				slog.String("reason", reason))
			continue
		}
		admitted = append(admitted, record)
	}

	stats := e.MergeRecords(dataset, admitted)
	stats.InvalidRecords = len(reasons)

	e.logger.Info("batch processed",
		slog.String("source_file", batch.SourceFile),
		slog.Int("rows", len(batch.Rows)),
		slog.Int("new", stats.NewRecords),
		slog.Int("duplicates", stats.DuplicateRecords),
		slog.Int("invalid", stats.InvalidRecords))

	return stats, reasons
}

// MergeRecords appends normalized records to the dataset, suppressing exact
// duplicates. A newcomer is a duplicate only when an existing record matches
// on (sector, market, period) and carries identical rate bounds within
// epsilon; a partial rate difference is a revision and both records are
// kept, distinguished by source file. Merging the same batch twice leaves
// the dataset unchanged on the second pass.
func (e *Engine) MergeRecords(dataset *domain.HistoricalDataset, records []domain.CapRateRecord) domain.MergeStats {
	index := make(map[string][]int, dataset.Len())
	for i, existing := range dataset.Records {
		key := existing.MergeKey()
		index[key] = append(index[key], i)
	}

	var stats domain.MergeStats
	for _, record := range records {
		key := record.MergeKey()
		duplicate := false
		for _, i := range index[key] {
			if dataset.Records[i].SameRates(record) {
				duplicate = true
				break
			}
		}
		if duplicate {
			stats.DuplicateRecords++
			continue
		}
		dataset.Records = append(dataset.Records, record)
		index[key] = append(index[key], dataset.Len()-1)
		stats.NewRecords++
	}

	SortCanonical(dataset)
	return stats
}

// SortCanonical orders the dataset by (year, half, sector, market). The sort
// is stable so revisions keep their arrival order.
func SortCanonical(dataset *domain.HistoricalDataset) {
	sort.SliceStable(dataset.Records, func(i, j int) bool {
		a, b := dataset.Records[i], dataset.Records[j]
		if a.ReportYear != b.ReportYear {
			return a.ReportYear < b.ReportYear
		}
		if a.ReportHalf != b.ReportHalf {
			return a.ReportHalf < b.ReportHalf
		}
		if a.Sector != b.Sector {
			return a.Sector < b.Sector
		}
		return a.Market < b.Market
	})
}
