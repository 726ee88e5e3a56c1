package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dan-413/cap-rate-project/internal/analytics"
	"github.com/Dan-413/cap-rate-project/internal/config"
	"github.com/Dan-413/cap-rate-project/internal/dataprocessing"
	"github.com/Dan-413/cap-rate-project/internal/exporter"
	"github.com/Dan-413/cap-rate-project/internal/validation"
	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

// maxConcurrentReads bounds the number of report extracts read in parallel.
const maxConcurrentReads = 4

// ProcessingService runs the full batch pipeline: read the canonical
// dataset, ingest every report extract from the reports directory, merge
// under single-writer discipline, and rewrite all dataset outputs.
type ProcessingService struct {
	cfg      *config.Config
	merger   *dataprocessing.Engine
	exporter *exporter.Exporter
	logger   *slog.Logger
	now      func() time.Time
}

// NewProcessingService wires the pipeline from configuration.
func NewProcessingService(cfg *config.Config, logger *slog.Logger) *ProcessingService {
	if logger == nil {
		logger = slog.Default()
	}
	rules := validation.NewRules(cfg)
	normalizer := dataprocessing.NewNormalizer(rules, logger)
	return &ProcessingService{
		cfg:      cfg,
		merger:   dataprocessing.NewEngine(normalizer, logger),
		exporter: exporter.New(cfg, analytics.NewEngine(logger), logger),
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one processing run. The result carries partial counts and a
// non-fatal error list; Success is false only when the canonical dataset
// itself is unreadable or outputs cannot be written.
func (s *ProcessingService) Run(ctx context.Context) (domain.ProcessingResult, error) {
	result := domain.ProcessingResult{Metadata: domain.ProcessingMetadata{ProcessedAt: s.now().UTC()}}

	if err := s.cfg.EnsureDirectories(); err != nil {
		return result, err
	}

	dataset, warnings, err := dataprocessing.ReadDataset(s.cfg.OutputPath(exporter.DatasetFileName))
	if err != nil {
		return result, fmt.Errorf("failed to read canonical dataset: %w", err)
	}
	result.Errors = append(result.Errors, warnings...)

	extracts, err := s.listExtracts()
	if err != nil {
		return result, err
	}
	result.Metadata.TotalFiles = len(extracts)

	batches, readErrors := s.readExtracts(ctx, extracts)
	result.Errors = append(result.Errors, readErrors...)

	// Merging is single-writer: batches were read concurrently but are
	// reconciled one at a time, in file-name order, so runs are repeatable.
	for _, batch := range batches {
		stats, reasons := s.merger.ProcessBatch(dataset, batch)
		result.NewRecords += stats.NewRecords
		result.DuplicateRecords += stats.DuplicateRecords
		result.InvalidRecords += stats.InvalidRecords
		result.Errors = append(result.Errors, reasons...)
		result.Metadata.SourceFiles = append(result.Metadata.SourceFiles, batch.SourceFile)
	}

	result.TotalRecords = dataset.Len()
	result.Metadata.ReportPeriods = reportPeriods(dataset)

	if err := s.writeOutputs(dataset, result.Metadata); err != nil {
		return result, err
	}

	result.Success = true
	s.logger.Info("processing run complete",
		slog.Int("files", result.Metadata.TotalFiles),
		slog.Int("total_records", result.TotalRecords),
		slog.Int("new", result.NewRecords),
		slog.Int("duplicates", result.DuplicateRecords),
		slog.Int("invalid", result.InvalidRecords),
		slog.Int("issues", len(result.Errors)))
	return result, nil
}

// listExtracts returns the CSV extracts in the reports directory, sorted by
// file name. A missing directory is an empty run, not an error.
func (s *ProcessingService) listExtracts() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.Paths.ReportsDir)
	if os.IsNotExist(err) {
		s.logger.Warn("reports directory missing", slog.String("dir", s.cfg.Paths.ReportsDir))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list reports directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(s.cfg.Paths.ReportsDir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// readExtracts reads report extracts concurrently. An unreadable extract is
// a per-file error and does not stop the run; the returned batches keep the
// sorted file-name order regardless of completion order.
func (s *ProcessingService) readExtracts(ctx context.Context, paths []string) ([]domain.RawBatch, []string) {
	batches := make([]domain.RawBatch, len(paths))
	ok := make([]bool, len(paths))

	var mu sync.Mutex
	var readErrors []string

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			batch, err := dataprocessing.ReadRawBatch(path)
			if err != nil {
				mu.Lock()
				readErrors = append(readErrors, err.Error())
				mu.Unlock()
				s.logger.Error("extract unreadable", slog.String("path", path), slog.String("error", err.Error()))
				return nil
			}
			batches[i] = batch
			ok[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		mu.Lock()
		readErrors = append(readErrors, err.Error())
		mu.Unlock()
	}

	var result []domain.RawBatch
	for i, batch := range batches {
		if ok[i] {
			result = append(result, batch)
		}
	}
	return result, readErrors
}

func (s *ProcessingService) writeOutputs(dataset *domain.HistoricalDataset, metadata domain.ProcessingMetadata) error {
	if err := s.exporter.WriteDatasetCSV(dataset); err != nil {
		return err
	}
	if err := s.exporter.WriteDashboardJSON(dataset); err != nil {
		return err
	}
	if err := s.exporter.WriteWorkbook(dataset); err != nil {
		return err
	}
	return s.exporter.WriteMetadata(metadata)
}

func reportPeriods(dataset *domain.HistoricalDataset) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, r := range dataset.Records {
		label := r.PeriodLabel()
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	return labels
}
