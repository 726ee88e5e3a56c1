package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

// WriteDatasetCSV writes the canonical historical dataset to the output
// directory. An existing dataset file is copied to the archive directory
// first, so every prior version of the historical record stays recoverable.
func (e *Exporter) WriteDatasetCSV(dataset *domain.HistoricalDataset) error {
	path := e.cfg.OutputPath(DatasetFileName)

	if err := e.archiveExisting(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer file.Close()

	// UTF-8 BOM so Excel opens the file with correct encoding.
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(domain.CSVColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range dataset.Records {
		row := []string{
			r.Sector,
			r.Subsector,
			r.Region,
			r.Market,
			strconv.Itoa(r.ReportYear),
			strconv.Itoa(r.ReportHalf),
			formatRate(r.H1Low),
			formatRate(r.H1High),
			formatRate(r.H2Low),
			formatRate(r.H2High),
			formatRate(r.H1Avg),
			formatRate(r.H2Avg),
			strconv.FormatBool(r.IsValidMarket),
			r.SourceFile,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush dataset file: %w", err)
	}

	e.logger.Info("dataset CSV written",
		slog.String("path", path),
		slog.Int("records", dataset.Len()))
	return nil
}

// archiveExisting copies the current dataset file into the archive
// directory under a timestamped name. A missing file is not an error; the
// first run has nothing to archive.
func (e *Exporter) archiveExisting(path string) error {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read existing dataset: %w", err)
	}

	stamp := e.now().Format("20060102_150405")
	archivePath := e.cfg.ArchivePath(fmt.Sprintf("historical_cap_rates_%s.csv", stamp))
	if err := os.WriteFile(archivePath, content, 0644); err != nil {
		return fmt.Errorf("failed to archive dataset: %w", err)
	}

	e.logger.Info("previous dataset archived", slog.String("path", archivePath))
	return nil
}
