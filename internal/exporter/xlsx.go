package exporter

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

const datasetSheet = "Historical"

// WriteWorkbook writes the dataset as an Excel workbook. Rate cells hold
// numeric values (not formatted strings) so analysts can pivot and chart
// without conversion.
func (e *Exporter) WriteWorkbook(dataset *domain.HistoricalDataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", datasetSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := make([]interface{}, len(domain.CSVColumns))
	for i, col := range domain.CSVColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(datasetSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, r := range dataset.Records {
		row := []interface{}{
			r.Sector,
			r.Subsector,
			r.Region,
			r.Market,
			r.ReportYear,
			r.ReportHalf,
			rateCell(r.H1Low),
			rateCell(r.H1High),
			rateCell(r.H2Low),
			rateCell(r.H2High),
			rateCell(r.H1Avg),
			rateCell(r.H2Avg),
			strconv.FormatBool(r.IsValidMarket),
			r.SourceFile,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell coordinates: %w", err)
		}
		if err := f.SetSheetRow(datasetSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	path := e.cfg.OutputPath(WorkbookFileName)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("workbook written",
		slog.String("path", path),
		slog.Int("records", dataset.Len()))
	return nil
}

// rateCell maps an absent rate to an empty cell rather than zero.
func rateCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
