package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/Dan-413/cap-rate-project/internal/errors"
	"github.com/Dan-413/cap-rate-project/pkg/contracts/domain"
)

// rawColumns maps normalized header names to RawRow field setters. The
// extraction layer hands over columns named exactly as in the historical
// schema; matching is case-insensitive to tolerate hand-edited extracts.
var rawColumns = map[string]func(*domain.RawRow, string){
	"sector":      func(r *domain.RawRow, v string) { r.Sector = v },
	"subsector":   func(r *domain.RawRow, v string) { r.Subsector = v },
	"region":      func(r *domain.RawRow, v string) { r.Region = v },
	"market":      func(r *domain.RawRow, v string) { r.Market = v },
	"h1_low":      func(r *domain.RawRow, v string) { r.H1Low = v },
	"h1_high":     func(r *domain.RawRow, v string) { r.H1High = v },
	"h2_low":      func(r *domain.RawRow, v string) { r.H2Low = v },
	"h2_high":     func(r *domain.RawRow, v string) { r.H2High = v },
	"report_year": func(r *domain.RawRow, v string) { r.ReportYear = v },
	"report_half": func(r *domain.RawRow, v string) { r.ReportHalf = v },
}

var requiredRawColumns = []string{"sector", "market", "report_year", "report_half"}

// ReadRawBatch reads one raw-row CSV extract produced by the extraction
// layer. A missing required column is an input-contract violation and
// aborts the batch; malformed row values are left for the normalizer.
func ReadRawBatch(path string) (domain.RawBatch, error) {
	records, err := readCSVFile(path)
	if err != nil {
		return domain.RawBatch{}, err
	}
	if len(records) == 0 {
		return domain.RawBatch{}, apperrors.NewParsingError(fmt.Sprintf("extract %s has no header row", path), nil)
	}

	header := records[0]
	setters := make(map[int]func(*domain.RawRow, string), len(header))
	seen := make(map[string]bool, len(header))
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		if setter, ok := rawColumns[name]; ok {
			setters[i] = setter
			seen[name] = true
		}
	}
	for _, required := range requiredRawColumns {
		if !seen[required] {
			return domain.RawBatch{}, apperrors.NewParsingError(
				fmt.Sprintf("extract %s is missing required column %q", path, required), nil).
				WithContext("path", path)
		}
	}

	batch := domain.RawBatch{SourceFile: filepath.Base(path)}
	for _, record := range records[1:] {
		var row domain.RawRow
		for i, setter := range setters {
			if i < len(record) {
				setter(&row, strings.TrimSpace(record[i]))
			}
		}
		batch.Rows = append(batch.Rows, row)
	}
	return batch, nil
}

// ReadDataset loads the canonical historical dataset CSV. A missing file
// yields an empty dataset; an unreadable file or header is a terminal
// error. Individual malformed rows are skipped and reported as non-fatal
// reasons.
func ReadDataset(path string) (*domain.HistoricalDataset, []string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &domain.HistoricalDataset{}, nil, nil
	}

	records, err := readCSVFile(path)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, apperrors.NewParsingError(fmt.Sprintf("dataset %s has no header row", path), nil)
	}

	columns := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		columns[strings.TrimSpace(col)] = i
	}
	for _, required := range domain.CSVColumns {
		if _, ok := columns[required]; !ok {
			return nil, nil, apperrors.NewParsingError(
				fmt.Sprintf("dataset %s is missing column %q", path, required), nil).
				WithContext("path", path)
		}
	}

	cell := func(record []string, name string) string {
		i := columns[name]
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	dataset := &domain.HistoricalDataset{}
	var warnings []string
	for i, record := range records[1:] {
		year, errYear := strconv.Atoi(cell(record, "Report_Year"))
		half, errHalf := strconv.Atoi(cell(record, "Report_Half"))
		if errYear != nil || errHalf != nil {
			warnings = append(warnings, fmt.Sprintf("row %d: unparseable report period", i+2))
			continue
		}

		dataset.Records = append(dataset.Records, domain.CapRateRecord{
			Sector:        cell(record, "Sector"),
			Subsector:     cell(record, "Subsector"),
			Region:        cell(record, "Region"),
			Market:        cell(record, "Market"),
			ReportYear:    year,
			ReportHalf:    half,
			H1Low:         parseOptionalRate(cell(record, "H1_Low")),
			H1High:        parseOptionalRate(cell(record, "H1_High")),
			H2Low:         parseOptionalRate(cell(record, "H2_Low")),
			H2High:        parseOptionalRate(cell(record, "H2_High")),
			H1Avg:         parseOptionalRate(cell(record, "H1_Avg")),
			H2Avg:         parseOptionalRate(cell(record, "H2_Avg")),
			IsValidMarket: cell(record, "Is_Valid_Market") == "true",
			SourceFile:    cell(record, "Source_File"),
		})
	}
	return dataset, warnings, nil
}

func parseOptionalRate(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// readCSVFile reads all CSV records from a file, stripping a UTF-8 BOM if
// present (Excel prepends one).
func readCSVFile(path string) ([][]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read %s", path), err)
	}
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to parse %s", path), err)
	}
	return records, nil
}
