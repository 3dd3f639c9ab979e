// Package ingest reads long-format observation tables from host files.
// It is the concrete stand-in for the data-ingestion collaborator: the
// core never sees cells or sheets, only observation triples.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"goanova/domain/design"
	"goanova/internal"
	"goanova/ports"
)

var _ ports.DatasetReader = (*DataReader)(nil)

// DataReader handles reading Excel and CSV observation files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	log      *internal.Logger
}

// NewDataReader creates a reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		log:      internal.DefaultLogger,
	}
}

// ReadObservations reads the file into observation triples, in row order
func (r *DataReader) ReadObservations(ctx context.Context) ([]design.Observation, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}

	return r.processRows(rows)
}

// readExcelRows reads the first sheet of an Excel workbook
func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	r.log.Debug("[DataReader] read %d rows from sheet %s", len(rows), sheets[0])
	return rows, nil
}

// readCSVRows reads all records of a CSV file
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.log.Debug("[DataReader] read %d rows from CSV", len(rows))
	return rows, nil
}

// processRows converts raw string rows into observations. The first row
// is a header used to locate the block, treatment and value columns;
// unmatched headers fall back to positional order.
func (r *DataReader) processRows(rows [][]string) ([]design.Observation, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s file must have a header row and at least one data row", strings.ToUpper(r.fileType))
	}

	blockCol, treatmentCol, valueCol := locateColumns(rows[0])

	// Excel rows come back trimmed of trailing empty cells, so a short
	// row can stop before any of the three columns, not just the last.
	minCols := max(blockCol, treatmentCol, valueCol) + 1

	observations := make([]design.Observation, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		if len(row) < minCols {
			return nil, fmt.Errorf("row %d has %d columns, need at least %d", i+2, len(row), minCols)
		}

		raw := strings.TrimSpace(row[valueCol])
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: value %q is not numeric", i+2, raw)
		}

		observations = append(observations, design.Observation{
			Block:     design.BlockKey(strings.TrimSpace(row[blockCol])),
			Treatment: design.TreatmentKey(strings.TrimSpace(row[treatmentCol])),
			Value:     value,
		})
	}

	if len(observations) == 0 {
		return nil, fmt.Errorf("%s file contains no data rows", strings.ToUpper(r.fileType))
	}

	r.log.Info("[DataReader] loaded %d observations from %s", len(observations), r.filePath)
	return observations, nil
}

// locateColumns matches headers by name, defaulting to the first three columns
func locateColumns(header []string) (block, treatment, value int) {
	block, treatment, value = 0, 1, 2
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "block":
			block = i
		case "treatment":
			treatment = i
		case "value", "response", "observation":
			value = i
		}
	}
	return block, treatment, value
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
