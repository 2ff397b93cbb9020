package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"ethica/domain/dataset"
	"ethica/internal/logging"
	"ethica/ports"
)

// DataReader loads Excel and CSV files into sample tables
type DataReader struct {
	logger *logging.Logger
}

var _ ports.DatasetReader = (*DataReader)(nil)

// NewDataReader creates a data reader that handles both Excel and CSV files
func NewDataReader() *DataReader {
	return &DataReader{logger: logging.DefaultLogger}
}

// Read loads the file at path into a table, dispatching on extension
func (r *DataReader) Read(ctx context.Context, path string) (*dataset.Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("dataset file not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return r.readCSV(path)
	case ".xlsx":
		return r.readExcel(path)
	default:
		return nil, fmt.Errorf("unsupported dataset file type: %s", filepath.Ext(path))
	}
}

// readExcel reads Sheet1 of an xlsx workbook
func (r *DataReader) readExcel(path string) (*dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}

	return r.processRows(path, rows)
}

// readCSV reads a comma-separated file
func (r *DataReader) readCSV(path string) (*dataset.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}

	return r.processRows(path, rows)
}

// processRows converts raw string rows into a table keyed by trimmed headers
func (r *DataReader) processRows(path string, rows [][]string) (*dataset.Table, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]dataset.Row, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := make(dataset.Row, len(headers))
		for j, cell := range rows[i] {
			if j < len(headers) {
				row[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, row)
	}

	r.logger.Debug("dataset %s loaded (%d columns, %d rows)",
		filepath.Base(path), len(headers), len(dataRows))

	return dataset.New(headers, dataRows), nil
}
