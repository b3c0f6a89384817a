// Package excel reads IV sweep data out of xlsx workbooks and CSV exports.
// The expected layout is a header row followed by rows of
// (drive value, current-channel ADC counts, voltage-channel ADC counts).
package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"labfit/domain/circuit"
	"labfit/internal/errors"
)

// SweepData is a parsed sweep file
type SweepData struct {
	Label   string
	Headers []string
	Samples []circuit.Sample
}

// SweepReader handles reading sweep files in xlsx or csv format
type SweepReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewSweepReader creates a reader for the given file, dispatching on extension
func NewSweepReader(filePath string) *SweepReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &SweepReader{filePath: filePath, fileType: fileType}
}

// Read parses the sweep file into structured samples
func (r *SweepReader) Read() (*SweepData, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.DataSourceError(fmt.Sprintf("sweep file not found: %s", r.filePath), err)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, errors.DataSourceError("unsupported file type: "+r.fileType, nil)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, errors.DataSourceError("sweep file must have a header row and at least one data row", nil)
	}
	return r.processRows(rows)
}

func (r *SweepReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.DataSourceError("failed to open workbook", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.DataSourceError("failed to read sheet "+sheet, err)
	}
	return rows, nil
}

func (r *SweepReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.DataSourceError("failed to open CSV file", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.DataSourceError("failed to read CSV file", err)
	}
	return rows, nil
}

// processRows converts raw string rows into samples, skipping blank rows
func (r *SweepReader) processRows(rows [][]string) (*SweepData, error) {
	headers := rows[0]
	if len(headers) < 3 {
		return nil, errors.DataSourceError(
			fmt.Sprintf("expected 3 columns (drive, current counts, voltage counts), got %d", len(headers)), nil)
	}

	samples := make([]circuit.Sample, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		if len(row) < 3 {
			return nil, errors.DataSourceError(fmt.Sprintf("row %d has %d columns, need 3", i+2, len(row)), nil)
		}
		drive, err := parseCell(row[0])
		if err != nil {
			return nil, errors.DataSourceError(fmt.Sprintf("row %d drive value %q", i+2, row[0]), err)
		}
		countsI, err := parseCell(row[1])
		if err != nil {
			return nil, errors.DataSourceError(fmt.Sprintf("row %d current counts %q", i+2, row[1]), err)
		}
		countsV, err := parseCell(row[2])
		if err != nil {
			return nil, errors.DataSourceError(fmt.Sprintf("row %d voltage counts %q", i+2, row[2]), err)
		}
		samples = append(samples, circuit.Sample{
			Drive:         drive,
			CountsCurrent: countsI,
			CountsVoltage: countsV,
		})
	}

	if len(samples) == 0 {
		return nil, errors.DataSourceError("sweep file contains no data rows", nil)
	}

	label := strings.TrimSuffix(filepath.Base(r.filePath), filepath.Ext(r.filePath))
	return &SweepData{Label: label, Headers: headers, Samples: samples}, nil
}

func parseCell(cell string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(cell), 64)
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
