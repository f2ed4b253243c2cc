// Package tabular loads the patient table from CSV or Excel files into
// the in-memory dataset used by the analysis core.
package tabular

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"renastat/domain/core"
	"renastat/domain/dataset"
	"renastat/internal/errors"
	"renastat/internal/logging"
)

// DataReader reads CSV and XLSX patient tables
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	log      *logging.Logger
}

// NewDataReader creates a reader for the given path; the file type is
// inferred from the extension.
func NewDataReader(filePath, sheet string, log *logging.Logger) *DataReader {
	if log == nil {
		log = logging.DefaultLogger
	}
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &DataReader{filePath: filePath, fileType: fileType, sheet: sheet, log: log}
}

// ReadDataset loads the file into a Dataset. The first row is the
// header; blank cells and the usual NA spellings become missing values,
// as do cells that fail numeric parsing (counted and logged).
func (r *DataReader) ReadDataset() (*dataset.Dataset, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound("data file " + r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	case "xlsx":
		rows, err = r.readExcel()
	default:
		return nil, errors.InvalidInput("unsupported file type: " + r.fileType)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.EmptyDataset("data file must have a header row and at least one data row")
	}
	return r.buildDataset(rows)
}

func (r *DataReader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse CSV file")
	}
	return rows, nil
}

func (r *DataReader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", r.sheet)
	}
	return rows, nil
}

func (r *DataReader) buildDataset(rows [][]string) (*dataset.Dataset, error) {
	header := rows[0]
	order := make([]core.VariableKey, 0, len(header))
	for _, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.InvalidInput("blank column name in header row")
		}
		order = append(order, core.VariableKey(name))
	}

	unparsable := 0
	records := make([]map[core.VariableKey]float64, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		record := make(map[core.VariableKey]float64, len(order))
		for i, key := range order {
			cell := ""
			if i < len(raw) {
				cell = strings.TrimSpace(raw[i])
			}
			value, ok := parseCell(cell)
			if !ok {
				if cell != "" && !isNASpelling(cell) {
					unparsable++
				}
				value = dataset.Missing
			}
			record[key] = value
		}
		records = append(records, record)
	}
	if unparsable > 0 {
		r.log.Warn("%d non-numeric cells treated as missing in %s", unparsable, r.filePath)
	}

	name := filepath.Base(r.filePath)
	r.log.Info("loaded %s: %d records, %d variables", name, len(records), len(order))
	return dataset.New(name, order, records), nil
}

func parseCell(cell string) (float64, bool) {
	if cell == "" || isNASpelling(cell) {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isNASpelling(cell string) bool {
	switch strings.ToUpper(cell) {
	case "NA", "N/A", "NAN", "NULL", "NONE":
		return true
	}
	return false
}
