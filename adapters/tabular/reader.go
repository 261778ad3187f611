package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/internal"

	"github.com/xuri/excelize/v2"
)

// Reader loads CSV and XLSX files into typed datasets with column
// classification. It implements ports.TableReader.
type Reader struct {
	log *internal.Logger
}

// NewReader creates a tabular file reader
func NewReader(logger *internal.Logger) *Reader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Reader{log: logger}
}

// Read loads the source file, coerces cells to typed values, classifies
// columns, and validates that at least 2 numeric columns exist for
// correlation analysis to be meaningful.
func (r *Reader) Read(source string) (*dataset.Dataset, dataset.Metadata, error) {
	rows, err := r.readRaw(source)
	if err != nil {
		return nil, dataset.Metadata{}, err
	}

	ds, err := buildDataset(rows)
	if err != nil {
		return nil, dataset.Metadata{}, err
	}
	r.log.Info("loaded %d rows, %d columns from %s", ds.RowCount(), ds.ColumnCount(), source)

	numeric, categorical := ClassifyColumns(ds)
	if len(numeric) < 2 {
		return nil, dataset.Metadata{}, fmt.Errorf("%w (found %d)", core.ErrTooFewNumericCols, len(numeric))
	}
	r.log.Info("found %d numeric columns: %s", len(numeric), strings.Join(numeric, ", "))

	return ds, BuildMetadata(ds, numeric, categorical), nil
}

// BuildMetadata assembles the metadata block for a dataset and an
// already-derived classification.
func BuildMetadata(ds *dataset.Dataset, numeric, categorical []string) dataset.Metadata {
	return dataset.Metadata{
		RowCount:           ds.RowCount(),
		ColumnCount:        ds.ColumnCount(),
		NumericColumns:     numeric,
		CategoricalColumns: categorical,
		ColumnOrder:        ds.Columns,
	}
}

// readRaw returns the header row plus data rows as raw strings
func (r *Reader) readRaw(source string) ([][]string, error) {
	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrSourceNotFound, source)
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".xlsx":
		return r.readXLSX(source)
	default:
		return r.readCSV(source)
	}
}

func (r *Reader) readCSV(source string) ([][]string, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrSourceNotFound, source)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV %s: %w", source, err)
	}
	return rows, nil
}

func (r *Reader) readXLSX(source string) ([][]string, error) {
	f, err := excelize.OpenFile(source)
	if err != nil {
		return nil, fmt.Errorf("open XLSX %s: %w", source, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// buildDataset converts raw string rows into a typed dataset. Every row
// carries the full column set; short rows are padded with the null
// marker so absent values are explicit, never omitted.
func buildDataset(rows [][]string) (*dataset.Dataset, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: need a header row and at least one data row", core.ErrEmptyDataset)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	data := make([]dataset.Row, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		row := make(dataset.Row, len(headers))
		for i, column := range headers {
			if i < len(raw) {
				row[column] = CoerceCell(raw[i])
			} else {
				row[column] = dataset.NewMissingValue()
			}
		}
		data = append(data, row)
	}

	return &dataset.Dataset{Columns: headers, Rows: data}, nil
}
