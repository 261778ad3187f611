package testkit

import (
	"fmt"
	"os"
	"path/filepath"

	"datalens/domain/dataset"
)

// sampleCSV is the built-in business dataset used when no input file is
// configured. Regions repeat so categorical patterns have ties to break.
const sampleCSV = `region,revenue,expenses,profit,employees,satisfaction,market_share
North,150000,120000,30000,45,4.2,0.15
South,180000,140000,40000,52,4.1,0.18
East,200000,160000,40000,60,4.3,0.20
West,175000,135000,40000,48,4.0,0.17
Central,160000,130000,30000,42,4.2,0.16
North,155000,125000,30000,47,4.1,0.15
South,185000,145000,40000,54,4.2,0.18
East,205000,165000,40000,62,4.4,0.21
West,170000,130000,40000,46,3.9,0.16
Central,165000,135000,30000,44,4.3,0.17
`

// EnsureSampleData writes the sample CSV into dir when it does not
// already exist and returns its path.
func EnsureSampleData(dir string) (string, error) {
	path := filepath.Join(dir, "sample.csv")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		return "", fmt.Errorf("write sample data: %w", err)
	}
	return path, nil
}

// NewDataset builds a dataset from column vectors for tests. A nil cell
// becomes the null marker; float64 and int cells become numeric values;
// string cells stay strings. Columns may have differing lengths; short
// columns are padded with nulls.
func NewDataset(columns []string, cells map[string][]interface{}) *dataset.Dataset {
	rows := 0
	for _, vals := range cells {
		if len(vals) > rows {
			rows = len(vals)
		}
	}

	data := make([]dataset.Row, rows)
	for i := range data {
		row := make(dataset.Row, len(columns))
		for _, column := range columns {
			vals := cells[column]
			if i >= len(vals) || vals[i] == nil {
				row[column] = dataset.NewMissingValue()
				continue
			}
			switch v := vals[i].(type) {
			case float64:
				row[column] = dataset.NewNumericValue(v)
			case int:
				row[column] = dataset.NewNumericValue(float64(v))
			case string:
				row[column] = dataset.NewStringValue(v)
			default:
				row[column] = dataset.NewMissingValue()
			}
		}
		data[i] = row
	}

	return &dataset.Dataset{Columns: columns, Rows: data}
}

// NewMetadata derives metadata for a test dataset from explicit
// classifications, in the given column order.
func NewMetadata(ds *dataset.Dataset, numeric, categorical []string) dataset.Metadata {
	return dataset.Metadata{
		RowCount:           ds.RowCount(),
		ColumnCount:        ds.ColumnCount(),
		NumericColumns:     numeric,
		CategoricalColumns: categorical,
		ColumnOrder:        ds.Columns,
	}
}
