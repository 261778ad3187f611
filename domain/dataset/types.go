package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ValueType defines the storage type for cell values
type ValueType string

const (
	ValueTypeNumeric ValueType = "numeric"
	ValueTypeString  ValueType = "string"
	ValueTypeMissing ValueType = "missing"
)

// Value represents a typed cell value with an explicit null marker.
// Absent values are always represented as a missing Value, never by
// omitting the column from a row.
type Value struct {
	Type       ValueType
	StringVal  string
	NumericVal float64
}

// NewNumericValue creates a numeric value
func NewNumericValue(n float64) Value {
	if math.IsNaN(n) {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeNumeric, NumericVal: n}
}

// NewStringValue creates a string value
func NewStringValue(s string) Value {
	if s == "" {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeString, StringVal: s}
}

// NewMissingValue creates a missing value
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing}
}

// IsMissing reports whether the value is the null marker
func (v Value) IsMissing() bool {
	return v.Type == ValueTypeMissing
}

// Number returns the numeric payload and whether the value is numeric
func (v Value) Number() (float64, bool) {
	if v.Type != ValueTypeNumeric {
		return 0, false
	}
	return v.NumericVal, true
}

// Label returns the display representation used for categorical counting
func (v Value) Label() string {
	switch v.Type {
	case ValueTypeString:
		return v.StringVal
	case ValueTypeNumeric:
		return strconv.FormatFloat(v.NumericVal, 'g', -1, 64)
	}
	return "<missing>"
}

// MarshalJSON serializes the value as a bare scalar or null, matching the
// inter-stage data contract.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Type {
	case ValueTypeNumeric:
		return json.Marshal(v.NumericVal)
	case ValueTypeString:
		return json.Marshal(v.StringVal)
	}
	return []byte("null"), nil
}

// UnmarshalJSON parses a scalar or null back into a typed value
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = NewMissingValue()
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = NewNumericValue(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = NewStringValue(s)
		return nil
	}
	return fmt.Errorf("unsupported cell value: %s", string(data))
}

// Row maps column names to cell values. Every row in a dataset carries
// the full column set.
type Row map[string]Value

// IsEmpty reports whether every cell in the row is missing
func (r Row) IsEmpty() bool {
	for _, v := range r {
		if !v.IsMissing() {
			return false
		}
	}
	return true
}

// Dataset is an immutable snapshot of a tabular dataset. Columns holds
// the declaration order; Rows all share the same column set.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// RowCount returns the number of rows
func (d *Dataset) RowCount() int {
	return len(d.Rows)
}

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int {
	return len(d.Columns)
}

// NumericValues returns the non-null numeric observations of a column in
// row order.
func (d *Dataset) NumericValues(column string) []float64 {
	out := make([]float64, 0, len(d.Rows))
	for _, row := range d.Rows {
		if n, ok := row[column].Number(); ok {
			out = append(out, n)
		}
	}
	return out
}

// PairedValues returns the pairwise-complete observations for two
// columns: rows where both values are non-null numeric.
func (d *Dataset) PairedValues(a, b string) (x, y []float64) {
	for _, row := range d.Rows {
		va, okA := row[a].Number()
		vb, okB := row[b].Number()
		if okA && okB {
			x = append(x, va)
			y = append(y, vb)
		}
	}
	return x, y
}

// MissingCount returns the number of null cells in a column
func (d *Dataset) MissingCount(column string) int {
	count := 0
	for _, row := range d.Rows {
		if row[column].IsMissing() {
			count++
		}
	}
	return count
}

// ColumnType classifies a column for analysis purposes
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
)

// Metadata carries the column classification derived once at load time.
// Downstream stages never re-infer types.
type Metadata struct {
	RowCount           int      `json:"rows"`
	ColumnCount        int      `json:"columns"`
	NumericColumns     []string `json:"numeric_columns"`
	CategoricalColumns []string `json:"categorical_columns"`
	// ColumnOrder preserves the declaration order across JSON round-trips,
	// since Row maps do not.
	ColumnOrder []string `json:"column_order"`
}

// TypeOf returns the classification for a column name
func (m Metadata) TypeOf(column string) (ColumnType, bool) {
	for _, c := range m.NumericColumns {
		if c == column {
			return TypeNumeric, true
		}
	}
	for _, c := range m.CategoricalColumns {
		if c == column {
			return TypeCategorical, true
		}
	}
	return "", false
}

// Processed is the loader stage's persisted artifact: the cleaned
// dataset plus its metadata.
type Processed struct {
	Metadata Metadata `json:"metadata"`
	Data     []Row    `json:"data"`
}

// ToDataset rebuilds an in-memory Dataset from a persisted artifact
func (p Processed) ToDataset() *Dataset {
	columns := p.Metadata.ColumnOrder
	if len(columns) == 0 {
		// Older artifacts without column_order fall back to metadata order
		columns = make([]string, 0, len(p.Metadata.NumericColumns)+len(p.Metadata.CategoricalColumns))
		columns = append(columns, p.Metadata.NumericColumns...)
		columns = append(columns, p.Metadata.CategoricalColumns...)
	}
	return &Dataset{Columns: columns, Rows: p.Data}
}
