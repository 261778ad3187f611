package tabular

import (
	"math"
	"strconv"
	"strings"

	"datalens/domain/dataset"
)

// missingMarkers are the cell spellings treated as the explicit null
// marker, matching the conventional CSV NA set.
var missingMarkers = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
}

// CoerceCell deterministically converts a raw cell into a typed value.
// A cell is numeric only when the whole trimmed cell parses as a finite
// number; anything else non-empty stays a string. The classification
// pass depends on this being strict: one non-numeric string demotes the
// whole column to categorical.
func CoerceCell(raw string) dataset.Value {
	cell := strings.TrimSpace(raw)
	if _, ok := missingMarkers[strings.ToLower(cell)]; ok {
		return dataset.NewMissingValue()
	}

	if n, err := strconv.ParseFloat(cell, 64); err == nil {
		if !math.IsInf(n, 0) && !math.IsNaN(n) {
			return dataset.NewNumericValue(n)
		}
	}

	return dataset.NewStringValue(cell)
}

// ClassifyColumns derives the numeric/categorical split from the
// dataset's runtime values, once. A column is numeric iff it has at
// least one non-null value and every non-null value is numeric;
// otherwise it is categorical.
func ClassifyColumns(ds *dataset.Dataset) (numeric, categorical []string) {
	for _, column := range ds.Columns {
		numericSeen := 0
		stringSeen := 0
		for _, row := range ds.Rows {
			switch row[column].Type {
			case dataset.ValueTypeNumeric:
				numericSeen++
			case dataset.ValueTypeString:
				stringSeen++
			}
		}
		if numericSeen >= 1 && stringSeen == 0 {
			numeric = append(numeric, column)
		} else {
			categorical = append(categorical, column)
		}
	}
	return numeric, categorical
}
