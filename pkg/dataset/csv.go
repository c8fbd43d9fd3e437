/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: csv.go
Description: CSV reader for FRBDT datasets. The first row is a header. Column kinds are
inferred from the data (a column is numeric when every present value parses as a float)
unless a schema from a previously loaded training set is supplied.
*/

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// MissingValue is the token read as an unknown attribute value
const MissingValue = "?"

// CSVOptions controls how a CSV file is mapped onto a dataset
type CSVOptions struct {
	Relation     string  // Relation name recorded in the schema
	ClassColumn  string  // Header of the class column (default: last column)
	WeightColumn string  // Optional header of a per-instance weight column
	Comma        rune    // Field delimiter (default ',')
	Schema       *Schema // Encode against an existing schema instead of inferring one
}

// ReadCSV reads a dataset from CSV
func ReadCSV(r io.Reader, opts CSVOptions) (*Dataset, error) {
	reader := csv.NewReader(r)
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV input has no header row")
	}

	header := records[0]
	rows := records[1:]

	classCol, weightCol, err := locateColumns(header, opts)
	if err != nil {
		return nil, err
	}

	inputCols := make([]int, 0, len(header))
	for i := range header {
		if i != classCol && i != weightCol {
			inputCols = append(inputCols, i)
		}
	}

	schema := opts.Schema
	if schema == nil {
		schema = inferSchema(opts.Relation, header, rows, inputCols, classCol)
	} else if len(schema.Attributes) != len(inputCols) {
		return nil, fmt.Errorf("CSV has %d input columns, schema expects %d", len(inputCols), len(schema.Attributes))
	}

	instances := make([]Instance, 0, len(rows))
	for r, row := range rows {
		in, err := encodeRow(schema, row, inputCols, classCol, weightCol)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r+2, err)
		}
		instances = append(instances, in)
	}

	return New(schema, instances)
}

// locateColumns resolves the class and weight column positions
func locateColumns(header []string, opts CSVOptions) (int, int, error) {
	classCol := len(header) - 1
	weightCol := -1
	if opts.ClassColumn != "" {
		classCol = indexOf(header, opts.ClassColumn)
		if classCol < 0 {
			return 0, 0, fmt.Errorf("class column %q not found in header", opts.ClassColumn)
		}
	}
	if opts.WeightColumn != "" {
		weightCol = indexOf(header, opts.WeightColumn)
		if weightCol < 0 {
			return 0, 0, fmt.Errorf("weight column %q not found in header", opts.WeightColumn)
		}
		if weightCol == classCol {
			return 0, 0, fmt.Errorf("weight column and class column must differ")
		}
	}
	if classCol < 0 {
		return 0, 0, fmt.Errorf("CSV header is empty")
	}
	return classCol, weightCol, nil
}

// inferSchema derives attribute kinds, ranges and catalogs from the rows
func inferSchema(relation string, header []string, rows [][]string, inputCols []int, classCol int) *Schema {
	schema := &Schema{Relation: relation, Attributes: make([]Attribute, 0, len(inputCols))}
	for idx, col := range inputCols {
		name := strings.TrimSpace(header[col])
		if isNumericColumn(rows, col) {
			min, max := math.Inf(1), math.Inf(-1)
			for _, row := range rows {
				v, ok := parseValue(row[col])
				if !ok {
					continue
				}
				min = math.Min(min, v)
				max = math.Max(max, v)
			}
			if math.IsInf(min, 1) {
				min, max = 0, 0
			}
			schema.Attributes = append(schema.Attributes, NewNumeric(idx, name, min, max))
			continue
		}
		schema.Attributes = append(schema.Attributes, NewNominal(idx, name, catalog(rows, col)))
	}
	schema.Class = NewNominal(len(inputCols), strings.TrimSpace(header[classCol]), catalog(rows, classCol))
	return schema
}

func isNumericColumn(rows [][]string, col int) bool {
	for _, row := range rows {
		field := strings.TrimSpace(row[col])
		if field == "" || field == MissingValue {
			continue
		}
		if _, err := strconv.ParseFloat(field, 64); err != nil {
			return false
		}
	}
	return true
}

// catalog lists the distinct values of a column in order of first appearance
func catalog(rows [][]string, col int) []string {
	var values []string
	seen := make(map[string]struct{})
	for _, row := range rows {
		field := strings.TrimSpace(row[col])
		if field == "" || field == MissingValue {
			continue
		}
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		values = append(values, field)
	}
	return values
}

func encodeRow(schema *Schema, row []string, inputCols []int, classCol, weightCol int) (Instance, error) {
	in := Instance{Values: make([]float64, len(inputCols)), Weight: 1.0}
	for idx, col := range inputCols {
		v, err := EncodeValue(schema.Attributes[idx], row[col])
		if err != nil {
			return in, err
		}
		in.Values[idx] = v
	}

	class, ok := schema.Class.ValueIndex(strings.TrimSpace(row[classCol]))
	if !ok {
		return in, fmt.Errorf("unknown class value %q", row[classCol])
	}
	in.Class = class

	if weightCol >= 0 {
		w, err := strconv.ParseFloat(strings.TrimSpace(row[weightCol]), 64)
		if err != nil {
			return in, fmt.Errorf("invalid weight %q: %w", row[weightCol], err)
		}
		in.Weight = w
	}
	return in, nil
}

// EncodeValue converts a raw field into the numeric encoding of attr.
// Missing values become NaN.
func EncodeValue(attr Attribute, field string) (float64, error) {
	field = strings.TrimSpace(field)
	if field == "" || field == MissingValue {
		return math.NaN(), nil
	}
	if attr.IsNominal() {
		i, ok := attr.ValueIndex(field)
		if !ok {
			return 0, fmt.Errorf("value %q is not in the catalog of attribute %q", field, attr.Name)
		}
		return float64(i), nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("attribute %q: %w", attr.Name, err)
	}
	return v, nil
}

func parseValue(field string) (float64, bool) {
	field = strings.TrimSpace(field)
	if field == "" || field == MissingValue {
		return 0, false
	}
	v, err := strconv.ParseFloat(field, 64)
	return v, err == nil
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}
