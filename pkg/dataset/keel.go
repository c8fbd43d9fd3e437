/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: keel.go
Description: Reader and header writer for the KEEL .dat dataset format (an ARFF dialect
with @inputs and @outputs sections). Numeric attributes may declare their range; nominal
ones declare a catalog in braces. The single output attribute becomes the class.
*/

package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type keelAttribute struct {
	name    string
	nominal bool
	values  []string
	min     float64
	max     float64
}

// ReadKEEL reads a KEEL dataset. When schema is non-nil the data section is
// encoded against it and the file's own declarations only locate columns.
func ReadKEEL(r io.Reader, schema *Schema) (*Dataset, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		relation string
		attrs    []keelAttribute
		inputs   []string
		output   string
		inData   bool
		rows     [][]string
		line     int
	)

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}
		if inData {
			rows = append(rows, splitFields(text))
			continue
		}
		keyword, rest := splitKeyword(text)
		switch strings.ToLower(keyword) {
		case "@relation":
			relation = rest
		case "@attribute":
			a, err := parseKEELAttribute(rest)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			attrs = append(attrs, a)
		case "@inputs":
			inputs = splitFields(rest)
		case "@outputs", "@output":
			outs := splitFields(rest)
			if len(outs) != 1 {
				return nil, fmt.Errorf("line %d: exactly one output attribute is supported, got %d", line, len(outs))
			}
			output = outs[0]
		case "@data":
			inData = true
		default:
			return nil, fmt.Errorf("line %d: unexpected header line %q", line, text)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read KEEL data: %w", err)
	}
	if len(attrs) == 0 {
		return nil, fmt.Errorf("KEEL header declares no attributes")
	}

	classCol, inputCols, err := resolveKEELColumns(attrs, inputs, output)
	if err != nil {
		return nil, err
	}

	if schema == nil {
		schema = keelSchema(relation, attrs, inputCols, classCol)
	} else if len(schema.Attributes) != len(inputCols) {
		return nil, fmt.Errorf("KEEL file has %d inputs, schema expects %d", len(inputCols), len(schema.Attributes))
	}

	instances := make([]Instance, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(attrs) {
			return nil, fmt.Errorf("data row %d has %d fields, header declares %d", i+1, len(row), len(attrs))
		}
		in, err := encodeRow(schema, row, inputCols, classCol, -1)
		if err != nil {
			return nil, fmt.Errorf("data row %d: %w", i+1, err)
		}
		instances = append(instances, in)
	}

	return New(schema, instances)
}

func resolveKEELColumns(attrs []keelAttribute, inputs []string, output string) (int, []int, error) {
	position := make(map[string]int, len(attrs))
	for i, a := range attrs {
		position[a.name] = i
	}

	classCol := len(attrs) - 1
	if output != "" {
		col, ok := position[output]
		if !ok {
			return 0, nil, fmt.Errorf("output attribute %q is not declared", output)
		}
		classCol = col
	}
	if !attrs[classCol].nominal {
		return 0, nil, fmt.Errorf("output attribute %q must be nominal", attrs[classCol].name)
	}

	var inputCols []int
	if len(inputs) == 0 {
		for i := range attrs {
			if i != classCol {
				inputCols = append(inputCols, i)
			}
		}
		return classCol, inputCols, nil
	}
	for _, name := range inputs {
		col, ok := position[name]
		if !ok {
			return 0, nil, fmt.Errorf("input attribute %q is not declared", name)
		}
		if col == classCol {
			return 0, nil, fmt.Errorf("attribute %q is both input and output", name)
		}
		inputCols = append(inputCols, col)
	}
	return classCol, inputCols, nil
}

func keelSchema(relation string, attrs []keelAttribute, inputCols []int, classCol int) *Schema {
	schema := &Schema{Relation: relation, Attributes: make([]Attribute, 0, len(inputCols))}
	for idx, col := range inputCols {
		a := attrs[col]
		if a.nominal {
			schema.Attributes = append(schema.Attributes, NewNominal(idx, a.name, a.values))
		} else {
			schema.Attributes = append(schema.Attributes, NewNumeric(idx, a.name, a.min, a.max))
		}
	}
	schema.Class = NewNominal(len(inputCols), attrs[classCol].name, attrs[classCol].values)
	return schema
}

// parseKEELAttribute parses "name real [lo, hi]", "name integer" or "name {a, b}"
func parseKEELAttribute(decl string) (keelAttribute, error) {
	name, rest := splitBefore(decl, "{")
	if name == "" {
		return keelAttribute{}, fmt.Errorf("attribute declaration without a name")
	}
	a := keelAttribute{name: strings.Trim(name, "'\"")}

	if strings.HasPrefix(rest, "{") {
		end := strings.LastIndex(rest, "}")
		if end < 0 {
			return a, fmt.Errorf("attribute %q: unterminated value list", a.name)
		}
		a.nominal = true
		a.values = splitFields(rest[1:end])
		return a, nil
	}

	kind, bounds := splitBefore(rest, "[")
	switch strings.ToLower(kind) {
	case "real", "integer", "numeric":
	default:
		return a, fmt.Errorf("attribute %q: unsupported type %q", a.name, kind)
	}
	if bounds == "" {
		return a, nil
	}
	bounds = strings.TrimSpace(strings.Trim(bounds, "[]"))
	parts := splitFields(bounds)
	if len(parts) != 2 {
		return a, fmt.Errorf("attribute %q: malformed range %q", a.name, bounds)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return a, fmt.Errorf("attribute %q: %w", a.name, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return a, fmt.Errorf("attribute %q: %w", a.name, err)
	}
	a.min, a.max = lo, hi
	return a, nil
}

// WriteKEELHeader writes the declarations of schema up to and including @data
func WriteKEELHeader(w io.Writer, schema *Schema) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "@relation %s\n", schema.Relation)

	inputs := make([]string, 0, len(schema.Attributes))
	for _, a := range schema.Attributes {
		writeKEELAttribute(bw, a)
		inputs = append(inputs, a.Name)
	}
	writeKEELAttribute(bw, schema.Class)

	fmt.Fprintf(bw, "@inputs %s\n", strings.Join(inputs, ", "))
	fmt.Fprintf(bw, "@outputs %s\n", schema.Class.Name)
	fmt.Fprintln(bw, "@data")
	return bw.Flush()
}

func writeKEELAttribute(w io.Writer, a Attribute) {
	if a.IsNominal() {
		fmt.Fprintf(w, "@attribute %s {%s}\n", a.Name, strings.Join(a.Values, ", "))
		return
	}
	fmt.Fprintf(w, "@attribute %s real [%g, %g]\n", a.Name, a.Min, a.Max)
}

func splitKeyword(text string) (string, string) {
	text = strings.TrimSpace(text)
	i := strings.IndexAny(text, " \t")
	if i < 0 {
		return text, ""
	}
	return text[:i], strings.TrimSpace(text[i+1:])
}

// splitBefore splits text at the first blank or at the first delimiter in delims,
// whichever comes first. A delimiter stays at the start of the remainder so that
// "class{a, b}" and "x real[0, 1]" read like their spaced forms.
func splitBefore(text, delims string) (string, string) {
	text = strings.TrimSpace(text)
	i := strings.IndexAny(text, " \t"+delims)
	if i < 0 {
		return text, ""
	}
	if strings.ContainsRune(delims, rune(text[i])) {
		return text[:i], strings.TrimSpace(text[i:])
	}
	return text[:i], strings.TrimSpace(text[i+1:])
}

func splitFields(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
