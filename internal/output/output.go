// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output encodes vacancy records as JSON, CSV, or YAML.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

// ParseFormat validates a format name. The empty string is JSON.
func ParseFormat(s string) (types.OutputFormat, error) {
	switch f := types.OutputFormat(strings.ToLower(s)); f {
	case "":
		return types.FormatJSON, nil
	case types.FormatJSON, types.FormatCSV, types.FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use json, csv, or yaml", s)
	}
}

// Extension returns the file extension for a format, without the dot.
func Extension(f types.OutputFormat) string {
	if f == types.FormatYAML {
		return "yaml"
	}
	return string(f)
}

// Write encodes vacancies to w in format f.
func Write(w io.Writer, f types.OutputFormat, vacancies []types.Vacancy) error {
	switch f {
	case types.FormatJSON, "":
		return WriteJSON(w, vacancies)
	case types.FormatCSV:
		return WriteCSV(w, vacancies)
	case types.FormatYAML:
		return WriteYAML(w, vacancies)
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}

// WriteJSON writes an indented JSON array. An empty result is "[]".
func WriteJSON(w io.Writer, vacancies []types.Vacancy) error {
	if vacancies == nil {
		vacancies = []types.Vacancy{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(vacancies); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// WriteYAML writes a YAML sequence of mappings.
func WriteYAML(w io.Writer, vacancies []types.Vacancy) error {
	if vacancies == nil {
		vacancies = []types.Vacancy{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(vacancies); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// WriteCSV writes a header row followed by one row per vacancy. The header
// is the union of all fields present, in the order they were first seen,
// so a field missing from the first record still gets a column. Missing
// cells are empty. No records means no output.
func WriteCSV(w io.Writer, vacancies []types.Vacancy) error {
	if len(vacancies) == 0 {
		return nil
	}
	columns := Columns(vacancies)

	cw := csv.NewWriter(w)
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = string(c)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	row := make([]string, len(columns))
	for _, v := range vacancies {
		for i, c := range columns {
			row[i] = v.Value(c)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Columns returns the union of the records' fields in first-seen order.
func Columns(vacancies []types.Vacancy) []types.Field {
	seen := make(map[types.Field]bool)
	var cols []types.Field
	for _, v := range vacancies {
		for _, k := range v.Keys() {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}
