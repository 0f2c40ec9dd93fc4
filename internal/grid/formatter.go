// Package grid reshapes decoded OpenAlgo JSON responses into rectangular 2D
// arrays of display strings, ready to be written into a spreadsheet range.
package grid

import (
	"sort"
	"time"

	"openalgo-sheets/pkg/utils"
)

// Rows is a 2D array of display strings. Row 0 carries the headers for the
// table and key-value layouts.
type Rows [][]string

// Formatter turns raw API payloads into Rows. It is immutable after
// construction and safe for concurrent use; rendering is a pure function of
// its inputs.
type Formatter struct {
	catalog   *Catalog
	schemas   map[string]Schema
	preferred Format
	loc       *time.Location
}

// NewFormatter builds a formatter from an explicit catalog, schema registry,
// global format preference and timestamp location. Nil arguments fall back to
// the defaults.
func NewFormatter(catalog *Catalog, schemas map[string]Schema, preferred Format, loc *time.Location) *Formatter {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if schemas == nil {
		schemas = DefaultSchemas()
	}
	if preferred == "" {
		preferred = FormatAuto
	}
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{
		catalog:   catalog,
		schemas:   schemas,
		preferred: preferred,
		loc:       loc,
	}
}

// NewDefaultFormatter builds a formatter with the default catalog and schemas.
func NewDefaultFormatter() *Formatter {
	return NewFormatter(nil, nil, FormatAuto, nil)
}

// ErrorRows renders an error message as a single-cell grid.
func ErrorRows(message string) Rows {
	return Rows{{"Error: " + message}}
}

// Label returns the display label for a field.
func (f *Formatter) Label(field string) string {
	return f.catalog.Label(field)
}

// Render formats a decoded JSON response for the named endpoint. It never
// panics or returns an empty result: upstream errors, missing data, and shape
// mismatches all come back as single descriptive rows.
func (f *Formatter) Render(response interface{}, endpoint string, customTitle string) Rows {
	if m, ok := response.(map[string]interface{}); ok {
		if errVal, present := m["error"]; present {
			return ErrorRows(stringify(errVal))
		}
	}

	data := extractData(response)
	if isEmptyPayload(data) {
		return Rows{{"No data received"}}
	}

	schema := f.schemas[endpoint]
	format := schema.Format
	if format == "" {
		format = f.preferred
	}
	if format == FormatAuto {
		if _, isList := data.([]interface{}); isList {
			format = FormatTable
		} else {
			format = FormatKeyValue
		}
	}

	// Some endpoints wrap a single record in a one-element list.
	if list, ok := data.([]interface{}); ok && len(list) == 1 && format == FormatKeyValue {
		if obj, isObj := list[0].(map[string]interface{}); isObj {
			data = obj
		}
	}

	switch format {
	case FormatKeyValue:
		return f.renderKeyValue(data, endpoint, customTitle, schema)
	case FormatTable:
		return f.renderTable(data, schema)
	default:
		return f.renderFallback(data)
	}
}

// extractData unwraps the "data" envelope when present.
func extractData(response interface{}) interface{} {
	if m, ok := response.(map[string]interface{}); ok {
		if data, present := m["data"]; present {
			return data
		}
	}
	return response
}

func isEmptyPayload(data interface{}) bool {
	switch v := data.(type) {
	case nil:
		return true
	case map[string]interface{}:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	case string:
		return v == ""
	default:
		return false
	}
}

func (f *Formatter) renderKeyValue(data interface{}, endpoint, customTitle string, schema Schema) Rows {
	obj, ok := data.(map[string]interface{})
	if !ok {
		if list, isList := data.([]interface{}); isList && len(list) > 0 {
			obj, ok = list[0].(map[string]interface{})
		}
		if !ok {
			return Rows{{"Invalid data format for key-value display"}}
		}
	}

	title := customTitle
	if title == "" {
		switch {
		case schema.Title != "":
			title = schema.Title
		case schema.TitleField != "":
			if v, present := obj[schema.TitleField]; present {
				title = stringify(v)
				if exchange, hasExchange := obj["exchange"]; hasExchange {
					title += " (" + stringify(exchange) + ")"
				}
			}
		}
		if title == "" && endpoint != "" {
			title = utils.Capitalize(endpoint) + " Data"
		}
	}

	header := []string{title, "Value"}
	if title == "" {
		header[0] = "Field"
	}

	fields := make([]string, 0, len(obj))
	for field := range obj {
		fields = append(fields, field)
	}
	fields = f.catalog.OrderFields(fields)

	rows := Rows{header}
	for _, field := range fields {
		rows = append(rows, []string{f.catalog.Label(field), f.FormatValue(field, obj[field])})
	}
	return rows
}

func (f *Formatter) renderTable(data interface{}, schema Schema) Rows {
	list, ok := data.([]interface{})
	if !ok {
		return Rows{{"Expected list data for table format"}}
	}
	if len(list) == 0 {
		return Rows{{"No data available"}}
	}

	if _, isObj := list[0].(map[string]interface{}); !isObj {
		rows := Rows{{"Items"}}
		for _, item := range list {
			rows = append(rows, []string{stringify(item)})
		}
		return rows
	}

	// Union of field names across all records; discovery order is irrelevant.
	seen := make(map[string]bool)
	var fields []string
	for _, item := range list {
		obj, isObj := item.(map[string]interface{})
		if !isObj {
			continue
		}
		for field := range obj {
			if !seen[field] {
				seen[field] = true
				fields = append(fields, field)
			}
		}
	}
	fields = f.catalog.OrderFields(fields)

	header := make([]string, len(fields))
	for i, field := range fields {
		header[i] = f.catalog.Label(field)
	}

	rows := Rows{header}
	for _, item := range list {
		row := make([]string, len(fields))
		if obj, isObj := item.(map[string]interface{}); isObj {
			for i, field := range fields {
				if value, present := obj[field]; present {
					row[i] = f.FormatValue(field, value)
				}
			}
		}
		rows = append(rows, row)
	}

	if schema.SortBy != "" {
		if col := indexOf(fields, schema.SortBy); col >= 0 {
			body := rows[1:]
			sort.SliceStable(body, func(i, j int) bool {
				return body[i][col] > body[j][col]
			})
		}
	}

	return rows
}

// renderFallback degrades gracefully when the payload matches neither layout
// cleanly: dicts become two columns, lists one.
func (f *Formatter) renderFallback(data interface{}) Rows {
	switch v := data.(type) {
	case map[string]interface{}:
		fields := make([]string, 0, len(v))
		for field := range v {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		rows := make(Rows, 0, len(fields))
		for _, field := range fields {
			rows = append(rows, []string{field, f.FormatValue(field, v[field])})
		}
		return rows
	case []interface{}:
		if len(v) > 0 {
			if _, isObj := v[0].(map[string]interface{}); isObj {
				return f.renderTable(v, Schema{})
			}
		}
		rows := make(Rows, 0, len(v))
		for _, item := range v {
			rows = append(rows, []string{stringify(item)})
		}
		return rows
	default:
		return Rows{{stringify(data)}}
	}
}

func indexOf(fields []string, name string) int {
	for i, f := range fields {
		if f == name {
			return i
		}
	}
	return -1
}
