package helpers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// OutputFormat represents the desired output format.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatCSV   OutputFormat = "csv"
)

// AllFormats lists every supported output format.
var AllFormats = []OutputFormat{FormatTable, FormatJSON, FormatCSV}

// Formatter writes a slice of tagged structs.
//
// Columns come from struct tags: `header` names table columns, `csv` names
// CSV columns (falling back to `header`), and `json` drives JSON output.
type Formatter interface {
	Format(data any, writer io.Writer) error
}

// NewFormatter creates a new Formatter for the given format.
func NewFormatter(format OutputFormat) (Formatter, error) {
	switch format {
	case FormatTable:
		return &TableFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatCSV:
		return &CSVFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// JSONFormatter formats data as indented JSON. A nil slice prints as [].
type JSONFormatter struct{}

func (f *JSONFormatter) Format(data any, writer io.Writer) error {
	if val := reflect.ValueOf(data); val.Kind() == reflect.Slice && val.IsNil() {
		data = reflect.MakeSlice(val.Type(), 0, 0).Interface()
	}
	enc := json.NewEncoder(writer)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// TableFormatter renders data as a bordered table. Numeric columns are right
// aligned. An empty slice prints only the header.
type TableFormatter struct{}

func (f *TableFormatter) Format(data any, writer io.Writer) error {
	elemType, rows, err := sliceRows(data, "header")
	if err != nil {
		return err
	}
	cols := taggedFields(elemType, "header")

	headers := make([]string, len(cols))
	numeric := make([]bool, len(cols))
	for i, c := range cols {
		headers[i] = c.name
		numeric[i] = isNumeric(elemType.Field(c.index).Type)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col < len(numeric) && numeric[col]:
				return numberStyle
			default:
				return cellStyle
			}
		})

	_, err = fmt.Fprintln(writer, t.Render())
	return err
}

// CSVFormatter formats data as CSV. The header row is always written.
type CSVFormatter struct{}

func (f *CSVFormatter) Format(data any, writer io.Writer) error {
	elemType, rows, err := sliceRows(data, "csv")
	if err != nil {
		return err
	}

	w := csv.NewWriter(writer)
	var headers []string
	for _, c := range taggedFields(elemType, "csv") {
		headers = append(headers, c.name)
	}
	if err := w.Write(headers); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

type taggedField struct {
	name  string
	index int
}

// taggedFields returns the fields carrying tag. For "csv", fields without a
// csv tag fall back to their header tag.
func taggedFields(t reflect.Type, tag string) []taggedField {
	var fields []taggedField
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get(tag)
		if name == "" && tag == "csv" {
			name = field.Tag.Get("header")
		}
		if name != "" && name != "-" {
			fields = append(fields, taggedField{name: name, index: i})
		}
	}
	return fields
}

// sliceRows validates that data is a slice of structs (or struct pointers)
// and stringifies the tagged fields of each element.
func sliceRows(data any, tag string) (reflect.Type, [][]string, error) {
	val := reflect.ValueOf(data)
	if val.Kind() != reflect.Slice {
		return nil, nil, fmt.Errorf("data must be a slice")
	}

	elemType := val.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("data must be a slice of structs")
	}

	fields := taggedFields(elemType, tag)
	rows := make([][]string, 0, val.Len())
	for i := 0; i < val.Len(); i++ {
		elem := val.Index(i)
		if elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}
		row := make([]string, len(fields))
		for j, f := range fields {
			row[j] = formatValue(elem.Field(f.index).Interface())
		}
		rows = append(rows, row)
	}
	return elemType, rows, nil
}

func formatValue(v any) string {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	return fmt.Sprintf("%v", v)
}

func isNumeric(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
