package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/webskin/iiot-go-cli/internal/casing"
	"gopkg.in/yaml.v3"
)

// Format represents the output format
type Format string

const (
	JSON  Format = "json"
	Table Format = "table"
	YAML  Format = "yaml"
)

// Print outputs data in the specified format
func Print(data interface{}, format Format) error {
	return PrintTo(os.Stdout, data, format)
}

// PrintTo outputs data to a specific writer in the specified format
func PrintTo(w io.Writer, data interface{}, format Format) error {
	switch format {
	case JSON:
		return printJSON(w, data)
	case Table:
		return printTable(w, data)
	case YAML:
		return printYAML(w, data)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// printJSON outputs data as pretty-printed JSON
func printJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// printYAML outputs data as block-style YAML. Data goes through JSON first
// so json tags and object key order are honoured.
func printYAML(w io.Writer, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	resetStyle(&doc)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// resetStyle drops the flow and quoted styles picked up from the JSON
// source. The encoder still quotes strings that would read back as another
// type.
func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		resetStyle(child)
	}
}

// newTable returns a borderless, left-aligned table writer
func newTable(w io.Writer, autoFormatHeaders bool) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(autoFormatHeaders)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	return table
}

// printTable outputs data as a table
func printTable(w io.Writer, data interface{}) error {
	// Handle nil data
	if data == nil {
		return nil
	}

	// Ordered objects from the API carry their own columns
	switch v := data.(type) {
	case *casing.Object:
		return printObjectTable(w, v)
	case []*casing.Object:
		return printObjectsTable(w, v)
	case []interface{}:
		if objects, ok := allObjects(v); ok {
			return printObjectsTable(w, objects)
		}
	}

	// Use reflection to handle different data types
	val := reflect.ValueOf(data)
	typ := val.Type()

	// Dereference pointers
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = val.Type()
	}

	// Handle different data structures
	switch typ.Kind() {
	case reflect.Slice, reflect.Array:
		return printSliceTable(w, val)
	case reflect.Struct:
		return printStructTable(w, val)
	case reflect.Map:
		return printMapTable(w, val)
	default:
		// For simple types, just print them
		fmt.Fprintln(w, val.Interface())
		return nil
	}
}

// allObjects reports whether every element is an object
func allObjects(items []interface{}) ([]*casing.Object, bool) {
	objects := make([]*casing.Object, 0, len(items))
	for _, item := range items {
		obj, ok := item.(*casing.Object)
		if !ok || obj == nil {
			return nil, false
		}
		objects = append(objects, obj)
	}
	return objects, true
}

// printObjectTable prints an object as a key-value table
func printObjectTable(w io.Writer, obj *casing.Object) error {
	table := newTable(w, false)
	for _, key := range obj.Keys() {
		value, _ := obj.Get(key)
		table.Append([]string{key, formatNode(value)})
	}
	table.Render()
	return nil
}

// printObjectsTable prints objects as rows. Columns are the union of keys in
// order of first appearance.
func printObjectsTable(w io.Writer, objects []*casing.Object) error {
	if len(objects) == 0 {
		fmt.Fprintln(w, "No results found")
		return nil
	}

	var headers []string
	seen := map[string]bool{}
	for _, obj := range objects {
		for _, key := range obj.Keys() {
			if !seen[key] {
				seen[key] = true
				headers = append(headers, key)
			}
		}
	}

	table := newTable(w, true)
	table.SetHeader(headers)
	for _, obj := range objects {
		row := make([]string, len(headers))
		for i, key := range headers {
			if value, ok := obj.Get(key); ok {
				row[i] = formatNode(value)
			}
		}
		table.Append(row)
	}
	table.Render()
	return nil
}

// printSliceTable prints a slice as a table
func printSliceTable(w io.Writer, val reflect.Value) error {
	if val.Len() == 0 {
		fmt.Fprintln(w, "No results found")
		return nil
	}

	// Get the first element to determine structure
	firstElem := val.Index(0)
	if firstElem.Kind() == reflect.Ptr {
		firstElem = firstElem.Elem()
	}

	table := newTable(w, true)

	// Handle structs
	if firstElem.Kind() == reflect.Struct {
		// Extract headers from struct fields
		headers := extractHeaders(firstElem.Type())
		table.SetHeader(headers)

		// Add rows
		for i := 0; i < val.Len(); i++ {
			elem := val.Index(i)
			if elem.Kind() == reflect.Ptr {
				elem = elem.Elem()
			}
			row := extractRow(elem, headers)
			table.Append(row)
		}
	} else {
		// For simple types, create a single column table
		table.SetHeader([]string{"Value"})
		for i := 0; i < val.Len(); i++ {
			table.Append([]string{formatValue(val.Index(i))})
		}
	}

	table.Render()
	return nil
}

// printStructTable prints a single struct as a key-value table
func printStructTable(w io.Writer, val reflect.Value) error {
	table := newTable(w, false)

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		table.Append([]string{fieldName(field), formatValue(val.Field(i))})
	}

	table.Render()
	return nil
}

// printMapTable prints a map as a key-value table
func printMapTable(w io.Writer, val reflect.Value) error {
	table := newTable(w, false)

	iter := val.MapRange()
	for iter.Next() {
		table.Append([]string{fmt.Sprint(iter.Key().Interface()), formatValue(iter.Value())})
	}

	table.Render()
	return nil
}

// fieldName returns the json name of a struct field, falling back to the Go name
func fieldName(field reflect.StructField) string {
	jsonTag := field.Tag.Get("json")
	if jsonTag == "" || jsonTag == "-" {
		return field.Name
	}
	if name, _, _ := strings.Cut(jsonTag, ","); name != "" {
		return name
	}
	return field.Name
}

// extractHeaders extracts field names from a struct type
func extractHeaders(typ reflect.Type) []string {
	var headers []string
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		headers = append(headers, fieldName(field))
	}
	return headers
}

// extractRow extracts field values from a struct
func extractRow(val reflect.Value, headers []string) []string {
	row := make([]string, 0, len(headers))
	typ := val.Type()

	for i := 0; i < typ.NumField(); i++ {
		if !typ.Field(i).IsExported() {
			continue
		}
		row = append(row, formatValue(val.Field(i)))
	}

	return row
}

// formatNode formats a value of an object tree
func formatNode(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case *casing.Object:
		if t.Len() == 0 {
			return "{}"
		}
		return fmt.Sprintf("{%d entries}", t.Len())
	}
	return formatValue(reflect.ValueOf(v))
}

// formatValue formats a reflect.Value as a string
func formatValue(val reflect.Value) string {
	if !val.IsValid() {
		return ""
	}

	switch val.Kind() {
	case reflect.Interface:
		if val.IsNil() {
			return ""
		}
		return formatNode(val.Elem().Interface())
	case reflect.Ptr:
		if val.IsNil() {
			return ""
		}
		if obj, ok := val.Interface().(*casing.Object); ok {
			return formatNode(obj)
		}
		return formatValue(val.Elem())
	case reflect.Slice, reflect.Array:
		if val.Len() == 0 {
			return "[]"
		}
		// Format as comma-separated list for short slices
		if val.Len() <= 5 {
			parts := make([]string, val.Len())
			for i := 0; i < val.Len(); i++ {
				parts[i] = formatValue(val.Index(i))
			}
			return "[" + strings.Join(parts, ", ") + "]"
		}
		return fmt.Sprintf("[%d items]", val.Len())
	case reflect.Map:
		if val.Len() == 0 {
			return "{}"
		}
		return fmt.Sprintf("{%d entries}", val.Len())
	case reflect.Struct:
		// For time.Time and similar, use String() method
		if stringer, ok := val.Interface().(fmt.Stringer); ok {
			return stringer.String()
		}
		return fmt.Sprintf("%v", val.Interface())
	default:
		return fmt.Sprint(val.Interface())
	}
}
