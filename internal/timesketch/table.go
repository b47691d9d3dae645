// internal/timesketch/table.go
package timesketch

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// InternalColumns are backend bookkeeping fields carried on events but
// not part of the logical event schema.
var InternalColumns = []string{"__ts_timeline_id", "_id", "_index", "_source", "_type"}

// EventTable is an ordered collection of result rows. Columns are the
// sorted union of field names across all rows, so serializing the same
// result twice yields identical output.
type EventTable struct {
	Columns []string
	Rows    []map[string]any
}

// NewEventTable builds a table from raw result rows.
func NewEventTable(rows []map[string]any) *EventTable {
	seen := make(map[string]bool)
	var columns []string
	for _, row := range rows {
		for name := range row {
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
		}
	}
	sort.Strings(columns)
	return &EventTable{Columns: columns, Rows: rows}
}

// Len returns the number of rows.
func (t *EventTable) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t *EventTable) Empty() bool {
	return len(t.Rows) == 0
}

// Drop returns a new table without the named columns. Columns that are
// not present are ignored.
func (t *EventTable) Drop(names ...string) *EventTable {
	dropped := make(map[string]bool, len(names))
	for _, name := range names {
		dropped[name] = true
	}

	columns := make([]string, 0, len(t.Columns))
	for _, name := range t.Columns {
		if !dropped[name] {
			columns = append(columns, name)
		}
	}

	rows := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		out := make(map[string]any, len(row))
		for name, value := range row {
			if !dropped[name] {
				out[name] = value
			}
		}
		rows = append(rows, out)
	}
	return &EventTable{Columns: columns, Rows: rows}
}

// HasColumn reports whether the table contains the named column.
func (t *EventTable) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// FormatCell renders a single cell value for text output. JSON numbers
// decode as float64; integral values must not pick up an exponent.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprintf("%v", x)
		}
		return string(data)
	}
}
