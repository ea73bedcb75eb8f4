// Package row provides the typed row abstraction shared by every schedule source.
//
// A Row is an ordered set of named values plus an ordered list of child rows.
// Rows come from three places: relational query results, in-memory maps and
// text-export records. All of them share the coercion rules of MapRow; only
// the text backend changes how durations are decoded.
package row

import (
	"fmt"
	"sort"
	"time"
)

// Row is a typed tuple with ordered child rows.
type Row interface {
	// Table returns the name of the table the row was read from.
	Table() string

	// Columns returns the column names in insertion order.
	Columns() []string

	// Value returns the raw stored value, or nil when absent.
	Value(name string) any

	String(name string) string
	Integer(name string) (int, bool)
	Int(name string) int
	Double(name string) (float64, bool)
	Bool(name string) bool
	Date(name string) (time.Time, bool)
	Currency(name string) (float64, bool)
	Duration(name string) (time.Duration, error)

	Children() []Row
	AddChild(child Row)

	// Merge copies every column of other into this row, each name prefixed.
	Merge(other Row, prefix string)
}

// MapRow is the in-memory Row implementation and the shared coercion layer.
type MapRow struct {
	table    string
	names    []string
	values   map[string]any
	children []Row
}

// NewMapRow creates an empty row for a table.
func NewMapRow(table string) *MapRow {
	return &MapRow{
		table:  table,
		values: make(map[string]any),
	}
}

// FromMap creates a row from an association of column names to values.
// Columns are ordered by name.
func FromMap(table string, values map[string]any) *MapRow {
	r := NewMapRow(table)
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.Set(name, values[name])
	}
	return r
}

// Set stores a value, appending the column if it is new.
func (r *MapRow) Set(name string, value any) {
	if _, exists := r.values[name]; !exists {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

func (r *MapRow) Table() string { return r.table }

func (r *MapRow) Columns() []string { return r.names }

func (r *MapRow) Value(name string) any { return r.values[name] }

// String returns the value as text; absent values are empty.
func (r *MapRow) String(name string) string {
	switch v := r.values[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// Integer widens any numeric value to int.
func (r *MapRow) Integer(name string) (int, bool) {
	return toInt(r.values[name])
}

// Int is Integer with absent values reported as zero.
func (r *MapRow) Int(name string) int {
	i, _ := r.Integer(name)
	return i
}

// Double widens any numeric value to float64.
func (r *MapRow) Double(name string) (float64, bool) {
	return toFloat(r.values[name])
}

// Bool is true when the stored number is non-zero or the stored boolean is true.
func (r *MapRow) Bool(name string) bool {
	if b, ok := r.values[name].(bool); ok {
		return b
	}
	i, ok := toInt(r.values[name])
	return ok && i != 0
}

func (r *MapRow) Date(name string) (time.Time, bool) {
	t, ok := r.values[name].(time.Time)
	return t, ok
}

// Currency values are stored in hundredths.
func (r *MapRow) Currency(name string) (float64, bool) {
	f, ok := toFloat(r.values[name])
	if !ok {
		return 0, false
	}
	return f / 100, true
}

// Duration interprets the stored number as hours. Absent values are zero.
func (r *MapRow) Duration(name string) (time.Duration, error) {
	f, _ := toFloat(r.values[name])
	return Hours(f), nil
}

func (r *MapRow) Children() []Row { return r.children }

func (r *MapRow) AddChild(child Row) {
	r.children = append(r.children, child)
}

func (r *MapRow) Merge(other Row, prefix string) {
	for _, name := range other.Columns() {
		r.Set(prefix+name, other.Value(name))
	}
}

// Hours converts fractional hours to a duration.
func Hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case float32:
		return int(x), true
	case float64:
		return int(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
