// Package schema defines the per-version table layouts of the text export format.
package schema

import (
	"sort"

	"github.com/arkilian/schedread/internal/errors"
)

// ColumnType is the logical type a column's tokens decode to.
type ColumnType int

const (
	Integer ColumnType = iota + 1
	Double
	Varchar
	LongVarchar
	Time
	Timestamp
	Bit
)

// String returns the SQL name of the type.
func (t ColumnType) String() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Double:
		return "DOUBLE"
	case Varchar:
		return "VARCHAR"
	case LongVarchar:
		return "LONGVARCHAR"
	case Time:
		return "TIME"
	case Timestamp:
		return "TIMESTAMP"
	case Bit:
		return "BIT"
	default:
		return "UNKNOWN"
	}
}

// ColumnDefinition names one positional column of a table.
type ColumnDefinition struct {
	Name string
	Type ColumnType
}

// TableDefinition describes one logical table of the text format.
// Definitions are built once with the registry and never modified.
type TableDefinition struct {
	// Name is the table name rows are grouped under.
	Name string

	// Code is the table-type code carried in record headers.
	Code int

	// IDColumn receives the record id from the header. Empty means the id is not stored.
	IDColumn string

	// Columns are assigned positionally from the data tokens of a record.
	Columns []ColumnDefinition
}

// Format is the complete table layout for one file format version.
type Format struct {
	Version int

	// EpochDates selects the day-offset timestamp scheme; otherwise timestamps
	// use the literal yyyyMMdd scheme.
	EpochDates bool

	tables map[int]*TableDefinition
}

// NewFormat creates a format from table definitions. Later definitions with a
// duplicate code replace earlier ones.
func NewFormat(version int, epochDates bool, tables ...*TableDefinition) *Format {
	f := &Format{
		Version:    version,
		EpochDates: epochDates,
		tables:     make(map[int]*TableDefinition, len(tables)),
	}
	for _, t := range tables {
		f.tables[t.Code] = t
	}
	return f
}

// Table returns the table definition for a table-type code.
func (f *Format) Table(code int) (*TableDefinition, bool) {
	t, ok := f.tables[code]
	return t, ok
}

// Tables returns all table definitions ordered by code.
func (f *Format) Tables() []*TableDefinition {
	tables := make([]*TableDefinition, 0, len(f.tables))
	for _, t := range f.tables {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].Code < tables[j].Code
	})
	return tables
}

// Registry maps file format versions to their table layouts.
type Registry struct {
	formats map[int]*Format
}

// NewRegistry creates a registry holding the given formats.
func NewRegistry(formats ...*Format) *Registry {
	r := &Registry{formats: make(map[int]*Format, len(formats))}
	for _, f := range formats {
		r.formats[f.Version] = f
	}
	return r
}

// Lookup returns the format for a version. An unregistered version is a
// FORMAT:VERSION_UNSUPPORTED error.
func (r *Registry) Lookup(version int) (*Format, error) {
	f, ok := r.formats[version]
	if !ok {
		return nil, errors.NewVersionUnsupported(version)
	}
	return f, nil
}

// Versions returns the registered versions in ascending order.
func (r *Registry) Versions() []int {
	versions := make([]int, 0, len(r.formats))
	for v := range r.formats {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	return versions
}
