package row

import (
	"fmt"
	"strings"
	"time"

	"github.com/arkilian/schedread/internal/datatype"
	"github.com/arkilian/schedread/internal/errors"
	"github.com/arkilian/schedread/internal/schema"
)

// Header is the decoded "#id:seq:type[:subtype]" prefix of a text record.
type Header struct {
	RecordID   int
	Sequence   int
	Type       int
	Subtype    int
	HasSubtype bool
}

// TextRow is a row decoded from a text-export record.
type TextRow struct {
	*MapRow
	Header Header
}

// NewTextRow decodes the data tokens of one record positionally against the
// table's declared columns. Missing trailing tokens leave their columns
// absent; surplus tokens are ignored.
func NewTextRow(table *schema.TableDefinition, header Header, tokens []string, epochDates bool) (*TextRow, error) {
	r := &TextRow{MapRow: NewMapRow(table.Name), Header: header}
	if table.IDColumn != "" {
		r.Set(table.IDColumn, header.RecordID)
	}

	for i, column := range table.Columns {
		if i >= len(tokens) {
			break
		}
		value, err := decodeToken(tokens[i], column.Type, epochDates)
		if err != nil {
			return nil, errors.NewFieldDecodeError(table.Name, column.Name, tokens[i], column.Type.String(), err)
		}
		r.Set(column.Name, value)
	}
	return r, nil
}

// Duration decodes the three-part "a,b,hours" encoding used for numeric
// durations in text exports. The hours part may carry its own bracket or
// quote wrapping.
func (r *TextRow) Duration(name string) (time.Duration, error) {
	raw := r.Value(name)
	switch raw.(type) {
	case nil:
		return 0, nil
	case string:
	default:
		return r.MapRow.Duration(name)
	}

	value := r.String(name)
	if value == "" {
		return 0, nil
	}
	parts := strings.Split(value, ",")
	if len(parts) < 3 {
		return 0, errors.NewFieldDecodeError(r.Table(), name, value, "DURATION",
			fmt.Errorf("expected 3 comma-separated parts, got %d", len(parts)))
	}

	item := strings.TrimSuffix(strings.TrimPrefix(parts[2], "<"), ">")
	item = strings.Trim(item, `"`)
	hours, _, err := datatype.ParseDouble(item)
	if err != nil {
		return 0, errors.NewFieldDecodeError(r.Table(), name, value, "DURATION", err)
	}
	return Hours(hours), nil
}

func decodeToken(token string, t schema.ColumnType, epochDates bool) (any, error) {
	var (
		value any
		ok    bool
		err   error
	)
	switch t {
	case schema.Bit:
		value, ok, err = datatype.ParseBoolean(token)
	case schema.Varchar, schema.LongVarchar:
		return datatype.ParseString(token), nil
	case schema.Time:
		value, ok, err = datatype.ParseBasicTime(token)
	case schema.Timestamp:
		if epochDates {
			value, ok, err = datatype.ParseEpochTimestamp(token)
		} else {
			value, ok, err = datatype.ParseBasicTimestamp(token)
		}
	case schema.Double:
		value, ok, err = datatype.ParseDouble(token)
	case schema.Integer:
		value, ok, err = datatype.ParseInteger(token)
	default:
		return nil, fmt.Errorf("unsupported column type %s", t)
	}
	if err != nil || !ok {
		return nil, err
	}
	return value, nil
}
