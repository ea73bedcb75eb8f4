package calendar

import (
	"github.com/arkilian/schedread/internal/row"
	"github.com/arkilian/schedread/internal/schema"
	"github.com/arkilian/schedread/pkg/types"
)

// Exception-type bit flags as stored in UNIQUE_BIT_FIELD.
const (
	FlagNonWorking     = 4
	FlagWorking        = 8
	FlagHoliday        = 16
	FlagOvertime       = 32
	FlagWeather        = 64
	FlagWeekendWorking = 128
	FlagWeekend        = -2147483648
)

// ClassifyExceptionCode maps an exception-type bit flag to a day type.
// Unrecognized flags are non-working.
func ClassifyExceptionCode(code int) types.DayType {
	switch code {
	case FlagWorking, FlagOvertime, FlagWeekendWorking:
		return types.Working
	case FlagNonWorking, FlagHoliday, FlagWeather, FlagWeekend:
		return types.NonWorking
	default:
		return types.NonWorking
	}
}

// ExceptionTypes maps exception-type ids to their classification.
type ExceptionTypes map[int]types.DayType

// NewExceptionTypes classifies every exception-type row.
func NewExceptionTypes(rows []row.Row) ExceptionTypes {
	m := make(ExceptionTypes, len(rows))
	for _, r := range rows {
		id, ok := r.Integer(schema.ColExceptionTypeID)
		if !ok {
			continue
		}
		m[id] = ClassifyExceptionCode(r.Int(schema.ColUniqueBitField))
	}
	return m
}

// Working reports whether an exception type is working time. Unknown ids are
// non-working.
func (m ExceptionTypes) Working(id int) bool {
	t, ok := m[id]
	return ok && t == types.Working
}
