package calendar

import (
	"math"
	"time"

	"github.com/arkilian/schedread/internal/row"
	"github.com/arkilian/schedread/internal/schema"
	"github.com/arkilian/schedread/pkg/types"
)

const day = 24 * time.Hour

// Shift is one decoded time entry of a work pattern.
type Shift struct {
	Start time.Duration
	End   time.Duration

	// Working is true when the shift's exception type is working time.
	Working bool
}

// NewShift decodes a time-entry row. A missing start is midnight, a missing
// end is the end of the day, and an end before the start runs into the next day.
func NewShift(r row.Row, exceptionTypes ExceptionTypes) Shift {
	s := Shift{Start: 0, End: day}
	if t, ok := r.Date(schema.ColStartTime); ok {
		s.Start = timeOfDay(t)
	}
	if t, ok := r.Date(schema.ColEndTime); ok {
		s.End = timeOfDay(t)
	}
	if s.Start > s.End {
		s.End += day
	}
	s.Working = exceptionTypes.Working(r.Int(schema.ColExceptionType))
	return s
}

// MaterializeWeek lays an ordered shift list onto the days of a week,
// starting on Sunday. Shifts are listed day by day; a shift starting before
// the previous shift ended opens the next day.
func MaterializeWeek(shifts []Shift) types.Week {
	var week types.Week

	current := time.Sunday
	lastEnd := time.Duration(math.MinInt64)
	for _, s := range shifts {
		if s.Start < lastEnd {
			current = (current + 1) % 7
		}
		if s.Working {
			week[current].Type = types.Working
			week[current].Ranges = append(week[current].Ranges, types.TimeRange{Start: s.Start, End: s.End})
		}
		lastEnd = s.End
	}
	return week
}

func timeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}
