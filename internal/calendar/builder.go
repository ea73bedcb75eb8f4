// Package calendar reconstructs working-time calendars from work patterns,
// their shifts, and date-ranged exception and pattern assignments.
package calendar

import (
	"github.com/arkilian/schedread/internal/row"
	"github.com/arkilian/schedread/internal/schema"
	"github.com/arkilian/schedread/pkg/types"
)

// Input carries the rows calendars are built from.
type Input struct {
	Calendars              []row.Row
	ExceptionTypes         []row.Row
	ExceptionAssignments   []row.Row
	TimeEntries            []row.Row
	WorkPatterns           []row.Row
	WorkPatternAssignments []row.Row
}

// Builder assembles calendars. Lookups are indexed once on construction.
type Builder struct {
	exceptionTypes ExceptionTypes
	patterns       map[int]row.Row
	shifts         map[int][]Shift
	weekAssigned   map[int][]row.Row
	exceptions     map[int][]row.Row
	calendars      []row.Row
}

// NewBuilder indexes the calendar input by work pattern and calendar id.
func NewBuilder(in Input) *Builder {
	b := &Builder{
		exceptionTypes: NewExceptionTypes(in.ExceptionTypes),
		patterns:       make(map[int]row.Row, len(in.WorkPatterns)),
		shifts:         make(map[int][]Shift),
		weekAssigned:   groupBy(in.WorkPatternAssignments, schema.ColCalendar),
		exceptions:     groupBy(in.ExceptionAssignments, schema.ColCalendar),
		calendars:      in.Calendars,
	}
	for _, r := range in.WorkPatterns {
		if id, ok := r.Integer(schema.ColWorkPatternID); ok {
			b.patterns[id] = r
		}
	}
	for _, r := range in.TimeEntries {
		id, ok := r.Integer(schema.ColWorkPattern)
		if !ok {
			continue
		}
		b.shifts[id] = append(b.shifts[id], NewShift(r, b.exceptionTypes))
	}
	return b
}

// Build returns one calendar per calendar row, in row order.
func (b *Builder) Build() []*types.Calendar {
	out := make([]*types.Calendar, 0, len(b.calendars))
	for _, r := range b.calendars {
		out = append(out, b.buildCalendar(r))
	}
	return out
}

func (b *Builder) buildCalendar(r row.Row) *types.Calendar {
	c := &types.Calendar{
		UniqueID: r.Int(schema.ColCalendarID),
		Name:     r.String(schema.ColName),
	}

	dominant, hasDominant := r.Integer(schema.ColDominantWorkPattern)
	if hasDominant {
		if days, ok := b.Week(dominant); ok {
			c.Days = days
		}
	}

	for _, a := range b.weekAssigned[c.UniqueID] {
		pattern, ok := a.Integer(schema.ColWorkPattern)
		if !ok || (hasDominant && pattern == dominant) {
			continue
		}
		ww := types.WorkWeek{Name: b.patternName(pattern)}
		ww.Start, _ = a.Date(schema.ColStartDate)
		ww.Finish, _ = a.Date(schema.ColEndDate)
		ww.Days, _ = b.Week(pattern)
		c.WorkWeeks = append(c.WorkWeeks, ww)
	}

	for _, a := range b.exceptions[c.UniqueID] {
		ex := types.Exception{}
		ex.Start, _ = a.Date(schema.ColStartDate)
		ex.Finish, _ = a.Date(schema.ColEndDate)
		c.Exceptions = append(c.Exceptions, ex)
	}
	return c
}

// Week materializes a work pattern. It reports false for unknown patterns.
func (b *Builder) Week(pattern int) (types.Week, bool) {
	if _, ok := b.patterns[pattern]; !ok {
		return types.Week{}, false
	}
	return MaterializeWeek(b.shifts[pattern]), true
}

func (b *Builder) patternName(pattern int) string {
	if r, ok := b.patterns[pattern]; ok {
		return r.String(schema.ColName)
	}
	return ""
}

func groupBy(rows []row.Row, column string) map[int][]row.Row {
	m := make(map[int][]row.Row)
	for _, r := range rows {
		if key, ok := r.Integer(column); ok {
			m[key] = append(m[key], r)
		}
	}
	return m
}
