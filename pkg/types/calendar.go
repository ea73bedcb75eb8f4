package types

import (
	"fmt"
	"time"
)

// DayType says whether a weekday is worked.
type DayType int

const (
	NonWorking DayType = iota
	Working

	// Default defers to the parent calendar; used by derived calendars.
	Default
)

func (d DayType) String() string {
	switch d {
	case Working:
		return "WORKING"
	case Default:
		return "DEFAULT"
	default:
		return "NON_WORKING"
	}
}

// TimeRange is a span of working time as offsets from midnight. End may
// exceed 24h when a shift runs past midnight.
type TimeRange struct {
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
}

// Length returns the duration of the range.
func (r TimeRange) Length() time.Duration {
	return r.End - r.Start
}

func (r TimeRange) String() string {
	return fmt.Sprintf("%s-%s", clock(r.Start), clock(r.End))
}

func clock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// Day is the working time of one weekday.
type Day struct {
	Type   DayType     `json:"type"`
	Ranges []TimeRange `json:"ranges,omitempty"`
}

// Hours returns the total working time of the day.
func (d Day) Hours() time.Duration {
	var total time.Duration
	for _, r := range d.Ranges {
		total += r.Length()
	}
	return total
}

// Week holds one Day per weekday, indexed by time.Weekday.
type Week [7]Day

// WorkingDays returns the number of weekdays marked working.
func (w Week) WorkingDays() int {
	n := 0
	for _, d := range w {
		if d.Type == Working {
			n++
		}
	}
	return n
}

// WorkWeek overrides the base week between Start and Finish.
type WorkWeek struct {
	Name   string    `json:"name,omitempty"`
	Start  time.Time `json:"start"`
	Finish time.Time `json:"finish"`
	Days   Week      `json:"days"`
}

// Exception marks a date range on a calendar, e.g. a holiday.
type Exception struct {
	Name    string    `json:"name,omitempty"`
	Start   time.Time `json:"start"`
	Finish  time.Time `json:"finish"`
	Working bool      `json:"working"`
}

// Calendar describes working time.
type Calendar struct {
	UniqueID int    `json:"unique_id"`
	Name     string `json:"name"`

	// Parent is the base calendar of a derived resource calendar
	Parent *Calendar `json:"-"`

	Days       Week        `json:"days"`
	WorkWeeks  []WorkWeek  `json:"work_weeks,omitempty"`
	Exceptions []Exception `json:"exceptions,omitempty"`
}

// NewDerivedCalendar creates a calendar that defers every weekday to parent.
func NewDerivedCalendar(uniqueID int, name string, parent *Calendar) *Calendar {
	c := &Calendar{UniqueID: uniqueID, Name: name, Parent: parent}
	for i := range c.Days {
		c.Days[i].Type = Default
	}
	return c
}
