// Package types provides the normalized schedule model produced by a read.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is one fully assembled project schedule.
type Schedule struct {
	// GUID identifies this read of the schedule
	GUID uuid.UUID `json:"guid"`

	// Properties carries project-level metadata
	Properties Properties `json:"properties"`

	// Calendars lists every calendar, base calendars before derived resource calendars
	Calendars []*Calendar `json:"calendars"`

	// DefaultCalendar is the calendar tasks fall back to when they carry none
	DefaultCalendar *Calendar `json:"default_calendar,omitempty"`

	// Resources lists work resources followed by material resources
	Resources []*Resource `json:"resources"`

	// Tasks holds the root tasks of the hierarchy
	Tasks []*Task `json:"tasks"`

	// Assignments links resources to the tasks they work on
	Assignments []*Assignment `json:"assignments"`

	// Relations holds every predecessor link between tasks
	Relations []*Relation `json:"relations"`

	calendars map[int]*Calendar
	resources map[int]*Resource
	tasks     map[int]*Task
}

// Properties describes the project as a whole.
type Properties struct {
	// Name is the project's short name
	Name string `json:"name"`

	// Author is the person the project was created by
	Author string `json:"author"`

	Start     time.Time     `json:"start"`
	Finish    time.Time     `json:"finish"`
	Duration  time.Duration `json:"duration"`
	LastSaved time.Time     `json:"last_saved"`
	Notes     string        `json:"notes,omitempty"`

	// Format names the input variant, e.g. "text/13004" or "sqlite"
	Format string `json:"format"`

	// ProjectID is the source project selected from a multi-project database
	ProjectID int `json:"project_id,omitempty"`

	// Fingerprint is the murmur3 hash of the uncompressed input bytes.
	Fingerprint uint64 `json:"fingerprint"`
}

// NewSchedule creates an empty schedule with a fresh GUID.
func NewSchedule() *Schedule {
	return &Schedule{
		GUID:      uuid.New(),
		calendars: make(map[int]*Calendar),
		resources: make(map[int]*Resource),
		tasks:     make(map[int]*Task),
	}
}

// AddCalendar appends a calendar and indexes it by unique id.
func (s *Schedule) AddCalendar(c *Calendar) {
	s.Calendars = append(s.Calendars, c)
	s.calendars[c.UniqueID] = c
}

// Calendar looks up a calendar by unique id.
func (s *Schedule) Calendar(uniqueID int) *Calendar {
	return s.calendars[uniqueID]
}

// AddResource appends a resource and indexes it by unique id.
func (s *Schedule) AddResource(r *Resource) {
	s.Resources = append(s.Resources, r)
	s.resources[r.UniqueID] = r
}

// Resource looks up a resource by unique id.
func (s *Schedule) Resource(uniqueID int) *Resource {
	return s.resources[uniqueID]
}

// AddTask attaches a task under parent, or as a root when parent is nil. The
// task is indexed by unique id unless an earlier task already holds that id.
func (s *Schedule) AddTask(parent, t *Task) {
	if parent == nil {
		s.Tasks = append(s.Tasks, t)
	} else {
		t.Parent = parent
		parent.Children = append(parent.Children, t)
	}
	if _, exists := s.tasks[t.UniqueID]; !exists {
		s.tasks[t.UniqueID] = t
	}
}

// Task looks up a task by unique id.
func (s *Schedule) Task(uniqueID int) *Task {
	return s.tasks[uniqueID]
}

// AllTasks returns every task in pre-order.
func (s *Schedule) AllTasks() []*Task {
	var out []*Task
	var walk func([]*Task)
	walk = func(tasks []*Task) {
		for _, t := range tasks {
			out = append(out, t)
			walk(t.Children)
		}
	}
	walk(s.Tasks)
	return out
}

// AddRelation records a predecessor link and attaches it to its successor.
func (s *Schedule) AddRelation(r *Relation) {
	s.Relations = append(s.Relations, r)
	r.Successor.Predecessors = append(r.Successor.Predecessors, r)
}

// AddAssignment records a resource assignment.
func (s *Schedule) AddAssignment(a *Assignment) {
	s.Assignments = append(s.Assignments, a)
}
