package types

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSchedule_TaskIndexFirstSeenWins(t *testing.T) {
	s := NewSchedule()
	if s.GUID == uuid.Nil {
		t.Error("schedule should carry a GUID")
	}

	root := &Task{UniqueID: 1, Name: "root"}
	child := &Task{UniqueID: 2, Name: "child"}
	dup := &Task{UniqueID: 2, Name: "duplicate"}
	s.AddTask(nil, root)
	s.AddTask(root, child)
	s.AddTask(root, dup)

	if s.Task(2) != child {
		t.Errorf("Task(2) = %v, want first task with the id", s.Task(2).Name)
	}
	if child.Parent != root || len(root.Children) != 2 {
		t.Error("AddTask should link parent and children")
	}

	all := s.AllTasks()
	if len(all) != 3 || all[0] != root || all[1] != child || all[2] != dup {
		t.Errorf("AllTasks order unexpected: %d tasks", len(all))
	}
}

func TestSchedule_AddRelationAttachesToSuccessor(t *testing.T) {
	s := NewSchedule()
	a := &Task{UniqueID: 1}
	b := &Task{UniqueID: 2}
	s.AddTask(nil, a)
	s.AddTask(nil, b)

	s.AddRelation(&Relation{Predecessor: a, Successor: b, Type: StartStart, Lag: time.Hour})

	if len(s.Relations) != 1 || len(b.Predecessors) != 1 || len(a.Predecessors) != 0 {
		t.Error("relation should be recorded on the schedule and the successor")
	}
}

func TestRelationTypeFromIndex(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "FS"}, {1, "SS"}, {2, "FF"}, {3, "SF"}, {4, "FS"}, {-1, "FS"},
	}
	for _, tt := range tests {
		if got := RelationTypeFromIndex(tt.index).String(); got != tt.want {
			t.Errorf("RelationTypeFromIndex(%d) = %s, want %s", tt.index, got, tt.want)
		}
	}
}

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"Jane Doe":           "JD",
		"  crane   operator": "CO",
		"(Site) team":        "ST",
		"":                   "",
	}
	for name, want := range tests {
		if got := Initials(name); got != want {
			t.Errorf("Initials(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestWeekAndDay(t *testing.T) {
	var w Week
	w[time.Monday] = Day{Type: Working, Ranges: []TimeRange{
		{Start: 9 * time.Hour, End: 12 * time.Hour},
		{Start: 13 * time.Hour, End: 17 * time.Hour},
	}}
	if w.WorkingDays() != 1 {
		t.Errorf("WorkingDays = %d, want 1", w.WorkingDays())
	}
	if w[time.Monday].Hours() != 7*time.Hour {
		t.Errorf("Hours = %v, want 7h", w[time.Monday].Hours())
	}
	if got := w[time.Monday].Ranges[0].String(); got != "09:00-12:00" {
		t.Errorf("range string = %q", got)
	}

	base := &Calendar{UniqueID: 1}
	derived := NewDerivedCalendar(9, "Crane", base)
	for d, day := range derived.Days {
		if day.Type != Default {
			t.Errorf("derived day %d should defer to parent", d)
		}
	}
	if derived.Parent != base {
		t.Error("derived calendar should reference its base")
	}
}
