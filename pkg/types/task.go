package types

import "time"

// Task is one node of the schedule hierarchy. Bars become summary tasks,
// milestones are tasks with zero duration.
type Task struct {
	// UniqueID is the source record id
	UniqueID int `json:"unique_id"`

	// ID is the 1-based pre-order position in the hierarchy
	ID int `json:"id"`

	// OutlineLevel is the depth in the hierarchy, roots are level 1
	OutlineLevel int `json:"outline_level"`

	Name            string        `json:"name"`
	Notes           string        `json:"notes,omitempty"`
	Start           time.Time     `json:"start"`
	Finish          time.Time     `json:"finish"`
	Duration        time.Duration `json:"duration"`
	PercentComplete float64       `json:"percent_complete"`
	Summary         bool          `json:"summary"`
	Milestone       bool          `json:"milestone"`

	// Calendar is the task's explicit calendar; nil falls back to the project default
	Calendar *Calendar `json:"-"`

	Parent       *Task       `json:"-"`
	Children     []*Task     `json:"children,omitempty"`
	Predecessors []*Relation `json:"-"`
}

// RelationType is the dependency type of a predecessor link.
type RelationType int

const (
	FinishStart RelationType = iota
	StartStart
	FinishFinish
	StartFinish
)

// RelationTypeFromIndex maps the source's 0-based type index. Out-of-range
// values are finish-to-start.
func RelationTypeFromIndex(i int) RelationType {
	if i < int(FinishStart) || i > int(StartFinish) {
		return FinishStart
	}
	return RelationType(i)
}

func (t RelationType) String() string {
	switch t {
	case StartStart:
		return "SS"
	case FinishFinish:
		return "FF"
	case StartFinish:
		return "SF"
	default:
		return "FS"
	}
}

// Relation is a predecessor link from Predecessor to Successor.
type Relation struct {
	UniqueID    int           `json:"unique_id"`
	Predecessor *Task         `json:"-"`
	Successor   *Task         `json:"-"`
	Type        RelationType  `json:"type"`
	Lag         time.Duration `json:"lag"`
}
