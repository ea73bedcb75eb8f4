package types

import (
	"strings"
	"time"
	"unicode"
)

// ResourceType distinguishes people and equipment from consumables.
type ResourceType int

const (
	Work ResourceType = iota
	Material
)

func (t ResourceType) String() string {
	if t == Material {
		return "MATERIAL"
	}
	return "WORK"
}

// Resource is a permanent (work) or consumable (material) resource.
type Resource struct {
	UniqueID     int          `json:"unique_id"`
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Type         ResourceType `json:"type"`
	Initials     string       `json:"initials,omitempty"`
	EmailAddress string       `json:"email_address,omitempty"`

	// Generic is set for resources created as a group
	Generic bool `json:"generic"`

	// MaxUnits is the availability as a percentage
	MaxUnits     float64 `json:"max_units"`
	CostPerUse   float64 `json:"cost_per_use"`
	StandardRate float64 `json:"standard_rate"`

	// Calendar is the resource's own calendar, derived from a base calendar
	Calendar *Calendar `json:"-"`
}

// Initials builds initials from the first letter of each word of name.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
	}
	return b.String()
}

// Assignment allocates a resource to a task.
type Assignment struct {
	UniqueID int       `json:"unique_id"`
	Task     *Task     `json:"-"`
	Resource *Resource `json:"-"`
	Start    time.Time `json:"start"`
	Finish   time.Time `json:"finish"`

	// Units is the allocation as a percentage
	Units         float64       `json:"units"`
	Delay         time.Duration `json:"delay"`
	Work          time.Duration `json:"work"`
	ActualWork    time.Duration `json:"actual_work"`
	RemainingWork time.Duration `json:"remaining_work"`
}
