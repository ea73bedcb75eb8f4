package calendar

import "github.com/arkilian/schedread/pkg/types"

// InferDefault picks the calendar referenced by the most tasks and clears it
// from those tasks so they fall back to the project default. Ties go to the
// calendar encountered first. Tasks without a calendar are not counted. It
// returns nil when no task has a calendar.
func InferDefault(tasks []*types.Task) *types.Calendar {
	counts := make(map[*types.Calendar]int)
	var order []*types.Calendar
	for _, t := range tasks {
		if t.Calendar == nil {
			continue
		}
		if _, seen := counts[t.Calendar]; !seen {
			order = append(order, t.Calendar)
		}
		counts[t.Calendar]++
	}

	var chosen *types.Calendar
	max := 0
	for _, c := range order {
		if counts[c] > max {
			chosen, max = c, counts[c]
		}
	}
	if chosen == nil {
		return nil
	}

	for _, t := range tasks {
		if t.Calendar == chosen {
			t.Calendar = nil
		}
	}
	return chosen
}
