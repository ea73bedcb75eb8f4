package assembler

import (
	"context"
	"time"

	"github.com/arkilian/schedread/internal/calendar"
	"github.com/arkilian/schedread/internal/hierarchy"
	"github.com/arkilian/schedread/internal/row"
	"github.com/arkilian/schedread/internal/schema"
	"github.com/arkilian/schedread/pkg/types"
)

func (a *Assembler) processTasks(ctx context.Context, src RowSource, s *types.Schedule) error {
	var in hierarchy.Input
	tables := []struct {
		name string
		dst  *[]row.Row
	}{
		{schema.TableBar, &in.Bars},
		{schema.TableExpandedTask, &in.ExpandedTasks},
		{schema.TableTask, &in.Tasks},
		{schema.TableMilestone, &in.Milestones},
	}
	for _, t := range tables {
		rows, err := src.Rows(ctx, t.name)
		if err != nil {
			return err
		}
		*t.dst = rows
	}

	tree := hierarchy.Build(in)
	for i := 0; i < tree.Unresolved; i++ {
		a.stats.RecordSkip("row", "unresolved_parent")
	}
	if tree.Unresolved > 0 {
		a.logger.Debug("rows excluded from the task tree", "count", tree.Unresolved)
	}

	for _, n := range tree.Roots {
		if err := a.addTask(s, nil, n); err != nil {
			return err
		}
	}

	s.DefaultCalendar = calendar.InferDefault(s.AllTasks())
	return nil
}

func (a *Assembler) addTask(s *types.Schedule, parent *types.Task, n *hierarchy.Node) error {
	t := &types.Task{
		UniqueID:     n.UniqueID,
		ID:           n.ID,
		OutlineLevel: n.OutlineLevel,
		Name:         n.Name,
	}
	r := n.Row

	switch n.Kind {
	case hierarchy.KindBar:
		t.Summary = true
		t.Start, _ = r.Date(schema.ColStart)
		t.Finish, _ = r.Date(schema.ColFinish)
		t.Notes = r.String(schema.MergePrefix + schema.ColNotes)

	case hierarchy.KindTask:
		t.Start, _ = r.Date(schema.ColStart)
		t.Finish, _ = r.Date(schema.ColFinish)
		t.Notes = r.String(schema.ColNotes)
		if pct, ok := r.Double(schema.ColPercentDone); ok {
			t.PercentComplete = pct * 100
		}
		d, err := r.Duration(schema.ColDurationHours)
		if err != nil {
			return err
		}
		t.Duration = d
		t.Calendar = a.taskCalendar(s, r, t.UniqueID)

	case hierarchy.KindMilestone:
		t.Milestone = true
		t.Start, _ = r.Date(schema.ColDate)
		t.Finish = t.Start
		t.Calendar = a.taskCalendar(s, r, t.UniqueID)
	}

	s.AddTask(parent, t)
	for _, child := range n.Children {
		if err := a.addTask(s, t, child); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assembler) taskCalendar(s *types.Schedule, r row.Row, taskID int) *types.Calendar {
	id, ok := r.Integer(schema.ColCalendar)
	if !ok {
		return nil
	}
	c := s.Calendar(id)
	if c == nil {
		a.skip("task_calendar", "unresolved_calendar", "task", taskID, "calendar", id)
	}
	return c
}

func (a *Assembler) processPredecessors(ctx context.Context, src RowSource, s *types.Schedule) error {
	links, err := src.Rows(ctx, schema.TableLink)
	if err != nil {
		return err
	}
	sections, err := src.Rows(ctx, schema.TableTaskCompletedSection)
	if err != nil {
		return err
	}

	completed := make(map[int]int, len(sections))
	for _, r := range sections {
		if id, ok := r.Integer(schema.ColCompletedSectionID); ok {
			completed[id] = r.Int(schema.ColTask)
		}
	}
	resolve := func(id int) *types.Task {
		if t := s.Task(id); t != nil {
			return t
		}
		if taskID, ok := completed[id]; ok {
			return s.Task(taskID)
		}
		return nil
	}

	for _, r := range links {
		from, to := r.Int(schema.ColStartTask), r.Int(schema.ColEndTask)
		predecessor, successor := resolve(from), resolve(to)
		if predecessor == nil || successor == nil {
			a.skip("link", "unresolved_task", "link", r.Int(schema.ColLinkID), "start_task", from, "end_task", to)
			continue
		}

		startLag, err := r.Duration(schema.ColStartLagHours)
		if err != nil {
			return err
		}
		endLag, err := r.Duration(schema.ColEndLagHours)
		if err != nil {
			return err
		}

		s.AddRelation(&types.Relation{
			UniqueID:    r.Int(schema.ColLinkID),
			Predecessor: predecessor,
			Successor:   successor,
			Type:        types.RelationTypeFromIndex(r.Int(schema.ColLinkType)),
			Lag:         startLag - endLag,
		})
	}
	return nil
}

func (a *Assembler) processAssignments(ctx context.Context, src RowSource, s *types.Schedule) error {
	rows, err := src.Rows(ctx, schema.TableAllocation)
	if err != nil {
		return err
	}

	for _, r := range rows {
		id := r.Int(schema.ColAllocationID)
		task := s.Task(r.Int(schema.ColAllocatedTo))
		if task == nil {
			a.skip("assignment", "unresolved_task", "assignment", id, "task", r.Int(schema.ColAllocatedTo))
			continue
		}
		resource := s.Resource(r.Int(schema.ColPlayer))
		if resource == nil {
			a.skip("assignment", "unresolved_resource", "assignment", id, "resource", r.Int(schema.ColPlayer))
			continue
		}

		work, err := r.Duration(schema.ColEffortHours)
		if err != nil {
			return err
		}
		delay, err := r.Duration(schema.ColDelayHours)
		if err != nil {
			return err
		}
		pct, _ := r.Double(schema.ColPercentDone)
		actual := scale(work, pct)

		as := &types.Assignment{
			UniqueID:      id,
			Task:          task,
			Resource:      resource,
			Delay:         delay,
			Work:          work,
			ActualWork:    actual,
			RemainingWork: work - actual,
		}
		as.Start, _ = r.Date(schema.ColStart)
		as.Finish, _ = r.Date(schema.ColFinish)
		if units, ok := r.Double(schema.ColUnits); ok {
			as.Units = units * 100
		}
		s.AddAssignment(as)
	}
	return nil
}

func scale(d time.Duration, f float64) time.Duration {
	return time.Duration(float64(d) * f)
}
