// Package assembler turns the rows of one schedule source into the
// normalized schedule model.
package assembler

import (
	"context"
	"io"
	"log/slog"

	"github.com/arkilian/schedread/internal/calendar"
	"github.com/arkilian/schedread/internal/observability"
	"github.com/arkilian/schedread/internal/row"
	"github.com/arkilian/schedread/internal/schema"
	"github.com/arkilian/schedread/pkg/types"
)

// RowSource supplies the rows of one table. Text exports and databases both
// implement it.
type RowSource interface {
	Rows(ctx context.Context, table string) ([]row.Row, error)
}

// Assembler populates a schedule in a fixed order: properties, calendars,
// resources, tasks, predecessors, assignments. An Assembler is not safe for
// concurrent use; create one per read.
type Assembler struct {
	logger *slog.Logger
	stats  *observability.ReadStats
	ids    types.IDAllocator
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger used for skipped rows and the read summary.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) { a.logger = logger }
}

// WithStats records skipped relations and rows into stats.
func WithStats(stats *observability.ReadStats) Option {
	return func(a *Assembler) { a.stats = stats }
}

// New creates an assembler.
func New(opts ...Option) *Assembler {
	a := &Assembler{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble reads every table it needs from src and builds the schedule. It
// returns either a complete schedule or an error and no schedule.
func (a *Assembler) Assemble(ctx context.Context, src RowSource) (*types.Schedule, error) {
	a.ids.Reset()
	s := types.NewSchedule()

	steps := []struct {
		name string
		fn   func(context.Context, RowSource, *types.Schedule) error
	}{
		{"properties", a.processProperties},
		{"calendars", a.processCalendars},
		{"resources", a.processResources},
		{"tasks", a.processTasks},
		{"predecessors", a.processPredecessors},
		{"assignments", a.processAssignments},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step.fn(ctx, src, s); err != nil {
			a.logger.Debug("assembly step failed", "step", step.name, "error", err)
			return nil, err
		}
	}

	a.logger.Info("schedule assembled",
		"calendars", len(s.Calendars),
		"resources", len(s.Resources),
		"tasks", len(s.AllTasks()),
		"relations", len(s.Relations),
		"assignments", len(s.Assignments),
	)
	return s, nil
}

func (a *Assembler) processProperties(ctx context.Context, src RowSource, s *types.Schedule) error {
	rows, err := src.Rows(ctx, schema.TableProjectSummary)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		a.logger.Debug("no project summary row, keeping defaults")
		return nil
	}

	r := rows[0]
	p := &s.Properties
	p.Name = r.String(schema.ColShortName)
	p.Author = r.String(schema.ColProjectBy)
	p.Start, _ = r.Date(schema.ColStart)
	p.Finish, _ = r.Date(schema.ColFinish)
	p.LastSaved, _ = r.Date(schema.ColLastEdited)
	p.Notes = r.String(schema.ColNotes)
	p.Duration, err = r.Duration(schema.ColDurationHours)
	return err
}

func (a *Assembler) processCalendars(ctx context.Context, src RowSource, s *types.Schedule) error {
	var in calendar.Input
	tables := []struct {
		name string
		dst  *[]row.Row
	}{
		{schema.TableCalendar, &in.Calendars},
		{schema.TableExceptionType, &in.ExceptionTypes},
		{schema.TableExceptionAssignment, &in.ExceptionAssignments},
		{schema.TableTimeEntry, &in.TimeEntries},
		{schema.TableWorkPattern, &in.WorkPatterns},
		{schema.TableWorkPatternAssignment, &in.WorkPatternAssignments},
	}
	for _, t := range tables {
		rows, err := src.Rows(ctx, t.name)
		if err != nil {
			return err
		}
		*t.dst = rows
	}

	for _, c := range calendar.NewBuilder(in).Build() {
		s.AddCalendar(c)
		a.ids.Sync(c.UniqueID)
	}
	return nil
}

func (a *Assembler) processResources(ctx context.Context, src RowSource, s *types.Schedule) error {
	permanent, err := src.Rows(ctx, schema.TablePermanentResource)
	if err != nil {
		return err
	}
	consumable, err := src.Rows(ctx, schema.TableConsumableResource)
	if err != nil {
		return err
	}

	for _, r := range permanent {
		res := a.newResource(s, r, schema.ColPermanentResourceID, types.Work)
		res.Generic = r.Bool(schema.ColCreatedAsGroup)
		res.EmailAddress = r.String(schema.ColEmailAddress)
	}
	for _, r := range consumable {
		a.newResource(s, r, schema.ColConsumableResourceID, types.Material)
	}
	return nil
}

// newResource adds a resource and, when it names a base calendar, a derived
// calendar of its own with a freshly allocated id.
func (a *Assembler) newResource(s *types.Schedule, r row.Row, idColumn string, kind types.ResourceType) *types.Resource {
	res := &types.Resource{
		UniqueID: r.Int(idColumn),
		ID:       len(s.Resources) + 1,
		Name:     r.String(schema.ColName),
		Type:     kind,
	}
	res.Initials = types.Initials(res.Name)
	if availability, ok := r.Double(schema.ColAvailability); ok {
		res.MaxUnits = availability * 100
	}
	res.CostPerUse, _ = r.Currency(schema.ColCostPerUse)
	res.StandardRate, _ = r.Currency(schema.ColStandardRate)

	if id, ok := r.Integer(schema.ColCalendar); ok {
		if base := s.Calendar(id); base != nil {
			derived := types.NewDerivedCalendar(a.ids.Next(), res.Name, base)
			s.AddCalendar(derived)
			res.Calendar = derived
		} else {
			a.skip("resource_calendar", "unresolved_calendar", "resource", res.UniqueID, "calendar", id)
		}
	}

	s.AddResource(res)
	return res
}

// skip counts and logs a tolerated unresolved reference.
func (a *Assembler) skip(kind, reason string, args ...any) {
	a.stats.RecordSkip(kind, reason)
	a.logger.Debug("skipping unresolved reference", append([]any{"kind", kind, "reason", reason}, args...)...)
}
