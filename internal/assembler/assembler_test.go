package assembler

import (
	"context"
	"errors"
	"testing"
	"time"

	readerrors "github.com/arkilian/schedread/internal/errors"
	"github.com/arkilian/schedread/internal/observability"
	"github.com/arkilian/schedread/internal/row"
	"github.com/arkilian/schedread/pkg/types"
)

type memorySource struct {
	tables map[string][]row.Row
	fail   string
}

func (m *memorySource) Rows(_ context.Context, table string) ([]row.Row, error) {
	if table == m.fail {
		return nil, readerrors.NewSourceError(readerrors.CodeAccessFailed, "boom", nil)
	}
	return m.tables[table], nil
}

func (m *memorySource) add(table string, values map[string]any) {
	if m.tables == nil {
		m.tables = make(map[string][]row.Row)
	}
	m.tables[table] = append(m.tables[table], row.FromMap(table, values))
}

func sampleSource() *memorySource {
	start := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	finish := time.Date(2024, 3, 29, 17, 0, 0, 0, time.UTC)

	m := &memorySource{}
	m.add("PROJECT_SUMMARY", map[string]any{
		"PROJECT_SUMMARYID": 1, "SHORT_NAME": "Depot", "PROJECT_BY": "J. Smith",
		"START": start, "FINISH": finish, "DURATIONHOURS": 160.0,
	})

	m.add("CALENDAR", map[string]any{"CALENDARID": 1, "NAME": "Standard", "DOMINANT_WORK_PATTERN": 10})
	m.add("CALENDAR", map[string]any{"CALENDARID": 7, "NAME": "Night", "DOMINANT_WORK_PATTERN": 10})
	m.add("WORK_PATTERN", map[string]any{"WORK_PATTERNID": 10, "NAME": "Five day"})
	m.add("EXCEPTIONN", map[string]any{"EXCEPTIONNID": 1, "UNIQUE_BIT_FIELD": 8})

	m.add("PERMANENT_RESOURCE", map[string]any{
		"PERMANENT_RESOURCEID": 50, "NAME": "Site Crew", "CALENDAR": 1,
		"AVAILABILITY": 2.0, "COST_PER_USE": 1500.0, "STANDARD_RATE": 4250.0,
		"CREATED_AS_FOLDER": 1, "EMAIL_ADDRESS": "crew@example.com",
	})
	m.add("CONSUMABLE_RESOURCE", map[string]any{"CONSUMABLE_RESOURCEID": 60, "NAME": "Concrete"})

	m.add("BAR", map[string]any{"BARID": 100, "NATURAL_ORDER": 1, "NAME": "Groundworks"})
	m.add("BAR", map[string]any{"BARID": 101, "NATURAL_ORDER": 2, "NAME": "Frame"})
	m.add("TASK", map[string]any{"TASKID": 1, "BAR": 100, "NATURAL_ORDER": 1, "NAME": "Excavate",
		"DURATIONHOURS": 16.0, "PERCENT_COMPLETE": 0.5, "CALENDAR": 1})
	m.add("TASK", map[string]any{"TASKID": 2, "BAR": 100, "NATURAL_ORDER": 2, "NAME": "Pour",
		"DURATIONHOURS": 8.0, "CALENDAR": 1})
	m.add("TASK", map[string]any{"TASKID": 3, "BAR": 101, "NATURAL_ORDER": 1, "NAME": "Erect",
		"DURATIONHOURS": 24.0, "CALENDAR": 7})
	m.add("MILESTONE", map[string]any{"MILESTONEID": 4, "BAR": 101, "NATURAL_ORDER": 2, "NAME": "Topped out",
		"GIVEN_DATE_TIME": finish, "CALENDAR": 1})

	m.add("TASK_COMPLETED_SECTION", map[string]any{"TASK_COMPLETED_SECTIONID": 900, "TASK": 2})
	m.add("LINK", map[string]any{"LINKID": 1, "START_TASK": 1, "END_TASK": 900, "TYPI": 0,
		"START_LAG_TIMEHOURS": 4.0, "END_LAG_TIMEHOURS": 1.0})
	m.add("LINK", map[string]any{"LINKID": 2, "START_TASK": 2, "END_TASK": 3, "TYPI": 9})
	m.add("LINK", map[string]any{"LINKID": 3, "START_TASK": 2, "END_TASK": 999, "TYPI": 1})

	m.add("PERMANENT_SCHEDUL_ALLOCATION", map[string]any{
		"PERMANENT_SCHEDUL_ALLOCATIONID": 70, "ALLOCATEE_TO": 1, "PLAYER": 50,
		"EFFORT_TIMEHOURS": 10.0, "PERCENT_COMPLETE": 0.25, "GIVEN_ALLOCATION": 1.0,
	})
	m.add("PERMANENT_SCHEDUL_ALLOCATION", map[string]any{
		"PERMANENT_SCHEDUL_ALLOCATIONID": 71, "ALLOCATEE_TO": 1, "PLAYER": 404,
	})
	return m
}

func TestAssemble(t *testing.T) {
	stats := observability.NewReadStats()
	s, err := New(WithStats(stats)).Assemble(context.Background(), sampleSource())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if s.Properties.Name != "Depot" || s.Properties.Author != "J. Smith" || s.Properties.Duration != 160*time.Hour {
		t.Errorf("properties = %+v", s.Properties)
	}

	// Two base calendars plus the crew's derived calendar, numbered above
	// every id read from the source.
	if len(s.Calendars) != 3 {
		t.Fatalf("expected 3 calendars, got %d", len(s.Calendars))
	}
	crew := s.Resource(50)
	if crew == nil || crew.Calendar == nil {
		t.Fatal("crew should have a derived calendar")
	}
	if crew.Calendar.UniqueID != 8 || crew.Calendar.Parent != s.Calendar(1) {
		t.Errorf("derived calendar id=%d parent=%v, want id 8 on Standard", crew.Calendar.UniqueID, crew.Calendar.Parent)
	}
	if crew.Type != types.Work || !crew.Generic || crew.MaxUnits != 200 || crew.CostPerUse != 15 || crew.StandardRate != 42.5 {
		t.Errorf("crew = %+v", crew)
	}
	if crew.Initials != "SC" || crew.EmailAddress != "crew@example.com" {
		t.Errorf("crew initials=%q email=%q", crew.Initials, crew.EmailAddress)
	}
	if concrete := s.Resource(60); concrete == nil || concrete.Type != types.Material || concrete.Calendar != nil {
		t.Errorf("concrete = %+v", concrete)
	}

	if len(s.Tasks) != 2 {
		t.Fatalf("expected 2 root tasks, got %d", len(s.Tasks))
	}
	all := s.AllTasks()
	if len(all) != 6 {
		t.Fatalf("expected 6 tasks, got %d", len(all))
	}
	for i, task := range all {
		if task.ID != i+1 {
			t.Errorf("task %q id = %d, want %d", task.Name, task.ID, i+1)
		}
	}

	excavate := s.Task(1)
	if excavate.OutlineLevel != 2 || excavate.PercentComplete != 50 || excavate.Duration != 16*time.Hour {
		t.Errorf("excavate = %+v", excavate)
	}
	if topped := s.Task(4); !topped.Milestone || topped.Duration != 0 {
		t.Errorf("milestone = %+v", topped)
	}
	if !s.Task(100).Summary {
		t.Error("bars should be summary tasks")
	}

	if s.DefaultCalendar != s.Calendar(1) {
		t.Errorf("default calendar = %v, want Standard", s.DefaultCalendar)
	}
	if excavate.Calendar != nil || s.Task(4).Calendar != nil {
		t.Error("tasks on the default calendar should have it cleared")
	}
	if s.Task(3).Calendar != s.Calendar(7) {
		t.Error("tasks on other calendars keep them")
	}

	if len(s.Relations) != 2 {
		t.Fatalf("expected 2 relations, got %d", len(s.Relations))
	}
	first := s.Relations[0]
	if first.Predecessor != excavate || first.Successor != s.Task(2) || first.Lag != 3*time.Hour || first.Type != types.FinishStart {
		t.Errorf("first relation = %+v", first)
	}
	if s.Relations[1].Type != types.FinishStart {
		t.Errorf("out of range type should be FS, got %s", s.Relations[1].Type)
	}

	if len(s.Assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(s.Assignments))
	}
	as := s.Assignments[0]
	if as.Work != 10*time.Hour || as.ActualWork != 150*time.Minute || as.RemainingWork != 450*time.Minute || as.Units != 100 {
		t.Errorf("assignment = %+v", as)
	}

	if stats.Skipped("link") != 1 || stats.Skipped("assignment") != 1 {
		t.Errorf("skips link=%d assignment=%d", stats.Skipped("link"), stats.Skipped("assignment"))
	}
}

func TestAssemble_SourceErrorAborts(t *testing.T) {
	src := sampleSource()
	src.fail = "LINK"

	s, err := New().Assemble(context.Background(), src)
	if s != nil {
		t.Error("no schedule should be returned on failure")
	}
	if readerrors.GetCategory(err) != readerrors.ErrCategorySource {
		t.Errorf("expected SOURCE error, got %v", err)
	}
}

func TestAssemble_MalformedDurationAborts(t *testing.T) {
	src := sampleSource()
	text := &row.TextRow{MapRow: row.NewMapRow("LINK")}
	text.Set("LINKID", 5)
	text.Set("START_TASK", 1)
	text.Set("END_TASK", 2)
	text.Set("START_LAG_TIMEHOURS", "not,a,number")
	src.tables["LINK"] = []row.Row{text}

	_, err := New().Assemble(context.Background(), src)
	var re *readerrors.ReadError
	if !errors.As(err, &re) || re.Code != readerrors.CodeFieldDecode {
		t.Errorf("expected FIELD_DECODE, got %v", err)
	}
}

func TestAssemble_EmptySourceKeepsDefaults(t *testing.T) {
	s, err := New().Assemble(context.Background(), &memorySource{})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if s.Properties.Name != "" || len(s.Tasks) != 0 || s.DefaultCalendar != nil {
		t.Errorf("expected empty schedule, got %+v", s.Properties)
	}
}

func TestAssemble_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Assemble(ctx, sampleSource()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
