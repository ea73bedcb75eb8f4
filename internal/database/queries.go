package database

import "github.com/arkilian/schedread/internal/schema"

// query is the fixed projection used to fetch one logical table. Columns are
// aliased to the names the text format uses so both sources produce
// identical rows.
type query struct {
	sql string

	// scoped queries take the project id as their only argument.
	scoped bool
}

var queries = map[string]query{
	schema.TableProjectSummary: {scoped: true, sql: `
		SELECT PROJID AS PROJECT_SUMMARYID, SHORT_NAME, PROJECT_BY, START, FINISH,
		       DURATIONHOURS, LAST_EDITED_DATE, NOTES
		FROM PROJECT_SUMMARY WHERE PROJID = ?`},

	schema.TableCalendar: {scoped: true, sql: `
		SELECT ID AS CALENDARID, NAME, DOMINANT_WORK_PATTERN
		FROM CALENDAR WHERE PROJID = ? ORDER BY ID`},

	schema.TableExceptionType: {sql: `
		SELECT ID AS EXCEPTIONNID, NAME, UNIQUE_BIT_FIELD
		FROM EXCEPTIONN ORDER BY ID`},

	schema.TableExceptionAssignment: {scoped: true, sql: `
		SELECT ID AS EXCEPTION_ASSIGNMENTID, CALENDAR, EXCEPTIONN, START_DATE, END_DATE
		FROM EXCEPTION_ASSIGNMENT WHERE PROJID = ? ORDER BY ID`},

	schema.TableTimeEntry: {scoped: true, sql: `
		SELECT ID AS TIME_ENTRYID, WORK_PATTERN, START_TIME, END_TIME, EXCEPTIONN
		FROM TIME_ENTRY WHERE PROJID = ? ORDER BY WORK_PATTERN, ID`},

	schema.TableWorkPattern: {scoped: true, sql: `
		SELECT ID AS WORK_PATTERNID, NAME
		FROM WORK_PATTERN WHERE PROJID = ? ORDER BY ID`},

	schema.TableWorkPatternAssignment: {scoped: true, sql: `
		SELECT ID AS WORK_PATTERN_ASSIGNMENTID, CALENDAR, WORK_PATTERN, START_DATE, END_DATE
		FROM WORK_PATTERN_ASSIGNMENT WHERE PROJID = ? ORDER BY ID`},

	schema.TablePermanentResource: {scoped: true, sql: `
		SELECT ID AS PERMANENT_RESOURCEID, NAME, CREATED_AS_FOLDER, AVAILABILITY, CALENDAR,
		       COST_PER_USE, STANDARD_RATE, EMAIL_ADDRESS
		FROM PERMANENT_RESOURCE WHERE PROJID = ? ORDER BY ID`},

	schema.TableConsumableResource: {scoped: true, sql: `
		SELECT ID AS CONSUMABLE_RESOURCEID, NAME, AVAILABILITY, CALENDAR,
		       COST_PER_USE, STANDARD_RATE
		FROM CONSUMABLE_RESOURCE WHERE PROJID = ? ORDER BY ID`},

	schema.TableBar: {scoped: true, sql: `
		SELECT ID AS BARID, EXPANDED_TASK, NATURAL_ORDER, NAME, START, FINISH
		FROM BAR WHERE PROJID = ? ORDER BY ID`},

	schema.TableExpandedTask: {scoped: true, sql: `
		SELECT ID AS EXPANDED_TASKID, BAR, SHORT_NAME, NOTES
		FROM EXPANDED_TASK WHERE PROJID = ? ORDER BY ID`},

	schema.TableTask: {scoped: true, sql: `
		SELECT ID AS TASKID, BAR, NATURAL_ORDER, NAME, START, FINISH,
		       DURATIONHOURS, PERCENT_COMPLETE, CALENDAR, NOTES
		FROM TASK WHERE PROJID = ? ORDER BY ID`},

	schema.TableMilestone: {scoped: true, sql: `
		SELECT ID AS MILESTONEID, BAR, NATURAL_ORDER, NAME, GIVEN_DATE_TIME, CALENDAR
		FROM MILESTONE WHERE PROJID = ? ORDER BY ID`},

	schema.TableLink: {scoped: true, sql: `
		SELECT ID AS LINKID, START_TASK, END_TASK, TYPI, START_LAG_TIMEHOURS, END_LAG_TIMEHOURS
		FROM LINK WHERE PROJID = ? ORDER BY ID`},

	schema.TableTaskCompletedSection: {scoped: true, sql: `
		SELECT ID AS TASK_COMPLETED_SECTIONID, TASK
		FROM TASK_COMPLETED_SECTION WHERE PROJID = ? ORDER BY ID`},

	schema.TableAllocation: {scoped: true, sql: `
		SELECT a.ID AS PERMANENT_SCHEDUL_ALLOCATIONID, a.ALLOCATEE_TO, s.PLAYER,
		       a.START, a.FINISH, a.GIVEN_ALLOCATION, a.DELAAHOURS, a.EFFORT_TIMEHOURS,
		       a.PERCENT_COMPLETE
		FROM PERMANENT_SCHEDUL_ALLOCATION a
		INNER JOIN RESOURCE_SKILL s ON a.ALLOCATIOP_OF = s.ID
		WHERE a.PROJID = ? ORDER BY a.ID`},
}

const listProjectsSQL = `SELECT PROJID, SHORT_NAME FROM PROJECT_SUMMARY ORDER BY PROJID`

// Timestamp and time-of-day columns. SQLite has no native date type, so
// values stored as text are parsed by name.
var (
	timestampColumns = map[string]bool{
		schema.ColStart:      true,
		schema.ColFinish:     true,
		schema.ColStartDate:  true,
		schema.ColEndDate:    true,
		schema.ColLastEdited: true,
		schema.ColDate:       true,
	}
	timeColumns = map[string]bool{
		schema.ColStartTime: true,
		schema.ColEndTime:   true,
	}
)
