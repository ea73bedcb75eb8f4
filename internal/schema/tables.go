package schema

// Table names shared by the text and database row sources.
const (
	TableProjectSummary        = "PROJECT_SUMMARY"
	TableCalendar              = "CALENDAR"
	TableExceptionType         = "EXCEPTIONN"
	TableExceptionAssignment   = "EXCEPTION_ASSIGNMENT"
	TableTimeEntry             = "TIME_ENTRY"
	TableWorkPattern           = "WORK_PATTERN"
	TableWorkPatternAssignment = "WORK_PATTERN_ASSIGNMENT"
	TablePermanentResource     = "PERMANENT_RESOURCE"
	TableConsumableResource    = "CONSUMABLE_RESOURCE"
	TableBar                   = "BAR"
	TableExpandedTask          = "EXPANDED_TASK"
	TableTask                  = "TASK"
	TableMilestone             = "MILESTONE"
	TableLink                  = "LINK"
	TableTaskCompletedSection  = "TASK_COMPLETED_SECTION"
	TableAllocation            = "PERMANENT_SCHEDUL_ALLOCATION"
)

// Column names. Several tables reuse the generic names below; the id
// columns are table specific.
const (
	ColName           = "NAME"
	ColNotes          = "NOTES"
	ColStart          = "START"
	ColFinish         = "FINISH"
	ColStartDate      = "START_DATE"
	ColEndDate        = "END_DATE"
	ColCalendar       = "CALENDAR"
	ColBar            = "BAR"
	ColNaturalOrder   = "NATURAL_ORDER"
	ColDurationHours  = "DURATIONHOURS"
	ColPercentDone    = "PERCENT_COMPLETE"
	ColWorkPattern    = "WORK_PATTERN"
	ColExceptionType  = "EXCEPTIONN"
	ColAvailability   = "AVAILABILITY"
	ColCostPerUse     = "COST_PER_USE"
	ColStandardRate   = "STANDARD_RATE"
	ColEmailAddress   = "EMAIL_ADDRESS"
	ColCreatedAsGroup = "CREATED_AS_FOLDER"

	ColProjectSummaryID = "PROJECT_SUMMARYID"
	ColShortName        = "SHORT_NAME"
	ColProjectBy        = "PROJECT_BY"
	ColLastEdited       = "LAST_EDITED_DATE"

	ColCalendarID          = "CALENDARID"
	ColDominantWorkPattern = "DOMINANT_WORK_PATTERN"

	ColExceptionTypeID = "EXCEPTIONNID"
	ColUniqueBitField  = "UNIQUE_BIT_FIELD"

	ColExceptionAssignmentID = "EXCEPTION_ASSIGNMENTID"

	ColTimeEntryID = "TIME_ENTRYID"
	ColStartTime   = "START_TIME"
	ColEndTime     = "END_TIME"

	ColWorkPatternID           = "WORK_PATTERNID"
	ColWorkPatternAssignmentID = "WORK_PATTERN_ASSIGNMENTID"

	ColPermanentResourceID  = "PERMANENT_RESOURCEID"
	ColConsumableResourceID = "CONSUMABLE_RESOURCEID"

	ColBarID        = "BARID"
	ColExpandedTask = "EXPANDED_TASK"

	ColExpandedTaskID = "EXPANDED_TASKID"

	ColTaskID      = "TASKID"
	ColMilestoneID = "MILESTONEID"
	ColDate        = "GIVEN_DATE_TIME"

	ColLinkID        = "LINKID"
	ColStartTask     = "START_TASK"
	ColEndTask       = "END_TASK"
	ColLinkType      = "TYPI"
	ColStartLagHours = "START_LAG_TIMEHOURS"
	ColEndLagHours   = "END_LAG_TIMEHOURS"

	ColCompletedSectionID = "TASK_COMPLETED_SECTIONID"
	ColTask               = "TASK"

	ColAllocationID  = "PERMANENT_SCHEDUL_ALLOCATIONID"
	ColAllocatedTo   = "ALLOCATEE_TO"
	ColPlayer        = "PLAYER"
	ColUnits         = "GIVEN_ALLOCATION"
	ColDelayHours    = "DELAAHOURS"
	ColEffortHours   = "EFFORT_TIMEHOURS"
	ColProjectID     = "PROJID"
	ColResourceSkill = "ALLOCATIOP_OF"
)

// MergePrefix prefixes expanded-task columns merged into their owning bar.
const MergePrefix = "_"
