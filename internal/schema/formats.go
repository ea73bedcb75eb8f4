package schema

// Table-type codes carried in record headers.
const (
	CodeProjectSummary        = 1
	CodeCalendar              = 3
	CodeExceptionType         = 5
	CodeExceptionAssignment   = 6
	CodeTimeEntry             = 8
	CodeWorkPattern           = 9
	CodeWorkPatternAssignment = 10
	CodePermanentResource     = 12
	CodeConsumableResource    = 13
	CodeBar                   = 20
	CodeExpandedTask          = 21
	CodeTask                  = 22
	CodeMilestone             = 23
	CodeLink                  = 25
	CodeTaskCompletedSection  = 26
	CodeAllocation            = 30
)

var defaultRegistry = NewRegistry(
	legacyFormat(8020),
	legacyFormat(9006),
	legacyFormat(10008),
	currentFormat(11004, false),
	currentFormat(12002, false),
	currentFormat(13004, true),
)

// DefaultRegistry returns the registry of all supported file format versions.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func table(name string, code int, idColumn string, columns ...ColumnDefinition) *TableDefinition {
	return &TableDefinition{Name: name, Code: code, IDColumn: idColumn, Columns: columns}
}

func col(name string, t ColumnType) ColumnDefinition {
	return ColumnDefinition{Name: name, Type: t}
}

// legacyFormat is the layout used up to version 10: literal dates, no
// resource contact details or notes.
func legacyFormat(version int) *Format {
	return NewFormat(version, false, append(commonTables(),
		table(TableProjectSummary, CodeProjectSummary, ColProjectSummaryID,
			col(ColShortName, Varchar),
			col(ColProjectBy, Varchar),
			col(ColStart, Timestamp),
			col(ColFinish, Timestamp),
			col(ColDurationHours, Varchar),
			col(ColLastEdited, Timestamp),
		),
		table(TablePermanentResource, CodePermanentResource, ColPermanentResourceID,
			col(ColName, Varchar),
			col(ColCreatedAsGroup, Bit),
			col(ColAvailability, Double),
			col(ColCalendar, Integer),
			col(ColCostPerUse, Double),
			col(ColStandardRate, Double),
		),
		table(TableTask, CodeTask, ColTaskID,
			col(ColBar, Integer),
			col(ColNaturalOrder, Integer),
			col(ColName, Varchar),
			col(ColStart, Timestamp),
			col(ColFinish, Timestamp),
			col(ColDurationHours, Varchar),
			col(ColPercentDone, Double),
			col(ColCalendar, Integer),
		),
	)...)
}

// currentFormat is the layout from version 11 onwards. The timestamp scheme
// changed independently of the column layout, so it is passed in.
func currentFormat(version int, epochDates bool) *Format {
	return NewFormat(version, epochDates, append(commonTables(),
		table(TableProjectSummary, CodeProjectSummary, ColProjectSummaryID,
			col(ColShortName, Varchar),
			col(ColProjectBy, Varchar),
			col(ColStart, Timestamp),
			col(ColFinish, Timestamp),
			col(ColDurationHours, Varchar),
			col(ColLastEdited, Timestamp),
			col(ColNotes, LongVarchar),
		),
		table(TablePermanentResource, CodePermanentResource, ColPermanentResourceID,
			col(ColName, Varchar),
			col(ColCreatedAsGroup, Bit),
			col(ColAvailability, Double),
			col(ColCalendar, Integer),
			col(ColCostPerUse, Double),
			col(ColStandardRate, Double),
			col(ColEmailAddress, Varchar),
		),
		table(TableTask, CodeTask, ColTaskID,
			col(ColBar, Integer),
			col(ColNaturalOrder, Integer),
			col(ColName, Varchar),
			col(ColStart, Timestamp),
			col(ColFinish, Timestamp),
			col(ColDurationHours, Varchar),
			col(ColPercentDone, Double),
			col(ColCalendar, Integer),
			col(ColNotes, LongVarchar),
		),
	)...)
}

// commonTables returns the tables whose layout is identical in every version.
func commonTables() []*TableDefinition {
	return []*TableDefinition{
		table(TableCalendar, CodeCalendar, ColCalendarID,
			col(ColName, Varchar),
			col(ColDominantWorkPattern, Integer),
		),
		table(TableExceptionType, CodeExceptionType, ColExceptionTypeID,
			col(ColName, Varchar),
			col(ColUniqueBitField, Integer),
		),
		table(TableExceptionAssignment, CodeExceptionAssignment, ColExceptionAssignmentID,
			col(ColCalendar, Integer),
			col(ColExceptionType, Integer),
			col(ColStartDate, Timestamp),
			col(ColEndDate, Timestamp),
		),
		table(TableTimeEntry, CodeTimeEntry, ColTimeEntryID,
			col(ColWorkPattern, Integer),
			col(ColStartTime, Time),
			col(ColEndTime, Time),
			col(ColExceptionType, Integer),
		),
		table(TableWorkPattern, CodeWorkPattern, ColWorkPatternID,
			col(ColName, Varchar),
		),
		table(TableWorkPatternAssignment, CodeWorkPatternAssignment, ColWorkPatternAssignmentID,
			col(ColCalendar, Integer),
			col(ColWorkPattern, Integer),
			col(ColStartDate, Timestamp),
			col(ColEndDate, Timestamp),
		),
		table(TableConsumableResource, CodeConsumableResource, ColConsumableResourceID,
			col(ColName, Varchar),
			col(ColAvailability, Double),
			col(ColCalendar, Integer),
			col(ColCostPerUse, Double),
			col(ColStandardRate, Double),
		),
		table(TableBar, CodeBar, ColBarID,
			col(ColExpandedTask, Integer),
			col(ColNaturalOrder, Integer),
			col(ColName, Varchar),
			col(ColStart, Timestamp),
			col(ColFinish, Timestamp),
		),
		table(TableExpandedTask, CodeExpandedTask, ColExpandedTaskID,
			col(ColBar, Integer),
			col(ColShortName, Varchar),
			col(ColNotes, LongVarchar),
		),
		table(TableMilestone, CodeMilestone, ColMilestoneID,
			col(ColBar, Integer),
			col(ColNaturalOrder, Integer),
			col(ColName, Varchar),
			col(ColDate, Timestamp),
			col(ColCalendar, Integer),
		),
		table(TableLink, CodeLink, ColLinkID,
			col(ColStartTask, Integer),
			col(ColEndTask, Integer),
			col(ColLinkType, Integer),
			col(ColStartLagHours, Varchar),
			col(ColEndLagHours, Varchar),
		),
		table(TableTaskCompletedSection, CodeTaskCompletedSection, ColCompletedSectionID,
			col(ColTask, Integer),
		),
		table(TableAllocation, CodeAllocation, ColAllocationID,
			col(ColAllocatedTo, Integer),
			col(ColPlayer, Integer),
			col(ColStart, Timestamp),
			col(ColFinish, Timestamp),
			col(ColUnits, Double),
			col(ColDelayHours, Varchar),
			col(ColEffortHours, Varchar),
			col(ColPercentDone, Double),
		),
	}
}
