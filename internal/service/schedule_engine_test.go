package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyapps/poly-schedule-api/internal/models"
)

func timedSection(classNbr int, subject, catalog, component, days string, startMin, endMin int, rating *float64) models.SectionCandidate {
	return models.SectionCandidate{
		Subject:       subject,
		CatalogNumber: catalog,
		ClassSection:  "01",
		Component:     component,
		ClassNbr:      classNbr,
		MeetingDays:   days,
		StartMinute:   &startMin,
		EndMinute:     &endMin,
		Rating:        rating,
	}
}

func floatingSection(classNbr int, subject, catalog, component string, rating *float64) models.SectionCandidate {
	return models.SectionCandidate{
		Subject:       subject,
		CatalogNumber: catalog,
		ClassSection:  "01",
		Component:     component,
		ClassNbr:      classNbr,
		Rating:        rating,
	}
}

func ratingOf(v float64) *float64 { return &v }

func classNbrs(schedule models.GeneratedSchedule) []int {
	nbrs := make([]int, 0, len(schedule.Sections))
	for _, s := range schedule.Sections {
		nbrs = append(nbrs, s.ClassNbr)
	}
	return nbrs
}

// --- Conflict predicate ---

func TestSectionsConflictSharedDayOverlap(t *testing.T) {
	a := timedSection(1, "CSC", "101", "LEC", "MWF", 9*60, 10*60, nil)
	b := timedSection(2, "MATH", "141", "LEC", "WF", 9*60+30, 10*60+30, nil)

	assert.True(t, sectionsConflict(a, b))
	assert.True(t, sectionsConflict(b, a), "predicate must be symmetric")
}

func TestSectionsConflictDisjointDays(t *testing.T) {
	a := timedSection(1, "CSC", "101", "LEC", "MWF", 9*60, 10*60, nil)
	b := timedSection(2, "MATH", "141", "LEC", "TR", 9*60, 10*60, nil)

	assert.False(t, sectionsConflict(a, b))
}

func TestSectionsConflictBackToBack(t *testing.T) {
	// Half-open intervals: ending at 10:00 and starting at 10:00 is fine.
	a := timedSection(1, "CSC", "101", "LEC", "MWF", 9*60, 10*60, nil)
	b := timedSection(2, "MATH", "141", "LEC", "MWF", 10*60, 11*60, nil)

	assert.False(t, sectionsConflict(a, b))
	assert.False(t, sectionsConflict(b, a))
}

func TestSectionsConflictFloatingNeverConflicts(t *testing.T) {
	a := floatingSection(1, "CSC", "400", "IND", nil)
	b := timedSection(2, "MATH", "141", "LEC", "MTWRF", 0, 24*60, nil)

	assert.False(t, sectionsConflict(a, b))
	assert.False(t, sectionsConflict(b, a))
	assert.False(t, sectionsConflict(a, a))
}

// --- Group partitioner ---

func TestPartitionCandidatesFirstSeenOrder(t *testing.T) {
	pool := []models.SectionCandidate{
		timedSection(1, "CSC", "101", "LEC", "MWF", 9*60, 10*60, nil),
		timedSection(2, "MATH", "141", "LEC", "TR", 9*60, 10*60, nil),
		timedSection(3, "CSC", "101", "LEC", "MWF", 11*60, 12*60, nil),
		timedSection(4, "CSC", "101", "LAB", "T", 13*60, 15*60, nil),
	}

	lockedPicks, groups := partitionCandidates(pool, nil, nil)
	require.Empty(t, lockedPicks)
	require.Len(t, groups, 3)
	assert.Equal(t, models.CourseKey{Subject: "CSC", CatalogNumber: "101", Component: "LEC"}, groups[0].Key)
	assert.Equal(t, models.CourseKey{Subject: "MATH", CatalogNumber: "141", Component: "LEC"}, groups[1].Key)
	assert.Equal(t, models.CourseKey{Subject: "CSC", CatalogNumber: "101", Component: "LAB"}, groups[2].Key)
	assert.Len(t, groups[0].Sections, 2)
}

func TestPartitionCandidatesLockSatisfiesComponent(t *testing.T) {
	pool := []models.SectionCandidate{
		timedSection(1, "CSC", "101", "LEC", "MWF", 9*60, 10*60, nil),
		timedSection(2, "CSC", "101", "LEC", "MWF", 11*60, 12*60, nil),
		timedSection(3, "MATH", "141", "LEC", "TR", 9*60, 10*60, nil),
	}

	lockedPicks, groups := partitionCandidates(pool, map[int]bool{1: true}, nil)
	require.Len(t, lockedPicks, 1)
	assert.Equal(t, 1, lockedPicks[0].ClassNbr)

	// Section 2 shares the locked key and must never be offered as an
	// alternative, even though it is itself unlocked.
	require.Len(t, groups, 1)
	assert.Equal(t, "MATH", groups[0].Key.Subject)
}

func TestPartitionCandidatesRequiredKeyWithoutCandidates(t *testing.T) {
	pool := []models.SectionCandidate{
		timedSection(1, "CSC", "101", "LEC", "MWF", 9*60, 10*60, nil),
	}
	required := []models.CourseKey{
		{Subject: "CSC", CatalogNumber: "101", Component: "LEC"},
		{Subject: "PHYS", CatalogNumber: "211", Component: "LEC"},
	}

	_, groups := partitionCandidates(pool, nil, required)
	require.Len(t, groups, 2)
	assert.Empty(t, groups[1].Sections)
}

// --- Engine scenarios ---

func TestEngineTwoByOneCombinations(t *testing.T) {
	pool := []models.SectionCandidate{
		timedSection(101, "CSC", "101", "LEC", "MWF", 9*60, 10*60, nil),
		timedSection(102, "CSC", "101", "LEC", "MWF", 11*60, 12*60, nil),
		timedSection(201, "MATH", "141", "LEC", "TR", 9*60, 10*60, nil),
	}

	result := runScheduleEngine(pool, nil, nil, engineOptions{})
	require.Len(t, result.Schedules, 2)
	assert.Equal(t, []int{101, 201}, classNbrs(result.Schedules[0]))
	assert.Equal(t, []int{102, 201}, classNbrs(result.Schedules[1]))
	assert.False(t, result.Truncated)
}

func TestEngineLockForcesSection(t *testing.T) {
	pool := []models.SectionCandidate{
		timedSection(101, "CSC", "101", "LEC", "MWF", 9*60, 10*60, nil),
		timedSection(102, "CSC", "101", "LEC", "MWF", 11*60, 12*60, nil),
		timedSection(201, "MATH", "141", "LEC", "TR", 9*60, 10*60, nil),
	}

	result := runScheduleEngine(pool, []int{101}, nil, engineOptions{})
	require.Len(t, result.Schedules, 1)
	assert.Equal(t, []int{101, 201}, classNbrs(result.Schedules[0]))
}

func TestEngineFullyConflictingPool(t *testing.T) {
	pool := []models.SectionCandidate{
		timedSection(101, "CSC", "101", "LEC", "MWF", 9*60, 10*60, nil),
		timedSection(201, "MATH", "141", "LEC", "MWF", 9*60+30, 10*60+30, nil),
	}

	result := runScheduleEngine(pool, nil, nil, engineOptions{})
	assert.Empty(t, result.Schedules)
	assert.Equal(t, 0, result.RawCount)
}

func TestEngineEmptyInput(t *testing.T) {
	result := runScheduleEngine(nil, nil, nil, engineOptions{})
	assert.Empty(t, result.Schedules)
}

func TestEngineRequiredComponentWithoutSectionsYieldsNothing(t *testing.T) {
	pool := []models.SectionCandidate{
		timedSection(101, "CSC", "101", "LEC", "MWF", 9*60, 10*60, nil),
		timedSection(201, "MATH", "141", "LEC", "TR", 9*60, 10*60, nil),
	}
	required := []models.CourseKey{
		{Subject: "CSC", CatalogNumber: "101", Component: "LEC"},
		{Subject: "MATH", CatalogNumber: "141", Component: "LEC"},
		{Subject: "PHYS", CatalogNumber: "211", Component: "LEC"},
	}

	result := runScheduleEngine(pool, nil, required, engineOptions{})
	assert.Empty(t, result.Schedules, "a required component with no eligible sections blocks every combination")
}

func TestEngineLockedEverythingNoGroups(t *testing.T) {
	pool := []models.SectionCandidate{
		timedSection(101, "CSC", "101", "LEC", "MWF", 9*60, 10*60, nil),
		timedSection(201, "MATH", "141", "LEC", "TR", 9*60, 10*60, nil),
	}

	result := runScheduleEngine(pool, []int{101, 201}, nil, engineOptions{})
	require.Len(t, result.Schedules, 1)
	assert.Equal(t, []int{101, 201}, classNbrs(result.Schedules[0]))
}

func TestEngineNoConflictAndCoverageInvariants(t *testing.T) {
	pool := []models.SectionCandidate{
		timedSection(101, "CSC", "101", "LEC", "MWF", 8*60, 9*60, ratingOf(3.2)),
		timedSection(102, "CSC", "101", "LEC", "MWF", 10*60, 11*60, ratingOf(3.9)),
		timedSection(201, "MATH", "141", "LEC", "TR", 8*60, 9*60, nil),
		timedSection(202, "MATH", "141", "LEC", "MWF", 8*60+30, 9*60+30, ratingOf(2.5)),
		timedSection(301, "PHYS", "211", "LAB", "T", 13*60, 16*60, nil),
	}

	result := runScheduleEngine(pool, nil, nil, engineOptions{})
	require.NotEmpty(t, result.Schedules)
	for _, schedule := range result.Schedules {
		seen := make(map[models.CourseKey]int)
		for i, a := range schedule.Sections {
			seen[a.Key()]++
			for _, b := range schedule.Sections[i+1:] {
				assert.False(t, sectionsConflict(a, b), "schedule contains a conflicting pair")
			}
		}
		for key, count := range seen {
			assert.Equal(t, 1, count, "key %v appears more than once", key)
		}
		assert.Len(t, seen, 3)
		assert.GreaterOrEqual(t, schedule.TotalGapMinutes, 0)
		assert.GreaterOrEqual(t, schedule.DaysOnCampus, 0)
		assert.LessOrEqual(t, schedule.DaysOnCampus, 5)
	}
}

func TestEngineDeterminism(t *testing.T) {
	pool := []models.SectionCandidate{
		timedSection(101, "CSC", "101", "LEC", "MWF", 8*60, 9*60, ratingOf(3.2)),
		timedSection(102, "CSC", "101", "LEC", "MWF", 10*60, 11*60, ratingOf(3.2)),
		timedSection(201, "MATH", "141", "LEC", "TR", 8*60, 9*60, nil),
		timedSection(202, "MATH", "141", "LEC", "TR", 10*60, 11*60, nil),
	}

	first := runScheduleEngine(pool, nil, nil, engineOptions{})
	second := runScheduleEngine(pool, nil, nil, engineOptions{})
	require.Equal(t, len(first.Schedules), len(second.Schedules))
	for i := range first.Schedules {
		assert.Equal(t, classNbrs(first.Schedules[i]), classNbrs(second.Schedules[i]))
	}
}

func TestEngineRawLimitCapturesEnumerationPrefix(t *testing.T) {
	// Three groups of three floating sections each: 27 valid combinations.
	var pool []models.SectionCandidate
	subjects := []string{"CSC", "MATH", "PHYS"}
	for gi, subject := range subjects {
		for si := 0; si < 3; si++ {
			pool = append(pool, floatingSection(100*(gi+1)+si, subject, "101", "LEC", nil))
		}
	}

	result := runScheduleEngine(pool, nil, nil, engineOptions{RawLimit: 4, DisplayLimit: 4})
	require.Len(t, result.Schedules, 4)
	assert.Equal(t, 4, result.RawCount)

	// With equal (null) ratings the stable primary sort keeps enumeration
	// order, so the captured prefix is exactly the first four combinations.
	assert.Equal(t, []int{100, 200, 300}, classNbrs(result.Schedules[0]))
	assert.Equal(t, []int{100, 200, 301}, classNbrs(result.Schedules[1]))
	assert.Equal(t, []int{100, 200, 302}, classNbrs(result.Schedules[2]))
	assert.Equal(t, []int{100, 201, 300}, classNbrs(result.Schedules[3]))
}

func TestEngineDisplayLimitTruncates(t *testing.T) {
	var pool []models.SectionCandidate
	for si := 0; si < 20; si++ {
		pool = append(pool, floatingSection(100+si, "CSC", "101", "LEC", nil))
	}

	result := runScheduleEngine(pool, nil, nil, engineOptions{})
	assert.Len(t, result.Schedules, defaultDisplayLimit)
	assert.Equal(t, 20, result.RawCount)
}

func TestEngineFewResultsNotPadded(t *testing.T) {
	pool := []models.SectionCandidate{
		timedSection(101, "CSC", "101", "LEC", "MWF", 9*60, 10*60, nil),
		timedSection(102, "CSC", "101", "LEC", "MWF", 11*60, 12*60, nil),
	}

	result := runScheduleEngine(pool, nil, nil, engineOptions{})
	assert.Len(t, result.Schedules, 2)
}

func TestEngineNodeBudgetTruncates(t *testing.T) {
	var pool []models.SectionCandidate
	subjects := []string{"CSC", "MATH", "PHYS", "CHEM"}
	for gi, subject := range subjects {
		for si := 0; si < 5; si++ {
			pool = append(pool, floatingSection(100*(gi+1)+si, subject, "101", "LEC", nil))
		}
	}

	bounded := runScheduleEngine(pool, nil, nil, engineOptions{NodeBudget: 10})
	assert.True(t, bounded.Truncated)
	assert.LessOrEqual(t, bounded.NodesVisited, 11)

	unbounded := runScheduleEngine(pool, nil, nil, engineOptions{})
	assert.False(t, unbounded.Truncated)
	assert.Equal(t, defaultRawLimit, unbounded.RawCount)
}

// --- Scorer ---

func TestScoreScheduleGapMinutes(t *testing.T) {
	schedule := scoreSchedule([]models.SectionCandidate{
		timedSection(1, "CSC", "101", "LEC", "M", 9*60, 10*60, nil),
		timedSection(2, "MATH", "141", "LEC", "M", 11*60, 12*60, nil),
	})

	assert.Equal(t, 60, schedule.TotalGapMinutes)
	assert.Equal(t, 1, schedule.DaysOnCampus)
	assert.Equal(t, "09:00:00", schedule.EarliestStart)
	assert.Equal(t, "12:00:00", schedule.LatestEnd)
}

func TestScoreScheduleRatingIgnoresNulls(t *testing.T) {
	schedule := scoreSchedule([]models.SectionCandidate{
		timedSection(1, "CSC", "101", "LEC", "M", 9*60, 10*60, nil),
		timedSection(2, "MATH", "141", "LEC", "T", 9*60, 10*60, ratingOf(4.0)),
	})

	require.NotNil(t, schedule.AvgRating)
	assert.InDelta(t, 4.0, *schedule.AvgRating, 1e-9)
}

func TestScoreScheduleAllUnratedIsNull(t *testing.T) {
	schedule := scoreSchedule([]models.SectionCandidate{
		timedSection(1, "CSC", "101", "LEC", "M", 9*60, 10*60, nil),
	})

	assert.Nil(t, schedule.AvgRating)
}

func TestScoreScheduleFloatingContributesNothing(t *testing.T) {
	schedule := scoreSchedule([]models.SectionCandidate{
		timedSection(1, "CSC", "101", "LEC", "MW", 9*60, 10*60, nil),
		floatingSection(2, "CSC", "400", "IND", ratingOf(3.0)),
	})

	assert.Equal(t, 2, schedule.DaysOnCampus)
	assert.Equal(t, 0, schedule.TotalGapMinutes)
	assert.Len(t, schedule.Sections, 2)
}

func TestScoreScheduleDayUnion(t *testing.T) {
	schedule := scoreSchedule([]models.SectionCandidate{
		timedSection(1, "CSC", "101", "LEC", "MWF", 9*60, 10*60, nil),
		timedSection(2, "MATH", "141", "LEC", "WF", 11*60, 12*60, nil),
	})

	assert.Equal(t, 3, schedule.DaysOnCampus)
	// W and F each carry the 10:00-11:00 gap.
	assert.Equal(t, 120, schedule.TotalGapMinutes)
}

// --- Ranker ---

func rankedFixture() []models.GeneratedSchedule {
	return []models.GeneratedSchedule{
		{AvgRating: ratingOf(2.0), DaysOnCampus: 2, TotalGapMinutes: 30, EarliestStart: "08:00:00", LatestEnd: "12:00:00"},
		{AvgRating: nil, DaysOnCampus: 1, TotalGapMinutes: 0, EarliestStart: "", LatestEnd: ""},
		{AvgRating: ratingOf(3.8), DaysOnCampus: 4, TotalGapMinutes: 240, EarliestStart: "10:00:00", LatestEnd: "17:00:00"},
		{AvgRating: nil, DaysOnCampus: 3, TotalGapMinutes: 90, EarliestStart: "09:00:00", LatestEnd: "15:00:00"},
	}
}

func TestRankByRatingNullsLast(t *testing.T) {
	list := rankedFixture()
	rankByRating(list)

	require.NotNil(t, list[0].AvgRating)
	assert.InDelta(t, 3.8, *list[0].AvgRating, 1e-9)
	assert.InDelta(t, 2.0, *list[1].AvgRating, 1e-9)
	assert.Nil(t, list[2].AvgRating)
	assert.Nil(t, list[3].AvgRating)
	// Stable: the two unrated schedules keep their relative order.
	assert.Equal(t, 1, list[2].DaysOnCampus)
	assert.Equal(t, 3, list[3].DaysOnCampus)
}

func TestSortSchedulesCompact(t *testing.T) {
	list := rankedFixture()
	sortSchedules(list, models.SortByCompact)

	gaps := []int{list[0].TotalGapMinutes, list[1].TotalGapMinutes, list[2].TotalGapMinutes, list[3].TotalGapMinutes}
	assert.Equal(t, []int{0, 30, 90, 240}, gaps)
}

func TestSortSchedulesFewestDaysTieBreaksOnRating(t *testing.T) {
	list := []models.GeneratedSchedule{
		{AvgRating: nil, DaysOnCampus: 2},
		{AvgRating: ratingOf(3.0), DaysOnCampus: 2},
		{AvgRating: ratingOf(1.5), DaysOnCampus: 1},
	}
	sortSchedules(list, models.SortByFewestDays)

	assert.Equal(t, 1, list[0].DaysOnCampus)
	require.NotNil(t, list[1].AvgRating)
	assert.InDelta(t, 3.0, *list[1].AvgRating, 1e-9)
	assert.Nil(t, list[2].AvgRating)
}

func TestSortSchedulesEarliestStartEmptyFirst(t *testing.T) {
	list := rankedFixture()
	sortSchedules(list, models.SortByEarliestStart)

	assert.Equal(t, "", list[0].EarliestStart)
	assert.Equal(t, "08:00:00", list[1].EarliestStart)
	assert.Equal(t, "09:00:00", list[2].EarliestStart)
	assert.Equal(t, "10:00:00", list[3].EarliestStart)
}

func TestSortSchedulesLatestEndEmptyLast(t *testing.T) {
	list := rankedFixture()
	sortSchedules(list, models.SortByLatestEnd)

	assert.Equal(t, "17:00:00", list[0].LatestEnd)
	assert.Equal(t, "15:00:00", list[1].LatestEnd)
	assert.Equal(t, "12:00:00", list[2].LatestEnd)
	assert.Equal(t, "", list[3].LatestEnd)
}
