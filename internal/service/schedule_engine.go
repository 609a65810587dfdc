package service

import (
	"sort"
	"strings"

	"github.com/easyapps/poly-schedule-api/internal/models"
)

const (
	defaultRawLimit     = 100
	defaultDisplayLimit = 15
)

// engineOptions caps the search. A zero NodeBudget means unbounded effort:
// the search only stops once RawLimit complete combinations are found.
type engineOptions struct {
	RawLimit     int
	DisplayLimit int
	NodeBudget   int
}

// engineResult carries the ranked schedules plus search telemetry.
type engineResult struct {
	Schedules    []models.GeneratedSchedule
	RawCount     int
	NodesVisited int
	Truncated    bool
}

// runScheduleEngine enumerates conflict-free combinations over the
// pre-filtered candidate pool, scores each, ranks by rating, and truncates
// to the display limit. The pool must already be deduplicated to one row per
// class number; locked class numbers are forced into every result.
func runScheduleEngine(candidates []models.SectionCandidate, lockedClassNbrs []int, required []models.CourseKey, opts engineOptions) engineResult {
	if opts.RawLimit <= 0 {
		opts.RawLimit = defaultRawLimit
	}
	if opts.DisplayLimit <= 0 {
		opts.DisplayLimit = defaultDisplayLimit
	}
	if opts.DisplayLimit > opts.RawLimit {
		opts.DisplayLimit = opts.RawLimit
	}
	if len(candidates) == 0 {
		return engineResult{}
	}

	locked := make(map[int]bool, len(lockedClassNbrs))
	for _, nbr := range lockedClassNbrs {
		locked[nbr] = true
	}

	lockedPicks, groups := partitionCandidates(candidates, locked, required)
	search := newScheduleSearch(lockedPicks, groups, opts.RawLimit, opts.NodeBudget)
	search.run()

	scored := make([]models.GeneratedSchedule, 0, len(search.results))
	for _, combo := range search.results {
		scored = append(scored, scoreSchedule(combo))
	}
	rankByRating(scored)

	result := engineResult{
		RawCount:     len(scored),
		NodesVisited: search.visited,
		Truncated:    search.truncated,
	}
	if len(scored) > opts.DisplayLimit {
		scored = scored[:opts.DisplayLimit]
	}
	result.Schedules = scored
	return result
}

// --- Conflict predicate ---

// sectionsConflict reports whether two sections overlap on a shared day.
// Sections without a complete meeting pattern float outside the calendar and
// never conflict. Intervals are half-open, so back-to-back sections
// (one ends 10:00, the next starts 10:00) do not collide.
func sectionsConflict(a, b models.SectionCandidate) bool {
	if !a.HasMeetingTimes() || !b.HasMeetingTimes() {
		return false
	}
	if !shareDay(a.MeetingDays, b.MeetingDays) {
		return false
	}
	return *a.StartMinute < *b.EndMinute && *b.StartMinute < *a.EndMinute
}

func shareDay(a, b string) bool {
	for i := 0; i < len(a); i++ {
		if strings.IndexByte(b, a[i]) >= 0 {
			return true
		}
	}
	return false
}

// --- Group partitioner ---

// choiceGroup holds the interchangeable section alternatives for one
// course component, in candidate-pool order.
type choiceGroup struct {
	Key      models.CourseKey
	Sections []models.SectionCandidate
}

// partitionCandidates splits the pool into locked picks and one-of-N choice
// groups. A lock fully satisfies its course component: other sections for a
// locked key are never offered as alternatives. Group order follows the
// first appearance of each key in the candidate list, which keeps the
// search enumeration deterministic.
func partitionCandidates(candidates []models.SectionCandidate, locked map[int]bool, required []models.CourseKey) ([]models.SectionCandidate, []choiceGroup) {
	var lockedPicks []models.SectionCandidate
	remaining := make([]models.SectionCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if locked[candidate.ClassNbr] {
			lockedPicks = append(lockedPicks, candidate)
		} else {
			remaining = append(remaining, candidate)
		}
	}

	lockedKeys := make(map[models.CourseKey]bool, len(lockedPicks))
	for _, pick := range lockedPicks {
		lockedKeys[pick.Key()] = true
	}

	index := make(map[models.CourseKey]int)
	var groups []choiceGroup
	for _, candidate := range remaining {
		key := candidate.Key()
		if lockedKeys[key] {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, choiceGroup{Key: key})
		}
		groups[i].Sections = append(groups[i].Sections, candidate)
	}

	// A required component whose candidates were all filtered out still
	// occupies a group. The empty group makes every branch through it dead,
	// so the search yields zero schedules rather than a partial one.
	for _, key := range required {
		if lockedKeys[key] {
			continue
		}
		if _, ok := index[key]; ok {
			continue
		}
		index[key] = len(groups)
		groups = append(groups, choiceGroup{Key: key})
	}

	return lockedPicks, groups
}

// --- Backtracking search ---

type searchFrame struct {
	group  int
	next   int
	picked bool
}

type scheduleSearch struct {
	groups    []choiceGroup
	current   []models.SectionCandidate
	results   [][]models.SectionCandidate
	rawLimit  int
	budget    int
	visited   int
	truncated bool
}

func newScheduleSearch(lockedPicks []models.SectionCandidate, groups []choiceGroup, rawLimit, budget int) *scheduleSearch {
	current := make([]models.SectionCandidate, len(lockedPicks), len(lockedPicks)+len(groups))
	copy(current, lockedPicks)
	return &scheduleSearch{
		groups:   groups,
		current:  current,
		rawLimit: rawLimit,
		budget:   budget,
	}
}

// run walks the choice groups depth-first. The explicit frame stack keeps
// the enumeration order identical to the recursive formulation (group order
// times within-group candidate order) while avoiding call-depth limits on
// long course lists. The result cap is checked at every step, so once the
// rawLimit-th combination is recorded the search aborts at every level.
// Which combinations get captured when the space exceeds the cap is part of
// the engine's contract, not an implementation accident.
func (s *scheduleSearch) run() {
	if len(s.groups) == 0 {
		s.emit()
		return
	}

	stack := make([]searchFrame, 1, len(s.groups))
	stack[0] = searchFrame{group: 0}

	for len(stack) > 0 {
		if len(s.results) >= s.rawLimit {
			return
		}
		frame := &stack[len(stack)-1]
		if frame.picked {
			s.current = s.current[:len(s.current)-1]
			frame.picked = false
		}

		sections := s.groups[frame.group].Sections
		if frame.next >= len(sections) {
			stack = stack[:len(stack)-1]
			continue
		}
		candidate := sections[frame.next]
		frame.next++

		if !s.spendNode() {
			return
		}
		if s.conflictsAny(candidate) {
			continue
		}

		s.current = append(s.current, candidate)
		frame.picked = true
		if frame.group+1 == len(s.groups) {
			s.emit()
			continue
		}
		stack = append(stack, searchFrame{group: frame.group + 1})
	}
}

func (s *scheduleSearch) conflictsAny(candidate models.SectionCandidate) bool {
	for _, placed := range s.current {
		if sectionsConflict(candidate, placed) {
			return true
		}
	}
	return false
}

func (s *scheduleSearch) emit() {
	snapshot := make([]models.SectionCandidate, len(s.current))
	copy(snapshot, s.current)
	s.results = append(s.results, snapshot)
}

func (s *scheduleSearch) spendNode() bool {
	s.visited++
	if s.budget > 0 && s.visited > s.budget {
		s.truncated = true
		return false
	}
	return true
}

// --- Schedule scorer ---

// scoreSchedule derives the quality metrics for one complete combination.
// Floating sections stay in the section list but contribute no days and no
// gaps. The gap subtraction is clamped at zero even though the search
// guarantees no same-day overlap.
func scoreSchedule(sections []models.SectionCandidate) models.GeneratedSchedule {
	out := models.GeneratedSchedule{Sections: sections}

	ratingSum, rated := 0.0, 0
	for _, section := range sections {
		if section.Rating != nil {
			ratingSum += *section.Rating
			rated++
		}
	}
	if rated > 0 {
		avg := ratingSum / float64(rated)
		out.AvgRating = &avg
	}

	earliest, latest := -1, -1
	for i := 0; i < len(models.DayCodes); i++ {
		day := models.DayCodes[i]
		var timed []models.SectionCandidate
		for _, section := range sections {
			if section.HasMeetingTimes() && section.MeetsOn(day) {
				timed = append(timed, section)
			}
		}
		if len(timed) == 0 {
			continue
		}
		out.DaysOnCampus++

		sort.SliceStable(timed, func(a, b int) bool {
			return *timed[a].StartMinute < *timed[b].StartMinute
		})
		for j := 1; j < len(timed); j++ {
			gap := *timed[j].StartMinute - *timed[j-1].EndMinute
			if gap > 0 {
				out.TotalGapMinutes += gap
			}
		}

		if earliest < 0 || *timed[0].StartMinute < earliest {
			earliest = *timed[0].StartMinute
		}
		for _, section := range timed {
			if *section.EndMinute > latest {
				latest = *section.EndMinute
			}
		}
	}

	if earliest >= 0 {
		out.EarliestStart = models.ClockString(earliest)
	}
	if latest >= 0 {
		out.LatestEnd = models.ClockString(latest)
	}
	return out
}

// --- Result ranker ---

// lessByRating orders by descending average rating with every unrated
// schedule after every rated one, whatever its other metrics.
func lessByRating(a, b models.GeneratedSchedule) bool {
	if a.AvgRating == nil {
		return false
	}
	if b.AvgRating == nil {
		return true
	}
	return *a.AvgRating > *b.AvgRating
}

// rankByRating is the primary server-side order applied before truncation.
// The sort is stable so ties keep raw enumeration order.
func rankByRating(list []models.GeneratedSchedule) {
	sort.SliceStable(list, func(i, j int) bool {
		return lessByRating(list[i], list[j])
	})
}

// sortSchedules applies one of the client-selectable orderings to the
// already-truncated set. All modes are stable and share the primary order's
// null handling. A schedule with no timed sections carries empty
// earliest/latest strings: it sorts first under earliest-start and last
// under latest-end, matching empty-string comparison on both sides.
func sortSchedules(list []models.GeneratedSchedule, mode models.SortMode) {
	switch mode {
	case models.SortByCompact:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].TotalGapMinutes < list[j].TotalGapMinutes
		})
	case models.SortByFewestDays:
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].DaysOnCampus != list[j].DaysOnCampus {
				return list[i].DaysOnCampus < list[j].DaysOnCampus
			}
			return lessByRating(list[i], list[j])
		})
	case models.SortByEarliestStart:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].EarliestStart < list[j].EarliestStart
		})
	case models.SortByLatestEnd:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].LatestEnd > list[j].LatestEnd
		})
	default:
		rankByRating(list)
	}
}
