package models

import (
	"fmt"
	"time"
)

// SortMode selects one of the client-facing orderings for generated schedules.
type SortMode string

const (
	SortByRating        SortMode = "rating"
	SortByCompact       SortMode = "compact"
	SortByFewestDays    SortMode = "fewest-days"
	SortByEarliestStart SortMode = "earliest-start"
	SortByLatestEnd     SortMode = "latest-end"
)

// ParseSortMode validates a raw sort value, defaulting to rating.
func ParseSortMode(raw string) (SortMode, error) {
	switch SortMode(raw) {
	case "":
		return SortByRating, nil
	case SortByRating, SortByCompact, SortByFewestDays, SortByEarliestStart, SortByLatestEnd:
		return SortMode(raw), nil
	}
	return "", fmt.Errorf("unknown sort mode %q", raw)
}

// GeneratedSchedule is one conflict-free combination of sections together
// with its derived quality metrics. EarliestStart and LatestEnd are
// zero-padded HH:MM:SS strings ("" when the schedule has no timed section)
// so that plain string comparison orders them as times.
type GeneratedSchedule struct {
	Sections        []SectionCandidate `json:"sections"`
	AvgRating       *float64           `json:"avgRating"`
	DaysOnCampus    int                `json:"daysOnCampus"`
	TotalGapMinutes int                `json:"totalGapMinutes"`
	EarliestStart   string             `json:"earliestStart"`
	LatestEnd       string             `json:"latestEnd"`
}

// ClockString renders minutes since midnight as zero-padded HH:MM:SS.
func ClockString(minute int) string {
	return fmt.Sprintf("%02d:%02d:00", minute/60, minute%60)
}

// SavedSchedule is a user-persisted pick of class numbers for a term.
type SavedSchedule struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	TermCode  string    `db:"term_code" json:"termCode"`
	Name      string    `db:"name" json:"name"`
	ClassNbrs []int64   `db:"-" json:"classNbrs"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
