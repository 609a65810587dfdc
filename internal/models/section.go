package models

import "strings"

// DayCodes is the ordered set of weekday codes a section may meet on.
const DayCodes = "MTWRF"

// SectionCandidate is one offering of a course component, joined to its
// instructor rating. Candidates are immutable once built by the pool query;
// the generation engine never mutates them.
type SectionCandidate struct {
	Subject        string   `db:"subject" json:"subject"`
	CatalogNumber  string   `db:"catalog_nbr" json:"catalogNumber"`
	ClassSection   string   `db:"class_section" json:"classSection"`
	Component      string   `db:"component" json:"component"`
	ClassNbr       int      `db:"class_nbr" json:"classNbr"`
	MeetingDays    string   `db:"meeting_days" json:"meetingDays"`
	StartMinute    *int     `db:"start_minute" json:"startMinute"`
	EndMinute      *int     `db:"end_minute" json:"endMinute"`
	Instructor     *string  `db:"instructor_name" json:"instructor,omitempty"`
	Rating         *float64 `db:"rating" json:"rating"`
	NumEvaluations *int     `db:"num_evals" json:"numEvaluations"`
	SeatsAvailable *int     `db:"seats_available" json:"seatsAvailable"`
}

// HasMeetingTimes reports whether the section has a complete meeting pattern.
// Sections without one are "floating": they occupy no calendar time and can
// never conflict with anything.
func (s SectionCandidate) HasMeetingTimes() bool {
	return s.MeetingDays != "" && s.StartMinute != nil && s.EndMinute != nil
}

// MeetsOn reports whether the section meets on the given day code.
func (s SectionCandidate) MeetsOn(day byte) bool {
	return strings.IndexByte(s.MeetingDays, day) >= 0
}

// Key returns the course-component identity of the section.
func (s SectionCandidate) Key() CourseKey {
	return CourseKey{Subject: s.Subject, CatalogNumber: s.CatalogNumber, Component: s.Component}
}

// CourseKey identifies one required course component. Every generated
// schedule contains exactly one section per key.
type CourseKey struct {
	Subject       string `json:"subject"`
	CatalogNumber string `json:"catalogNumber"`
	Component     string `json:"component"`
}

// BlockedSlot is a user-declared time window, per day, that no section may
// intersect. The interval is half-open: [StartMinute, EndMinute).
type BlockedSlot struct {
	Day         string `json:"day" validate:"required,len=1,oneof=M T W R F"`
	StartMinute int    `json:"startMinute" validate:"min=0,max=1440"`
	EndMinute   int    `json:"endMinute" validate:"min=0,max=1440,gtfield=StartMinute"`
}

// Intersects reports whether a timed section overlaps this blocked window.
func (b BlockedSlot) Intersects(s SectionCandidate) bool {
	if !s.HasMeetingTimes() || !s.MeetsOn(b.Day[0]) {
		return false
	}
	return *s.StartMinute < b.EndMinute && b.StartMinute < *s.EndMinute
}
