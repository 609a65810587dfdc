package dto

import "github.com/easyapps/poly-schedule-api/internal/models"

// CourseRequest names one course the student wants on the schedule.
type CourseRequest struct {
	Subject       string `json:"subject" validate:"required"`
	CatalogNumber string `json:"catalogNumber" validate:"required"`
}

// GenerateSchedulesRequest instructs the generator to build ranked
// conflict-free schedules for the requested courses.
type GenerateSchedulesRequest struct {
	TermCode        string               `json:"termCode" validate:"required"`
	Courses         []CourseRequest      `json:"courses" validate:"required,min=1,max=12,dive"`
	LockedClassNbrs []int                `json:"lockedClassNbrs" validate:"omitempty,dive,min=1"`
	BlockedSlots    []models.BlockedSlot `json:"blockedSlots" validate:"omitempty,dive"`

	// Candidate pool filters, applied before the search runs.
	EarliestStartMinute *int     `json:"earliestStartMinute" validate:"omitempty,min=0,max=1440"`
	LatestEndMinute     *int     `json:"latestEndMinute" validate:"omitempty,min=0,max=1440"`
	AllowedDays         string   `json:"allowedDays" validate:"omitempty,max=5"`
	MinRating           *float64 `json:"minRating" validate:"omitempty,min=0,max=4"`
	OpenSeatsOnly       bool     `json:"openSeatsOnly"`

	SortBy       string `json:"sortBy" validate:"omitempty,oneof=rating compact fewest-days earliest-start latest-end"`
	RawLimit     int    `json:"rawLimit" validate:"omitempty,min=1,max=1000"`
	DisplayLimit int    `json:"displayLimit" validate:"omitempty,min=1,max=100"`
}

// GenerateSchedulesResponse returns the ranked, truncated schedule set.
type GenerateSchedulesResponse struct {
	TermCode  string                     `json:"termCode"`
	SortBy    models.SortMode            `json:"sortBy"`
	Count     int                        `json:"count"`
	Truncated bool                       `json:"truncated"`
	Schedules []models.GeneratedSchedule `json:"schedules"`
}

// SectionQuery filters the candidate pool inspection endpoint.
type SectionQuery struct {
	TermCode string `form:"termCode" validate:"required"`
	Subject  string `form:"subject" validate:"required"`
	Catalog  string `form:"catalog"`
}

// ExportScheduleRequest renders a picked section list into CSV or PDF.
type ExportScheduleRequest struct {
	Format   string                    `json:"format" validate:"required,oneof=csv pdf"`
	Title    string                    `json:"title" validate:"omitempty,max=120"`
	Sections []models.SectionCandidate `json:"sections" validate:"required,min=1"`
}

// SaveScheduleRequest persists a picked set of class numbers for the user.
type SaveScheduleRequest struct {
	TermCode  string  `json:"termCode" validate:"required"`
	Name      string  `json:"name" validate:"required,max=80"`
	ClassNbrs []int64 `json:"classNbrs" validate:"required,min=1,dive,min=1"`
}
