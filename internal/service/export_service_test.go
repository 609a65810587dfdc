package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyapps/poly-schedule-api/internal/dto"
	"github.com/easyapps/poly-schedule-api/internal/models"
	appErrors "github.com/easyapps/poly-schedule-api/pkg/errors"
)

func exportSection() models.SectionCandidate {
	start, end := 540, 590
	instructor := "Ada Lovelace"
	rating := 3.75
	return models.SectionCandidate{
		Subject:       "CSC",
		CatalogNumber: "101",
		ClassSection:  "01",
		Component:     "LEC",
		ClassNbr:      1001,
		MeetingDays:   "MWF",
		StartMinute:   &start,
		EndMinute:     &end,
		Instructor:    &instructor,
		Rating:        &rating,
	}
}

func TestRenderCSV(t *testing.T) {
	svc := NewExportService(nil, nil)

	result, err := svc.Render(dto.ExportScheduleRequest{
		Format:   "csv",
		Sections: []models.SectionCandidate{exportSection()},
	})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "schedule.csv", result.Filename)

	lines := strings.Split(strings.TrimSpace(string(result.Body)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Course,Section,Component,Class Nbr,Days,Start,End,Instructor,Rating", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "CSC 101")
	assert.Contains(t, lines[1], "09:00")
	assert.Contains(t, lines[1], "09:50")
	assert.Contains(t, lines[1], "3.75")
}

func TestRenderCSVFloatingSectionHasBlankTimes(t *testing.T) {
	svc := NewExportService(nil, nil)

	section := exportSection()
	section.MeetingDays = ""
	section.StartMinute = nil
	section.EndMinute = nil

	result, err := svc.Render(dto.ExportScheduleRequest{
		Format:   "csv",
		Sections: []models.SectionCandidate{section},
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(result.Body)), "\n")
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[1], "09:00")
}

func TestRenderPDF(t *testing.T) {
	svc := NewExportService(nil, nil)

	result, err := svc.Render(dto.ExportScheduleRequest{
		Format:   "pdf",
		Title:    "Fall Draft",
		Sections: []models.SectionCandidate{exportSection()},
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Body), "%PDF"))
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(nil, nil)

	_, err := svc.Render(dto.ExportScheduleRequest{
		Format:   "xlsx",
		Sections: []models.SectionCandidate{exportSection()},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestRenderRequiresSections(t *testing.T) {
	svc := NewExportService(nil, nil)

	_, err := svc.Render(dto.ExportScheduleRequest{Format: "csv"})
	require.Error(t, err)
}
