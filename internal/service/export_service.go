package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/easyapps/poly-schedule-api/internal/dto"
	"github.com/easyapps/poly-schedule-api/internal/models"
	appErrors "github.com/easyapps/poly-schedule-api/pkg/errors"
	"github.com/easyapps/poly-schedule-api/pkg/export"
)

var exportHeaders = []string{"Course", "Section", "Component", "Class Nbr", "Days", "Start", "End", "Instructor", "Rating"}

// ExportService renders a picked section list into downloadable documents.
type ExportService struct {
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService wires the exporters.
func NewExportService(validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
	}
}

// ExportResult carries the rendered document and its content type.
type ExportResult struct {
	ContentType string
	Filename    string
	Body        []byte
}

// Render produces a CSV or PDF document for the given sections.
func (s *ExportService) Render(req dto.ExportScheduleRequest) (*ExportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}

	dataset := export.Dataset{Headers: exportHeaders}
	for _, section := range req.Sections {
		dataset.Rows = append(dataset.Rows, sectionRow(section))
	}

	title := req.Title
	if title == "" {
		title = "Weekly Schedule"
	}

	switch req.Format {
	case "csv":
		body, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{ContentType: "text/csv", Filename: "schedule.csv", Body: body}, nil
	case "pdf":
		body, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{ContentType: "application/pdf", Filename: "schedule.pdf", Body: body}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", req.Format))
}

func sectionRow(s models.SectionCandidate) map[string]string {
	row := map[string]string{
		"Course":    s.Subject + " " + s.CatalogNumber,
		"Section":   s.ClassSection,
		"Component": s.Component,
		"Class Nbr": strconv.Itoa(s.ClassNbr),
		"Days":      s.MeetingDays,
	}
	if s.HasMeetingTimes() {
		row["Start"] = clockLabel(*s.StartMinute)
		row["End"] = clockLabel(*s.EndMinute)
	}
	if s.Instructor != nil {
		row["Instructor"] = *s.Instructor
	}
	if s.Rating != nil {
		row["Rating"] = strconv.FormatFloat(*s.Rating, 'f', 2, 64)
	}
	return row
}

func clockLabel(minute int) string {
	return strings.TrimSuffix(models.ClockString(minute), ":00")
}
