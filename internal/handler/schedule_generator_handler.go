package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/easyapps/poly-schedule-api/internal/dto"
	"github.com/easyapps/poly-schedule-api/internal/service"
	appErrors "github.com/easyapps/poly-schedule-api/pkg/errors"
	"github.com/easyapps/poly-schedule-api/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateSchedulesRequest) (*dto.GenerateSchedulesResponse, error)
}

type scheduleExporter interface {
	Render(req dto.ExportScheduleRequest) (*service.ExportResult, error)
}

// ScheduleGeneratorHandler wires HTTP endpoints to the schedule generator.
type ScheduleGeneratorHandler struct {
	generator scheduleGenerator
	exporter  scheduleExporter
}

// NewScheduleGeneratorHandler creates a new handler.
func NewScheduleGeneratorHandler(generator *service.ScheduleGeneratorService, exporter *service.ExportService) *ScheduleGeneratorHandler {
	return &ScheduleGeneratorHandler{generator: generator, exporter: exporter}
}

// Generate godoc
// @Summary Generate schedules
// @Description Build conflict-free section combinations for the requested courses, scored and ranked
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateSchedulesRequest true "Generation payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleGeneratorHandler) Generate(c *gin.Context) {
	var req dto.GenerateSchedulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}

	res, err := h.generator.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// Export godoc
// @Summary Export a schedule
// @Description Render a picked section list as CSV or PDF
// @Tags Schedules
// @Accept json
// @Produce octet-stream
// @Param payload body dto.ExportScheduleRequest true "Export payload"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /schedules/export [post]
func (h *ScheduleGeneratorHandler) Export(c *gin.Context) {
	var req dto.ExportScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}

	result, err := h.exporter.Render(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Body)
}
