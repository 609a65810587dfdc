package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/easyapps/poly-schedule-api/internal/dto"
	"github.com/easyapps/poly-schedule-api/internal/service"
	appErrors "github.com/easyapps/poly-schedule-api/pkg/errors"
	"github.com/easyapps/poly-schedule-api/pkg/response"
)

// SectionHandler exposes the candidate pool for inspection.
type SectionHandler struct {
	generator *service.ScheduleGeneratorService
}

// NewSectionHandler creates a new handler.
func NewSectionHandler(generator *service.ScheduleGeneratorService) *SectionHandler {
	return &SectionHandler{generator: generator}
}

// List godoc
// @Summary List sections
// @Description List the scraped sections for a course, with ratings attached
// @Tags Sections
// @Produce json
// @Param termCode query string true "Term code"
// @Param subject query string true "Subject"
// @Param catalog query string false "Catalog number"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sections [get]
func (h *SectionHandler) List(c *gin.Context) {
	var query dto.SectionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid section query"))
		return
	}

	sections, err := h.generator.Sections(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sections, map[string]interface{}{"count": len(sections)})
}
