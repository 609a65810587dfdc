package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/easyapps/poly-schedule-api/internal/service"
	"github.com/easyapps/poly-schedule-api/pkg/response"
)

// TermHandler exposes scraped term metadata.
type TermHandler struct {
	service *service.TermService
}

// NewTermHandler creates a new handler.
func NewTermHandler(svc *service.TermService) *TermHandler {
	return &TermHandler{service: svc}
}

// Current godoc
// @Summary Current term
// @Description Return the term the latest scrape marked current
// @Tags Terms
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /terms/current [get]
func (h *TermHandler) Current(c *gin.Context) {
	term, err := h.service.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, term)
}

// ByCode godoc
// @Summary Term by code
// @Description Return a term by its code
// @Tags Terms
// @Produce json
// @Param code path string true "Term code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /terms/{code} [get]
func (h *TermHandler) ByCode(c *gin.Context) {
	term, err := h.service.ByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, term)
}
