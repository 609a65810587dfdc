package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/easyapps/poly-schedule-api/internal/dto"
	"github.com/easyapps/poly-schedule-api/internal/service"
	appErrors "github.com/easyapps/poly-schedule-api/pkg/errors"
	"github.com/easyapps/poly-schedule-api/pkg/response"
)

// SavedScheduleHandler wires HTTP endpoints to the saved schedule service.
type SavedScheduleHandler struct {
	service *service.SavedScheduleService
}

// NewSavedScheduleHandler creates a new handler.
func NewSavedScheduleHandler(svc *service.SavedScheduleService) *SavedScheduleHandler {
	return &SavedScheduleHandler{service: svc}
}

// Save godoc
// @Summary Save a schedule
// @Description Persist a picked set of class numbers for the authenticated user
// @Tags Saved schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SaveScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me/schedules [post]
func (h *SavedScheduleHandler) Save(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.SaveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}

	schedule, err := h.service.Save(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, schedule)
}

// List godoc
// @Summary List saved schedules
// @Description List the authenticated user's saved schedules, newest first
// @Tags Saved schedules
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me/schedules [get]
func (h *SavedScheduleHandler) List(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	schedules, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, schedules, map[string]interface{}{"count": len(schedules)})
}

// Delete godoc
// @Summary Delete a saved schedule
// @Description Remove one of the authenticated user's saved schedules
// @Tags Saved schedules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 204 "No Content"
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /me/schedules/{id} [delete]
func (h *SavedScheduleHandler) Delete(c *gin.Context) {
	claims, err := claimsFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
