package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/internal/service"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
	"github.com/opencampus/registrar-api/pkg/response"
)

// OfficeHourHandler wires HTTP endpoints to the office hour service.
type OfficeHourHandler struct {
	service *service.OfficeHourService
}

// NewOfficeHourHandler creates a new handler.
func NewOfficeHourHandler(svc *service.OfficeHourService) *OfficeHourHandler {
	return &OfficeHourHandler{service: svc}
}

// ListByInstructor godoc
// @Summary List instructor office hours
// @Tags OfficeHours
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor user id"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id}/office-hours [get]
func (h *OfficeHourHandler) ListByInstructor(c *gin.Context) {
	instructorID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	hours, err := h.service.ListByInstructor(c.Request.Context(), instructorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hours, nil)
}

// Create godoc
// @Summary Create office hour
// @Tags OfficeHours
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateOfficeHourRequest true "Office hour payload"
// @Success 201 {object} response.Envelope
// @Router /office-hours [post]
func (h *OfficeHourHandler) Create(c *gin.Context) {
	claims, err := claimsFrom(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.CreateOfficeHourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid office hour payload"))
		return
	}

	hour, err := h.service.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, hour)
}

// Update godoc
// @Summary Update office hour
// @Tags OfficeHours
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Office hour id"
// @Param payload body models.UpdateOfficeHourRequest true "Office hour changes"
// @Success 200 {object} response.Envelope
// @Router /office-hours/{id} [patch]
func (h *OfficeHourHandler) Update(c *gin.Context) {
	claims, err := claimsFrom(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.UpdateOfficeHourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid office hour payload"))
		return
	}

	hour, err := h.service.Update(c.Request.Context(), claims, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hour, nil)
}

// Delete godoc
// @Summary Delete office hour
// @Tags OfficeHours
// @Produce json
// @Security BearerAuth
// @Param id path int true "Office hour id"
// @Success 204 {object} response.Envelope
// @Router /office-hours/{id} [delete]
func (h *OfficeHourHandler) Delete(c *gin.Context) {
	claims, err := claimsFrom(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), claims, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
