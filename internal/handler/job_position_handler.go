package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minkhant-dev/piecerate-api/internal/registry"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
	"github.com/minkhant-dev/piecerate-api/pkg/response"
)

// JobPositionHandler exposes job position master-data endpoints.
type JobPositionHandler struct {
	registry *registry.Registry
}

// NewJobPositionHandler constructs JobPositionHandler.
func NewJobPositionHandler(reg *registry.Registry) *JobPositionHandler {
	return &JobPositionHandler{registry: reg}
}

// List godoc
// @Summary List job positions
// @Tags JobPositions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /job-positions [get]
func (h *JobPositionHandler) List(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	positions, err := h.registry.ListJobPositions(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, positions, nil)
}

// Create godoc
// @Summary Add a job position
// @Tags JobPositions
// @Accept json
// @Produce json
// @Param payload body registry.CreateJobPositionRequest true "Job position payload"
// @Success 201 {object} response.Envelope
// @Router /job-positions [post]
func (h *JobPositionHandler) Create(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req registry.CreateJobPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid job position payload"))
		return
	}
	position, err := h.registry.AddJobPosition(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, position)
}

// Update godoc
// @Summary Edit a job position
// @Tags JobPositions
// @Accept json
// @Produce json
// @Param id path string true "Job position ID"
// @Param payload body registry.UpdateJobPositionRequest true "Job position payload"
// @Success 200 {object} response.Envelope
// @Router /job-positions/{id} [put]
func (h *JobPositionHandler) Update(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req registry.UpdateJobPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid job position payload"))
		return
	}
	position, err := h.registry.UpdateJobPosition(c.Request.Context(), session, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, position, nil)
}

// Delete godoc
// @Summary Remove a job position
// @Tags JobPositions
// @Produce json
// @Param id path string true "Job position ID"
// @Success 204
// @Router /job-positions/{id} [delete]
func (h *JobPositionHandler) Delete(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	if err := h.registry.DeleteJobPosition(c.Request.Context(), session, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
