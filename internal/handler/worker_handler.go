package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minkhant-dev/piecerate-api/internal/registry"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
	"github.com/minkhant-dev/piecerate-api/pkg/response"
)

// WorkerHandler exposes worker master-data endpoints.
type WorkerHandler struct {
	registry *registry.Registry
}

// NewWorkerHandler constructs WorkerHandler.
func NewWorkerHandler(reg *registry.Registry) *WorkerHandler {
	return &WorkerHandler{registry: reg}
}

// List godoc
// @Summary List workers with resolved position names
// @Tags Workers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /workers [get]
func (h *WorkerHandler) List(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	workers, err := h.registry.ListWorkers(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workers, nil)
}

// Create godoc
// @Summary Register a worker
// @Tags Workers
// @Accept json
// @Produce json
// @Param payload body registry.CreateWorkerRequest true "Worker payload"
// @Success 201 {object} response.Envelope
// @Router /workers [post]
func (h *WorkerHandler) Create(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req registry.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid worker payload"))
		return
	}
	worker, err := h.registry.AddWorker(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, worker)
}

// Update godoc
// @Summary Edit a worker
// @Tags Workers
// @Accept json
// @Produce json
// @Param id path string true "Worker ID"
// @Param payload body registry.UpdateWorkerRequest true "Worker payload"
// @Success 200 {object} response.Envelope
// @Router /workers/{id} [put]
func (h *WorkerHandler) Update(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req registry.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid worker payload"))
		return
	}
	worker, err := h.registry.UpdateWorker(c.Request.Context(), session, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, worker, nil)
}

// Delete godoc
// @Summary Remove a worker
// @Tags Workers
// @Produce json
// @Param id path string true "Worker ID"
// @Success 204
// @Router /workers/{id} [delete]
func (h *WorkerHandler) Delete(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	if err := h.registry.DeleteWorker(c.Request.Context(), session, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
