package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minkhant-dev/piecerate-api/internal/registry"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
	"github.com/minkhant-dev/piecerate-api/pkg/response"
)

// RateCardHandler exposes rate card master-data endpoints.
type RateCardHandler struct {
	registry *registry.Registry
}

// NewRateCardHandler constructs RateCardHandler.
func NewRateCardHandler(reg *registry.Registry) *RateCardHandler {
	return &RateCardHandler{registry: reg}
}

// List godoc
// @Summary List rate card entries
// @Tags RateCard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rate-card [get]
func (h *RateCardHandler) List(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	entries, err := h.registry.ListRateCard(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Create godoc
// @Summary Add a rate card entry
// @Tags RateCard
// @Accept json
// @Produce json
// @Param payload body registry.CreateRateCardEntryRequest true "Rate card payload"
// @Success 201 {object} response.Envelope
// @Router /rate-card [post]
func (h *RateCardHandler) Create(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req registry.CreateRateCardEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rate card payload"))
		return
	}
	entry, err := h.registry.AddRateCardEntry(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Edit a rate card entry
// @Tags RateCard
// @Accept json
// @Produce json
// @Param id path string true "Rate card entry ID"
// @Param payload body registry.UpdateRateCardEntryRequest true "Rate card payload"
// @Success 200 {object} response.Envelope
// @Router /rate-card/{id} [put]
func (h *RateCardHandler) Update(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req registry.UpdateRateCardEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rate card payload"))
		return
	}
	entry, err := h.registry.UpdateRateCardEntry(c.Request.Context(), session, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Remove a rate card entry
// @Tags RateCard
// @Produce json
// @Param id path string true "Rate card entry ID"
// @Success 204
// @Router /rate-card/{id} [delete]
func (h *RateCardHandler) Delete(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	if err := h.registry.DeleteRateCardEntry(c.Request.Context(), session, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
