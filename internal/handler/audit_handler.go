package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minkhant-dev/piecerate-api/internal/audit"
	"github.com/minkhant-dev/piecerate-api/pkg/response"
)

// AuditHandler exposes the audit trail read endpoint.
type AuditHandler struct {
	audit *audit.Service
}

// NewAuditHandler constructs AuditHandler.
func NewAuditHandler(svc *audit.Service) *AuditHandler {
	return &AuditHandler{audit: svc}
}

// List godoc
// @Summary Full audit trail, newest first
// @Tags Audit
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /audit-log [get]
func (h *AuditHandler) List(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	entries, err := h.audit.List(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
