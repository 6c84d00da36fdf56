package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minkhant-dev/piecerate-api/internal/reports"
	"github.com/minkhant-dev/piecerate-api/pkg/response"
)

// ReportHandler exposes aggregated report endpoints.
type ReportHandler struct {
	reports *reports.Service
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(svc *reports.Service) *ReportHandler {
	return &ReportHandler{reports: svc}
}

// Dashboard godoc
// @Summary Payroll, productivity and defect aggregates
// @Tags Reports
// @Produce json
// @Param start query string false "Start date YYYY-MM-DD"
// @Param end query string false "End date YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	start, end, err := dateRangeFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	dashboard, err := h.reports.Dashboard(c.Request.Context(), session, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// WorkerBalance godoc
// @Summary One worker's lifetime totals and outstanding balance
// @Tags Reports
// @Produce json
// @Param id path string true "Worker ID"
// @Success 200 {object} response.Envelope
// @Router /reports/workers/{id}/balance [get]
func (h *ReportHandler) WorkerBalance(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	balance, err := h.reports.WorkerBalance(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, balance, nil)
}
