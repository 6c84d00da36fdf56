package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minkhant-dev/piecerate-api/internal/ledger"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
	"github.com/minkhant-dev/piecerate-api/pkg/response"
)

type reportInvalidator interface {
	Invalidate(ctx context.Context, namespace string)
}

// ProductionHandler exposes the production ledger endpoints.
type ProductionHandler struct {
	production *ledger.ProductionService
	exports    *ledger.ExportService
	reports    reportInvalidator
}

// NewProductionHandler constructs ProductionHandler.
func NewProductionHandler(production *ledger.ProductionService, exports *ledger.ExportService, reports reportInvalidator) *ProductionHandler {
	return &ProductionHandler{production: production, exports: exports, reports: reports}
}

// List godoc
// @Summary List production entries, newest first
// @Tags Production
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param cursor query string false "Continuation cursor from a previous page"
// @Success 200 {object} response.Envelope
// @Router /production-entries [get]
func (h *ProductionHandler) List(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, page, err := h.production.FetchPage(c.Request.Context(), session, pageSize, c.Query("cursor"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, page)
}

// Create godoc
// @Summary Log a production entry
// @Tags Production
// @Accept json
// @Produce json
// @Param payload body ledger.LogEntryRequest true "Production entry payload"
// @Success 201 {object} response.Envelope
// @Router /production-entries [post]
func (h *ProductionHandler) Create(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req ledger.LogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid production entry payload"))
		return
	}
	entry, err := h.production.LogEntry(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.reports != nil {
		h.reports.Invalidate(c.Request.Context(), session.Namespace)
	}
	response.Created(c, entry)
}

// Export godoc
// @Summary Export the production ledger as CSV or PDF
// @Tags Production
// @Produce text/csv
// @Param format query string false "csv or pdf" default(csv)
// @Param start query string false "Start date YYYY-MM-DD"
// @Param end query string false "End date YYYY-MM-DD"
// @Success 200 {file} byte
// @Router /production-entries/export [get]
func (h *ProductionHandler) Export(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	start, end, err := dateRangeFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	format := ledger.ExportFormat(c.DefaultQuery("format", "csv"))
	if format != ledger.ExportCSV && format != ledger.ExportPDF {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}

	payload, contentType, err := h.exports.Export(c.Request.Context(), session, format, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("production-ledger-%s.%s", time.Now().UTC().Format(dateLayout), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
