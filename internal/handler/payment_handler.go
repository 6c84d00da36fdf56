package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minkhant-dev/piecerate-api/internal/ledger"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
	"github.com/minkhant-dev/piecerate-api/pkg/response"
)

// PaymentHandler exposes the payment ledger endpoints.
type PaymentHandler struct {
	payments *ledger.PaymentService
	reports  reportInvalidator
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *ledger.PaymentService, reports reportInvalidator) *PaymentHandler {
	return &PaymentHandler{payments: payments, reports: reports}
}

// List godoc
// @Summary List payments, newest first
// @Tags Payments
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param cursor query string false "Continuation cursor from a previous page"
// @Success 200 {object} response.Envelope
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	payments, page, err := h.payments.FetchPage(c.Request.Context(), session, pageSize, c.Query("cursor"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, page)
}

// Create godoc
// @Summary Log a payment to a worker
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body ledger.LogPaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		return
	}
	var req ledger.LogPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload"))
		return
	}
	payment, err := h.payments.LogPayment(c.Request.Context(), session, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.reports != nil {
		h.reports.Invalidate(c.Request.Context(), session.Namespace)
	}
	response.Created(c, payment)
}
