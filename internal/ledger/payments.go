package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minkhant-dev/piecerate-api/internal/models"
	"github.com/minkhant-dev/piecerate-api/internal/store"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
)

// LogPaymentRequest is the payload for recording a payout against a
// worker's accrued balance.
type LogPaymentRequest struct {
	WorkerID   string  `json:"worker_id" validate:"required"`
	WorkerName string  `json:"worker_name" validate:"required"`
	Date       string  `json:"date"`
	Amount     float64 `json:"amount" validate:"gt=0"`
	Notes      string  `json:"notes"`
}

// PaymentService appends to and reads the payment log. Like production
// entries, payments are append-only facts.
type PaymentService struct {
	provider  store.Provider
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(provider store.Provider, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{provider: provider, audit: audit, validator: validate, logger: logger, now: time.Now}
}

// LogPayment validates and appends one payment. The date defaults to
// today (UTC) when omitted.
func (s *PaymentService) LogPayment(ctx context.Context, session models.Session, req LogPaymentRequest) (*models.PaymentLog, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = s.now().UTC().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	payment := models.PaymentLog{
		ID:         uuid.NewString(),
		WorkerID:   strings.TrimSpace(req.WorkerID),
		WorkerName: strings.TrimSpace(req.WorkerName),
		Date:       date,
		Amount:     req.Amount,
		Notes:      strings.TrimSpace(req.Notes),
	}

	if _, err := s.provider.Scope(session.Namespace).Add(ctx, store.CollectionPaymentLogs, store.PaymentLogRecord(payment)); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.audit.Record(ctx, session, models.AuditActionCreate, models.AuditTargetPaymentLog,
		fmt.Sprintf("Paid %.0f to %s (%s)", payment.Amount, payment.WorkerName, payment.WorkerID))
	return &payment, nil
}

// FetchPage returns one window of the payment log, newest date first.
func (s *PaymentService) FetchPage(ctx context.Context, session models.Session, pageSize int, cursorToken string) ([]models.PaymentLog, *models.PageInfo, error) {
	pageSize = clampPageSize(pageSize)

	page, err := s.provider.Scope(session.Namespace).GetPage(ctx, store.CollectionPaymentLogs, store.PageRequest{
		PageSize: pageSize,
		SortKey:  "date",
		Cursor:   cursorToken,
	})
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}

	payments := make([]models.PaymentLog, 0, len(page.Items))
	for _, rec := range page.Items {
		payments = append(payments, store.PaymentLogFromRecord(rec))
	}
	return payments, &models.PageInfo{PageSize: pageSize, NextCursor: page.NextCursor}, nil
}

// FetchAll returns the complete payment log.
func (s *PaymentService) FetchAll(ctx context.Context, session models.Session) ([]models.PaymentLog, error) {
	records, err := s.provider.Scope(session.Namespace).GetAll(ctx, store.CollectionPaymentLogs)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	payments := make([]models.PaymentLog, 0, len(records))
	for _, rec := range records {
		payments = append(payments, store.PaymentLogFromRecord(rec))
	}
	return payments, nil
}
