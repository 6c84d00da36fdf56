// Package ledger holds the append-only production and payment logs.
// Ledger records are facts: they are created once and never mutated or
// deleted. Corrections are logged as offsetting entries.
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

const (
	defaultPageSize = 20
	maxPageSize     = 100

	dateLayout = "2006-01-02"
)

type rateResolver interface {
	ResolveRate(ctx context.Context, session models.Session, taskName string) (float64, bool, error)
}

type auditRecorder interface {
	Record(ctx context.Context, session models.Session, action, target, details string)
}

// LogEntryRequest is the payload for logging completed work.
type LogEntryRequest struct {
	Date              string       `json:"date" validate:"required"`
	Shift             models.Shift `json:"shift" validate:"required"`
	WorkerName        string       `json:"worker_name" validate:"required"`
	TaskName          string       `json:"task_name" validate:"required"`
	CompletedQuantity int          `json:"completed_quantity" validate:"gte=0"`
	DefectQuantity    int          `json:"defect_quantity" validate:"gte=0"`
}

// ProductionService appends to and reads the production log.
type ProductionService struct {
	provider  store.Provider
	rates     rateResolver
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProductionService constructs a ProductionService.
func NewProductionService(provider store.Provider, rates rateResolver, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *ProductionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionService{provider: provider, rates: rates, audit: audit, validator: validate, logger: logger}
}

// LogEntry resolves the piece rate at call time, freezes the monetary
// computation into the entry and appends it. The frozen fields are never
// recomputed; later rate card edits do not touch history.
func (s *ProductionService) LogEntry(ctx context.Context, session models.Session, req LogEntryRequest) (*models.ProductionEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid production entry payload")
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	if !req.Shift.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "shift must be Day or Night")
	}

	rate, found, err := s.rates.ResolveRate(ctx, session, strings.TrimSpace(req.TaskName))
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if !found {
		// Entries are never blocked on missing configuration; the zero
		// rate surfaces in the returned record for the owner to review.
		s.logger.Warn("no rate card match, logging entry at zero rate",
			zap.String("namespace", session.Namespace),
			zap.String("task", req.TaskName),
		)
	}

	entry := models.ProductionEntry{
		ID:                uuid.NewString(),
		Date:              req.Date,
		Shift:             req.Shift,
		WorkerName:        strings.TrimSpace(req.WorkerName),
		TaskName:          strings.TrimSpace(req.TaskName),
		CompletedQuantity: req.CompletedQuantity,
		DefectQuantity:    req.DefectQuantity,
		PieceRate:         rate,
		BasePay:           float64(req.CompletedQuantity) * rate,
		DeductionAmount:   float64(req.DefectQuantity) * rate,
	}

	if _, err := s.provider.Scope(session.Namespace).Add(ctx, store.CollectionProductionEntries, store.ProductionEntryRecord(entry)); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.audit.Record(ctx, session, models.AuditActionCreate, models.AuditTargetProductionEntry,
		fmt.Sprintf("Logged %d x '%s' for %s (%s %s)", entry.CompletedQuantity, entry.TaskName, entry.WorkerName, entry.Date, entry.Shift))
	return &entry, nil
}

// FetchPage returns one window of the log, newest date first.
func (s *ProductionService) FetchPage(ctx context.Context, session models.Session, pageSize int, cursorToken string) ([]models.ProductionEntry, *models.PageInfo, error) {
	pageSize = clampPageSize(pageSize)

	page, err := s.provider.Scope(session.Namespace).GetPage(ctx, store.CollectionProductionEntries, store.PageRequest{
		PageSize: pageSize,
		SortKey:  "date",
		Cursor:   cursorToken,
	})
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}

	entries := make([]models.ProductionEntry, 0, len(page.Items))
	for _, rec := range page.Items {
		entries = append(entries, store.ProductionEntryFromRecord(rec))
	}
	return entries, &models.PageInfo{PageSize: pageSize, NextCursor: page.NextCursor}, nil
}

// FetchAll returns the complete log. Reporting and export only; this is
// linear in the total entry count.
func (s *ProductionService) FetchAll(ctx context.Context, session models.Session) ([]models.ProductionEntry, error) {
	records, err := s.provider.Scope(session.Namespace).GetAll(ctx, store.CollectionProductionEntries)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	entries := make([]models.ProductionEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, store.ProductionEntryFromRecord(rec))
	}
	return entries, nil
}

func clampPageSize(pageSize int) int {
	if pageSize <= 0 {
		return defaultPageSize
	}
	if pageSize > maxPageSize {
		return maxPageSize
	}
	return pageSize
}
