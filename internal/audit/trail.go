// Package audit maintains the append-only trail of master-data and
// ledger mutations.
package audit

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minkhant-dev/piecerate-api/internal/models"
	"github.com/minkhant-dev/piecerate-api/internal/store"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
)

// Trail appends audit entries after business mutations commit. Recording
// is best-effort: a failed audit write never fails the mutation that
// triggered it, but it is always surfaced to the operator log.
type Trail struct {
	provider store.Provider
	logger   *zap.Logger
	now      func() time.Time
}

// NewTrail constructs a Trail.
func NewTrail(provider store.Provider, logger *zap.Logger) *Trail {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trail{provider: provider, logger: logger, now: time.Now}
}

// Record appends one entry for a committed mutation.
func (t *Trail) Record(ctx context.Context, session models.Session, action, target, details string) {
	entry := models.AuditEntry{
		ID:        uuid.NewString(),
		Timestamp: t.now().UTC().Format(time.RFC3339),
		Actor:     string(session.Role),
		Action:    action,
		Target:    target,
		Details:   details,
	}

	if _, err := t.provider.Scope(session.Namespace).Add(ctx, store.CollectionAuditLog, store.AuditEntryRecord(entry)); err != nil {
		t.logger.Warn("audit write failed",
			zap.String("namespace", session.Namespace),
			zap.String("action", action),
			zap.String("target", target),
			zap.String("details", details),
			zap.Error(err),
		)
	}
}

// Service reads the trail. Consumers filter and search client-side.
type Service struct {
	provider store.Provider
	logger   *zap.Logger
}

// NewService constructs the read side of the audit trail.
func NewService(provider store.Provider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, logger: logger}
}

// List returns the full trail, newest first.
func (s *Service) List(ctx context.Context, session models.Session) ([]models.AuditEntry, error) {
	records, err := s.provider.Scope(session.Namespace).GetAll(ctx, store.CollectionAuditLog)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	entries := make([]models.AuditEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, store.AuditEntryFromRecord(rec))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
	return entries, nil
}
