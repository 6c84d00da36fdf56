package reports

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/minkhant-dev/piecerate-api/internal/models"
)

type entryFetcher interface {
	FetchAll(ctx context.Context, session models.Session) ([]models.ProductionEntry, error)
}

type paymentFetcher interface {
	FetchAll(ctx context.Context, session models.Session) ([]models.PaymentLog, error)
}

type workerResolver interface {
	GetWorker(ctx context.Context, session models.Session, id string) (*models.Worker, error)
}

type reportCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	InvalidatePattern(ctx context.Context, pattern string) error
}

// Dashboard is the combined report payload served to clients.
type Dashboard struct {
	Payroll         []WorkerPayroll   `json:"payroll"`
	Productivity    ShiftProductivity `json:"productivity"`
	Defects         []TaskDefects     `json:"defects"`
	TotalEarned     float64           `json:"total_earned"`
	TotalDeductions float64           `json:"total_deductions"`
	EntryCount      int               `json:"entry_count"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

// WorkerBalance reports one worker's lifetime earnings, payments and
// outstanding balance. A negative balance means an advance was paid.
type WorkerBalance struct {
	WorkerID    string  `json:"worker_id"`
	WorkerName  string  `json:"worker_name"`
	TotalEarned float64 `json:"total_earned"`
	TotalPaid   float64 `json:"total_paid"`
	Balance     float64 `json:"balance"`
}

// Service composes the pure aggregation functions over fetched ledger
// data. Dashboard payloads are cached per namespace and date range;
// ledger writes invalidate the namespace's cached reports.
type Service struct {
	entries  entryFetcher
	payments paymentFetcher
	workers  workerResolver
	cache    reportCache
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewService constructs a report service.
func NewService(entries entryFetcher, payments paymentFetcher, workers workerResolver, cache reportCache, cacheTTL time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		entries:  entries,
		payments: payments,
		workers:  workers,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Dashboard aggregates payroll, productivity and defect figures over the
// optional inclusive date range.
func (s *Service) Dashboard(ctx context.Context, session models.Session, start, end *time.Time) (*Dashboard, error) {
	cacheKey := dashboardCacheKey(session.Namespace, start, end)
	if s.cache != nil {
		var cached Dashboard
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	entries, err := s.entries.FetchAll(ctx, session)
	if err != nil {
		return nil, err
	}

	filtered := FilterByDateRange(entries, start, end)

	var totalEarned, totalDeductions float64
	for _, entry := range filtered {
		totalEarned += entry.BasePay
		totalDeductions += entry.DeductionAmount
	}

	dashboard := &Dashboard{
		Payroll:         PayrollByWorker(filtered),
		Productivity:    ProductivityByShift(filtered),
		Defects:         DefectsByTask(filtered),
		TotalEarned:     totalEarned,
		TotalDeductions: totalDeductions,
		EntryCount:      len(filtered),
		GeneratedAt:     s.now(),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, dashboard, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard report",
				zap.String("client_id", session.Namespace),
				zap.Error(err))
		}
	}

	return dashboard, nil
}

// WorkerBalance computes lifetime totals and outstanding balance for a
// single worker.
func (s *Service) WorkerBalance(ctx context.Context, session models.Session, workerID string) (*WorkerBalance, error) {
	worker, err := s.workers.GetWorker(ctx, session, workerID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.FetchAll(ctx, session)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.FetchAll(ctx, session)
	if err != nil {
		return nil, err
	}

	// Production entries carry the worker name snapshot, not an id, so
	// the subset is keyed by the worker's current name.
	var mine []models.ProductionEntry
	var earned float64
	for _, entry := range entries {
		if entry.WorkerName != worker.Name {
			continue
		}
		mine = append(mine, entry)
		earned += entry.BasePay
	}

	var paid float64
	var minePayments []models.PaymentLog
	for _, payment := range payments {
		if payment.WorkerID != workerID {
			continue
		}
		minePayments = append(minePayments, payment)
		paid += payment.Amount
	}

	return &WorkerBalance{
		WorkerID:    worker.ID,
		WorkerName:  worker.Name,
		TotalEarned: earned,
		TotalPaid:   paid,
		Balance:     OutstandingBalance(mine, minePayments),
	}, nil
}

// Invalidate drops every cached report for the namespace. Called after
// ledger writes so stale dashboards are never served past a mutation.
func (s *Service) Invalidate(ctx context.Context, namespace string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidatePattern(ctx, dashboardCachePattern(namespace)); err != nil {
		s.logger.Warn("failed to invalidate report cache",
			zap.String("client_id", namespace),
			zap.Error(err))
	}
}

func dashboardCacheKey(namespace string, start, end *time.Time) string {
	lo, hi := "-", "-"
	if start != nil {
		lo = start.Format(dateLayout)
	}
	if end != nil {
		hi = end.Format(dateLayout)
	}
	return fmt.Sprintf("reports:%s:dashboard:%s:%s", namespace, lo, hi)
}

func dashboardCachePattern(namespace string) string {
	return fmt.Sprintf("reports:%s:*", namespace)
}
