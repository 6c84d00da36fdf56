// Package registry maintains the master reference data of a namespace:
// workers, job positions and the rate card. Master data is assumed small
// and is cached in full per namespace, refreshed on session start.
package registry

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/minkhant-dev/piecerate-api/internal/models"
	"github.com/minkhant-dev/piecerate-api/internal/store"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
)

// UnknownPositionName is rendered for workers whose positionId no longer
// resolves. Job position deletion does not cascade; dangling references
// are tolerated rather than blocked.
const UnknownPositionName = "Unknown Position"

type auditRecorder interface {
	Record(ctx context.Context, session models.Session, action, target, details string)
}

// Registry is the master data service.
type Registry struct {
	provider  store.Provider
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger

	mu     sync.RWMutex
	caches map[string]*cache
}

type cache struct {
	workers   []models.Worker
	positions []models.JobPosition
	rateCard  []models.RateCardEntry
}

// snapshot copies the cached slices so callers can iterate them after
// the registry lock is released. Mutations only ever touch the live
// cache under the write lock.
func (c *cache) snapshot() *cache {
	return &cache{
		workers:   append([]models.Worker(nil), c.workers...),
		positions: append([]models.JobPosition(nil), c.positions...),
		rateCard:  append([]models.RateCardEntry(nil), c.rateCard...),
	}
}

// New constructs a Registry.
func New(provider store.Provider, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *Registry {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		provider:  provider,
		audit:     audit,
		validator: validate,
		logger:    logger,
		caches:    make(map[string]*cache),
	}
}

// Refresh reloads the namespace's master data in full from the store.
// Called on session establishment and lazily on first access.
func (r *Registry) Refresh(ctx context.Context, session models.Session) error {
	st := r.provider.Scope(session.Namespace)

	workerRecs, err := st.GetAll(ctx, store.CollectionWorkers)
	if err != nil {
		return appErrors.FromError(err)
	}
	positionRecs, err := st.GetAll(ctx, store.CollectionJobPositions)
	if err != nil {
		return appErrors.FromError(err)
	}
	rateRecs, err := st.GetAll(ctx, store.CollectionRateCard)
	if err != nil {
		return appErrors.FromError(err)
	}

	c := &cache{
		workers:   make([]models.Worker, 0, len(workerRecs)),
		positions: make([]models.JobPosition, 0, len(positionRecs)),
		rateCard:  make([]models.RateCardEntry, 0, len(rateRecs)),
	}
	for _, rec := range workerRecs {
		c.workers = append(c.workers, store.WorkerFromRecord(rec))
	}
	for _, rec := range positionRecs {
		c.positions = append(c.positions, store.JobPositionFromRecord(rec))
	}
	for _, rec := range rateRecs {
		c.rateCard = append(c.rateCard, store.RateCardEntryFromRecord(rec))
	}

	r.mu.Lock()
	r.caches[session.Namespace] = c
	r.mu.Unlock()
	return nil
}

// getCache returns an isolated snapshot of the namespace's master data,
// loading it on first access. Readers never see the live slices.
func (r *Registry) getCache(ctx context.Context, session models.Session) (*cache, error) {
	r.mu.RLock()
	if c, ok := r.caches[session.Namespace]; ok {
		snap := c.snapshot()
		r.mu.RUnlock()
		return snap, nil
	}
	r.mu.RUnlock()

	if err := r.Refresh(ctx, session); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.caches[session.Namespace]
	if !ok {
		return &cache{}, nil
	}
	return c.snapshot(), nil
}

func (r *Registry) mutateCache(session models.Session, fn func(*cache)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.caches[session.Namespace]; ok {
		fn(c)
	}
}

// ResolveRate returns the piece rate for a task name at this instant.
// When several rate card rows share a task name the first match in cache
// order wins; when none matches, a zero rate is substituted and ok is
// false so callers can flag the entry for review. Work is never blocked
// on missing rate configuration.
func (r *Registry) ResolveRate(ctx context.Context, session models.Session, taskName string) (float64, bool, error) {
	c, err := r.getCache(ctx, session)
	if err != nil {
		return 0, false, err
	}
	for _, entry := range c.rateCard {
		if entry.TaskName == taskName {
			return entry.Rate, true, nil
		}
	}
	return 0, false, nil
}
