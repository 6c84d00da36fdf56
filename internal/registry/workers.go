package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/minkhant-dev/piecerate-api/internal/models"
	"github.com/minkhant-dev/piecerate-api/internal/store"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
)

// CreateWorkerRequest is the payload for registering a worker. The id is
// optional; one is assigned when absent.
type CreateWorkerRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name" validate:"required"`
	PositionID string `json:"position_id" validate:"required"`
}

// UpdateWorkerRequest is the payload for editing a worker.
type UpdateWorkerRequest struct {
	Name       string `json:"name" validate:"required"`
	PositionID string `json:"position_id" validate:"required"`
}

// WorkerView is a worker joined with its resolved position display name.
type WorkerView struct {
	models.Worker
	PositionName string `json:"position_name"`
}

// ListWorkers returns the cached workers with resolved position names.
func (r *Registry) ListWorkers(ctx context.Context, session models.Session) ([]WorkerView, error) {
	c, err := r.getCache(ctx, session)
	if err != nil {
		return nil, err
	}
	views := make([]WorkerView, 0, len(c.workers))
	for _, w := range c.workers {
		views = append(views, WorkerView{Worker: w, PositionName: positionName(c, w.PositionID)})
	}
	return views, nil
}

// GetWorker returns one cached worker by id.
func (r *Registry) GetWorker(ctx context.Context, session models.Session, id string) (*models.Worker, error) {
	c, err := r.getCache(ctx, session)
	if err != nil {
		return nil, err
	}
	for _, w := range c.workers {
		if w.ID == id {
			worker := w
			return &worker, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "worker "+id+" not found")
}

// AddWorker validates, persists and caches a new worker, then records
// the mutation in the audit trail.
func (r *Registry) AddWorker(ctx context.Context, session models.Session, req CreateWorkerRequest) (*models.Worker, error) {
	if err := r.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid worker payload")
	}

	worker := models.Worker{
		ID:         strings.TrimSpace(req.ID),
		Name:       strings.TrimSpace(req.Name),
		PositionID: strings.TrimSpace(req.PositionID),
	}
	if worker.ID == "" {
		worker.ID = uuid.NewString()
	}

	if _, err := r.provider.Scope(session.Namespace).Add(ctx, store.CollectionWorkers, store.WorkerRecord(worker)); err != nil {
		return nil, appErrors.FromError(err)
	}
	r.mutateCache(session, func(c *cache) {
		c.workers = append(c.workers, worker)
	})

	r.audit.Record(ctx, session, models.AuditActionCreate, models.AuditTargetWorker,
		fmt.Sprintf("Added worker %s: %s", worker.ID, worker.Name))
	return &worker, nil
}

// UpdateWorker edits an existing worker, keyed by id.
func (r *Registry) UpdateWorker(ctx context.Context, session models.Session, id string, req UpdateWorkerRequest) (*models.Worker, error) {
	if err := r.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid worker payload")
	}

	worker := models.Worker{
		ID:         id,
		Name:       strings.TrimSpace(req.Name),
		PositionID: strings.TrimSpace(req.PositionID),
	}

	if err := r.provider.Scope(session.Namespace).Update(ctx, store.CollectionWorkers, store.WorkerRecord(worker)); err != nil {
		return nil, appErrors.FromError(err)
	}
	r.mutateCache(session, func(c *cache) {
		for i := range c.workers {
			if c.workers[i].ID == id {
				c.workers[i] = worker
				break
			}
		}
	})

	r.audit.Record(ctx, session, models.AuditActionUpdate, models.AuditTargetWorker,
		fmt.Sprintf("Updated worker %s: %s", worker.ID, worker.Name))
	return &worker, nil
}

// DeleteWorker removes a worker by id. The name is looked up before the
// delete so the audit detail stays readable after the record is gone.
func (r *Registry) DeleteWorker(ctx context.Context, session models.Session, id string) error {
	name := "N/A"
	if c, err := r.getCache(ctx, session); err == nil {
		for _, w := range c.workers {
			if w.ID == id {
				name = w.Name
				break
			}
		}
	}

	if err := r.provider.Scope(session.Namespace).Delete(ctx, store.CollectionWorkers, id); err != nil {
		return appErrors.FromError(err)
	}
	r.mutateCache(session, func(c *cache) {
		for i := range c.workers {
			if c.workers[i].ID == id {
				c.workers = append(c.workers[:i], c.workers[i+1:]...)
				break
			}
		}
	})

	r.audit.Record(ctx, session, models.AuditActionDelete, models.AuditTargetWorker,
		fmt.Sprintf("Deleted worker %s: %s", id, name))
	return nil
}

func positionName(c *cache, positionID string) string {
	for _, p := range c.positions {
		if p.ID == positionID {
			return p.EnglishName
		}
	}
	return UnknownPositionName
}
