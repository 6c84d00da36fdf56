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

// CreateRateCardEntryRequest is the payload for adding a rate card row.
type CreateRateCardEntryRequest struct {
	ID       string  `json:"id"`
	TaskName string  `json:"task_name" validate:"required"`
	Unit     string  `json:"unit" validate:"required"`
	Rate     float64 `json:"rate" validate:"gte=0"`
}

// UpdateRateCardEntryRequest is the payload for editing a rate card row.
type UpdateRateCardEntryRequest struct {
	TaskName string  `json:"task_name" validate:"required"`
	Unit     string  `json:"unit" validate:"required"`
	Rate     float64 `json:"rate" validate:"gte=0"`
}

// ListRateCard returns the cached rate card in stable insertion order.
func (r *Registry) ListRateCard(ctx context.Context, session models.Session) ([]models.RateCardEntry, error) {
	c, err := r.getCache(ctx, session)
	if err != nil {
		return nil, err
	}
	out := make([]models.RateCardEntry, len(c.rateCard))
	copy(out, c.rateCard)
	return out, nil
}

// AddRateCardEntry persists and caches a new rate card row. Rate edits
// never touch production entries already logged; those carry frozen
// copies of the rate in effect when they were created.
func (r *Registry) AddRateCardEntry(ctx context.Context, session models.Session, req CreateRateCardEntryRequest) (*models.RateCardEntry, error) {
	if err := r.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rate card payload")
	}

	entry := models.RateCardEntry{
		ID:       strings.TrimSpace(req.ID),
		TaskName: strings.TrimSpace(req.TaskName),
		Unit:     strings.TrimSpace(req.Unit),
		Rate:     req.Rate,
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	if _, err := r.provider.Scope(session.Namespace).Add(ctx, store.CollectionRateCard, store.RateCardEntryRecord(entry)); err != nil {
		return nil, appErrors.FromError(err)
	}
	r.mutateCache(session, func(c *cache) {
		c.rateCard = append(c.rateCard, entry)
	})

	r.audit.Record(ctx, session, models.AuditActionCreate, models.AuditTargetRateCard,
		fmt.Sprintf("Added task '%s'", entry.TaskName))
	return &entry, nil
}

// UpdateRateCardEntry edits an existing rate card row by id.
func (r *Registry) UpdateRateCardEntry(ctx context.Context, session models.Session, id string, req UpdateRateCardEntryRequest) (*models.RateCardEntry, error) {
	if err := r.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rate card payload")
	}

	entry := models.RateCardEntry{
		ID:       id,
		TaskName: strings.TrimSpace(req.TaskName),
		Unit:     strings.TrimSpace(req.Unit),
		Rate:     req.Rate,
	}

	if err := r.provider.Scope(session.Namespace).Update(ctx, store.CollectionRateCard, store.RateCardEntryRecord(entry)); err != nil {
		return nil, appErrors.FromError(err)
	}
	r.mutateCache(session, func(c *cache) {
		for i := range c.rateCard {
			if c.rateCard[i].ID == id {
				c.rateCard[i] = entry
				break
			}
		}
	})

	r.audit.Record(ctx, session, models.AuditActionUpdate, models.AuditTargetRateCard,
		fmt.Sprintf("Updated task '%s'", entry.TaskName))
	return &entry, nil
}

// DeleteRateCardEntry removes a rate card row by id.
func (r *Registry) DeleteRateCardEntry(ctx context.Context, session models.Session, id string) error {
	name := "N/A"
	if c, err := r.getCache(ctx, session); err == nil {
		for _, entry := range c.rateCard {
			if entry.ID == id {
				name = entry.TaskName
				break
			}
		}
	}

	if err := r.provider.Scope(session.Namespace).Delete(ctx, store.CollectionRateCard, id); err != nil {
		return appErrors.FromError(err)
	}
	r.mutateCache(session, func(c *cache) {
		for i := range c.rateCard {
			if c.rateCard[i].ID == id {
				c.rateCard = append(c.rateCard[:i], c.rateCard[i+1:]...)
				break
			}
		}
	})

	r.audit.Record(ctx, session, models.AuditActionDelete, models.AuditTargetRateCard,
		fmt.Sprintf("Deleted task %s: %s", id, name))
	return nil
}
