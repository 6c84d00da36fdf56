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

// CreateJobPositionRequest is the payload for adding a job position.
type CreateJobPositionRequest struct {
	ID          string `json:"id"`
	EnglishName string `json:"english_name" validate:"required"`
	LocalName   string `json:"local_name"`
	Notes       string `json:"notes"`
}

// UpdateJobPositionRequest is the payload for editing a job position.
// Edits are keyed by id, never by display name; names are mutable and
// not unique across time.
type UpdateJobPositionRequest struct {
	EnglishName string `json:"english_name" validate:"required"`
	LocalName   string `json:"local_name"`
	Notes       string `json:"notes"`
}

// ListJobPositions returns the cached job positions.
func (r *Registry) ListJobPositions(ctx context.Context, session models.Session) ([]models.JobPosition, error) {
	c, err := r.getCache(ctx, session)
	if err != nil {
		return nil, err
	}
	out := make([]models.JobPosition, len(c.positions))
	copy(out, c.positions)
	return out, nil
}

// AddJobPosition persists and caches a new job position.
func (r *Registry) AddJobPosition(ctx context.Context, session models.Session, req CreateJobPositionRequest) (*models.JobPosition, error) {
	if err := r.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid job position payload")
	}

	position := models.JobPosition{
		ID:          strings.TrimSpace(req.ID),
		EnglishName: strings.TrimSpace(req.EnglishName),
		LocalName:   strings.TrimSpace(req.LocalName),
		Notes:       strings.TrimSpace(req.Notes),
	}
	if position.ID == "" {
		position.ID = uuid.NewString()
	}

	if _, err := r.provider.Scope(session.Namespace).Add(ctx, store.CollectionJobPositions, store.JobPositionRecord(position)); err != nil {
		return nil, appErrors.FromError(err)
	}
	r.mutateCache(session, func(c *cache) {
		c.positions = append(c.positions, position)
	})

	r.audit.Record(ctx, session, models.AuditActionCreate, models.AuditTargetJobPosition,
		fmt.Sprintf("Added job position '%s' (ID: %s)", position.EnglishName, position.ID))
	return &position, nil
}

// UpdateJobPosition edits an existing job position by id.
func (r *Registry) UpdateJobPosition(ctx context.Context, session models.Session, id string, req UpdateJobPositionRequest) (*models.JobPosition, error) {
	if err := r.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid job position payload")
	}

	position := models.JobPosition{
		ID:          id,
		EnglishName: strings.TrimSpace(req.EnglishName),
		LocalName:   strings.TrimSpace(req.LocalName),
		Notes:       strings.TrimSpace(req.Notes),
	}

	if err := r.provider.Scope(session.Namespace).Update(ctx, store.CollectionJobPositions, store.JobPositionRecord(position)); err != nil {
		return nil, appErrors.FromError(err)
	}
	r.mutateCache(session, func(c *cache) {
		for i := range c.positions {
			if c.positions[i].ID == id {
				c.positions[i] = position
				break
			}
		}
	})

	r.audit.Record(ctx, session, models.AuditActionUpdate, models.AuditTargetJobPosition,
		fmt.Sprintf("Updated job position '%s' (ID: %s)", position.EnglishName, position.ID))
	return &position, nil
}

// DeleteJobPosition removes a job position by id. Workers still pointing
// at it keep their positionId; readers render the dangling reference as
// an unknown position.
func (r *Registry) DeleteJobPosition(ctx context.Context, session models.Session, id string) error {
	name := "N/A"
	if c, err := r.getCache(ctx, session); err == nil {
		for _, p := range c.positions {
			if p.ID == id {
				name = p.EnglishName
				break
			}
		}
	}

	if err := r.provider.Scope(session.Namespace).Delete(ctx, store.CollectionJobPositions, id); err != nil {
		return appErrors.FromError(err)
	}
	r.mutateCache(session, func(c *cache) {
		for i := range c.positions {
			if c.positions[i].ID == id {
				c.positions = append(c.positions[:i], c.positions[i+1:]...)
				break
			}
		}
	})

	r.audit.Record(ctx, session, models.AuditActionDelete, models.AuditTargetJobPosition,
		fmt.Sprintf("Deleted job position %s: %s", id, name))
	return nil
}
