package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/minkhant-dev/piecerate-api/internal/models"
)

// ClientRepository provides control-database access to client accounts.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// FindByID returns a client account by identifier.
func (r *ClientRepository) FindByID(ctx context.Context, id string) (*models.ClientAccount, error) {
	const query = `SELECT id, client_name, subscription_status, trial_end_date, owner_password_hash, created_at, updated_at FROM clients WHERE id = $1 LIMIT 1`
	var account models.ClientAccount
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find client by id: %w", err)
	}
	return &account, nil
}

// List returns every client account ordered by creation date.
func (r *ClientRepository) List(ctx context.Context) ([]models.ClientAccount, error) {
	const query = `SELECT id, client_name, subscription_status, trial_end_date, owner_password_hash, created_at, updated_at FROM clients ORDER BY created_at`
	accounts := make([]models.ClientAccount, 0)
	if err := r.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return accounts, nil
}

// UpdateSubscription changes the subscription status and trial end date
// for a client account.
func (r *ClientRepository) UpdateSubscription(ctx context.Context, id string, status models.SubscriptionStatus, trialEnd *time.Time, updatedAt time.Time) error {
	const query = `UPDATE clients SET subscription_status = $2, trial_end_date = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, trialEnd, updatedAt)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update subscription rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
