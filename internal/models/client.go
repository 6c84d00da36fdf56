package models

import "time"

// SubscriptionStatus captures the entitlement state of a client account.
type SubscriptionStatus string

const (
	SubscriptionTrial   SubscriptionStatus = "TRIAL"
	SubscriptionPaid    SubscriptionStatus = "PAID"
	SubscriptionExpired SubscriptionStatus = "EXPIRED"
)

// ClientAccount is a control-plane record: one row per tenant namespace.
// Trial accounts carry a trial end date after which every ledger
// operation for the namespace is rejected.
type ClientAccount struct {
	ID                 string             `db:"id" json:"id"`
	ClientName         string             `db:"client_name" json:"client_name"`
	SubscriptionStatus SubscriptionStatus `db:"subscription_status" json:"subscription_status"`
	TrialEndDate       *time.Time         `db:"trial_end_date" json:"trial_end_date,omitempty"`
	OwnerPasswordHash  string             `db:"owner_password_hash" json:"-"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updated_at"`
}

// Entitled reports whether the account may use the ledger at the given
// instant. TRIAL accounts with no end date are treated as entitled.
func (a *ClientAccount) Entitled(now time.Time) bool {
	switch a.SubscriptionStatus {
	case SubscriptionPaid:
		return true
	case SubscriptionTrial:
		return a.TrialEndDate == nil || now.Before(*a.TrialEndDate)
	default:
		return false
	}
}
