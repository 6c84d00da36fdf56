package models

// AuditAction constants represent the mutation kinds recorded in the trail.
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
)

// AuditTarget constants identify the entity kind a mutation touched.
const (
	AuditTargetProductionEntry = "PRODUCTION_ENTRY"
	AuditTargetWorker          = "WORKER"
	AuditTargetRateCard        = "RATE_CARD"
	AuditTargetJobPosition     = "JOB_POSITION"
	AuditTargetPaymentLog      = "PAYMENT_LOG"
)

// AuditEntry is an append-only trail record. No code path edits or
// deletes one once written.
type AuditEntry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"` // ISO-8601
	Actor     string `json:"actor"`     // role of the acting user
	Action    string `json:"action"`
	Target    string `json:"target"`
	Details   string `json:"details"`
}
