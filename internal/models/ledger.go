package models

// Shift identifies the working shift of a production entry.
type Shift string

const (
	ShiftDay   Shift = "Day"
	ShiftNight Shift = "Night"
)

// Valid reports whether the shift is one of the two known values.
func (s Shift) Valid() bool {
	return s == ShiftDay || s == ShiftNight
}

// ProductionEntry is an append-only fact. WorkerName and TaskName are
// denormalized snapshots taken at creation time, not live foreign keys.
// PieceRate, BasePay and DeductionAmount are frozen at creation and are
// never recomputed; later rate-card edits must not alter history.
type ProductionEntry struct {
	ID                string  `json:"id"`
	Date              string  `json:"date"` // YYYY-MM-DD
	Shift             Shift   `json:"shift"`
	WorkerName        string  `json:"worker_name"`
	TaskName          string  `json:"task_name"`
	CompletedQuantity int     `json:"completed_quantity"`
	DefectQuantity    int     `json:"defect_quantity"`
	PieceRate         float64 `json:"piece_rate"`
	BasePay           float64 `json:"base_pay"`
	DeductionAmount   float64 `json:"deduction_amount"`
}

// PaymentLog is an append-only record of money paid out to a worker.
type PaymentLog struct {
	ID         string  `json:"id"`
	WorkerID   string  `json:"worker_id"`
	WorkerName string  `json:"worker_name"` // snapshot
	Date       string  `json:"date"`        // YYYY-MM-DD
	Amount     float64 `json:"amount"`
	Notes      string  `json:"notes,omitempty"`
}
