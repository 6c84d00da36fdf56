package models

// JobPosition is a master-data record describing a factory role. Identity
// is always the id; names are mutable display fields and never keys.
type JobPosition struct {
	ID          string `json:"id"`
	EnglishName string `json:"english_name"`
	LocalName   string `json:"local_name"`
	Notes       string `json:"notes"`
}

// Worker is a master-data record. PositionID is a soft reference into
// JobPosition: deleting a position does not cascade, and readers render
// a dangling reference as "unknown position".
type Worker struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PositionID string `json:"position_id"`
}

// RateCardEntry defines the piece rate paid per unit of a task.
type RateCardEntry struct {
	ID       string  `json:"id"`
	TaskName string  `json:"task_name"`
	Unit     string  `json:"unit"`
	Rate     float64 `json:"rate"`
}
