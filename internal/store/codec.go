package store

import (
	"github.com/minkhant-dev/piecerate-api/internal/models"
)

// Storage field names follow the historical document schema; they are
// decoupled from the JSON names the API serves.

func WorkerRecord(w models.Worker) Record {
	return Record{ID: w.ID, Fields: map[string]any{
		"name":       w.Name,
		"positionId": w.PositionID,
	}}
}

func WorkerFromRecord(rec Record) models.Worker {
	return models.Worker{
		ID:         rec.ID,
		Name:       getString(rec.Fields, "name"),
		PositionID: getString(rec.Fields, "positionId"),
	}
}

func JobPositionRecord(p models.JobPosition) Record {
	return Record{ID: p.ID, Fields: map[string]any{
		"englishName": p.EnglishName,
		"localName":   p.LocalName,
		"notes":       p.Notes,
	}}
}

func JobPositionFromRecord(rec Record) models.JobPosition {
	return models.JobPosition{
		ID:          rec.ID,
		EnglishName: getString(rec.Fields, "englishName"),
		LocalName:   getString(rec.Fields, "localName"),
		Notes:       getString(rec.Fields, "notes"),
	}
}

func RateCardEntryRecord(r models.RateCardEntry) Record {
	return Record{ID: r.ID, Fields: map[string]any{
		"taskName": r.TaskName,
		"unit":     r.Unit,
		"rate":     r.Rate,
	}}
}

func RateCardEntryFromRecord(rec Record) models.RateCardEntry {
	return models.RateCardEntry{
		ID:       rec.ID,
		TaskName: getString(rec.Fields, "taskName"),
		Unit:     getString(rec.Fields, "unit"),
		Rate:     getFloat(rec.Fields, "rate"),
	}
}

func ProductionEntryRecord(e models.ProductionEntry) Record {
	return Record{ID: e.ID, Fields: map[string]any{
		"date":              e.Date,
		"shift":             string(e.Shift),
		"workerName":        e.WorkerName,
		"taskName":          e.TaskName,
		"completedQuantity": e.CompletedQuantity,
		"defectQuantity":    e.DefectQuantity,
		"pieceRate":         e.PieceRate,
		"basePay":           e.BasePay,
		"deductionAmount":   e.DeductionAmount,
	}}
}

func ProductionEntryFromRecord(rec Record) models.ProductionEntry {
	return models.ProductionEntry{
		ID:                rec.ID,
		Date:              getString(rec.Fields, "date"),
		Shift:             models.Shift(getString(rec.Fields, "shift")),
		WorkerName:        getString(rec.Fields, "workerName"),
		TaskName:          getString(rec.Fields, "taskName"),
		CompletedQuantity: getInt(rec.Fields, "completedQuantity"),
		DefectQuantity:    getInt(rec.Fields, "defectQuantity"),
		PieceRate:         getFloat(rec.Fields, "pieceRate"),
		BasePay:           getFloat(rec.Fields, "basePay"),
		DeductionAmount:   getFloat(rec.Fields, "deductionAmount"),
	}
}

func PaymentLogRecord(p models.PaymentLog) Record {
	return Record{ID: p.ID, Fields: map[string]any{
		"workerId":   p.WorkerID,
		"workerName": p.WorkerName,
		"date":       p.Date,
		"amount":     p.Amount,
		"notes":      p.Notes,
	}}
}

func PaymentLogFromRecord(rec Record) models.PaymentLog {
	return models.PaymentLog{
		ID:         rec.ID,
		WorkerID:   getString(rec.Fields, "workerId"),
		WorkerName: getString(rec.Fields, "workerName"),
		Date:       getString(rec.Fields, "date"),
		Amount:     getFloat(rec.Fields, "amount"),
		Notes:      getString(rec.Fields, "notes"),
	}
}

func AuditEntryRecord(e models.AuditEntry) Record {
	return Record{ID: e.ID, Fields: map[string]any{
		"timestamp": e.Timestamp,
		"actor":     e.Actor,
		"action":    e.Action,
		"target":    e.Target,
		"details":   e.Details,
	}}
}

func AuditEntryFromRecord(rec Record) models.AuditEntry {
	return models.AuditEntry{
		ID:        rec.ID,
		Timestamp: getString(rec.Fields, "timestamp"),
		Actor:     getString(rec.Fields, "actor"),
		Action:    getString(rec.Fields, "action"),
		Target:    getString(rec.Fields, "target"),
		Details:   getString(rec.Fields, "details"),
	}
}

func getString(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

// getFloat tolerates the numeric types the BSON decoder may produce.
func getFloat(fields map[string]any, key string) float64 {
	if f, ok := asFloat(fields[key]); ok {
		return f
	}
	return 0
}

func getInt(fields map[string]any, key string) int {
	if f, ok := asFloat(fields[key]); ok {
		return int(f)
	}
	return 0
}
