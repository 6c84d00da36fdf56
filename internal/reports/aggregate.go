// Package reports derives payroll, productivity, quality and balance
// figures from already-fetched ledger data. The aggregation functions
// are pure: no I/O, no side effects.
package reports

import (
	"sort"
	"time"

	"github.com/minkhant-dev/piecerate-api/internal/models"
)

const dateLayout = "2006-01-02"

// WorkerPayroll is one row of the payroll report.
type WorkerPayroll struct {
	WorkerName string  `json:"worker_name"`
	TotalPay   float64 `json:"total_pay"`
}

// ShiftProductivity sums completed units per shift. A shift with no
// entries reports zero.
type ShiftProductivity struct {
	Day   int `json:"day"`
	Night int `json:"night"`
}

// TaskDefects is one row of the defect distribution report.
type TaskDefects struct {
	TaskName     string `json:"task_name"`
	TotalDefects int    `json:"total_defects"`
}

// FilterByDateRange keeps entries whose date falls inside the inclusive
// range. A nil bound leaves that side unbounded. Comparison is
// day-granular: the start bound is taken at 00:00:00 and the end bound
// at 23:59:59 of its calendar day.
func FilterByDateRange(entries []models.ProductionEntry, start, end *time.Time) []models.ProductionEntry {
	if start == nil && end == nil {
		return entries
	}

	var lo, hi time.Time
	if start != nil {
		lo = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	}
	if end != nil {
		hi = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)
	}

	out := make([]models.ProductionEntry, 0, len(entries))
	for _, entry := range entries {
		d, err := time.ParseInLocation(dateLayout, entry.Date, time.UTC)
		if err != nil {
			continue
		}
		if start != nil && d.Before(lo) {
			continue
		}
		if end != nil && d.After(hi) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// PayrollByWorker groups entries by worker name and sums base pay,
// sorted by total descending. Ties keep first-seen order.
func PayrollByWorker(entries []models.ProductionEntry) []WorkerPayroll {
	totals := make(map[string]float64)
	var order []string
	for _, entry := range entries {
		if _, seen := totals[entry.WorkerName]; !seen {
			order = append(order, entry.WorkerName)
		}
		totals[entry.WorkerName] += entry.BasePay
	}

	out := make([]WorkerPayroll, 0, len(order))
	for _, name := range order {
		out = append(out, WorkerPayroll{WorkerName: name, TotalPay: totals[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPay > out[j].TotalPay
	})
	return out
}

// ProductivityByShift sums completed quantities per shift.
func ProductivityByShift(entries []models.ProductionEntry) ShiftProductivity {
	var p ShiftProductivity
	for _, entry := range entries {
		switch entry.Shift {
		case models.ShiftDay:
			p.Day += entry.CompletedQuantity
		case models.ShiftNight:
			p.Night += entry.CompletedQuantity
		}
	}
	return p
}

// DefectsByTask sums defect quantities per task, keeping only tasks with
// at least one defect, sorted by total descending.
func DefectsByTask(entries []models.ProductionEntry) []TaskDefects {
	totals := make(map[string]int)
	var order []string
	for _, entry := range entries {
		if entry.DefectQuantity <= 0 {
			continue
		}
		if _, seen := totals[entry.TaskName]; !seen {
			order = append(order, entry.TaskName)
		}
		totals[entry.TaskName] += entry.DefectQuantity
	}

	out := make([]TaskDefects, 0, len(order))
	for _, name := range order {
		out = append(out, TaskDefects{TaskName: name, TotalDefects: totals[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalDefects > out[j].TotalDefects
	})
	return out
}

// OutstandingBalance is cumulative earned pay minus cumulative payments
// for whatever subset the caller passes in. A negative result means
// overpayment and is reported as-is, never clamped.
func OutstandingBalance(entries []models.ProductionEntry, payments []models.PaymentLog) float64 {
	var earned, paid float64
	for _, entry := range entries {
		earned += entry.BasePay
	}
	for _, payment := range payments {
		paid += payment.Amount
	}
	return earned - paid
}
