package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minkhant-dev/piecerate-api/internal/models"
)

func entry(worker, task, date string, shift models.Shift, basePay float64, completed, defects int) models.ProductionEntry {
	return models.ProductionEntry{
		WorkerName:        worker,
		TaskName:          task,
		Date:              date,
		Shift:             shift,
		BasePay:           basePay,
		CompletedQuantity: completed,
		DefectQuantity:    defects,
	}
}

func payment(workerID string, amount float64) models.PaymentLog {
	return models.PaymentLog{WorkerID: workerID, Amount: amount}
}

func TestFilterByDateRange(t *testing.T) {
	entries := []models.ProductionEntry{
		entry("A", "T", "2024-03-01", models.ShiftDay, 100, 1, 0),
		entry("A", "T", "2024-03-15", models.ShiftDay, 100, 1, 0),
		entry("A", "T", "2024-03-31", models.ShiftDay, 100, 1, 0),
		entry("A", "T", "not-a-date", models.ShiftDay, 100, 1, 0),
	}

	all := FilterByDateRange(entries, nil, nil)
	assert.Len(t, all, 4, "unbounded filter passes everything through")

	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	mid := FilterByDateRange(entries, &start, &end)
	require.Len(t, mid, 2)
	assert.Equal(t, "2024-03-15", mid[0].Date)
	assert.Equal(t, "2024-03-31", mid[1].Date, "end bound is inclusive")

	onlyEnd := FilterByDateRange(entries, nil, &start)
	require.Len(t, onlyEnd, 1)
	assert.Equal(t, "2024-03-01", onlyEnd[0].Date)
}

func TestPayrollByWorkerSortsDescending(t *testing.T) {
	entries := []models.ProductionEntry{
		entry("Aung Aung", "T", "2024-03-01", models.ShiftDay, 5000, 10, 0),
		entry("Hla Hla", "T", "2024-03-01", models.ShiftDay, 9000, 10, 0),
		entry("Aung Aung", "T", "2024-03-02", models.ShiftDay, 3000, 10, 0),
	}

	payroll := PayrollByWorker(entries)
	require.Len(t, payroll, 2)
	assert.Equal(t, WorkerPayroll{WorkerName: "Hla Hla", TotalPay: 9000}, payroll[0])
	assert.Equal(t, WorkerPayroll{WorkerName: "Aung Aung", TotalPay: 8000}, payroll[1])
}

func TestPayrollByWorkerTiesKeepFirstSeenOrder(t *testing.T) {
	entries := []models.ProductionEntry{
		entry("First", "T", "2024-03-01", models.ShiftDay, 1000, 1, 0),
		entry("Second", "T", "2024-03-01", models.ShiftDay, 1000, 1, 0),
	}

	payroll := PayrollByWorker(entries)
	require.Len(t, payroll, 2)
	assert.Equal(t, "First", payroll[0].WorkerName)
	assert.Equal(t, "Second", payroll[1].WorkerName)
}

func TestProductivityByShift(t *testing.T) {
	entries := []models.ProductionEntry{
		entry("A", "T", "2024-03-01", models.ShiftDay, 0, 40, 0),
		entry("B", "T", "2024-03-01", models.ShiftDay, 0, 60, 0),
		entry("C", "T", "2024-03-01", models.ShiftNight, 0, 30, 0),
	}

	p := ProductivityByShift(entries)
	assert.Equal(t, 100, p.Day)
	assert.Equal(t, 30, p.Night)

	empty := ProductivityByShift(nil)
	assert.Zero(t, empty.Day)
	assert.Zero(t, empty.Night)
}

func TestDefectsByTaskSkipsCleanEntries(t *testing.T) {
	entries := []models.ProductionEntry{
		entry("A", "Weaving", "2024-03-01", models.ShiftDay, 0, 10, 2),
		entry("B", "Weaving", "2024-03-01", models.ShiftDay, 0, 10, 3),
		entry("C", "Dyeing", "2024-03-01", models.ShiftDay, 0, 10, 9),
		entry("D", "Packaging", "2024-03-01", models.ShiftDay, 0, 10, 0),
	}

	defects := DefectsByTask(entries)
	require.Len(t, defects, 2)
	assert.Equal(t, TaskDefects{TaskName: "Dyeing", TotalDefects: 9}, defects[0])
	assert.Equal(t, TaskDefects{TaskName: "Weaving", TotalDefects: 5}, defects[1])
}

func TestOutstandingBalanceLaw(t *testing.T) {
	entries := []models.ProductionEntry{
		entry("Aung Aung", "T", "2024-03-01", models.ShiftDay, 9000, 10, 0),
		entry("Aung Aung", "T", "2024-03-02", models.ShiftDay, 6000, 10, 0),
	}
	payments := []models.PaymentLog{payment("W001", 5000)}

	assert.Equal(t, 10000.0, OutstandingBalance(entries, payments))
	assert.Equal(t, 15000.0, OutstandingBalance(entries, nil), "no payments means balance equals total earned")
	assert.Equal(t, -5000.0, OutstandingBalance(nil, payments), "overpayment stays negative, never clamped")
	assert.Zero(t, OutstandingBalance(nil, nil))
}
