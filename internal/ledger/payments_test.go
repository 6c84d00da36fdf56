package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minkhant-dev/piecerate-api/internal/store"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
)

func newPaymentFixture(t *testing.T) (*PaymentService, *noopAudit) {
	t.Helper()
	audit := &noopAudit{}
	svc := NewPaymentService(store.NewMemoryProvider(nil), audit, nil, nil)
	return svc, audit
}

func TestLogPayment(t *testing.T) {
	svc, audit := newPaymentFixture(t)

	payment, err := svc.LogPayment(context.Background(), testSession(), LogPaymentRequest{
		WorkerID:   "W001",
		WorkerName: "Aung Aung",
		Date:       "2024-03-20",
		Amount:     5000,
		Notes:      "weekly payout",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, payment.ID)
	assert.Equal(t, "W001", payment.WorkerID)
	assert.Equal(t, 5000.0, payment.Amount)
	assert.Equal(t, "2024-03-20", payment.Date)
	assert.Equal(t, 1, audit.count)
}

func TestLogPaymentDefaultsDateToToday(t *testing.T) {
	svc, _ := newPaymentFixture(t)
	fixed := time.Date(2024, 3, 21, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	payment, err := svc.LogPayment(context.Background(), testSession(), LogPaymentRequest{
		WorkerID:   "W001",
		WorkerName: "Aung Aung",
		Amount:     2500,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-21", payment.Date)
}

func TestLogPaymentValidation(t *testing.T) {
	svc, audit := newPaymentFixture(t)

	cases := []LogPaymentRequest{
		{WorkerID: "", WorkerName: "Aung Aung", Amount: 100},
		{WorkerID: "W001", WorkerName: "", Amount: 100},
		{WorkerID: "W001", WorkerName: "Aung Aung", Amount: 0},
		{WorkerID: "W001", WorkerName: "Aung Aung", Amount: -50},
		{WorkerID: "W001", WorkerName: "Aung Aung", Amount: 100, Date: "21/03/2024"},
	}
	for i, req := range cases {
		_, err := svc.LogPayment(context.Background(), testSession(), req)
		require.Error(t, err, "case %d", i)
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation), "case %d", i)
	}
	assert.Zero(t, audit.count)
}

func TestPaymentFetchAll(t *testing.T) {
	svc, _ := newPaymentFixture(t)
	session := testSession()

	for _, amount := range []float64{1000, 2000, 3000} {
		_, err := svc.LogPayment(context.Background(), session, LogPaymentRequest{
			WorkerID:   "W001",
			WorkerName: "Aung Aung",
			Date:       "2024-03-20",
			Amount:     amount,
		})
		require.NoError(t, err)
	}

	payments, err := svc.FetchAll(context.Background(), session)
	require.NoError(t, err)
	assert.Len(t, payments, 3)
}
