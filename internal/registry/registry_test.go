package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minkhant-dev/piecerate-api/internal/models"
	"github.com/minkhant-dev/piecerate-api/internal/store"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
)

type recordedAudit struct {
	Action  string
	Target  string
	Details string
}

type fakeAudit struct {
	entries []recordedAudit
}

func (f *fakeAudit) Record(_ context.Context, _ models.Session, action, target, details string) {
	f.entries = append(f.entries, recordedAudit{Action: action, Target: target, Details: details})
}

func newTestRegistry(t *testing.T) (*Registry, *fakeAudit, models.Session) {
	t.Helper()
	audit := &fakeAudit{}
	reg := New(store.NewMemoryProvider(store.SeedData), audit, nil, nil)
	return reg, audit, models.Session{Namespace: "tenant-a", Role: models.RoleOwner}
}

func TestRefreshLoadsSeedData(t *testing.T) {
	reg, _, session := newTestRegistry(t)
	require.NoError(t, reg.Refresh(context.Background(), session))

	workers, err := reg.ListWorkers(context.Background(), session)
	require.NoError(t, err)
	assert.Len(t, workers, 6)

	rateCard, err := reg.ListRateCard(context.Background(), session)
	require.NoError(t, err)
	assert.Len(t, rateCard, 5)

	positions, err := reg.ListJobPositions(context.Background(), session)
	require.NoError(t, err)
	assert.Len(t, positions, 6)
}

func TestListWorkersResolvesPositionNames(t *testing.T) {
	reg, _, session := newTestRegistry(t)

	workers, err := reg.ListWorkers(context.Background(), session)
	require.NoError(t, err)

	byID := make(map[string]WorkerView, len(workers))
	for _, w := range workers {
		byID[w.ID] = w
	}
	require.Contains(t, byID, "W001")
	assert.NotEmpty(t, byID["W001"].PositionName)
	assert.NotEqual(t, UnknownPositionName, byID["W001"].PositionName)
}

func TestDanglingPositionRendersUnknown(t *testing.T) {
	reg, _, session := newTestRegistry(t)

	worker, err := reg.AddWorker(context.Background(), session, CreateWorkerRequest{
		Name:       "Drifter",
		PositionID: "P999",
	})
	require.NoError(t, err)

	workers, err := reg.ListWorkers(context.Background(), session)
	require.NoError(t, err)
	for _, w := range workers {
		if w.ID == worker.ID {
			assert.Equal(t, UnknownPositionName, w.PositionName)
			return
		}
	}
	t.Fatalf("worker %s not listed", worker.ID)
}

func TestAddWorkerValidation(t *testing.T) {
	reg, audit, session := newTestRegistry(t)

	_, err := reg.AddWorker(context.Background(), session, CreateWorkerRequest{Name: "", PositionID: "P01"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, audit.entries)
}

func TestWorkerCRUDRecordsAudit(t *testing.T) {
	reg, audit, session := newTestRegistry(t)

	worker, err := reg.AddWorker(context.Background(), session, CreateWorkerRequest{ID: "W100", Name: "Mya Mya", PositionID: "P01"})
	require.NoError(t, err)
	assert.Equal(t, "W100", worker.ID)

	_, err = reg.UpdateWorker(context.Background(), session, "W100", UpdateWorkerRequest{Name: "Mya Mya Win", PositionID: "P02"})
	require.NoError(t, err)

	require.NoError(t, reg.DeleteWorker(context.Background(), session, "W100"))

	require.Len(t, audit.entries, 3)
	assert.Equal(t, models.AuditActionCreate, audit.entries[0].Action)
	assert.Equal(t, models.AuditTargetWorker, audit.entries[0].Target)
	assert.Contains(t, audit.entries[0].Details, "Mya Mya")
	assert.Equal(t, models.AuditActionUpdate, audit.entries[1].Action)
	assert.Equal(t, models.AuditActionDelete, audit.entries[2].Action)
	assert.Contains(t, audit.entries[2].Details, "Mya Mya Win")
}

func TestUpdateMissingWorker(t *testing.T) {
	reg, _, session := newTestRegistry(t)

	_, err := reg.UpdateWorker(context.Background(), session, "ghost", UpdateWorkerRequest{Name: "Nobody", PositionID: "P01"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestGetWorker(t *testing.T) {
	reg, _, session := newTestRegistry(t)

	worker, err := reg.GetWorker(context.Background(), session, "W001")
	require.NoError(t, err)
	assert.Equal(t, "Aung Aung", worker.Name)

	_, err = reg.GetWorker(context.Background(), session, "ghost")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestResolveRateKnownTask(t *testing.T) {
	reg, _, session := newTestRegistry(t)

	rate, ok, err := reg.ResolveRate(context.Background(), session, "Weaving - Pattern A")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 150.0, rate)
}

func TestResolveRateUnknownTask(t *testing.T) {
	reg, _, session := newTestRegistry(t)

	rate, ok, err := reg.ResolveRate(context.Background(), session, "No Such Task")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, rate)
}

func TestResolveRateFirstMatchWins(t *testing.T) {
	reg, _, session := newTestRegistry(t)

	_, err := reg.AddRateCardEntry(context.Background(), session, CreateRateCardEntryRequest{
		ID: "T99", TaskName: "Weaving - Pattern A", Unit: "piece", Rate: 999,
	})
	require.NoError(t, err)

	rate, ok, err := reg.ResolveRate(context.Background(), session, "Weaving - Pattern A")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 150.0, rate, "earlier rate card row should win")
}

func TestRateCardRejectsNegativeRate(t *testing.T) {
	reg, _, session := newTestRegistry(t)

	_, err := reg.AddRateCardEntry(context.Background(), session, CreateRateCardEntryRequest{
		TaskName: "Bad Task", Unit: "piece", Rate: -1,
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestNotReadyNamespacePropagates(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	_, err := reg.ListWorkers(context.Background(), models.Session{Namespace: "", Role: models.RoleOwner})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotReady))
}

func TestJobPositionDeleteDoesNotCascade(t *testing.T) {
	reg, _, session := newTestRegistry(t)

	require.NoError(t, reg.DeleteJobPosition(context.Background(), session, "P01"))

	workers, err := reg.ListWorkers(context.Background(), session)
	require.NoError(t, err)

	var orphan bool
	for _, w := range workers {
		if w.PositionID == "P01" {
			orphan = true
			assert.Equal(t, UnknownPositionName, w.PositionName)
		}
	}
	assert.True(t, orphan, "seed data should leave at least one worker referencing P01")
}

func TestConcurrentRateEditsAndResolves(t *testing.T) {
	reg, _, session := newTestRegistry(t)
	require.NoError(t, reg.Refresh(context.Background(), session))

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if _, _, err := reg.ResolveRate(context.Background(), session, "Weaving - Pattern A"); err != nil {
					t.Error(err)
					return
				}
				if _, err := reg.ListWorkers(context.Background(), session); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		_, err := reg.AddRateCardEntry(context.Background(), session, CreateRateCardEntryRequest{
			TaskName: fmt.Sprintf("Dyeing batch %d", i),
			Unit:     "kg",
			Rate:     float64(i + 1),
		})
		require.NoError(t, err)
	}
	close(done)
	wg.Wait()

	rate, ok, err := reg.ResolveRate(context.Background(), session, "Dyeing batch 49")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 50.0, rate)
}
