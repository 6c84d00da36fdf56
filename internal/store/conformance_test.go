package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minkhant-dev/piecerate-api/pkg/config"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
)

func TestMemoryStoreConformance(t *testing.T) {
	runStoreConformance(t, NewMemoryProvider(nil))
}

func TestMongoStoreConformance(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	provider, err := NewMongoProvider(ctx, config.StoreConfig{
		MongoURI:  uri,
		MongoDB:   fmt.Sprintf("piecerate_conformance_%d", time.Now().UnixNano()),
		OpTimeout: 10 * time.Second,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		_ = provider.Close(closeCtx)
	})

	runStoreConformance(t, provider)
}

// runStoreConformance drives one operation sequence against a backend
// and asserts the observable behavior both implementations must share:
// error taxonomy, idempotent Add, Update/Delete semantics, namespace
// isolation and the (sortKey desc, id desc) page walk. Field values
// stay strings and floats so they round-trip identically through BSON.
func runStoreConformance(t *testing.T, provider Provider) {
	t.Helper()

	t.Run("EmptyNamespaceIsUnready", func(t *testing.T) {
		st := provider.Scope("")

		_, err := st.GetAll(context.Background(), CollectionWorkers)
		assert.True(t, appErrors.Is(err, appErrors.ErrNotReady))
		_, err = st.GetPage(context.Background(), CollectionWorkers, PageRequest{PageSize: 10, SortKey: "date"})
		assert.True(t, appErrors.Is(err, appErrors.ErrNotReady))
		_, err = st.Add(context.Background(), CollectionWorkers, Record{ID: "x"})
		assert.True(t, appErrors.Is(err, appErrors.ErrNotReady))
		assert.True(t, appErrors.Is(st.Update(context.Background(), CollectionWorkers, Record{ID: "x"}), appErrors.ErrNotReady))
		assert.True(t, appErrors.Is(st.Delete(context.Background(), CollectionWorkers, "x"), appErrors.ErrNotReady))
	})

	t.Run("AddRequiresID", func(t *testing.T) {
		st := provider.Scope(conformanceNamespace("add-id"))
		_, err := st.Add(context.Background(), CollectionPaymentLogs, Record{Fields: map[string]any{"amount": 1.0}})
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	})

	t.Run("CRUDSequence", func(t *testing.T) {
		st := provider.Scope(conformanceNamespace("crud"))
		collection := CollectionPaymentLogs

		for i := 1; i <= 5; i++ {
			_, err := st.Add(context.Background(), collection, Record{
				ID: fmt.Sprintf("r%04d", i),
				Fields: map[string]any{
					"date":   fmt.Sprintf("2024-02-%02d", i),
					"amount": float64(i * 100),
				},
			})
			require.NoError(t, err)
		}

		all, err := st.GetAll(context.Background(), collection)
		require.NoError(t, err)
		require.Len(t, all, 5)

		// Re-adding an existing id replaces it without duplicating.
		_, err = st.Add(context.Background(), collection, Record{
			ID:     "r0003",
			Fields: map[string]any{"date": "2024-02-03", "amount": 999.0},
		})
		require.NoError(t, err)

		all, err = st.GetAll(context.Background(), collection)
		require.NoError(t, err)
		require.Len(t, all, 5)
		assert.Equal(t, 999.0, getFloat(findRecord(t, all, "r0003").Fields, "amount"))

		err = st.Update(context.Background(), collection, Record{
			ID:     "r0002",
			Fields: map[string]any{"date": "2024-02-02", "amount": 250.0},
		})
		require.NoError(t, err)

		err = st.Update(context.Background(), collection, Record{ID: "ghost", Fields: map[string]any{"date": "2024-02-02"}})
		assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

		require.NoError(t, st.Delete(context.Background(), collection, "r0004"))
		assert.True(t, appErrors.Is(st.Delete(context.Background(), collection, "r0004"), appErrors.ErrNotFound))

		all, err = st.GetAll(context.Background(), collection)
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, 250.0, getFloat(findRecord(t, all, "r0002").Fields, "amount"))
	})

	t.Run("NamespaceIsolation", func(t *testing.T) {
		nsA := conformanceNamespace("iso-a")
		nsB := conformanceNamespace("iso-b")

		_, err := provider.Scope(nsA).Add(context.Background(), CollectionWorkers, Record{
			ID: "w1", Fields: map[string]any{"name": "only in A"},
		})
		require.NoError(t, err)

		other, err := provider.Scope(nsB).GetAll(context.Background(), CollectionWorkers)
		require.NoError(t, err)
		assert.Len(t, other, 0)
	})

	t.Run("PageWalk", func(t *testing.T) {
		st := provider.Scope(conformanceNamespace("walk"))
		collection := CollectionProductionEntries

		// Paired dates so the id tie-break is exercised on every page.
		for i := 0; i < 23; i++ {
			_, err := st.Add(context.Background(), collection, Record{
				ID: fmt.Sprintf("e%04d", i),
				Fields: map[string]any{
					"date":    fmt.Sprintf("2024-03-%02d", i/2+1),
					"basePay": float64(i),
				},
			})
			require.NoError(t, err)
		}

		var walked []Record
		var sizes []int
		cursor := ""
		for {
			page, err := st.GetPage(context.Background(), collection, PageRequest{
				PageSize: 10,
				SortKey:  "date",
				Cursor:   cursor,
			})
			require.NoError(t, err)
			walked = append(walked, page.Items...)
			sizes = append(sizes, len(page.Items))
			if page.NextCursor == "" {
				break
			}
			cursor = page.NextCursor
		}

		assert.Equal(t, []int{10, 10, 3}, sizes)

		seen := make(map[string]bool, len(walked))
		for _, rec := range walked {
			assert.False(t, seen[rec.ID], "record %s returned twice", rec.ID)
			seen[rec.ID] = true
		}
		require.Len(t, walked, 23)

		for i := 1; i < len(walked); i++ {
			prevDate := getString(walked[i-1].Fields, "date")
			curDate := getString(walked[i].Fields, "date")
			if prevDate == curDate {
				assert.Greater(t, walked[i-1].ID, walked[i].ID)
			} else {
				assert.Greater(t, prevDate, curDate)
			}
		}
	})

	t.Run("PageValidation", func(t *testing.T) {
		st := provider.Scope(conformanceNamespace("page-validation"))

		_, err := st.GetPage(context.Background(), CollectionProductionEntries, PageRequest{PageSize: 0, SortKey: "date"})
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

		_, err = st.GetPage(context.Background(), CollectionProductionEntries, PageRequest{
			PageSize: 10,
			SortKey:  "date",
			Cursor:   "not-a-cursor",
		})
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	})
}

func findRecord(t *testing.T, records []Record, id string) Record {
	t.Helper()
	for _, rec := range records {
		if rec.ID == id {
			return rec
		}
	}
	t.Fatalf("record %s not found", id)
	return Record{}
}

// conformanceNamespace keeps reruns against a real backend from seeing
// records left behind by a previous run.
func conformanceNamespace(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
