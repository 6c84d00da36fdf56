// Package store implements the document store adapter behind the ledger.
// Two interchangeable backends exist: a remote MongoDB implementation and
// an in-memory one seeded with fixture data. Callers never branch on
// which backend is active; the choice is made once at startup.
package store

import (
	"context"
)

// Collection names, each scoped to a single client namespace.
const (
	CollectionWorkers           = "workers"
	CollectionJobPositions      = "jobPositions"
	CollectionRateCard          = "rateCard"
	CollectionProductionEntries = "productionEntries"
	CollectionPaymentLogs       = "paymentLogs"
	CollectionAuditLog          = "auditLog"
)

// Record is a stored document. The ID is the document key and is never
// duplicated inside Fields.
type Record struct {
	ID     string
	Fields map[string]any
}

// PageRequest describes one page fetch. Cursor is the opaque token from
// the previous page, or empty for the first page.
type PageRequest struct {
	PageSize int
	SortKey  string
	Cursor   string
}

// Page is one window of records plus the continuation token. An empty
// NextCursor means no further pages exist.
type Page struct {
	Items      []Record
	NextCursor string
}

// Store is the uniform contract over both backends. All operations are
// scoped to the namespace the store was built for. Page reads are
// independent snapshots: a concurrent insert may cause a boundary record
// to be omitted or duplicated across pages, which callers must tolerate.
type Store interface {
	GetAll(ctx context.Context, collection string) ([]Record, error)
	GetPage(ctx context.Context, collection string, req PageRequest) (*Page, error)
	Add(ctx context.Context, collection string, rec Record) (Record, error)
	Update(ctx context.Context, collection string, rec Record) error
	Delete(ctx context.Context, collection, id string) error
}

// Provider hands out namespace-scoped stores over one shared backend
// connection. Scoping with an empty namespace yields a store whose every
// operation fails with NOT_READY.
type Provider interface {
	Scope(namespace string) Store
}

func cloneFields(fields map[string]any) map[string]any {
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return cp
}
