package store

import (
	"context"
	"sort"
	"sync"

	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
)

// MemoryProvider keeps every namespace's collections in process memory.
// New namespaces are seeded with the fixture master-data set on first
// scope, mirroring what a fresh remote tenant would contain.
type MemoryProvider struct {
	mu         sync.RWMutex
	namespaces map[string]*memoryNamespace
	seed       func() map[string][]Record
}

type memoryNamespace struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	records map[string]Record
	order   []string // insertion order, for stable GetAll iteration
}

// NewMemoryProvider builds a provider seeded with SeedData for each new
// namespace. Pass a nil seed for empty namespaces (tests mostly do).
func NewMemoryProvider(seed func() map[string][]Record) *MemoryProvider {
	return &MemoryProvider{
		namespaces: make(map[string]*memoryNamespace),
		seed:       seed,
	}
}

// Scope returns the store for one namespace, creating and seeding it on
// first use.
func (p *MemoryProvider) Scope(namespace string) Store {
	if namespace == "" {
		return Unready()
	}

	p.mu.Lock()
	ns, ok := p.namespaces[namespace]
	if !ok {
		ns = &memoryNamespace{collections: make(map[string]*memoryCollection)}
		if p.seed != nil {
			for collection, records := range p.seed() {
				col := &memoryCollection{records: make(map[string]Record)}
				for _, rec := range records {
					col.records[rec.ID] = Record{ID: rec.ID, Fields: cloneFields(rec.Fields)}
					col.order = append(col.order, rec.ID)
				}
				ns.collections[collection] = col
			}
		}
		p.namespaces[namespace] = ns
	}
	p.mu.Unlock()

	return &memoryStore{ns: ns}
}

type memoryStore struct {
	ns *memoryNamespace
}

func (s *memoryStore) GetAll(_ context.Context, collection string) ([]Record, error) {
	s.ns.mu.RLock()
	defer s.ns.mu.RUnlock()

	col, ok := s.ns.collections[collection]
	if !ok {
		return []Record{}, nil
	}
	out := make([]Record, 0, len(col.order))
	for _, id := range col.order {
		rec := col.records[id]
		out = append(out, Record{ID: rec.ID, Fields: cloneFields(rec.Fields)})
	}
	return out, nil
}

func (s *memoryStore) GetPage(_ context.Context, collection string, req PageRequest) (*Page, error) {
	if req.PageSize <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "page size must be positive")
	}
	after, err := decodeCursor(req.Cursor)
	if err != nil {
		return nil, err
	}

	s.ns.mu.RLock()
	col, ok := s.ns.collections[collection]
	var all []Record
	if ok {
		all = make([]Record, 0, len(col.order))
		for _, id := range col.order {
			rec := col.records[id]
			all = append(all, Record{ID: rec.ID, Fields: cloneFields(rec.Fields)})
		}
	}
	s.ns.mu.RUnlock()

	// Descending by sort key, id breaking ties, matching the remote
	// backend's ordering exactly.
	sort.SliceStable(all, func(i, j int) bool {
		c := compareSortValues(all[i].Fields[req.SortKey], all[j].Fields[req.SortKey])
		if c != 0 {
			return c > 0
		}
		return all[i].ID > all[j].ID
	})

	start := 0
	if after != nil {
		for i, rec := range all {
			c := compareSortValues(rec.Fields[req.SortKey], after.Key)
			if c < 0 || (c == 0 && rec.ID < after.ID) {
				start = i
				break
			}
			start = len(all)
		}
	}

	end := start + req.PageSize
	if end > len(all) {
		end = len(all)
	}
	items := all[start:end]

	page := &Page{Items: items}
	if end < len(all) && len(items) > 0 {
		last := items[len(items)-1]
		page.NextCursor = encodeCursor(cursor{Key: last.Fields[req.SortKey], ID: last.ID})
	}
	return page, nil
}

func (s *memoryStore) Add(_ context.Context, collection string, rec Record) (Record, error) {
	if rec.ID == "" {
		return Record{}, appErrors.Clone(appErrors.ErrValidation, "record id is required")
	}

	s.ns.mu.Lock()
	defer s.ns.mu.Unlock()

	col, ok := s.ns.collections[collection]
	if !ok {
		col = &memoryCollection{records: make(map[string]Record)}
		s.ns.collections[collection] = col
	}
	if _, exists := col.records[rec.ID]; !exists {
		col.order = append(col.order, rec.ID)
	}
	stored := Record{ID: rec.ID, Fields: cloneFields(rec.Fields)}
	col.records[rec.ID] = stored
	return Record{ID: stored.ID, Fields: cloneFields(stored.Fields)}, nil
}

func (s *memoryStore) Update(_ context.Context, collection string, rec Record) error {
	s.ns.mu.Lock()
	defer s.ns.mu.Unlock()

	col, ok := s.ns.collections[collection]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	if _, exists := col.records[rec.ID]; !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	col.records[rec.ID] = Record{ID: rec.ID, Fields: cloneFields(rec.Fields)}
	return nil
}

func (s *memoryStore) Delete(_ context.Context, collection, id string) error {
	s.ns.mu.Lock()
	defer s.ns.mu.Unlock()

	col, ok := s.ns.collections[collection]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	if _, exists := col.records[id]; !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "record not found")
	}
	delete(col.records, id)
	for i, existing := range col.order {
		if existing == id {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
	return nil
}
