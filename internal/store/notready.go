package store

import (
	"context"

	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
)

// notReadyStore is handed out when no client namespace has been
// established. Every operation fails the same way.
type notReadyStore struct{}

// Unready returns a store whose operations all fail with NOT_READY.
func Unready() Store {
	return notReadyStore{}
}

func (notReadyStore) GetAll(context.Context, string) ([]Record, error) {
	return nil, appErrors.ErrNotReady
}

func (notReadyStore) GetPage(context.Context, string, PageRequest) (*Page, error) {
	return nil, appErrors.ErrNotReady
}

func (notReadyStore) Add(context.Context, string, Record) (Record, error) {
	return Record{}, appErrors.ErrNotReady
}

func (notReadyStore) Update(context.Context, string, Record) error {
	return appErrors.ErrNotReady
}

func (notReadyStore) Delete(context.Context, string, string) error {
	return appErrors.ErrNotReady
}
