package repository

import (
	"fmt"

	"gorm.io/gorm"

	"factoryfloor/internal/domain"
)

// unavailable reports a store that was never opened.
func unavailable(store string) error {
	return fmt.Errorf("%s store: %w", store, domain.ErrStoreUnavailable)
}

// readFailed wraps a read error from an external store so callers can treat
// it like an unreachable store.
func readFailed(store string, err error) error {
	return fmt.Errorf("%s store: %w: %w", store, domain.ErrStoreUnavailable, err)
}

func ready(db *gorm.DB, store string) error {
	if db == nil {
		return unavailable(store)
	}
	return nil
}
