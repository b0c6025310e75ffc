package persistence

import (
	"errors"

	"github.com/crm/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// storeError maps a GORM failure to the domain taxonomy.
// Missing rows become not-found errors; everything else is a store error.
func storeError(op, resource string, id int64, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(resource, id)
	}
	return shared.NewStoreError(op, err)
}
