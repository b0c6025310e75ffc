package finance

import (
	"context"
	"time"
)

// TransactionRepository defines the interface for transaction entry persistence
type TransactionRepository interface {
	// FindByID finds an entry by its ID
	FindByID(ctx context.Context, id int64) (*TransactionEntry, error)

	// FindAll returns entries matching the filter, newest payment date first, with the total count
	FindAll(ctx context.Context, filter TransactionFilter) ([]TransactionEntry, int64, error)

	// Save creates or updates an entry
	Save(ctx context.Context, entry *TransactionEntry) error

	// Delete removes an entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, id int64) error
}

// TransactionFilter narrows a transaction listing
type TransactionFilter struct {
	PaymentType *PaymentType
	CreditDebit *CreditDebit
	From        *time.Time
	To          *time.Time
	Search      string
	Page        int
	PageSize    int
}

// Offset returns the offset for pagination
func (f TransactionFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
