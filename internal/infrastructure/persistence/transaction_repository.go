package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/finance"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds an entry by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id int64) (*finance.TransactionEntry, error) {
	var model models.TransactionEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, storeError("transaction.find", "Transaction", id, err)
	}
	return model.ToDomain(), nil
}

// FindAll returns entries matching the filter, newest payment date first
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter finance.TransactionFilter) ([]finance.TransactionEntry, int64, error) {
	var entryModels []models.TransactionEntryModel
	var total int64

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TransactionEntryModel{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, shared.NewStoreError("transaction.count", err)
	}

	query = query.Order("payment_date DESC").Order("id DESC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, 0, shared.NewStoreError("transaction.list", err)
	}

	entries := make([]finance.TransactionEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = *entryModels[i].ToDomain()
	}
	return entries, total, nil
}

// Save creates or updates an entry
func (r *GormTransactionRepository) Save(ctx context.Context, entry *finance.TransactionEntry) error {
	model := models.TransactionEntryModelFromDomain(entry)

	var err error
	if entry.IsNew() {
		err = r.db.WithContext(ctx).Create(model).Error
	} else {
		err = r.db.WithContext(ctx).Save(model).Error
	}
	if err != nil {
		return shared.NewStoreError("transaction.save", err)
	}

	model.CopyTo(&entry.BaseEntity)
	return nil
}

// Delete removes an entry; a missing entry is not an error
func (r *GormTransactionRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.TransactionEntryModel{}, "id = ?", id).Error; err != nil {
		return shared.NewStoreError("transaction.delete", err)
	}
	return nil
}

func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter finance.TransactionFilter) *gorm.DB {
	if filter.PaymentType != nil {
		query = query.Where("payment_type = ?", *filter.PaymentType)
	}
	if filter.CreditDebit != nil {
		query = query.Where("payment_credit_debit = ?", *filter.CreditDebit)
	}
	if filter.From != nil {
		query = query.Where("payment_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("payment_date <= ?", *filter.To)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(client_name) LIKE ? OR LOWER(notes) LIKE ?", pattern, pattern)
	}
	return query
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ finance.TransactionRepository = (*GormTransactionRepository)(nil)
