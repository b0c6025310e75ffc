package persistence

import (
	"context"

	applead "github.com/crm/backend/internal/application/lead"
	"github.com/crm/backend/internal/domain/lead"
	"gorm.io/gorm"
)

// GormLeadTransactionScope implements the lead TransactionScope using GORM transactions
type GormLeadTransactionScope struct {
	db *gorm.DB
}

// NewGormLeadTransactionScope creates a new GormLeadTransactionScope
func NewGormLeadTransactionScope(db *gorm.DB) *GormLeadTransactionScope {
	return &GormLeadTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// An error from fn rolls the transaction back and is returned unchanged.
func (s *GormLeadTransactionScope) Execute(ctx context.Context, fn func(repos applead.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLeadRepositories{tx: tx})
	})
}

type gormLeadRepositories struct {
	tx *gorm.DB
}

func (r *gormLeadRepositories) LeadRepo() lead.LeadRepository {
	return NewGormLeadRepository(r.tx)
}

func (r *gormLeadRepositories) NoteRepo() lead.NoteRepository {
	return NewGormNoteRepository(r.tx)
}

var _ applead.TransactionScope = (*GormLeadTransactionScope)(nil)
