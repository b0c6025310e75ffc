package lead

import (
	"context"

	"github.com/crm/backend/internal/domain/lead"
)

// TransactionScope runs lead and note writes in one database transaction.
// If fn returns an error the transaction is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to repositories sharing the current transaction
type TransactionalRepositories interface {
	LeadRepo() lead.LeadRepository
	NoteRepo() lead.NoteRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// Useful in tests.
type NoOpTransactionScope struct {
	leadRepo lead.LeadRepository
	noteRepo lead.NoteRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(leadRepo lead.LeadRepository, noteRepo lead.NoteRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{leadRepo: leadRepo, noteRepo: noteRepo}
}

// Execute calls fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// LeadRepo returns the lead repository
func (s *NoOpTransactionScope) LeadRepo() lead.LeadRepository {
	return s.leadRepo
}

// NoteRepo returns the note repository
func (s *NoOpTransactionScope) NoteRepo() lead.NoteRepository {
	return s.noteRepo
}
