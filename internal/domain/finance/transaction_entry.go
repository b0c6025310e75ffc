package finance

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionEntry is a persisted income or expense line
type TransactionEntry struct {
	shared.BaseAggregateRoot
	PaymentType PaymentType
	PaymentMode PaymentMode
	Amount      decimal.Decimal
	PaymentDate time.Time
	CreditDebit CreditDebit
	ClientName  string
	Notes       string
	RecordedBy  *int64
}

// NewTransactionEntry creates an entry from a prepared submission
func NewTransactionEntry(p *PreparedTransaction, recordedBy *int64) *TransactionEntry {
	e := &TransactionEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RecordedBy:        recordedBy,
	}
	e.assign(p)
	return e
}

// Apply replaces the entry's values with a freshly prepared submission
func (e *TransactionEntry) Apply(p *PreparedTransaction) {
	e.assign(p)
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// Form returns the entry as form values, the starting point for an edit
func (e *TransactionEntry) Form() TransactionForm {
	return TransactionForm{
		PaymentType: e.PaymentType.String(),
		PaymentMode: e.PaymentMode.String(),
		Amount:      e.Amount.String(),
		PaymentDate: e.PaymentDate.Format(DateLayout),
		ClientName:  e.ClientName,
		Notes:       e.Notes,
	}
}

// IsCredit reports whether the entry is on the credit side
func (e *TransactionEntry) IsCredit() bool {
	return e.CreditDebit == Credit
}

func (e *TransactionEntry) assign(p *PreparedTransaction) {
	e.PaymentType = p.PaymentType
	e.PaymentMode = p.PaymentMode
	e.Amount = p.Amount
	e.PaymentDate = p.PaymentDate
	// derived again so a stale classification can never survive
	e.CreditDebit = p.PaymentType.CreditDebit()
	e.ClientName = p.ClientName
	e.Notes = p.Notes
}
