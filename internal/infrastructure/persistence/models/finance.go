package models

import (
	"time"

	"github.com/crm/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// TransactionEntryModel is the persistence model for the TransactionEntry domain entity.
type TransactionEntryModel struct {
	AggregateModel
	PaymentType        finance.PaymentType `gorm:"type:varchar(20);not null;index"`
	PaymentMode        finance.PaymentMode `gorm:"type:varchar(20);not null"`
	Amount             decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	PaymentDate        time.Time           `gorm:"type:date;not null;index"`
	PaymentCreditDebit finance.CreditDebit `gorm:"column:payment_credit_debit;type:varchar(10);not null;index"`
	ClientName         string              `gorm:"type:varchar(200)"`
	Notes              string              `gorm:"type:text"`
	RecordedBy         *int64              `gorm:"index"`
}

// TableName returns the table name for GORM
func (TransactionEntryModel) TableName() string {
	return "transaction_entries"
}

// ToDomain converts the persistence model to a domain TransactionEntry entity.
func (m *TransactionEntryModel) ToDomain() *finance.TransactionEntry {
	return &finance.TransactionEntry{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		PaymentType:       m.PaymentType,
		PaymentMode:       m.PaymentMode,
		Amount:            m.Amount,
		PaymentDate:       m.PaymentDate.UTC(),
		CreditDebit:       m.PaymentCreditDebit,
		ClientName:        m.ClientName,
		Notes:             m.Notes,
		RecordedBy:        m.RecordedBy,
	}
}

// FromDomain populates the persistence model from a domain TransactionEntry entity.
func (m *TransactionEntryModel) FromDomain(e *finance.TransactionEntry) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.PaymentType = e.PaymentType
	m.PaymentMode = e.PaymentMode
	m.Amount = e.Amount
	m.PaymentDate = e.PaymentDate
	m.PaymentCreditDebit = e.CreditDebit
	m.ClientName = e.ClientName
	m.Notes = e.Notes
	m.RecordedBy = e.RecordedBy
}

// TransactionEntryModelFromDomain creates a new persistence model from a domain entity.
func TransactionEntryModelFromDomain(e *finance.TransactionEntry) *TransactionEntryModel {
	m := &TransactionEntryModel{}
	m.FromDomain(e)
	return m
}
