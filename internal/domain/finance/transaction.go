package finance

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DateLayout is the ISO-8601 calendar date format used on the wire and in storage
const DateLayout = "2006-01-02"

// PaymentType is the declared kind of a transaction entry
type PaymentType string

const (
	PaymentTypeReceived PaymentType = "Received"
	PaymentTypeExpenses PaymentType = "Expenses"
	PaymentTypePayments PaymentType = "Payments"
	PaymentTypeRefunds  PaymentType = "Refunds"
)

// IsValid checks if the type is one of the allowed payment types
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeReceived, PaymentTypeExpenses, PaymentTypePayments, PaymentTypeRefunds:
		return true
	}
	return false
}

// String returns the string representation of PaymentType
func (t PaymentType) String() string {
	return string(t)
}

// ParsePaymentType matches a payment type in any letter case
func ParsePaymentType(raw string) (PaymentType, bool) {
	t := PaymentType(canonical(raw))
	return t, t.IsValid()
}

// CreditDebit derives the accounting side of the type.
// Received and Refunds are credits; everything else is a debit.
func (t PaymentType) CreditDebit() CreditDebit {
	switch t {
	case PaymentTypeReceived, PaymentTypeRefunds:
		return Credit
	default:
		return Debit
	}
}

// PaymentMode is how the money moved
type PaymentMode string

const (
	PaymentModeOnline PaymentMode = "Online"
	PaymentModeCash   PaymentMode = "Cash"
	PaymentModeCheque PaymentMode = "Cheque"
)

// IsValid checks if the mode is one of the allowed payment modes
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeOnline, PaymentModeCash, PaymentModeCheque:
		return true
	}
	return false
}

// String returns the string representation of PaymentMode
func (m PaymentMode) String() string {
	return string(m)
}

// CreditDebit is the accounting classification of an entry
type CreditDebit string

const (
	Credit CreditDebit = "credit"
	Debit  CreditDebit = "debit"
)

// IsValid checks if the value is credit or debit
func (c CreditDebit) IsValid() bool {
	return c == Credit || c == Debit
}

// String returns the string representation of CreditDebit
func (c CreditDebit) String() string {
	return string(c)
}

// TransactionForm carries raw form values as the user entered them
type TransactionForm struct {
	PaymentType string
	PaymentMode string
	Amount      string
	PaymentDate string
	ClientName  string
	Notes       string
}

// NewTransactionForm returns a blank form whose payment date defaults to the given day
func NewTransactionForm(today time.Time) TransactionForm {
	return TransactionForm{PaymentDate: today.Format(DateLayout)}
}

// PreparedTransaction is a validated, classified entry ready for persistence
type PreparedTransaction struct {
	PaymentType PaymentType
	PaymentMode PaymentMode
	Amount      decimal.Decimal
	PaymentDate time.Time
	CreditDebit CreditDebit
	ClientName  string
	Notes       string
}

// Fingerprint identifies the normalized submission, so equal forms hash alike
// regardless of letter case, whitespace or trailing zeros.
func (p PreparedTransaction) Fingerprint() string {
	h := sha256.New()
	for _, part := range []string{
		p.PaymentType.String(),
		p.PaymentMode.String(),
		p.Amount.String(),
		p.PaymentDateISO(),
		p.ClientName,
		p.Notes,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0x1f})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// PaymentDateISO returns the payment date as an ISO-8601 calendar date
func (p PreparedTransaction) PaymentDateISO() string {
	return p.PaymentDate.Format(DateLayout)
}

// PrepareSubmission validates a form and classifies it.
// Fields are checked in order: payment_type, payment_mode, amount, payment_date.
// Every failing field is reported and nothing is returned on failure.
// The credit/debit side is always derived from the payment type.
func PrepareSubmission(form TransactionForm) (*PreparedTransaction, error) {
	verr := &shared.ValidationError{}

	paymentType := PaymentType(canonical(form.PaymentType))
	switch {
	case paymentType == "":
		verr.Add("payment_type", "is required")
	case !paymentType.IsValid():
		verr.Add("payment_type", "must be one of Received, Expenses, Payments, Refunds")
	}

	paymentMode := PaymentMode(canonical(form.PaymentMode))
	switch {
	case paymentMode == "":
		verr.Add("payment_mode", "is required")
	case !paymentMode.IsValid():
		verr.Add("payment_mode", "must be one of Online, Cash, Cheque")
	}

	amount, amountMsg := parseAmount(form.Amount)
	if amountMsg != "" {
		verr.Add("amount", amountMsg)
	}

	paymentDate, dateMsg := parseDate(form.PaymentDate)
	if dateMsg != "" {
		verr.Add("payment_date", dateMsg)
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &PreparedTransaction{
		PaymentType: paymentType,
		PaymentMode: paymentMode,
		Amount:      amount,
		PaymentDate: paymentDate,
		CreditDebit: paymentType.CreditDebit(),
		ClientName:  strings.TrimSpace(form.ClientName),
		Notes:       strings.TrimSpace(form.Notes),
	}, nil
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	// a Caser keeps state, so one is built per call
	return cases.Title(language.English).String(strings.ToLower(v))
}

// Amounts are stored as DECIMAL(18,4).
const (
	amountScale     = 4
	amountPrecision = 18
)

var maxAmount = decimal.New(1, amountPrecision-amountScale)

func parseAmount(raw string) (decimal.Decimal, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, "is required"
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, "must be a number"
	}
	if amount.IsNegative() {
		return decimal.Zero, "must be greater than or equal to 0"
	}
	if !amount.Equal(amount.Truncate(amountScale)) {
		return decimal.Zero, "cannot have more than 4 decimal places"
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return decimal.Zero, "cannot exceed 14 integer digits"
	}
	return amount, ""
}

// parseDate accepts a calendar date or an RFC 3339 timestamp and keeps the date part
func parseDate(raw string) (time.Time, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, "is required"
	}
	if d, err := time.Parse(DateLayout, raw); err == nil {
		return d, ""
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), ""
	}
	return time.Time{}, "must be a valid date (YYYY-MM-DD)"
}
