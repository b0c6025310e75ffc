package finance

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/crm/backend/internal/domain/finance"
)

// TransactionFormRequest carries raw form values. Amount is a string so that
// "12.50" and 12.50 are read the same way and no precision is lost.
type TransactionFormRequest struct {
	PaymentType string    `json:"payment_type"`
	PaymentMode string    `json:"payment_mode"`
	Amount      FormValue `json:"amount"`
	PaymentDate string    `json:"payment_date"`
	ClientName  string    `json:"client_name" binding:"max=200"`
	Notes       string    `json:"notes" binding:"max=2000"`
}

// FormValue is a form field that accepts a JSON string, number or null.
// Whatever was sent is kept verbatim for the domain validator.
type FormValue string

// UnmarshalJSON implements json.Unmarshaler
func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	*v = FormValue(data)
	return nil
}

// ToForm converts the request into a domain form
func (r TransactionFormRequest) ToForm() finance.TransactionForm {
	return finance.TransactionForm{
		PaymentType: r.PaymentType,
		PaymentMode: r.PaymentMode,
		Amount:      string(r.Amount),
		PaymentDate: r.PaymentDate,
		ClientName:  r.ClientName,
		Notes:       r.Notes,
	}
}

// TransactionFormResponse is a blank or prefilled form
type TransactionFormResponse struct {
	PaymentType  string   `json:"payment_type"`
	PaymentMode  string   `json:"payment_mode"`
	Amount       string   `json:"amount"`
	PaymentDate  string   `json:"payment_date"`
	ClientName   string   `json:"client_name"`
	Notes        string   `json:"notes"`
	PaymentTypes []string `json:"payment_types"`
	PaymentModes []string `json:"payment_modes"`
}

// PreparedTransactionResponse is a validated, classified submission
type PreparedTransactionResponse struct {
	PaymentType        string `json:"payment_type"`
	PaymentMode        string `json:"payment_mode"`
	Amount             string `json:"amount"`
	PaymentDate        string `json:"payment_date"`
	PaymentCreditDebit string `json:"payment_credit_debit"`
	ClientName         string `json:"client_name,omitempty"`
	Notes              string `json:"notes,omitempty"`
}

// TransactionResponse represents a stored entry
type TransactionResponse struct {
	ID                 int64     `json:"id"`
	PaymentType        string    `json:"payment_type"`
	PaymentMode        string    `json:"payment_mode"`
	Amount             string    `json:"amount"`
	PaymentDate        string    `json:"payment_date"`
	PaymentCreditDebit string    `json:"payment_credit_debit"`
	ClientName         string    `json:"client_name,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	RecordedBy         *int64    `json:"recorded_by,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TransactionListFilter represents filter options for the transaction list.
// Dates are ISO calendar dates.
type TransactionListFilter struct {
	PaymentType        string `form:"payment_type"`
	PaymentCreditDebit string `form:"payment_credit_debit"`
	From               string `form:"from"`
	To                 string `form:"to"`
	Search             string `form:"search"`
	Page               int    `form:"page" binding:"min=0"`
	PageSize           int    `form:"page_size" binding:"min=0,max=100"`
}

var (
	paymentTypes = []string{
		finance.PaymentTypeReceived.String(),
		finance.PaymentTypeExpenses.String(),
		finance.PaymentTypePayments.String(),
		finance.PaymentTypeRefunds.String(),
	}
	paymentModes = []string{
		finance.PaymentModeOnline.String(),
		finance.PaymentModeCash.String(),
		finance.PaymentModeCheque.String(),
	}
)

// ToFormResponse converts a domain form, listing the allowed choices
func ToFormResponse(f finance.TransactionForm) TransactionFormResponse {
	return TransactionFormResponse{
		PaymentType:  f.PaymentType,
		PaymentMode:  f.PaymentMode,
		Amount:       f.Amount,
		PaymentDate:  f.PaymentDate,
		ClientName:   f.ClientName,
		Notes:        f.Notes,
		PaymentTypes: paymentTypes,
		PaymentModes: paymentModes,
	}
}

// ToPreparedResponse converts a prepared submission
func ToPreparedResponse(p *finance.PreparedTransaction) PreparedTransactionResponse {
	return PreparedTransactionResponse{
		PaymentType:        p.PaymentType.String(),
		PaymentMode:        p.PaymentMode.String(),
		Amount:             p.Amount.String(),
		PaymentDate:        p.PaymentDateISO(),
		PaymentCreditDebit: p.CreditDebit.String(),
		ClientName:         p.ClientName,
		Notes:              p.Notes,
	}
}

// ToTransactionResponse converts a stored entry
func ToTransactionResponse(e *finance.TransactionEntry) TransactionResponse {
	return TransactionResponse{
		ID:                 e.ID,
		PaymentType:        e.PaymentType.String(),
		PaymentMode:        e.PaymentMode.String(),
		Amount:             e.Amount.String(),
		PaymentDate:        e.PaymentDate.Format(finance.DateLayout),
		PaymentCreditDebit: e.CreditDebit.String(),
		ClientName:         e.ClientName,
		Notes:              e.Notes,
		RecordedBy:         e.RecordedBy,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}
