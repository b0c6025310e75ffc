package finance

import (
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() TransactionForm {
	return TransactionForm{
		PaymentType: "Received",
		PaymentMode: "Cash",
		Amount:      "150.25",
		PaymentDate: "2024-03-15",
		ClientName:  " Acme ",
		Notes:       "deposit",
	}
}

func TestPaymentType_CreditDebit(t *testing.T) {
	tests := []struct {
		paymentType PaymentType
		want        CreditDebit
	}{
		{PaymentTypeReceived, Credit},
		{PaymentTypeRefunds, Credit},
		{PaymentTypeExpenses, Debit},
		{PaymentTypePayments, Debit},
	}

	for _, tt := range tests {
		t.Run(tt.paymentType.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.paymentType.CreditDebit())

			form := validForm()
			form.PaymentType = tt.paymentType.String()
			prepared, err := PrepareSubmission(form)
			require.NoError(t, err)
			assert.Equal(t, tt.want, prepared.CreditDebit)
		})
	}
}

func TestPrepareSubmission(t *testing.T) {
	t.Run("normalizes a valid form", func(t *testing.T) {
		prepared, err := PrepareSubmission(validForm())

		require.NoError(t, err)
		assert.Equal(t, PaymentTypeReceived, prepared.PaymentType)
		assert.Equal(t, PaymentModeCash, prepared.PaymentMode)
		assert.True(t, prepared.Amount.Equal(decimal.RequireFromString("150.25")))
		assert.Equal(t, "2024-03-15", prepared.PaymentDateISO())
		assert.Equal(t, "Acme", prepared.ClientName)
		assert.Equal(t, "deposit", prepared.Notes)
	})

	t.Run("accepts any letter case for enums", func(t *testing.T) {
		form := validForm()
		form.PaymentType = "refunds"
		form.PaymentMode = "ONLINE"

		prepared, err := PrepareSubmission(form)
		require.NoError(t, err)
		assert.Equal(t, PaymentTypeRefunds, prepared.PaymentType)
		assert.Equal(t, PaymentModeOnline, prepared.PaymentMode)
	})

	t.Run("accepts zero amount", func(t *testing.T) {
		form := validForm()
		form.Amount = "0"

		prepared, err := PrepareSubmission(form)
		require.NoError(t, err)
		assert.True(t, prepared.Amount.IsZero())
	})

	t.Run("accepts the widest stored amount", func(t *testing.T) {
		for _, raw := range []string{"99999999999999.9999", "1.50000", "0.0001"} {
			form := validForm()
			form.Amount = raw

			prepared, err := PrepareSubmission(form)
			require.NoError(t, err, raw)
			assert.True(t, prepared.Amount.Equal(decimal.RequireFromString(raw)), raw)
		}
	})

	t.Run("keeps the date part of a timestamp", func(t *testing.T) {
		form := validForm()
		form.PaymentDate = "2024-03-15T18:30:00Z"

		prepared, err := PrepareSubmission(form)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-15", prepared.PaymentDateISO())
	})

	failures := []struct {
		name  string
		edit  func(f *TransactionForm)
		field string
	}{
		{"missing payment type", func(f *TransactionForm) { f.PaymentType = "" }, "payment_type"},
		{"unknown payment type", func(f *TransactionForm) { f.PaymentType = "Gift" }, "payment_type"},
		{"missing payment mode", func(f *TransactionForm) { f.PaymentMode = " " }, "payment_mode"},
		{"unknown payment mode", func(f *TransactionForm) { f.PaymentMode = "Barter" }, "payment_mode"},
		{"missing amount", func(f *TransactionForm) { f.Amount = "" }, "amount"},
		{"negative amount", func(f *TransactionForm) { f.Amount = "-0.01" }, "amount"},
		{"non-numeric amount", func(f *TransactionForm) { f.Amount = "ten" }, "amount"},
		{"sub-cent amount", func(f *TransactionForm) { f.Amount = "0.00001" }, "amount"},
		{"amount beyond the column", func(f *TransactionForm) { f.Amount = "1e20" }, "amount"},
		{"amount with 15 integer digits", func(f *TransactionForm) { f.Amount = "123456789012345.6789" }, "amount"},
		{"missing payment date", func(f *TransactionForm) { f.PaymentDate = "" }, "payment_date"},
		{"impossible payment date", func(f *TransactionForm) { f.PaymentDate = "2024-02-30" }, "payment_date"},
		{"garbage payment date", func(f *TransactionForm) { f.PaymentDate = "yesterday" }, "payment_date"},
	}

	for _, tt := range failures {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			form := validForm()
			tt.edit(&form)

			prepared, err := PrepareSubmission(form)
			assert.Nil(t, prepared)

			verr, ok := err.(*shared.ValidationError)
			require.True(t, ok)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}

	t.Run("reports failures in field order", func(t *testing.T) {
		prepared, err := PrepareSubmission(TransactionForm{})
		assert.Nil(t, prepared)

		verr, ok := err.(*shared.ValidationError)
		require.True(t, ok)
		fields := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, f.Field)
		}
		assert.Equal(t, []string{"payment_type", "payment_mode", "amount", "payment_date"}, fields)
	})
}

func TestNewTransactionForm(t *testing.T) {
	today := time.Date(2025, 7, 4, 15, 0, 0, 0, time.UTC)

	form := NewTransactionForm(today)

	assert.Equal(t, "2025-07-04", form.PaymentDate)
	assert.Empty(t, form.PaymentType)

	// a default form still needs type, mode and amount
	_, err := PrepareSubmission(form)
	verr, ok := err.(*shared.ValidationError)
	require.True(t, ok)
	assert.False(t, verr.HasField("payment_date"))
	assert.Len(t, verr.Fields, 3)
}

func TestTransactionEntry_Apply(t *testing.T) {
	form := validForm()
	form.PaymentType = "Expenses"
	prepared, err := PrepareSubmission(form)
	require.NoError(t, err)

	recordedBy := int64(1)
	entry := NewTransactionEntry(prepared, &recordedBy)
	assert.Equal(t, Debit, entry.CreditDebit)
	assert.False(t, entry.IsCredit())

	edited := entry.Form()
	edited.PaymentType = "Refunds"
	reprepared, err := PrepareSubmission(edited)
	require.NoError(t, err)

	entry.Apply(reprepared)

	assert.Equal(t, PaymentTypeRefunds, entry.PaymentType)
	assert.Equal(t, Credit, entry.CreditDebit)
	assert.Equal(t, 2, entry.GetVersion())
	assert.Equal(t, "2024-03-15", entry.Form().PaymentDate)
}

func TestTransactionEntry_ApplyIgnoresStaleClassification(t *testing.T) {
	prepared := &PreparedTransaction{
		PaymentType: PaymentTypePayments,
		PaymentMode: PaymentModeCheque,
		Amount:      decimal.NewFromInt(10),
		PaymentDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CreditDebit: Credit,
	}

	entry := NewTransactionEntry(prepared, nil)

	assert.Equal(t, Debit, entry.CreditDebit)
}

func TestParsePaymentType(t *testing.T) {
	got, ok := ParsePaymentType(" refunds ")
	assert.True(t, ok)
	assert.Equal(t, PaymentTypeRefunds, got)

	_, ok = ParsePaymentType("gift")
	assert.False(t, ok)
}
