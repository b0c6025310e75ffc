package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/finance"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveTestEntry(t *testing.T, repo *GormTransactionRepository, form finance.TransactionForm) *finance.TransactionEntry {
	t.Helper()
	prepared, err := finance.PrepareSubmission(form)
	require.NoError(t, err)
	entry := finance.NewTransactionEntry(prepared, nil)
	require.NoError(t, repo.Save(context.Background(), entry))
	return entry
}

func TestGormTransactionRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	entry := saveTestEntry(t, repo, finance.TransactionForm{
		PaymentType: "received",
		PaymentMode: "cash",
		Amount:      "150.50",
		PaymentDate: "2024-03-15",
		ClientName:  "Acme",
	})
	assert.Positive(t, entry.ID)

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.PaymentTypeReceived, found.PaymentType)
	assert.Equal(t, finance.PaymentModeCash, found.PaymentMode)
	assert.Equal(t, finance.Credit, found.CreditDebit)
	assert.True(t, decimal.RequireFromString("150.5").Equal(found.Amount))
	assert.Equal(t, "2024-03-15", found.PaymentDate.Format(finance.DateLayout))
	assert.Equal(t, "Acme", found.ClientName)
}

func TestGormTransactionRepository_UpdateRecomputesSide(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	entry := saveTestEntry(t, repo, finance.TransactionForm{
		PaymentType: "Expenses", PaymentMode: "Online", Amount: "20", PaymentDate: "2024-03-01",
	})
	assert.Equal(t, finance.Debit, entry.CreditDebit)

	form := entry.Form()
	form.PaymentType = "Refunds"
	prepared, err := finance.PrepareSubmission(form)
	require.NoError(t, err)
	entry.Apply(prepared)
	require.NoError(t, repo.Save(ctx, entry))

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.PaymentTypeRefunds, found.PaymentType)
	assert.Equal(t, finance.Credit, found.CreditDebit)
}

func TestGormTransactionRepository_FindAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	march := saveTestEntry(t, repo, finance.TransactionForm{
		PaymentType: "Received", PaymentMode: "Cash", Amount: "10", PaymentDate: "2024-03-10", ClientName: "Acme",
	})
	april := saveTestEntry(t, repo, finance.TransactionForm{
		PaymentType: "Payments", PaymentMode: "Cheque", Amount: "30", PaymentDate: "2024-04-02", Notes: "rent",
	})
	may := saveTestEntry(t, repo, finance.TransactionForm{
		PaymentType: "Refunds", PaymentMode: "Online", Amount: "5", PaymentDate: "2024-05-20", ClientName: "Globex",
	})

	t.Run("newest payment date first", func(t *testing.T) {
		entries, total, err := repo.FindAll(ctx, finance.TransactionFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, entries, 3)
		assert.Equal(t, may.ID, entries[0].ID)
		assert.Equal(t, april.ID, entries[1].ID)
		assert.Equal(t, march.ID, entries[2].ID)
	})

	t.Run("filters by side", func(t *testing.T) {
		credit := finance.Credit
		entries, total, err := repo.FindAll(ctx, finance.TransactionFilter{CreditDebit: &credit})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, entries, 2)
	})

	t.Run("filters by type", func(t *testing.T) {
		paymentType := finance.PaymentTypePayments
		entries, _, err := repo.FindAll(ctx, finance.TransactionFilter{PaymentType: &paymentType})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, april.ID, entries[0].ID)
	})

	t.Run("filters by date range", func(t *testing.T) {
		from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)
		entries, _, err := repo.FindAll(ctx, finance.TransactionFilter{From: &from, To: &to})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, april.ID, entries[0].ID)
	})

	t.Run("searches client name and notes", func(t *testing.T) {
		entries, _, err := repo.FindAll(ctx, finance.TransactionFilter{Search: "GLOBEX"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, may.ID, entries[0].ID)
	})

	t.Run("paginates", func(t *testing.T) {
		entries, total, err := repo.FindAll(ctx, finance.TransactionFilter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, entries, 1)
		assert.Equal(t, march.ID, entries[0].ID)
	})
}

func TestGormTransactionRepository_DeleteIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	entry := saveTestEntry(t, repo, finance.TransactionForm{
		PaymentType: "Received", PaymentMode: "Cash", Amount: "0", PaymentDate: "2024-03-10",
	})

	require.NoError(t, repo.Delete(ctx, entry.ID))
	require.NoError(t, repo.Delete(ctx, entry.ID))

	_, err := repo.FindByID(ctx, entry.ID)
	assert.True(t, shared.IsNotFound(err))
}
