package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetclinic/m/domain"
)

func TestManualOwnerToClinic(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.SaveExpense(domain.Expense{Category: "Rent", Amount: dec("300"), Date: domain.MustDate("2024-01-01")})
	require.NoError(t, err)

	tx, err := l.SaveManualTransaction(ManualTransaction{
		Type: domain.OwnerToClinic, Amount: dec("1000"), Date: domain.MustDate("2024-01-02"),
	})
	require.NoError(t, err)
	assertDec(t, "1000", tx.ClinicAmount)
	assertDec(t, "-1000", tx.OwnerAmount)
	assert.True(t, tx.IsManual)

	l.State().RecomputeRunningBalances()
	txs := l.AccountTransactions()
	require.Len(t, txs, 2)
	assertDec(t, "-300", txs[0].ClinicBalance)
	assertDec(t, "0", txs[0].OwnerBalance)
	assertDec(t, "700", txs[1].ClinicBalance)
	assertDec(t, "-1000", txs[1].OwnerBalance)
}

func TestManualTransactionTypes(t *testing.T) {
	tests := []struct {
		typ           domain.ManualTransactionType
		clinic, owner string
	}{
		{domain.ClinicToOwner, "-50", "50"},
		{domain.OwnerToClinic, "50", "-50"},
		{domain.PersonalSpending, "0", "-50"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			l := newTestLedger(t)
			tx, err := l.SaveManualTransaction(ManualTransaction{Type: tt.typ, Amount: dec("50"), Date: domain.MustDate("2024-01-01")})
			require.NoError(t, err)
			assertDec(t, tt.clinic, tx.ClinicAmount)
			assertDec(t, tt.owner, tx.OwnerAmount)
		})
	}

	l := newTestLedger(t)
	_, err := l.SaveManualTransaction(ManualTransaction{Type: "gift", Amount: dec("1"), Date: domain.MustDate("2024-01-01")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = l.SaveManualTransaction(ManualTransaction{Type: domain.OwnerToClinic, Amount: dec("0"), Date: domain.MustDate("2024-01-01")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecomputeOrdersByDateThenSequence(t *testing.T) {
	st := NewState()
	st.AccountTransactions = []domain.AccountTransaction{
		{ID: "trans#10", Date: domain.MustDate("2024-01-02"), ClinicAmount: dec("5")},
		{ID: "trans#9", Date: domain.MustDate("2024-01-02"), ClinicAmount: dec("-2")},
		{ID: "trans#2", Date: domain.MustDate("2024-01-01"), OwnerAmount: dec("7"), ClinicBalance: dec("999")},
	}

	st.RecomputeRunningBalances()

	ids := []string{st.AccountTransactions[0].ID, st.AccountTransactions[1].ID, st.AccountTransactions[2].ID}
	assert.Equal(t, []string{"trans#2", "trans#9", "trans#10"}, ids)
	assertDec(t, "0", st.AccountTransactions[0].ClinicBalance)
	assertDec(t, "7", st.AccountTransactions[0].OwnerBalance)
	assertDec(t, "-2", st.AccountTransactions[1].ClinicBalance)
	assertDec(t, "3", st.AccountTransactions[2].ClinicBalance)
	assertDec(t, "7", st.AccountTransactions[2].OwnerBalance)
}

// Balances after any sequence of mutations must equal a from-scratch prefix sum.
func TestRecomputeMatchesScratch(t *testing.T) {
	l := newTestLedger(t)
	addProduct(t, l, "P", "1 Box")
	purchase(t, l, "2024-01-03", "P", "10", "10", "60")
	sl := sale(t, l, "2024-01-01", "P", "2", "30", "60")
	_, err := l.SaveManualTransaction(ManualTransaction{Type: domain.ClinicToOwner, Amount: dec("25"), Date: domain.MustDate("2024-01-02")})
	require.NoError(t, err)
	exp, err := l.SaveExpense(domain.Expense{Category: "Power", Amount: dec("15"), Date: domain.MustDate("2024-01-02")})
	require.NoError(t, err)
	require.NoError(t, l.DeleteInvoice(sl.ID))
	_, err = l.SaveExpense(domain.Expense{ID: exp.ID, Category: "Power", Amount: dec("20"), Date: domain.MustDate("2024-01-04")})
	require.NoError(t, err)

	st := l.State()
	st.RecomputeRunningBalances()

	clinic, owner := decimal.Zero, decimal.Zero
	for i, tx := range st.AccountTransactions {
		if i > 0 {
			prev := st.AccountTransactions[i-1]
			require.False(t, tx.Date.Before(prev.Date.Time), "transactions out of order")
		}
		clinic = clinic.Add(tx.ClinicAmount)
		owner = owner.Add(tx.OwnerAmount)
		assertDec(t, clinic.String(), tx.ClinicBalance)
		assertDec(t, owner.String(), tx.OwnerBalance)
	}
	b := l.LatestBalances()
	assertDec(t, clinic.String(), b.ClinicBalance)
	assertDec(t, owner.String(), b.OwnerBalance)
	assertDec(t, "-105", b.ClinicBalance) // -60 purchase, -25 transfer, -20 power
}

func TestExpenseLifecycle(t *testing.T) {
	l := newTestLedger(t)
	exp, err := l.SaveExpense(domain.Expense{Category: "Rent", Description: "March", Amount: dec("300"), Date: domain.MustDate("2024-03-01")})
	require.NoError(t, err)
	assert.Equal(t, "exp1", exp.ID)

	txs := l.AccountTransactions()
	require.Len(t, txs, 1)
	assert.Equal(t, "Expense: Rent - March", txs[0].Description)
	assertDec(t, "-300", txs[0].ClinicAmount)
	assert.False(t, txs[0].IsManual)

	_, err = l.SaveExpense(domain.Expense{ID: exp.ID, Category: "Rent", Description: "March", Amount: dec("350"), Date: domain.MustDate("2024-03-02")})
	require.NoError(t, err)
	txs = l.AccountTransactions()
	require.Len(t, txs, 1)
	assertDec(t, "-350", txs[0].ClinicAmount)

	err = l.DeleteManualTransaction(txs[0].ID)
	assert.ErrorIs(t, err, ErrNotManual)

	require.NoError(t, l.DeleteExpense(exp.ID))
	assert.Empty(t, l.AccountTransactions())
	assert.Empty(t, l.Expenses())
	assert.ErrorIs(t, l.DeleteExpense(exp.ID), ErrExpenseNotFound)
}

func TestEditManualTransaction(t *testing.T) {
	l := newTestLedger(t)
	tx, err := l.SaveManualTransaction(ManualTransaction{Type: domain.ClinicToOwner, Amount: dec("10"), Date: domain.MustDate("2024-01-01")})
	require.NoError(t, err)

	edited, err := l.SaveManualTransaction(ManualTransaction{
		ID: tx.ID, Type: domain.PersonalSpending, Amount: dec("40"), Date: domain.MustDate("2024-01-05"), Description: "Groceries",
	})
	require.NoError(t, err)
	assert.Equal(t, tx.ID, edited.ID)
	assertDec(t, "0", edited.ClinicAmount)
	assertDec(t, "-40", edited.OwnerAmount)
	assert.Equal(t, "Groceries", edited.Description)

	require.NoError(t, l.DeleteManualTransaction(tx.ID))
	assert.ErrorIs(t, l.DeleteManualTransaction(tx.ID), ErrTransactionNotFound)
}
