package ledger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"vetclinic/m/domain"
)

// ManualTransaction is a user-entered transfer between the clinic and owner
// columns. An empty ID creates a new entry.
type ManualTransaction struct {
	ID          string                       `json:"id"`
	Type        domain.ManualTransactionType `json:"type"`
	Amount      decimal.Decimal              `json:"amount"`
	Date        domain.Date                  `json:"date"`
	Description string                       `json:"description"`
}

// RecomputeRunningBalances sorts the account by date, then by the numeric
// suffix of the transaction id, and rewrites every running balance.
func (s *State) RecomputeRunningBalances() {
	slices.SortStableFunc(s.AccountTransactions, func(a, b domain.AccountTransaction) int {
		if c := a.Date.Compare(b.Date.Time); c != 0 {
			return c
		}
		return transactionSeq(a.ID) - transactionSeq(b.ID)
	})
	clinic, owner := decimal.Zero, decimal.Zero
	for i := range s.AccountTransactions {
		t := &s.AccountTransactions[i]
		clinic = clinic.Add(t.ClinicAmount)
		owner = owner.Add(t.OwnerAmount)
		t.ClinicBalance, t.OwnerBalance = clinic, owner
	}
}

func (l *Ledger) appendTransaction(t domain.AccountTransaction) domain.AccountTransaction {
	t.ID = l.st.Counters.NextTransactionID()
	l.st.AccountTransactions = append(l.st.AccountTransactions, t)
	l.logSync(domain.ActionCreate, t)
	return t
}

// removeTransactionsFor deletes every system transaction pointing at ref.
func (l *Ledger) removeTransactionsFor(ref string) {
	l.st.AccountTransactions = slices.DeleteFunc(l.st.AccountTransactions, func(t domain.AccountTransaction) bool {
		if t.ReferenceID != ref || t.IsManual {
			return false
		}
		l.logDelete(domain.CollectionAccountTransactions, t.ID)
		return true
	})
}

func (l *Ledger) transactionIndex(id string) int {
	return slices.IndexFunc(l.st.AccountTransactions, func(t domain.AccountTransaction) bool { return t.ID == id })
}

// SaveManualTransaction creates or edits a manual transfer.
func (l *Ledger) SaveManualTransaction(in ManualTransaction) (domain.AccountTransaction, error) {
	if !in.Amount.IsPositive() {
		return domain.AccountTransaction{}, invalid("amount must be positive")
	}
	if in.Date.IsZero() {
		return domain.AccountTransaction{}, invalid("transaction date is required")
	}
	clinic, owner, ok := in.Type.Amounts(in.Amount)
	if !ok {
		return domain.AccountTransaction{}, invalid("unknown transaction type %q", in.Type)
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = manualDescription(in.Type)
	}

	if in.ID == "" {
		return l.appendTransaction(domain.AccountTransaction{
			Date:         in.Date,
			Description:  description,
			ClinicAmount: clinic,
			OwnerAmount:  owner,
			IsManual:     true,
		}), nil
	}

	idx := l.transactionIndex(in.ID)
	if idx < 0 {
		return domain.AccountTransaction{}, fail(ErrTransactionNotFound, "%s", in.ID)
	}
	t := &l.st.AccountTransactions[idx]
	if !t.IsManual {
		return domain.AccountTransaction{}, fail(ErrNotManual, "%s", in.ID)
	}
	t.Date, t.Description = in.Date, description
	t.ClinicAmount, t.OwnerAmount = clinic, owner
	l.logSync(domain.ActionUpdate, *t)
	return *t, nil
}

func manualDescription(t domain.ManualTransactionType) string {
	switch t {
	case domain.ClinicToOwner:
		return "Transfer from clinic to owner"
	case domain.OwnerToClinic:
		return "Transfer from owner to clinic"
	}
	return "Personal spending"
}

// DeleteManualTransaction removes a manual entry. System entries can only go
// away with the invoice, payment or expense that created them.
func (l *Ledger) DeleteManualTransaction(id string) error {
	idx := l.transactionIndex(id)
	if idx < 0 {
		return fail(ErrTransactionNotFound, "%s", id)
	}
	if !l.st.AccountTransactions[idx].IsManual {
		return fail(ErrNotManual, "%s", id)
	}
	l.st.AccountTransactions = slices.Delete(l.st.AccountTransactions, idx, idx+1)
	l.logDelete(domain.CollectionAccountTransactions, id)
	return nil
}

// SaveExpense creates an expense (empty id) or edits one together with its
// account transaction.
func (l *Ledger) SaveExpense(e domain.Expense) (domain.Expense, error) {
	e.Category = strings.TrimSpace(e.Category)
	if e.Category == "" {
		return domain.Expense{}, invalid("expense category is required")
	}
	if !e.Amount.IsPositive() {
		return domain.Expense{}, invalid("expense amount must be positive")
	}
	if e.Date.IsZero() {
		return domain.Expense{}, invalid("expense date is required")
	}
	description := fmt.Sprintf("Expense: %s - %s", e.Category, e.Description)

	if e.ID == "" {
		e.ID = l.st.Counters.NextExpenseID()
		l.st.Expenses = append(l.st.Expenses, e)
		l.logSync(domain.ActionCreate, e)
		l.appendTransaction(domain.AccountTransaction{
			Date:         e.Date,
			Description:  description,
			ClinicAmount: e.Amount.Neg(),
			ReferenceID:  e.ID,
		})
		return e, nil
	}

	idx := slices.IndexFunc(l.st.Expenses, func(x domain.Expense) bool { return x.ID == e.ID })
	if idx < 0 {
		return domain.Expense{}, fail(ErrExpenseNotFound, "%s", e.ID)
	}
	l.st.Expenses[idx] = e
	l.logSync(domain.ActionUpdate, e)

	linked := false
	for i := range l.st.AccountTransactions {
		t := &l.st.AccountTransactions[i]
		if t.ReferenceID != e.ID || t.IsManual {
			continue
		}
		t.Date, t.Description, t.ClinicAmount = e.Date, description, e.Amount.Neg()
		l.logSync(domain.ActionUpdate, *t)
		linked = true
	}
	if !linked {
		l.appendTransaction(domain.AccountTransaction{
			Date:         e.Date,
			Description:  description,
			ClinicAmount: e.Amount.Neg(),
			ReferenceID:  e.ID,
		})
	}
	return e, nil
}

func (l *Ledger) DeleteExpense(id string) error {
	idx := slices.IndexFunc(l.st.Expenses, func(x domain.Expense) bool { return x.ID == id })
	if idx < 0 {
		return fail(ErrExpenseNotFound, "%s", id)
	}
	l.st.Expenses = slices.Delete(l.st.Expenses, idx, idx+1)
	l.logDelete(domain.CollectionExpenses, id)
	l.removeTransactionsFor(id)
	return nil
}

// Expenses returns every expense newest first.
func (l *Ledger) Expenses() []domain.Expense {
	out := slices.Clone(l.st.Expenses)
	slices.SortStableFunc(out, func(a, b domain.Expense) int {
		return b.Date.Compare(a.Date.Time)
	})
	return out
}

// AccountTransactions returns the account in chronological order.
func (l *Ledger) AccountTransactions() []domain.AccountTransaction {
	return slices.Clone(l.st.AccountTransactions)
}

// LatestBalances sums both columns over the whole account.
func (l *Ledger) LatestBalances() domain.Balances {
	b := domain.Balances{ClinicBalance: decimal.Zero, OwnerBalance: decimal.Zero}
	for _, t := range l.st.AccountTransactions {
		b.ClinicBalance = b.ClinicBalance.Add(t.ClinicAmount)
		b.OwnerBalance = b.OwnerBalance.Add(t.OwnerAmount)
	}
	return b
}
