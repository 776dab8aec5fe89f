package ledger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"vetclinic/m/domain"
)

// SaveCustomer creates c when its id is empty, otherwise updates its
// contact fields. The outstanding balance is never taken from input.
func (l *Ledger) SaveCustomer(c domain.Customer) (domain.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return domain.Customer{}, invalid("customer name is required")
	}
	if c.ID == "" {
		c.ID = l.st.Counters.NextCustomerID()
		c.OutstandingBalance = decimal.Zero
		l.st.Customers = append(l.st.Customers, c)
		l.logSync(domain.ActionCreate, c)
		return c, nil
	}
	existing := l.st.customer(c.ID)
	if existing == nil {
		return domain.Customer{}, fail(ErrPartyNotFound, "customer %s", c.ID)
	}
	existing.Name, existing.Phone, existing.Address = c.Name, c.Phone, c.Address
	l.logSync(domain.ActionUpdate, *existing)
	return *existing, nil
}

// SaveSupplier mirrors SaveCustomer.
func (l *Ledger) SaveSupplier(s domain.Supplier) (domain.Supplier, error) {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return domain.Supplier{}, invalid("supplier name is required")
	}
	if s.ID == "" {
		s.ID = l.st.Counters.NextSupplierID()
		s.OutstandingBalance = decimal.Zero
		l.st.Suppliers = append(l.st.Suppliers, s)
		l.logSync(domain.ActionCreate, s)
		return s, nil
	}
	existing := l.st.supplier(s.ID)
	if existing == nil {
		return domain.Supplier{}, fail(ErrPartyNotFound, "supplier %s", s.ID)
	}
	existing.Name, existing.Phone, existing.Address = s.Name, s.Phone, s.Address
	l.logSync(domain.ActionUpdate, *existing)
	return *existing, nil
}

func (l *Ledger) DeleteCustomer(id string) error {
	idx := slices.IndexFunc(l.st.Customers, func(c domain.Customer) bool { return c.ID == id })
	if idx < 0 {
		return fail(ErrPartyNotFound, "customer %s", id)
	}
	if err := l.checkPartyRemovable(id, l.st.Customers[idx].OutstandingBalance); err != nil {
		return err
	}
	l.st.Customers = append(l.st.Customers[:idx], l.st.Customers[idx+1:]...)
	l.logDelete(domain.CollectionCustomers, id)
	return nil
}

func (l *Ledger) DeleteSupplier(id string) error {
	idx := slices.IndexFunc(l.st.Suppliers, func(s domain.Supplier) bool { return s.ID == id })
	if idx < 0 {
		return fail(ErrPartyNotFound, "supplier %s", id)
	}
	if err := l.checkPartyRemovable(id, l.st.Suppliers[idx].OutstandingBalance); err != nil {
		return err
	}
	l.st.Suppliers = append(l.st.Suppliers[:idx], l.st.Suppliers[idx+1:]...)
	l.logDelete(domain.CollectionSuppliers, id)
	return nil
}

func (l *Ledger) checkPartyRemovable(id string, balance decimal.Decimal) error {
	for _, inv := range l.st.Invoices {
		if inv.PartyID() == id {
			return fail(ErrPartyInUse, "%s is on invoice %s", id, inv.ID)
		}
	}
	for _, p := range l.st.Payments {
		if p.PartyID == id {
			return fail(ErrPartyInUse, "%s has payment %s", id, p.ID)
		}
	}
	if !balance.IsZero() {
		return fail(ErrBalanceOutstanding, "%s owes %s", id, balance.String())
	}
	return nil
}

// SavePayment records money received from a customer or paid to a supplier
// outside an invoice and books it in the clinic column.
func (l *Ledger) SavePayment(p domain.Payment) (domain.Payment, error) {
	if !p.Amount.IsPositive() {
		return domain.Payment{}, invalid("payment amount must be positive")
	}
	if p.Date.IsZero() {
		return domain.Payment{}, invalid("payment date is required")
	}

	var (
		clinic      decimal.Decimal
		description string
	)
	switch p.Type {
	case domain.PaymentReceive:
		c := l.st.customer(p.PartyID)
		if c == nil {
			return domain.Payment{}, fail(ErrPartyNotFound, "customer %s", p.PartyID)
		}
		c.OutstandingBalance = c.OutstandingBalance.Sub(p.Amount)
		clinic = p.Amount
		description = fmt.Sprintf("Payment received from %s", c.Name)
	case domain.PaymentPay:
		s := l.st.supplier(p.PartyID)
		if s == nil {
			return domain.Payment{}, fail(ErrPartyNotFound, "supplier %s", p.PartyID)
		}
		s.OutstandingBalance = s.OutstandingBalance.Sub(p.Amount)
		clinic = p.Amount.Neg()
		description = fmt.Sprintf("Payment made to %s", s.Name)
	default:
		return domain.Payment{}, invalid("unknown payment type %q", p.Type)
	}

	p.ID = l.st.Counters.NextPaymentID()
	l.st.Payments = append(l.st.Payments, p)
	l.logSync(domain.ActionCreate, p)
	l.appendTransaction(domain.AccountTransaction{
		Date:         p.Date,
		Description:  description,
		ClinicAmount: clinic,
		ReferenceID:  p.ID,
	})
	return p, nil
}

func (l *Ledger) Customers() []domain.Customer { return slices.Clone(l.st.Customers) }
func (l *Ledger) Suppliers() []domain.Supplier { return slices.Clone(l.st.Suppliers) }
func (l *Ledger) Invoices() []domain.Invoice   { return newestFirst(l.st.Invoices) }

// Payments returns every payment with its party name, newest first.
func (l *Ledger) Payments() []domain.PaymentWithParty {
	out := make([]domain.PaymentWithParty, 0, len(l.st.Payments))
	for _, p := range l.st.Payments {
		out = append(out, domain.PaymentWithParty{Payment: p, PartyName: l.st.partyName(p.PartyID)})
	}
	slices.SortStableFunc(out, func(a, b domain.PaymentWithParty) int {
		return b.Date.Compare(a.Date.Time)
	})
	return out
}

// PartyHistory returns the invoices and payments of one party.
func (l *Ledger) PartyHistory(id string) domain.PartyHistory {
	h := domain.PartyHistory{Invoices: []domain.Invoice{}, Payments: []domain.Payment{}}
	for _, inv := range newestFirst(l.st.Invoices) {
		if inv.PartyID() == id {
			h.Invoices = append(h.Invoices, inv)
		}
	}
	for _, p := range l.st.Payments {
		if p.PartyID == id {
			h.Payments = append(h.Payments, p)
		}
	}
	return h
}

// CustomerLedger lists what the customer was billed (debit) and paid
// (credit). Entries before the range start collapse into an opening balance row.
func (l *Ledger) CustomerLedger(id string, r domain.DateRange) ([]domain.LedgerEntry, error) {
	if l.st.customer(id) == nil {
		return nil, fail(ErrPartyNotFound, "customer %s", id)
	}
	var entries []domain.LedgerEntry
	for _, inv := range l.st.Invoices {
		if inv.CustomerID != id || inv.Type == domain.InvoicePurchase {
			continue
		}
		entries = append(entries, domain.LedgerEntry{
			ID: inv.ID, Date: inv.Date,
			Description: fmt.Sprintf("%s Invoice #%s", invoiceLabel(inv.Type), inv.ID),
			Debit:       inv.TotalAmount,
		})
		if inv.AmountPaid.IsPositive() {
			entries = append(entries, domain.LedgerEntry{
				ID: inv.ID, Date: inv.Date,
				Description: fmt.Sprintf("Payment on Invoice #%s", inv.ID),
				Credit:      inv.AmountPaid,
			})
		}
	}
	for _, p := range l.st.Payments {
		if p.PartyID == id && p.Type == domain.PaymentReceive {
			entries = append(entries, domain.LedgerEntry{
				ID: p.ID, Date: p.Date, Description: "Payment Received", Credit: p.Amount,
			})
		}
	}
	return runLedger(entries, r, false), nil
}

// SupplierLedger lists what the clinic was billed (credit) and paid (debit).
func (l *Ledger) SupplierLedger(id string, r domain.DateRange) ([]domain.LedgerEntry, error) {
	if l.st.supplier(id) == nil {
		return nil, fail(ErrPartyNotFound, "supplier %s", id)
	}
	var entries []domain.LedgerEntry
	for _, inv := range l.st.Invoices {
		if inv.SupplierID != id || inv.Type != domain.InvoicePurchase {
			continue
		}
		entries = append(entries, domain.LedgerEntry{
			ID: inv.ID, Date: inv.Date,
			Description: fmt.Sprintf("Purchase Invoice #%s", inv.ID),
			Credit:      inv.TotalAmount,
		})
		if inv.AmountPaid.IsPositive() {
			entries = append(entries, domain.LedgerEntry{
				ID: inv.ID, Date: inv.Date,
				Description: fmt.Sprintf("Payment on Invoice #%s", inv.ID),
				Debit:       inv.AmountPaid,
			})
		}
	}
	for _, p := range l.st.Payments {
		if p.PartyID == id && p.Type == domain.PaymentPay {
			entries = append(entries, domain.LedgerEntry{
				ID: p.ID, Date: p.Date, Description: "Payment Made", Debit: p.Amount,
			})
		}
	}
	return runLedger(entries, r, true), nil
}

func invoiceLabel(t domain.InvoiceType) string {
	switch t {
	case domain.InvoiceTreatment:
		return "Treatment"
	case domain.InvoicePurchase:
		return "Purchase"
	}
	return "Sale"
}

// runLedger sorts entries by date and fills running balances. A supplier
// balance grows with credits, a customer balance with debits.
func runLedger(entries []domain.LedgerEntry, r domain.DateRange, creditNormal bool) []domain.LedgerEntry {
	slices.SortStableFunc(entries, func(a, b domain.LedgerEntry) int {
		return a.Date.Compare(b.Date.Time)
	})
	delta := func(e domain.LedgerEntry) decimal.Decimal {
		if creditNormal {
			return e.Credit.Sub(e.Debit)
		}
		return e.Debit.Sub(e.Credit)
	}

	start, end := rangeBounds(r)
	out := []domain.LedgerEntry{}
	balance := decimal.Zero
	opening := false
	for _, e := range entries {
		if !start.IsZero() && e.Date.Before(start) {
			balance = balance.Add(delta(e))
			opening = true
			continue
		}
		if !end.IsZero() && e.Date.After(end) {
			continue
		}
		if opening {
			out = append(out, domain.LedgerEntry{
				ID: "opening", Date: domain.NewDate(start), Description: "Opening Balance", Balance: balance,
			})
			opening = false
		}
		balance = balance.Add(delta(e))
		e.Balance = balance
		out = append(out, e)
	}
	if opening {
		out = append(out, domain.LedgerEntry{
			ID: "opening", Date: domain.NewDate(start), Description: "Opening Balance", Balance: balance,
		})
	}
	return out
}
