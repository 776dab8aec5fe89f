package store

import (
	"context"

	"vetclinic/m/domain"
	"vetclinic/m/internal/ledger"
)

func mutate[T any](ctx context.Context, s *Store, fn func(*ledger.Ledger) (T, error)) (T, error) {
	var out T
	err := s.Update(ctx, func(l *ledger.Ledger) error {
		var err error
		out, err = fn(l)
		return err
	})
	return out, err
}

func read[T any](s *Store, fn func(*ledger.Ledger) T) T {
	var out T
	s.View(func(l *ledger.Ledger) { out = fn(l) })
	return out
}

func readErr[T any](s *Store, fn func(*ledger.Ledger) (T, error)) (T, error) {
	var (
		out T
		err error
	)
	s.View(func(l *ledger.Ledger) { out, err = fn(l) })
	return out, err
}

// Reads

func (s *Store) Products() []domain.Product          { return read(s, (*ledger.Ledger).Products) }
func (s *Store) Customers() []domain.Customer        { return read(s, (*ledger.Ledger).Customers) }
func (s *Store) Suppliers() []domain.Supplier        { return read(s, (*ledger.Ledger).Suppliers) }
func (s *Store) Invoices() []domain.Invoice          { return read(s, (*ledger.Ledger).Invoices) }
func (s *Store) Payments() []domain.PaymentWithParty { return read(s, (*ledger.Ledger).Payments) }
func (s *Store) Expenses() []domain.Expense          { return read(s, (*ledger.Ledger).Expenses) }
func (s *Store) Users() []domain.User                { return read(s, (*ledger.Ledger).Users) }
func (s *Store) ClinicSettings() domain.ClinicSettings {
	return read(s, (*ledger.Ledger).ClinicSettings)
}

func (s *Store) Product(id string) (domain.Product, error) {
	return readErr(s, func(l *ledger.Ledger) (domain.Product, error) { return l.Product(id) })
}

func (s *Store) InvoiceDetails(id string) (domain.InvoiceDetails, error) {
	return readErr(s, func(l *ledger.Ledger) (domain.InvoiceDetails, error) { return l.InvoiceDetails(id) })
}

func (s *Store) ProductHistory(id string) (domain.ProductHistory, error) {
	return readErr(s, func(l *ledger.Ledger) (domain.ProductHistory, error) { return l.ProductHistory(id) })
}

func (s *Store) PartyHistory(id string) domain.PartyHistory {
	return read(s, func(l *ledger.Ledger) domain.PartyHistory { return l.PartyHistory(id) })
}

func (s *Store) CustomerLedger(id string, r domain.DateRange) ([]domain.LedgerEntry, error) {
	return readErr(s, func(l *ledger.Ledger) ([]domain.LedgerEntry, error) { return l.CustomerLedger(id, r) })
}

func (s *Store) SupplierLedger(id string, r domain.DateRange) ([]domain.LedgerEntry, error) {
	return readErr(s, func(l *ledger.Ledger) ([]domain.LedgerEntry, error) { return l.SupplierLedger(id, r) })
}

func (s *Store) AccountTransactions() []domain.AccountTransaction {
	return read(s, (*ledger.Ledger).AccountTransactions)
}

func (s *Store) LatestBalances() domain.Balances {
	return read(s, (*ledger.Ledger).LatestBalances)
}

// Reports

func (s *Store) ProfitLossReport(r domain.DateRange) domain.ProfitLossReport {
	return read(s, func(l *ledger.Ledger) domain.ProfitLossReport { return l.ProfitLoss(r) })
}

func (s *Store) InventoryReport(r domain.DateRange) []domain.InventoryReportItem {
	return read(s, func(l *ledger.Ledger) []domain.InventoryReportItem { return l.Inventory(r) })
}

func (s *Store) CustomersReport(r domain.DateRange) []domain.PartyReportItem {
	return read(s, func(l *ledger.Ledger) []domain.PartyReportItem { return l.CustomersReport(r) })
}

func (s *Store) SuppliersReport(r domain.DateRange) []domain.PartyReportItem {
	return read(s, func(l *ledger.Ledger) []domain.PartyReportItem { return l.SuppliersReport(r) })
}

func (s *Store) PaymentsReport(r domain.DateRange) []domain.PaymentWithParty {
	return read(s, func(l *ledger.Ledger) []domain.PaymentWithParty { return l.PaymentsReport(r) })
}

func (s *Store) DashboardAlerts() domain.DashboardAlerts {
	return read(s, (*ledger.Ledger).DashboardAlerts)
}

// Mutations

func (s *Store) SaveProduct(ctx context.Context, in ledger.ProductInput, create bool) (domain.Product, error) {
	return mutate(ctx, s, func(l *ledger.Ledger) (domain.Product, error) { return l.SaveProduct(in, create) })
}

func (s *Store) SaveCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	return mutate(ctx, s, func(l *ledger.Ledger) (domain.Customer, error) { return l.SaveCustomer(c) })
}

func (s *Store) SaveSupplier(ctx context.Context, sp domain.Supplier) (domain.Supplier, error) {
	return mutate(ctx, s, func(l *ledger.Ledger) (domain.Supplier, error) { return l.SaveSupplier(sp) })
}

func (s *Store) SaveInvoice(ctx context.Context, inv domain.Invoice) (domain.Invoice, error) {
	return mutate(ctx, s, func(l *ledger.Ledger) (domain.Invoice, error) { return l.SaveInvoice(inv) })
}

func (s *Store) SavePayment(ctx context.Context, p domain.Payment) (domain.Payment, error) {
	return mutate(ctx, s, func(l *ledger.Ledger) (domain.Payment, error) { return l.SavePayment(p) })
}

func (s *Store) SaveExpense(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	return mutate(ctx, s, func(l *ledger.Ledger) (domain.Expense, error) { return l.SaveExpense(e) })
}

func (s *Store) SaveManualTransaction(ctx context.Context, in ledger.ManualTransaction) (domain.AccountTransaction, error) {
	return mutate(ctx, s, func(l *ledger.Ledger) (domain.AccountTransaction, error) { return l.SaveManualTransaction(in) })
}

func (s *Store) SaveUser(ctx context.Context, u domain.User) (domain.User, error) {
	return mutate(ctx, s, func(l *ledger.Ledger) (domain.User, error) { return l.SaveUser(u) })
}

func (s *Store) SaveClinicSettings(ctx context.Context, cs domain.ClinicSettings) (domain.ClinicSettings, error) {
	return mutate(ctx, s, func(l *ledger.Ledger) (domain.ClinicSettings, error) { return l.SaveClinicSettings(cs) })
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.Update(ctx, func(l *ledger.Ledger) error { return l.DeleteProduct(id) })
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	return s.Update(ctx, func(l *ledger.Ledger) error { return l.DeleteCustomer(id) })
}

func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	return s.Update(ctx, func(l *ledger.Ledger) error { return l.DeleteSupplier(id) })
}

func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	return s.Update(ctx, func(l *ledger.Ledger) error { return l.DeleteInvoice(id) })
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	return s.Update(ctx, func(l *ledger.Ledger) error { return l.DeleteExpense(id) })
}

func (s *Store) DeleteManualTransaction(ctx context.Context, id string) error {
	return s.Update(ctx, func(l *ledger.Ledger) error { return l.DeleteManualTransaction(id) })
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return s.Update(ctx, func(l *ledger.Ledger) error { return l.DeleteUser(id) })
}

// Auth

func (s *Store) Authenticate(username, password string) (domain.User, error) {
	return readErr(s, func(l *ledger.Ledger) (domain.User, error) { return l.Authenticate(username, password) })
}

// Sync queue

func (s *Store) PendingSync() []domain.SyncOperation {
	return read(s, (*ledger.Ledger).PendingSync)
}

// AckSync removes acknowledged operations and persists the shorter queue.
func (s *Store) AckSync(ctx context.Context, ids []string) (int, error) {
	return mutate(ctx, s, func(l *ledger.Ledger) (int, error) { return l.AckSync(ids), nil })
}

// Export and import

// ExportData serializes the current document.
func (s *Store) ExportData() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ledger.Export(s.state)
}

// ImportData replaces the document with data. Invalid input leaves the
// current document and the stored copy untouched.
func (s *Store) ImportData(ctx context.Context, data []byte) error {
	st, err := ledger.Import(data)
	if err != nil {
		return err
	}
	if err := s.Replace(ctx, st); err != nil {
		return err
	}
	s.log.WithField("products", len(st.Products)).Info("clinic document imported")
	return nil
}
