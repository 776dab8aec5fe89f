package ledger

import (
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetclinic/m/domain"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.Local)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestLedger returns a ledger with one customer (cus1), one supplier
// (sup1) and no products.
func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l := New(NewState(), WithClock(func() time.Time { return fixedNow }), WithLogger(quietLogger()))
	_, err := l.SaveCustomer(domain.Customer{Name: "Walk-in Customer"})
	require.NoError(t, err)
	_, err = l.SaveSupplier(domain.Supplier{Name: "Default Supplier"})
	require.NoError(t, err)
	return l
}

func addProduct(t *testing.T, l *Ledger, id, packing string) {
	t.Helper()
	_, err := l.SaveProduct(ProductInput{Product: domain.Product{
		ID: id, Name: "Product " + id, PackingUnit: packing, LooseUnit: "ml",
		LowStockAlert: dec("2"),
	}}, true)
	require.NoError(t, err)
}

func purchase(t *testing.T, l *Ledger, date, productID, qty, price, paid string) domain.Invoice {
	t.Helper()
	inv, err := l.SaveInvoice(domain.Invoice{
		Type:       domain.InvoicePurchase,
		SupplierID: "sup1",
		Date:       domain.MustDate(date),
		Items:      []domain.InvoiceItem{{ProductID: productID, Quantity: dec(qty), UnitPrice: dec(price)}},
		AmountPaid: dec(paid),
	})
	require.NoError(t, err)
	return inv
}

func sale(t *testing.T, l *Ledger, date, productID, qty, price, paid string) domain.Invoice {
	t.Helper()
	inv, err := l.SaveInvoice(domain.Invoice{
		Type:       domain.InvoiceSale,
		CustomerID: "cus1",
		Date:       domain.MustDate(date),
		Items:      []domain.InvoiceItem{{ProductID: productID, Quantity: dec(qty), UnitPrice: dec(price)}},
		AmountPaid: dec(paid),
	})
	require.NoError(t, err)
	return inv
}

func product(t *testing.T, l *Ledger, id string) domain.Product {
	t.Helper()
	p, err := l.Product(id)
	require.NoError(t, err)
	return p
}
