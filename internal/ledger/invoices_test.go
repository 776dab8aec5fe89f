package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetclinic/m/domain"
)

func TestPurchaseThenSale(t *testing.T) {
	l := newTestLedger(t)
	addProduct(t, l, "P", "1 Box")

	pur := purchase(t, l, "2024-01-01", "P", "10", "100", "0")
	assert.Equal(t, "pur#1", pur.ID)
	p := product(t, l, "P")
	require.Len(t, p.Batches, 1)
	assertDec(t, "10", p.StockVials)
	assertDec(t, "100", p.LatestPurchasePrice)

	sl := sale(t, l, "2024-01-05", "P", "4", "150", "0")
	assert.Equal(t, "sl#2", sl.ID)
	require.Len(t, sl.Items, 1)
	require.NotNil(t, sl.Items[0].PurchaseUnitPrice)
	assertDec(t, "100", *sl.Items[0].PurchaseUnitPrice)
	assertDec(t, "600", sl.Items[0].Total)

	p = product(t, l, "P")
	require.Len(t, p.Batches, 1)
	assertDec(t, "6", p.Batches[0].Quantity)
	assertDec(t, "100", p.Batches[0].PurchasePrice)
}

func TestSaleCostsFirstBatchExactly(t *testing.T) {
	l := newTestLedger(t)
	addProduct(t, l, "P", "1 Box")
	purchase(t, l, "2024-01-01", "P", "3", "80", "0")
	purchase(t, l, "2024-01-02", "P", "3", "95", "0")
	purchase(t, l, "2024-01-03", "P", "3", "110", "0")

	sl := sale(t, l, "2024-01-04", "P", "3", "200", "0")

	assertDec(t, "80", *sl.Items[0].PurchaseUnitPrice)
	assertDec(t, "6", product(t, l, "P").StockVials)
}

func TestTreatmentOpensVial(t *testing.T) {
	l := newTestLedger(t)
	addProduct(t, l, "V", "10ml Vial")
	st := l.State()
	v := st.product("V")
	v.StockLoose = dec("2")
	v.Batches = []domain.StockBatch{{Quantity: dec("1"), PurchasePrice: dec("50"), InvoiceID: "pur#x", Date: domain.MustDate("2024-01-01")}}

	trt, err := l.SaveInvoice(domain.Invoice{
		Type:          domain.InvoiceTreatment,
		CustomerID:    "cus1",
		Date:          domain.MustDate("2024-02-01"),
		Items:         []domain.InvoiceItem{{ProductID: "V", Quantity: dec("5"), UnitPrice: dec("20")}},
		ChargedAmount: decPtr("300"),
		AmountPaid:    dec("300"),
	})
	require.NoError(t, err)

	assert.Equal(t, "trt#1", trt.ID)
	assertDec(t, "100", trt.Subtotal)
	assertDec(t, "300", trt.TotalAmount)
	assert.Equal(t, domain.StatusFullyPaid, trt.PaymentStatus)
	assertDec(t, "25", *trt.Items[0].PurchaseUnitPrice)

	p := product(t, l, "V")
	assertDec(t, "7", p.StockLoose)
	assert.Empty(t, p.Batches)

	details, err := l.InvoiceDetails(trt.ID)
	require.NoError(t, err)
	require.NotNil(t, details.VetFee)
	assertDec(t, "275", *details.VetFee)
	require.NotNil(t, details.Customer)
	assert.Equal(t, "cus1", details.Customer.ID)

	txs := l.AccountTransactions()
	require.Len(t, txs, 1)
	assertDec(t, "100", txs[0].ClinicAmount)
	assertDec(t, "200", txs[0].OwnerAmount)
	assert.Equal(t, trt.ID, txs[0].ReferenceID)

	require.NoError(t, l.DeleteInvoice(trt.ID))
	p = product(t, l, "V")
	assertDec(t, "2", p.StockLoose)
	require.Len(t, p.Batches, 1)
	assertDec(t, "1", p.Batches[0].Quantity)
	assertDec(t, "50", p.Batches[0].PurchasePrice)
	assert.Empty(t, l.AccountTransactions())
}

func TestTreatmentWithoutOpening(t *testing.T) {
	l := newTestLedger(t)
	addProduct(t, l, "V", "10ml Vial")
	v := l.State().product("V")
	v.StockLoose = dec("8")
	v.LatestPurchasePrice = dec("40")

	trt, err := l.SaveInvoice(domain.Invoice{
		Type:          domain.InvoiceTreatment,
		CustomerID:    "cus1",
		Date:          domain.MustDate("2024-02-01"),
		Items:         []domain.InvoiceItem{{ProductID: "V", Quantity: dec("5"), UnitPrice: dec("10")}},
		ChargedAmount: decPtr("100"),
	})
	require.NoError(t, err)

	assertDec(t, "20", *trt.Items[0].PurchaseUnitPrice)
	assert.Nil(t, trt.Items[0].OpenedUnits)
	assertDec(t, "3", product(t, l, "V").StockLoose)
	assert.Equal(t, domain.StatusCredit, trt.PaymentStatus)

	require.NoError(t, l.DeleteInvoice(trt.ID))
	assertDec(t, "8", product(t, l, "V").StockLoose)
}

func TestInvoiceDeletionRevertsBalance(t *testing.T) {
	l := newTestLedger(t)
	addProduct(t, l, "P", "1 Box")
	purchase(t, l, "2024-01-01", "P", "10", "100", "1000")

	sl := sale(t, l, "2024-01-02", "P", "5", "100", "0")
	cus := l.State().customer("cus1")
	assertDec(t, "500", cus.OutstandingBalance)
	assert.Equal(t, domain.StatusCredit, sl.PaymentStatus)

	require.NoError(t, l.DeleteInvoice(sl.ID))
	assertDec(t, "0", l.State().customer("cus1").OutstandingBalance)
}

func TestConservationRoundTrip(t *testing.T) {
	l := newTestLedger(t)
	addProduct(t, l, "P", "1 Box")
	purchase(t, l, "2024-01-01", "P", "10", "100", "0")
	before := product(t, l, "P").StockVials

	pur := purchase(t, l, "2024-01-03", "P", "7", "90", "0")
	require.NoError(t, l.DeleteInvoice(pur.ID))
	assertDec(t, before.String(), product(t, l, "P").StockVials)

	sl := sale(t, l, "2024-01-04", "P", "4", "150", "0")
	require.NoError(t, l.DeleteInvoice(sl.ID))
	p := product(t, l, "P")
	assertDec(t, before.String(), p.StockVials)
	assert.Equal(t, domain.BatchRevertPrefix+sl.ID, p.Batches[0].InvoiceID)
	assertDec(t, "100", p.Batches[0].PurchasePrice)
}

func TestPaymentStatus(t *testing.T) {
	l := newTestLedger(t)
	addProduct(t, l, "P", "1 Box")
	purchase(t, l, "2024-01-01", "P", "10", "100", "0")

	tests := []struct {
		name     string
		discount string
		paid     string
		want     domain.PaymentStatus
	}{
		{"credit", "0", "0", domain.StatusCredit},
		{"partial", "0", "50", domain.StatusPartiallyPaid},
		{"full", "20", "80", domain.StatusFullyPaid},
		{"free", "100", "0", domain.StatusFullyPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := l.SaveInvoice(domain.Invoice{
				Type:       domain.InvoiceSale,
				CustomerID: "cus1",
				Date:       domain.MustDate("2024-01-02"),
				Items:      []domain.InvoiceItem{{ProductID: "P", Quantity: dec("1"), UnitPrice: dec("100")}},
				Discount:   dec(tt.discount),
				AmountPaid: dec(tt.paid),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, inv.PaymentStatus)
		})
	}
}

func TestSaveInvoiceValidation(t *testing.T) {
	l := newTestLedger(t)
	addProduct(t, l, "P", "1 Box")
	date := domain.MustDate("2024-01-02")
	item := []domain.InvoiceItem{{ProductID: "P", Quantity: dec("1"), UnitPrice: dec("10")}}

	tests := []struct {
		name string
		inv  domain.Invoice
		kind error
	}{
		{"unknown type", domain.Invoice{Type: "refund", CustomerID: "cus1", Date: date, Items: item}, ErrValidation},
		{"no date", domain.Invoice{Type: domain.InvoiceSale, CustomerID: "cus1", Items: item}, ErrValidation},
		{"sale without customer", domain.Invoice{Type: domain.InvoiceSale, SupplierID: "sup1", Date: date, Items: item}, ErrValidation},
		{"no items", domain.Invoice{Type: domain.InvoiceSale, CustomerID: "cus1", Date: date}, ErrValidation},
		{"zero quantity", domain.Invoice{Type: domain.InvoiceSale, CustomerID: "cus1", Date: date,
			Items: []domain.InvoiceItem{{ProductID: "P", Quantity: dec("0"), UnitPrice: dec("1")}}}, ErrValidation},
		{"fractional sale", domain.Invoice{Type: domain.InvoiceSale, CustomerID: "cus1", Date: date,
			Items: []domain.InvoiceItem{{ProductID: "P", Quantity: dec("1.5"), UnitPrice: dec("1")}}}, ErrValidation},
		{"unknown product", domain.Invoice{Type: domain.InvoiceSale, CustomerID: "cus1", Date: date,
			Items: []domain.InvoiceItem{{ProductID: "nope", Quantity: dec("1"), UnitPrice: dec("1")}}}, ErrNotFound},
		{"unknown customer", domain.Invoice{Type: domain.InvoiceSale, CustomerID: "cus9", Date: date, Items: item}, ErrNotFound},
		{"empty treatment", domain.Invoice{Type: domain.InvoiceTreatment, CustomerID: "cus1", Date: date}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := l.State().Counters
			_, err := l.SaveInvoice(tt.inv)
			require.ErrorIs(t, err, tt.kind)
			assert.Equal(t, before, l.State().Counters)
			assert.Empty(t, l.State().Invoices)
		})
	}

	_, err := l.SaveInvoice(domain.Invoice{Type: domain.InvoiceSale, CustomerID: "cus1", Date: date,
		Items: []domain.InvoiceItem{{ProductID: "nope", Quantity: dec("1"), UnitPrice: dec("1")}}})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestServiceOnlyTreatment(t *testing.T) {
	l := newTestLedger(t)

	trt, err := l.SaveInvoice(domain.Invoice{
		Type:          domain.InvoiceTreatment,
		CustomerID:    "cus1",
		Date:          domain.MustDate("2024-02-01"),
		ChargedAmount: decPtr("500"),
		OtherExpenses: decPtr("50"),
		AmountPaid:    dec("500"),
	})
	require.NoError(t, err)

	txs := l.AccountTransactions()
	require.Len(t, txs, 1)
	assertDec(t, "0", txs[0].ClinicAmount)
	assertDec(t, "500", txs[0].OwnerAmount)

	details, err := l.InvoiceDetails(trt.ID)
	require.NoError(t, err)
	assertDec(t, "450", *details.VetFee)
}

func TestDeleteInvoiceNotFound(t *testing.T) {
	l := newTestLedger(t)
	err := l.DeleteInvoice("sl#404")
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSyncQueueRecordsInvoices(t *testing.T) {
	l := newTestLedger(t)
	addProduct(t, l, "P", "1 Box")
	pur := purchase(t, l, "2024-01-01", "P", "1", "10", "10")

	ops := l.PendingSync()
	var collections []domain.Collection
	for _, op := range ops {
		collections = append(collections, op.Collection)
	}
	assert.Equal(t, []domain.Collection{
		domain.CollectionCustomers, domain.CollectionSuppliers, domain.CollectionProducts,
		domain.CollectionInvoices, domain.CollectionAccountTransactions,
	}, collections)
	last := ops[3]
	assert.Equal(t, domain.ActionCreate, last.Action)
	assert.Equal(t, pur.ID, last.Payload.(domain.Invoice).ID)

	assert.Equal(t, 2, l.AckSync([]string{ops[0].ID, ops[1].ID, "sync999"}))
	assert.Len(t, l.PendingSync(), 3)
}
