package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetclinic/m/domain"
)

func TestProfitLoss(t *testing.T) {
	l := newTestLedger(t)
	addProduct(t, l, "P", "1 Box")
	addProduct(t, l, "V", "10ml Vial")
	purchase(t, l, "2024-01-01", "P", "10", "100", "0")
	purchase(t, l, "2024-01-01", "V", "2", "50", "0")

	_, err := l.SaveInvoice(domain.Invoice{
		Type: domain.InvoiceSale, CustomerID: "cus1", Date: domain.MustDate("2024-01-10"),
		Items:    []domain.InvoiceItem{{ProductID: "P", Quantity: dec("4"), UnitPrice: dec("150")}},
		Discount: dec("20"),
	})
	require.NoError(t, err)
	_, err = l.SaveInvoice(domain.Invoice{
		Type: domain.InvoiceTreatment, CustomerID: "cus1", Date: domain.MustDate("2024-01-10"),
		Items:         []domain.InvoiceItem{{ProductID: "V", Quantity: dec("5"), UnitPrice: dec("10")}},
		ChargedAmount: decPtr("400"),
		OtherExpenses: decPtr("30"),
	})
	require.NoError(t, err)
	sale(t, l, "2024-03-01", "P", "1", "150", "0")

	rep := l.ProfitLoss(domain.DateRange{Start: domain.MustDate("2024-01-10"), End: domain.MustDate("2024-01-10")})

	require.Len(t, rep.Sales, 1)
	assertDec(t, "580", rep.Sales[0].Total)
	assertDec(t, "400", rep.Sales[0].Cost)
	assertDec(t, "180", rep.TotalSalesProfit)
	require.Len(t, rep.Treatments, 1)
	assertDec(t, "55", rep.Treatments[0].Cost) // 25 medicine + 30 other
	assertDec(t, "345", rep.TotalTreatmentProfit)
	assertDec(t, "525", rep.GrandTotalProfit)

	all := l.ProfitLoss(domain.DateRange{})
	assert.Len(t, all.Sales, 2)
}

func TestInventoryReport(t *testing.T) {
	l := newTestLedger(t)
	for _, id := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		addProduct(t, l, id, "1 Box")
		purchase(t, l, "2024-01-01", id, "10", "10", "0")
	}
	l.State().product("A").ExpiryDate = domain.MustDate("2024-04-01")
	l.State().product("B").ExpiryDate = domain.MustDate("2025-01-01")
	for i, id := range []string{"A", "B", "C", "D", "E", "F"} {
		qty := []string{"8", "1", "2", "3", "4", "5"}[i]
		sale(t, l, "2024-02-01", id, qty, "20", "0")
	}

	items := l.Inventory(domain.DateRange{})
	byID := map[string]domain.InventoryReportItem{}
	for _, it := range items {
		byID[it.ID] = it
	}
	require.Len(t, byID, 7)

	assert.True(t, byID["A"].IsTopSeller)
	assert.False(t, byID["B"].IsTopSeller)
	assert.False(t, byID["G"].IsTopSeller)
	assertDec(t, "8", byID["A"].SoldQty)
	assertDec(t, "0", byID["G"].SoldQty)

	assert.True(t, byID["A"].IsLowStock)
	assert.False(t, byID["G"].IsLowStock)

	assert.True(t, byID["A"].IsNearExpiry)
	assert.False(t, byID["B"].IsNearExpiry)
	assert.False(t, byID["G"].IsNearExpiry)
}

func TestInventoryReportSkipsEmptyProducts(t *testing.T) {
	l := newTestLedger(t)
	addProduct(t, l, "P", "1 Box")
	assert.Empty(t, l.Inventory(domain.DateRange{}))

	l.State().product("P").StockLoose = dec("3")
	assert.Len(t, l.Inventory(domain.DateRange{}), 1)
}

func TestPartyReports(t *testing.T) {
	l := newTestLedger(t)
	addProduct(t, l, "P", "1 Box")
	purchase(t, l, "2024-01-01", "P", "10", "10", "0")
	sale(t, l, "2024-01-02", "P", "2", "30", "10")
	sale(t, l, "2024-05-02", "P", "1", "30", "0")

	customers := l.CustomersReport(domain.DateRange{End: domain.MustDate("2024-01-31")})
	require.Len(t, customers, 1)
	assertDec(t, "60", customers[0].TotalBusiness)
	assertDec(t, "80", customers[0].OutstandingBalance)

	suppliers := l.SuppliersReport(domain.DateRange{})
	require.Len(t, suppliers, 1)
	assertDec(t, "100", suppliers[0].TotalBusiness)

	_, err := l.SavePayment(domain.Payment{Type: domain.PaymentReceive, PartyID: "cus1", Amount: dec("5"), Date: domain.MustDate("2024-01-20")})
	require.NoError(t, err)
	payments := l.PaymentsReport(domain.DateRange{Start: domain.MustDate("2024-01-20"), End: domain.MustDate("2024-01-20")})
	require.Len(t, payments, 1)
	assert.Equal(t, "Walk-in Customer", payments[0].PartyName)
	assert.Empty(t, l.PaymentsReport(domain.DateRange{Start: domain.MustDate("2024-01-21")}))
}

func TestDashboardAlerts(t *testing.T) {
	l := newTestLedger(t)
	addProduct(t, l, "low", "1 Box")
	addProduct(t, l, "soon", "1 Box")
	addProduct(t, l, "gone", "1 Box")
	purchase(t, l, "2024-01-01", "soon", "10", "1", "0")
	purchase(t, l, "2024-01-01", "gone", "10", "1", "0")
	l.State().product("soon").ExpiryDate = domain.MustDate("2024-04-10")
	l.State().product("gone").ExpiryDate = domain.MustDate("2024-03-01")

	alerts := l.DashboardAlerts()

	require.Len(t, alerts.LowStock, 1)
	assert.Equal(t, "low", alerts.LowStock[0].ID)
	require.Len(t, alerts.Expiring, 1)
	assert.Equal(t, "soon", alerts.Expiring[0].ID)
}
