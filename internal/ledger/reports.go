package ledger

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"vetclinic/m/domain"
)

const (
	topSellerCount      = 5
	dashboardExpiryDays = 30
)

// rangeBounds widens r to whole local days: start at 00:00:00, end at the
// last instant of its day. Zero ends stay zero.
func rangeBounds(r domain.DateRange) (start, end time.Time) {
	if !r.Start.IsZero() {
		s := r.Start.In(time.Local)
		start = time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.Local)
	}
	if !r.End.IsZero() {
		e := r.End.In(time.Local)
		end = time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.Local)
	}
	return start, end
}

func inRange(d domain.Date, start, end time.Time) bool {
	if !start.IsZero() && d.Before(start) {
		return false
	}
	if !end.IsZero() && d.After(end) {
		return false
	}
	return true
}

func saleCost(inv domain.Invoice) decimal.Decimal {
	cost := decimal.Zero
	for _, it := range inv.Items {
		cost = cost.Add(it.Cost().Mul(it.Quantity))
	}
	return cost
}

// treatmentCost adds line costs as stored. Treatment lines already hold a
// total cost, so there is no multiplication by quantity.
func treatmentCost(inv domain.Invoice) decimal.Decimal {
	cost := inv.Extras()
	for _, it := range inv.Items {
		cost = cost.Add(it.Cost())
	}
	return cost
}

// treatmentProfit is the vet's fee on a treatment invoice.
func treatmentProfit(inv domain.Invoice) decimal.Decimal {
	return inv.Charged().Sub(treatmentCost(inv))
}

// ProfitLoss reports sale margins and vet fees for invoices dated in r.
func (l *Ledger) ProfitLoss(r domain.DateRange) domain.ProfitLossReport {
	start, end := rangeBounds(r)
	rep := domain.ProfitLossReport{
		Sales:                []domain.SaleProfit{},
		Treatments:           []domain.TreatmentProfit{},
		TotalSalesProfit:     decimal.Zero,
		TotalTreatmentProfit: decimal.Zero,
	}
	for _, inv := range l.st.Invoices {
		if !inRange(inv.Date, start, end) {
			continue
		}
		switch inv.Type {
		case domain.InvoiceSale:
			total := inv.Subtotal.Sub(inv.Discount)
			cost := saleCost(inv)
			profit := total.Sub(cost)
			rep.Sales = append(rep.Sales, domain.SaleProfit{
				InvoiceID: inv.ID, Date: inv.Date, Total: total, Cost: cost, Profit: profit,
			})
			rep.TotalSalesProfit = rep.TotalSalesProfit.Add(profit)
		case domain.InvoiceTreatment:
			cost := treatmentCost(inv)
			profit := inv.Charged().Sub(cost)
			rep.Treatments = append(rep.Treatments, domain.TreatmentProfit{
				InvoiceID: inv.ID, Date: inv.Date, Charged: inv.Charged(), Cost: cost, Profit: profit,
			})
			rep.TotalTreatmentProfit = rep.TotalTreatmentProfit.Add(profit)
		}
	}
	rep.GrandTotalProfit = rep.TotalSalesProfit.Add(rep.TotalTreatmentProfit)
	return rep
}

// Inventory lists products with stock on hand, flagged for low stock, near
// expiry (within two months) and top-five sales in r.
func (l *Ledger) Inventory(r domain.DateRange) []domain.InventoryReportItem {
	start, end := rangeBounds(r)
	sold := map[string]decimal.Decimal{}
	var order []string
	for _, inv := range l.st.Invoices {
		if inv.Type != domain.InvoiceSale || !inRange(inv.Date, start, end) {
			continue
		}
		for _, it := range inv.Items {
			q, seen := sold[it.ProductID]
			if !seen {
				order = append(order, it.ProductID)
			}
			sold[it.ProductID] = q.Add(it.Quantity)
		}
	}
	slices.SortStableFunc(order, func(a, b string) int {
		return sold[b].Cmp(sold[a])
	})
	top := map[string]bool{}
	for i, id := range order {
		if i == topSellerCount {
			break
		}
		top[id] = true
	}

	nearExpiry := l.now().AddDate(0, 2, 0)
	out := []domain.InventoryReportItem{}
	for _, p := range l.Products() {
		if !p.StockVials.IsPositive() && !p.StockLoose.IsPositive() {
			continue
		}
		qty, ok := sold[p.ID]
		if !ok {
			qty = decimal.Zero
		}
		out = append(out, domain.InventoryReportItem{
			Product:      p,
			IsLowStock:   p.StockVials.LessThanOrEqual(p.LowStockAlert),
			IsNearExpiry: !p.ExpiryDate.IsZero() && p.ExpiryDate.Before(nearExpiry),
			IsTopSeller:  top[p.ID],
			SoldQty:      qty,
		})
	}
	return out
}

// CustomersReport pairs each customer's balance with invoice totals in r.
func (l *Ledger) CustomersReport(r domain.DateRange) []domain.PartyReportItem {
	business := l.businessByParty(r, func(inv domain.Invoice) string { return inv.CustomerID })
	out := make([]domain.PartyReportItem, 0, len(l.st.Customers))
	for _, c := range l.st.Customers {
		out = append(out, partyItem(c.ID, c.Name, c.Phone, c.OutstandingBalance, business))
	}
	return out
}

// SuppliersReport pairs each supplier's balance with invoice totals in r.
func (l *Ledger) SuppliersReport(r domain.DateRange) []domain.PartyReportItem {
	business := l.businessByParty(r, func(inv domain.Invoice) string { return inv.SupplierID })
	out := make([]domain.PartyReportItem, 0, len(l.st.Suppliers))
	for _, s := range l.st.Suppliers {
		out = append(out, partyItem(s.ID, s.Name, s.Phone, s.OutstandingBalance, business))
	}
	return out
}

func (l *Ledger) businessByParty(r domain.DateRange, party func(domain.Invoice) string) map[string]decimal.Decimal {
	start, end := rangeBounds(r)
	business := map[string]decimal.Decimal{}
	for _, inv := range l.st.Invoices {
		id := party(inv)
		if id == "" || !inRange(inv.Date, start, end) {
			continue
		}
		business[id] = business[id].Add(inv.TotalAmount)
	}
	return business
}

func partyItem(id, name, phone string, balance decimal.Decimal, business map[string]decimal.Decimal) domain.PartyReportItem {
	total, ok := business[id]
	if !ok {
		total = decimal.Zero
	}
	return domain.PartyReportItem{ID: id, Name: name, Phone: phone, OutstandingBalance: balance, TotalBusiness: total}
}

// PaymentsReport lists payments dated in r with party names.
func (l *Ledger) PaymentsReport(r domain.DateRange) []domain.PaymentWithParty {
	start, end := rangeBounds(r)
	out := []domain.PaymentWithParty{}
	for _, p := range l.st.Payments {
		if inRange(p.Date, start, end) {
			out = append(out, domain.PaymentWithParty{Payment: p, PartyName: l.st.partyName(p.PartyID)})
		}
	}
	return out
}

// DashboardAlerts lists low-stock products and products expiring within 30
// days that have not expired yet.
func (l *Ledger) DashboardAlerts() domain.DashboardAlerts {
	now := l.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	horizon := today.AddDate(0, 0, dashboardExpiryDays)

	alerts := domain.DashboardAlerts{LowStock: []domain.Product{}, Expiring: []domain.Product{}}
	for _, p := range l.Products() {
		if p.StockVials.LessThanOrEqual(p.LowStockAlert) {
			alerts.LowStock = append(alerts.LowStock, p)
		}
		if !p.ExpiryDate.IsZero() && !p.ExpiryDate.Before(today) && !p.ExpiryDate.After(horizon) {
			alerts.Expiring = append(alerts.Expiring, p)
		}
	}
	return alerts
}
