package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"vetclinic/m/domain"
)

const (
	applyCreate = 1
	applyDelete = -1
)

// SaveInvoice validates in, assigns it an id and applies it to stock, the
// party balance and, when something was paid up front, the cash account.
// Derived fields (line totals, subtotal, total, payment status, costs) are
// always computed here; the caller's values are ignored.
func (l *Ledger) SaveInvoice(in domain.Invoice) (domain.Invoice, error) {
	inv, err := l.prepareInvoice(in)
	if err != nil {
		return domain.Invoice{}, err
	}

	inv.ID = l.st.Counters.NextInvoiceID(inv.Type)
	l.applyStock(&inv, applyCreate)
	l.adjustPartyBalance(inv, applyCreate)

	l.st.Invoices = append(l.st.Invoices, inv)
	l.logSync(domain.ActionCreate, inv)
	l.recordInvoicePayment(inv)
	return inv, nil
}

// DeleteInvoice reverses everything SaveInvoice did for id.
func (l *Ledger) DeleteInvoice(id string) error {
	idx := l.st.invoiceIndex(id)
	if idx < 0 {
		return fail(ErrInvoiceNotFound, "%s", id)
	}
	inv := l.st.Invoices[idx]
	for _, item := range inv.Items {
		if l.st.product(item.ProductID) == nil {
			return fail(ErrProductNotFound, "%s on invoice %s", item.ProductID, id)
		}
	}

	l.logDelete(domain.CollectionInvoices, id)
	l.applyStock(&inv, applyDelete)
	l.adjustPartyBalance(inv, applyDelete)
	l.st.Invoices = append(l.st.Invoices[:idx], l.st.Invoices[idx+1:]...)
	l.removeTransactionsFor(id)
	return nil
}

// InvoiceDetails joins an invoice with its party and, for treatments, the vet's fee.
func (l *Ledger) InvoiceDetails(id string) (domain.InvoiceDetails, error) {
	idx := l.st.invoiceIndex(id)
	if idx < 0 {
		return domain.InvoiceDetails{}, fail(ErrInvoiceNotFound, "%s", id)
	}
	inv := l.st.Invoices[idx]
	details := domain.InvoiceDetails{Invoice: inv}
	if c := l.st.customer(inv.CustomerID); c != nil {
		cust := *c
		details.Customer = &cust
	}
	if s := l.st.supplier(inv.SupplierID); s != nil {
		sup := *s
		details.Supplier = &sup
	}
	if inv.Type == domain.InvoiceTreatment {
		fee := treatmentProfit(inv)
		details.VetFee = &fee
	}
	return details, nil
}

func (l *Ledger) prepareInvoice(in domain.Invoice) (domain.Invoice, error) {
	inv := in
	if !inv.Type.Valid() {
		return inv, invalid("unknown invoice type %q", inv.Type)
	}
	if inv.Date.IsZero() {
		return inv, invalid("invoice date is required")
	}

	switch inv.Type {
	case domain.InvoicePurchase:
		if inv.SupplierID == "" || inv.CustomerID != "" {
			return inv, invalid("purchase invoices need a supplier and no customer")
		}
		if l.st.supplier(inv.SupplierID) == nil {
			return inv, fail(ErrPartyNotFound, "supplier %s", inv.SupplierID)
		}
	default:
		if inv.CustomerID == "" || inv.SupplierID != "" {
			return inv, invalid("%s invoices need a customer and no supplier", inv.Type)
		}
		if l.st.customer(inv.CustomerID) == nil {
			return inv, fail(ErrPartyNotFound, "customer %s", inv.CustomerID)
		}
	}

	if inv.AmountPaid.IsNegative() || inv.Discount.IsNegative() {
		return inv, invalid("amount paid and discount cannot be negative")
	}
	if inv.Type == domain.InvoiceTreatment {
		if inv.Extras().IsNegative() || inv.Charged().IsNegative() {
			return inv, invalid("charged amount and other expenses cannot be negative")
		}
		if len(inv.Items) == 0 && !inv.Charged().IsPositive() {
			return inv, invalid("treatment needs medicine or a charged amount")
		}
	} else if len(inv.Items) == 0 {
		return inv, invalid("%s invoice needs at least one item", inv.Type)
	}

	items := make([]domain.InvoiceItem, len(inv.Items))
	subtotal := decimal.Zero
	for i, it := range inv.Items {
		if it.ProductID == "" {
			return inv, invalid("item %d has no product", i+1)
		}
		if !it.Quantity.IsPositive() {
			return inv, invalid("item %d quantity must be positive", i+1)
		}
		if it.UnitPrice.IsNegative() {
			return inv, invalid("item %d unit price cannot be negative", i+1)
		}
		if inv.Type != domain.InvoiceTreatment && !it.Quantity.Equal(it.Quantity.Truncate(0)) {
			return inv, invalid("item %d quantity must be whole packing units", i+1)
		}
		p := l.st.product(it.ProductID)
		if p == nil {
			return inv, fail(ErrProductNotFound, "%s", it.ProductID)
		}
		if it.ProductName == "" {
			it.ProductName = p.Name
		}
		it.Total = it.Quantity.Mul(it.UnitPrice)
		it.PurchaseUnitPrice, it.OpenedUnits, it.OpenedLoose, it.OpenedCost = nil, nil, nil, nil
		subtotal = subtotal.Add(it.Total)
		items[i] = it
	}
	inv.Items = items
	inv.Subtotal = subtotal

	if inv.Type == domain.InvoiceTreatment {
		inv.Discount = decimal.Zero
		charged, extras := inv.Charged(), inv.Extras()
		inv.ChargedAmount, inv.OtherExpenses = &charged, &extras
		inv.TotalAmount = charged
	} else {
		inv.ChargedAmount, inv.OtherExpenses = nil, nil
		inv.TotalAmount = subtotal.Sub(inv.Discount)
	}
	inv.PaymentStatus = paymentStatus(inv.TotalAmount, inv.AmountPaid, len(inv.Items))
	return inv, nil
}

func paymentStatus(total, paid decimal.Decimal, items int) domain.PaymentStatus {
	switch {
	case !total.IsPositive() && items > 0:
		return domain.StatusFullyPaid
	case paid.GreaterThanOrEqual(total):
		return domain.StatusFullyPaid
	case paid.IsPositive():
		return domain.StatusPartiallyPaid
	}
	return domain.StatusCredit
}

// applyStock moves stock for every line of inv. Products must already be
// known to exist.
func (l *Ledger) applyStock(inv *domain.Invoice, direction int) {
	for i := range inv.Items {
		item := &inv.Items[i]
		p := l.st.product(item.ProductID)
		SortBatches(p.Batches)

		switch inv.Type {
		case domain.InvoicePurchase:
			if direction == applyCreate {
				AddBatch(p, domain.StockBatch{
					Quantity:      item.Quantity,
					PurchasePrice: item.UnitPrice,
					InvoiceID:     inv.ID,
					Date:          inv.Date,
				})
				p.LatestPurchasePrice = item.UnitPrice
			} else {
				RemoveInvoiceBatches(p, inv.ID)
			}
		case domain.InvoiceSale:
			if direction == applyCreate {
				l.consumeForSale(p, inv.ID, item)
			} else {
				price := p.LatestPurchasePrice
				if item.PurchaseUnitPrice != nil {
					price = *item.PurchaseUnitPrice
				}
				RestoreBatch(p, item.Quantity, price, domain.BatchRevertPrefix+inv.ID, inv.Date)
			}
		case domain.InvoiceTreatment:
			if direction == applyCreate {
				l.consumeForTreatment(p, inv.ID, item)
			} else {
				l.restoreTreatment(p, inv, item)
			}
		}
	}
}

func (l *Ledger) consumeForSale(p *domain.Product, invoiceID string, item *domain.InvoiceItem) {
	c := Consume(p.Batches, item.Quantity)
	p.Batches = c.Remaining
	l.warnShortfall(p, invoiceID, item.Quantity, c)
	unitCost := c.TotalCost.Div(item.Quantity)
	item.PurchaseUnitPrice = &unitCost
}

// consumeForTreatment draws loose units. When loose stock runs out it opens
// enough whole packing units to cover the shortfall and spreads their cost
// over everything opened. The item's PurchaseUnitPrice receives the total
// cost of the line.
func (l *Ledger) consumeForTreatment(p *domain.Product, invoiceID string, item *domain.InvoiceItem) {
	packing := ParsePackingSize(p.PackingUnit)
	p.StockLoose = p.StockLoose.Sub(item.Quantity)

	if !p.StockLoose.IsNegative() {
		total := item.Quantity.Mul(p.LatestPurchasePrice.Div(packing))
		item.PurchaseUnitPrice = &total
		return
	}

	units := p.StockLoose.Neg().Div(packing).Ceil()
	c := Consume(p.Batches, units)
	p.Batches = c.Remaining
	l.warnShortfall(p, invoiceID, units, c)

	opened := units.Mul(packing)
	perLoose := c.TotalCost.Div(opened)
	p.StockLoose = p.StockLoose.Add(opened)

	total := item.Quantity.Mul(perLoose)
	consumed, cost := c.Consumed, c.TotalCost
	item.PurchaseUnitPrice = &total
	item.OpenedUnits = &consumed
	item.OpenedLoose = &opened
	item.OpenedCost = &cost
}

func (l *Ledger) restoreTreatment(p *domain.Product, inv *domain.Invoice, item *domain.InvoiceItem) {
	p.StockLoose = p.StockLoose.Add(item.Quantity)
	if item.OpenedLoose != nil {
		p.StockLoose = p.StockLoose.Sub(*item.OpenedLoose)
	}
	if item.OpenedUnits == nil || !item.OpenedUnits.IsPositive() {
		return
	}
	price := decimal.Zero
	if item.OpenedCost != nil {
		price = item.OpenedCost.Div(*item.OpenedUnits)
	}
	RestoreBatch(p, *item.OpenedUnits, price, domain.BatchRevertPrefix+inv.ID, inv.Date)
}

func (l *Ledger) warnShortfall(p *domain.Product, invoiceID string, requested decimal.Decimal, c Consumption) {
	if !c.Shortfall.IsPositive() {
		return
	}
	l.log.WithFields(logrus.Fields{
		"product":   p.ID,
		"invoice":   invoiceID,
		"requested": requested.String(),
		"shortfall": c.Shortfall.String(),
	}).Warn("insufficient stock batches, cost covers available units only")
}

// adjustPartyBalance applies (total - paid) * direction to the invoice's party.
func (l *Ledger) adjustPartyBalance(inv domain.Invoice, direction int) {
	change := inv.TotalAmount.Sub(inv.AmountPaid).Mul(decimal.NewFromInt(int64(direction)))
	switch {
	case inv.CustomerID != "":
		if c := l.st.customer(inv.CustomerID); c != nil {
			c.OutstandingBalance = c.OutstandingBalance.Add(change)
			return
		}
	case inv.SupplierID != "":
		if s := l.st.supplier(inv.SupplierID); s != nil {
			s.OutstandingBalance = s.OutstandingBalance.Add(change)
			return
		}
	default:
		return
	}
	l.log.WithField("invoice", inv.ID).Warn("invoice party no longer exists, balance not adjusted")
}

// recordInvoicePayment books the amount paid at invoice time. Treatment
// payments go to the clinic up to the medicine subtotal; the rest is the
// vet's fee and lands in the owner column.
func (l *Ledger) recordInvoicePayment(inv domain.Invoice) {
	if !inv.AmountPaid.IsPositive() {
		return
	}
	party := l.st.partyName(inv.PartyID())

	var (
		clinic, owner decimal.Decimal
		description   string
	)
	switch inv.Type {
	case domain.InvoiceTreatment:
		clinic = decimal.Min(inv.AmountPaid, inv.Subtotal)
		if clinic.IsNegative() {
			clinic = decimal.Zero
		}
		owner = inv.AmountPaid.Sub(clinic)
		description = fmt.Sprintf("Payment for Treatment #%s from %s", inv.ID, party)
	case domain.InvoiceSale:
		clinic = inv.AmountPaid
		description = fmt.Sprintf("Payment for Sale #%s from %s", inv.ID, party)
	default:
		clinic = inv.AmountPaid.Neg()
		description = fmt.Sprintf("Payment for Purchase #%s to %s", inv.ID, party)
	}
	if clinic.IsZero() && owner.IsZero() {
		return
	}
	l.appendTransaction(domain.AccountTransaction{
		Date:         inv.Date,
		Description:  description,
		ClinicAmount: clinic,
		OwnerAmount:  owner,
		ReferenceID:  inv.ID,
	})
}
