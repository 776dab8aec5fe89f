package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"vetclinic/m/domain"
)

// Consumption is the outcome of drawing whole packing units from a batch list.
type Consumption struct {
	Consumed  decimal.Decimal
	TotalCost decimal.Decimal
	// Shortfall is the requested quantity no batch could cover.
	Shortfall decimal.Decimal
	Remaining []domain.StockBatch
}

// SortBatches orders batches by acquisition date. Equal dates keep their
// insertion order.
func SortBatches(batches []domain.StockBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		return batches[i].Date.Before(batches[j].Date.Time)
	})
}

// Consume takes qty units oldest batch first. Partially used batches keep
// their remainder, emptied batches are dropped. The input slice is not modified.
func Consume(batches []domain.StockBatch, qty decimal.Decimal) Consumption {
	ordered := make([]domain.StockBatch, len(batches))
	copy(ordered, batches)
	SortBatches(ordered)

	need := qty
	cost := decimal.Zero
	remaining := make([]domain.StockBatch, 0, len(ordered))
	for _, b := range ordered {
		if !need.IsPositive() {
			remaining = append(remaining, b)
			continue
		}
		take := decimal.Min(need, b.Quantity)
		if take.IsNegative() {
			take = decimal.Zero
		}
		cost = cost.Add(take.Mul(b.PurchasePrice))
		need = need.Sub(take)
		if b.Quantity.GreaterThan(take) {
			b.Quantity = b.Quantity.Sub(take)
			remaining = append(remaining, b)
		}
	}
	if need.IsNegative() {
		need = decimal.Zero
	}
	return Consumption{
		Consumed:  qty.Sub(need),
		TotalCost: cost,
		Shortfall: need,
		Remaining: remaining,
	}
}

// AddBatch appends b without merging it into existing batches.
func AddBatch(p *domain.Product, b domain.StockBatch) {
	p.Batches = append(p.Batches, b)
}

// RemoveInvoiceBatches drops every batch created by invoiceID and returns
// the quantity removed.
func RemoveInvoiceBatches(p *domain.Product, invoiceID string) decimal.Decimal {
	removed := decimal.Zero
	kept := p.Batches[:0]
	for _, b := range p.Batches {
		if b.InvoiceID == invoiceID {
			removed = removed.Add(b.Quantity)
			continue
		}
		kept = append(kept, b)
	}
	p.Batches = kept
	return removed
}

// RestoreBatch puts qty units back as a single synthetic batch at the front
// of the FIFO order. It is dated no later than the oldest batch on hand so it
// is consumed first, as the units it stands for were.
func RestoreBatch(p *domain.Product, qty, price decimal.Decimal, origin string, date domain.Date) {
	SortBatches(p.Batches)
	if len(p.Batches) > 0 && p.Batches[0].Date.Before(date.Time) {
		date = p.Batches[0].Date
	}
	restored := domain.StockBatch{Quantity: qty, PurchasePrice: price, InvoiceID: origin, Date: date}
	p.Batches = append([]domain.StockBatch{restored}, p.Batches...)
}
