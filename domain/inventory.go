package domain

import "github.com/shopspring/decimal"

// Batch origins that do not point at a purchase invoice.
const (
	BatchOriginSeed    = "seed"
	BatchOriginInitial = "initial"
	BatchRevertPrefix  = "revert-"
)

// StockBatch is a quantity of whole packing units acquired at one cost.
type StockBatch struct {
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`
	PurchasePrice decimal.Decimal `db:"purchase_price" json:"purchasePrice"`
	InvoiceID     string          `db:"invoice_id" json:"invoiceId"`
	Date          Date            `db:"date" json:"date"`
}

// Product is a stocked medicine or supply item. StockVials is derived from
// Batches on every read and never trusted on input.
type Product struct {
	ID                  string          `db:"id" json:"id"`
	Name                string          `db:"name" json:"name"`
	Location            string          `db:"location" json:"location"`
	PackingUnit         string          `db:"packing_unit" json:"packingUnit"`
	LooseUnit           string          `db:"loose_unit" json:"looseUnit"`
	StockVials          decimal.Decimal `db:"-" json:"stockVials"`
	StockLoose          decimal.Decimal `db:"stock_loose" json:"stockLoose"`
	LatestPurchasePrice decimal.Decimal `db:"latest_purchase_price" json:"latestPurchasePrice"`
	SalePrice           decimal.Decimal `db:"sale_price" json:"salePrice"`
	ExpiryDate          Date            `db:"expiry_date" json:"expiryDate"`
	LowStockAlert       decimal.Decimal `db:"low_stock_alert" json:"lowStockAlert"`
	Batches             []StockBatch    `db:"-" json:"batches"`
}

// WholeUnits sums the batch quantities.
func (p Product) WholeUnits() decimal.Decimal {
	total := decimal.Zero
	for _, b := range p.Batches {
		total = total.Add(b.Quantity)
	}
	return total
}

// ProductHistoryEntry is one invoice line touching a product.
type ProductHistoryEntry struct {
	Date      Date            `json:"date"`
	InvoiceID string          `json:"invoiceId"`
	Type      InvoiceType     `json:"type"`
	PartyName string          `json:"partyName"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// ProductHistory groups a product's purchases apart from its sales and treatments.
type ProductHistory struct {
	Purchases []ProductHistoryEntry `json:"purchases"`
	Sales     []ProductHistoryEntry `json:"sales"`
}
