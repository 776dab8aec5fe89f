package ledger

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"vetclinic/m/domain"
)

// ProductInput is a product as entered on the product form. InitialStock is
// only honoured when the product is created.
type ProductInput struct {
	domain.Product
	InitialStock decimal.Decimal `json:"initialStock"`
}

// Products returns every product with StockVials computed from its batches.
func (l *Ledger) Products() []domain.Product {
	out := make([]domain.Product, len(l.st.Products))
	for i, p := range l.st.Products {
		out[i] = withStock(p)
	}
	return out
}

// Product returns one product with StockVials computed.
func (l *Ledger) Product(id string) (domain.Product, error) {
	p := l.st.product(id)
	if p == nil {
		return domain.Product{}, fail(ErrProductNotFound, "%s", id)
	}
	return withStock(*p), nil
}

func withStock(p domain.Product) domain.Product {
	p.Batches = slices.Clone(p.Batches)
	p.StockVials = p.WholeUnits()
	return p
}

// SaveProduct creates in when create is set, otherwise updates the
// descriptive fields of the existing product. Batches are never edited here.
func (l *Ledger) SaveProduct(in ProductInput, create bool) (domain.Product, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	if in.ID == "" || in.Name == "" {
		return domain.Product{}, invalid("product id and name are required")
	}
	if in.StockLoose.IsNegative() || in.LatestPurchasePrice.IsNegative() || in.SalePrice.IsNegative() ||
		in.LowStockAlert.IsNegative() || in.InitialStock.IsNegative() {
		return domain.Product{}, invalid("product quantities and prices cannot be negative")
	}

	if create {
		if l.st.product(in.ID) != nil {
			return domain.Product{}, fail(ErrDuplicateID, "product %s", in.ID)
		}
		p := in.Product
		p.StockVials = decimal.Zero
		p.Batches = []domain.StockBatch{}
		if in.InitialStock.IsPositive() {
			AddBatch(&p, domain.StockBatch{
				Quantity:      in.InitialStock,
				PurchasePrice: p.LatestPurchasePrice,
				InvoiceID:     domain.BatchOriginInitial,
				Date:          domain.NewDate(l.now()),
			})
		}
		l.st.Products = append(l.st.Products, p)
		l.logSync(domain.ActionCreate, withStock(p))
		return withStock(p), nil
	}

	p := l.st.product(in.ID)
	if p == nil {
		return domain.Product{}, fail(ErrProductNotFound, "%s", in.ID)
	}
	p.Name = in.Name
	p.Location = in.Location
	p.PackingUnit = in.PackingUnit
	p.LooseUnit = in.LooseUnit
	p.StockLoose = in.StockLoose
	p.LatestPurchasePrice = in.LatestPurchasePrice
	p.SalePrice = in.SalePrice
	p.ExpiryDate = in.ExpiryDate
	p.LowStockAlert = in.LowStockAlert
	l.logSync(domain.ActionUpdate, withStock(*p))
	return withStock(*p), nil
}

// DeleteProduct refuses while any invoice line references the product.
func (l *Ledger) DeleteProduct(id string) error {
	idx := slices.IndexFunc(l.st.Products, func(p domain.Product) bool { return p.ID == id })
	if idx < 0 {
		return fail(ErrProductNotFound, "%s", id)
	}
	for _, inv := range l.st.Invoices {
		for _, it := range inv.Items {
			if it.ProductID == id {
				return fail(ErrProductInUse, "%s is on invoice %s", id, inv.ID)
			}
		}
	}
	l.st.Products = append(l.st.Products[:idx], l.st.Products[idx+1:]...)
	l.logDelete(domain.CollectionProducts, id)
	return nil
}

// ProductHistory lists every invoice line for the product, newest first,
// split into purchases and outgoing sales/treatments.
func (l *Ledger) ProductHistory(id string) (domain.ProductHistory, error) {
	if l.st.product(id) == nil {
		return domain.ProductHistory{}, fail(ErrProductNotFound, "%s", id)
	}
	h := domain.ProductHistory{Purchases: []domain.ProductHistoryEntry{}, Sales: []domain.ProductHistoryEntry{}}
	for _, inv := range newestFirst(l.st.Invoices) {
		for _, it := range inv.Items {
			if it.ProductID != id {
				continue
			}
			e := domain.ProductHistoryEntry{
				Date:      inv.Date,
				InvoiceID: inv.ID,
				Type:      inv.Type,
				PartyName: l.st.partyName(inv.PartyID()),
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Total:     it.Total,
			}
			if inv.Type == domain.InvoicePurchase {
				h.Purchases = append(h.Purchases, e)
			} else {
				h.Sales = append(h.Sales, e)
			}
		}
	}
	return h, nil
}

func newestFirst(invoices []domain.Invoice) []domain.Invoice {
	out := slices.Clone(invoices)
	slices.SortStableFunc(out, func(a, b domain.Invoice) int {
		return b.Date.Compare(a.Date.Time)
	})
	return out
}
