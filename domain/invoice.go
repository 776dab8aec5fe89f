package domain

import "github.com/shopspring/decimal"

type InvoiceType string

const (
	InvoiceSale      InvoiceType = "sale"
	InvoicePurchase  InvoiceType = "purchase"
	InvoiceTreatment InvoiceType = "treatment"
)

// Prefix returns the id prefix used for invoices of this type.
func (t InvoiceType) Prefix() string {
	switch t {
	case InvoiceSale:
		return "sl#"
	case InvoicePurchase:
		return "pur#"
	case InvoiceTreatment:
		return "trt#"
	}
	return ""
}

func (t InvoiceType) Valid() bool {
	return t.Prefix() != ""
}

type PaymentStatus string

const (
	StatusFullyPaid     PaymentStatus = "Fully Paid"
	StatusPartiallyPaid PaymentStatus = "Partially Paid"
	StatusCredit        PaymentStatus = "Credit"
)

// InvoiceItem is one line of an invoice.
//
// PurchaseUnitPrice is filled in by stock consumption. For sale lines it is a
// per-unit cost; for treatment lines it holds the total cost of the line.
// OpenedUnits and OpenedCost record the packing units a treatment line opened
// so that deleting the invoice can return them.
type InvoiceItem struct {
	ProductID         string           `db:"product_id" json:"productId"`
	ProductName       string           `db:"product_name" json:"productName"`
	Quantity          decimal.Decimal  `db:"quantity" json:"quantity"`
	UnitPrice         decimal.Decimal  `db:"unit_price" json:"unitPrice"`
	Total             decimal.Decimal  `db:"total" json:"total"`
	PurchaseUnitPrice *decimal.Decimal `db:"purchase_unit_price" json:"purchaseUnitPrice,omitempty"`
	OpenedUnits       *decimal.Decimal `db:"opened_units" json:"openedUnits,omitempty"`
	OpenedLoose       *decimal.Decimal `db:"opened_loose" json:"openedLoose,omitempty"`
	OpenedCost        *decimal.Decimal `db:"opened_cost" json:"openedCost,omitempty"`
}

// Cost returns PurchaseUnitPrice or zero when unset.
func (i InvoiceItem) Cost() decimal.Decimal {
	if i.PurchaseUnitPrice == nil {
		return decimal.Zero
	}
	return *i.PurchaseUnitPrice
}

type Invoice struct {
	ID            string           `db:"id" json:"id"`
	Type          InvoiceType      `db:"type" json:"type"`
	CustomerID    string           `db:"customer_id" json:"customerId,omitempty"`
	SupplierID    string           `db:"supplier_id" json:"supplierId,omitempty"`
	Date          Date             `db:"date" json:"date"`
	Items         []InvoiceItem    `db:"-" json:"items"`
	Subtotal      decimal.Decimal  `db:"subtotal" json:"subtotal"`
	Discount      decimal.Decimal  `db:"discount" json:"discount"`
	OtherExpenses *decimal.Decimal `db:"other_expenses" json:"otherExpenses,omitempty"`
	ChargedAmount *decimal.Decimal `db:"charged_amount" json:"chargedAmount,omitempty"`
	TotalAmount   decimal.Decimal  `db:"total_amount" json:"totalAmount"`
	AmountPaid    decimal.Decimal  `db:"amount_paid" json:"amountPaid"`
	PaymentStatus PaymentStatus    `db:"payment_status" json:"paymentStatus"`
}

// PartyID returns whichever party the invoice references.
func (inv Invoice) PartyID() string {
	if inv.CustomerID != "" {
		return inv.CustomerID
	}
	return inv.SupplierID
}

// Charged returns ChargedAmount or zero.
func (inv Invoice) Charged() decimal.Decimal {
	if inv.ChargedAmount == nil {
		return decimal.Zero
	}
	return *inv.ChargedAmount
}

// Extras returns OtherExpenses or zero.
func (inv Invoice) Extras() decimal.Decimal {
	if inv.OtherExpenses == nil {
		return decimal.Zero
	}
	return *inv.OtherExpenses
}

// InvoiceDetails is an invoice joined with its party and, for treatments, the vet's fee.
type InvoiceDetails struct {
	Invoice
	Customer *Customer       `json:"customer,omitempty"`
	Supplier *Supplier       `json:"supplier,omitempty"`
	VetFee   *decimal.Decimal `json:"vetFee,omitempty"`
}
