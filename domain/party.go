package domain

import "github.com/shopspring/decimal"

// Customer owes the clinic OutstandingBalance.
type Customer struct {
	ID                 string          `db:"id" json:"id"`
	Name               string          `db:"name" json:"name"`
	Phone              string          `db:"phone" json:"phone"`
	Address            string          `db:"address" json:"address"`
	OutstandingBalance decimal.Decimal `db:"outstanding_balance" json:"outstandingBalance"`
}

// Supplier is owed OutstandingBalance by the clinic.
type Supplier struct {
	ID                 string          `db:"id" json:"id"`
	Name               string          `db:"name" json:"name"`
	Phone              string          `db:"phone" json:"phone"`
	Address            string          `db:"address" json:"address"`
	OutstandingBalance decimal.Decimal `db:"outstanding_balance" json:"outstandingBalance"`
}

// LedgerEntry is one row of a party ledger with the running balance after it.
type LedgerEntry struct {
	ID          string          `json:"id"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// PartyHistory is the raw invoice and payment history of a party.
type PartyHistory struct {
	Invoices []Invoice `json:"invoices"`
	Payments []Payment `json:"payments"`
}
