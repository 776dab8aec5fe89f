package domain

import "github.com/shopspring/decimal"

type PaymentType string

const (
	PaymentReceive PaymentType = "receive"
	PaymentPay     PaymentType = "pay"
)

// Payment settles part of a customer or supplier balance outside an invoice.
type Payment struct {
	ID      string          `db:"id" json:"id"`
	Type    PaymentType     `db:"type" json:"type"`
	PartyID string          `db:"party_id" json:"partyId"`
	Amount  decimal.Decimal `db:"amount" json:"amount"`
	Date    Date            `db:"date" json:"date"`
}

// PaymentWithParty is a payment joined with the party's name.
type PaymentWithParty struct {
	Payment
	PartyName string `json:"partyName"`
}

// Expense is clinic spending paid from the clinic account.
type Expense struct {
	ID          string          `db:"id" json:"id"`
	Date        Date            `db:"date" json:"date"`
	Category    string          `db:"category" json:"category"`
	Description string          `db:"description" json:"description"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
}
