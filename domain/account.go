package domain

import "github.com/shopspring/decimal"

// AccountTransaction moves money in the clinic and/or owner columns.
// ClinicBalance and OwnerBalance are running totals and are only ever
// written by the balance recompute.
type AccountTransaction struct {
	ID            string          `db:"id" json:"id"`
	Date          Date            `db:"date" json:"date"`
	Description   string          `db:"description" json:"description"`
	ClinicAmount  decimal.Decimal `db:"clinic_amount" json:"clinicAmount"`
	OwnerAmount   decimal.Decimal `db:"owner_amount" json:"ownerAmount"`
	ClinicBalance decimal.Decimal `db:"clinic_balance" json:"clinicBalance"`
	OwnerBalance  decimal.Decimal `db:"owner_balance" json:"ownerBalance"`
	ReferenceID   string          `db:"reference_id" json:"referenceId,omitempty"`
	IsManual      bool            `db:"is_manual" json:"isManual"`
}

// ManualTransactionType is a user-entered transfer between the two columns.
type ManualTransactionType string

const (
	ClinicToOwner    ManualTransactionType = "clinicToOwner"
	OwnerToClinic    ManualTransactionType = "ownerToClinic"
	PersonalSpending ManualTransactionType = "personalSpending"
)

// Amounts maps a positive amount to signed clinic and owner amounts.
func (t ManualTransactionType) Amounts(amount decimal.Decimal) (clinic, owner decimal.Decimal, ok bool) {
	switch t {
	case ClinicToOwner:
		return amount.Neg(), amount, true
	case OwnerToClinic:
		return amount, amount.Neg(), true
	case PersonalSpending:
		return decimal.Zero, amount.Neg(), true
	}
	return decimal.Zero, decimal.Zero, false
}

// Balances are the latest running totals of both columns.
type Balances struct {
	ClinicBalance decimal.Decimal `json:"clinicBalance"`
	OwnerBalance  decimal.Decimal `json:"ownerBalance"`
}
