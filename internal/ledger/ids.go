package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"vetclinic/m/domain"
)

// TransactionPrefix starts every account transaction id; the numeric suffix
// orders same-day transactions.
const TransactionPrefix = "trans#"

func next(counter *int, prefix string) string {
	id := fmt.Sprintf("%s%d", prefix, *counter)
	*counter++
	return id
}

func (c *Counters) NextCustomerID() string      { return next(&c.Customer, "cus") }
func (c *Counters) NextSupplierID() string      { return next(&c.Supplier, "sup") }
func (c *Counters) NextPaymentID() string       { return next(&c.Payment, "pay") }
func (c *Counters) NextExpenseID() string       { return next(&c.Expense, "exp") }
func (c *Counters) NextUserID() string          { return next(&c.User, "user") }
func (c *Counters) NextTransactionID() string   { return next(&c.Transaction, TransactionPrefix) }
func (c *Counters) NextSyncOperationID() string { return next(&c.SyncOperation, "sync") }

// NextInvoiceID draws from the shared invoice sequence with the type's prefix.
func (c *Counters) NextInvoiceID(t domain.InvoiceType) string {
	return next(&c.Invoice, t.Prefix())
}

// transactionSeq extracts N from "trans#N"; malformed ids sort first.
func transactionSeq(id string) int {
	_, suffix, ok := strings.Cut(id, "#")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0
	}
	return n
}
