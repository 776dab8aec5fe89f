package ledger

import (
	"slices"

	"vetclinic/m/domain"
)

// Counters hold the next number of every identifier sequence.
type Counters struct {
	Customer      int `json:"customer"`
	Supplier      int `json:"supplier"`
	Invoice       int `json:"invoice"`
	Payment       int `json:"payment"`
	Expense       int `json:"expense"`
	User          int `json:"user"`
	Transaction   int `json:"transaction"`
	SyncOperation int `json:"sync_operation"`
}

func defaultCounters() Counters {
	return Counters{
		Customer: 1, Supplier: 1, Invoice: 1, Payment: 1,
		Expense: 1, User: 1, Transaction: 1, SyncOperation: 1,
	}
}

// State is the whole persisted document. Field names follow the backup file format.
type State struct {
	Products            []domain.Product            `json:"products"`
	Customers           []domain.Customer           `json:"customers"`
	Suppliers           []domain.Supplier           `json:"suppliers"`
	Invoices            []domain.Invoice            `json:"invoices"`
	Payments            []domain.Payment            `json:"payments"`
	Expenses            []domain.Expense            `json:"expenses"`
	Users               []domain.User               `json:"users"`
	ClinicSettings      domain.ClinicSettings       `json:"clinicSettings"`
	AccountTransactions []domain.AccountTransaction `json:"accountTransactions"`
	SyncQueue           []domain.SyncOperation      `json:"sync_queue"`
	Counters            Counters                    `json:"counters"`
}

// DefaultClinicName is used until the clinic settings are saved.
const DefaultClinicName = "VetClinic"

// NewState returns an empty document with every counter at 1.
func NewState() *State {
	st := &State{
		ClinicSettings: domain.ClinicSettings{Name: DefaultClinicName},
		Counters:       defaultCounters(),
	}
	st.normalize()
	return st
}

// normalize replaces nil collections with empty ones and lifts counters below 1.
func (s *State) normalize() {
	if s.Products == nil {
		s.Products = []domain.Product{}
	}
	for i := range s.Products {
		if s.Products[i].Batches == nil {
			s.Products[i].Batches = []domain.StockBatch{}
		}
	}
	if s.Customers == nil {
		s.Customers = []domain.Customer{}
	}
	if s.Suppliers == nil {
		s.Suppliers = []domain.Supplier{}
	}
	if s.Invoices == nil {
		s.Invoices = []domain.Invoice{}
	}
	if s.Payments == nil {
		s.Payments = []domain.Payment{}
	}
	if s.Expenses == nil {
		s.Expenses = []domain.Expense{}
	}
	if s.Users == nil {
		s.Users = []domain.User{}
	}
	if s.AccountTransactions == nil {
		s.AccountTransactions = []domain.AccountTransaction{}
	}
	if s.SyncQueue == nil {
		s.SyncQueue = []domain.SyncOperation{}
	}
	for _, c := range []*int{
		&s.Counters.Customer, &s.Counters.Supplier, &s.Counters.Invoice, &s.Counters.Payment,
		&s.Counters.Expense, &s.Counters.User, &s.Counters.Transaction, &s.Counters.SyncOperation,
	} {
		if *c < 1 {
			*c = 1
		}
	}
}

// Clone deep-copies every collection so a mutation can be discarded on failure.
// Decimal pointers inside items are shared; they are replaced, never written through.
func (s *State) Clone() *State {
	c := &State{
		Products:            slices.Clone(s.Products),
		Customers:           slices.Clone(s.Customers),
		Suppliers:           slices.Clone(s.Suppliers),
		Invoices:            slices.Clone(s.Invoices),
		Payments:            slices.Clone(s.Payments),
		Expenses:            slices.Clone(s.Expenses),
		Users:               slices.Clone(s.Users),
		ClinicSettings:      s.ClinicSettings,
		AccountTransactions: slices.Clone(s.AccountTransactions),
		SyncQueue:           slices.Clone(s.SyncQueue),
		Counters:            s.Counters,
	}
	for i := range c.Products {
		c.Products[i].Batches = slices.Clone(c.Products[i].Batches)
	}
	for i := range c.Invoices {
		c.Invoices[i].Items = slices.Clone(c.Invoices[i].Items)
	}
	c.normalize()
	return c
}

func (s *State) product(id string) *domain.Product {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i]
		}
	}
	return nil
}

func (s *State) customer(id string) *domain.Customer {
	for i := range s.Customers {
		if s.Customers[i].ID == id {
			return &s.Customers[i]
		}
	}
	return nil
}

func (s *State) supplier(id string) *domain.Supplier {
	for i := range s.Suppliers {
		if s.Suppliers[i].ID == id {
			return &s.Suppliers[i]
		}
	}
	return nil
}

func (s *State) invoiceIndex(id string) int {
	return slices.IndexFunc(s.Invoices, func(inv domain.Invoice) bool { return inv.ID == id })
}

func (s *State) partyName(id string) string {
	if c := s.customer(id); c != nil {
		return c.Name
	}
	if sp := s.supplier(id); sp != nil {
		return sp.Name
	}
	return "N/A"
}
