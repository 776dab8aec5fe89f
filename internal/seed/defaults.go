package seed

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"vetclinic/m/domain"
	"vetclinic/m/internal/ledger"
)

// Defaults returns a seeder that fills every empty section of a document
// with the records a new clinic starts with. Seeded records are not queued
// for sync.
func Defaults(log logrus.FieldLogger) func(st *ledger.State) (bool, error) {
	return func(st *ledger.State) (bool, error) {
		changed := false

		if len(st.Users) == 0 {
			for _, u := range []domain.User{
				{Username: "admin", Password: "admin", Role: domain.RoleAdmin},
				{Username: "staff", Password: "staff", Role: domain.RoleStaff},
			} {
				hash, err := ledger.HashPassword(u.Password)
				if err != nil {
					return false, err
				}
				u.ID = st.Counters.NextUserID()
				u.Password = hash
				st.Users = append(st.Users, u)
			}
			log.Warn("seeded default admin and staff users, change their passwords")
			changed = true
		}

		if len(st.Customers) == 0 {
			st.Customers = append(st.Customers, domain.Customer{
				ID: st.Counters.NextCustomerID(), Name: "John Doe", Phone: "123-456-7890",
				Address: "123 Main St", OutstandingBalance: decimal.Zero,
			})
			changed = true
		}

		if len(st.Suppliers) == 0 {
			st.Suppliers = append(st.Suppliers, domain.Supplier{
				ID: st.Counters.NextSupplierID(), Name: "Pharma Inc.", Phone: "987-654-3210",
				Address: "456 Supplier Ave", OutstandingBalance: decimal.Zero,
			})
			changed = true
		}

		if len(st.Products) == 0 {
			st.Products = append(st.Products, domain.Product{
				ID:                  "med1",
				Name:                "Painkiller A",
				Location:            "A1",
				PackingUnit:         "100ml Vial",
				LooseUnit:           "ml",
				StockLoose:          decimal.Zero,
				LatestPurchasePrice: decimal.NewFromInt(500),
				SalePrice:           decimal.NewFromInt(800),
				ExpiryDate:          domain.MustDate("2025-12-31"),
				LowStockAlert:       decimal.NewFromInt(5),
				Batches: []domain.StockBatch{{
					Quantity:      decimal.NewFromInt(10),
					PurchasePrice: decimal.NewFromInt(500),
					InvoiceID:     domain.BatchOriginSeed,
					Date:          domain.MustDate("2023-01-01T00:00:00Z"),
				}},
			})
			changed = true
		}

		if st.ClinicSettings.Name == "" {
			st.ClinicSettings.Name = ledger.DefaultClinicName
			changed = true
		}
		return changed, nil
	}
}
