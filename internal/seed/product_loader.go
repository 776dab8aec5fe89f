package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"vetclinic/m/domain"
	"vetclinic/m/internal/ledger"
	"vetclinic/m/internal/store"
)

// Catalog columns, in order. Only id and name are required.
var catalogHeader = []string{
	"id", "name", "location", "packing_unit", "loose_unit",
	"latest_purchase_price", "sale_price", "expiry_date", "low_stock_alert", "initial_stock",
}

// ReadCatalog parses a product catalog CSV. Malformed rows are logged and skipped.
func ReadCatalog(r io.Reader, log logrus.FieldLogger) ([]ledger.ProductInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	var products []ledger.ProductInput
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.WithError(err).WithField("line", line).Warn("unable to read catalog row")
			continue
		}
		p, err := parseCatalogRow(record)
		if err != nil {
			log.WithError(err).WithField("line", line).Warn("skipping catalog row")
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func parseCatalogRow(record []string) (ledger.ProductInput, error) {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	number := func(i int) (decimal.Decimal, error) {
		raw := field(i)
		if raw == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s: %w", catalogHeader[i], err)
		}
		return d, nil
	}

	in := ledger.ProductInput{Product: domain.Product{
		ID:          field(0),
		Name:        field(1),
		Location:    field(2),
		PackingUnit: field(3),
		LooseUnit:   field(4),
	}}
	if in.ID == "" || in.Name == "" {
		return in, errors.New("id and name are required")
	}

	var err error
	if in.LatestPurchasePrice, err = number(5); err != nil {
		return in, err
	}
	if in.SalePrice, err = number(6); err != nil {
		return in, err
	}
	if in.ExpiryDate, err = domain.ParseDate(field(7)); err != nil {
		return in, err
	}
	if in.LowStockAlert, err = number(8); err != nil {
		return in, err
	}
	if in.InitialStock, err = number(9); err != nil {
		return in, err
	}
	return in, nil
}

// LoadProducts adds catalog products whose ids are not in the store yet, in
// a single update. A missing catalog file is not an error.
func LoadProducts(ctx context.Context, s *store.Store, csvPath string, log logrus.FieldLogger) (int, error) {
	file, err := os.Open(csvPath)
	if errors.Is(err, os.ErrNotExist) {
		log.WithField("path", csvPath).Info("no product catalog found")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open product catalog: %w", err)
	}
	defer file.Close()

	products, err := ReadCatalog(file, log)
	if err != nil {
		return 0, err
	}

	existing := map[string]bool{}
	for _, p := range s.Products() {
		existing[p.ID] = true
	}
	var fresh []ledger.ProductInput
	for _, p := range products {
		if !existing[p.ID] {
			existing[p.ID] = true
			fresh = append(fresh, p)
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	err = s.Update(ctx, func(l *ledger.Ledger) error {
		for _, p := range fresh {
			if _, err := l.SaveProduct(p, true); err != nil {
				return fmt.Errorf("catalog product %s: %w", p.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.WithField("rows", len(fresh)).Info("seeded product catalog")
	return len(fresh), nil
}
