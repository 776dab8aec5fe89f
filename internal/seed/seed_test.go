package seed

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetclinic/m/internal/ledger"
	"vetclinic/m/internal/store"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type memRepo struct {
	mu sync.Mutex
	st *ledger.State
}

func (r *memRepo) Load(context.Context) (*ledger.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.st, nil
}

func (r *memRepo) Save(_ context.Context, st *ledger.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.st = st
	return nil
}

func TestDefaults(t *testing.T) {
	st := ledger.NewState()
	changed, err := Defaults(quietLogger())(st)
	require.NoError(t, err)
	assert.True(t, changed)

	require.Len(t, st.Users, 2)
	assert.Equal(t, "user1", st.Users[0].ID)
	assert.NotEqual(t, "admin", st.Users[0].Password)
	require.Len(t, st.Customers, 1)
	assert.Equal(t, "cus1", st.Customers[0].ID)
	assert.Equal(t, 2, st.Counters.Customer)
	assert.Equal(t, "sup1", st.Suppliers[0].ID)
	require.Len(t, st.Products, 1)
	assert.Equal(t, "med1", st.Products[0].ID)
	assert.Equal(t, "10", st.Products[0].WholeUnits().String())
	assert.Empty(t, st.SyncQueue)

	l := ledger.New(st)
	u, err := l.Authenticate("admin", "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", string(u.Role))

	changed, err = Defaults(quietLogger())(st)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, st.Users, 2)
}

func TestReadCatalog(t *testing.T) {
	csv := strings.Join([]string{
		"id,name,location,packing_unit,loose_unit,latest_purchase_price,sale_price,expiry_date,low_stock_alert,initial_stock",
		"med2,Amoxicillin,B2,100ml Vial,ml,950,1300,2026-08-31,3,2",
		",No id,,,,,,,,",
		"med3,Bad price,B3,50ml Vial,ml,abc,650,,,",
		"med4,Short row",
	}, "\n")

	products, err := ReadCatalog(strings.NewReader(csv), quietLogger())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "med2", products[0].ID)
	assert.Equal(t, "2", products[0].InitialStock.String())
	assert.Equal(t, 2026, products[0].ExpiryDate.Year())
	assert.Equal(t, "med4", products[1].ID)
	assert.True(t, products[1].ExpiryDate.IsZero())
}

func TestLoadProducts(t *testing.T) {
	ctx := context.Background()
	log := quietLogger()
	s, err := store.Open(ctx, &memRepo{}, Defaults(log), store.WithLogger(log))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"id,name,location,packing_unit,loose_unit,latest_purchase_price,sale_price,expiry_date,low_stock_alert,initial_stock\n"+
			"med1,Duplicate,A1,100ml Vial,ml,1,1,,,\n"+
			"med2,Amoxicillin,B2,100ml Vial,ml,950,1300,2026-08-31,3,2\n"), 0o600))

	n, err := LoadProducts(ctx, s, path, log)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	p, err := s.Product("med2")
	require.NoError(t, err)
	assert.Equal(t, "2", p.StockVials.String())
	med1, err := s.Product("med1")
	require.NoError(t, err)
	assert.Equal(t, "Painkiller A", med1.Name)

	n, err = LoadProducts(ctx, s, path, log)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = LoadProducts(ctx, s, filepath.Join(t.TempDir(), "missing.csv"), log)
	require.NoError(t, err)
	assert.Zero(t, n)
}
