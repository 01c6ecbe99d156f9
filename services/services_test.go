package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"milano/entity"
	"milano/repository"
	"milano/repository/memstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("connection refused")

func testCatalog() entity.Catalog {
	return entity.Catalog{
		Categories: []entity.Category{
			{ID: 1, NameUz: "Pitsalar", NameRu: "Пиццы", NameEn: "Pizzas"},
		},
		MenuItems: []entity.MenuItem{
			{ID: 1, CategoryID: 1, NameUz: "Margarita", NameRu: "Маргарита", NameEn: "Margherita Pizza", Price: decimal.NewFromInt(45000), IsAvailable: true},
			{ID: 2, CategoryID: 1, NameUz: "Pepperoni", NameEn: "Pepperoni Pizza", Price: decimal.NewFromInt(55000), IsAvailable: true},
		},
	}
}

// seeded memory store plus the services over it
func newTestServices(t *testing.T) (*memstore.Store, *Services) {
	t.Helper()
	store := memstore.New()
	require.NoError(t, store.SeedCatalog(context.Background(), testCatalog()))
	svc := Build(store, Options{
		Demo:        testCatalog(),
		DefaultLang: "en",
		JWTSecret:   "test-secret",
		JWTTTL:      time.Hour,
	})
	svc.Auth.Cost = 4
	return store, svc
}

// fixed clock that only moves when told to
type fakeClock struct{ t time.Time }

func newClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func ptr[T any](v T) *T { return &v }

// downCatalog fails every read.
type downCatalog struct{}

func (downCatalog) ListCategories(context.Context) ([]entity.Category, error) { return nil, errDown }

func (downCatalog) ListMenuItems(context.Context) ([]entity.MenuItem, error) { return nil, errDown }

func (downCatalog) FindMenuItems(context.Context, []uint) (map[uint]entity.MenuItem, error) {
	return nil, errDown
}

func (downCatalog) SeedCatalog(context.Context, entity.Catalog) error { return errDown }

// flakyOrders fails ListOrders while down is set.
type flakyOrders struct {
	repository.OrderStore
	down bool
}

func (f *flakyOrders) ListOrders(ctx context.Context, filter repository.OrderFilter) ([]entity.Order, error) {
	if f.down {
		return nil, errDown
	}
	return f.OrderStore.ListOrders(ctx, filter)
}
