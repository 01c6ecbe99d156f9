package configs

import (
	"context"
	"testing"
	"time"

	"milano/entity"
	"milano/repository"
	"milano/repository/memstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestDemoCatalog(t *testing.T) {
	c, err := DemoCatalog()
	require.NoError(t, err)
	require.Len(t, c.Categories, 3)
	require.Len(t, c.MenuItems, 5)

	first := c.MenuItems[0]
	assert.Equal(t, uint(1), first.ID)
	assert.Equal(t, "Margherita Pizza", first.NameEn)
	assert.Equal(t, "Pizzas", first.CategoryNameEn)
	assert.True(t, decimal.NewFromInt(45000).Equal(first.Price))
	assert.Len(t, c.Available(), 5)
}

func TestParseCatalog_Rejects(t *testing.T) {
	_, err := ParseCatalog([]byte("menu_items:\n  - id: 0\n"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("{{nope"))
	assert.Error(t, err)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("POLL_INTERVAL", "10s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DBDriver)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.AlertDuration)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.Origins())
}

func TestLoadConfig_BadDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mongo")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestOrigins(t *testing.T) {
	cfg := &Config{CORSOrigins: "https://milano.uz, http://localhost:3000 ,"}
	assert.Equal(t, []string{"https://milano.uz", "http://localhost:3000"}, cfg.Origins())
}

func TestOpenStore_Memory(t *testing.T) {
	store, err := OpenStore(&Config{DBDriver: "memory"})
	require.NoError(t, err)
	assert.Equal(t, "memory", store.Mode())
}

func TestOpenStore_SQLite(t *testing.T) {
	store, err := OpenStore(&Config{DBDriver: "sqlite", DBSource: "file:configs_open?mode=memory&cache=shared"})
	require.NoError(t, err)
	assert.Equal(t, "relational", store.Mode())
}

func openSQLite(t *testing.T, name string) *repository.RelationalStore {
	t.Helper()
	store, err := OpenStore(&Config{DBDriver: "sqlite", DBSource: "file:" + name + "?mode=memory&cache=shared"})
	require.NoError(t, err)
	rel, ok := store.(*repository.RelationalStore)
	require.True(t, ok)
	t.Cleanup(func() { _ = rel.Close() })
	return rel
}

func TestOpenStore_StampsUTCInAnyZone(t *testing.T) {
	prev := time.Local
	time.Local = time.FixedZone("UZT", 5*60*60)
	t.Cleanup(func() { time.Local = prev })

	store := openSQLite(t, "configs_utc")
	ctx := context.Background()
	require.NoError(t, store.CreateUser(ctx, &entity.User{Email: "tz@milano.uz", Name: "Tz", Password: "x"}))

	now := time.Now()
	ahead, err := store.CountUsersSince(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, ahead)

	behind, err := store.CountUsersSince(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, behind)
}

func TestOpenStore_SQLiteCascadesOrderItems(t *testing.T) {
	store := openSQLite(t, "configs_fk")
	ctx := context.Background()
	o := &entity.Order{
		Status:          entity.StatusPending,
		TotalAmount:     decimal.NewFromInt(8000),
		DeliveryAddress: "Chilonzor 5",
		Phone:           "+998901112233",
		PaymentMethod:   "cash",
		Items:           []entity.OrderItem{{MenuItemID: 4, Quantity: 1, Price: decimal.NewFromInt(8000)}},
	}
	require.NoError(t, store.CreateOrder(ctx, o))

	db := store.OrderRepository.DB
	require.NoError(t, db.Delete(&entity.Order{}, o.ID).Error)
	var left int64
	require.NoError(t, db.Model(&entity.OrderItem{}).Where("order_id = ?", o.ID).Count(&left).Error)
	assert.Zero(t, left)
}

func TestRelationalStore_Close(t *testing.T) {
	store, err := OpenStore(&Config{DBDriver: "sqlite", DBSource: "file:configs_close?mode=memory&cache=shared"})
	require.NoError(t, err)
	require.NoError(t, store.Close())
	_, err = store.ListUsers(context.Background())
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "milano.db?_foreign_keys=on", sqliteDSN("milano.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "file:x?_fk=1", sqliteDSN("file:x?_fk=1"))
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	cfg := &Config{AdminEmail: "Admin@Milano.uz", AdminPassword: "secret123"}

	_, err := Seed(ctx, store, cfg)
	require.NoError(t, err)
	_, err = Seed(ctx, store, cfg)
	require.NoError(t, err)

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@milano.uz", users[0].Email)
	assert.True(t, users[0].IsAdmin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].Password), []byte("secret123")))

	items, err := store.ListMenuItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 5)
}

func TestSeedAdmin_SkipsWithoutCredentials(t *testing.T) {
	store := memstore.New()
	require.NoError(t, SeedAdmin(context.Background(), store, "", ""))
	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}
