package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"storeapi/internal/api/apperror"
	"storeapi/internal/api/entities"
	"storeapi/internal/api/events"
	"storeapi/internal/api/mapping"
	"storeapi/internal/api/models"
	"storeapi/internal/api/repo"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	values map[string]any
	gets   int
}

func (slf *memoryCache) Get(_ context.Context, key string, dest any) error {
	slf.gets++
	v, ok := slf.values[key]
	if !ok {
		return redis.Nil
	}
	*(dest.(*[]StockDay)) = v.([]StockDay)
	return nil
}

func (slf *memoryCache) Set(_ context.Context, key string, value any) error {
	slf.values[key] = value
	return nil
}

func (slf *memoryCache) Delete(_ context.Context, key string) error {
	delete(slf.values, key)
	return nil
}

func (slf *memoryCache) IsMiss(err error) bool {
	return err == redis.Nil
}

type eventRecorder struct {
	mu     sync.Mutex
	Events []events.Event
}

func (slf *eventRecorder) Publish(_ context.Context, event events.Event) {
	slf.mu.Lock()
	defer slf.mu.Unlock()
	slf.Events = append(slf.Events, event)
}

// failingStore fails every update of one resource while err is set.
type failingStore struct {
	repo.Store
	resource string
	err      error
}

func (slf failingStore) Update(ctx context.Context, resource string, id int64, fields mapping.Record, includes []string) (mapping.Record, error) {
	if slf.err != nil && resource == slf.resource {
		return nil, slf.err
	}
	return slf.Store.Update(ctx, resource, id, fields, includes)
}

type fixture struct {
	store    *repo.MemoryStore
	services *Services
	recorder *eventRecorder
	cache    *memoryCache
}

func setupServices(t *testing.T) fixture {
	return setupServicesWith(t, func(store repo.Store) repo.Store { return store })
}

func setupServicesWith(t *testing.T, wrap func(repo.Store) repo.Store) fixture {
	catalog, err := repo.NewCatalog(nil, models.All()...)
	require.NoError(t, err)

	store := repo.NewMemoryStore(catalog)
	recorder := &eventRecorder{}
	cache := &memoryCache{values: map[string]any{}}
	services := NewServices(wrap(store), entities.NewRegistry(), recorder, cache, zerolog.New(io.Discard))
	return fixture{store: store, services: services, recorder: recorder, cache: cache}
}

func (f fixture) count(t *testing.T, resource string) int64 {
	_, total, err := f.store.FindAll(context.Background(), resource, repo.Query{})
	require.NoError(t, err)
	return total
}

func (f fixture) create(t *testing.T, resource string, input mapping.Entity) mapping.Entity {
	entity, err := f.services.Get(resource).Create(context.Background(), input)
	require.NoError(t, err)
	return entity
}

func (f fixture) product(t *testing.T, sku string, price float64) mapping.Entity {
	mp := f.create(t, entities.MasterProducts, mapping.Entity{"name": "Cola", "code": "MP-" + sku})
	return f.create(t, entities.Products, mapping.Entity{
		"masterProductId": mp.ID(),
		"sku":             sku,
		"price":           price,
	})
}

func TestServices_Names(t *testing.T) {
	f := setupServices(t)
	assert.Equal(t, []string{
		"accounts", "categories", "master_products", "orders",
		"product_stock_ins", "products", "roles", "transactions",
	}, f.services.Names())
	assert.Nil(t, f.services.Get("widgets"))
	assert.IsType(t, &AccountService{}, f.services.Get(entities.Accounts))
	assert.IsType(t, &OrderService{}, f.services.Get(entities.Orders))
	assert.Same(t, f.services.Stock, f.services.Get(entities.ProductStockIns))
}

func TestBase_GetByID_NotFound(t *testing.T) {
	f := setupServices(t)

	_, err := f.services.Get(entities.Categories).GetByID(context.Background(), "42")
	var notFound *apperror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "categories", notFound.Resource)
	assert.Equal(t, "42", notFound.ID)
}

func TestBase_PublishesEvents(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	categories := f.services.Get(entities.Categories)

	created := f.create(t, entities.Categories, mapping.Entity{"name": "Drinks"})
	_, err := categories.Update(ctx, created.ID(), mapping.Entity{"description": "Cold"})
	require.NoError(t, err)
	require.NoError(t, categories.Delete(ctx, created.ID()))

	require.Len(t, f.recorder.Events, 3)
	assert.Equal(t, events.Created, f.recorder.Events[0].Action)
	assert.Equal(t, events.Updated, f.recorder.Events[1].Action)
	assert.Equal(t, events.Deleted, f.recorder.Events[2].Action)
	for _, e := range f.recorder.Events {
		assert.Equal(t, "categories", e.Resource)
		assert.Equal(t, created.ID(), e.ID)
	}
	assert.Nil(t, f.recorder.Events[2].Data)
}

func TestBase_FailedWriteDoesNotPublish(t *testing.T) {
	f := setupServices(t)

	err := f.services.Get(entities.Categories).Delete(context.Background(), "7")
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.recorder.Events)
}

func TestAccountService_Create_HashesPassword(t *testing.T) {
	f := setupServices(t)

	account := f.create(t, entities.Accounts, mapping.Entity{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "s3cret-pass",
	})
	assert.NotContains(t, account, "password")
	assert.Equal(t, true, account["isActive"])

	id, err := mapping.ParseID(account.ID())
	require.NoError(t, err)
	rec, err := f.store.FindByID(context.Background(), entities.Accounts, id, nil)
	require.NoError(t, err)

	hash := mapping.MapNullableString(rec["password"])
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestAccountService_Create_RequiresPassword(t *testing.T) {
	f := setupServices(t)

	_, err := f.services.Get(entities.Accounts).Create(context.Background(), mapping.Entity{
		"name":  "Ana",
		"email": "ana@example.com",
	})
	var validation *apperror.ValidationError
	require.ErrorAs(t, err, &validation)
	require.Len(t, validation.Items, 1)
	assert.Equal(t, "password", validation.Items[0].Field)
	assert.Equal(t, apperror.TypeRequired, validation.Items[0].Type)
}

func TestAccountService_Update_KeepsPasswordWhenEmpty(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	accounts := f.services.Get(entities.Accounts)

	account := f.create(t, entities.Accounts, mapping.Entity{
		"name": "Ana", "email": "ana@example.com", "password": "first-pass",
	})
	id, _ := mapping.ParseID(account.ID())

	_, err := accounts.Update(ctx, account.ID(), mapping.Entity{"name": "Ana B", "password": ""})
	require.NoError(t, err)
	rec, _ := f.store.FindByID(ctx, entities.Accounts, id, nil)
	assert.True(t, CheckPassword(mapping.MapNullableString(rec["password"]), "first-pass"))

	_, err = accounts.Update(ctx, account.ID(), mapping.Entity{"password": "second-pass"})
	require.NoError(t, err)
	rec, _ = f.store.FindByID(ctx, entities.Accounts, id, nil)
	assert.True(t, CheckPassword(mapping.MapNullableString(rec["password"]), "second-pass"))
	assert.Equal(t, "Ana B", rec["name"])
}

func TestOrderService_TotalsFollowOrders(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	orders := f.services.Get(entities.Orders)

	product := f.product(t, "SKU-1", 2500)
	trx := f.create(t, entities.Transactions, mapping.Entity{"code": "TRX-1"})
	assert.Equal(t, "cash", trx["paymentMethod"])
	assert.Equal(t, "pending", trx["status"])

	first, err := orders.Create(ctx, mapping.Entity{
		"transactionId": trx.ID(),
		"productId":     product.ID(),
		"quantity":      2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2500.0, first["price"])
	assert.Equal(t, 5000.0, first["subtotal"])

	_, err = orders.Create(ctx, mapping.Entity{
		"transactionId": trx.ID(),
		"productId":     product.ID(),
		"quantity":      1,
		"price":         1000.0,
	})
	require.NoError(t, err)

	got, err := f.services.Get(entities.Transactions).GetByID(ctx, trx.ID())
	require.NoError(t, err)
	assert.Equal(t, 6000.0, got["total"])
	assert.Len(t, got.Relations("orders"), 2)

	updated, err := orders.Update(ctx, first.ID(), mapping.Entity{"quantity": 3})
	require.NoError(t, err)
	assert.Equal(t, 7500.0, updated["subtotal"])

	got, _ = f.services.Get(entities.Transactions).GetByID(ctx, trx.ID())
	assert.Equal(t, 8500.0, got["total"])

	require.NoError(t, orders.Delete(ctx, first.ID()))
	got, _ = f.services.Get(entities.Transactions).GetByID(ctx, trx.ID())
	assert.Equal(t, 1000.0, got["total"])
}

func TestOrderService_UnknownProduct(t *testing.T) {
	f := setupServices(t)
	trx := f.create(t, entities.Transactions, mapping.Entity{"code": "TRX-1"})

	_, err := f.services.Get(entities.Orders).Create(context.Background(), mapping.Entity{
		"transactionId": trx.ID(),
		"productId":     "99",
		"quantity":      1,
	})
	var validation *apperror.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "product_id", validation.Items[0].Field)
}

func TestOrdersTotal(t *testing.T) {
	assert.Equal(t, 0.0, OrdersTotal(nil))
	assert.Equal(t, 12.5, OrdersTotal([]mapping.Entity{{"subtotal": 10.0}, {"subtotal": 2.5}, {}}))
}

func TestOrderService_Create_RollsBackWhenTotalFails(t *testing.T) {
	errConn := errors.New("connection reset")
	f := setupServicesWith(t, func(store repo.Store) repo.Store {
		return failingStore{Store: store, resource: entities.Transactions, err: errConn}
	})
	product := f.product(t, "SKU-1", 2500)
	trx := f.create(t, entities.Transactions, mapping.Entity{"code": "TRX-1"})
	published := len(f.recorder.Events)

	_, err := f.services.Get(entities.Orders).Create(context.Background(), mapping.Entity{
		"transactionId": trx.ID(),
		"productId":     product.ID(),
		"quantity":      2,
	})
	require.ErrorIs(t, err, errConn)

	assert.Zero(t, f.count(t, entities.Orders))
	assert.Len(t, f.recorder.Events, published)
}

func TestOrderService_Delete_RollsBackWhenTotalFails(t *testing.T) {
	errConn := errors.New("connection reset")
	var failing *failingStore
	f := setupServicesWith(t, func(store repo.Store) repo.Store {
		failing = &failingStore{Store: store, resource: entities.Transactions}
		return failing
	})
	ctx := context.Background()
	product := f.product(t, "SKU-1", 2500)
	trx := f.create(t, entities.Transactions, mapping.Entity{"code": "TRX-1"})
	order := f.create(t, entities.Orders, mapping.Entity{
		"transactionId": trx.ID(),
		"productId":     product.ID(),
		"quantity":      2,
	})

	failing.err = errConn
	require.ErrorIs(t, f.services.Get(entities.Orders).Delete(ctx, order.ID()), errConn)

	failing.err = nil
	assert.Equal(t, int64(1), f.count(t, entities.Orders))
	got, err := f.services.Get(entities.Transactions).GetByID(ctx, trx.ID())
	require.NoError(t, err)
	assert.Equal(t, 5000.0, got["total"])
}
