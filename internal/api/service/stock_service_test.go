package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storeapi/internal/api/entities"
	"storeapi/internal/api/mapping"
	"storeapi/internal/api/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockIn(product string, quantity int64, at time.Time) mapping.Entity {
	return mapping.Entity{"productId": product, "quantity": quantity, "createdAt": at}
}

func TestComputeStockSummary(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 23, 30, 0, 0, time.UTC)

	days := ComputeStockSummary([]mapping.Entity{
		stockIn("10", 4, day2),
		stockIn("2", 5, day1),
		stockIn("10", 1, day1),
		stockIn("2", 3, day1.Add(time.Hour)),
		stockIn("2", -2, day2),
	})

	assert.Equal(t, []StockDay{
		{ProductID: "2", Date: "2024-03-01", QuantityIn: 8, Balance: 8},
		{ProductID: "2", Date: "2024-03-02", QuantityIn: -2, Balance: 6},
		{ProductID: "10", Date: "2024-03-01", QuantityIn: 1, Balance: 1},
		{ProductID: "10", Date: "2024-03-02", QuantityIn: 4, Balance: 5},
	}, days)

	assert.Equal(t, map[string]int64{"2": 6, "10": 5}, FinalBalances(days))
}

func TestComputeStockSummary_GroupsByUTCDay(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	// 2024-03-02 05:00 in UTC+7 is still 2024-03-01 in UTC.
	days := ComputeStockSummary([]mapping.Entity{
		stockIn("1", 2, time.Date(2024, 3, 2, 5, 0, 0, 0, jakarta)),
		stockIn("1", 3, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
	})
	require.Len(t, days, 1)
	assert.Equal(t, "2024-03-01", days[0].Date)
	assert.Equal(t, int64(5), days[0].Balance)
}

func TestComputeStockSummary_Empty(t *testing.T) {
	assert.Empty(t, ComputeStockSummary(nil))
	assert.Empty(t, FinalBalances(nil))
}

func TestProductStockInService_UpdatesProductStock(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	stock := f.services.Stock
	products := f.services.Get(entities.Products)

	product := f.product(t, "SKU-1", 100)
	first := f.create(t, entities.ProductStockIns, mapping.Entity{"productId": product.ID(), "quantity": 10})
	f.create(t, entities.ProductStockIns, mapping.Entity{"productId": product.ID(), "quantity": 5})

	got, err := products.GetByID(ctx, product.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(15), got["stock"])

	_, err = stock.Update(ctx, first.ID(), mapping.Entity{"quantity": 7})
	require.NoError(t, err)
	got, _ = products.GetByID(ctx, product.ID())
	assert.Equal(t, int64(12), got["stock"])

	page, err := stock.GetAll(ctx, repo.Filter{})
	require.NoError(t, err)
	for _, e := range page.Data {
		require.NoError(t, stock.Delete(ctx, e.ID()))
	}
	got, _ = products.GetByID(ctx, product.ID())
	assert.Equal(t, int64(0), got["stock"])
}

func TestProductStockInService_MovesStockBetweenProducts(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	products := f.services.Get(entities.Products)

	a := f.product(t, "SKU-A", 1)
	b := f.product(t, "SKU-B", 1)
	in := f.create(t, entities.ProductStockIns, mapping.Entity{"productId": a.ID(), "quantity": 9})

	_, err := f.services.Stock.Update(ctx, in.ID(), mapping.Entity{"productId": b.ID()})
	require.NoError(t, err)

	gotA, _ := products.GetByID(ctx, a.ID())
	gotB, _ := products.GetByID(ctx, b.ID())
	assert.Equal(t, int64(0), gotA["stock"])
	assert.Equal(t, int64(9), gotB["stock"])
}

func TestProductStockInService_GetStockSummary_Cached(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()

	product := f.product(t, "SKU-1", 1)
	f.create(t, entities.ProductStockIns, mapping.Entity{"productId": product.ID(), "quantity": 3})

	days, err := f.services.Stock.GetStockSummary(ctx)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, product.ID(), days[0].ProductID)
	assert.Equal(t, int64(3), days[0].Balance)
	assert.Contains(t, f.cache.values, stockSummaryKey)

	f.cache.values[stockSummaryKey] = []StockDay{{ProductID: "cached"}}
	days, err = f.services.Stock.GetStockSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cached", days[0].ProductID)
}

func TestProductStockInService_NilCache(t *testing.T) {
	f := setupServices(t)
	svc := NewProductStockInService(f.services.Stock.Base, f.services.Get(entities.Products), nil)

	days, err := svc.GetStockSummary(context.Background())
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestProductStockInService_Create_RollsBackWhenStockUpdateFails(t *testing.T) {
	errConn := errors.New("connection reset")
	var failing *failingStore
	f := setupServicesWith(t, func(store repo.Store) repo.Store {
		failing = &failingStore{Store: store, resource: entities.Products}
		return failing
	})
	ctx := context.Background()
	product := f.product(t, "SKU-1", 100)
	published := len(f.recorder.Events)

	failing.err = errConn
	_, err := f.services.Stock.Create(ctx, mapping.Entity{"productId": product.ID(), "quantity": 5})
	require.ErrorIs(t, err, errConn)

	assert.Zero(t, f.count(t, entities.ProductStockIns))
	assert.Len(t, f.recorder.Events, published)
	assert.NotContains(t, f.cache.values, stockSummaryKey)

	failing.err = nil
	_, err = f.services.Stock.Create(ctx, mapping.Entity{"productId": product.ID(), "quantity": 5})
	require.NoError(t, err)
	got, err := f.services.Get(entities.Products).GetByID(ctx, product.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(5), got["stock"])
	assert.Equal(t, int64(1), f.count(t, entities.ProductStockIns))
}

func TestProductStockInService_PublishesAfterCommit(t *testing.T) {
	f := setupServices(t)
	product := f.product(t, "SKU-1", 100)
	published := len(f.recorder.Events)

	f.create(t, entities.ProductStockIns, mapping.Entity{"productId": product.ID(), "quantity": 5})

	require.Len(t, f.recorder.Events, published+2)
	assert.Equal(t, entities.ProductStockIns, f.recorder.Events[published].Resource)
	assert.Equal(t, entities.Products, f.recorder.Events[published+1].Resource)
}
