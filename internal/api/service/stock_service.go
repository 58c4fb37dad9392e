package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"storeapi/internal/api/apperror"
	"storeapi/internal/api/mapping"
	"storeapi/pkg/metrics"
)

const stockSummaryKey = "stock-summary"

// Cache stores JSON values by key. Get reports a miss with IsMiss.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	IsMiss(err error) bool
}

// StockDay is the quantity received for one product on one UTC day and the
// running balance of that product after it.
type StockDay struct {
	ProductID  string `json:"product_id"`
	Date       string `json:"date"`
	QuantityIn int64  `json:"quantity_in"`
	Balance    int64  `json:"balance"`
}

// ProductStockInService recomputes products.stock from the full stock-in
// history after every write.
type ProductStockInService struct {
	*Base
	products Service
	cache    Cache
}

// NewProductStockInService accepts a nil cache.
func NewProductStockInService(base *Base, products Service, cache Cache) *ProductStockInService {
	return &ProductStockInService{Base: base, products: products, cache: cache}
}

// Create stores the stock-in and the recomputed product stock in one
// transaction.
func (slf *ProductStockInService) Create(ctx context.Context, input mapping.Entity) (mapping.Entity, error) {
	var entity mapping.Entity
	var days []StockDay
	err := slf.inTransaction(ctx, func(ctx context.Context) error {
		var err error
		if entity, err = slf.Base.Create(ctx, input); err != nil {
			return err
		}
		days, err = slf.recompute(ctx, entity.String("productId"))
		return err
	})
	if err != nil {
		return nil, err
	}
	slf.store(ctx, days)
	return entity, nil
}

func (slf *ProductStockInService) Update(ctx context.Context, id string, input mapping.Entity) (mapping.Entity, error) {
	var entity mapping.Entity
	var days []StockDay
	err := slf.inTransaction(ctx, func(ctx context.Context) error {
		current, err := slf.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if entity, err = slf.Base.Update(ctx, id, input); err != nil {
			return err
		}
		days, err = slf.recompute(ctx, current.String("productId"), entity.String("productId"))
		return err
	})
	if err != nil {
		return nil, err
	}
	slf.store(ctx, days)
	return entity, nil
}

func (slf *ProductStockInService) Delete(ctx context.Context, id string) error {
	var days []StockDay
	err := slf.inTransaction(ctx, func(ctx context.Context) error {
		current, err := slf.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := slf.Base.Delete(ctx, id); err != nil {
			return err
		}
		days, err = slf.recompute(ctx, current.String("productId"))
		return err
	})
	if err != nil {
		return err
	}
	slf.store(ctx, days)
	return nil
}

// GetStockSummary returns the per product, per day stock history.
func (slf *ProductStockInService) GetStockSummary(ctx context.Context) ([]StockDay, error) {
	if slf.cache != nil {
		var days []StockDay
		err := slf.cache.Get(ctx, stockSummaryKey, &days)
		if err == nil {
			return days, nil
		}
		if !slf.cache.IsMiss(err) {
			slf.logger.Warn().Err(err).Msg("Stock summary cache read failed")
		}
	}

	days, err := slf.summary(ctx)
	if err != nil {
		return nil, err
	}
	slf.store(ctx, days)
	return days, nil
}

func (slf *ProductStockInService) summary(ctx context.Context) ([]StockDay, error) {
	stockIns, err := slf.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeStockSummary(stockIns), nil
}

// recompute rebuilds the summary and writes every product's final balance.
// Products in touched that no longer have any stock-in are reset to 0.
func (slf *ProductStockInService) recompute(ctx context.Context, touched ...string) ([]StockDay, error) {
	start := time.Now()
	defer func() { metrics.StockRecomputeDuration.Observe(time.Since(start).Seconds()) }()

	days, err := slf.summary(ctx)
	if err != nil {
		return nil, err
	}

	balances := FinalBalances(days)
	for _, productID := range touched {
		if _, ok := balances[productID]; !ok && productID != "" {
			balances[productID] = 0
		}
	}

	ids := make([]string, 0, len(balances))
	for productID := range balances {
		ids = append(ids, productID)
	}
	sort.Slice(ids, func(i, j int) bool { return lessID(ids[i], ids[j]) })

	for _, productID := range ids {
		_, err := slf.products.Update(ctx, productID, mapping.Entity{"stock": balances[productID]})
		if apperror.IsNotFound(err) {
			slf.logger.Warn().Str("product_id", productID).Msg("Skipping stock update of missing product")
			continue
		}
		if err != nil {
			return nil, err
		}
	}
	return days, nil
}

func (slf *ProductStockInService) store(ctx context.Context, days []StockDay) {
	if slf.cache == nil {
		return
	}
	if err := slf.cache.Set(ctx, stockSummaryKey, days); err != nil {
		slf.logger.Warn().Err(err).Msg("Stock summary cache write failed")
	}
}

// ComputeStockSummary groups stock-ins by product and UTC day, orders the
// groups by numeric product id then date, and folds a running balance per
// product.
func ComputeStockSummary(stockIns []mapping.Entity) []StockDay {
	type key struct {
		product string
		date    string
	}
	totals := make(map[key]int64)
	for _, in := range stockIns {
		k := key{product: in.String("productId"), date: day(in.Time("createdAt"))}
		totals[k] += in.Int64("quantity")
	}

	keys := make([]key, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].product != keys[j].product {
			return lessID(keys[i].product, keys[j].product)
		}
		return keys[i].date < keys[j].date
	})

	days := make([]StockDay, 0, len(keys))
	balance := make(map[string]int64)
	for _, k := range keys {
		balance[k.product] += totals[k]
		days = append(days, StockDay{
			ProductID:  k.product,
			Date:       k.date,
			QuantityIn: totals[k],
			Balance:    balance[k.product],
		})
	}
	return days
}

// FinalBalances returns the last running balance of every product.
func FinalBalances(days []StockDay) map[string]int64 {
	out := make(map[string]int64)
	for _, d := range days {
		out[d.ProductID] = d.Balance
	}
	return out
}

func day(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}

// lessID orders numeric ids numerically and falls back to string order.
func lessID(a, b string) bool {
	ia, errA := strconv.ParseInt(a, 10, 64)
	ib, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return ia < ib
	}
	return a < b
}
