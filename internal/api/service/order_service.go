package service

import (
	"context"
	"fmt"

	"storeapi/internal/api/apperror"
	"storeapi/internal/api/mapping"
	"storeapi/internal/api/repo"
)

// OrderService prices order lines and keeps the parent transaction total
// equal to the sum of its order subtotals.
type OrderService struct {
	*Base
	products     *repo.Repository
	transactions Service
}

func NewOrderService(base *Base, products *repo.Repository, transactions Service) *OrderService {
	return &OrderService{Base: base, products: products, transactions: transactions}
}

// Create stores the order and the recomputed transaction total in one
// transaction.
func (slf *OrderService) Create(ctx context.Context, input mapping.Entity) (mapping.Entity, error) {
	var order mapping.Entity
	err := slf.inTransaction(ctx, func(ctx context.Context) error {
		line := copyEntity(input)
		if !line.Has("price") {
			price, err := slf.productPrice(ctx, mapping.MapID(line["productId"]))
			if err != nil {
				return err
			}
			line["price"] = price
		}
		line["subtotal"] = float64(line.Int64("quantity")) * line.Float64("price")

		var err error
		if order, err = slf.Base.Create(ctx, line); err != nil {
			return err
		}
		return slf.recomputeTotal(ctx, mapping.MapID(order["transactionId"]))
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (slf *OrderService) Update(ctx context.Context, id string, input mapping.Entity) (mapping.Entity, error) {
	var order mapping.Entity
	err := slf.inTransaction(ctx, func(ctx context.Context) error {
		current, err := slf.GetByID(ctx, id)
		if err != nil {
			return err
		}

		line := copyEntity(input)
		productID := mapping.MapID(current["productId"])
		if line.Has("productId") {
			productID = mapping.MapID(line["productId"])
		}
		if !line.Has("price") {
			if productID != mapping.MapID(current["productId"]) {
				price, err := slf.productPrice(ctx, productID)
				if err != nil {
					return err
				}
				line["price"] = price
			} else {
				line["price"] = current.Float64("price")
			}
		}
		quantity := current.Int64("quantity")
		if line.Has("quantity") {
			quantity = line.Int64("quantity")
		}
		line["subtotal"] = float64(quantity) * line.Float64("price")

		if order, err = slf.Base.Update(ctx, id, line); err != nil {
			return err
		}

		before, after := mapping.MapID(current["transactionId"]), mapping.MapID(order["transactionId"])
		if err := slf.recomputeTotal(ctx, after); err != nil {
			return err
		}
		if before != after {
			return slf.recomputeTotal(ctx, before)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (slf *OrderService) Delete(ctx context.Context, id string) error {
	return slf.inTransaction(ctx, func(ctx context.Context) error {
		current, err := slf.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := slf.Base.Delete(ctx, id); err != nil {
			return err
		}
		return slf.recomputeTotal(ctx, mapping.MapID(current["transactionId"]))
	})
}

func (slf *OrderService) productPrice(ctx context.Context, productID string) (float64, error) {
	if productID == "" {
		return 0, apperror.NewValidation(apperror.ErrorItem{
			Field:   "product_id",
			Message: "product_id is required",
			Type:    apperror.TypeRequired,
		})
	}
	product, err := slf.products.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, apperror.NewValidation(apperror.ErrorItem{
			Field:   "product_id",
			Message: fmt.Sprintf("product %s does not exist", productID),
			Type:    apperror.TypeInvalid,
		})
	}
	return product.Float64("price"), nil
}

// recomputeTotal sums the subtotals of every order of a transaction and
// writes the result to transactions.total.
func (slf *OrderService) recomputeTotal(ctx context.Context, transactionID string) error {
	if transactionID == "" {
		return nil
	}
	key, err := mapping.ParseID(transactionID)
	if err != nil {
		return err
	}

	page, err := slf.repo.GetAll(ctx, repo.Filter{Filters: map[string]any{"transaction_id": key}})
	if err != nil {
		return err
	}
	total := OrdersTotal(page.Data)

	if _, err := slf.transactions.Update(ctx, transactionID, mapping.Entity{"total": total}); err != nil {
		if apperror.IsNotFound(err) {
			slf.logger.Warn().Str("transaction_id", transactionID).Msg("Transaction vanished before total update")
			return nil
		}
		return err
	}
	return nil
}

func OrdersTotal(orders []mapping.Entity) float64 {
	var total float64
	for _, order := range orders {
		total += order.Float64("subtotal")
	}
	return total
}
