// Package mapper turns domain entities into response DTOs. Every function
// here is pure: identical entities always give identical responses.
package mapper

import (
	"storeapi/internal/api/entities"
	"storeapi/internal/api/mapping"
	"storeapi/pkg"
)

// DateLayout is RFC 3339 with millisecond precision.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// Mapper is the response mapper pair of one resource.
type Mapper struct {
	ToResponse     func(mapping.Entity) any
	ToListResponse func(mapping.Entity) any
}

func pair[T, L any](one func(mapping.Entity) T, list func(mapping.Entity) L) Mapper {
	return Mapper{
		ToResponse:     func(e mapping.Entity) any { return one(e) },
		ToListResponse: func(e mapping.Entity) any { return list(e) },
	}
}

var mappers = map[string]Mapper{
	entities.Categories:      pair(ToCategoryResponse, ToCategoryListResponse),
	entities.MasterProducts:  pair(ToMasterProductResponse, ToMasterProductListResponse),
	entities.Products:        pair(ToProductResponse, ToProductListResponse),
	entities.ProductStockIns: pair(ToProductStockInResponse, ToProductStockInListResponse),
	entities.Roles:           pair(ToRoleResponse, ToRoleListResponse),
	entities.Accounts:        pair(ToAccountResponse, ToAccountListResponse),
	entities.Transactions:    pair(ToTransactionResponse, ToTransactionListResponse),
	entities.Orders:          pair(ToOrderResponse, ToOrderListResponse),
}

// For returns the mapper pair of resource.
func For(resource string) (Mapper, bool) {
	m, ok := mappers[resource]
	return m, ok
}

// Identity passes entities through unchanged.
var Identity = Mapper{
	ToResponse:     func(e mapping.Entity) any { return e },
	ToListResponse: func(e mapping.Entity) any { return e },
}

func formatDate(e mapping.Entity, key string) *string {
	t := e.Time(key)
	if t == nil || t.IsZero() {
		return nil
	}
	return pkg.ToPtr(t.UTC().Format(DateLayout))
}

func id(e mapping.Entity, key string) int64 {
	return mapping.MapNullableInt(e[key])
}

func optionalID(e mapping.Entity, key string) *int64 {
	if e[key] == nil {
		return nil
	}
	return pkg.ToPtr(id(e, key))
}

func optionalString(v string, present bool) *string {
	if !present {
		return nil
	}
	return pkg.ToPtr(v)
}
