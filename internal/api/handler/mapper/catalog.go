package mapper

import (
	"storeapi/internal/api/handler/response"
	"storeapi/internal/api/mapping"
	"storeapi/internal/api/service"
)

func ToCategoryResponse(e mapping.Entity) response.CategoryResponse {
	return response.CategoryResponse{
		ID:          id(e, "id"),
		Name:        e.String("name"),
		Description: e.String("description"),
		IsActive:    e.Bool("isActive", true),
		CreatedAt:   formatDate(e, "createdAt"),
		UpdatedAt:   formatDate(e, "updatedAt"),
	}
}

func ToCategoryListResponse(e mapping.Entity) response.CategoryResponse {
	return ToCategoryResponse(e)
}

func toCategoryRef(e mapping.Entity) *response.CategoryResponse {
	if e == nil {
		return nil
	}
	r := ToCategoryResponse(e)
	return &r
}

func ToMasterProductResponse(e mapping.Entity) response.MasterProductResponse {
	return response.MasterProductResponse{
		ID:          id(e, "id"),
		Name:        e.String("name"),
		Code:        e.String("code"),
		Description: e.String("description"),
		CategoryID:  optionalID(e, "categoryId"),
		Category:    toCategoryRef(e.Relation("category")),
		IsActive:    e.Bool("isActive", true),
		CreatedAt:   formatDate(e, "createdAt"),
		UpdatedAt:   formatDate(e, "updatedAt"),
	}
}

func ToMasterProductListResponse(e mapping.Entity) response.MasterProductResponse {
	return ToMasterProductResponse(e)
}

func toMasterProductRef(e mapping.Entity) *response.MasterProductResponse {
	if e == nil {
		return nil
	}
	r := ToMasterProductResponse(e)
	return &r
}

func ToProductResponse(e mapping.Entity) response.ProductResponse {
	return response.ProductResponse{
		ID:              id(e, "id"),
		MasterProductID: id(e, "masterProductId"),
		MasterProduct:   toMasterProductRef(e.Relation("masterProduct")),
		SKU:             e.String("sku"),
		Price:           e.Float64("price"),
		Cost:            e.Float64("cost"),
		Stock:           e.Int64("stock"),
		IsActive:        e.Bool("isActive", true),
		CreatedAt:       formatDate(e, "createdAt"),
		UpdatedAt:       formatDate(e, "updatedAt"),
	}
}

func ToProductListResponse(e mapping.Entity) response.ProductListResponse {
	mp := e.Relation("masterProduct")
	return response.ProductListResponse{
		ID:                id(e, "id"),
		MasterProductID:   id(e, "masterProductId"),
		MasterProductName: optionalString(mp.String("name"), mp != nil),
		SKU:               e.String("sku"),
		Price:             e.Float64("price"),
		Stock:             e.Int64("stock"),
		IsActive:          e.Bool("isActive", true),
		CreatedAt:         formatDate(e, "createdAt"),
		UpdatedAt:         formatDate(e, "updatedAt"),
	}
}

func toProductRef(e mapping.Entity) *response.ProductResponse {
	if e == nil {
		return nil
	}
	r := ToProductResponse(e)
	return &r
}

func ToProductStockInResponse(e mapping.Entity) response.ProductStockInResponse {
	return response.ProductStockInResponse{
		ID:        id(e, "id"),
		ProductID: id(e, "productId"),
		Product:   toProductRef(e.Relation("product")),
		Quantity:  e.Int64("quantity"),
		Note:      e.String("note"),
		CreatedAt: formatDate(e, "createdAt"),
		UpdatedAt: formatDate(e, "updatedAt"),
	}
}

func ToProductStockInListResponse(e mapping.Entity) response.ProductStockInResponse {
	return ToProductStockInResponse(e)
}

func ToStockDayResponses(days []service.StockDay) []response.StockDayResponse {
	out := make([]response.StockDayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, response.StockDayResponse{
			ProductID:  mapping.MapNullableInt(d.ProductID),
			Date:       d.Date,
			QuantityIn: d.QuantityIn,
			Balance:    d.Balance,
		})
	}
	return out
}
