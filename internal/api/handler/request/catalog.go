package request

import "storeapi/internal/api/mapping"

type CreateCategory struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

func (r *CreateCategory) Input() mapping.Entity {
	return compact(mapping.Entity{
		"name":        r.Name,
		"description": r.Description,
		"isActive":    r.IsActive,
	})
}

type UpdateCategory struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r *UpdateCategory) Input() mapping.Entity {
	return compact(mapping.Entity{
		"name":        r.Name,
		"description": r.Description,
		"isActive":    r.IsActive,
	})
}

type CreateMasterProduct struct {
	Name        string  `json:"name" validate:"required,max=150"`
	Code        string  `json:"code" validate:"required,max=50"`
	Description *string `json:"description"`
	CategoryID  *int64  `json:"category_id" validate:"omitempty,gt=0"`
	IsActive    *bool   `json:"is_active"`
}

func (r *CreateMasterProduct) Input() mapping.Entity {
	return compact(mapping.Entity{
		"name":        r.Name,
		"code":        r.Code,
		"description": r.Description,
		"categoryId":  r.CategoryID,
		"isActive":    r.IsActive,
	})
}

type UpdateMasterProduct struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=150"`
	Code        *string `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description,omitempty"`
	CategoryID  *int64  `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r *UpdateMasterProduct) Input() mapping.Entity {
	return compact(mapping.Entity{
		"name":        r.Name,
		"code":        r.Code,
		"description": r.Description,
		"categoryId":  r.CategoryID,
		"isActive":    r.IsActive,
	})
}

type CreateProduct struct {
	MasterProductID int64    `json:"master_product_id" validate:"required,gt=0"`
	SKU             string   `json:"sku" validate:"required,max=64"`
	Price           *float64 `json:"price" validate:"omitempty,gte=0"`
	Cost            *float64 `json:"cost" validate:"omitempty,gte=0"`
	IsActive        *bool    `json:"is_active"`
}

func (r *CreateProduct) Input() mapping.Entity {
	return compact(mapping.Entity{
		"masterProductId": r.MasterProductID,
		"sku":             r.SKU,
		"price":           r.Price,
		"cost":            r.Cost,
		"isActive":        r.IsActive,
	})
}

// UpdateProduct has no stock field: stock is derived from stock-ins.
type UpdateProduct struct {
	MasterProductID *int64   `json:"master_product_id,omitempty" validate:"omitempty,gt=0"`
	SKU             *string  `json:"sku,omitempty" validate:"omitempty,min=1,max=64"`
	Price           *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Cost            *float64 `json:"cost,omitempty" validate:"omitempty,gte=0"`
	IsActive        *bool    `json:"is_active,omitempty"`
}

func (r *UpdateProduct) Input() mapping.Entity {
	return compact(mapping.Entity{
		"masterProductId": r.MasterProductID,
		"sku":             r.SKU,
		"price":           r.Price,
		"cost":            r.Cost,
		"isActive":        r.IsActive,
	})
}

type CreateProductStockIn struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  int64   `json:"quantity" validate:"required,ne=0"`
	Note      *string `json:"note"`
}

func (r *CreateProductStockIn) Input() mapping.Entity {
	return compact(mapping.Entity{
		"productId": r.ProductID,
		"quantity":  r.Quantity,
		"note":      r.Note,
	})
}

type UpdateProductStockIn struct {
	ProductID *int64  `json:"product_id,omitempty" validate:"omitempty,gt=0"`
	Quantity  *int64  `json:"quantity,omitempty" validate:"omitempty,ne=0"`
	Note      *string `json:"note,omitempty"`
}

func (r *UpdateProductStockIn) Input() mapping.Entity {
	return compact(mapping.Entity{
		"productId": r.ProductID,
		"quantity":  r.Quantity,
		"note":      r.Note,
	})
}
