package request

import "storeapi/internal/api/mapping"

type CreateRole struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Description *string `json:"description"`
}

func (r *CreateRole) Input() mapping.Entity {
	return compact(mapping.Entity{"name": r.Name, "description": r.Description})
}

type UpdateRole struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Description *string `json:"description,omitempty"`
}

func (r *UpdateRole) Input() mapping.Entity {
	return compact(mapping.Entity{"name": r.Name, "description": r.Description})
}

type CreateAccount struct {
	RoleID   *int64 `json:"role_id" validate:"omitempty,gt=0"`
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	IsActive *bool  `json:"is_active"`
}

func (r *CreateAccount) Input() mapping.Entity {
	return compact(mapping.Entity{
		"roleId":   r.RoleID,
		"name":     r.Name,
		"email":    r.Email,
		"password": r.Password,
		"isActive": r.IsActive,
	})
}

type UpdateAccount struct {
	RoleID   *int64  `json:"role_id,omitempty" validate:"omitempty,gt=0"`
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (r *UpdateAccount) Input() mapping.Entity {
	return compact(mapping.Entity{
		"roleId":   r.RoleID,
		"name":     r.Name,
		"email":    r.Email,
		"password": r.Password,
		"isActive": r.IsActive,
	})
}

type CreateTransaction struct {
	AccountID     *int64  `json:"account_id" validate:"omitempty,gt=0"`
	Code          string  `json:"code" validate:"required,max=50"`
	PaymentMethod *string `json:"payment_method" validate:"omitempty,oneof=cash card transfer qris"`
	Status        *string `json:"status" validate:"omitempty,oneof=pending paid cancelled"`
}

func (r *CreateTransaction) Input() mapping.Entity {
	return compact(mapping.Entity{
		"accountId":     r.AccountID,
		"code":          r.Code,
		"paymentMethod": r.PaymentMethod,
		"status":        r.Status,
	})
}

// UpdateTransaction has no total field: the total follows the orders.
type UpdateTransaction struct {
	AccountID     *int64  `json:"account_id,omitempty" validate:"omitempty,gt=0"`
	Code          *string `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
	PaymentMethod *string `json:"payment_method,omitempty" validate:"omitempty,oneof=cash card transfer qris"`
	Status        *string `json:"status,omitempty" validate:"omitempty,oneof=pending paid cancelled"`
}

func (r *UpdateTransaction) Input() mapping.Entity {
	return compact(mapping.Entity{
		"accountId":     r.AccountID,
		"code":          r.Code,
		"paymentMethod": r.PaymentMethod,
		"status":        r.Status,
	})
}

type CreateOrder struct {
	TransactionID int64    `json:"transaction_id" validate:"required,gt=0"`
	ProductID     int64    `json:"product_id" validate:"required,gt=0"`
	Quantity      int64    `json:"quantity" validate:"required,gt=0"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
}

func (r *CreateOrder) Input() mapping.Entity {
	return compact(mapping.Entity{
		"transactionId": r.TransactionID,
		"productId":     r.ProductID,
		"quantity":      r.Quantity,
		"price":         r.Price,
	})
}

type UpdateOrder struct {
	TransactionID *int64   `json:"transaction_id,omitempty" validate:"omitempty,gt=0"`
	ProductID     *int64   `json:"product_id,omitempty" validate:"omitempty,gt=0"`
	Quantity      *int64   `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}

func (r *UpdateOrder) Input() mapping.Entity {
	return compact(mapping.Entity{
		"transactionId": r.TransactionID,
		"productId":     r.ProductID,
		"quantity":      r.Quantity,
		"price":         r.Price,
	})
}
