package mapper

import (
	"storeapi/internal/api/handler/response"
	"storeapi/internal/api/mapping"
)

func ToRoleResponse(e mapping.Entity) response.RoleResponse {
	return response.RoleResponse{
		ID:          id(e, "id"),
		Name:        e.String("name"),
		Description: e.String("description"),
		CreatedAt:   formatDate(e, "createdAt"),
		UpdatedAt:   formatDate(e, "updatedAt"),
	}
}

func ToRoleListResponse(e mapping.Entity) response.RoleResponse {
	return ToRoleResponse(e)
}

func ToAccountResponse(e mapping.Entity) response.AccountResponse {
	var role *response.RoleResponse
	if r := e.Relation("role"); r != nil {
		mapped := ToRoleResponse(r)
		role = &mapped
	}
	return response.AccountResponse{
		ID:        id(e, "id"),
		RoleID:    optionalID(e, "roleId"),
		Role:      role,
		Name:      e.String("name"),
		Email:     e.String("email"),
		IsActive:  e.Bool("isActive", true),
		CreatedAt: formatDate(e, "createdAt"),
		UpdatedAt: formatDate(e, "updatedAt"),
	}
}

func ToAccountListResponse(e mapping.Entity) response.AccountResponse {
	return ToAccountResponse(e)
}

func ToOrderResponse(e mapping.Entity) response.OrderResponse {
	return response.OrderResponse{
		ID:            id(e, "id"),
		TransactionID: id(e, "transactionId"),
		ProductID:     id(e, "productId"),
		Product:       toProductRef(e.Relation("product")),
		Quantity:      e.Int64("quantity"),
		Price:         e.Float64("price"),
		Subtotal:      e.Float64("subtotal"),
		CreatedAt:     formatDate(e, "createdAt"),
		UpdatedAt:     formatDate(e, "updatedAt"),
	}
}

func ToOrderListResponse(e mapping.Entity) response.OrderResponse {
	return ToOrderResponse(e)
}

func ToTransactionResponse(e mapping.Entity) response.TransactionResponse {
	var account *response.AccountResponse
	if a := e.Relation("account"); a != nil {
		mapped := ToAccountResponse(a)
		account = &mapped
	}

	lines := e.Relations("orders")
	orders := make([]response.OrderResponse, 0, len(lines))
	for _, line := range lines {
		orders = append(orders, ToOrderResponse(line))
	}

	return response.TransactionResponse{
		ID:            id(e, "id"),
		AccountID:     optionalID(e, "accountId"),
		Account:       account,
		Code:          e.String("code"),
		Total:         e.Float64("total"),
		PaymentMethod: e.String("paymentMethod"),
		Status:        e.String("status"),
		Orders:        orders,
		CreatedAt:     formatDate(e, "createdAt"),
		UpdatedAt:     formatDate(e, "updatedAt"),
	}
}

func ToTransactionListResponse(e mapping.Entity) response.TransactionListResponse {
	account := e.Relation("account")
	return response.TransactionListResponse{
		ID:            id(e, "id"),
		AccountID:     optionalID(e, "accountId"),
		AccountName:   optionalString(account.String("name"), account != nil),
		Code:          e.String("code"),
		Total:         e.Float64("total"),
		PaymentMethod: e.String("paymentMethod"),
		Status:        e.String("status"),
		OrderCount:    len(e.Relations("orders")),
		CreatedAt:     formatDate(e, "createdAt"),
		UpdatedAt:     formatDate(e, "updatedAt"),
	}
}
