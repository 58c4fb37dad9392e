package response

type RoleResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CreatedAt   *string `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`
}

type AccountResponse struct {
	ID        int64         `json:"id"`
	RoleID    *int64        `json:"role_id"`
	Role      *RoleResponse `json:"role"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	IsActive  bool          `json:"is_active"`
	CreatedAt *string       `json:"created_at"`
	UpdatedAt *string       `json:"updated_at"`
}

type OrderResponse struct {
	ID            int64            `json:"id"`
	TransactionID int64            `json:"transaction_id"`
	ProductID     int64            `json:"product_id"`
	Product       *ProductResponse `json:"product"`
	Quantity      int64            `json:"quantity"`
	Price         float64          `json:"price"`
	Subtotal      float64          `json:"subtotal"`
	CreatedAt     *string          `json:"created_at"`
	UpdatedAt     *string          `json:"updated_at"`
}

type TransactionResponse struct {
	ID            int64            `json:"id"`
	AccountID     *int64           `json:"account_id"`
	Account       *AccountResponse `json:"account"`
	Code          string           `json:"code"`
	Total         float64          `json:"total"`
	PaymentMethod string           `json:"payment_method"`
	Status        string           `json:"status"`
	Orders        []OrderResponse  `json:"orders"`
	CreatedAt     *string          `json:"created_at"`
	UpdatedAt     *string          `json:"updated_at"`
}

// TransactionListResponse replaces the order lines with their count.
type TransactionListResponse struct {
	ID            int64   `json:"id"`
	AccountID     *int64  `json:"account_id"`
	AccountName   *string `json:"account_name"`
	Code          string  `json:"code"`
	Total         float64 `json:"total"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
	OrderCount    int     `json:"order_count"`
	CreatedAt     *string `json:"created_at"`
	UpdatedAt     *string `json:"updated_at"`
}
