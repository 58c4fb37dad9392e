package response

type CategoryResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   *string `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`
}

type MasterProductResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Code        string            `json:"code"`
	Description string            `json:"description"`
	CategoryID  *int64            `json:"category_id"`
	Category    *CategoryResponse `json:"category"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   *string           `json:"created_at"`
	UpdatedAt   *string           `json:"updated_at"`
}

type ProductResponse struct {
	ID              int64                  `json:"id"`
	MasterProductID int64                  `json:"master_product_id"`
	MasterProduct   *MasterProductResponse `json:"master_product"`
	SKU             string                 `json:"sku"`
	Price           float64                `json:"price"`
	Cost            float64                `json:"cost"`
	Stock           int64                  `json:"stock"`
	IsActive        bool                   `json:"is_active"`
	CreatedAt       *string                `json:"created_at"`
	UpdatedAt       *string                `json:"updated_at"`
}

// ProductListResponse flattens the master product to its name.
type ProductListResponse struct {
	ID                int64   `json:"id"`
	MasterProductID   int64   `json:"master_product_id"`
	MasterProductName *string `json:"master_product_name"`
	SKU               string  `json:"sku"`
	Price             float64 `json:"price"`
	Stock             int64   `json:"stock"`
	IsActive          bool    `json:"is_active"`
	CreatedAt         *string `json:"created_at"`
	UpdatedAt         *string `json:"updated_at"`
}

type ProductStockInResponse struct {
	ID        int64            `json:"id"`
	ProductID int64            `json:"product_id"`
	Product   *ProductResponse `json:"product"`
	Quantity  int64            `json:"quantity"`
	Note      string           `json:"note"`
	CreatedAt *string          `json:"created_at"`
	UpdatedAt *string          `json:"updated_at"`
}

type StockDayResponse struct {
	ProductID  int64  `json:"product_id"`
	Date       string `json:"date"`
	QuantityIn int64  `json:"quantity_in"`
	Balance    int64  `json:"balance"`
}
