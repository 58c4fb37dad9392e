package models

import "time"

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionPaid      TransactionStatus = "paid"
	TransactionCancelled TransactionStatus = "cancelled"
)

type Transaction struct {
	ID            uint      `gorm:"primaryKey"`
	AccountID     *uint     `gorm:"index;column:account_id"`
	Account       *Account  `gorm:"foreignKey:AccountID"`
	Code          string    `gorm:"unique;not null;column:code"`
	Total         float64   `gorm:"not null;default:0;column:total"`
	PaymentMethod string    `gorm:"not null;default:cash;column:payment_method"`
	Status        string    `gorm:"not null;default:pending;column:status"`
	Orders        []Order   `gorm:"foreignKey:TransactionID"`
	CreatedAt     time.Time `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime;column:updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Order is one line of a transaction.
type Order struct {
	ID            uint      `gorm:"primaryKey"`
	TransactionID uint      `gorm:"index;not null;column:transaction_id"`
	ProductID     uint      `gorm:"index;not null;column:product_id"`
	Product       *Product  `gorm:"foreignKey:ProductID"`
	Quantity      int64     `gorm:"not null;column:quantity"`
	Price         float64   `gorm:"not null;column:price"`
	Subtotal      float64   `gorm:"not null;column:subtotal"`
	CreatedAt     time.Time `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime;column:updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{
		&Category{},
		&MasterProduct{},
		&Product{},
		&ProductStockIn{},
		&Role{},
		&Account{},
		&Transaction{},
		&Order{},
	}
}
