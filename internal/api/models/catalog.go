package models

import "time"

type Category struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"unique;not null;column:name"`
	Description *string   `gorm:"type:text;column:description"`
	IsActive    *bool     `gorm:"default:true;column:is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;column:updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// MasterProduct is the catalog entry shared by every sellable product
// variant.
type MasterProduct struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"not null;column:name"`
	Code        string    `gorm:"unique;not null;column:code"`
	Description *string   `gorm:"type:text;column:description"`
	CategoryID  *uint     `gorm:"index;column:category_id"`
	Category    *Category `gorm:"foreignKey:CategoryID"`
	IsActive    *bool     `gorm:"default:true;column:is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;column:updated_at"`
}

func (MasterProduct) TableName() string {
	return "master_products"
}

type Product struct {
	ID              uint           `gorm:"primaryKey"`
	MasterProductID uint           `gorm:"index;not null;column:master_product_id"`
	MasterProduct   *MasterProduct `gorm:"foreignKey:MasterProductID"`
	SKU             string         `gorm:"unique;not null;column:sku"`
	Price           float64        `gorm:"not null;default:0;column:price"`
	Cost            float64        `gorm:"not null;default:0;column:cost"`
	Stock           int64          `gorm:"not null;default:0;column:stock"`
	IsActive        *bool          `gorm:"default:true;column:is_active"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime;column:updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// ProductStockIn is one stock movement. Running totals are derived from
// the full history of these rows.
type ProductStockIn struct {
	ID        uint      `gorm:"primaryKey"`
	ProductID uint      `gorm:"index;not null;column:product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID"`
	Quantity  int64     `gorm:"not null;column:quantity"`
	Note      *string   `gorm:"type:text;column:note"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at"`
}

func (ProductStockIn) TableName() string {
	return "product_stock_ins"
}
