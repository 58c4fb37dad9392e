package models

import "time"

type Role struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"unique;not null;column:name"`
	Description *string   `gorm:"type:text;column:description"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;column:updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

type Account struct {
	ID        uint      `gorm:"primaryKey"`
	RoleID    *uint     `gorm:"index;column:role_id"`
	Role      *Role     `gorm:"foreignKey:RoleID"`
	Name      string    `gorm:"not null;column:name"`
	Email     string    `gorm:"unique;not null;column:email"`
	Password  string    `gorm:"not null;column:password"`
	IsActive  *bool     `gorm:"default:true;column:is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
