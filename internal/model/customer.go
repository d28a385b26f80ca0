package model

import "time"

// Customer 前台顾客账号，按店铺隔离
type Customer struct {
	BaseModel
	StoreID     int64      `gorm:"uniqueIndex:idx_customer_store_email;not null" json:"store_id"`
	Email       string     `gorm:"size:255;uniqueIndex:idx_customer_store_email;not null" json:"email"`
	Password    string     `gorm:"size:255;not null" json:"-"`
	Name        string     `gorm:"size:120" json:"name"`
	Phone       string     `gorm:"size:32" json:"phone"`
	Address     Address    `gorm:"embedded;embeddedPrefix:addr_" json:"address"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func (Customer) TableName() string {
	return "customers"
}
