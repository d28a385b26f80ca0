package model

import "gorm.io/datatypes"

// ==================== 店铺状态 ====================

const (
	StoreStatusActive    = "active"
	StoreStatusSuspended = "suspended"
)

// Store 租户（一个独立站点）
// 其余业务表都通过 StoreID 隔离
type Store struct {
	BaseModel
	AuditMixin
	Name         string         `gorm:"size:120;not null" json:"name"`
	Slug         string         `gorm:"size:80;uniqueIndex;not null" json:"slug"`
	Currency     string         `gorm:"size:3;default:USD" json:"currency"`
	Status       string         `gorm:"size:20;index;default:active" json:"status"`
	SupportEmail string         `gorm:"size:255" json:"support_email"`
	LogoURL      string         `gorm:"size:512" json:"logo_url"`
	Settings     datatypes.JSON `json:"settings"` // 店铺级配置（运费、税率覆盖等）
}

func (Store) TableName() string {
	return "stores"
}

// IsActive 店铺是否可对外服务
func (s *Store) IsActive() bool {
	return s.Status == StoreStatusActive
}
