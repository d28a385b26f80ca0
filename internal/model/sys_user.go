package model

import "time"

// ==================== 后台角色 ====================

const (
	RoleAdmin  = "admin"  // 平台管理员，可管理所有店铺
	RoleStaff  = "staff"  // 店铺员工，仅限所属店铺
	RoleVendor = "vendor" // 供应商账号，仅限所属店铺的所属供应商
)

// SysUser 后台账号
type SysUser struct {
	BaseModel
	AuditMixin
	Username    string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password    string     `gorm:"size:255;not null" json:"-"` // bcrypt 哈希
	Email       string     `gorm:"size:100" json:"email"`
	Role        string     `gorm:"size:20;default:staff" json:"role"`
	StoreID     int64      `gorm:"index;default:0" json:"store_id"`  // admin 为 0
	VendorID    int64      `gorm:"index;default:0" json:"vendor_id"` // 仅 vendor 角色
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func (SysUser) TableName() string {
	return "sys_users"
}

// CanAccessStore 是否可操作指定店铺
func (u *SysUser) CanAccessStore(storeID int64) bool {
	return u.Role == RoleAdmin || (u.StoreID != 0 && u.StoreID == storeID)
}
