package model

import "time"

// ==================== 授权状态 ====================

const (
	TokenStatusValid       = "valid"
	TokenStatusExpired     = "expired"
	TokenStatusAuthInvalid = "auth_invalid" // 刷新被拒，需要重新授权
)

// AliExpressToken 店铺的 AliExpress 授权
type AliExpressToken struct {
	BaseModel
	StoreID          int64      `gorm:"uniqueIndex;not null" json:"store_id"`
	AccessToken      string     `gorm:"size:512" json:"-"`
	RefreshToken     string     `gorm:"size:512" json:"-"`
	ExpiresAt        time.Time  `gorm:"index" json:"expires_at"`
	RefreshExpiresAt time.Time  `json:"refresh_expires_at"`
	SellerID         string     `gorm:"size:64" json:"seller_id"`
	Account          string     `gorm:"size:255" json:"account"`
	Status           string     `gorm:"size:20;index;default:valid" json:"status"`
	LastError        string     `gorm:"size:1024" json:"last_error"`
	LastRefreshedAt  *time.Time `json:"last_refreshed_at"`
}

func (AliExpressToken) TableName() string {
	return "aliexpress_tokens"
}

// ==================== 导入任务状态 ====================

const (
	ImportStatusPending = "pending"
	ImportStatusRunning = "running"
	ImportStatusSuccess = "success"
	ImportStatusFailed  = "failed"
)

// ImportJob 商品导入记录
type ImportJob struct {
	BaseModel
	AuditMixin
	StoreID    int64  `gorm:"index;not null" json:"store_id"`
	SourceURL  string `gorm:"size:1024" json:"source_url"`
	SourceID   string `gorm:"size:64;index" json:"source_id"`
	Status     string `gorm:"size:20;index;default:pending" json:"status"`
	Error      string `gorm:"size:1024" json:"error"`
	ProductID  *int64 `json:"product_id"`
	DurationMs int64  `json:"duration_ms"`
}

func (ImportJob) TableName() string {
	return "import_jobs"
}
