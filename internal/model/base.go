package model

import (
	"time"

	"gorm.io/gorm"

	"laboutique_erp_202610/pkg/utils"
)

type BaseModel struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AuditMixin 审计字段，由 GORM 回调自动填充
type AuditMixin struct {
	CreatedBy int64 `gorm:"index;default:0;comment:创建人ID" json:"created_by"`
	UpdatedBy int64 `gorm:"default:0;comment:更新人ID" json:"updated_by"`
}

// Address 收货/账单地址，以 embedded 方式落在主表
type Address struct {
	Line1      string `gorm:"size:255" json:"line1"`
	Line2      string `gorm:"size:255" json:"line2"`
	City       string `gorm:"size:100" json:"city"`
	State      string `gorm:"size:100" json:"state"`
	PostalCode string `gorm:"size:32" json:"postal_code"`
	Country    string `gorm:"size:2" json:"country"` // ISO 3166-1 alpha-2
}

// FormatMoney 金额以最小货币单位存储，按币种小数位展示
func FormatMoney(amount int64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + currencySymbol(currency) + utils.FormatMinorUnits(amount, currency)
}

func currencySymbol(currency string) string {
	switch currency {
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "CNY", "JPY":
		return "¥"
	case "XOF", "XAF":
		return "FCFA "
	default:
		return currency + " "
	}
}

// ClampPage 分页参数归一化
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// NowPtr 便于给可空时间字段赋值
func NowPtr() *time.Time {
	t := time.Now()
	return &t
}
