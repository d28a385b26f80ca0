package model

import "time"

const (
	InvoiceStatusIssued = "issued"
	InvoiceStatusPaid   = "paid"
	InvoiceStatusVoid   = "void"
)

// Invoice 发票，一单一张
type Invoice struct {
	BaseModel
	AuditMixin
	StoreID       int64      `gorm:"uniqueIndex:idx_invoice_store_number;not null" json:"store_id"`
	OrderID       int64      `gorm:"uniqueIndex;not null" json:"order_id"`
	InvoiceNumber string     `gorm:"size:32;uniqueIndex:idx_invoice_store_number;not null" json:"invoice_number"`
	Status        string     `gorm:"size:20;index;default:issued" json:"status"`
	BillingName   string     `gorm:"size:120" json:"billing_name"`
	BillingEmail  string     `gorm:"size:255" json:"billing_email"`
	Subtotal      int64      `json:"subtotal"`
	ShippingFee   int64      `json:"shipping_fee"`
	Tax           int64      `json:"tax"`
	Total         int64      `json:"total"`
	Currency      string     `gorm:"size:3" json:"currency"`
	IssuedAt      time.Time  `json:"issued_at"`
	PaidAt        *time.Time `json:"paid_at"`
	PDFKey        string     `gorm:"size:512" json:"pdf_key"`

	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}

func (Invoice) TableName() string {
	return "invoices"
}
