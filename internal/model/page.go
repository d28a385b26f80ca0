package model

import "time"

const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)

const (
	SubscriberStatusSubscribed   = "subscribed"
	SubscriberStatusUnsubscribed = "unsubscribed"
)

// Page 营销 / 内容页
type Page struct {
	BaseModel
	AuditMixin
	StoreID         int64      `gorm:"uniqueIndex:idx_page_store_slug;not null" json:"store_id"`
	Slug            string     `gorm:"size:140;uniqueIndex:idx_page_store_slug;not null" json:"slug"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Body            string     `gorm:"type:text" json:"body"`
	Status          string     `gorm:"size:20;default:draft" json:"status"`
	MetaTitle       string     `gorm:"size:255" json:"meta_title"`
	MetaDescription string     `gorm:"size:512" json:"meta_description"`
	PublishedAt     *time.Time `json:"published_at"`
}

func (Page) TableName() string {
	return "pages"
}

// Banner 首页 / 分类页横幅
type Banner struct {
	BaseModel
	AuditMixin
	StoreID   int64      `gorm:"index;not null" json:"store_id"`
	Title     string     `gorm:"size:255" json:"title"`
	ImageURL  string     `gorm:"size:1024;not null" json:"image_url"`
	LinkURL   string     `gorm:"size:1024" json:"link_url"`
	Position  string     `gorm:"size:32;index;default:home" json:"position"`
	SortOrder int        `gorm:"default:0" json:"sort_order"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
}

func (Banner) TableName() string {
	return "banners"
}

// LiveAt 指定时间是否在投放窗口内
func (b *Banner) LiveAt(now time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.StartsAt != nil && now.Before(*b.StartsAt) {
		return false
	}
	if b.EndsAt != nil && !now.Before(*b.EndsAt) {
		return false
	}
	return true
}

type NewsletterSubscriber struct {
	BaseModel
	StoreID int64  `gorm:"uniqueIndex:idx_subscriber_store_email;not null" json:"store_id"`
	Email   string `gorm:"size:255;uniqueIndex:idx_subscriber_store_email;not null" json:"email"`
	Status  string `gorm:"size:20;default:subscribed" json:"status"`
}

func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}
