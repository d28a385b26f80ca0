package model

// AllModels 需要自动迁移的模型
func AllModels() []interface{} {
	return []interface{}{
		&Store{},
		&SysUser{},
		&Customer{},
		&Category{},
		&Vendor{},
		&Product{},
		&ProductVariant{},
		&ProductImage{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&Invoice{},
		&Page{},
		&Banner{},
		&NewsletterSubscriber{},
		&SupportConversation{},
		&SupportMessage{},
		&Ticket{},
		&TicketComment{},
		&AICallLog{},
		&AliExpressToken{},
		&ImportJob{},
	}
}
