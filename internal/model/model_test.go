package model

import (
	"testing"
	"time"
)

func TestCanTransitionOrder(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusPending, OrderStatusPaid, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPaid, OrderStatusProcessing, true},
		{OrderStatusPaid, OrderStatusRefunded, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusDelivered, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusRefunded, true},
		{OrderStatusCancelled, OrderStatusPaid, false},
		{OrderStatusRefunded, OrderStatusPaid, false},
	}
	for _, tt := range tests {
		if got := CanTransitionOrder(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransitionOrder(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCanTransitionTicket(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     bool
	}{
		{"open to progress", TicketStatusOpen, TicketStatusInProgress, true},
		{"open to resolved", TicketStatusOpen, TicketStatusResolved, true},
		{"same status", TicketStatusOpen, TicketStatusOpen, false},
		{"unknown target", TicketStatusOpen, "DONE", false},
		{"closed reopen", TicketStatusClosed, TicketStatusReopened, true},
		{"closed to open", TicketStatusClosed, TicketStatusOpen, false},
		{"cancelled terminal", TicketStatusCancelled, TicketStatusReopened, false},
		{"resolved close", TicketStatusResolved, TicketStatusClosed, true},
		{"resolved reopen", TicketStatusResolved, TicketStatusReopened, true},
		{"resolved to progress", TicketStatusResolved, TicketStatusInProgress, false},
		{"escalated to hold", TicketStatusEscalated, TicketStatusOnHold, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransitionTicket(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransitionTicket(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestFormatTicketNumber(t *testing.T) {
	if got := FormatTicketNumber(42); got != "TKT-00000042" {
		t.Errorf("FormatTicketNumber(42) = %s", got)
	}
}

func TestBanner_LiveAt(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		banner Banner
		want   bool
	}{
		{"no window", Banner{IsActive: true}, true},
		{"inactive", Banner{IsActive: false}, false},
		{"inside window", Banner{IsActive: true, StartsAt: &past, EndsAt: &future}, true},
		{"not started", Banner{IsActive: true, StartsAt: &future}, false},
		{"ended", Banner{IsActive: true, EndsAt: &past}, false},
		{"ends exactly now", Banner{IsActive: true, EndsAt: &now}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.banner.LiveAt(now); got != tt.want {
				t.Errorf("LiveAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   int64
		currency string
		want     string
	}{
		{1999, "USD", "$19.99"},
		{5, "EUR", "€0.05"},
		{-250, "USD", "-$2.50"},
		{1500, "XOF", "FCFA 1500"},
		{1500, "JPY", "¥1500"},
		{100, "CHF", "CHF 1.00"},
		{1234, "KWD", "KWD 1.234"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.amount, tt.currency); got != tt.want {
			t.Errorf("FormatMoney(%d, %s) = %s, want %s", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, 20},
		{2, 50, 2, 50},
		{-1, 500, 1, 100},
	}
	for _, tt := range tests {
		p, s := ClampPage(tt.page, tt.size)
		if p != tt.wantPage || s != tt.wantSize {
			t.Errorf("ClampPage(%d, %d) = (%d, %d), want (%d, %d)", tt.page, tt.size, p, s, tt.wantPage, tt.wantSize)
		}
	}
}

func TestCartItem_SameLine(t *testing.T) {
	v1, v2 := int64(1), int64(2)
	item := CartItem{ProductID: 10, VariantID: &v1}

	if !item.SameLine(10, &v1) {
		t.Error("same product and variant should match")
	}
	if item.SameLine(10, &v2) {
		t.Error("different variant should not match")
	}
	if item.SameLine(10, nil) {
		t.Error("variant vs no variant should not match")
	}
	plain := CartItem{ProductID: 10}
	if !plain.SameLine(10, nil) {
		t.Error("plain lines should match")
	}
}

func TestCart_Expired(t *testing.T) {
	now := time.Now()
	c := Cart{ExpiresAt: now.Add(-time.Minute)}
	if !c.Expired(now) {
		t.Error("cart should be expired")
	}
	c.ExpiresAt = now.Add(time.Hour)
	if c.Expired(now) {
		t.Error("cart should not be expired")
	}
}
