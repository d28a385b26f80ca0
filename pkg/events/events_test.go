package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"laboutique_erp_202610/pkg/config"
)

func TestSubject(t *testing.T) {
	if got := Subject("", 3, OrderPlaced); got != "laboutique.3.order.placed" {
		t.Errorf("Subject() = %s", got)
	}
	if got := Subject("shop", 9, TicketEscalated); got != "shop.9.ticket.escalated" {
		t.Errorf("Subject() = %s", got)
	}
}

func TestNewEnvelope(t *testing.T) {
	env, err := NewEnvelope(5, ProductImported, map[string]interface{}{"product_id": 42})
	if err != nil {
		t.Fatalf("NewEnvelope() error = %v", err)
	}
	if env.ID == "" || env.StoreID != 5 || env.Type != ProductImported {
		t.Errorf("envelope = %+v", env)
	}
	var data map[string]int
	if err := json.Unmarshal(env.Data, &data); err != nil || data["product_id"] != 42 {
		t.Errorf("data = %s", env.Data)
	}

	if _, err := NewEnvelope(1, OrderPlaced, make(chan int)); err == nil {
		t.Error("NewEnvelope() should fail on unserializable data")
	}
}

func TestNew_NoopWithoutURL(t *testing.T) {
	p := New(config.NATSConfig{})
	if _, ok := p.(NoopPublisher); !ok {
		t.Errorf("New() = %T, want NoopPublisher", p)
	}
	if err := p.Publish(context.Background(), 1, OrderPlaced, nil); err != nil {
		t.Errorf("Noop Publish() error = %v", err)
	}
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(ctx context.Context, storeID int64, eventType string, data interface{}) error {
	f.calls++
	return errors.New("down")
}
func (f *failingPublisher) Close() {}

func TestPublishSafe(t *testing.T) {
	f := &failingPublisher{}
	PublishSafe(context.Background(), f, 1, OrderPlaced, nil)
	if f.calls != 1 {
		t.Errorf("calls = %d, want 1", f.calls)
	}
	// nil publisher 不 panic
	PublishSafe(context.Background(), nil, 1, OrderPlaced, nil)

	rec := &Recorder{}
	PublishSafe(context.Background(), rec, 2, OrderStatusChanged, map[string]string{"status": "paid"})
	if len(rec.Types()) != 1 || rec.Types()[0] != OrderStatusChanged {
		t.Errorf("Recorder types = %v", rec.Types())
	}
}
