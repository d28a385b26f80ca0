package realtime

import (
	"encoding/json"
	"testing"
	"time"
)

func receive(t *testing.T, c *Client) *Message {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		if !ok {
			t.Fatal("channel closed")
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return &msg
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
	return nil
}

func waitCount(t *testing.T, hub *Hub, storeID int64, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount(storeID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount(%d) = %d, want %d", storeID, hub.ClientCount(storeID), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_BroadcastPerStore(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := NewClient(hub, nil, 1, 10)
	b := NewClient(hub, nil, 2, 20)
	hub.Register(a)
	hub.Register(b)

	hub.Notify(1, TypeNewOrder, map[string]string{"order_number": "ORD-1"})

	msg := receive(t, a)
	if msg.Type != TypeNewOrder || msg.StoreID != 1 {
		t.Errorf("message = %+v", msg)
	}

	select {
	case <-b.Send:
		t.Error("store 2 should not receive store 1 messages")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	c := NewClient(hub, nil, 3, 1)
	hub.Register(c)
	waitCount(t, hub, 3, 1)

	hub.Unregister(c)
	select {
	case _, ok := <-c.Send:
		if ok {
			t.Error("Send should be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("Send not closed")
	}
	waitCount(t, hub, 3, 0)
}

func TestHub_RegisterAfterStop(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	done := make(chan bool, 1)
	go func() { done <- hub.Register(NewClient(hub, nil, 4, 1)) }()
	select {
	case ok := <-done:
		if ok {
			t.Error("Register after Stop should report false")
		}
	case <-time.After(time.Second):
		t.Fatal("Register blocked after Stop")
	}
	if n := hub.ClientCount(4); n != 0 {
		t.Errorf("ClientCount = %d, want 0", n)
	}
}

func TestNopNotifier(t *testing.T) {
	var n Notifier = NopNotifier{}
	n.Notify(1, TypeImportDone, nil)
}
