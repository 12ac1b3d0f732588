package realtime

import (
	"encoding/json"
	"testing"
)

func TestPublishNeverBlocksWhenQueueIsFull(t *testing.T) {
	hub := NewHub()
	// Nothing drains the queue; fill it past capacity.
	for i := 0; i < 100; i++ {
		hub.Publish(1, "sessions", "update")
	}
	// If Publish blocked, the loop above would deadlock the test.
}

func TestEventPayloadShape(t *testing.T) {
	event := Event{Table: "payments", Action: "insert", Timestamp: "2025-03-10T08:00:00Z"}
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["table"] != "payments" || decoded["action"] != "insert" {
		t.Fatalf("unexpected payload %s", payload)
	}
}
