package workers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hobbit-quiz-system/models"
)

func TestDispatcherPostsToWebhook(t *testing.T) {
	received := make(chan models.TelemetryEvent, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event models.TelemetryEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			t.Errorf("Failed to decode webhook body: %v", err)
		}
		received <- event
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	dispatcher := NewTelemetryDispatcher(nil, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Start(ctx)

	sent := models.TelemetryEvent{
		PlayerID:   "player_1_abc",
		HobbitName: "Bilbo",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		EventType:  models.EventGameStart,
	}
	dispatcher.Emit(sent)

	select {
	case got := <-received:
		if got != sent {
			t.Errorf("Webhook received %+v, want %+v", got, sent)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Webhook was never called")
	}
}

func TestDispatcherDeliveryFailureIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	dispatcher := NewTelemetryDispatcher(nil, server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Start(ctx)

	// Failures are logged and dropped; nothing to observe but the absence
	// of a panic or a block.
	for i := 0; i < 5; i++ {
		dispatcher.Emit(models.TelemetryEvent{EventType: models.EventAnswer})
	}
	time.Sleep(200 * time.Millisecond)
}

func TestEmitNeverBlocksWhenQueueIsFull(t *testing.T) {
	// No Start loop draining: the queue fills up and further emits drop.
	dispatcher := NewTelemetryDispatcher(nil, "")

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			dispatcher.Emit(models.TelemetryEvent{EventType: models.EventAnswer})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked on a full queue")
	}
}
