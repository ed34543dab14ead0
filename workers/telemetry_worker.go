package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"hobbit-quiz-system/models"
	"hobbit-quiz-system/utils"

	"gorm.io/gorm"
)

// TelemetryDispatcher delivers game events to the webhook sink and records
// them in the events table. Emission is strictly fire-and-forget: the queue
// drops on overflow and every delivery failure is logged and swallowed, so
// telemetry can never block or fail gameplay.
type TelemetryDispatcher struct {
	WebhookURL string
	HTTPClient *http.Client
	DB         *gorm.DB

	queue chan models.TelemetryEvent
}

func NewTelemetryDispatcher(db *gorm.DB, webhookURL string) *TelemetryDispatcher {
	return &TelemetryDispatcher{
		WebhookURL: webhookURL,
		DB:         db,
		HTTPClient: utils.HTTPClient,
		queue:      make(chan models.TelemetryEvent, 256),
	}
}

// Emit queues an event for delivery. Never blocks the caller.
func (d *TelemetryDispatcher) Emit(event models.TelemetryEvent) {
	select {
	case d.queue <- event:
	default:
		log.Printf("[TELEMETRY] queue full, dropping %s event for %s", event.EventType, event.PlayerID)
	}
}

// Start drains the queue until the context is cancelled.
func (d *TelemetryDispatcher) Start(ctx context.Context) {
	log.Println("[TELEMETRY] dispatcher started")
	for {
		select {
		case <-ctx.Done():
			log.Println("[TELEMETRY] dispatcher stopped")
			return
		case event := <-d.queue:
			d.dispatch(ctx, event)
		}
	}
}

func (d *TelemetryDispatcher) dispatch(ctx context.Context, event models.TelemetryEvent) {
	d.record(event)
	d.post(ctx, event)
}

// record inserts the event into the hobbit_quiz_events table.
func (d *TelemetryDispatcher) record(event models.TelemetryEvent) {
	if d.DB == nil {
		return
	}
	ts, err := time.Parse(time.RFC3339, event.Timestamp)
	if err != nil {
		ts = time.Now().UTC()
	}
	row := models.QuizEvent{
		PlayerID:       event.PlayerID,
		HobbitName:     event.HobbitName,
		EventType:      event.EventType,
		EventTimestamp: ts,
	}
	if err := d.DB.Create(&row).Error; err != nil {
		log.Printf("[TELEMETRY] failed to record %s event: %v", event.EventType, err)
	}
}

// post sends the event to the configured webhook. No retries.
func (d *TelemetryDispatcher) post(ctx context.Context, event models.TelemetryEvent) {
	if d.WebhookURL == "" {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("[TELEMETRY] failed to encode %s event: %v", event.EventType, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, "POST", d.WebhookURL, bytes.NewReader(body))
	if err != nil {
		log.Printf("[TELEMETRY] failed to build webhook request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		log.Printf("[TELEMETRY] webhook post failed: %v", err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode >= 300 {
		log.Printf("[TELEMETRY] webhook returned status %d for %s event", resp.StatusCode, event.EventType)
	}
}
