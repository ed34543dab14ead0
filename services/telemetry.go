package services

import "hobbit-quiz-system/models"

// TelemetryPort is the one-way sink for game events. Emit must never block
// and its outcome has zero effect on game state: no retries, no errors
// surfaced to the player.
type TelemetryPort interface {
	Emit(event models.TelemetryEvent)
}
