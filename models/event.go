package models

import "time"

// Event types reported by the game.
const (
	EventGameStart  = "game_start"
	EventAnswer     = "answer"
	EventGameFinish = "game_finish"
)

// QuizEvent is one row of the hobbit_quiz_events table. Rows are written by
// the telemetry dispatcher and managed through the admin API.
type QuizEvent struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PlayerID       string    `gorm:"index;not null" json:"player_id"`
	HobbitName     string    `json:"hobbit_name"`
	EventType      string    `gorm:"type:varchar(32);not null" json:"event_type"`
	EventTimestamp time.Time `json:"event_timestamp"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName keeps the table name the admin panel has always queried.
func (QuizEvent) TableName() string {
	return "hobbit_quiz_events"
}

// TelemetryEvent is the wire form of a game event, as POSTed to the webhook
// sink. Timestamp is ISO-8601.
type TelemetryEvent struct {
	PlayerID   string `json:"playerId"`
	HobbitName string `json:"hobbitName"`
	Timestamp  string `json:"timestamp"`
	EventType  string `json:"eventType"`
}
