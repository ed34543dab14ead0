package models

import "time"

// Growth bounds for a hobbit. Height starts at the floor and gains exactly
// one per correct answer until the ceiling.
const (
	MinHeight = 100
	MaxHeight = 120
)

// GameState is the lifecycle phase of one player attempt.
type GameState int

const (
	// StateNeedsName means no hobbit name has been chosen yet.
	StateNeedsName GameState = iota
	// StatePlaying means an attempt is in progress.
	StatePlaying
	// StateComplete means the attempt finished (ceiling reached or catalog exhausted).
	StateComplete
)

func (s GameState) String() string {
	switch s {
	case StateNeedsName:
		return "needs_name"
	case StatePlaying:
		return "playing"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

// GameProgress is the mutable per-attempt state. It is owned exclusively by
// the game machine; stores only persist and restore its serialized form.
type GameProgress struct {
	PlayerID      string        `json:"player_id"`
	HobbitName    string        `json:"hobbit_name"`
	Height        int           `json:"height"`
	AnsweredIDs   []string      `json:"answered_ids"`
	CurrentRiddle *RiddleRecord `json:"current_riddle,omitempty"`
}

// Answered reports whether the riddle id was already answered this attempt.
func (p *GameProgress) Answered(id string) bool {
	for _, a := range p.AnsweredIDs {
		if a == id {
			return true
		}
	}
	return false
}

// ProgressEntry is one persisted key-value pair of a player profile.
// Keys are independent; composite values are JSON-encoded.
type ProgressEntry struct {
	ProfileID string    `gorm:"primaryKey;size:128" json:"profile_id"`
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Logical progress keys, mirroring the browser-local storage the game
// originally persisted into.
const (
	KeyHobbitName  = "hobbit-name"
	KeyPlayerID    = "hobbit-player-id"
	KeyHeight      = "hobbit_height"
	KeyAnsweredIDs = "hobbit-answered-riddles"
)
