package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hobbit-quiz-system/models"

	"github.com/google/uuid"
)

// GameMachine drives one player attempt through
// NeedsName → Playing → Complete. It exclusively owns the GameProgress
// value; the store only persists its serialized form. All operations are
// driven by discrete user events from a single logical thread.
type GameMachine struct {
	catalog   *Catalog
	selector  *Selector
	store     ProgressStore
	telemetry TelemetryPort
	profileID string

	state    models.GameState
	progress models.GameProgress
	answered map[string]bool

	// Per-attempt telemetry latches.
	startSent  bool
	finishSent bool
}

// NewGameMachine restores a machine from persisted progress. Missing or
// corrupt entries fall back to defaults: a broken store never prevents the
// game from starting.
func NewGameMachine(catalog *Catalog, selector *Selector, store ProgressStore, telemetry TelemetryPort, profileID string) *GameMachine {
	m := &GameMachine{
		catalog:   catalog,
		selector:  selector,
		store:     store,
		telemetry: telemetry,
		profileID: profileID,
		answered:  make(map[string]bool),
	}
	m.progress.Height = models.MinHeight

	name, ok := store.Get(profileID, models.KeyHobbitName)
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		m.state = models.StateNeedsName
		return m
	}
	m.progress.HobbitName = name

	if playerID, ok := store.Get(profileID, models.KeyPlayerID); ok && playerID != "" {
		m.progress.PlayerID = playerID
	} else {
		m.progress.PlayerID = newPlayerID()
		store.Set(profileID, models.KeyPlayerID, m.progress.PlayerID)
	}

	if raw, ok := store.Get(profileID, models.KeyHeight); ok {
		if h, err := strconv.Atoi(raw); err == nil && h >= models.MinHeight && h <= models.MaxHeight {
			m.progress.Height = h
		}
	}

	if raw, ok := store.Get(profileID, models.KeyAnsweredIDs); ok {
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err == nil {
			for _, id := range ids {
				// Ignore ids that are no longer in the catalog.
				if _, known := m.catalog.Get(id); known && !m.answered[id] {
					m.answered[id] = true
					m.progress.AnsweredIDs = append(m.progress.AnsweredIDs, id)
				}
			}
		}
	}

	m.state = models.StatePlaying
	if m.completionReached() {
		m.state = models.StateComplete
		m.finishSent = true // restored attempts do not re-announce completion
	}
	return m
}

func newPlayerID() string {
	return fmt.Sprintf("player_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// State returns the current lifecycle phase.
func (m *GameMachine) State() models.GameState {
	return m.state
}

// Progress returns a copy of the attempt progress.
func (m *GameMachine) Progress() models.GameProgress {
	p := m.progress
	p.AnsweredIDs = append([]string(nil), m.progress.AnsweredIDs...)
	return p
}

// CurrentRiddle returns the riddle currently presented, if any.
func (m *GameMachine) CurrentRiddle() *models.RiddleRecord {
	return m.progress.CurrentRiddle
}

// SetName starts an attempt. Valid only in NeedsName with a non-empty
// trimmed name; anywhere else the call is ignored.
func (m *GameMachine) SetName(name string) bool {
	if m.state != models.StateNeedsName {
		return false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	m.progress = models.GameProgress{
		PlayerID:   newPlayerID(),
		HobbitName: name,
		Height:     models.MinHeight,
	}
	m.answered = make(map[string]bool)
	m.store.Set(m.profileID, models.KeyHobbitName, name)
	m.store.Set(m.profileID, models.KeyPlayerID, m.progress.PlayerID)
	m.persistHeight()

	m.state = models.StatePlaying
	m.emitOnce(&m.startSent, models.EventGameStart)
	return true
}

// SelectRiddle ensures a riddle is presented while Playing. Completion by
// height or by exhaustion short-circuits selection. Calling it twice without
// an intervening answer yields the same riddle.
func (m *GameMachine) SelectRiddle() *models.RiddleRecord {
	if m.state != models.StatePlaying {
		return nil
	}
	// A resumed attempt announces itself when selection first runs.
	m.emitOnce(&m.startSent, models.EventGameStart)

	if m.completionReached() {
		m.complete()
		return nil
	}
	if m.progress.CurrentRiddle != nil {
		return m.progress.CurrentRiddle
	}

	riddle := m.selector.SelectNext(m.catalog, m.answered)
	if riddle == nil {
		m.complete()
		return nil
	}
	m.progress.CurrentRiddle = riddle
	return riddle
}

// SubmitCorrectAnswer records a correct answer: height grows by one, the
// riddle joins the answered set, and both are persisted. A call with no
// active riddle, outside Playing, or at the ceiling is a no-op.
func (m *GameMachine) SubmitCorrectAnswer() bool {
	if m.state != models.StatePlaying || m.progress.CurrentRiddle == nil {
		return false
	}
	if m.progress.Height >= models.MaxHeight {
		return false
	}

	id := m.progress.CurrentRiddle.ID
	if m.progress.Answered(id) {
		// The presented riddle was already credited; duplicate submissions
		// must not inflate height.
		return false
	}
	m.progress.Height++
	m.answered[id] = true
	m.progress.AnsweredIDs = append(m.progress.AnsweredIDs, id)
	m.persistHeight()
	m.persistAnswered()
	m.emit(models.EventAnswer)
	if m.completionReached() {
		// The final answer completes the attempt right away; the player sees
		// the victory state without an extra advance.
		m.complete()
	}
	return true
}

// AdvanceToNextRiddle moves on after an answered riddle: it re-checks the
// completion conditions and otherwise selects the next unanswered riddle.
func (m *GameMachine) AdvanceToNextRiddle() bool {
	if m.state != models.StatePlaying {
		return false
	}
	if m.completionReached() {
		m.complete()
		return true
	}
	m.progress.CurrentRiddle = nil
	m.SelectRiddle()
	return true
}

// Restart begins a fresh attempt: answered set cleared, height back to the
// floor, a new player id, latches reset. The hobbit name is kept, so the
// player is not re-prompted.
func (m *GameMachine) Restart() {
	if m.progress.HobbitName == "" {
		// Nothing to restart before a name was ever set.
		return
	}
	m.progress.AnsweredIDs = nil
	m.progress.CurrentRiddle = nil
	m.progress.Height = models.MinHeight
	m.progress.PlayerID = newPlayerID()
	m.answered = make(map[string]bool)
	m.startSent = false
	m.finishSent = false

	m.store.Delete(m.profileID, models.KeyAnsweredIDs)
	m.persistHeight()
	m.store.Set(m.profileID, models.KeyPlayerID, m.progress.PlayerID)

	m.state = models.StatePlaying
}

func (m *GameMachine) completionReached() bool {
	return m.progress.Height >= models.MaxHeight || len(m.answered) >= m.catalog.Size()
}

func (m *GameMachine) complete() {
	if m.state == models.StateComplete {
		return
	}
	m.state = models.StateComplete
	m.progress.CurrentRiddle = nil
	m.emitOnce(&m.finishSent, models.EventGameFinish)
}

func (m *GameMachine) persistHeight() {
	m.store.Set(m.profileID, models.KeyHeight, strconv.Itoa(m.progress.Height))
}

func (m *GameMachine) persistAnswered() {
	data, err := json.Marshal(m.progress.AnsweredIDs)
	if err != nil {
		return
	}
	m.store.Set(m.profileID, models.KeyAnsweredIDs, string(data))
}

func (m *GameMachine) emitOnce(latch *bool, eventType string) {
	if *latch {
		return
	}
	*latch = true
	m.emit(eventType)
}

func (m *GameMachine) emit(eventType string) {
	if m.telemetry == nil {
		return
	}
	m.telemetry.Emit(models.TelemetryEvent{
		PlayerID:   m.progress.PlayerID,
		HobbitName: m.progress.HobbitName,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		EventType:  eventType,
	})
}
