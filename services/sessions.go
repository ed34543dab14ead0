package services

import (
	"sync"
	"time"

	"hobbit-quiz-system/models"
)

// growingFlagDuration is how long the transient "growing" visual flag stays
// raised after a correct answer before it self-clears.
const growingFlagDuration = 500 * time.Millisecond

// SessionManager hands out one GameMachine per player profile and owns the
// presentation-only growing flag, keeping that timer concern out of the
// machine itself. Each machine is still driven by a single logical thread;
// the mutex only guards the registry against concurrent HTTP requests.
type SessionManager struct {
	catalog   *Catalog
	selector  *Selector
	store     ProgressStore
	telemetry TelemetryPort

	mu       sync.Mutex
	machines map[string]*GameMachine
	growing  map[string]bool
}

func NewSessionManager(catalog *Catalog, selector *Selector, store ProgressStore, telemetry TelemetryPort) *SessionManager {
	return &SessionManager{
		catalog:   catalog,
		selector:  selector,
		store:     store,
		telemetry: telemetry,
		machines:  make(map[string]*GameMachine),
		growing:   make(map[string]bool),
	}
}

// GameView is the player-facing snapshot of an attempt.
type GameView struct {
	State         string               `json:"state"`
	HobbitName    string               `json:"hobbit_name,omitempty"`
	Height        int                  `json:"height"`
	MaxHeight     int                  `json:"max_height"`
	AnsweredCount int                  `json:"answered_count"`
	TotalRiddles  int                  `json:"total_riddles"`
	Growing       bool                 `json:"growing"`
	Riddle        *models.RiddleRecord `json:"riddle,omitempty"`
}

// AnswerResult reports the outcome of an answer submission.
type AnswerResult struct {
	Accepted     bool `json:"accepted"`
	Correct      bool `json:"correct"`
	CorrectIndex int  `json:"correct_index"`
}

func (sm *SessionManager) machine(profileID string) *GameMachine {
	if m, ok := sm.machines[profileID]; ok {
		return m
	}
	m := NewGameMachine(sm.catalog, sm.selector, sm.store, sm.telemetry, profileID)
	sm.machines[profileID] = m
	return m
}

// State resolves the current view for a profile, selecting a riddle first
// when one is due.
func (sm *SessionManager) State(profileID string) GameView {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	m := sm.machine(profileID)
	m.SelectRiddle()
	return sm.view(profileID, m)
}

// SetName starts an attempt under the given hobbit name.
func (sm *SessionManager) SetName(profileID, name string) (GameView, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	m := sm.machine(profileID)
	ok := m.SetName(name)
	if ok {
		m.SelectRiddle()
	}
	return sm.view(profileID, m), ok
}

// SubmitAnswer checks the chosen option against the current riddle. A wrong
// answer leaves the riddle in place so the player can try again; a correct
// one grows the hobbit and raises the transient growing flag.
func (sm *SessionManager) SubmitAnswer(profileID string, optionIndex int) (AnswerResult, GameView) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	m := sm.machine(profileID)

	riddle := m.CurrentRiddle()
	if m.State() != models.StatePlaying || riddle == nil {
		return AnswerResult{}, sm.view(profileID, m)
	}

	result := AnswerResult{Accepted: true, CorrectIndex: riddle.CorrectIndex}
	if !riddle.IsCorrect(optionIndex) {
		return result, sm.view(profileID, m)
	}
	result.Correct = true

	if m.SubmitCorrectAnswer() {
		sm.growing[profileID] = true
		// Fire-and-forget reset; a restart racing this timer just clears an
		// already-recomputed flag, which is harmless.
		time.AfterFunc(growingFlagDuration, func() {
			sm.mu.Lock()
			delete(sm.growing, profileID)
			sm.mu.Unlock()
		})
	}
	return result, sm.view(profileID, m)
}

// NextRiddle advances past an answered riddle.
func (sm *SessionManager) NextRiddle(profileID string) GameView {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	m := sm.machine(profileID)
	m.AdvanceToNextRiddle()
	return sm.view(profileID, m)
}

// Restart begins a fresh attempt for the profile, keeping the hobbit name.
func (sm *SessionManager) Restart(profileID string) GameView {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	m := sm.machine(profileID)
	m.Restart()
	delete(sm.growing, profileID)
	m.SelectRiddle()
	return sm.view(profileID, m)
}

func (sm *SessionManager) view(profileID string, m *GameMachine) GameView {
	progress := m.Progress()
	view := GameView{
		State:         m.State().String(),
		HobbitName:    progress.HobbitName,
		Height:        progress.Height,
		MaxHeight:     models.MaxHeight,
		AnsweredCount: len(progress.AnsweredIDs),
		TotalRiddles:  sm.catalog.Size(),
		Growing:       sm.growing[profileID],
		Riddle:        progress.CurrentRiddle,
	}
	return view
}
