package services

import (
	"math/rand"
	"testing"
	"time"

	"hobbit-quiz-system/models"
)

func newTestSessions(t *testing.T, catalogSize int) *SessionManager {
	t.Helper()
	catalog := testCatalog(t, catalogSize)
	return NewSessionManager(
		catalog,
		NewSelectorWithSource(rand.NewSource(1)),
		NewMemoryProgressStore(),
		&recordingTelemetry{},
	)
}

func TestSessionsStateBeforeName(t *testing.T) {
	sessions := newTestSessions(t, 3)

	view := sessions.State("p1")
	if view.State != models.StateNeedsName.String() {
		t.Errorf("State = %q, want needs_name", view.State)
	}
	if view.Riddle != nil {
		t.Error("No riddle expected before a name is set")
	}
}

func TestSessionsWrongAnswerKeepsRiddle(t *testing.T) {
	sessions := newTestSessions(t, 3)
	view, ok := sessions.SetName("p1", "Bilbo")
	if !ok {
		t.Fatal("SetName rejected")
	}
	if view.Riddle == nil {
		t.Fatal("Expected a riddle right after the name is set")
	}
	riddleID := view.Riddle.ID
	wrongIndex := (view.Riddle.CorrectIndex + 1) % 4

	result, after := sessions.SubmitAnswer("p1", wrongIndex)
	if !result.Accepted || result.Correct {
		t.Fatalf("Wrong answer result = %+v", result)
	}
	if after.Height != models.MinHeight {
		t.Errorf("Height grew on a wrong answer: %d", after.Height)
	}
	if after.Riddle == nil || after.Riddle.ID != riddleID {
		t.Error("Riddle changed after a wrong answer; the player retries the same one")
	}
	if after.Growing {
		t.Error("Growing flag raised on a wrong answer")
	}
}

func TestSessionsCorrectAnswerGrowsAndFlagClears(t *testing.T) {
	sessions := newTestSessions(t, 3)
	view, _ := sessions.SetName("p1", "Bilbo")

	result, after := sessions.SubmitAnswer("p1", view.Riddle.CorrectIndex)
	if !result.Correct {
		t.Fatal("Expected the correct option to be accepted")
	}
	if after.Height != models.MinHeight+1 {
		t.Errorf("Height = %d, want %d", after.Height, models.MinHeight+1)
	}
	if !after.Growing {
		t.Error("Growing flag not raised on a correct answer")
	}

	time.Sleep(growingFlagDuration + 100*time.Millisecond)
	if sessions.State("p1").Growing {
		t.Error("Growing flag did not self-clear")
	}
}

func TestSessionsAnswerWithoutRiddleRejected(t *testing.T) {
	sessions := newTestSessions(t, 3)

	result, _ := sessions.SubmitAnswer("p1", 0)
	if result.Accepted {
		t.Error("Answer accepted before the game started")
	}
}

func TestSessionsFullGameAndRestart(t *testing.T) {
	sessions := newTestSessions(t, 3)
	view, _ := sessions.SetName("p1", "Bilbo")

	for i := 0; i < 3; i++ {
		if view.Riddle == nil {
			t.Fatalf("No riddle on round %d: %+v", i+1, view)
		}
		result, _ := sessions.SubmitAnswer("p1", view.Riddle.CorrectIndex)
		if !result.Correct {
			t.Fatalf("Round %d: correct option rejected", i+1)
		}
		view = sessions.NextRiddle("p1")
	}

	if view.State != models.StateComplete.String() {
		t.Fatalf("State = %q, want complete", view.State)
	}

	view = sessions.Restart("p1")
	if view.State != models.StatePlaying.String() {
		t.Errorf("State after restart = %q, want playing", view.State)
	}
	if view.HobbitName != "Bilbo" {
		t.Errorf("Restart dropped hobbit name: %q", view.HobbitName)
	}
	if view.Height != models.MinHeight || view.AnsweredCount != 0 {
		t.Errorf("Restart did not reset progress: %+v", view)
	}
	if view.Riddle == nil {
		t.Error("Expected a riddle after restart")
	}
}

func TestSessionsFinalAnswerShowsVictoryImmediately(t *testing.T) {
	sessions := newTestSessions(t, 2)
	view, _ := sessions.SetName("p1", "Bilbo")

	sessions.SubmitAnswer("p1", view.Riddle.CorrectIndex)
	view = sessions.NextRiddle("p1")
	if view.Riddle == nil {
		t.Fatal("Expected a second riddle")
	}

	result, after := sessions.SubmitAnswer("p1", view.Riddle.CorrectIndex)
	if !result.Correct {
		t.Fatal("Correct option rejected")
	}
	// The very response to the last answer reports the finished game.
	if after.State != models.StateComplete.String() {
		t.Errorf("State after final answer = %q, want complete", after.State)
	}
	if after.Riddle != nil {
		t.Error("Answered riddle still attached to the victory view")
	}
}

func TestSessionsProfilesAreIsolated(t *testing.T) {
	sessions := newTestSessions(t, 3)
	viewA, _ := sessions.SetName("p1", "Bilbo")
	sessions.SubmitAnswer("p1", viewA.Riddle.CorrectIndex)

	viewB := sessions.State("p2")
	if viewB.State != models.StateNeedsName.String() {
		t.Errorf("Profile p2 state = %q, want needs_name", viewB.State)
	}
	if viewB.Height != models.MinHeight {
		t.Errorf("Profile p2 height = %d, want %d", viewB.Height, models.MinHeight)
	}
}
