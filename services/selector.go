package services

import (
	"math/rand"
	"time"

	"hobbit-quiz-system/models"
)

// Selector picks the next unanswered riddle uniformly at random. Selection
// is side-effect free: the answered set is never mutated. The randomness
// source is injectable so tests can script exact outcomes.
type Selector struct {
	rand *rand.Rand
}

// NewSelector creates a selector seeded from the wall clock.
func NewSelector() *Selector {
	return NewSelectorWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewSelectorWithSource creates a selector with a caller-controlled source.
func NewSelectorWithSource(src rand.Source) *Selector {
	return &Selector{rand: rand.New(src)}
}

// SelectNext returns one unanswered riddle, or nil when the catalog is
// exhausted. Exhaustion signals completion to the caller, not an error.
func (s *Selector) SelectNext(catalog *Catalog, answered map[string]bool) *models.RiddleRecord {
	all := catalog.All()
	available := make([]*models.RiddleRecord, 0, len(all))
	for i := range all {
		if !answered[all[i].ID] {
			available = append(available, &all[i])
		}
	}
	if len(available) == 0 {
		return nil
	}
	return available[s.rand.Intn(len(available))]
}
