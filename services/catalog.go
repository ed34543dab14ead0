package services

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"hobbit-quiz-system/models"

	"github.com/gosimple/slug"
)

//go:embed riddles.json
var defaultRiddleData []byte

// optionCount is the fixed number of answer options every riddle carries.
const optionCount = 4

// Catalog is the immutable ordered riddle collection for a deployment.
// A malformed record set is a configuration error caught at load time.
type Catalog struct {
	riddles []models.RiddleRecord
	byID    map[string]*models.RiddleRecord
}

// LoadCatalog parses and validates a riddle record set. Records without an
// explicit id get one slugged from the question text.
func LoadCatalog(data []byte) (*Catalog, error) {
	var riddles []models.RiddleRecord
	if err := json.Unmarshal(data, &riddles); err != nil {
		return nil, fmt.Errorf("failed to parse riddle data: %w", err)
	}
	if len(riddles) == 0 {
		return nil, fmt.Errorf("riddle catalog is empty")
	}

	byID := make(map[string]*models.RiddleRecord, len(riddles))
	for i := range riddles {
		r := &riddles[i]
		if r.ID == "" {
			r.ID = slug.Make(r.Question)
		}
		if _, dup := byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate riddle id %q", r.ID)
		}
		if len(r.Options) != optionCount {
			return nil, fmt.Errorf("riddle %q has %d options, want %d", r.ID, len(r.Options), optionCount)
		}
		if r.CorrectIndex < 0 || r.CorrectIndex >= optionCount {
			return nil, fmt.Errorf("riddle %q has correct index %d out of range", r.ID, r.CorrectIndex)
		}
		byID[r.ID] = r
	}

	return &Catalog{riddles: riddles, byID: byID}, nil
}

// LoadDefaultCatalog loads the riddle set embedded in the binary.
func LoadDefaultCatalog() (*Catalog, error) {
	return LoadCatalog(defaultRiddleData)
}

// All returns the full ordered record set.
func (c *Catalog) All() []models.RiddleRecord {
	return c.riddles
}

// Size returns the number of riddles in the catalog.
func (c *Catalog) Size() int {
	return len(c.riddles)
}

// Get looks up a riddle by id.
func (c *Catalog) Get(id string) (*models.RiddleRecord, bool) {
	r, ok := c.byID[id]
	return r, ok
}
