package models

// RiddleRecord is one entry of the riddle catalog. Records are created at
// catalog load and never mutated afterwards.
type RiddleRecord struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	Options      []string `json:"options"` // exactly 4 display strings
	CorrectIndex int      `json:"correctIndex"`
}

// IsCorrect reports whether the given option index answers the riddle.
func (r *RiddleRecord) IsCorrect(optionIndex int) bool {
	return optionIndex == r.CorrectIndex
}
