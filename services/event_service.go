package services

import (
	"errors"

	"hobbit-quiz-system/models"

	"gorm.io/gorm"
)

// ErrEventNotFound is returned when an event id does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrNoFieldsToUpdate is returned for a patch carrying no updatable fields.
var ErrNoFieldsToUpdate = errors.New("no fields to update")

// EventStore is the surface the admin routes operate on. EventService is the
// Postgres implementation; tests substitute an in-memory one.
type EventStore interface {
	ListEvents(playerID string) ([]models.QuizEvent, error)
	PatchEvent(id uint, patch EventPatch) (*models.QuizEvent, error)
	DeleteEvent(id uint) error
}

// EventService is the admin CRUD layer over the hobbit_quiz_events table.
type EventService struct {
	DB *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{DB: db}
}

// EventPatch carries the only two fields the admin panel may change.
type EventPatch struct {
	HobbitName *string `json:"hobbitName"`
	EventType  *string `json:"eventType"`
}

// ListEvents returns events newest-first, optionally filtered by player id.
func (s *EventService) ListEvents(playerID string) ([]models.QuizEvent, error) {
	query := s.DB.Order("id DESC")
	if playerID != "" {
		query = query.Where("player_id = ?", playerID)
	}
	var events []models.QuizEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// PatchEvent updates an event's hobbit name and/or event type by id.
func (s *EventService) PatchEvent(id uint, patch EventPatch) (*models.QuizEvent, error) {
	updates := map[string]interface{}{}
	if patch.HobbitName != nil {
		updates["hobbit_name"] = *patch.HobbitName
	}
	if patch.EventType != nil {
		updates["event_type"] = *patch.EventType
	}
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	var event models.QuizEvent
	if err := s.DB.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if err := s.DB.Model(&event).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// DeleteEvent removes an event by id.
func (s *EventService) DeleteEvent(id uint) error {
	result := s.DB.Delete(&models.QuizEvent{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}
