package services

import (
	"errors"
	"log"
	"sync"

	"hobbit-quiz-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressStore is durable best-effort key-value persistence for player
// progress. Each key is independent: there is no transactionality across
// keys. Implementations must never let a storage failure reach gameplay:
// writes are logged and dropped on error, missing or corrupt reads are
// reported as absent.
type ProgressStore interface {
	Get(profileID, key string) (string, bool)
	Set(profileID, key, value string)
	Delete(profileID string, keys ...string)
}

// GormProgressStore persists progress entries in the progress_entries table.
type GormProgressStore struct {
	DB *gorm.DB
}

func NewGormProgressStore(db *gorm.DB) *GormProgressStore {
	return &GormProgressStore{DB: db}
}

func (s *GormProgressStore) Get(profileID, key string) (string, bool) {
	var entry models.ProgressEntry
	err := s.DB.Where("profile_id = ? AND key = ?", profileID, key).First(&entry).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[PROGRESS] read %s/%s failed: %v", profileID, key, err)
		}
		return "", false
	}
	return entry.Value, true
}

func (s *GormProgressStore) Set(profileID, key, value string) {
	entry := models.ProgressEntry{ProfileID: profileID, Key: key, Value: value}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		// In-memory progress stays authoritative; the write is dropped.
		log.Printf("[PROGRESS] write %s/%s failed: %v", profileID, key, err)
	}
}

func (s *GormProgressStore) Delete(profileID string, keys ...string) {
	if len(keys) == 0 {
		return
	}
	err := s.DB.Where("profile_id = ? AND key IN ?", profileID, keys).
		Delete(&models.ProgressEntry{}).Error
	if err != nil {
		log.Printf("[PROGRESS] delete %s/%v failed: %v", profileID, keys, err)
	}
}

// MemoryProgressStore keeps progress in process memory. Used when no
// database is available and throughout the tests.
type MemoryProgressStore struct {
	mu      sync.Mutex
	entries map[string]map[string]string
}

func NewMemoryProgressStore() *MemoryProgressStore {
	return &MemoryProgressStore{entries: make(map[string]map[string]string)}
}

func (s *MemoryProgressStore) Get(profileID, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.entries[profileID][key]
	return value, ok
}

func (s *MemoryProgressStore) Set(profileID, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries[profileID] == nil {
		s.entries[profileID] = make(map[string]string)
	}
	s.entries[profileID][key] = value
}

func (s *MemoryProgressStore) Delete(profileID string, keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries[profileID], key)
	}
}
