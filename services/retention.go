// services/retention.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"hobbit-quiz-system/models"
	"hobbit-quiz-system/utils"

	"github.com/go-co-op/gocron/v2"
)

// StartRetentionScheduler archives and deletes events older than the given
// retention window. The archive store must be initialized first.
func (s *EventService) StartRetentionScheduler(retentionDays int) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Hourly: move expired events to the archive bucket
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			if err := s.archiveExpired(retentionDays); err != nil {
				log.Printf("[RETENTION] %v", err)
			}
		}),
	)
}

func (s *EventService) archiveExpired(retentionDays int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	var expired []models.QuizEvent
	if err := s.DB.Where("created_at < ?", cutoff).Order("id ASC").Find(&expired).Error; err != nil {
		return fmt.Errorf("failed to load expired events: %w", err)
	}
	if len(expired) == 0 {
		return nil
	}

	body, err := json.Marshal(expired)
	if err != nil {
		return fmt.Errorf("failed to encode archive: %w", err)
	}

	key := fmt.Sprintf("events/archive-%s.json", time.Now().UTC().Format("20060102-150405"))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := utils.UploadArchive(ctx, key, body); err != nil {
		// Rows stay in place until a later run succeeds.
		return err
	}

	ids := make([]uint, len(expired))
	for i, e := range expired {
		ids[i] = e.ID
	}
	if err := s.DB.Delete(&models.QuizEvent{}, ids).Error; err != nil {
		return fmt.Errorf("failed to delete archived events: %w", err)
	}

	log.Printf("[RETENTION] archived %d events to %s", len(expired), key)
	return nil
}
