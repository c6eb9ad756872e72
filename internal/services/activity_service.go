package services

import (
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/graphlock/backend/internal/models"
)

// ActivityRecorder appends audit events. Recording is best-effort: a
// degraded audit store must never fail the enclosing operation.
type ActivityRecorder interface {
	Record(userID, action, ip string)
}

// ActivityService drains a buffered queue into activity_logs on a
// background goroutine, keeping the authentication path decoupled from
// audit storage availability.
type ActivityService struct {
	db    *sql.DB
	queue chan models.ActivityLog
	done  chan struct{}
}

func NewActivityService(db *sql.DB) *ActivityService {
	s := &ActivityService{
		db:    db,
		queue: make(chan models.ActivityLog, 256),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

// Record enqueues an audit entry without blocking. When the queue is
// full the entry is dropped with a log line rather than stalling the
// caller.
func (s *ActivityService) Record(userID, action, ip string) {
	entry := models.ActivityLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		IPAddress: ip,
		Timestamp: time.Now(),
	}

	select {
	case s.queue <- entry:
	default:
		log.Printf("[ACTIVITY] Queue full, dropping entry user=%s action=%s", userID, action)
	}
}

func (s *ActivityService) run() {
	defer close(s.done)
	for entry := range s.queue {
		_, err := s.db.Exec(
			"INSERT INTO activity_logs (id, user_id, action, ip_address, created_at) VALUES ($1, $2, $3, $4, $5)",
			entry.ID, entry.UserID, entry.Action, entry.IPAddress, entry.Timestamp)
		if err != nil {
			log.Printf("[ACTIVITY] Failed to persist entry user=%s action=%s: %v", entry.UserID, entry.Action, err)
		}
	}
}

// Close stops accepting entries and waits for the queue to drain.
func (s *ActivityService) Close() {
	close(s.queue)
	<-s.done
}
