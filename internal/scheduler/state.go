package scheduler

import (
	"sync"
	"time"

	"github.com/hotdeals/deal-harvester/internal/platform/models"
)

// runState guards the single-flight invariant: the check-and-set of the
// running flag happens under one lock, so concurrent manual and timer
// triggers can't both start a run.
type runState struct {
	mu              sync.Mutex
	status          models.RunStatus
	message         *string
	lastCompletedAt *time.Time
	running         bool
}

// tryStart atomically flips the state to running.
// Returns false when a run is already in flight.
func (s *runState) tryStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return false
	}

	s.running = true
	s.status = models.StatusRunning
	s.message = nil

	return true
}

// finish records the terminal status and clears the running flag.
func (s *runState) finish(status models.RunStatus, message *string, completedAt *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
	s.message = message
	if completedAt != nil {
		s.lastCompletedAt = completedAt
	}
	s.running = false
}

func (s *runState) snapshot() models.Run {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.Run{
		Status:          s.status,
		Message:         s.message,
		LastCompletedAt: s.lastCompletedAt,
		IsRunning:       s.running,
	}
}
