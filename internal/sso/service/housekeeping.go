package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// HousekeepingService periodically removes expired sessions from durable
// storage so the sessions file or table does not grow without bound.
type HousekeepingService struct {
	Sessions *SessionService
	Logger   *slog.Logger
	Interval time.Duration

	// Internal state for lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(sessions *SessionService, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Sessions: sessions,
		Logger:   logger,
		Interval: interval,
	}
}

// Start begins the background worker that periodically runs cleanup.
// Call Stop() to gracefully shutdown the worker. Starting a running service
// does nothing.
func (s *HousekeepingService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.run(s.stopCh, s.doneCh)
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup. Stopping a
// service that is not running returns immediately.
func (s *HousekeepingService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false

	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-stopCh:
			return
		}
	}
}

// cleanup prunes expired sessions. Failures are logged and retried on the
// next tick.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()

	removed, err := s.Sessions.PruneExpired(ctx)
	if err != nil {
		s.Logger.Error("failed to prune expired sessions", "error", err)
		return
	}

	s.Logger.Info("housekeeping cleanup completed", "sessions_removed", removed)
}
