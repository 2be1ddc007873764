package sweepers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/storekart/variant-service/internal/session"
)

// SessionSweeper periodically reclaims expired edit sessions
type SessionSweeper struct {
	store    *session.Store
	logger   *zerolog.Logger
	interval time.Duration
	stopChan chan struct{}
}

// NewSessionSweeper creates a new sweeper for edit-session maintenance
func NewSessionSweeper(store *session.Store, logger *zerolog.Logger, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		store:    store,
		logger:   logger,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (s *SessionSweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Msg("Starting session sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Session sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Session sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			if removed := s.store.SweepExpired(); removed > 0 {
				s.logger.Debug().Int("removed", removed).Msg("Expired sessions reclaimed")
			}
		}
	}
}

// Stop signals the sweeper to stop
func (s *SessionSweeper) Stop() {
	close(s.stopChan)
}
