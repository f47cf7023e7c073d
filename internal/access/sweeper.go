package access

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultSweepInterval = 10 * time.Minute

// Sweeper periodically drops idle gate subjects.
type Sweeper struct {
	gate   *Gate
	logger *zap.Logger

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewSweeper(gate *Gate, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		gate:     gate,
		logger:   logger,
		interval: defaultSweepInterval,
		stopCh:   make(chan struct{}),
	}
}

func (s *Sweeper) SetInterval(d time.Duration) {
	s.interval = d
}

// Start runs the sweeper on a periodic schedule in a background goroutine.
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("PIN gate sweeper started", zap.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				if n := s.gate.Sweep(); n > 0 {
					s.logger.Debug("swept idle PIN gate subjects", zap.Int("count", n))
				}
			case <-s.stopCh:
				s.logger.Info("PIN gate sweeper stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the sweeper.
func (s *Sweeper) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}
