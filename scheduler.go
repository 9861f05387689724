package shiftfanout

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FireFunc is invoked by the [Scheduler] when a shift's escalation is due.
type FireFunc func(ctx context.Context, shiftID string)

// Scheduler arms one deferred escalation per shift. It never cancels an
// individual timer: an escalation that fires against a shift which has since
// been claimed is expected to be a no-op for the receiver.
type Scheduler struct {
	mu      sync.Mutex
	pending map[string]struct{}
	closed  bool

	fire   FireFunc
	logger *zap.Logger

	// ctx is cancelled by Close, stopping every pending timer and telling
	// in-flight escalations to give up.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a new [Scheduler] that calls fire for each escalation
// that comes due.
func NewScheduler(fire FireFunc, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		pending: make(map[string]struct{}),
		fire:    fire,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Arm schedules fire(shiftID) to run once after delay. It does not block. Arm
// returns false, scheduling nothing, if an escalation for the shift is already
// pending or the scheduler has been closed.
func (s *Scheduler) Arm(shiftID string, delay time.Duration) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	if _, ok := s.pending[shiftID]; ok {
		s.mu.Unlock()
		return false
	}
	s.pending[shiftID] = struct{}{}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Debug("Escalation armed",
		zap.String("shift_id", shiftID),
		zap.Duration("delay", delay),
	)

	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
			s.disarm(shiftID)
			s.fire(s.ctx, shiftID)
		case <-s.ctx.Done():
			s.disarm(shiftID)
		}
	}()

	return true
}

func (s *Scheduler) disarm(shiftID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, shiftID)
}

// Pending returns the number of escalations waiting for their timer.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Closed reports whether Close has been called.
func (s *Scheduler) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close stops every pending timer and waits for escalations already running
// to return. It is safe to call more than once.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}
