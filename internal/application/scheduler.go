package application

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/davarch/jenkins-watcher/internal/domain"
	"go.uber.org/zap"
)

const workerCount = 2

type task struct {
	display bool
	done    func()
}

// Scheduler routes poll cycles through a fixed pool of two workers: one
// slot for the recurring timer line, one for ad-hoc refreshes, so a manual
// refresh is never stuck behind the periodic cadence. The recurring
// registration is replaceable at runtime via Configure.
type Scheduler struct {
	log      *zap.Logger
	poll     *Poller
	settings domain.SettingsProvider
	baseCtx  context.Context

	tasks chan task
	wg    sync.WaitGroup

	// recurringBusy keeps at most one recurring cycle queued or running;
	// a tick that fires while the previous one is still going is dropped,
	// preserving fixed-delay semantics.
	recurringBusy atomic.Bool

	mu              sync.Mutex
	cancelRecurring context.CancelFunc
	closed          bool
}

// NewScheduler starts the worker pool. Tasks execute under ctx, which the
// host owns; Shutdown stops new work but does not cancel in-flight cycles.
func NewScheduler(ctx context.Context, log *zap.Logger, poll *Poller, settings domain.SettingsProvider) *Scheduler {
	s := &Scheduler{
		log:      log,
		poll:     poll,
		settings: settings,
		baseCtx:  ctx,
		tasks:    make(chan task, workerCount),
	}
	for i := 0; i < workerCount; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

func (s *Scheduler) worker() {
	defer s.wg.Done()
	for t := range s.tasks {
		s.poll.Run(s.baseCtx, t.display)
		if t.done != nil {
			t.done()
		}
	}
}

// Configure replaces the recurring registration. The previous one is
// cancelled first; cancelling an already-stopped registration is a no-op.
// A period of zero or less leaves the recurring schedule disabled. Both the
// initial delay and the repeat delay equal period.
func (s *Scheduler) Configure(period time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelRecurring != nil {
		s.cancelRecurring()
		s.cancelRecurring = nil
	}

	if s.closed || period <= 0 {
		s.log.Info("recurring refresh disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelRecurring = cancel
	go s.runRecurring(ctx, period)
	s.log.Info("recurring refresh configured", zap.Duration("every", period))
}

func (s *Scheduler) runRecurring(ctx context.Context, period time.Duration) {
	t := time.NewTicker(period)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if !s.recurringBusy.CompareAndSwap(false, true) {
				s.log.Debug("previous refresh still running, skipping tick")
				continue
			}
			if !s.submit(task{display: true, done: func() { s.recurringBusy.Store(false) }}) {
				s.recurringBusy.Store(false)
			}
		}
	}
}

// TriggerOnce submits one immediate poll cycle, independent of the
// recurring registration. With display false the cycle silently primes the
// history baseline. Returns false if the pool is saturated or shut down.
func (s *Scheduler) TriggerOnce(display bool) bool {
	return s.submit(task{display: display})
}

func (s *Scheduler) submit(t task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.tasks <- t:
		return true
	default:
		s.log.Debug("poll already pending, dropping submission")
		return false
	}
}

// Shutdown stops accepting work, cancels the recurring registration and
// waits for the workers to drain. Safe to call more than once.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.cancelRecurring != nil {
		s.cancelRecurring()
		s.cancelRecurring = nil
	}
	close(s.tasks)
	s.mu.Unlock()

	s.wg.Wait()
}

// Init primes the history baseline without notifying.
func (s *Scheduler) Init() { s.TriggerOnce(false) }

// InitScheduledJobs applies the currently configured refresh period.
func (s *Scheduler) InitScheduledJobs() { s.Configure(s.settings.RefreshPeriod()) }

// Dispose is the host-facing shutdown hook.
func (s *Scheduler) Dispose() { s.Shutdown() }
