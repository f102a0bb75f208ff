package session

import (
	"context"
	"sync"
	"time"
)

// RestTimer counts a rest period down one tick at a time. A stopped timer
// never calls onComplete, so a late tick cannot leak into a newer session state.
type RestTimer struct {
	mu         sync.Mutex
	duration   int
	remaining  int
	paused     bool
	stopped    bool
	cancel     context.CancelFunc
	onComplete func()
}

func NewRestTimer(duration int, onComplete func()) *RestTimer {
	return &RestTimer{
		duration:   duration,
		remaining:  duration,
		onComplete: onComplete,
	}
}

// Start runs the countdown on its own goroutine, one Tick per interval,
// until the timer expires, Stop is called or ctx is done.
func (t *RestTimer) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		cancel()
		return
	}
	t.cancel = cancel
	t.mu.Unlock()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if finished := t.Tick(); finished {
					return
				}
			}
		}
	}()
}

// Tick decrements the remaining time unless paused. It returns true once the
// timer is finished, either expired by this tick or stopped before.
func (t *RestTimer) Tick() bool {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return true
	}
	if t.paused {
		t.mu.Unlock()
		return false
	}

	t.remaining--
	if t.remaining > 0 {
		t.mu.Unlock()
		return false
	}

	t.remaining = 0
	t.stopped = true
	cancel := t.cancel
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if t.onComplete != nil {
		t.onComplete()
	}
	return true
}

// Stop releases the ticker. Safe to call more than once.
func (t *RestTimer) Stop() {
	t.mu.Lock()
	t.stopped = true
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (t *RestTimer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = true
}

func (t *RestTimer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = false
}

func (t *RestTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *RestTimer) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

func (t *RestTimer) Duration() int {
	return t.duration
}

// Elapsed is the share of the rest period already spent, in percent.
func (t *RestTimer) Elapsed() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.duration <= 0 {
		return 100
	}
	return float64(t.duration-t.remaining) / float64(t.duration) * 100
}
