package session

import (
	"sync"
	"time"
)

// Scheduler calls a frame callback once per display refresh until stopped.
// Callbacks never overlap.
type Scheduler interface {
	Start(frame func(now time.Time))
	Stop()
}

// TickerScheduler drives frames from a time.Ticker on its own goroutine.
type TickerScheduler struct {
	Interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewTickerScheduler returns a scheduler firing fps times per second.
func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 60
	}
	return &TickerScheduler{Interval: time.Second / time.Duration(fps)}
}

// Start begins calling frame. Starting a running scheduler does nothing.
func (t *TickerScheduler) Start(frame func(now time.Time)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}

	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(frame, t.stop, t.done)
}

func (t *TickerScheduler) run(frame func(time.Time), stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			frame(now)
		}
	}
}

// Stop unsubscribes the callback and waits for an in-flight frame to
// finish. After Stop returns the callback is not called again. Stop must not
// be called from inside the callback.
func (t *TickerScheduler) Stop() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}
