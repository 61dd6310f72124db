package schedule

import (
	"sync"
	"sync/atomic"
	"time"
)

// Ticker schedules tasks on wall-clock time. Ticks are counted on a goroutine
// but the callbacks are posted to events, so they run on whichever loop
// drains that channel.
type Ticker struct {
	events chan<- func()
}

// NewTicker returns a Ticker that delivers callbacks on events.
func NewTicker(events chan<- func()) *Ticker {
	return &Ticker{events: events}
}

type tickerHandle struct {
	cancelled atomic.Bool
	once      sync.Once
	stop      chan struct{}
}

func (h *tickerHandle) Cancel() {
	h.cancelled.Store(true)
	h.once.Do(func() { close(h.stop) })
}

// guard wraps f so it does nothing once the handle is cancelled. The check
// happens on the event loop, which is also where Cancel is called.
func (h *tickerHandle) guard(f func()) func() {
	return func() {
		if h.cancelled.Load() {
			return
		}
		f()
	}
}

func (t *Ticker) Schedule(interval, total time.Duration, onTick func(time.Duration), onComplete func()) Handle {
	h := &tickerHandle{stop: make(chan struct{})}
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var n int64
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				n++
				left := remainingAfter(total, interval, n)
				var f func()
				if left == 0 {
					f = h.guard(func() {
						h.Cancel()
						onComplete()
					})
				} else {
					f = h.guard(func() { onTick(left) })
				}
				select {
				case <-h.stop:
					return
				case t.events <- f:
				}
				if left == 0 {
					return
				}
			}
		}
	}()

	return h
}
